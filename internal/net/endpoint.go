package net

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/netip"
	"strings"
)

var ErrEmptyHost = errors.New("host is empty")

// Endpoint identifies a datagram peer. Two endpoints are equal when address
// and port are equal, so Endpoint can be compared with == and used as a key.
type Endpoint struct {
	Addr netip.Addr
	Port uint16
}

// Valid reports whether e can be sent to.
func (e Endpoint) Valid() bool {
	return e.Addr.IsValid() && e.Port != 0
}

func (e Endpoint) AddrPort() netip.AddrPort {
	return netip.AddrPortFrom(e.Addr, e.Port)
}

func (e Endpoint) String() string {
	if !e.Addr.IsValid() {
		return fmt.Sprintf("<invalid>:%d", e.Port)
	}
	return fmt.Sprintf("%s:%d", e.Addr, e.Port)
}

func EndpointFrom(ap netip.AddrPort) Endpoint {
	return Endpoint{Addr: ap.Addr().Unmap(), Port: ap.Port()}
}

// ParseEndpoint accepts an IP literal only.
func ParseEndpoint(host string, port uint16) (Endpoint, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return Endpoint{}, ErrEmptyHost
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return Endpoint{}, fmt.Errorf("invalid host %q: %w", host, err)
	}
	return Endpoint{Addr: addr.Unmap(), Port: port}, nil
}

// ResolveEndpoint accepts an IP literal or a host name, preferring IPv4
// addresses since the transport binds IPv4 only.
func ResolveEndpoint(ctx context.Context, host string, port uint16) (Endpoint, error) {
	if ep, err := ParseEndpoint(host, port); err == nil || errors.Is(err, ErrEmptyHost) {
		return ep, err
	}
	host = strings.TrimSpace(host)
	addrs, err := net.DefaultResolver.LookupNetIP(ctx, "ip4", host)
	if err != nil {
		return Endpoint{}, fmt.Errorf("resolve %q: %w", host, err)
	}
	if len(addrs) == 0 {
		return Endpoint{}, fmt.Errorf("resolve %q: no IPv4 address", host)
	}
	return Endpoint{Addr: addrs[0].Unmap(), Port: port}, nil
}
