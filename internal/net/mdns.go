package net

import (
	"fmt"
	"log/slog"
	"net"
	"net/netip"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/mdns"

	"ScriptBoard/internal/logging"
)

// Role says which side of the exchange an advertised endpoint is.
type Role string

const (
	RoleEditor Role = "editor"
	RoleRunner Role = "runner"
)

// ServiceType is the DNS-SD service name for role.
func (r Role) ServiceType() string {
	return fmt.Sprintf("_scriptboard-%s._udp", r)
}

// Discovered is one endpoint found by Browse.
type Discovered struct {
	Role     Role
	Instance string
	Host     string
	Endpoint Endpoint
}

// Advertiser announces a bound endpoint on the LAN until Shutdown.
type Advertiser struct {
	server *mdns.Server
}

// Advertise announces that role is listening on port. Instance names get a
// random suffix so several processes on one host stay distinct.
func Advertise(role Role, port uint16, log *slog.Logger) (*Advertiser, error) {
	log = logging.For(log, logging.CategoryDiscovery)

	host, err := os.Hostname()
	if err != nil {
		return nil, fmt.Errorf("could not get hostname: %w", err)
	}
	instance := fmt.Sprintf("%s-%s", host, uuid.NewString()[:8])
	ip := OutgoingIP(log)

	service, err := mdns.NewMDNSService(
		instance,
		role.ServiceType(),
		"",
		"",
		int(port),
		[]net.IP{net.IP(ip.AsSlice())},
		[]string{"ScriptBoard", "role=" + string(role)},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create mDNS service: %w", err)
	}

	server, err := mdns.NewServer(&mdns.Config{Zone: service})
	if err != nil {
		return nil, fmt.Errorf("failed to start mDNS server: %w", err)
	}
	log.Info("Advertising endpoint", "role", role, "instance", instance, "addr", ip, "port", port)
	return &Advertiser{server: server}, nil
}

func (a *Advertiser) Shutdown() error {
	if a == nil || a.server == nil {
		return nil
	}
	return a.server.Shutdown()
}

// Browse looks for role on the LAN for timeout and calls found for every
// usable answer. found runs on a background goroutine.
func Browse(role Role, timeout time.Duration, found func(Discovered)) error {
	entries := make(chan *mdns.ServiceEntry, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for e := range entries {
			if d, ok := discoveredFrom(role, e); ok {
				found(d)
			}
		}
	}()

	params := mdns.DefaultParams(role.ServiceType())
	params.Entries = entries
	params.Timeout = timeout
	params.DisableIPv6 = true
	err := mdns.Query(params)
	close(entries)
	<-done
	return err
}

func discoveredFrom(role Role, e *mdns.ServiceEntry) (Discovered, bool) {
	if e == nil || e.AddrV4 == nil || e.Port <= 0 || e.Port > 65535 {
		return Discovered{}, false
	}
	addr, ok := netip.AddrFromSlice(e.AddrV4.To4())
	if !ok {
		return Discovered{}, false
	}
	instance := e.Name
	if i := strings.Index(instance, "."+role.ServiceType()); i > 0 {
		instance = instance[:i]
	}
	return Discovered{
		Role:     role,
		Instance: instance,
		Host:     strings.TrimSuffix(e.Host, "."),
		Endpoint: Endpoint{Addr: addr, Port: uint16(e.Port)},
	}, true
}
