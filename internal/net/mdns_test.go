package net

import (
	"net"
	"net/netip"
	"testing"

	"github.com/hashicorp/mdns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestServiceType(t *testing.T) {
	assert.Equal(t, "_scriptboard-runner._udp", RoleRunner.ServiceType())
	assert.Equal(t, "_scriptboard-editor._udp", RoleEditor.ServiceType())
}

func TestDiscoveredFromEntry(t *testing.T) {
	d, ok := discoveredFrom(RoleRunner, &mdns.ServiceEntry{
		Name:   "lab-pc-1a2b3c4d._scriptboard-runner._udp.local.",
		Host:   "lab-pc.local.",
		AddrV4: net.IPv4(192, 168, 1, 20),
		Port:   45455,
	})
	require.True(t, ok)
	assert.Equal(t, "lab-pc-1a2b3c4d", d.Instance)
	assert.Equal(t, "lab-pc.local", d.Host)
	assert.Equal(t, Endpoint{Addr: netip.MustParseAddr("192.168.1.20"), Port: 45455}, d.Endpoint)
}

func TestDiscoveredFromSkipsUnusableEntries(t *testing.T) {
	_, ok := discoveredFrom(RoleRunner, &mdns.ServiceEntry{Name: "x", Port: 45455})
	assert.False(t, ok, "no IPv4 address")

	_, ok = discoveredFrom(RoleRunner, &mdns.ServiceEntry{Name: "x", AddrV4: net.IPv4(10, 0, 0, 1)})
	assert.False(t, ok, "no port")

	_, ok = discoveredFrom(RoleRunner, nil)
	assert.False(t, ok)
}
