package net

import (
	"log/slog"
	"net"
	"net/netip"
)

// OutgoingIP finds the local IPv4 address other machines on the LAN are most
// likely to reach us on. No packet is sent: dialing UDP only picks a route.
func OutgoingIP(log *slog.Logger) netip.Addr {
	conn, err := net.Dial("udp4", "8.8.8.8:80")
	if err != nil {
		// Offline networks: fall back to scanning interfaces.
		return interfaceIP(log)
	}
	defer conn.Close()

	if addr, ok := conn.LocalAddr().(*net.UDPAddr); ok {
		if ip, ok := netip.AddrFromSlice(addr.IP); ok {
			return ip.Unmap()
		}
	}
	return interfaceIP(log)
}

func interfaceIP(log *slog.Logger) netip.Addr {
	ifaces, err := net.Interfaces()
	if err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			addrs, _ := iface.Addrs()
			for _, a := range addrs {
				if ipnet, ok := a.(*net.IPNet); ok && ipnet.IP.To4() != nil {
					if ip, ok := netip.AddrFromSlice(ipnet.IP.To4()); ok {
						return ip
					}
				}
			}
		}
	}
	if log != nil {
		log.Warn("No suitable local IP found, using loopback")
	}
	return netip.AddrFrom4([4]byte{127, 0, 0, 1})
}
