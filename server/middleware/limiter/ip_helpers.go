// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"net"
	"net/http"
	"net/netip"
	"strings"

	"github.com/rs/zerolog/log"
)

// IPv4 and IPv6 address lengths as measured in bits.
const (
	ipv4BitLength = 32
	ipv6BitLength = 128
)

// getClientIP extracts the client's IP address from an HTTP request with proxy awareness.
//
// Proxy headers (X-Real-IP, X-Forwarded-For) are only trusted when the connection
// comes from a private or loopback address.
func getClientIP(r *http.Request) (netip.Addr, bool) {
	remoteIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(remoteIP); err == nil {
		remoteIP = host
	}

	remote, err := netip.ParseAddr(remoteIP)
	if err != nil {
		log.Error().Str("remote_addr", r.RemoteAddr).Msg("Could not determine client IP")

		return netip.Addr{}, false
	}

	remote = remote.Unmap()

	if !remote.IsPrivate() && !remote.IsLoopback() {
		return remote, true
	}

	if realIP := strings.TrimSpace(r.Header.Get("X-Real-IP")); realIP != "" {
		if addr, err := netip.ParseAddr(realIP); err == nil {
			return addr.Unmap(), true
		}
	}

	// The last X-Forwarded-For entry was added by the proxy we trust.
	if xff := strings.TrimSpace(r.Header.Get("X-Forwarded-For")); xff != "" {
		parts := strings.Split(xff, ",")

		if addr, err := netip.ParseAddr(strings.TrimSpace(parts[len(parts)-1])); err == nil {
			return addr.Unmap(), true
		}
	}

	return remote, true
}

// ipMatchesList checks if ip equals any of the entries or lies within one of them.
// Entries that are neither an address nor a CIDR range are ignored.
func ipMatchesList(ip netip.Addr, entries []string) bool {
	for _, entry := range entries {
		if addr, err := netip.ParseAddr(entry); err == nil {
			if addr.Unmap() == ip {
				return true
			}

			continue
		}

		if prefix, err := netip.ParsePrefix(entry); err == nil && prefix.Contains(ip) {
			return true
		}
	}

	return false
}

// getNetwork returns the network ip belongs to, using the prefix length for its family.
func getNetwork(ip netip.Addr, ipv4Prefix, ipv6Prefix int) netip.Prefix {
	bits := min(max(ipv6Prefix, 0), ipv6BitLength)
	if ip.Is4() {
		bits = min(max(ipv4Prefix, 0), ipv4BitLength)
	}

	network, err := ip.Prefix(bits)
	if err != nil {
		return netip.PrefixFrom(ip, ip.BitLen())
	}

	return network
}
