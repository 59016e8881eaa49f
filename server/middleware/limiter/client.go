// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"errors"
	"net/http"
	"net/netip"
)

var errMissingClientIP = errors.New("missing client IP")

// clientInfo is the limiter's view of the client behind a request.
type clientInfo struct {
	ip      netip.Addr
	network netip.Prefix
}

// newClientInfo resolves the client address and network of r.
func (l *Limiter) newClientInfo(r *http.Request) (clientInfo, error) {
	ip, ok := getClientIP(r)
	if !ok {
		return clientInfo{}, errMissingClientIP
	}

	return clientInfo{
		ip:      ip,
		network: getNetwork(ip, l.opts.IPv4Prefix, l.opts.IPv6Prefix),
	}, nil
}

// checkIPLists reports whether the client is pass-listed or block-listed.
// The pass list wins when both match.
func (l *Limiter) checkIPLists(c clientInfo) (allowed, blocked bool) {
	if ipMatchesList(c.ip, l.opts.PassIPs) {
		return true, false
	}

	return false, ipMatchesList(c.ip, l.opts.BlockIPs)
}

// isLocalLink reports whether the client has a link-local address
// (169.254.0.0/16 or fe80::/10).
func (c clientInfo) isLocalLink() bool {
	return c.ip.IsLinkLocalUnicast()
}
