// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package limiter is a middleware that rate limits HTTP requests per client network.

Clients are grouped by IP network (a /24 for IPv4 and a /48 for IPv6 by
default) and each network shares one token bucket. Pass-listed addresses skip
the limiter and block-listed ones are refused outright. Static files and the
about page are never limited.

The buckets can be saved to a file on shutdown and restored on start-up.
*/
package limiter
