// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package limiter

import (
	"math"
	"net/http"
	"strconv"
	"strings"

	"codeberg.org/phraseforge/phraseforge/server/routes"
	"github.com/rs/zerolog/log"
)

// Rate limiting header names.
//
// ref: https://www.ietf.org/archive/id/draft-polli-ratelimit-headers-02.html
const (
	HeaderRateLimitLimit     string = "RateLimit-Limit"
	HeaderRateLimitRemaining string = "RateLimit-Remaining"
	HeaderRateLimitReset     string = "RateLimit-Reset"
)

// excludedPaths are never rate limited.
var excludedPaths = []string{
	"/about",
	"/css/",
	"/img/",
	"/js/",
	"/robots.txt",
}

func isExcludedPath(path string) bool {
	for _, p := range excludedPaths {
		if strings.HasPrefix(path, p) {
			return true
		}
	}

	return false
}

// Evaluate is the limiter middleware.
func (l *Limiter) Evaluate(w http.ResponseWriter, r *http.Request, next http.Handler) {
	defer l.maybeCleanup()

	if isExcludedPath(r.URL.Path) {
		next.ServeHTTP(w, r)

		return
	}

	client, err := l.newClientInfo(r)
	if err != nil {
		routes.BlockPage(w, r, routes.BlockData{Reason: err.Error()}, http.StatusBadRequest)

		return
	}

	if allowed, blocked := l.checkIPLists(client); allowed {
		next.ServeHTTP(w, r)

		return
	} else if blocked {
		log.Warn().
			Str("ip", client.ip.String()).
			Str("network", client.network.String()).
			Msg("Request blocked, IP in block-list")

		routes.BlockPage(w, r, routes.BlockData{Reason: "IP in block-list"}, http.StatusForbidden)

		return
	}

	if !l.opts.FilterLocal && client.isLocalLink() {
		next.ServeHTTP(w, r)

		return
	}

	limWrapper := l.getOrCreateLimiter(client.network.String())

	if !l.allow(limWrapper) {
		log.Warn().
			Str("ip", client.ip.String()).
			Str("network", client.network.String()).
			Msg("Request blocked, exceeded rate limit")

		l.addRateLimitHeaders(w, limWrapper)
		routes.BlockPage(w, r, routes.BlockData{Reason: "Rate limit exceeded"}, http.StatusTooManyRequests)

		return
	}

	l.addRateLimitHeaders(w, limWrapper)
	next.ServeHTTP(w, r)
}

// addRateLimitHeaders adds rate limiting information to the response headers.
func (l *Limiter) addRateLimitHeaders(w http.ResponseWriter, limWrapper *limiterWrapper) {
	limWrapper.mu.Lock()
	defer limWrapper.mu.Unlock()

	limiter := limWrapper.limiter

	currentTokens := limiter.TokensAt(l.now())
	burst := limiter.Burst()
	limit := limiter.Limit()

	remaining := max(int(math.Min(float64(burst), currentTokens)), 0)

	// Seconds until the bucket is full again.
	var resetTime int64

	if currentTokens < float64(burst) && limit > 0 {
		resetTime = int64(math.Ceil((float64(burst) - currentTokens) / float64(limit)))
	}

	resetStr := strconv.FormatInt(resetTime, 10)

	w.Header().Set(HeaderRateLimitLimit, strconv.Itoa(burst))
	w.Header().Set(HeaderRateLimitRemaining, strconv.Itoa(remaining))
	w.Header().Set(HeaderRateLimitReset, resetStr)

	if remaining == 0 {
		w.Header().Set("Retry-After", resetStr)
	}
}
