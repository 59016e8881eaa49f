// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"maps"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"codeberg.org/phraseforge/phraseforge/config"
)

var (
	// baseHeaders defines the default headers to be set in responses.
	//
	// PhraseForge-Version and PhraseForge-Revision are added in SetResponseHeaders.
	baseHeaders = http.Header{
		"Referrer-Policy":         {"no-referrer"},
		"X-Frame-Options":         {"DENY"},
		"X-Content-Type-Options":  {"nosniff"},
		"Permissions-Policy":      {strings.Join(defaultPermissionsPolicy, ", ")},
		"Content-Security-Policy": {strings.Join(contentSecurityPolicy, "; ") + ";"},
	}

	contentSecurityPolicy = []string{
		"base-uri 'self'",
		"default-src 'self'",
		"script-src 'self'",
		"style-src 'self'",
		"img-src 'self' data:",
		"connect-src 'self'",
		"form-action 'self'",
		"frame-ancestors 'none'",
	}

	defaultPermissionsPolicy = []string{
		"camera=()",
		"display-capture=()",
		"geolocation=()",
		"microphone=()",
		"payment=()",
		"usb=()",
	}
)

// SetResponseHeaders adds default headers to HTTP responses.
func SetResponseHeaders(w http.ResponseWriter, r *http.Request, next http.Handler) {
	headers := w.Header()

	maps.Insert(headers, maps.All(baseHeaders))

	if config.Global.Development.InDevelopment {
		invalidateCacheInDevelopment(headers)
	}

	headers.Set("Cache-Control", cacheControl(r.URL.Path))
	headers.Set("PhraseForge-Version", config.BuildVersion)
	headers.Set("PhraseForge-Revision", config.Global.Build.Revision())

	next.ServeHTTP(w, r)
}

var clearSiteDataOnce sync.Once

// invalidateCacheInDevelopment clears the browser cache on the first response.
func invalidateCacheInDevelopment(headers http.Header) {
	clearSiteDataOnce.Do(func() {
		headers.Set("Clear-Site-Data", `"cache"`)
	})
}

// cacheControl picks the Cache-Control value for path.
//
// Pages and API responses depend on cookies and are never shared.
func cacheControl(path string) string {
	switch {
	case strings.HasPrefix(path, "/js/"), strings.HasPrefix(path, "/css/"):
		// Links to these carry the cache ID, which changes on every start.
		return "public, max-age=604800"
	case path == "/robots.txt", path == "/about":
		maxAge := config.Global.HTTPCache.MaxAge
		if maxAge <= 0 {
			return "no-cache"
		}

		value := "public, max-age=" + seconds(maxAge)
		if swr := config.Global.HTTPCache.StaleWhileRevalidate; swr > 0 {
			value += ", stale-while-revalidate=" + seconds(swr)
		}

		return value
	default:
		return "private, no-cache"
	}
}

func seconds(d time.Duration) string {
	return strconv.FormatInt(int64(d/time.Second), 10)
}
