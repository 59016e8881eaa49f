// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package middleware

import (
	"net/http"
	"strings"
)

// NormalizeURL redirects paths with a trailing slash, other than the root,
// to the same path without it.
func NormalizeURL(w http.ResponseWriter, r *http.Request, next http.Handler) {
	if !hasTrailingSlash(r) {
		next.ServeHTTP(w, r)

		return
	}

	target := *r.URL
	// Leading slashes are collapsed too, since "//host" would leave the site.
	target.Path = "/" + strings.Trim(target.Path, "/")
	target.RawPath = ""
	target.Scheme = ""
	target.Host = ""

	http.Redirect(w, r, target.String(), http.StatusPermanentRedirect)
}

func hasTrailingSlash(r *http.Request) bool {
	return r.URL.Path != "/" && strings.HasSuffix(r.URL.Path, "/")
}
