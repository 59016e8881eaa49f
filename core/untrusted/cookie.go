// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"
	"net/url"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/cookie"
	"codeberg.org/phraseforge/phraseforge/server/utils"
)

// CookieSameSite keeps cookies on top-level navigations from shared links.
const CookieSameSite = http.SameSiteLaxMode

// Cookies will expire in 30 days from when they are set.
const cookieMaxAge = 30 * 24 * time.Hour

// maxCookieValueLength keeps a cookie within what browsers accept.
const maxCookieValueLength = 4000

// Clear a cookie by setting its expiration date to this.
var cookieExpireDelete = time.Unix(0, 0).UTC()

func newCookie(name cookie.CookieName, value string, expires time.Time, isSecure bool) http.Cookie {
	return http.Cookie{
		Name:     string(name),
		Value:    value,
		Path:     "/",
		Expires:  expires,
		Secure:   isSecure,
		HttpOnly: cookie.IsHttpOnly(name),
		SameSite: CookieSameSite,
	}
}

// GetCookie returns the unescaped value of the cookie, or "" when it is
// absent or malformed.
func GetCookie(r *http.Request, name cookie.CookieName) string {
	c, err := r.Cookie(string(name))
	if err != nil {
		return ""
	}

	value, err := url.QueryUnescape(c.Value)
	if err != nil {
		return ""
	}

	return value
}

// SetCookie stores value under name, or clears the cookie when value is empty.
// It reports false when value is too long to store.
func SetCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName, value string) bool {
	if value == "" {
		ClearCookie(w, r, name)

		return true
	}

	escaped := url.QueryEscape(value)
	if len(escaped) > maxCookieValueLength {
		return false
	}

	c := newCookie(name, escaped, time.Now().Add(cookieMaxAge), utils.IsConnectionSecure(r))
	http.SetCookie(w, &c)

	return true
}

func ClearCookie(w http.ResponseWriter, r *http.Request, name cookie.CookieName) {
	c := newCookie(name, "", cookieExpireDelete, utils.IsConnectionSecure(r))
	c.MaxAge = -1
	http.SetCookie(w, &c)
}
