// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
This package defines the cookie names used by this application.
*/
package cookie

type CookieName string

const (
	// RulesCookie holds the share code of the rule set last used on the index page.
	RulesCookie CookieName = "Rules"
	// LangCookie holds the preferred UI language as a BCP 47 tag.
	LangCookie CookieName = "Lang"
)

// IsHttpOnly reports whether scripts are kept away from the cookie.
func IsHttpOnly(name CookieName) bool {
	return name != LangCookie
}
