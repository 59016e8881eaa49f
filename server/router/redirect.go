// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Short share links (/s/<code>) redirect to the translator with the code in
// the rules query parameter.

package router

import (
	"net/http"
	"net/url"

	"codeberg.org/phraseforge/phraseforge/server/utils"
)

// redirectWithPathVar is a helper function to redirect requests to
// a target path, carrying a path variable over as a query parameter.
//
// Example:   /s/<code>   ->   /?rules=<code>
func redirectWithPathVar(targetPath, pathVar, queryParam string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := url.Values{}
		query.Set(queryParam, utils.GetPathVar(r, pathVar))

		http.Redirect(w, r, targetPath+"?"+query.Encode(), http.StatusPermanentRedirect)
	}
}
