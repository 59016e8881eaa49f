// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package set_request_context

import (
	"net/http"
	"strings"

	"codeberg.org/phraseforge/phraseforge/core/cookie"
	"codeberg.org/phraseforge/phraseforge/core/untrusted"
	"codeberg.org/phraseforge/phraseforge/i18n"
	"codeberg.org/phraseforge/phraseforge/server/request_context"
	"codeberg.org/phraseforge/phraseforge/server/utils"
)

// WithRequestContext is a middleware that attaches a RequestContext to each HTTP request.
//
// A language picked with the lang query parameter is remembered in the Lang
// cookie; "auto" forgets it.
func WithRequestContext(w http.ResponseWriter, r *http.Request, next http.Handler) {
	r = r.WithContext(request_context.WithRequestContext(r.Context(), r))

	if lang := utils.GetQueryParam(r, i18n.LangParam); lang != "" {
		if strings.EqualFold(lang, "auto") {
			untrusted.ClearCookie(w, r, cookie.LangCookie)
		} else {
			untrusted.SetCookie(w, r, cookie.LangCookie, request_context.FromRequest(r).T.String())
		}
	}

	next.ServeHTTP(w, r)
}
