// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"codeberg.org/phraseforge/phraseforge/server/middleware"
	"codeberg.org/phraseforge/phraseforge/server/middleware/limiter"
	"codeberg.org/phraseforge/phraseforge/server/middleware/set_request_context"
)

// RegisterMiddleware installs the middleware chain. lim may be nil when rate
// limiting is disabled; the caller owns its Init and Fini.
func (router *Router) RegisterMiddleware(lim *limiter.Limiter) {
	// the first middleware is the most outer / first executed one
	router.Use(middleware.WithServerTiming)
	router.Use(middleware.NormalizeURL)                // handle trailing slashes
	router.Use(set_request_context.WithRequestContext) // needed for everything else
	router.Use(middleware.SetResponseHeaders)          // all pages need this

	if lim != nil {
		router.Use(lim.Evaluate)
	}
}
