// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package routes holds the HTTP handlers of the web interface and the JSON API.

Page handlers render templates from the template package. API handlers, all
under /api/, speak JSON and report failures as JSON objects with an "error"
field. Handlers return an error only for failures they cannot report
themselves; middleware.CatchError turns those into an error page.
*/
package routes

import (
	"time"

	"codeberg.org/phraseforge/phraseforge/core/app"
	"codeberg.org/phraseforge/phraseforge/core/memo"
	"codeberg.org/phraseforge/phraseforge/core/random"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
)

// Options configures the handlers.
type Options struct {
	// Storage names the saved rule set backend shown on the about page.
	Storage string

	// CacheStats reports on the translation cache. Nil when it is disabled.
	CacheStats func() memo.Stats

	StartedAt time.Time

	// Random generates rule sets for the random action and GET /api/random.
	// Defaults to random.Generate with a fresh source.
	Random func() ruleset.RuleSet
}

// Routes serves the pages and the API for one App.
type Routes struct {
	app  *app.App
	opts Options
}

// New returns the handlers for a.
func New(a *app.App, opts Options) *Routes {
	if opts.Random == nil {
		opts.Random = func() ruleset.RuleSet { return random.Generate(nil) }
	}

	if opts.StartedAt.IsZero() {
		opts.StartedAt = time.Now()
	}

	return &Routes{app: a, opts: opts}
}
