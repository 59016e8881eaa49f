// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"time"

	"codeberg.org/phraseforge/phraseforge/i18n"
	"codeberg.org/phraseforge/phraseforge/server/template"
)

type aboutData struct {
	StartedAt    time.Time
	Storage      string
	CacheEnabled bool
	CacheLine    string
}

// AboutPage is the handler for the /about page.
func (rt *Routes) AboutPage(w http.ResponseWriter, r *http.Request) error {
	data := aboutData{
		StartedAt: rt.opts.StartedAt,
		Storage:   rt.opts.Storage,
	}

	if rt.opts.CacheStats != nil {
		stats := rt.opts.CacheStats()

		data.CacheEnabled = true
		data.CacheLine = i18n.TrN(r.Context(),
			"{{.Entries}} of {{.Capacity}} entry", "{{.Entries}} of {{.Capacity}} entries", stats.Capacity,
			"Entries", template.PrettyNumber(stats.Entries), "Capacity", template.PrettyNumber(stats.Capacity))
	}

	return template.Render(w, http.StatusOK, "about", template.NewPage(r, "About", data))
}
