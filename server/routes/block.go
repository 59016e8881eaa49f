// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"

	"codeberg.org/phraseforge/phraseforge/server/template"
	"github.com/rs/zerolog/log"
)

type BlockData struct {
	Reason string `json:"reason"`
}

// BlockPage tells a client that its request was refused with statusCode.
//
// API requests get the reason as JSON, everything else the error page.
func BlockPage(w http.ResponseWriter, r *http.Request, data BlockData, statusCode int) {
	w.Header().Set("Cache-Control", "no-store")

	if isAPI(r) {
		writeJSON(w, statusCode, data)

		return
	}

	page := template.NewPage(r, "Error", errorData{Status: statusCode, Message: data.Reason})

	if err := template.Render(w, statusCode, "error", page); err != nil {
		log.Err(err).Msg("Failed to render block page")
		http.Error(w, data.Reason, statusCode)
	}
}
