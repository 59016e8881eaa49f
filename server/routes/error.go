// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"net/http"
	"strings"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/i18n"
	"codeberg.org/phraseforge/phraseforge/server/request_context"
	"codeberg.org/phraseforge/phraseforge/server/template"
	"github.com/rs/zerolog/log"
)

type errorData struct {
	Status  int
	Message string
}

// ErrorPage renders an error page for the status and error recorded in the
// request context. Requests under /api/ get a JSON object instead.
func ErrorPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")

	rc := request_context.FromRequest(r)

	status := rc.StatusCode
	if status < http.StatusBadRequest {
		status = http.StatusInternalServerError
	}

	title := i18n.MsgKey("Error")
	message := i18n.Tr(r.Context(), "Something went wrong.")

	if status == http.StatusNotFound {
		title = "Page not found"
		message = title.Tr(r.Context())
	}

	// Internal errors are only shown to developers.
	if rc.RequestError != nil && config.Global.Development.InDevelopment {
		message = rc.RequestError.Error()
	}

	if isAPI(r) {
		writeJSON(w, status, apiError{Error: message, RequestID: rc.RequestID})

		return
	}

	page := template.NewPage(r, title, errorData{Status: status, Message: message})

	if err := template.Render(w, status, "error", page); err != nil {
		log.Err(err).Msg("Failed to render error page")
		http.Error(w, message, status)
	}
}

func isAPI(r *http.Request) bool {
	return strings.HasPrefix(r.URL.Path, "/api/")
}
