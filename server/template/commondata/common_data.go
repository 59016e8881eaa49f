// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package commondata

import (
	"net/http"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/i18n"
	"codeberg.org/phraseforge/phraseforge/server/utils"
)

// PageCommonData holds common variables accessible in templates and handlers.
//
// It is populated for each request and attached to the
// requestcontext.RequestContext.
type PageCommonData struct {
	// BaseURL is the public origin of the instance: the configured base URL,
	// or the origin (scheme + host) of the current request.
	BaseURL string

	// CurrentPath is the URL path from request (e.g., "/about").
	CurrentPath string

	// CurrentPathWithParams is the full request URI including query parameters.
	CurrentPathWithParams string

	// FullURL is BaseURL joined with CurrentPath, not including query parameters.
	FullURL string

	// Lang is the tag of the UI language picked for the request.
	Lang string

	Languages []i18n.Language

	Version  string
	Revision string
	RepoURL  string

	// CacheID busts browser caches of static assets after a restart.
	CacheID string
}

// PopulatePageCommonData fills the PageCommonData struct from the request.
func PopulatePageCommonData(r *http.Request, data *PageCommonData) {
	data.BaseURL = config.Global.PublicBase()
	if data.BaseURL == "" {
		data.BaseURL = utils.GetOriginFromRequest(r)
	}

	data.CurrentPath = r.URL.Path
	data.CurrentPathWithParams = r.URL.RequestURI()
	data.FullURL = data.BaseURL + r.URL.Path

	data.Lang = i18n.TagFrom(r.Context()).String()
	data.Languages = i18n.Languages()

	data.Version = config.BuildVersion
	data.Revision = config.Global.Build.Revision()
	data.RepoURL = config.Global.Instance.RepoURL
	data.CacheID = config.Global.Instance.FileServerCacheID
}
