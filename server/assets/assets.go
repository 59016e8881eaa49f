// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package assets provides access to the application's embedded files:

	static/     files served as they are (stylesheets, scripts, robots.txt)
	templates/  html/template sources for the pages
	po/         gettext catalogues for the UI
*/
package assets

import (
	"embed"
	"io/fs"
)

//go:embed static templates po
var FS embed.FS

// Static returns the files served under the site root.
func Static() fs.FS {
	static, err := fs.Sub(FS, "static")
	if err != nil {
		panic(err)
	}

	return static
}
