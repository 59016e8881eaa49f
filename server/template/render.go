// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package template renders the HTML pages.

Each page under templates/ defines a "content" block and is parsed together
with templates/layout.html, which defines "layout". Pages execute with a
[Page] value, whose Tr and TrN methods translate strings for the request.
*/
package template

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"
	"sync"

	"codeberg.org/phraseforge/phraseforge/i18n"
	"codeberg.org/phraseforge/phraseforge/server/assets"
	"codeberg.org/phraseforge/phraseforge/server/request_context"
	"codeberg.org/phraseforge/phraseforge/server/template/commondata"
)

const (
	templateDir  = "templates"
	layoutFile   = "layout.html"
	layoutTmpl   = "layout"
	pageFileType = ".html"
)

// ErrUnknownPage is returned by Render for a page that has no template.
var ErrUnknownPage = errors.New("unknown page")

// Page is the value every page template executes with.
type Page struct {
	ctx context.Context

	// Title is already translated.
	Title     string
	Common    commondata.PageCommonData
	RequestID string
	Data      any
}

// NewPage prepares a page for r, translating title into the request language.
func NewPage(r *http.Request, title i18n.MsgKey, data any) Page {
	rc := request_context.FromRequest(r)

	return Page{
		ctx:       r.Context(),
		Title:     title.Tr(r.Context()),
		Common:    rc.CommonData,
		RequestID: rc.RequestID,
		Data:      data,
	}
}

// Tr translates msgid. See i18n.Tr.
func (p Page) Tr(msgid string, kv ...any) string {
	return i18n.Tr(p.context(), msgid, kv...)
}

// TrN translates a message with a plural form, making n available as {{.Count}}.
func (p Page) TrN(singular, plural string, n int) string {
	return i18n.TrN(p.context(), singular, plural, n, "Count", n)
}

func (p Page) context() context.Context {
	if p.ctx == nil {
		return context.Background()
	}

	return p.ctx
}

var pages = sync.OnceValues(func() (map[string]*template.Template, error) {
	return parsePages(assets.FS)
})

// Load parses the page templates. Render calls it too; calling it at
// start-up turns a broken template into a start-up failure.
func Load() error {
	_, err := pages()

	return err
}

func parsePages(fsys fs.FS) (map[string]*template.Template, error) {
	entries, err := fs.ReadDir(fsys, templateDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read templates: %w", err)
	}

	parsed := make(map[string]*template.Template, len(entries))

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || fileName == layoutFile || path.Ext(fileName) != pageFileType {
			continue
		}

		tmpl, err := template.New(layoutFile).
			Funcs(funcMap).
			ParseFS(fsys, path.Join(templateDir, layoutFile), path.Join(templateDir, fileName))
		if err != nil {
			return nil, fmt.Errorf("failed to parse template %s: %w", fileName, err)
		}

		parsed[strings.TrimSuffix(fileName, pageFileType)] = tmpl
	}

	return parsed, nil
}

// Render writes the page called name, such as "index" for templates/index.html.
//
// Nothing is written if the template fails, so the caller can still send an
// error page.
func Render(w http.ResponseWriter, status int, name string, page Page) error {
	all, err := pages()
	if err != nil {
		return err
	}

	tmpl, ok := all[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownPage, name)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, layoutTmpl, page); err != nil {
		return fmt.Errorf("failed to render %s: %w", name, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	_, err = buf.WriteTo(w)

	return err
}
