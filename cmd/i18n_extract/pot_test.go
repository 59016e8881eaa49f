// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScanTemplate(t *testing.T) {
	t.Parallel()

	refs := refSet{}
	scanTemplate("templates/index.html", strings.Join([]string{
		`<h1>{{.Tr "Translate"}}</h1>`,
		`{{range .Data.Rows}}<th>{{$.Tr "Original"}}</th>{{end}}`,
		`<p>{{.TrN "{{.Count}} word" "{{.Count}} words" .Data.Words}}</p>`,
		`<p>{{.Tr "Say \"hi\""}} {{.Tr "Translate"}}</p>`,
		`<p>{{.Title}}</p>`,
	}, "\n"), refs)

	assert.Equal(t, refSet{
		{id: "Translate"}: {{file: "templates/index.html", line: 1}, {file: "templates/index.html", line: 4}},
		{id: "Original"}:  {{file: "templates/index.html", line: 2}},
		{id: "{{.Count}} word", plural: "{{.Count}} words"}: {{file: "templates/index.html", line: 3}},
		{id: `Say "hi"`}: {{file: "templates/index.html", line: 4}},
	}, refs)
}

func TestExtractTemplates(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{
		"templates/about.html": {Data: []byte(`{{.Tr "About"}}`)},
		"templates/notes.txt":  {Data: []byte(`{{.Tr "Ignored"}}`)},
	}

	refs := refSet{}
	require.NoError(t, extractTemplates(fsys, "templates", refs))

	assert.Equal(t, refSet{{id: "About"}: {{file: "templates/about.html", line: 1}}}, refs)
}

func TestWritePOT(t *testing.T) {
	t.Parallel()

	refs := refSet{
		{id: "Translate"}: {{file: "b.go", line: 9}, {file: "a.go", line: 3}, {file: "a.go", line: 3}},
		{id: "{{.Count}} word", plural: "{{.Count}} words"}: {{file: "a.go", line: 1}},
		{ctx: "grammar", id: "None"}:                        {{file: "c.go", line: 2}},
	}

	var b strings.Builder
	require.NoError(t, writePOT(&b, refs, "v1.2.0", time.Date(2025, 3, 14, 9, 26, 0, 0, time.UTC)))

	out := b.String()

	assert.Contains(t, out, "\"Project-Id-Version: PhraseForge v1.2.0\\n\"\n")
	assert.Contains(t, out, "\"POT-Creation-Date: 2025-03-14 09:26+0000\\n\"\n")
	assert.Contains(t, out, "\n#: a.go:3 b.go:9\nmsgid \"Translate\"\nmsgstr \"\"\n")
	assert.Contains(t, out,
		"\n#: a.go:1\nmsgid \"{{.Count}} word\"\nmsgid_plural \"{{.Count}} words\"\nmsgstr[0] \"\"\nmsgstr[1] \"\"\n")
	assert.Contains(t, out, "\n#: c.go:2\nmsgctxt \"grammar\"\nmsgid \"None\"\n")

	// Entries without a context sort first.
	assert.Less(t, strings.Index(out, `msgid "Translate"`), strings.Index(out, `msgctxt "grammar"`))
}
