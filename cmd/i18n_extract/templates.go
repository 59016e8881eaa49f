// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"io/fs"
	"path"
	"regexp"
	"strconv"
	"strings"
)

// templateCall matches {{.Tr "msg" ...}}, {{$.Tr "msg"}} and
// {{.TrN "singular" "plural" n}} inside a template action.
var templateCall = regexp.MustCompile(`\$?\.(TrN|Tr)\s+("(?:[^"\\]|\\.)*")(?:\s+("(?:[^"\\]|\\.)*"))?`)

// extractTemplates adds the messages used by the .html files under dir to refs.
func extractTemplates(fsys fs.FS, dir string, refs refSet) error {
	return fs.WalkDir(fsys, dir, func(name string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() || path.Ext(name) != ".html" {
			return nil
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return err
		}

		scanTemplate(name, string(content), refs)

		return nil
	})
}

func scanTemplate(name, content string, refs refSet) {
	for lineNo, line := range strings.Split(content, "\n") {
		for _, m := range templateCall.FindAllStringSubmatch(line, -1) {
			id, err := strconv.Unquote(m[2])
			if err != nil {
				continue
			}

			k := key{id: id}

			if m[1] == "TrN" {
				plural, err := strconv.Unquote(m[3])
				if err != nil {
					continue
				}

				k.plural = plural
			}

			refs.add(k, ref{file: name, line: lineNo + 1})
		}
	}
}
