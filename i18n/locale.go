// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"slices"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// BaseLocale is the language of the msgids, used when nothing else matches.
const BaseLocale = "en"

var baseTag = language.Make(BaseLocale)

// Language is a selectable UI language.
type Language struct {
	Tag  string
	Name string
}

// Languages returns the supported languages sorted by tag, each named in itself.
//
// Before Setup, only BaseLocale is supported.
func Languages() []Language {
	if matcher == nil {
		return []Language{{Tag: baseTag.String(), Name: display.Self.Name(baseTag)}}
	}

	out := make([]Language, 0, len(supportedTags))
	for _, t := range supportedTags {
		out = append(out, Language{Tag: t.String(), Name: display.Self.Name(t)})
	}

	slices.SortFunc(out, func(a, b Language) int { return strings.Compare(a.Tag, b.Tag) })

	return out
}
