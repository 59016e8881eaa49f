// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translator

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// casers holds the case mappers for one call. A cases.Caser is stateful,
// so each call gets its own pair.
type casers struct {
	upper cases.Caser
	lower cases.Caser
}

func newCasers() casers {
	return casers{
		upper: cases.Upper(language.Und),
		lower: cases.Lower(language.Und),
	}
}

// restoreCase carries the casing pattern of the source token over to word.
//
// A token longer than one character that equals its upper-case form turns word
// fully upper-case. Otherwise, when the first character of the token equals its
// upper-case form, the first character of word is upper-cased. Digits and the
// underscore equal their upper-case form, so "42" counts as upper-case.
func (c casers) restoreCase(tok, word string) string {
	if word == "" {
		return word
	}

	switch {
	case len(tok) > 1 && tok == strings.ToUpper(tok):
		return c.upper.String(word)
	case tok != "" && tok[:1] == strings.ToUpper(tok[:1]):
		return c.capitalize(word)
	default:
		return word
	}
}

// capitalize upper-cases the first rune of s and leaves the rest untouched.
func (c casers) capitalize(s string) string {
	_, size := utf8.DecodeRuneInString(s)

	return c.upper.String(s[:size]) + s[size:]
}
