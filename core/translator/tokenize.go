// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translator

import (
	"unicode"
	"unicode/utf8"
)

// tokenKind classifies a token produced by tokenize.
type tokenKind int

const (
	kindWord tokenKind = iota
	kindSpace
	kindPunct
)

type token struct {
	text string
	kind tokenKind
}

// isWordByte reports whether c belongs to a word run: ASCII letters, digits and underscore.
func isWordByte(c byte) bool {
	return c == '_' ||
		('a' <= c && c <= 'z') ||
		('A' <= c && c <= 'Z') ||
		('0' <= c && c <= '9')
}

// isSpace reports whether r separates words.
//
// The set is the Unicode white space used by browsers: NEL is excluded and the
// zero width no-break space is included.
func isSpace(r rune) bool {
	if r == '\uFEFF' {
		return true
	}

	return r != '\u0085' && unicode.IsSpace(r)
}

// tokenize splits text into word runs, white space runs and single
// punctuation characters. Concatenating the tokens yields text unchanged.
//
// Any rune that is neither a word byte nor white space is punctuation,
// including letters outside ASCII.
func tokenize(text string) []token {
	var tokens []token

	for i := 0; i < len(text); {
		start := i

		if isWordByte(text[i]) {
			for i < len(text) && isWordByte(text[i]) {
				i++
			}

			tokens = append(tokens, token{text: text[start:i], kind: kindWord})

			continue
		}

		r, size := utf8.DecodeRuneInString(text[i:])
		if !isSpace(r) {
			tokens = append(tokens, token{text: text[i : i+size], kind: kindPunct})
			i += size

			continue
		}

		for i < len(text) {
			r, size = utf8.DecodeRuneInString(text[i:])
			if !isSpace(r) {
				break
			}

			i += size
		}

		tokens = append(tokens, token{text: text[start:i], kind: kindSpace})
	}

	return tokens
}

// isBlank reports whether s holds only white space.
func isBlank(s string) bool {
	for _, r := range s {
		if !isSpace(r) {
			return false
		}
	}

	return true
}
