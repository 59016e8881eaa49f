// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translator

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// replaceAllFold replaces every non-overlapping occurrence of old in s with
// repl, scanning left to right and comparing case-insensitively. old is matched
// literally.
func replaceAllFold(s, old, repl string) string {
	if old == "" {
		return s
	}

	var (
		b    strings.Builder
		last int
		hit  bool
	)

	for i := 0; i < len(s); {
		if n, ok := matchFoldAt(s[i:], old); ok {
			if !hit {
				b.Grow(len(s))
				hit = true
			}

			b.WriteString(s[last:i])
			b.WriteString(repl)

			i += n
			last = i

			continue
		}

		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}

	if !hit {
		return s
	}

	b.WriteString(s[last:])

	return b.String()
}

// matchFoldAt reports whether s starts with pattern under case folding and
// returns the number of bytes of s the match spans.
func matchFoldAt(s, pattern string) (int, bool) {
	n := 0

	for _, want := range pattern {
		if n >= len(s) {
			return 0, false
		}

		got, size := utf8.DecodeRuneInString(s[n:])
		if !equalFoldRune(got, want) {
			return 0, false
		}

		n += size
	}

	return n, true
}

// equalFoldRune reports whether a and b are the same letter ignoring case.
//
// ASCII and non-ASCII runes never match each other, so the Kelvin sign does
// not match "k" and the long s does not match "s".
func equalFoldRune(a, b rune) bool {
	if a == b {
		return true
	}

	if (a < utf8.RuneSelf) != (b < utf8.RuneSelf) {
		return false
	}

	if a < utf8.RuneSelf {
		return asciiLower(a) == asciiLower(b)
	}

	for r := unicode.SimpleFold(a); r != a; r = unicode.SimpleFold(r) {
		if r == b {
			return true
		}
	}

	return false
}

func asciiLower(r rune) rune {
	if 'A' <= r && r <= 'Z' {
		return r + 'a' - 'A'
	}

	return r
}
