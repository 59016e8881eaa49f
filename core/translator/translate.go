// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package translator applies a rule set to text.

The engine is pure: [Translate] and [CountRuleApplications] depend only on
their arguments, never fail, and keep no state between calls. They are safe to
call from any number of goroutines.

Translation works token by token. Text is split into runs of ASCII word
characters, runs of white space, and single punctuation characters. Only word
tokens are transformed, in this fixed order:

 1. lower-case the token
 2. apply every substitution in order, replacing all case-insensitive literal
    occurrences of the original with the replacement
 3. add the prefix and suffix when step 2 changed the word
 4. for the double-vowels grammar, follow each vowel with a lower-case copy
 5. carry the casing pattern of the source token over to the result

The reverse grammar runs last, on the joined output: each sentence, delimited
by runs of '.', '!' and '?', has its word order reversed.
*/
package translator

import (
	"slices"
	"strings"
	"unicode/utf8"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
)

// Translate applies rules to text and returns the result.
//
// Text made only of white space translates to the empty string.
func Translate(text string, rules ruleset.RuleSet) string {
	if isBlank(text) {
		return ""
	}

	c := newCasers()

	var b strings.Builder

	b.Grow(len(text))

	for _, tok := range tokenize(text) {
		if tok.kind != kindWord {
			b.WriteString(tok.text)

			continue
		}

		b.WriteString(translateWord(c, tok.text, rules))
	}

	out := b.String()

	if rules.Grammar == ruleset.GrammarReverse {
		out = reverseSentences(out)
	}

	return out
}

func translateWord(c casers, tok string, rules ruleset.RuleSet) string {
	// Word tokens are ASCII, so the plain lower-case mapping is exact here.
	base := strings.ToLower(tok)
	word := base

	for original, replacement := range rules.Substitutions.All() {
		if original == "" || replacement == "" {
			continue
		}

		word = replaceAllFold(word, original, replacement)
	}

	if word != base {
		word = rules.Prefix + word + rules.Suffix
	}

	if rules.Grammar == ruleset.GrammarDoubleVowels {
		word = doubleVowels(word)
	}

	return c.restoreCase(tok, word)
}

// doubleVowels follows every ASCII vowel in s with its lower-case copy.
func doubleVowels(s string) string {
	var b strings.Builder

	b.Grow(len(s) * 2)

	for _, r := range s {
		b.WriteRune(r)

		switch r {
		case 'a', 'e', 'i', 'o', 'u':
			b.WriteRune(r)
		case 'A', 'E', 'I', 'O', 'U':
			b.WriteRune(asciiLower(r))
		}
	}

	return b.String()
}

// reverseSentences reverses the word order inside every sentence of s.
//
// Runs of '.', '!' and '?' delimit sentences and are kept verbatim. Words in a
// sentence are rejoined with single spaces. A sentence that had leading or
// trailing white space keeps exactly one space on that side when a delimiter
// run is its neighbour there; white space at either end of s is dropped. A
// sentence holding only white space becomes empty.
func reverseSentences(s string) string {
	var b strings.Builder

	b.Grow(len(s))

	for start := 0; start < len(s); {
		end := start
		delim := isSentenceDelim(s[start])

		for end < len(s) && isSentenceDelim(s[end]) == delim {
			end++
		}

		if delim {
			b.WriteString(s[start:end])
		} else {
			b.WriteString(reverseWords(s[start:end], start > 0, end < len(s)))
		}

		start = end
	}

	return b.String()
}

func reverseWords(sentence string, keepLeading, keepTrailing bool) string {
	words := strings.FieldsFunc(sentence, isSpace)
	if len(words) == 0 {
		return ""
	}

	slices.Reverse(words)

	out := strings.Join(words, " ")

	if first, _ := utf8.DecodeRuneInString(sentence); keepLeading && isSpace(first) {
		out = " " + out
	}

	if last, _ := utf8.DecodeLastRuneInString(sentence); keepTrailing && isSpace(last) {
		out += " "
	}

	return out
}

func isSentenceDelim(c byte) bool {
	return c == '.' || c == '!' || c == '?'
}
