// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package translator

import (
	"strings"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
)

// CountRuleApplications estimates how many substitutions apply to text.
//
// The text is lower-cased and split on white space. Each word is stripped of
// everything but ASCII word characters, then every non-empty original that
// occurs in it adds one to the count, however many times it occurs. The
// replacement is not consulted, so the count can exceed what Translate changes.
func CountRuleApplications(text string, rules ruleset.RuleSet) int {
	if isBlank(text) || rules.Substitutions.Len() == 0 {
		return 0
	}

	c := newCasers()

	keys := make([]string, 0, rules.Substitutions.Len())

	for original := range rules.Substitutions.Keys() {
		if original != "" {
			keys = append(keys, c.lower.String(original))
		}
	}

	count := 0

	for _, word := range strings.FieldsFunc(c.lower.String(text), isSpace) {
		clean := stripNonWord(word)

		for _, key := range keys {
			if strings.Contains(clean, key) {
				count++
			}
		}
	}

	return count
}

// stripNonWord drops every byte that is not an ASCII word character.
func stripNonWord(s string) string {
	var b strings.Builder

	for i := 0; i < len(s); i++ {
		if isWordByte(s[i]) {
			b.WriteByte(s[i])
		}
	}

	return b.String()
}
