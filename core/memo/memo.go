// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package memo memoizes the translation engine.

A [Translator] keys each call on a canonical encoding of the text and the rule
set and keeps the results in a [Cache]. The engine is pure, so a cached result
is identical to a fresh one.
*/
package memo

import (
	"encoding/binary"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/translator"
)

// Translator is a memoizing front for the translation engine.
//
// A nil *Translator, or one built without a cache, calls the engine directly.
type Translator struct {
	cache *Cache
}

// New returns a Translator backed by cache. cache may be nil.
func New(cache *Cache) *Translator {
	return &Translator{cache: cache}
}

// Translate returns translator.Translate(text, rules), served from the cache when possible.
func (t *Translator) Translate(text string, rules ruleset.RuleSet) string {
	if t == nil || t.cache == nil {
		return translator.Translate(text, rules)
	}

	key := Key(text, rules)

	if out, ok := t.cache.Get(key); ok {
		return out
	}

	out := translator.Translate(text, rules)
	t.cache.Add(key, out)

	return out
}

// CountRuleApplications forwards to the engine; counting is cheap enough not to cache.
func (t *Translator) CountRuleApplications(text string, rules ruleset.RuleSet) int {
	return translator.CountRuleApplications(text, rules)
}

// Stats returns the cache counters, or the zero Stats when caching is off.
func (t *Translator) Stats() Stats {
	if t == nil || t.cache == nil {
		return Stats{}
	}

	return t.cache.Stats()
}

// Key encodes text and rules into a cache key.
//
// Every field is length-prefixed and substitutions are written in order, so
// rule sets that differ only in substitution order get different keys.
func Key(text string, rules ruleset.RuleSet) []byte {
	size := 8 * (5 + 2*rules.Substitutions.Len())
	size += len(text) + len(rules.Prefix) + len(rules.Suffix) + len(rules.Grammar)

	for original, replacement := range rules.Substitutions.All() {
		size += len(original) + len(replacement)
	}

	key := make([]byte, 0, size)
	key = appendField(key, text)
	key = appendField(key, rules.Prefix)
	key = appendField(key, rules.Suffix)
	key = appendField(key, string(rules.Grammar))
	key = binary.LittleEndian.AppendUint64(key, uint64(rules.Substitutions.Len()))

	for original, replacement := range rules.Substitutions.All() {
		key = appendField(key, original)
		key = appendField(key, replacement)
	}

	return key
}

func appendField(key []byte, s string) []byte {
	key = binary.LittleEndian.AppendUint64(key, uint64(len(s)))

	return append(key, s...)
}
