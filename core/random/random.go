// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package random invents playful rule sets to start from.
package random

import (
	"math/rand/v2"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
)

// Bounds on the number of substitution picks. Picks that land on the same word
// overwrite each other, so a generated rule set may hold fewer entries.
const (
	MinPicks = 5
	MaxPicks = 8
)

var (
	Words = []string{
		"hello", "world", "friend", "love", "peace", "happy", "good", "great",
		"beautiful", "amazing", "wonderful", "fantastic", "awesome", "cool",
	}

	Replacements = []string{
		"zyx", "qal", "mek", "vix", "lor", "naz", "tek", "rix",
		"phy", "kol", "jux", "wem", "dor", "val", "pek", "sil",
	}

	Prefixes = []string{"", "zy-", "ko-", "mi-", "xa-"}
	Suffixes = []string{"", "-ix", "-om", "-el", "-yx", "-ak"}
)

// Generate returns a random rule set drawn from rng.
// A nil rng uses the global source.
func Generate(rng *rand.Rand) ruleset.RuleSet {
	intN := rand.IntN
	if rng != nil {
		intN = rng.IntN
	}

	pick := func(list []string) string {
		return list[intN(len(list))]
	}

	rules := ruleset.Default()

	for range MinPicks + intN(MaxPicks-MinPicks+1) {
		rules.Substitutions.Set(pick(Words), pick(Replacements))
	}

	rules.Prefix = pick(Prefixes)
	rules.Suffix = pick(Suffixes)
	rules.Grammar = ruleset.AllGrammars[intN(len(ruleset.AllGrammars))]

	return rules
}
