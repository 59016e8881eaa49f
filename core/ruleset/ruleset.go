// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package ruleset defines the rule set value consumed by the translation engine
and its JSON representation.

A RuleSet is a plain value. Callers that want to change one clone it first;
nothing in this module mutates a RuleSet it was handed.
*/
package ruleset

// Grammar selects the single sentence- or word-level transform applied after substitution.
type Grammar string

// Possible values for Grammar.
const (
	GrammarNone         Grammar = "none"
	GrammarReverse      Grammar = "reverse"
	GrammarDoubleVowels Grammar = "double-vowels"
)

// AllGrammars lists the grammar modes in the order they are presented to users.
var AllGrammars = []Grammar{GrammarNone, GrammarReverse, GrammarDoubleVowels}

// Valid reports whether g is one of the known grammar modes.
func (g Grammar) Valid() bool {
	switch g {
	case GrammarNone, GrammarReverse, GrammarDoubleVowels:
		return true
	default:
		return false
	}
}

// RuleSet is a complete set of translation rules.
type RuleSet struct {
	Substitutions Substitutions `json:"substitutions"`
	Prefix        string        `json:"prefix"`
	Suffix        string        `json:"suffix"`
	Grammar       Grammar       `json:"grammar"`
}

// SavedRuleSet is a RuleSet stored under a user-chosen name.
type SavedRuleSet struct {
	Name  string  `json:"name"`
	Rules RuleSet `json:"rules"`
}

// Default returns the empty rule set: no substitutions, no decoration, no grammar.
func Default() RuleSet {
	return RuleSet{Grammar: GrammarNone}
}

// Clone returns a deep copy of r.
func (r RuleSet) Clone() RuleSet {
	r.Substitutions = r.Substitutions.Clone()

	return r
}

// Equal reports whether r and other are structurally equal,
// including the order of their substitutions.
func (r RuleSet) Equal(other RuleSet) bool {
	return r.Prefix == other.Prefix &&
		r.Suffix == other.Suffix &&
		r.Grammar == other.Grammar &&
		r.Substitutions.Equal(other.Substitutions)
}

// IsZero reports whether r carries no rules at all.
func (r RuleSet) IsZero() bool {
	return r.Substitutions.Len() == 0 &&
		r.Prefix == "" &&
		r.Suffix == "" &&
		(r.Grammar == "" || r.Grammar == GrammarNone)
}
