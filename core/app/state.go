// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package app

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
)

// SampleTexts are offered to users who have nothing to translate yet.
var SampleTexts = []string{
	"Hello, my friend! How are you doing today?",
	"The quick brown fox jumps over the lazy dog.",
	"Welcome to our secret meeting place.",
	"I love learning new languages and codes!",
}

// State is everything a user is working with.
//
// State is a value: every operation returns an updated copy and leaves its
// receiver untouched.
type State struct {
	Rules ruleset.RuleSet
	Input string
	Saved []ruleset.SavedRuleSet
}

// TextStats describes the input text.
type TextStats struct {
	Characters int `json:"characters"`
	Words      int `json:"words"`
}

// NewState returns the state of a fresh session.
func NewState() State {
	return State{Rules: ruleset.Default()}
}

// Stats counts the characters and white-space separated words of the input.
func (s State) Stats() TextStats {
	return TextStats{
		Characters: utf8.RuneCountInString(s.Input),
		Words:      len(strings.FieldsFunc(s.Input, unicode.IsSpace)),
	}
}

// Clear resets the rules and the input. Saved rule sets are kept.
func (s State) Clear() State {
	s.Rules = ruleset.Default()
	s.Input = ""

	return s
}

// WithInput replaces the input text.
func (s State) WithInput(text string) State {
	s.Input = text

	return s
}

// WithRules replaces the current rule set with a copy of rules.
func (s State) WithRules(rules ruleset.RuleSet) State {
	s.Rules = rules.Clone()

	return s
}

// LoadSaved makes the saved rule set called name current.
// It reports false, leaving the state unchanged, when there is none.
func (s State) LoadSaved(name string) (State, bool) {
	name = strings.TrimSpace(name)

	for _, saved := range s.Saved {
		if saved.Name == name {
			return s.WithRules(saved.Rules), true
		}
	}

	return s, false
}

// AddRule maps original, lower-cased, to replacement. A blank original is ignored.
func (s State) AddRule(original, replacement string) State {
	if strings.TrimSpace(original) == "" {
		return s
	}

	s.Rules = s.Rules.Clone()
	s.Rules.Substitutions.Set(strings.ToLower(original), replacement)

	return s
}

// UpdateRule edits the row for oldOriginal. See ruleset.Substitutions.Rename.
func (s State) UpdateRule(oldOriginal, newOriginal, replacement string) State {
	s.Rules = s.Rules.Clone()
	s.Rules.Substitutions.Rename(oldOriginal, newOriginal, replacement)

	return s
}

// RemoveRule drops the row for original.
func (s State) RemoveRule(original string) State {
	s.Rules = s.Rules.Clone()
	s.Rules.Substitutions.Delete(original)

	return s
}

func (s State) SetPrefix(prefix string) State {
	s.Rules.Prefix = prefix

	return s
}

func (s State) SetSuffix(suffix string) State {
	s.Rules.Suffix = suffix

	return s
}

// SetGrammar selects grammar. An unknown grammar selects none.
func (s State) SetGrammar(grammar ruleset.Grammar) State {
	if !grammar.Valid() {
		grammar = ruleset.GrammarNone
	}

	s.Rules.Grammar = grammar

	return s
}
