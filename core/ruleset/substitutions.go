// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ruleset

import (
	"iter"
	"slices"
	"strings"
)

// Substitution maps an original word or substring to its replacement.
type Substitution struct {
	Original    string
	Replacement string
}

// Substitutions is an ordered mapping from original to replacement.
//
// Iteration follows insertion order. The order matters: the engine applies
// rules one after the other, each on the output of the previous one.
//
// The zero value is an empty mapping ready to use.
type Substitutions struct {
	entries []Substitution
}

// NewSubstitutions builds a mapping from entries, in order.
// A repeated original keeps its first position and takes the last replacement.
func NewSubstitutions(entries ...Substitution) Substitutions {
	var s Substitutions

	for _, e := range entries {
		s.Set(e.Original, e.Replacement)
	}

	return s
}

// FromPairs builds a mapping from alternating original, replacement strings.
// A trailing unpaired string is ignored.
func FromPairs(pairs ...string) Substitutions {
	var s Substitutions

	for i := 0; i+1 < len(pairs); i += 2 {
		s.Set(pairs[i], pairs[i+1])
	}

	return s
}

// Len returns the number of entries.
func (s Substitutions) Len() int {
	return len(s.entries)
}

// Get returns the replacement for original.
func (s Substitutions) Get(original string) (string, bool) {
	if i := s.index(original); i >= 0 {
		return s.entries[i].Replacement, true
	}

	return "", false
}

// Set assigns replacement to original.
//
// An existing original keeps its position; a new one is appended.
func (s *Substitutions) Set(original, replacement string) {
	if i := s.index(original); i >= 0 {
		s.entries[i].Replacement = replacement

		return
	}

	s.entries = append(s.entries, Substitution{Original: original, Replacement: replacement})
}

// Delete removes original and reports whether it was present.
func (s *Substitutions) Delete(original string) bool {
	i := s.index(original)
	if i < 0 {
		return false
	}

	s.entries = slices.Delete(s.entries, i, i+1)

	return true
}

// Rename removes oldOriginal and, unless newOriginal is blank, stores
// replacement under the lower-cased newOriginal.
//
// This is the edit performed by the rule editor: an edited row moves to the end
// of the order unless its new key already exists elsewhere.
func (s *Substitutions) Rename(oldOriginal, newOriginal, replacement string) {
	s.Delete(oldOriginal)

	if strings.TrimSpace(newOriginal) == "" {
		return
	}

	s.Set(strings.ToLower(newOriginal), replacement)
}

// All yields every (original, replacement) pair in order.
func (s Substitutions) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		for _, e := range s.entries {
			if !yield(e.Original, e.Replacement) {
				return
			}
		}
	}
}

// Keys yields every original in order.
func (s Substitutions) Keys() iter.Seq[string] {
	return func(yield func(string) bool) {
		for _, e := range s.entries {
			if !yield(e.Original) {
				return
			}
		}
	}
}

// Entries returns a copy of the entries in order.
func (s Substitutions) Entries() []Substitution {
	return slices.Clone(s.entries)
}

// Clone returns an independent copy.
func (s Substitutions) Clone() Substitutions {
	return Substitutions{entries: slices.Clone(s.entries)}
}

// Equal reports whether both mappings hold the same entries in the same order.
func (s Substitutions) Equal(other Substitutions) bool {
	return slices.Equal(s.entries, other.entries)
}

func (s Substitutions) index(original string) int {
	return slices.IndexFunc(s.entries, func(e Substitution) bool { return e.Original == original })
}
