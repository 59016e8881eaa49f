// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package exchange_test

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/exchange"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	t.Parallel()

	rules := ruleset.RuleSet{
		Substitutions: ruleset.FromPairs("love", "<3", "hello", "zyx"),
		Prefix:        "zy-",
		Grammar:       ruleset.GrammarReverse,
	}
	now := time.Date(2025, 3, 4, 5, 6, 7, 890_000_000, time.FixedZone("CET", 3600))

	data, err := exchange.Export("My Rules", rules, now)
	require.NoError(t, err)

	want := `{
  "name": "My Rules",
  "rules": {
    "substitutions": {
      "love": "<3",
      "hello": "zyx"
    },
    "prefix": "zy-",
    "suffix": "",
    "grammar": "reverse"
  },
  "exported": "2025-03-04T04:06:07.890Z"
}`
	assert.Equal(t, want, string(data))
}

func TestExportImportRoundTrip(t *testing.T) {
	t.Parallel()

	rules := ruleset.RuleSet{
		Substitutions: ruleset.FromPairs("zebra", "kol", "apple", "jux"),
		Suffix:        "-yx",
		Grammar:       ruleset.GrammarDoubleVowels,
	}

	data, err := exchange.Export("Zoo", rules, time.Now())
	require.NoError(t, err)

	saved, err := exchange.Import(data)
	require.NoError(t, err)
	assert.Equal(t, "Zoo", saved.Name)
	assert.True(t, rules.Equal(saved.Rules))
	assert.Equal(t, []string{"zebra", "apple"}, slices.Collect(saved.Rules.Substitutions.Keys()))
}

func TestFileName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"My Rules!":   "My_Rules__rules.json",
		"plain":       "plain_rules.json",
		"a/b\\c":      "a_b_c_rules.json",
		"café":        "caf__rules.json",
		"":            "_rules.json",
		"Elvish 2.0":  "Elvish_2_0_rules.json",
		"snake_case_": "snake_case__rules.json",
		"Elf 🧝":       "Elf____rules.json",
	}

	for name, want := range tests {
		assert.Equal(t, want, exchange.FileName(name), name)
	}
}

func TestImport_Defaults(t *testing.T) {
	t.Parallel()

	saved, err := exchange.Import([]byte(`{"name":"Bare","rules":{"substitutions":{"b":"1","a":"2"}}}`))
	require.NoError(t, err)

	assert.Equal(t, "Bare", saved.Name)
	assert.Equal(t, "", saved.Rules.Prefix)
	assert.Equal(t, "", saved.Rules.Suffix)
	assert.Equal(t, ruleset.GrammarNone, saved.Rules.Grammar)
	assert.Equal(t, []string{"b", "a"}, slices.Collect(saved.Rules.Substitutions.Keys()))

	saved, err = exchange.Import([]byte(`{"name":"Odd","rules":{"substitutions":{},"grammar":"sideways"}}`))
	require.NoError(t, err)
	assert.Equal(t, ruleset.GrammarNone, saved.Rules.Grammar)
}

func TestImport_Rejects(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantField string
		wantErr   error
	}{
		{"not JSON", `{`, "", ruleset.ErrInvalidJSON},
		{"not an object", `"text"`, "", ruleset.ErrNotObject},
		{"missing name", `{"rules":{"substitutions":{}}}`, "name", ruleset.ErrMissingField},
		{"empty name", `{"name":"","rules":{"substitutions":{}}}`, "name", ruleset.ErrMissingField},
		{"numeric name", `{"name":7,"rules":{"substitutions":{}}}`, "name", ruleset.ErrNotString},
		{"missing rules", `{"name":"x"}`, "rules", ruleset.ErrMissingField},
		{"rules not object", `{"name":"x","rules":[]}`, "rules", ruleset.ErrNotObject},
		{"missing substitutions", `{"name":"x","rules":{"prefix":"a"}}`, "rules.substitutions", ruleset.ErrMissingField},
		{"non-string replacement", `{"name":"x","rules":{"substitutions":{"a":true}}}`, "rules.substitutions", ruleset.ErrNotString},
		{"non-string prefix", `{"name":"x","rules":{"substitutions":{},"prefix":1}}`, "rules.prefix", ruleset.ErrNotString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := exchange.Import([]byte(tt.input))
			require.Error(t, err)

			var validationErr *ruleset.ValidationError
			require.True(t, errors.As(err, &validationErr))
			assert.Equal(t, tt.wantField, validationErr.Field)
			assert.ErrorIs(t, err, tt.wantErr)

			_, ok := exchange.ImportOK([]byte(tt.input))
			assert.False(t, ok)
		})
	}
}

func TestDirChannel(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	channel := exchange.DirChannel{Dir: t.TempDir()}

	require.NoError(t, channel.Write(ctx, "a_rules.json", []byte(`{"v":1}`)))
	require.NoError(t, channel.Write(ctx, "a_rules.json", []byte(`{"v":2}`)))

	got, err := channel.Read(ctx, "a_rules.json")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(got))

	_, err = channel.Read(ctx, "missing.json")
	assert.Error(t, err)

	for _, bad := range []string{"", "..", "../escape.json", "dir/file.json"} {
		assert.ErrorIs(t, channel.Write(ctx, bad, nil), exchange.ErrInvalidFileName, bad)
	}

	cancelled, cancel := context.WithCancel(ctx)
	cancel()

	assert.ErrorIs(t, channel.Write(cancelled, "late.json", nil), context.Canceled)
}
