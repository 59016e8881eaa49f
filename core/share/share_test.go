// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package share_test

import (
	"encoding/base64"
	"errors"
	"net/url"
	"slices"
	"strings"
	"testing"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRules() ruleset.RuleSet {
	return ruleset.RuleSet{
		Substitutions: ruleset.FromPairs("hello", "zyx", "world", "qal", "friend", "vix~~~"),
		Prefix:        "zy-",
		Suffix:        "-ix",
		Grammar:       ruleset.GrammarDoubleVowels,
	}
}

func TestBase64Codec_RoundTrip(t *testing.T) {
	t.Parallel()

	codec := share.Base64Codec{}

	for _, rules := range []ruleset.RuleSet{sampleRules(), ruleset.Default()} {
		code, err := codec.Encode(rules)
		require.NoError(t, err)
		assert.NotContains(t, code, "=")
		assert.NotContains(t, code, "+")
		assert.NotContains(t, code, "/")

		decoded, err := codec.Decode(code)
		require.NoError(t, err)
		assert.True(t, rules.Equal(decoded))
		assert.Equal(t, slices.Collect(rules.Substitutions.Keys()), slices.Collect(decoded.Substitutions.Keys()))
	}
}

func TestBase64Codec_DecodeStandardAlphabet(t *testing.T) {
	t.Parallel()

	rules := sampleRules()

	data, err := ruleset.Marshal(rules)
	require.NoError(t, err)

	std := base64.StdEncoding.EncodeToString(data)

	for _, code := range []string{std, strings.ReplaceAll(std, "+", " "), std + "\n"} {
		decoded, err := share.Base64Codec{}.Decode(code)
		require.NoError(t, err)
		assert.True(t, rules.Equal(decoded))
	}
}

func TestBase64Codec_DecodeFailures(t *testing.T) {
	t.Parallel()

	encode := func(s string) string { return base64.RawURLEncoding.EncodeToString([]byte(s)) }

	tests := []struct {
		name    string
		code    string
		wantErr error
	}{
		{"empty", "", ruleset.ErrEmptyEncoding},
		{"not JSON", encode("not json"), ruleset.ErrInvalidJSON},
		{"missing grammar", encode(`{"substitutions":{},"prefix":"","suffix":""}`), ruleset.ErrMissingField},
		{"array", encode(`[1,2]`), ruleset.ErrNotObject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := share.Base64Codec{}.Decode(tt.code)
			require.Error(t, err)

			var decodeErr *ruleset.DecodeError
			require.True(t, errors.As(err, &decodeErr))
			assert.Equal(t, "share code", decodeErr.Source)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	_, err := share.Base64Codec{}.Decode("%%%")
	assert.Error(t, err)
}

func TestLinkAndFromQuery(t *testing.T) {
	t.Parallel()

	codec := share.Base64Codec{}
	rules := sampleRules()

	link, err := share.Link(codec, "https://example.com/?text=hi&rules=stale", rules)
	require.NoError(t, err)

	u, err := url.Parse(link)
	require.NoError(t, err)
	assert.Equal(t, "hi", u.Query().Get("text"))

	got, ok := share.FromQuery(codec, u.Query())
	require.True(t, ok)
	assert.True(t, rules.Equal(got))
}

func TestFromQuery_Fallback(t *testing.T) {
	t.Parallel()

	codec := share.Base64Codec{}

	_, ok := share.FromQuery(codec, url.Values{})
	assert.False(t, ok)

	_, ok = share.FromQuery(codec, url.Values{share.QueryParam: {"garbage!"}})
	assert.False(t, ok)
}
