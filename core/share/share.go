// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package share turns rule sets into opaque codes that fit in a URL, and back.

A share link is a base URL with the code in the "rules" query parameter.
Opening such a link restores the rule set; a missing or broken code leaves the
caller with its default state.
*/
package share

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"github.com/rs/zerolog/log"
)

// QueryParam is the query parameter carrying a share code.
const QueryParam = "rules"

// Codec converts a rule set to and from an opaque string.
type Codec interface {
	Encode(rules ruleset.RuleSet) (string, error)
	Decode(code string) (ruleset.RuleSet, error)
}

// Base64Codec encodes the JSON form of a rule set as unpadded URL-safe base64.
//
// Decoding is lenient: padding is ignored, the standard alphabet is accepted,
// and spaces are read as '+' since form decoding turns a literal '+' into a space.
type Base64Codec struct{}

var _ Codec = Base64Codec{}

func (Base64Codec) Encode(rules ruleset.RuleSet) (string, error) {
	data, err := ruleset.Marshal(rules)
	if err != nil {
		return "", err
	}

	return base64.RawURLEncoding.EncodeToString(data), nil
}

// Decode fails with a *ruleset.DecodeError when code is not base64, not JSON,
// or does not carry all four rule set fields.
func (Base64Codec) Decode(code string) (ruleset.RuleSet, error) {
	normalized := normalize(code)
	if normalized == "" {
		return ruleset.RuleSet{}, &ruleset.DecodeError{Source: "share code", Err: ruleset.ErrEmptyEncoding}
	}

	data, err := base64.RawURLEncoding.DecodeString(normalized)
	if err != nil {
		return ruleset.RuleSet{}, &ruleset.DecodeError{Source: "share code", Err: err}
	}

	rules, err := ruleset.Parse(data)
	if err != nil {
		var decodeErr *ruleset.DecodeError
		if errors.As(err, &decodeErr) {
			decodeErr.Source = "share code"
		}

		return ruleset.RuleSet{}, err
	}

	return rules, nil
}

func normalize(code string) string {
	code = strings.Trim(code, "\t\r\n")
	code = strings.NewReplacer(" ", "-", "+", "-", "/", "_").Replace(code)

	return strings.TrimRight(code, "=")
}

// Link builds a share link for rules on top of base.
//
// Any existing "rules" parameter on base is replaced; other parameters are kept.
func Link(codec Codec, base string, rules ruleset.RuleSet) (string, error) {
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parse share base URL: %w", err)
	}

	code, err := codec.Encode(rules)
	if err != nil {
		return "", err
	}

	query := u.Query()
	query.Set(QueryParam, code)
	u.RawQuery = query.Encode()

	return u.String(), nil
}

// FromQuery restores the rule set carried by query.
//
// It reports false when the parameter is absent or its code does not decode,
// in which case the caller should keep its default state.
func FromQuery(codec Codec, query url.Values) (ruleset.RuleSet, bool) {
	code := query.Get(QueryParam)
	if code == "" {
		return ruleset.RuleSet{}, false
	}

	rules, err := codec.Decode(code)
	if err != nil {
		log.Debug().
			Err(err).
			Msg("Ignoring invalid share code")

		return ruleset.RuleSet{}, false
	}

	return rules, true
}
