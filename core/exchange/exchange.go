// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package exchange reads and writes rule set export files.

An export file is a pretty-printed JSON envelope:

	{
	  "name": "My Rules",
	  "rules": { "substitutions": {...}, "prefix": "", "suffix": "", "grammar": "none" },
	  "exported": "2025-01-02T03:04:05.678Z"
	}

Import is more forgiving than the share codec: only the name, the rules
object and its substitutions are required. Missing decoration fields default
to empty and a missing or unknown grammar defaults to none.
*/
package exchange

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode/utf16"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// TimeFormat is the layout of the exported timestamp: UTC with millisecond precision.
const TimeFormat = "2006-01-02T15:04:05.000Z07:00"

// FileSuffix is appended to the sanitized rule set name to form an export file name.
const FileSuffix = "_rules.json"

// Envelope is the content of an export file.
type Envelope struct {
	Name     string          `json:"name"`
	Rules    ruleset.RuleSet `json:"rules"`
	Exported string          `json:"exported"`
}

// Export renders rules as an export file stamped with now.
func Export(name string, rules ruleset.RuleSet, now time.Time) ([]byte, error) {
	envelope := Envelope{
		Name:     name,
		Rules:    rules,
		Exported: now.UTC().Format(TimeFormat),
	}

	var buf bytes.Buffer

	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")

	if err := enc.Encode(envelope); err != nil {
		return nil, fmt.Errorf("encode export envelope: %w", err)
	}

	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// FileName returns the file name an export of name is saved under.
// Every character outside ASCII letters and digits becomes one underscore per
// UTF-16 code unit, so characters beyond the Basic Multilingual Plane give two.
func FileName(name string) string {
	var b strings.Builder

	for _, r := range name {
		switch {
		case 'a' <= r && r <= 'z', 'A' <= r && r <= 'Z', '0' <= r && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteString(strings.Repeat("_", utf16.RuneLen(r)))
		}
	}

	return b.String() + FileSuffix
}

// Import parses an export file.
//
// It fails with a *ruleset.ValidationError when data is not JSON, when name is
// not a non-empty string, or when rules or rules.substitutions is not an object.
func Import(data []byte) (ruleset.SavedRuleSet, error) {
	if !gjson.ValidBytes(data) {
		return ruleset.SavedRuleSet{}, &ruleset.ValidationError{Err: ruleset.ErrInvalidJSON}
	}

	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return ruleset.SavedRuleSet{}, &ruleset.ValidationError{Err: ruleset.ErrNotObject}
	}

	name := doc.Get("name")

	switch {
	case !name.Exists():
		return ruleset.SavedRuleSet{}, invalid("name", ruleset.ErrMissingField)
	case name.Type != gjson.String:
		return ruleset.SavedRuleSet{}, invalid("name", ruleset.ErrNotString)
	case name.String() == "":
		return ruleset.SavedRuleSet{}, invalid("name", ruleset.ErrMissingField)
	}

	rules, err := importRules(doc.Get("rules"))
	if err != nil {
		return ruleset.SavedRuleSet{}, err
	}

	return ruleset.SavedRuleSet{Name: name.String(), Rules: rules}, nil
}

// ImportOK is Import for callers that only need to know whether a rule set came out.
func ImportOK(data []byte) (ruleset.SavedRuleSet, bool) {
	saved, err := Import(data)
	if err != nil {
		log.Debug().
			Err(err).
			Msg("Rejected rule set import")

		return ruleset.SavedRuleSet{}, false
	}

	return saved, true
}

func importRules(raw gjson.Result) (ruleset.RuleSet, error) {
	switch {
	case !raw.Exists():
		return ruleset.RuleSet{}, invalid("rules", ruleset.ErrMissingField)
	case !raw.IsObject():
		return ruleset.RuleSet{}, invalid("rules", ruleset.ErrNotObject)
	}

	subs := raw.Get("substitutions")

	switch {
	case !subs.Exists():
		return ruleset.RuleSet{}, invalid("rules.substitutions", ruleset.ErrMissingField)
	case !subs.IsObject():
		return ruleset.RuleSet{}, invalid("rules.substitutions", ruleset.ErrNotObject)
	}

	rules := ruleset.Default()

	if err := rules.Substitutions.UnmarshalJSON([]byte(subs.Raw)); err != nil {
		return ruleset.RuleSet{}, invalid("rules.substitutions", err)
	}

	var err error

	if rules.Prefix, err = optionalString(raw, "prefix"); err != nil {
		return ruleset.RuleSet{}, err
	}

	if rules.Suffix, err = optionalString(raw, "suffix"); err != nil {
		return ruleset.RuleSet{}, err
	}

	grammar, err := optionalString(raw, "grammar")
	if err != nil {
		return ruleset.RuleSet{}, err
	}

	if g := ruleset.Grammar(grammar); g.Valid() {
		rules.Grammar = g
	}

	return rules, nil
}

// optionalString returns the string at field, or "" when the field is absent or null.
func optionalString(raw gjson.Result, field string) (string, error) {
	value := raw.Get(field)

	switch value.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return value.String(), nil
	default:
		return "", invalid("rules."+field, ruleset.ErrNotString)
	}
}

func invalid(field string, err error) *ruleset.ValidationError {
	return &ruleset.ValidationError{Field: field, Err: err}
}
