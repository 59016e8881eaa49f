// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ruleset

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// requiredFields are the keys every serialized rule set must carry.
var requiredFields = []string{"substitutions", "prefix", "suffix", "grammar"}

// MarshalJSON encodes the mapping as a JSON object whose keys follow insertion order.
func (s Substitutions) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, e := range s.entries {
		if i > 0 {
			buf.WriteByte(',')
		}

		if err := writeString(&buf, e.Original); err != nil {
			return nil, err
		}

		buf.WriteByte(':')

		if err := writeString(&buf, e.Replacement); err != nil {
			return nil, err
		}
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}

// writeString appends s as a JSON string without HTML escaping.
func writeString(buf *bytes.Buffer, s string) error {
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return err
	}

	// Encode terminates every value with a newline.
	buf.Truncate(buf.Len() - 1)

	return nil
}

// UnmarshalJSON decodes a JSON object, keeping its keys in document order.
//
// JSON null decodes to an empty mapping.
func (s *Substitutions) UnmarshalJSON(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}

	result := gjson.ParseBytes(data)

	var decoded Substitutions

	switch {
	case result.Type == gjson.Null:
		*s = decoded

		return nil
	case !result.IsObject():
		return fmt.Errorf("substitutions: %w", ErrNotObject)
	}

	var err error

	result.ForEach(func(key, value gjson.Result) bool {
		if value.Type != gjson.String {
			err = fmt.Errorf("substitutions[%q]: %w", key.String(), ErrNotString)

			return false
		}

		decoded.Set(key.String(), value.String())

		return true
	})

	if err != nil {
		return err
	}

	*s = decoded

	return nil
}

// Parse decodes a serialized rule set after checking its shape.
//
// The payload must be a JSON object carrying all four rule set fields.
// Any failure is returned as a *DecodeError.
func Parse(data []byte) (RuleSet, error) {
	if err := checkShape(data); err != nil {
		return RuleSet{}, &DecodeError{Err: err}
	}

	var rules RuleSet
	if err := json.Unmarshal(data, &rules); err != nil {
		return RuleSet{}, &DecodeError{Err: err}
	}

	return rules, nil
}

// Marshal encodes rules as compact JSON with substitutions in order.
func Marshal(rules RuleSet) ([]byte, error) {
	data, err := json.Marshal(rules)
	if err != nil {
		return nil, fmt.Errorf("encode rule set: %w", err)
	}

	return data, nil
}

// HasShape reports whether data is a JSON object carrying all four rule set fields.
func HasShape(data []byte) bool {
	return checkShape(data) == nil
}

func checkShape(data []byte) error {
	if !gjson.ValidBytes(data) {
		return ErrInvalidJSON
	}

	result := gjson.ParseBytes(data)
	if !result.IsObject() {
		return ErrNotObject
	}

	for _, field := range requiredFields {
		if !result.Get(field).Exists() {
			return missingField(field)
		}
	}

	return nil
}
