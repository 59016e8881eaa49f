// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package ruleset

import (
	"errors"
	"fmt"
)

// Decode and validation causes.
var (
	ErrInvalidJSON   = errors.New("invalid JSON")
	ErrNotObject     = errors.New("value is not a JSON object")
	ErrNotString     = errors.New("value is not a JSON string")
	ErrMissingField  = errors.New("missing required field")
	ErrEmptyEncoding = errors.New("empty encoding")
)

// DecodeError reports a malformed or incomplete serialized rule set.
//
// Callers recover by discarding the input and falling back to the default state.
type DecodeError struct {
	// Source names where the payload came from, e.g. "share link" or "library".
	Source string
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("decode rule set: %v", e.Err)
	}

	return fmt.Sprintf("decode rule set from %s: %v", e.Source, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ValidationError reports an import payload that lacks a required field.
//
// Callers recover by signalling that no rule set was imported.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("invalid rule set import: %v", e.Err)
	}

	return fmt.Sprintf("invalid rule set import: %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func missingField(field string) error {
	return fmt.Errorf("%w %q", ErrMissingField, field)
}
