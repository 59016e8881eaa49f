// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package library keeps rule sets saved under user-chosen names.

A [Library] sits on top of any [KeyValueStore]. Names are trimmed before use
and saving under an existing name replaces the stored rule set. A stored value
that does not decode as a complete rule set is treated as absent, so a
corrupted entry never takes the caller down with it.
*/
package library

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"github.com/rs/zerolog/log"
)

var ErrEmptyName = errors.New("rule set name is empty")

// Library stores rule sets by name.
type Library struct {
	store KeyValueStore
}

func New(store KeyValueStore) *Library {
	return &Library{store: store}
}

// Save stores rules under name, replacing any rule set saved under it.
func (l *Library) Save(ctx context.Context, name string, rules ruleset.RuleSet) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return ErrEmptyName
	}

	data, err := ruleset.Marshal(rules)
	if err != nil {
		return err
	}

	if err := l.store.Set(ctx, name, data); err != nil {
		return fmt.Errorf("save rule set %q: %w", name, err)
	}

	return nil
}

// Load returns the rule set saved under name.
//
// It reports false when nothing usable is stored under name.
func (l *Library) Load(ctx context.Context, name string) (ruleset.RuleSet, bool, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return ruleset.RuleSet{}, false, nil
	}

	data, ok, err := l.store.Get(ctx, name)
	if err != nil {
		return ruleset.RuleSet{}, false, fmt.Errorf("load rule set %q: %w", name, err)
	}

	if !ok {
		return ruleset.RuleSet{}, false, nil
	}

	rules, err := ruleset.Parse(data)
	if err != nil {
		log.Warn().
			Err(err).
			Str("name", name).
			Msg("Ignoring unreadable saved rule set")

		return ruleset.RuleSet{}, false, nil
	}

	return rules, true, nil
}

// Delete removes the rule set saved under name. Deleting a missing name is not an error.
func (l *Library) Delete(ctx context.Context, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil
	}

	if err := l.store.Delete(ctx, name); err != nil {
		return fmt.Errorf("delete rule set %q: %w", name, err)
	}

	return nil
}

// Names returns the names of all stored entries in ascending order,
// including entries that may fail to load.
func (l *Library) Names(ctx context.Context) ([]string, error) {
	keys, err := l.store.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rule sets: %w", err)
	}

	slices.Sort(keys)

	return keys, nil
}

// List returns every loadable saved rule set, sorted by name.
func (l *Library) List(ctx context.Context) ([]ruleset.SavedRuleSet, error) {
	names, err := l.Names(ctx)
	if err != nil {
		return nil, err
	}

	saved := make([]ruleset.SavedRuleSet, 0, len(names))

	for _, name := range names {
		rules, ok, err := l.Load(ctx, name)
		if err != nil {
			return nil, err
		}

		if ok {
			saved = append(saved, ruleset.SavedRuleSet{Name: name, Rules: rules})
		}
	}

	return saved, nil
}
