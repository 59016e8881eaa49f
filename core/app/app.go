// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package app ties the translation engine to its collaborators.

[State] holds what a user is working with. [App] owns the saved rule set
library, the share codec and the translator, and moves a State from one
value to the next. The engine itself knows nothing about any of them.

Collaborator failures that leave nothing to do, such as a broken share code
or a rejected import, are reported as a false result and the state is left
as it was. Store failures are returned as errors.
*/
package app

import (
	"context"
	"fmt"
	"net/url"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/exchange"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"github.com/rs/zerolog/log"
)

// Translator runs the translation engine.
type Translator interface {
	Translate(text string, rules ruleset.RuleSet) string
	CountRuleApplications(text string, rules ruleset.RuleSet) int
}

// App coordinates a State with the library, the share codec and the translator.
type App struct {
	library    *library.Library
	codec      share.Codec
	translator Translator
	now        func() time.Time
}

// New returns an App. All collaborators are required.
func New(lib *library.Library, codec share.Codec, translator Translator) *App {
	return &App{
		library:    lib,
		codec:      codec,
		translator: translator,
		now:        time.Now,
	}
}

// Codec returns the share codec in use.
func (a *App) Codec() share.Codec {
	return a.codec
}

// Open builds the state for a new session: the saved rule sets, and the
// shared rule set carried by query if there is a valid one.
func (a *App) Open(ctx context.Context, query url.Values) (State, error) {
	state, err := a.Refresh(ctx, NewState())
	if err != nil {
		return State{}, err
	}

	state, _ = a.ApplyShared(state, query)

	return state, nil
}

// Refresh reloads the saved rule sets from the library.
func (a *App) Refresh(ctx context.Context, s State) (State, error) {
	saved, err := a.library.List(ctx)
	if err != nil {
		return s, err
	}

	s.Saved = saved

	return s, nil
}

// Output is the translation of the input under the current rules.
func (a *App) Output(s State) string {
	return a.translator.Translate(s.Input, s.Rules)
}

// MatchCount estimates how many substitutions apply to the input.
func (a *App) MatchCount(s State) int {
	return a.translator.CountRuleApplications(s.Input, s.Rules)
}

// ShareLink returns a link to base that restores the current rules.
func (a *App) ShareLink(s State, base string) (string, error) {
	return share.Link(a.codec, base, s.Rules)
}

// ApplyShared makes the rule set carried by query current.
// It reports false, leaving s unchanged, when query carries no valid rule set.
func (a *App) ApplyShared(s State, query url.Values) (State, bool) {
	rules, ok := share.FromQuery(a.codec, query)
	if !ok {
		return s, false
	}

	return s.WithRules(rules), true
}

// SaveCurrent stores the current rules under name and refreshes the saved list.
func (a *App) SaveCurrent(ctx context.Context, s State, name string) (State, error) {
	if err := a.library.Save(ctx, name, s.Rules); err != nil {
		return s, err
	}

	return a.Refresh(ctx, s)
}

// DeleteSaved removes the rule set saved under name and refreshes the saved list.
func (a *App) DeleteSaved(ctx context.Context, s State, name string) (State, error) {
	if err := a.library.Delete(ctx, name); err != nil {
		return s, err
	}

	return a.Refresh(ctx, s)
}

// Export renders the saved rule set called name as an export file.
// It reports false when nothing is saved under name.
func (a *App) Export(ctx context.Context, name string) (filename string, data []byte, ok bool, err error) {
	rules, ok, err := a.library.Load(ctx, name)
	if err != nil || !ok {
		return "", nil, false, err
	}

	data, err = exchange.Export(name, rules, a.now())
	if err != nil {
		return "", nil, false, err
	}

	return exchange.FileName(name), data, true, nil
}

// Import reads an export file, saves the rule set under its name and makes it current.
// It reports false, leaving s unchanged, when data is not a valid export.
func (a *App) Import(ctx context.Context, s State, data []byte) (State, ruleset.SavedRuleSet, bool, error) {
	imported, ok, err := a.ImportFile(ctx, data)
	if err != nil || !ok {
		return s, ruleset.SavedRuleSet{}, false, err
	}

	next, err := a.Refresh(ctx, s.WithRules(imported.Rules))
	if err != nil {
		return s, ruleset.SavedRuleSet{}, false, err
	}

	return next, imported, true, nil
}

// ImportFile reads an export file and saves the rule set under its name.
// It reports false when data is not a valid export.
func (a *App) ImportFile(ctx context.Context, data []byte) (ruleset.SavedRuleSet, bool, error) {
	imported, ok := exchange.ImportOK(data)
	if !ok {
		return ruleset.SavedRuleSet{}, false, nil
	}

	if err := a.library.Save(ctx, imported.Name, imported.Rules); err != nil {
		return ruleset.SavedRuleSet{}, false, fmt.Errorf("store imported rule set: %w", err)
	}

	log.Info().
		Str("name", imported.Name).
		Int("substitutions", imported.Rules.Substitutions.Len()).
		Msg("Imported rule set")

	return imported, true, nil
}

// Names lists the saved rule sets by name.
func (a *App) Names(ctx context.Context) ([]string, error) {
	return a.library.Names(ctx)
}

// Load returns the rule set saved under name.
func (a *App) Load(ctx context.Context, name string) (ruleset.RuleSet, bool, error) {
	return a.library.Load(ctx, name)
}

// Save stores rules under name, replacing what was there.
func (a *App) Save(ctx context.Context, name string, rules ruleset.RuleSet) error {
	return a.library.Save(ctx, name, rules)
}

// Delete removes the rule set saved under name.
func (a *App) Delete(ctx context.Context, name string) error {
	return a.library.Delete(ctx, name)
}
