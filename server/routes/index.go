// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"codeberg.org/phraseforge/phraseforge/core/app"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/untrusted"
	"codeberg.org/phraseforge/phraseforge/i18n"
	"codeberg.org/phraseforge/phraseforge/server/template"
	"codeberg.org/phraseforge/phraseforge/server/utils"
	"github.com/rs/zerolog/log"
)

// blankRows is how many empty substitution rows the form offers for new rules.
const blankRows = 2

var grammarLabels = map[ruleset.Grammar]i18n.MsgKey{
	ruleset.GrammarNone:         "None",
	ruleset.GrammarReverse:      "Reverse sentences",
	ruleset.GrammarDoubleVowels: "Double vowels",
}

type grammarOption struct {
	Value    ruleset.Grammar
	Label    string
	Selected bool
}

type indexData struct {
	Notices  []string
	Problems []string

	Rules    ruleset.RuleSet
	Rows     []ruleset.Substitution
	Grammars []grammarOption
	Name     string

	Input     string
	StatsLine string
	Output    string
	MatchLine string
	ShareLink string

	Samples []string
	Saved   []ruleset.SavedRuleSet
}

// feedback collects what an action has to tell the user.
type feedback struct {
	notices  []string
	problems []string
	name     string
}

// IndexPage renders the translator.
//
// The rule set comes from the rules query parameter, then the Rules cookie.
// A broken share code is ignored. The text and saved query parameters preset
// the input and load a saved rule set.
func (rt *Routes) IndexPage(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()

	state, err := rt.app.Refresh(ctx, app.NewState())
	if err != nil {
		return err
	}

	query := r.URL.Query()

	if shared, ok := rt.app.ApplyShared(state, query); ok {
		state = shared
	} else if rules, ok := untrusted.GetRules(r, rt.app.Codec()); ok {
		state = state.WithRules(rules)
	}

	var fb feedback

	if name := query.Get("saved"); name != "" {
		if loaded, ok := state.LoadSaved(name); ok {
			state = loaded
			fb.name = strings.TrimSpace(name)
		} else {
			fb.problems = append(fb.problems, i18n.Tr(ctx, "Nothing is saved under “{{.Name}}”.", "Name", name))
		}
	}

	state = state.WithInput(utils.GetQueryParam(r, "text"))

	return rt.renderIndex(w, r, state, fb)
}

// indexAction handles one submit button of the index form.
type indexAction func(rt *Routes, r *http.Request, s app.State, fb *feedback) (app.State, error)

var indexActions = map[string]indexAction{
	"translate": translateAction,
	"random":    randomAction,
	"clear":     clearAction,
	"save":      saveAction,
	"load":      loadAction,
	"delete":    deleteAction,
	"import":    importAction,
}

// IndexPOST applies a form submission, remembers the resulting rules in the
// Rules cookie and renders the translator again.
func (rt *Routes) IndexPOST(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	if err := r.ParseMultipartForm(maxBodySize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		http.Error(w, err.Error(), http.StatusBadRequest)

		return nil
	}

	ctx := r.Context()

	state, err := rt.app.Refresh(ctx, app.NewState())
	if err != nil {
		return err
	}

	state = rt.formRules(r, state).WithInput(r.PostFormValue("text"))

	action, ok := indexActions[utils.GetFormValue(r, "action", "translate")]
	if !ok {
		action = translateAction
	}

	var fb feedback

	state, err = action(rt, r, state, &fb)
	if err != nil {
		return err
	}

	if err := untrusted.SetRules(w, r, rt.app.Codec(), state.Rules); err != nil {
		log.Warn().Err(err).Msg("Failed to remember rules")
	}

	return rt.renderIndex(w, r, state, fb)
}

// formRules reads the rule editor fields. Forms without them, such as the
// library buttons, keep the rules from the Rules cookie.
func (rt *Routes) formRules(r *http.Request, s app.State) app.State {
	if _, ok := r.PostForm["grammar"]; !ok {
		if rules, ok := untrusted.GetRules(r, rt.app.Codec()); ok {
			return s.WithRules(rules)
		}

		return s
	}

	s = s.WithRules(ruleset.Default())

	originals := r.PostForm["original"]
	replacements := r.PostForm["replacement"]

	for i, original := range originals {
		var replacement string
		if i < len(replacements) {
			replacement = replacements[i]
		}

		s = s.AddRule(strings.TrimSpace(original), replacement)
	}

	return s.
		SetPrefix(r.PostFormValue("prefix")).
		SetSuffix(r.PostFormValue("suffix")).
		SetGrammar(ruleset.Grammar(r.PostFormValue("grammar")))
}

//nolint:unparam
func translateAction(_ *Routes, _ *http.Request, s app.State, _ *feedback) (app.State, error) {
	return s, nil
}

//nolint:unparam
func randomAction(rt *Routes, _ *http.Request, s app.State, _ *feedback) (app.State, error) {
	return s.WithRules(rt.opts.Random()), nil
}

//nolint:unparam
func clearAction(_ *Routes, _ *http.Request, s app.State, _ *feedback) (app.State, error) {
	return s.Clear(), nil
}

func saveAction(rt *Routes, r *http.Request, s app.State, fb *feedback) (app.State, error) {
	name := strings.TrimSpace(r.PostFormValue("name"))

	next, err := rt.app.SaveCurrent(r.Context(), s, name)
	if errors.Is(err, library.ErrEmptyName) {
		fb.problems = append(fb.problems, i18n.Tr(r.Context(), "A name is required to save."))

		return s, nil
	}

	if err != nil {
		return s, err
	}

	fb.name = name
	fb.notices = append(fb.notices, i18n.Tr(r.Context(), "Saved “{{.Name}}”.", "Name", name))

	return next, nil
}

//nolint:unparam
func loadAction(_ *Routes, r *http.Request, s app.State, fb *feedback) (app.State, error) {
	name := strings.TrimSpace(r.PostFormValue("name"))

	next, ok := s.LoadSaved(name)
	if !ok {
		fb.problems = append(fb.problems, i18n.Tr(r.Context(), "Nothing is saved under “{{.Name}}”.", "Name", name))

		return s, nil
	}

	fb.name = name

	return next, nil
}

func deleteAction(rt *Routes, r *http.Request, s app.State, fb *feedback) (app.State, error) {
	name := strings.TrimSpace(r.PostFormValue("name"))

	next, err := rt.app.DeleteSaved(r.Context(), s, name)
	if err != nil {
		return s, err
	}

	fb.notices = append(fb.notices, i18n.Tr(r.Context(), "Deleted “{{.Name}}”.", "Name", name))

	return next, nil
}

func importAction(rt *Routes, r *http.Request, s app.State, fb *feedback) (app.State, error) {
	rejected := func() (app.State, error) {
		fb.problems = append(fb.problems, i18n.Tr(r.Context(), "That file is not a PhraseForge export."))

		return s, nil
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		return rejected()
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return rejected()
	}

	next, imported, ok, err := rt.app.Import(r.Context(), s, data)
	if err != nil {
		return s, err
	}

	if !ok {
		return rejected()
	}

	fb.name = imported.Name
	fb.notices = append(fb.notices, i18n.Tr(r.Context(), "Imported “{{.Name}}”.", "Name", imported.Name))

	return next, nil
}

func (rt *Routes) renderIndex(w http.ResponseWriter, r *http.Request, s app.State, fb feedback) error {
	ctx := r.Context()

	link, err := rt.app.ShareLink(s, shareBase(r))
	if err != nil {
		return err
	}

	stats := s.Stats()
	matches := rt.app.MatchCount(s)

	data := indexData{
		Notices:  fb.notices,
		Problems: fb.problems,
		Rules:    s.Rules,
		Rows:     append(s.Rules.Substitutions.Entries(), make([]ruleset.Substitution, blankRows)...),
		Grammars: grammarOptions(r, s.Rules.Grammar),
		Name:     fb.name,
		Input:    s.Input,
		StatsLine: i18n.TrN(ctx, "{{.Count}} character", "{{.Count}} characters", stats.Characters, "Count", stats.Characters) +
			" · " + i18n.TrN(ctx, "{{.Count}} word", "{{.Count}} words", stats.Words, "Count", stats.Words),
		Output:    rt.app.Output(s),
		MatchLine: i18n.TrN(ctx, "{{.Count}} rule application", "{{.Count}} rule applications", matches, "Count", matches),
		ShareLink: link,
		Samples:   app.SampleTexts,
		Saved:     s.Saved,
	}

	return template.Render(w, http.StatusOK, "index", template.NewPage(r, "Translate", data))
}

func grammarOptions(r *http.Request, selected ruleset.Grammar) []grammarOption {
	options := make([]grammarOption, 0, len(ruleset.AllGrammars))

	for _, g := range ruleset.AllGrammars {
		options = append(options, grammarOption{
			Value:    g,
			Label:    grammarLabels[g].Tr(r.Context()),
			Selected: g == selected,
		})
	}

	return options
}
