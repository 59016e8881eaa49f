// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"codeberg.org/phraseforge/phraseforge/core/app"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"codeberg.org/phraseforge/phraseforge/server/request_context"
	"codeberg.org/phraseforge/phraseforge/server/utils"
	"github.com/rs/zerolog/log"
	"github.com/tidwall/gjson"
)

// maxBodySize bounds request bodies, including uploaded export files.
const maxBodySize = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

type apiError struct {
	Error     string `json:"error"`
	RequestID string `json:"requestId,omitempty"`
}

type translateResponse struct {
	Output  string        `json:"output"`
	Matches int           `json:"matches"`
	Stats   app.TextStats `json:"stats"`
}

type sharedResponse struct {
	Shared bool            `json:"shared"`
	Rules  ruleset.RuleSet `json:"rules"`
}

type shareResponse struct {
	Code string `json:"code"`
	URL  string `json:"url"`
}

type namesResponse struct {
	Names []string `json:"names"`
}

type importResponse struct {
	Imported bool   `json:"imported"`
	Name     string `json:"name,omitempty"`
	Error    string `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Err(err).Msg("Failed to encode JSON response")

		status = http.StatusInternalServerError
		data = []byte(`{"error":"internal error"}`)
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)

	_, _ = w.Write(data)
}

func writeAPIError(w http.ResponseWriter, r *http.Request, status int, err error) {
	log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("Rejected API request")

	writeJSON(w, status, apiError{Error: err.Error(), RequestID: request_context.FromRequest(r).RequestID})
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodySize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}

		return nil, fmt.Errorf("read request body: %w", err)
	}

	return data, nil
}

// bodyStatus is the status for a failure to read the request body.
func bodyStatus(err error) int {
	if errors.Is(err, errBodyTooLarge) {
		return http.StatusRequestEntityTooLarge
	}

	return http.StatusBadRequest
}

// readRules decodes a complete rule set from the request body.
func readRules(w http.ResponseWriter, r *http.Request) (ruleset.RuleSet, int, error) {
	data, err := readBody(w, r)
	if err != nil {
		return ruleset.RuleSet{}, bodyStatus(err), err
	}

	rules, err := ruleset.Parse(data)
	if err != nil {
		return ruleset.RuleSet{}, http.StatusBadRequest, err
	}

	return rules, http.StatusOK, nil
}

// APITranslate translates {"text": ..., "rules": ...}. Without rules the
// default rule set is used.
func (rt *Routes) APITranslate(w http.ResponseWriter, r *http.Request) error {
	data, err := readBody(w, r)
	if err != nil {
		writeAPIError(w, r, bodyStatus(err), err)

		return nil
	}

	body := gjson.ParseBytes(data)
	if !gjson.ValidBytes(data) || !body.IsObject() {
		writeAPIError(w, r, http.StatusBadRequest, ruleset.ErrNotObject)

		return nil
	}

	state := app.NewState().WithInput(body.Get("text").String())

	if raw := body.Get("rules"); raw.Exists() {
		rules, err := ruleset.Parse([]byte(raw.Raw))
		if err != nil {
			writeAPIError(w, r, http.StatusBadRequest, err)

			return nil
		}

		state = state.WithRules(rules)
	}

	writeJSON(w, http.StatusOK, translateResponse{
		Output:  rt.app.Output(state),
		Matches: rt.app.MatchCount(state),
		Stats:   state.Stats(),
	})

	return nil
}

// APIShared decodes the share code in the query. An absent or broken code
// yields the default rule set with shared set to false.
func (rt *Routes) APIShared(w http.ResponseWriter, r *http.Request) error {
	rules, ok := share.FromQuery(rt.app.Codec(), r.URL.Query())
	if !ok {
		rules = ruleset.Default()
	}

	writeJSON(w, http.StatusOK, sharedResponse{Shared: ok, Rules: rules})

	return nil
}

// APIShare turns the rule set in the body into a share code and link.
func (rt *Routes) APIShare(w http.ResponseWriter, r *http.Request) error {
	rules, status, err := readRules(w, r)
	if err != nil {
		writeAPIError(w, r, status, err)

		return nil
	}

	code, err := rt.app.Codec().Encode(rules)
	if err != nil {
		return err
	}

	link, err := rt.app.ShareLink(app.NewState().WithRules(rules), shareBase(r))
	if err != nil {
		return err
	}

	writeJSON(w, http.StatusOK, shareResponse{Code: code, URL: link})

	return nil
}

func (rt *Routes) APIRandom(w http.ResponseWriter, _ *http.Request) error {
	writeJSON(w, http.StatusOK, rt.opts.Random())

	return nil
}

// APIRuleSetNames lists the names of the saved rule sets.
func (rt *Routes) APIRuleSetNames(w http.ResponseWriter, r *http.Request) error {
	names, err := rt.app.Names(r.Context())
	if err != nil {
		return err
	}

	if names == nil {
		names = []string{}
	}

	writeJSON(w, http.StatusOK, namesResponse{Names: names})

	return nil
}

func (rt *Routes) APIGetRuleSet(w http.ResponseWriter, r *http.Request) error {
	name := utils.GetPathVar(r, "name")

	rules, ok, err := rt.app.Load(r.Context(), name)
	if err != nil {
		return err
	}

	if !ok {
		writeAPIError(w, r, http.StatusNotFound, fmt.Errorf("no rule set saved under %q", name))

		return nil
	}

	writeJSON(w, http.StatusOK, ruleset.SavedRuleSet{Name: strings.TrimSpace(name), Rules: rules})

	return nil
}

// APIPutRuleSet saves the rule set in the body under the name in the path,
// replacing what was there.
func (rt *Routes) APIPutRuleSet(w http.ResponseWriter, r *http.Request) error {
	name := utils.GetPathVar(r, "name")

	rules, status, err := readRules(w, r)
	if err != nil {
		writeAPIError(w, r, status, err)

		return nil
	}

	if err := rt.app.Save(r.Context(), name, rules); err != nil {
		if errors.Is(err, library.ErrEmptyName) {
			writeAPIError(w, r, http.StatusBadRequest, err)

			return nil
		}

		return err
	}

	writeJSON(w, http.StatusOK, ruleset.SavedRuleSet{Name: strings.TrimSpace(name), Rules: rules})

	return nil
}

func (rt *Routes) APIDeleteRuleSet(w http.ResponseWriter, r *http.Request) error {
	if err := rt.app.Delete(r.Context(), utils.GetPathVar(r, "name")); err != nil {
		return err
	}

	w.WriteHeader(http.StatusNoContent)

	return nil
}

// APIExportRuleSet sends the saved rule set as an export file download.
func (rt *Routes) APIExportRuleSet(w http.ResponseWriter, r *http.Request) error {
	name := utils.GetPathVar(r, "name")

	filename, data, ok, err := rt.app.Export(r.Context(), name)
	if err != nil {
		return err
	}

	if !ok {
		writeAPIError(w, r, http.StatusNotFound, fmt.Errorf("no rule set saved under %q", name))

		return nil
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
	w.WriteHeader(http.StatusOK)

	_, err = w.Write(data)

	return err
}

// APIImportRuleSet saves the rule set from an uploaded export file. The file
// is either the request body or the "file" field of a multipart form.
func (rt *Routes) APIImportRuleSet(w http.ResponseWriter, r *http.Request) error {
	data, err := readUpload(w, r)
	if err != nil {
		writeJSON(w, bodyStatus(err), importResponse{Error: err.Error()})

		return nil
	}

	imported, ok, err := rt.app.ImportFile(r.Context(), data)
	if err != nil {
		return err
	}

	if !ok {
		writeJSON(w, http.StatusUnprocessableEntity, importResponse{Error: "not a valid rule set export"})

		return nil
	}

	writeJSON(w, http.StatusOK, importResponse{Imported: true, Name: imported.Name})

	return nil
}

// readUpload returns the uploaded export file of a multipart form, or the
// whole body for any other content type.
func readUpload(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return readBody(w, r)
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)

	file, _, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}

		return nil, fmt.Errorf("read uploaded file: %w", err)
	}
	defer file.Close()

	return io.ReadAll(file)
}

// shareBase is the page share links point to.
func shareBase(r *http.Request) string {
	return request_context.FromRequest(r).CommonData.BaseURL + "/"
}
