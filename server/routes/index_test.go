// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package routes

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/cookie"
	"codeberg.org/phraseforge/phraseforge/core/exchange"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"codeberg.org/phraseforge/phraseforge/core/translator"
	"codeberg.org/phraseforge/phraseforge/server/request_context"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func originals(doc *goquery.Document) []string {
	var values []string

	doc.Find(`tr.rule input[name="original"]`).Each(func(_ int, s *goquery.Selection) {
		if v := s.AttrOr("value", ""); v != "" {
			values = append(values, v)
		}
	})

	return values
}

func TestIndexPage(t *testing.T) {
	t.Parallel()

	code, err := share.Base64Codec{}.Encode(greeting())
	require.NoError(t, err)

	tests := []struct {
		name              string
		target            string
		rulesCookie       string
		expectedOutput    string
		expectedOriginals []string
	}{
		{
			name:           "defaults",
			target:         "/?text=Hello+friend",
			expectedOutput: "Hello friend",
		},
		{
			name:              "shared rules",
			target:            "/?text=Hello+friend&rules=" + code,
			expectedOutput:    "Zyx vix",
			expectedOriginals: []string{"hello", "friend"},
		},
		{
			name:           "invalid share code falls back to defaults",
			target:         "/?text=Hello+friend&rules=!!!not-a-code",
			expectedOutput: "Hello friend",
		},
		{
			name:              "rules cookie",
			target:            "/?text=Hello",
			rulesCookie:       code,
			expectedOutput:    "Zyx",
			expectedOriginals: []string{"hello", "friend"},
		},
		{
			name:              "invalid share code falls back to the cookie",
			target:            "/?text=Hello&rules=AAAA",
			rulesCookie:       code,
			expectedOutput:    "Zyx",
			expectedOriginals: []string{"hello", "friend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := newTestRoutes(t)

			r := newRequest(http.MethodGet, tt.target, nil)
			if tt.rulesCookie != "" {
				r.AddCookie(&http.Cookie{Name: string(cookie.RulesCookie), Value: tt.rulesCookie})
			}

			w := httptest.NewRecorder()
			require.NoError(t, rt.IndexPage(w, r))
			assert.Equal(t, http.StatusOK, w.Code)

			doc := document(t, w)
			assert.Equal(t, tt.expectedOutput, doc.Find("#output").Text())
			assert.Equal(t, tt.expectedOriginals, originals(doc))
			assert.Len(t, doc.Find("tr.rule").Nodes, len(tt.expectedOriginals)+blankRows)
			assert.Zero(t, doc.Find(".notice-error").Length())

			link, ok := doc.Find("#share-link").Attr("value")
			require.True(t, ok)
			assert.True(t, strings.HasPrefix(link, "http://example.com/?rules="))
		})
	}
}

func TestIndexPage_Saved(t *testing.T) {
	t.Parallel()

	rt := newTestRoutes(t)
	require.NoError(t, rt.app.Save(t.Context(), "Greeting", greeting()))

	w := httptest.NewRecorder()
	require.NoError(t, rt.IndexPage(w, newRequest(http.MethodGet, "/?saved=Greeting&text=my+friend", nil)))

	doc := document(t, w)
	assert.Equal(t, "my vix", doc.Find("#output").Text())
	assert.Equal(t, "Greeting", doc.Find(`input[name="name"]`).First().AttrOr("value", ""))
	assert.Equal(t, "Greeting", doc.Find(".saved-name").Text())
	assert.Equal(t, "/api/rulesets/Greeting/export", doc.Find(".saved a").AttrOr("href", ""))

	w = httptest.NewRecorder()
	require.NoError(t, rt.IndexPage(w, newRequest(http.MethodGet, "/?saved=Missing", nil)))

	doc = document(t, w)
	assert.Equal(t, "Nothing is saved under “Missing”.", doc.Find(".notice-error").Text())
}

func TestIndexPOST(t *testing.T) {
	t.Parallel()

	editor := url.Values{
		"original":    {"hello", "", " Friend "},
		"replacement": {"zyx", "", "vix"},
		"prefix":      {""},
		"suffix":      {""},
		"grammar":     {"none"},
		"text":        {"Hello, my friend!"},
	}

	with := func(key, value string) url.Values {
		form := url.Values{}
		for k, v := range editor {
			form[k] = append([]string(nil), v...)
		}

		form.Set(key, value)

		return form
	}

	tests := []struct {
		name              string
		form              url.Values
		expectedOutput    string
		expectedOriginals []string
		expectedNotice    string
		expectedProblem   string
		expectedSaved     []string
	}{
		{
			name:              "translate",
			form:              with("action", "translate"),
			expectedOutput:    "Zyx, my vix!",
			expectedOriginals: []string{"hello", "friend"},
		},
		{
			name:              "unknown action translates",
			form:              with("action", "dance"),
			expectedOutput:    "Zyx, my vix!",
			expectedOriginals: []string{"hello", "friend"},
		},
		{
			name:              "random",
			form:              with("action", "random"),
			expectedOutput:    translator.Translate("Hello, my friend!", fixedRandom()),
			expectedOriginals: []string{"the"},
		},
		{
			name:           "clear",
			form:           with("action", "clear"),
			expectedOutput: "",
		},
		{
			name: "save",
			form: func() url.Values {
				form := with("action", "save")
				form.Set("name", "  Greeting ")

				return form
			}(),
			expectedOutput:    "Zyx, my vix!",
			expectedOriginals: []string{"hello", "friend"},
			expectedNotice:    "Saved “Greeting”.",
			expectedSaved:     []string{"Greeting"},
		},
		{
			name:              "save without a name",
			form:              with("action", "save"),
			expectedOutput:    "Zyx, my vix!",
			expectedOriginals: []string{"hello", "friend"},
			expectedProblem:   "A name is required to save.",
		},
		{
			name:              "unknown grammar selects none",
			form:              with("grammar", "yodel"),
			expectedOutput:    "Zyx, my vix!",
			expectedOriginals: []string{"hello", "friend"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rt := newTestRoutes(t)
			w := httptest.NewRecorder()

			require.NoError(t, rt.IndexPOST(w, formRequest(tt.form)))
			assert.Equal(t, http.StatusOK, w.Code)

			doc := document(t, w)
			assert.Equal(t, tt.expectedOutput, doc.Find("#output").Text())
			assert.Equal(t, tt.expectedOriginals, originals(doc))
			assert.Equal(t, tt.expectedNotice, doc.Find(".notice:not(.notice-error)").Text())
			assert.Equal(t, tt.expectedProblem, doc.Find(".notice-error").Text())

			var saved []string

			doc.Find(".saved-name").Each(func(_ int, s *goquery.Selection) {
				saved = append(saved, s.Text())
			})
			assert.Equal(t, tt.expectedSaved, saved)

			var remembered *http.Cookie

			for _, c := range w.Result().Cookies() {
				if c.Name == string(cookie.RulesCookie) {
					remembered = c
				}
			}

			require.NotNil(t, remembered, "the rules are remembered in a cookie")
		})
	}
}

func TestIndexPOST_Library(t *testing.T) {
	t.Parallel()

	rt := newTestRoutes(t)
	require.NoError(t, rt.app.Save(t.Context(), "Greeting", greeting()))

	// Library buttons carry no rule editor fields.
	w := httptest.NewRecorder()
	require.NoError(t, rt.IndexPOST(w, formRequest(url.Values{
		"action": {"load"},
		"name":   {"Greeting"},
		"text":   {"Hello"},
	})))

	doc := document(t, w)
	assert.Equal(t, "Zyx", doc.Find("#output").Text())

	w = httptest.NewRecorder()
	require.NoError(t, rt.IndexPOST(w, formRequest(url.Values{"action": {"load"}, "name": {"Missing"}})))
	assert.Equal(t, "Nothing is saved under “Missing”.", document(t, w).Find(".notice-error").Text())

	w = httptest.NewRecorder()
	require.NoError(t, rt.IndexPOST(w, formRequest(url.Values{"action": {"delete"}, "name": {"Greeting"}})))

	doc = document(t, w)
	assert.Equal(t, "Deleted “Greeting”.", doc.Find(".notice:not(.notice-error)").Text())
	assert.Zero(t, doc.Find(".saved").Length())

	names, err := rt.app.Names(t.Context())
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestIndexPOST_Import(t *testing.T) {
	t.Parallel()

	export, err := exchange.Export("Cool Stuff", greeting(), time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC))
	require.NoError(t, err)

	rt := newTestRoutes(t)
	fields := url.Values{"action": {"import"}, "text": {"Hello"}}

	w := httptest.NewRecorder()
	require.NoError(t, rt.IndexPOST(w, uploadRequest(t, "/", fields, export)))
	assert.Equal(t, http.StatusOK, w.Code)

	doc := document(t, w)
	assert.Equal(t, "Imported “Cool Stuff”.", doc.Find(".notice:not(.notice-error)").Text())
	assert.Equal(t, "Zyx", doc.Find("#output").Text())
	assert.Equal(t, "Cool Stuff", doc.Find(".saved-name").Text())

	w = httptest.NewRecorder()
	require.NoError(t, rt.IndexPOST(w, uploadRequest(t, "/", fields, []byte(`{"not":"an export"}`))))
	assert.Equal(t, "That file is not a PhraseForge export.", document(t, w).Find(".notice-error").Text())
}

func TestErrorPage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		target string
		status int
		err    error
	}{
		{name: "page not found", target: "/missing", status: http.StatusNotFound},
		{name: "internal error", target: "/", status: http.StatusInternalServerError, err: errors.New("store is down")},
		{name: "api not found", target: "/api/missing", status: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newRequest(http.MethodGet, tt.target, nil)

			rc := request_context.FromRequest(r)
			rc.StatusCode = tt.status
			rc.RequestError = tt.err

			w := httptest.NewRecorder()
			ErrorPage(w, r)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))

			if strings.HasPrefix(tt.target, "/api/") {
				resp := decode[apiError](t, w)
				assert.Equal(t, "Page not found", resp.Error)
				assert.Equal(t, rc.RequestID, resp.RequestID)

				return
			}

			doc := document(t, w)
			assert.Contains(t, doc.Find(".stats").Text(), rc.RequestID)
			assert.NotContains(t, doc.Text(), "store is down", "internal errors are not shown outside development")
		})
	}
}

func TestBlockPage(t *testing.T) {
	t.Parallel()

	w := httptest.NewRecorder()
	BlockPage(w, newRequest(http.MethodPost, "/api/translate", nil), BlockData{Reason: "Rate limit exceeded"}, http.StatusTooManyRequests)

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, BlockData{Reason: "Rate limit exceeded"}, decode[BlockData](t, w))

	w = httptest.NewRecorder()
	BlockPage(w, newRequest(http.MethodGet, "/", nil), BlockData{Reason: "IP in block-list"}, http.StatusForbidden)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, "IP in block-list", document(t, w).Find(".notice-error").Text())
}

func TestAboutPage(t *testing.T) {
	t.Parallel()

	rt := newTestRoutes(t)
	w := httptest.NewRecorder()

	require.NoError(t, rt.AboutPage(w, newRequest(http.MethodGet, "/about", nil)))
	assert.Equal(t, http.StatusOK, w.Code)

	text := document(t, w).Find("dl").Text()
	assert.Contains(t, text, "memory")
	assert.Contains(t, text, "0 of 32 entries")

	rt.opts.CacheStats = nil

	w = httptest.NewRecorder()
	require.NoError(t, rt.AboutPage(w, newRequest(http.MethodGet, "/about", nil)))
	assert.Contains(t, document(t, w).Find("dl").Text(), "Disabled")
}
