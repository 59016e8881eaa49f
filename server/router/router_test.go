// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"codeberg.org/phraseforge/phraseforge/core/app"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/memo"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"codeberg.org/phraseforge/phraseforge/server/middleware/limiter"
	"codeberg.org/phraseforge/phraseforge/server/routes"
	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T, lim *limiter.Limiter) *Router {
	t.Helper()

	cache, err := memo.NewCache(64, true)
	require.NoError(t, err)

	translations := memo.New(cache)
	a := app.New(library.New(library.NewMemoryStore()), share.Base64Codec{}, translations)

	router := NewRouter()
	router.DefineRoutes(routes.New(a, routes.Options{Storage: "memory", CacheStats: translations.Stats}))
	router.RegisterMiddleware(lim)

	return router
}

func TestRouter_Translate(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	body := `{"text":"I love dogs.","rules":{"substitutions":{"love":"lor"},"prefix":"","suffix":"","grammar":"reverse"}}`

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/api/translate", strings.NewReader(body)))

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "private, no-cache", rr.Header().Get("Cache-Control"))

	var resp struct {
		Output  string `json:"output"`
		Matches int    `json:"matches"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	assert.Equal(t, "dogs lor I.", resp.Output)
	assert.Equal(t, 1, resp.Matches)
}

func TestRouter_InvalidShareCode(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/?rules=%25%25%25&text=Hello", nil))

	require.Equal(t, http.StatusOK, rr.Code)

	doc, err := goquery.NewDocumentFromReader(rr.Body)
	require.NoError(t, err)
	assert.Equal(t, "Hello", doc.Find("#output").Text())
	assert.Equal(t, "none", doc.Find(`select[name="grammar"] option[selected]`).AttrOr("value", ""))
}

func TestRouter_Routes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name             string
		method           string
		target           string
		expectedStatus   int
		expectedType     string
		expectedLocation string
	}{
		{name: "index", method: http.MethodGet, target: "/", expectedStatus: http.StatusOK, expectedType: "text/html; charset=utf-8"},
		{name: "about", method: http.MethodGet, target: "/about", expectedStatus: http.StatusOK, expectedType: "text/html; charset=utf-8"},
		{name: "trailing slash", method: http.MethodGet, target: "/about/", expectedStatus: http.StatusPermanentRedirect, expectedLocation: "/about"},
		{name: "stylesheet", method: http.MethodGet, target: "/css/phraseforge.css", expectedStatus: http.StatusOK, expectedType: "text/css; charset=utf-8"},
		{name: "robots", method: http.MethodGet, target: "/robots.txt", expectedStatus: http.StatusOK},
		{name: "random", method: http.MethodGet, target: "/api/random", expectedStatus: http.StatusOK, expectedType: "application/json; charset=utf-8"},
		{name: "saved names", method: http.MethodGet, target: "/api/rulesets", expectedStatus: http.StatusOK, expectedType: "application/json; charset=utf-8"},
		{name: "missing saved rule set", method: http.MethodGet, target: "/api/rulesets/nope", expectedStatus: http.StatusNotFound, expectedType: "application/json; charset=utf-8"},
		{name: "short share link", method: http.MethodGet, target: "/s/abc", expectedStatus: http.StatusPermanentRedirect, expectedLocation: "/?rules=abc"},
		{name: "unknown page", method: http.MethodGet, target: "/nope", expectedStatus: http.StatusNotFound, expectedType: "text/html; charset=utf-8"},
		{name: "unknown api", method: http.MethodGet, target: "/api/nope", expectedStatus: http.StatusNotFound, expectedType: "application/json; charset=utf-8"},
	}

	router := newTestRouter(t, nil)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, httptest.NewRequest(tt.method, tt.target, nil))

			assert.Equal(t, tt.expectedStatus, rr.Code)

			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, rr.Header().Get("Content-Type"))
			}

			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, rr.Header().Get("Location"))
			}
		})
	}
}

func TestRouter_RulesetLifecycle(t *testing.T) {
	t.Parallel()

	router := newTestRouter(t, nil)

	do := func(method, target, body string) *httptest.ResponseRecorder {
		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, httptest.NewRequest(method, target, strings.NewReader(body)))

		return rr
	}

	rules := `{"substitutions":{"cat":"dog"},"prefix":"zy-","suffix":"","grammar":"none"}`

	require.Equal(t, http.StatusOK, do(http.MethodPut, "/api/rulesets/My%20Rules", rules).Code)
	assert.JSONEq(t, `{"names":["My Rules"]}`, do(http.MethodGet, "/api/rulesets", "").Body.String())

	export := do(http.MethodGet, "/api/rulesets/My%20Rules/export", "")
	require.Equal(t, http.StatusOK, export.Code)
	assert.Equal(t, `attachment; filename=My_Rules_rules.json`, export.Header().Get("Content-Disposition"))

	assert.Equal(t, http.StatusNoContent, do(http.MethodDelete, "/api/rulesets/My%20Rules", "").Code)
	assert.Equal(t, http.StatusNotFound, do(http.MethodGet, "/api/rulesets/My%20Rules", "").Code)

	imported := do(http.MethodPost, "/api/rulesets/import", export.Body.String())
	require.Equal(t, http.StatusOK, imported.Code)
	assert.JSONEq(t, `{"imported":true,"name":"My Rules"}`, imported.Body.String())

	rejected := do(http.MethodPost, "/api/rulesets/import", `{"name":"x"}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rejected.Code)
	assert.JSONEq(t, `{"imported":false,"error":"not a valid rule set export"}`, rejected.Body.String())
}

func TestRouter_Limiter(t *testing.T) {
	t.Parallel()

	lim := limiter.New(limiter.Options{Rate: 0.001, Burst: 1, IPv4Prefix: 24, IPv6Prefix: 48})
	router := newTestRouter(t, lim)

	request := func(target string) *httptest.ResponseRecorder {
		r := httptest.NewRequest(http.MethodGet, target, nil)
		r.RemoteAddr = "8.8.8.8:1234"

		rr := httptest.NewRecorder()
		router.ServeHTTP(rr, r)

		return rr
	}

	assert.Equal(t, http.StatusOK, request("/api/random").Code)

	limited := request("/api/random")
	assert.Equal(t, http.StatusTooManyRequests, limited.Code)
	assert.JSONEq(t, `{"reason":"Rate limit exceeded"}`, limited.Body.String())

	assert.Equal(t, http.StatusOK, request("/about").Code, "the about page is not limited")
}
