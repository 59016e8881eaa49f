// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

//go:build integration

/*
To run these tests, specify `-tags=integration` when running `go test`.
*/
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"testing"
	"time"
)

const (
	// Server configuration constants.
	host      = "127.0.0.1:8282"
	authority = "http://127.0.0.1:8282"

	// Polling constants.
	retryCount  = 10
	dialTimeout = 250 * time.Millisecond
)

// httpTestCase defines a test case.
type httpTestCase struct {
	URL                string
	Method             string
	ExpectedStatusCode int

	// Body is sent as is; FormData is form-encoded when Body is empty.
	Body     string
	FormData map[string]string
}

// setDefault sets the default values for the test case.
func (c *httpTestCase) setDefault() {
	if c.ExpectedStatusCode == 0 {
		c.ExpectedStatusCode = 200
	}
}

// TestMain is used for global setup and teardown.
//
// It starts the server and waits for it to be available before running tests.
func TestMain(m *testing.M) {
	for key, value := range map[string]string{
		"PHRASEFORGE_HOST":            "127.0.0.1",
		"PHRASEFORGE_PORT":            "8282",
		"PHRASEFORGE_STORAGE_BACKEND": "memory",
		"PHRASEFORGE_LIMITER":         "false",
	} {
		if err := os.Setenv(key, value); err != nil {
			log.Fatalf("Failed to set %s: %v", key, err)
		}
	}

	go func() {
		if err := run(); err != nil {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for the server.
	if !waitForServerReady() {
		log.Fatalf("Server did not start in time")
	}

	os.Exit(m.Run())
}

// waitForServerReady polls the server until it's available or the retries are exhausted.
func waitForServerReady() bool {
	for range retryCount {
		conn, err := net.DialTimeout("tcp", host, dialTimeout)
		if err == nil {
			_ = conn.Close()

			return true // Server is up.
		}

		time.Sleep(dialTimeout)
	}

	return false
}

// TestBasicAllRoutes tests all basic routes of the server.
func TestBasicAllRoutes(t *testing.T) {
	t.Parallel()

	testCases := []httpTestCase{
		// Index page
		{URL: "/", Method: http.MethodGet},
		{URL: "/?text=I%20love%20you", Method: http.MethodGet},
		{URL: "/?rules=not-a-code", Method: http.MethodGet},
		{
			URL:      "/",
			Method:   http.MethodPost,
			FormData: map[string]string{"action": "random", "text": "Hello there"},
		},

		// About page
		{URL: "/about", Method: http.MethodGet},

		// Static files
		{URL: "/robots.txt", Method: http.MethodGet},
		{URL: "/css/phraseforge.css", Method: http.MethodGet},

		// Short share link
		{URL: "/s/abc", Method: http.MethodGet, ExpectedStatusCode: http.StatusPermanentRedirect},

		// JSON API
		{URL: "/api/random", Method: http.MethodGet},
		{URL: "/api/share?rules=%25", Method: http.MethodGet},
		{URL: "/api/rulesets", Method: http.MethodGet},
		{URL: "/api/rulesets/missing", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},
		{URL: "/api/translate", Method: http.MethodPost, Body: `{"text":"I love you"}`},
		{URL: "/api/translate", Method: http.MethodPost, Body: `[]`, ExpectedStatusCode: http.StatusBadRequest},

		// Not found
		{URL: "/artworks/1", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(fmt.Sprintf("%s %s", tc.Method, tc.URL), func(t *testing.T) {
			t.Parallel()
			tc.setDefault()

			resp := makeRequest(t, buildRequest(t, tc))
			defer resp.Body.Close()

			if resp.StatusCode != tc.ExpectedStatusCode {
				t.Errorf("expected status %d, got %d", tc.ExpectedStatusCode, resp.StatusCode)
			}
		})
	}
}

// TestSavedRuleSets walks one rule set through the library API.
func TestSavedRuleSets(t *testing.T) {
	t.Parallel()

	const rules = `{"substitutions":{"love":"lor"},"prefix":"","suffix":"","grammar":"none"}`

	steps := []httpTestCase{
		{URL: "/api/rulesets/Integration", Method: http.MethodPut, Body: rules},
		{URL: "/api/rulesets/Integration", Method: http.MethodGet},
		{URL: "/api/rulesets/Integration/export", Method: http.MethodGet},
		{URL: "/api/rulesets/Integration", Method: http.MethodDelete, ExpectedStatusCode: http.StatusNoContent},
		{URL: "/api/rulesets/Integration", Method: http.MethodGet, ExpectedStatusCode: http.StatusNotFound},
	}

	for _, step := range steps {
		step.setDefault()

		resp := makeRequest(t, buildRequest(t, step))
		_ = resp.Body.Close()

		if resp.StatusCode != step.ExpectedStatusCode {
			t.Fatalf("%s %s: expected status %d, got %d", step.Method, step.URL, step.ExpectedStatusCode, resp.StatusCode)
		}
	}
}

// TestTranslateOutput checks a translation end to end.
func TestTranslateOutput(t *testing.T) {
	t.Parallel()

	resp := makeRequest(t, buildRequest(t, httpTestCase{
		URL:    "/api/translate",
		Method: http.MethodPost,
		Body:   `{"text":"I love you","rules":{"substitutions":{"love":"lor"},"prefix":"","suffix":"","grammar":"none"}}`,
	}))
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read response: %v", err)
	}

	var result struct {
		Output string `json:"output"`
	}

	if err := json.Unmarshal(body, &result); err != nil {
		t.Fatalf("Failed to decode %q: %v", body, err)
	}

	if result.Output != "I lor you" {
		t.Errorf("expected %q, got %q", "I lor you", result.Output)
	}
}

func buildRequest(t *testing.T, tc httpTestCase) *http.Request {
	t.Helper()

	var (
		body        io.Reader
		contentType string
	)

	switch {
	case tc.Body != "":
		body = strings.NewReader(tc.Body)
		contentType = "application/json"
	case tc.FormData != nil:
		form := url.Values{}
		for k, v := range tc.FormData {
			form.Set(k, v)
		}

		body = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	}

	req, err := http.NewRequestWithContext(context.TODO(), tc.Method, authority+tc.URL, body)
	if err != nil {
		t.Fatalf("Failed to create request: %v", err)
	}

	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:122.0) Gecko/20100101 Firefox/122.0")

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	return req
}

func makeRequest(t *testing.T, req *http.Request) *http.Response {
	t.Helper()

	// Do not follow the short share link redirect.
	client := &http.Client{
		CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse },
	}

	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("Failed to execute request: %v", err)
	}

	return resp
}
