// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package utils_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"codeberg.org/phraseforge/phraseforge/server/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		urlStr   string
		wantErr  bool
		expected string
	}{
		{"Valid URL", "https://example.com", false, "https://example.com"},
		{"Trailing slash", "https://example.com/", false, "https://example.com"},
		{"Path with trailing slash", "https://example.com/forge/", false, "https://example.com/forge"},
		{"URL with query params", "https://example.com/path?q=test", false, "https://example.com/path?q=test"},
		{"Missing scheme", "example.com", true, ""},
		{"Missing host", "https://", true, ""},
		{"Empty URL", "", true, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := utils.ParseURL(tt.urlStr, "Test")
			if tt.wantErr {
				require.Error(t, err)

				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.expected, got.String())
		})
	}
}

func TestGetOriginFromRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		remoteAddr string
		proto      string
		want       string
	}{
		{"plain", "203.0.113.9:1234", "", "http://forge.example"},
		{"trusted proxy", "10.0.0.2:1234", "https", "https://forge.example"},
		{"loopback proxy", "127.0.0.1:1234", "https", "https://forge.example"},
		{"untrusted proxy header", "203.0.113.9:1234", "https", "http://forge.example"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := httptest.NewRequest(http.MethodGet, "http://forge.example/", nil)
			r.RemoteAddr = tt.remoteAddr

			if tt.proto != "" {
				r.Header.Set("X-Forwarded-Proto", tt.proto)
			}

			assert.Equal(t, tt.want, utils.GetOriginFromRequest(r))
		})
	}
}

func TestGetters(t *testing.T) {
	t.Parallel()

	r := httptest.NewRequest(http.MethodGet, "/api/rulesets/x?text=hi", nil)
	r.SetPathValue("name", "Calm")

	assert.Equal(t, "hi", utils.GetQueryParam(r, "text"))
	assert.Equal(t, "fallback", utils.GetQueryParam(r, "missing", "fallback"))
	assert.Equal(t, "Calm", utils.GetPathVar(r, "name"))
	assert.Empty(t, utils.GetPathVar(r, "other"))
	assert.Equal(t, "hi", utils.GetFormValue(r, "text"))
}
