// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import "time"

const (
	defaultHTTPCacheMaxAgeSeconds               = 30
	defaultHTTPCacheStaleWhileRevalidateSeconds = 60

	// 2 requests per second with bursts of 60 per network.
	defaultLimiterRate  = 2.0
	defaultLimiterBurst = 60
)

// SetDefaults populates the configuration with default values.
func (cfg *ServerConfig) SetDefaults() {
	cfg.Basic.Host = "localhost"
	cfg.Basic.Port = "8383"

	cfg.Storage.Backend = FileBackend
	cfg.Storage.Path = "./data/rulesets.json"

	cfg.Cache.Enabled = true
	cfg.Cache.Size = 512
	cfg.Cache.Compress = false

	cfg.HTTPCache.MaxAge = defaultHTTPCacheMaxAgeSeconds * time.Second
	cfg.HTTPCache.StaleWhileRevalidate = defaultHTTPCacheStaleWhileRevalidateSeconds * time.Second

	cfg.Instance.RawBaseURL = ""
	cfg.Instance.RepoURL = "https://codeberg.org/phraseforge/phraseforge"

	cfg.Log.Level = "info"
	cfg.Log.Outputs = []string{"/dev/stderr"}
	cfg.Log.Format = "console"

	cfg.Limiter.Enabled = false
	cfg.Limiter.Rate = defaultLimiterRate
	cfg.Limiter.Burst = defaultLimiterBurst
	cfg.Limiter.StateFilepath = ""
	cfg.Limiter.FilterLocal = false
	cfg.Limiter.IPv4Prefix = 24
	cfg.Limiter.IPv6Prefix = 48
	cfg.Limiter.Expiry = time.Hour

	cfg.Internationalization.StrictMissingKeys = false
}
