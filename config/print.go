// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/rs/zerolog/log"
)

// Printable returns the configuration as YAML, with credentials embedded in
// the public base URL redacted.
func (cfg *ServerConfig) Printable() ([]byte, error) {
	printableConfig := *cfg

	if cfg.Instance.BaseURL.User != nil {
		printableConfig.Instance.RawBaseURL = cfg.Instance.BaseURL.Redacted()
	}

	return yaml.MarshalWithOptions(printableConfig, GetDurationEncoderOption())
}

func (cfg *ServerConfig) print() {
	log.Info().
		Str("version", BuildVersion).
		Str("revision", cfg.Build.Revision()).
		Str("cacheid", cfg.Instance.FileServerCacheID).
		Msg("Starting PhraseForge")

	configYAML, err := cfg.Printable()
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal config to YAML for printing")

		return
	}

	log.Info().Msg("Application configuration:")
	fmt.Fprintln(os.Stderr, string(configYAML))
}
