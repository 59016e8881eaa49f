// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/core/library"
	"codeberg.org/phraseforge/phraseforge/core/library/backend"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	errNotSaved     = errors.New("no rule set is saved under that name")
	errNameRequired = errors.New("a name is required")
)

// cli holds the flags shared by the subcommands.
type cli struct {
	backend string
	path    string

	rulesFile string
	shareCode string
	saved     string
}

// addRuleFlags registers the flags that choose the rule set.
func (c *cli) addRuleFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&c.rulesFile, "rules", "", "Read the rule set from a JSON file")
	cmd.Flags().StringVar(&c.shareCode, "share", "", "Use the rule set carried by a share code")
	cmd.Flags().StringVar(&c.saved, "saved", "", "Use a saved rule set")
	cmd.MarkFlagsMutuallyExclusive("rules", "share", "saved")
}

// rules resolves the rule set chosen by the rule flags.
func (c *cli) rules(ctx context.Context) (ruleset.RuleSet, error) {
	switch {
	case c.rulesFile != "":
		data, err := os.ReadFile(c.rulesFile)
		if err != nil {
			return ruleset.RuleSet{}, fmt.Errorf("read rules: %w", err)
		}

		return ruleset.Parse(data)

	case c.shareCode != "":
		rules, err := share.Base64Codec{}.Decode(c.shareCode)
		if err != nil {
			return ruleset.RuleSet{}, fmt.Errorf("invalid share code: %w", err)
		}

		return rules, nil

	case c.saved != "":
		var rules ruleset.RuleSet

		err := c.withLibrary(ctx, func(lib *library.Library) error {
			loaded, ok, err := lib.Load(ctx, c.saved)
			if err != nil {
				return err
			}

			if !ok {
				return fmt.Errorf("%w: %q", errNotSaved, c.saved)
			}

			rules = loaded

			return nil
		})

		return rules, err
	}

	return ruleset.Default(), nil
}

// withLibrary opens the configured store for the duration of fn.
func (c *cli) withLibrary(ctx context.Context, fn func(*library.Library) error) error {
	store, err := backend.Open(ctx, config.StorageBackend(c.backend), c.path)
	if err != nil {
		return err
	}

	defer func() {
		if err := store.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close rule set storage")
		}
	}()

	return fn(library.New(store))
}

// inputText joins args, or reads standard input when there are none.
func inputText(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}

	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimSuffix(string(data), "\n"), nil
}
