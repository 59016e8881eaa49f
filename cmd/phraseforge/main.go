// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command phraseforge translates text with substitution rule sets from the
command line and manages the same saved rule sets as the server.

Rules come from a JSON file (--rules), a share code (--share) or a saved rule
set (--saved). Without any of them the default rule set is used.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"codeberg.org/phraseforge/phraseforge/config"
	"codeberg.org/phraseforge/phraseforge/core/audit"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func main() {
	audit.SetDefaultLogger()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		log.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var defaults config.ServerConfig
	defaults.SetDefaults()

	c := &cli{}

	cmd := &cobra.Command{
		Use:           "phraseforge",
		Short:         "Translate text into invented languages",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&c.backend, "backend", string(defaults.Storage.Backend),
		"Saved rule set storage: memory, file or sqlite")
	cmd.PersistentFlags().StringVar(&c.path, "store", defaults.Storage.Path,
		"Path of the rule set file or database")

	cmd.AddCommand(
		c.translateCmd(),
		c.countCmd(),
		c.shareCmd(),
		c.exportCmd(),
		c.importCmd(),
		c.randomCmd(),
		c.libraryCmd(),
		versionCmd(),
	)

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "phraseforge %s (%s)\n", config.BuildVersion, config.Revision())
		},
	}
}
