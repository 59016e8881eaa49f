// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Command i18n_extract collects the translatable messages of PhraseForge into a
gettext template.

Messages come from two places: calls to i18n.Tr, i18n.TrC and i18n.TrN (and
implicit i18n.MsgKey conversions) in Go code, and the .Tr and .TrN page
methods used by the HTML templates. Run it from the module root:

	go run ./cmd/i18n_extract
*/
package main

import (
	"flag"
	"os"
	"path/filepath"
	"time"

	"codeberg.org/phraseforge/phraseforge/core/audit"
	"github.com/rs/zerolog/log"
	"golang.org/x/tools/go/packages"
)

func main() {
	audit.SetDefaultLogger()

	outPath := flag.String("o", "server/assets/po/phraseforge.pot", "output file")
	templateDir := flag.String("templates", "server/assets/templates", "directory of HTML templates")
	flag.Parse()

	wd, err := os.Getwd()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get working directory")
	}

	root := findProjectRoot(wd)

	pkgs, err := packages.Load(&packages.Config{Mode: packages.LoadAllSyntax, Tests: false}, "./...")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load packages")
	}

	if packages.PrintErrors(pkgs) > 0 {
		log.Fatal().Msg("Failed to load packages due to errors")
	}

	refs := extractGo(pkgs, root, findI18nPkgPaths(pkgs))

	if err := extractTemplates(os.DirFS(root), filepath.ToSlash(*templateDir), refs); err != nil {
		log.Fatal().Err(err).Msg("Failed to scan templates")
	}

	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create output directory")
	}

	file, err := os.Create(*outPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to create output file")
	}
	defer file.Close()

	if err := writePOT(file, refs, detectVersion(), time.Now()); err != nil {
		log.Fatal().Err(err).Str("path", *outPath).Msg("Failed to write output file")
	}

	log.Info().Int("messages", len(refs)).Str("path", *outPath).Msg("Extracted messages")
}
