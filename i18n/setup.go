// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strings"

	"codeberg.org/phraseforge/phraseforge/server/assets"
	"github.com/leonelquinteros/gotext"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
)

const (
	// poDomain is the gettext domain loaded for each locale.
	poDomain = "phraseforge"

	poDir = "po"
)

var (
	// localesByTag maps canonical BCP 47 tags such as "en" or "pt-BR" to their catalogue.
	localesByTag map[string]*gotext.Locale

	// supportedTags lists BaseLocale followed by every loaded locale.
	supportedTags []language.Tag

	matcher language.Matcher
)

// Setup loads the catalogues in po/<locale>.po from the embedded assets and
// builds the language matcher. The locale part of a file name may use
// hyphens or underscores. po/phraseforge.pot is ignored.
//
// Calling Setup again replaces the loaded locales.
func Setup() error {
	return setupFS(assets.FS)
}

func setupFS(fsys fs.FS) error {
	Logger = log.With().Str("sys", "i18n").Logger()

	entries, err := fs.ReadDir(fsys, poDir)
	if err != nil {
		return fmt.Errorf("failed to read po directory: %w", err)
	}

	loaded := make(map[string]*gotext.Locale, len(entries))
	tags := []language.Tag{}

	for _, entry := range entries {
		fileName := entry.Name()
		if entry.IsDir() || path.Ext(fileName) != ".po" {
			continue
		}

		t, err := language.Parse(strings.ReplaceAll(strings.TrimSuffix(fileName, ".po"), "_", "-"))
		if err != nil {
			Logger.Warn().Err(err).Str("file", fileName).Msg("Skipping invalid locale file")

			continue
		}

		canonical := t.String()

		po := gotext.NewPoFS(fsys)
		po.ParseFile(path.Join(poDir, fileName))

		loc := gotext.NewLocale("", canonical)
		loc.AddTranslator(poDomain, po)

		loaded[canonical] = loc

		if t != baseTag {
			tags = append(tags, t)
		}

		Logger.Debug().
			Str("locale", canonical).
			Msg("Loaded locale")
	}

	slices.SortFunc(tags, func(a, b language.Tag) int {
		return strings.Compare(a.String(), b.String())
	})

	// baseTag comes first so that it is the fallback when nothing matches.
	all := append([]language.Tag{baseTag}, tags...)

	localesByTag = loaded
	supportedTags = all
	matcher = language.NewMatcher(all)

	Logger.Info().Int("locales", len(all)).Msg("Loaded translations")

	return nil
}
