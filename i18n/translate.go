// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import (
	"context"
	"strings"
	"sync"
	"text/template"

	"github.com/leonelquinteros/gotext"
	"golang.org/x/text/language"
)

// templateCache holds compiled placeholders per message text.
var templateCache sync.Map // key: text, value: *template.Template

// Vars are the placeholder values of a message.
type Vars map[string]any

// Tr returns the translation of msgid, formatted with the key-value pairs in kv.
func Tr(ctx context.Context, msgid string, kv ...any) string {
	return translate(ctx, "", msgid, "", 0, false, v(kv...))
}

// TrC is Tr with a disambiguating context, like gettext's pgettext.
func TrC(ctx context.Context, contextKey, msgid string, kv ...any) string {
	return translate(ctx, contextKey, msgid, "", 0, false, v(kv...))
}

// TrN picks the singular or plural translation for n. Without a translation,
// singular is used when n == 1 and plural otherwise.
func TrN(ctx context.Context, singular, plural string, n int, kv ...any) string {
	return translate(ctx, "", singular, plural, n, true, v(kv...))
}

func translate(
	ctx context.Context,
	contextKey, singular, plural string,
	n int,
	pluralMode bool,
	vars Vars,
) string {
	loc, matched := resolveLocale(TagFrom(ctx))

	base := singular
	if pluralMode && n != 1 {
		base = plural
	}

	text, found := lookup(loc, contextKey, singular, plural, n, pluralMode)
	if !found {
		text = base

		if strictMissingKeys() {
			logMissingOnce(strippedTagString(matched), buildLogKey(contextKey, singular))

			text = "⟦" + base + "⟧"
		}
	}

	return render(matched, text, vars)
}

func lookup(loc *gotext.Locale, contextKey, singular, plural string, n int, pluralMode bool) (string, bool) {
	if loc == nil {
		return "", false
	}

	switch {
	case pluralMode && contextKey != "":
		if loc.IsTranslatedNDC(poDomain, singular, n, contextKey) {
			return loc.GetNDC(poDomain, singular, plural, n, contextKey), true
		}
	case pluralMode:
		if loc.IsTranslatedND(poDomain, singular, n) {
			return loc.GetND(poDomain, singular, plural, n), true
		}
	case contextKey != "":
		if loc.IsTranslatedDC(poDomain, singular, contextKey) {
			return loc.GetDC(poDomain, singular, contextKey), true
		}
	default:
		if loc.IsTranslatedD(poDomain, singular) {
			return loc.GetD(poDomain, singular), true
		}
	}

	return "", false
}

// render fills the placeholders of s from data.
func render(locale language.Tag, s string, data Vars) string {
	if !strings.Contains(s, "{{") {
		return s
	}

	var tmpl *template.Template

	if cached, ok := templateCache.Load(s); ok {
		tmpl, _ = cached.(*template.Template)
	} else {
		var err error

		tmpl, err = template.New("msg").Option("missingkey=error").Parse(s)
		if err != nil {
			Logger.Warn().Err(err).Str("locale", locale.String()).Str("text", s).Msg("Invalid message template")

			return s
		}

		templateCache.Store(s, tmpl)
	}

	var buf strings.Builder
	if err := tmpl.Execute(&buf, map[string]any(data)); err != nil {
		Logger.Warn().Err(err).Str("locale", locale.String()).Str("text", s).Msg("Failed to fill message template")

		return s
	}

	return buf.String()
}

// resolveLocale matches t to one of the loaded locales.
// If no matcher or no locale is found, it returns nil and baseTag.
func resolveLocale(t language.Tag) (*gotext.Locale, language.Tag) {
	if matcher == nil {
		return nil, baseTag
	}

	// The matched tag may carry a region extension; the index does not.
	_, index, _ := matcher.Match(t)
	matched := supportedTags[index]

	return localesByTag[matched.String()], matched
}

// v builds Vars from alternating key, value pairs.
// Panics on programmer error.
func v(kv ...any) Vars {
	if len(kv)%2 != 0 {
		panic("i18n: odd number of arguments, want key, value pairs")
	}

	m := make(Vars, len(kv)/2)

	for i := 0; i < len(kv); i += 2 {
		k, ok := kv[i].(string)
		if !ok {
			panic("i18n: key must be string")
		}

		m[k] = kv[i+1]
	}

	return m
}
