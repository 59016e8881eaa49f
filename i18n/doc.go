// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

/*
Package i18n translates the user interface using GNU gettext .po catalogues.

Use the original English UI text as the msgid; do not invent keys.

	i18n.Tr(ctx, "Translate")
	i18n.TrC(ctx, "grammar", "Reverse")
	i18n.TrN(ctx, "{{.Count}} word", "{{.Count}} words", n, "Count", n)

Missing translations return the msgid unchanged. When StrictMissingKeys is
enabled, missing lookups are logged once per locale and key, and the text is
visibly wrapped as "⟦...⟧".

Placeholders are text/template actions filled from alternating key-value
pairs. Numbers are not localised.

Translated rule sets are never passed through this package: only the
interface around them is.
*/
package i18n
