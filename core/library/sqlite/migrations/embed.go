// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package migrations

import "embed"

// FS contains embedded SQLite migrations for the rule set store.
//
//go:embed *.sql
var FS embed.FS
