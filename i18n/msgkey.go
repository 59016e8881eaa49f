// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package i18n

import "context"

// MsgKey is a msgid held for translation later, when a context is at hand.
//
// MsgKey should be the original English UI text, not an invented key.
type MsgKey string

// Tr translates the msgid in the locale carried by ctx.
func (s MsgKey) Tr(ctx context.Context) string {
	return Tr(ctx, string(s))
}
