// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

// Package idgen makes short identifiers for requests and cache busting.
package idgen

import (
	"crypto/rand"
	"encoding/base64"
	"time"
)

// entropyBytes is the random part of an ID, before encoding.
const entropyBytes = 4

// Make returns an ID made of the UTC time of day and some entropy, for
// example "142307Qk3x_A".
func Make() string {
	return makeAt(time.Now())
}

func makeAt(t time.Time) string {
	var entropy [entropyBytes]byte

	_, _ = rand.Read(entropy[:])

	return t.UTC().Format("150405") + base64.RawURLEncoding.EncodeToString(entropy[:])
}
