// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package untrusted

import (
	"net/http"

	"codeberg.org/phraseforge/phraseforge/core/cookie"
	"codeberg.org/phraseforge/phraseforge/core/ruleset"
	"codeberg.org/phraseforge/phraseforge/core/share"
	"github.com/rs/zerolog/log"
)

// GetRules returns the rule set remembered in the Rules cookie.
// It reports false when there is none or the cookie does not decode.
func GetRules(r *http.Request, codec share.Codec) (ruleset.RuleSet, bool) {
	code := GetCookie(r, cookie.RulesCookie)
	if code == "" {
		return ruleset.RuleSet{}, false
	}

	rules, err := codec.Decode(code)
	if err != nil {
		log.Debug().Err(err).Msg("Ignoring invalid rules cookie")

		return ruleset.RuleSet{}, false
	}

	return rules, true
}

// SetRules remembers rules in the Rules cookie. A rule set too large for a
// cookie is not remembered; the previous cookie is cleared instead.
func SetRules(w http.ResponseWriter, r *http.Request, codec share.Codec, rules ruleset.RuleSet) error {
	code, err := codec.Encode(rules)
	if err != nil {
		return err
	}

	if !SetCookie(w, r, cookie.RulesCookie, code) {
		log.Info().
			Int("length", len(code)).
			Msg("Rule set too large for a cookie, not remembering it")

		ClearCookie(w, r, cookie.RulesCookie)
	}

	return nil
}

// GetLang returns the preferred UI language from the Lang cookie, or "".
func GetLang(r *http.Request) string {
	return GetCookie(r, cookie.LangCookie)
}
