// Copyright 2025, the PhraseForge contributors
// SPDX-License-Identifier: AGPL-3.0-only

package template

import (
	"html/template"
	"net/url"
	"strconv"
	"strings"
	"time"
)

var funcMap = template.FuncMap{
	"pathEscape":   url.PathEscape,
	"prettyNumber": PrettyNumber,
	"naturalTime":  NaturalTime,
}

// NaturalTime formats a time.Time value as a natural language string.
//
// TODO: tailor the format per locale.
func NaturalTime(date time.Time) string {
	return date.Format("Monday, 2 January 2006, at 3:04 PM")
}

// PrettyNumber pretty prints an integer with commas as thousands separators.
func PrettyNumber(n int) string {
	sign := ""
	if n < 0 {
		sign = "-"
		n = -n
	}

	digits := strconv.Itoa(n)

	const digitsPerGroup = 3

	var b strings.Builder

	b.WriteString(sign)

	for i, c := range digits {
		if i > 0 && (len(digits)-i)%digitsPerGroup == 0 {
			b.WriteByte(',')
		}

		b.WriteRune(c)
	}

	return b.String()
}
