package util

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00a0", " ")
	s = strings.Join(strings.Fields(s), " ")
	return strings.TrimSpace(s)
}

// NFC composes Hangul jamo and other decomposed sequences so substring
// matching works regardless of how the text was produced.
func NFC(s string) string {
	return norm.NFC.String(s)
}

// Lower is NFC plus Unicode lower-casing.
func Lower(s string) string {
	return cases.Lower(language.Und).String(norm.NFC.String(s))
}
