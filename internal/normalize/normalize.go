// Package normalize provides the pure string transforms used by the
// classifier and comparator. Every function is total: it never errors and
// returns a usable string for any input. All transforms are idempotent.
package normalize

import (
	"strings"
	"unicode"
)

// StripPunctuation removes punctuation (periods, commas, parens, colons,
// semicolons, quotes, ...) so tokens like "Vol." compare equal to "Vol".
// '&', '%', and '/' are preserved: '&' is handled by NormalizeAmpersand, and
// '%' and '/' are load-bearing in alcohol content statements ("45% Alc./Vol.").
func StripPunctuation(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsPunct(r) && r != '&' && r != '%' && r != '/' {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CollapseSpaces removes all whitespace, for OCR output that drops or invents
// separators ("750mL" vs "750 mL").
func CollapseSpaces(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeAmpersand canonicalizes ampersands to the word "and" so
// "Produced & Bottled by" compares equal to "Produced and Bottled by".
// Applying it to both sides of a comparison makes the rewrite bidirectional.
func NormalizeAmpersand(s string) string {
	if !strings.Contains(s, "&") {
		return s
	}
	s = strings.ReplaceAll(s, "&", " and ")
	return strings.Join(strings.Fields(s), " ")
}

// Fold lowercases and collapses whitespace runs to single spaces, trimming
// the ends. This is the base comparison form for free-text fields.
func Fold(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Comparable reduces a free-text value to its canonical comparison form:
// ampersands rewritten, punctuation stripped, case folded, spaces collapsed
// to single separators.
func Comparable(s string) string {
	return Fold(StripPunctuation(NormalizeAmpersand(s)))
}
