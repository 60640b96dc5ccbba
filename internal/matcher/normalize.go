package matcher

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Normalize folds s into the form used for comparison: NFKC, case-folded,
// every rune that is not a letter or digit turned into a space, and runs of
// whitespace collapsed to a single space.
func Normalize(s string) string {
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	// A Caser carries state, so each call gets its own.
	s = cases.Fold().String(s)

	s = strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			return r
		}
		return ' '
	}, s)
	return strings.Join(strings.Fields(s), " ")
}

// Tokens returns the whitespace-separated words of a normalized string.
func Tokens(normalized string) []string {
	return strings.Fields(normalized)
}
