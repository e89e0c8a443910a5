package dataset

import (
	"regexp"
	"strings"
)

var (
	reParenthetical = regexp.MustCompile(`\s*\(.*?\)`)
	reInitial       = regexp.MustCompile(`\b[A-Z]\.\s*`)
	reWhitespace    = regexp.MustCompile(`\s+`)
)

// NormalizeName canonicalizes a display name for identity matching.
// Parenthetical disambiguators ("John Smith (economist)") and middle
// initials ("Lawrence F. Katz") are removed, whitespace is collapsed and
// the result is lowercased. The function is total and idempotent; every
// name comparison in the pipeline goes through it on both sides.
func NormalizeName(name string) string {
	name = reParenthetical.ReplaceAllString(name, "")
	name = reInitial.ReplaceAllString(name, "")
	name = reWhitespace.ReplaceAllString(name, " ")
	return strings.ToLower(strings.TrimSpace(name))
}

// StripParenthetical removes a parenthetical suffix without any further
// normalization. Used to derive the secondary alias in the name index.
func StripParenthetical(name string) string {
	return strings.TrimSpace(reParenthetical.ReplaceAllString(name, ""))
}
