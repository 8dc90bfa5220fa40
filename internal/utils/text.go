// internal/utils/text.go

package utils

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var asciiFolder = transform.Chain(
	norm.NFD,
	runes.Remove(runes.In(unicode.Mn)),
	norm.NFC,
)

// FoldASCII strips diacritical marks from a string, turning accented
// characters into their plain ASCII equivalents. Characters with no
// ASCII equivalent are dropped.
func FoldASCII(s string) string {
	folded, _, err := transform.String(asciiFolder, s)
	if err != nil {
		return s
	}
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if r < 128 {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// CleanText normalizes whitespace in text extracted from HTML: runs of
// spaces, tabs and newlines collapse to a single space, and leading and
// trailing whitespace is removed.
func CleanText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeKey lowercases and trims a string for use as a stable
// comparison key.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
