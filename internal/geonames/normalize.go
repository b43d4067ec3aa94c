package geonames

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// NormName derives the normalized form of a display name used for prefix
// search: all non-letter runes removed, NFKC compatibility normalization,
// lower-cased. It is a pure function of the display name and must be
// applied identically when indexing and when querying.
func NormName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		if unicode.IsLetter(r) {
			b.WriteRune(r)
		}
	}
	return strings.ToLower(norm.NFKC.String(b.String()))
}
