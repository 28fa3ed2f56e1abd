package normalizer

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	// asciiFold decomposes compatibility characters and drops whatever is
	// left outside ASCII, so "é" becomes "e" and "€" disappears.
	asciiFold = transform.Chain(norm.NFKD, runes.Remove(runes.Predicate(func(r rune) bool {
		return r > unicode.MaxASCII
	})))

	// RE2's \s leaves out \v and the \x1c-\x1f separators; headers treat
	// them as whitespace too.
	asciiDisallowed   = regexp.MustCompile(`[^\w\t\n\v\f\r \x1c-\x1f-]`)
	asciiSeparators   = regexp.MustCompile(`[-\t\n\v\f\r \x1c-\x1f]+`)
	unicodeDisallowed = regexp.MustCompile(`[^\p{L}\p{N}\p{Mn}\p{Mc}_\t\n\v\f\r \x1c-\x1f\x{85}\p{Z}-]`)
	unicodeSeparators = regexp.MustCompile(`[-\t\n\v\f\r \x1c-\x1f\x{85}\p{Z}]+`)
)

// Slugify converts header text to a canonical lowercase, hyphenated ASCII
// identifier. Characters without an ASCII base letter are dropped.
func Slugify(s string) string {
	folded, _, err := transform.String(asciiFold, s)
	if err != nil {
		folded = s
	}

	folded = strings.ToLower(folded)
	folded = asciiDisallowed.ReplaceAllString(folded, "")
	folded = asciiSeparators.ReplaceAllString(strings.TrimSpace(folded), "-")

	return strings.Trim(folded, "-")
}

// SlugifyUnicode is Slugify without the ASCII fold: NFKC-normalized,
// Unicode letters and digits are kept.
func SlugifyUnicode(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	s = unicodeDisallowed.ReplaceAllString(s, "")
	s = unicodeSeparators.ReplaceAllString(strings.TrimFunc(s, unicode.IsSpace), "-")

	return strings.Trim(s, "-")
}

// SlugFunc maps header text to an identifier.
type SlugFunc func(string) string
