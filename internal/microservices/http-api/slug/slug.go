// Package slug derives URL-safe identifiers from titles and names.
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// MaxLength matches the slug column size.
const MaxLength = 100

var nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)

// Make lowercases s, folds accented letters to ASCII and collapses every run
// of other characters into a single dash. "Hello, World!" becomes "hello-world".
// The result is empty when s has no letters or digits.
func Make(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.String(t, s)
	if err != nil {
		folded = s
	}

	out := nonAlnum.ReplaceAllString(strings.ToLower(folded), "-")
	out = strings.Trim(out, "-")
	if len(out) > MaxLength {
		out = strings.TrimRight(out[:MaxLength], "-")
	}
	return out
}

// Valid reports whether s is already in slug form.
func Valid(s string) bool {
	return s != "" && len(s) <= MaxLength && Make(s) == s
}
