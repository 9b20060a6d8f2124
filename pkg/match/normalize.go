package match

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes raw ingredient text for comparison: lowercases,
// drops everything outside [a-z0-9] and whitespace, collapses whitespace runs
// to a single space and trims. It is total and idempotent. Accented letters
// are dropped like any other non-ASCII rune ("Crème" becomes "crme").
func Normalize(raw string) string {
	s := strings.ToLower(raw)

	var b strings.Builder
	b.Grow(len(s))
	space := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			if space && b.Len() > 0 {
				b.WriteByte(' ')
			}
			space = false
			b.WriteRune(r)
		case unicode.IsSpace(r):
			space = true
		}
	}
	return b.String()
}

// NormalizeFolded is Normalize after stripping combining marks, so "Crème"
// becomes "creme". Token mode and unknown-ingredient ids use it.
func NormalizeFolded(raw string) string {
	return Normalize(foldAccents(raw))
}

// Tokens returns the space separated tokens of the normalized name.
func Tokens(raw string) []string {
	return strings.Fields(Normalize(raw))
}

func foldAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}
