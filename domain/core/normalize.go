package core

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// StripAccents removes combining marks ("conversão" -> "conversao").
func StripAccents(s string) string {
	// transform.Chain keeps internal state, so it is built per call.
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		return s
	}
	return out
}

// NormalizeKey folds a column name, metric key or alias into its lookup form:
// lower case, no accents, and every run of whitespace or separators collapsed to '_'.
func NormalizeKey(raw string) string {
	s := strings.ToLower(StripAccents(strings.TrimSpace(raw)))

	var b strings.Builder
	b.Grow(len(s))
	pendingSep := false
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}
	return b.String()
}

// NormalizeUnit folds a unit name for table lookups; unlike NormalizeKey it keeps '/'
// and '%' so that "kg/dia" and "%" survive.
func NormalizeUnit(raw string) string {
	s := strings.ToLower(StripAccents(strings.TrimSpace(raw)))
	return strings.Join(strings.Fields(s), "")
}
