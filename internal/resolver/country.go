package resolver

import (
	"strings"
	"unicode"
)

// Accepted spellings and transliterations of the local-dataset country.
// Comparison happens after normalizeCountry, so punctuation and spacing in
// the input do not matter.
var localCountrySpellings = map[string]struct{}{
	"georgia":    {},
	"geo":        {},
	"ge":         {},
	"sakartvelo": {},
	"საქართველო": {},
	"грузия":     {},
	"gruzia":     {},
	"gruziya":    {},
	"georgien":   {},
	"georgie":    {},
}

// normalizeCountry lowercases the input and strips every rune outside the
// Latin, Georgian and Cyrillic alphabets and digits.
func normalizeCountry(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	var b strings.Builder
	for _, r := range s {
		if unicode.IsDigit(r) ||
			unicode.Is(unicode.Latin, r) ||
			unicode.Is(unicode.Georgian, r) ||
			unicode.Is(unicode.Cyrillic, r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// IsLocalCountry reports whether the country routes to the local dataset.
func IsLocalCountry(country string) bool {
	_, ok := localCountrySpellings[normalizeCountry(country)]
	return ok
}
