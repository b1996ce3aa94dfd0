package utils

import (
	"strings"
	"unicode"
)

// Slugify lowercases s, strips accents of the common latin-1 range and
// collapses every non-alphanumeric run into a single dash.
func Slugify(s string) string {
	replacer := strings.NewReplacer(
		"à", "a", "â", "a", "ä", "a",
		"é", "e", "è", "e", "ê", "e", "ë", "e",
		"î", "i", "ï", "i",
		"ô", "o", "ö", "o",
		"ù", "u", "û", "u", "ü", "u",
		"ç", "c",
	)
	s = replacer.Replace(strings.ToLower(strings.TrimSpace(s)))

	var b strings.Builder
	lastDash := true // suppress a leading dash
	for _, r := range s {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastDash = false
		} else if !lastDash {
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
