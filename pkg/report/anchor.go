package report

import (
	"strings"
	"unicode"
)

// Anchor turns a name into an in-document link target. Runs of spaces and
// dashes collapse to a single dash, letters, digits and underscores are
// kept as-is, and everything else (punctuation, emoji) is dropped.
// Letters follow the Unicode Alphabetic property, so combining vowel signs
// stay while viramas and accents are dropped.
func Anchor(s string) string {
	var sb strings.Builder
	sb.Grow(len(s))
	wasDash := false
	for _, r := range s {
		switch {
		case r == '_':
			sb.WriteRune(r)
			wasDash = false
		case r == ' ' || r == '-':
			// Only a literal space counts: Markdown renderers do the same.
			if !wasDash {
				wasDash = true
				sb.WriteByte('-')
			}
		case isAlphanumeric(r):
			sb.WriteRune(r)
			wasDash = false
		}
	}
	return sb.String()
}

func isAlphanumeric(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsNumber(r) || unicode.Is(unicode.Other_Alphabetic, r)
}
