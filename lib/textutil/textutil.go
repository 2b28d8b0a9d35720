package textutil

import (
	"regexp"
	"strings"
	"unicode"
)

var innerWhitespace = regexp.MustCompile(`\s\s+`)

func removeNonPrintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// Clean drops non-printable runes, trims the ends and collapses runs of
// whitespace into a single space.
func Clean(s string) string {
	s = removeNonPrintable(s)
	s = strings.TrimSpace(s)
	return innerWhitespace.ReplaceAllString(s, " ")
}

// StripLabel turns a table label like "Date of Death:" into a field key.
// only the first colon is removed.
func StripLabel(label string) string {
	return strings.Replace(label, ":", "", 1)
}
