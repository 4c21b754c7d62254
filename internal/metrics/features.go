package metrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Features holds basic local text features derived from a scenario.
type Features struct {
	Bytes int
	Runes int
	Words int
	Lines int
	// Refs counts order, customer and driver references such as ORD-123 or D-7.
	Refs int
}

var refPattern = regexp.MustCompile(`\b[A-Z]{1,4}-[0-9]+\b`)

// CountFeatures computes byte, rune, word, line and reference counts for s.
func CountFeatures(s string) Features {
	return Features{
		Bytes: len(s),
		Runes: utf8.RuneCountInString(s),
		Words: len(strings.Fields(s)),
		Lines: countLines(s),
		Refs:  len(refPattern.FindAllString(s, -1)),
	}
}

// countLines returns 0 for empty strings; otherwise 1 plus the number of '\n' runes.
func countLines(s string) int {
	if s == "" {
		return 0
	}
	return 1 + strings.Count(s, "\n")
}
