// Package textutils provides text normalization utilities used when matching
// organisation names and references across IATI files.
package textutils

import (
	"regexp"
	"strings"
)

var (
	whitespaceRe = regexp.MustCompile(`\s+`)
	edgeJunkRe   = regexp.MustCompile(`^\W+|\W+$`)
)

// CleanString normalises internal whitespace to single spaces and removes any
// punctuation at the start and end of the string. Reported org names often
// carry stray quotes, dashes or doubled spaces; cleaning them keeps the
// first-seen-wins name cache from fragmenting.
func CleanString(s string) string {
	s = edgeJunkRe.ReplaceAllString(s, "")
	s = whitespaceRe.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// NormalizeRef canonicalises an organisation identifier for use as a cache
// key: whitespace trimmed and lowercased.
func NormalizeRef(ref string) string {
	return strings.ToLower(strings.TrimSpace(ref))
}
