package textutil

import (
	"strings"

	"golang.org/x/text/cases"
)

// Fold returns s normalized with Unicode case folding for caseless comparison.
func Fold(s string) string {
	return cases.Fold().String(s)
}

// FoldEquals reports whether a and b are equal under Unicode case folding.
func FoldEquals(a, b string) bool {
	if a == b {
		return true
	}
	return Fold(a) == Fold(b)
}

// JoinNames flattens a name list into a single comparable string, preserving
// the original order.
func JoinNames(names []string) string {
	return strings.Join(names, ", ")
}

// TruncateRunes shortens s to at most max runes. Multi-byte characters are
// never split.
func TruncateRunes(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
