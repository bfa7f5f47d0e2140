// Package textutil holds the text normalization shared by the heuristics.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Fold returns s trimmed, NFKC-normalized and case-folded, so that
// full-width forms, ligatures and case variants compare equal.
//
// A new caser is built per call; cases.Caser is stateful and not safe
// for concurrent use.
func Fold(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = norm.NFKC.String(s)
	return cases.Fold().String(s)
}

// ContainsAny reports whether folded contains any of the needles.
// Needles are expected to be folded already.
func ContainsAny(folded string, needles []string) bool {
	for _, n := range needles {
		if n != "" && strings.Contains(folded, n) {
			return true
		}
	}
	return false
}

// EqualsAny reports whether folded equals any of the candidates.
func EqualsAny(folded string, candidates []string) bool {
	for _, c := range candidates {
		if folded == c {
			return true
		}
	}
	return false
}

// FoldPattern folds a keyword for substring matching. Unlike Fold it keeps
// surrounding spaces, which are significant: "material " must not match
// "materials". A keyword of only spaces folds to "", which matches nothing.
func FoldPattern(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	return cases.Fold().String(norm.NFKC.String(s))
}

// FoldAll folds every entry of list with FoldPattern.
func FoldAll(list []string) []string {
	out := make([]string, 0, len(list))
	for _, s := range list {
		out = append(out, FoldPattern(s))
	}
	return out
}

// Len returns the length of s in runes.
func Len(s string) int {
	return len([]rune(s))
}

// Words splits s on white space.
func Words(s string) []string {
	return strings.Fields(s)
}

// IsUpper reports whether s has at least one cased letter and no
// lower-case letters.
func IsUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// HasUnderscoreOrHash reports whether s contains '_' or '#'.
func HasUnderscoreOrHash(s string) bool {
	return strings.ContainsAny(s, "_#")
}
