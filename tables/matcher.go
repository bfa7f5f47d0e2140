package tables

import (
	"strings"

	"github.com/tsawler/docreview/internal/textutil"
	"github.com/tsawler/docreview/vocab"
)

// Matcher evaluates header and title patterns against text.
// Lengths are measured in runes on the trimmed, unfolded text; keyword
// tests run on folded text.
type Matcher struct {
	knownHeaders       []string
	paragraphPatterns  []string
	titleKeywords      []string
	headerIndicators   []string
	definiteIndicators []string
	rowPatterns        []string
	namePatterns       []string
	retryKeywords      []string
	retryExclusions    []string
}

// NewMatcher builds a Matcher from a vocabulary.
func NewMatcher(v vocab.Tables) *Matcher {
	return &Matcher{
		knownHeaders:       textutil.FoldAll(v.KnownHeaders),
		paragraphPatterns:  textutil.FoldAll(v.ParagraphHeaderPatterns),
		titleKeywords:      textutil.FoldAll(v.TitleKeywords),
		headerIndicators:   textutil.FoldAll(v.HeaderIndicators),
		definiteIndicators: textutil.FoldAll(append(append([]string(nil), v.HeaderIndicators...), v.DefiniteHeaderIndicators...)),
		rowPatterns:        textutil.FoldAll(v.RowHeaderPatterns),
		namePatterns:       textutil.FoldAll(v.NamePatterns),
		retryKeywords:      textutil.FoldAll(v.RetryKeywords),
		retryExclusions:    textutil.FoldAll(v.RetryExclusions),
	}
}

// shortCoded reports whether text is under limit runes and contains '_'
// or '#'.
func shortCoded(text string, limit int) bool {
	return textutil.Len(text) < limit && textutil.HasUnderscoreOrHash(text)
}

// IsKnownHeader reports whether text is one of the literal column
// identifiers.
func (m *Matcher) IsKnownHeader(text string) bool {
	return textutil.EqualsAny(textutil.Fold(text), m.knownHeaders)
}

// ParagraphLooksLikeHeader reports whether a paragraph reads as a column
// identifier rather than a title.
func (m *Matcher) ParagraphLooksLikeHeader(text string) bool {
	folded := textutil.Fold(text)
	return textutil.ContainsAny(folded, m.paragraphPatterns) ||
		shortCoded(text, 20) ||
		textutil.EqualsAny(folded, m.knownHeaders)
}

// HasTitleKeyword reports whether text contains a title keyword.
func (m *Matcher) HasTitleKeyword(text string) bool {
	return textutil.ContainsAny(textutil.Fold(text), m.titleKeywords)
}

// IsTitleCandidate reports whether a preceding paragraph may name a table
// at all: shorter than 100 runes and not ending in a full stop.
func IsTitleCandidate(text string) bool {
	return text != "" && textutil.Len(text) < 100 && !strings.HasSuffix(text, ".")
}

// ParagraphTitle reports whether a candidate paragraph is accepted as a
// table title.
func (m *Matcher) ParagraphTitle(text string) bool {
	if !IsTitleCandidate(text) || m.ParagraphLooksLikeHeader(text) {
		return false
	}
	if m.HasTitleKeyword(text) {
		return true
	}
	n := textutil.Len(text)
	if n <= 5 || n >= 60 {
		return false
	}
	words := len(textutil.Words(text))
	if words >= 2 || (words == 1 && n > 8) {
		return !m.IsKnownHeader(text)
	}
	return false
}

// RowLooksLikeHeaders reports whether any cell of row carries a header
// indicator, or is a short code or upper-case token.
func (m *Matcher) RowLooksLikeHeaders(row []string) bool {
	for _, text := range row {
		if textutil.ContainsAny(textutil.Fold(text), m.headerIndicators) {
			return true
		}
		if textutil.Len(text) < 15 && (textutil.HasUnderscoreOrHash(text) || textutil.IsUpper(text)) {
			return true
		}
	}
	return false
}

// RowDefinitelyHeaders is the stricter header-row test: any cell with an
// indicator, a short code or upper-case token under 25 runes, or any cell
// under 15 runes.
func (m *Matcher) RowDefinitelyHeaders(row []string) bool {
	for _, text := range row {
		if textutil.ContainsAny(textutil.Fold(text), m.definiteIndicators) {
			return true
		}
		n := textutil.Len(text)
		if n < 25 && (textutil.HasUnderscoreOrHash(text) || textutil.IsUpper(text)) {
			return true
		}
		if n < 15 {
			return true
		}
	}
	return false
}

// RowHasHeaderPatterns reports whether any cell of row contains a header
// pattern; such a row is never a title row.
func (m *Matcher) RowHasHeaderPatterns(row []string) bool {
	for _, text := range row {
		if m.TextHasHeaderPatterns(text) {
			return true
		}
	}
	return false
}

// TextHasHeaderPatterns reports whether text contains a known header or a
// header pattern, or is a short code.
func (m *Matcher) TextHasHeaderPatterns(text string) bool {
	folded := textutil.Fold(text)
	return textutil.ContainsAny(folded, m.knownHeaders) ||
		textutil.ContainsAny(folded, m.rowPatterns) ||
		shortCoded(text, 20)
}

// NameLooksLikeHeader is the final validation of a derived name.
// fromParagraph relaxes the very-short test for names taken from a
// preceding paragraph.
func (m *Matcher) NameLooksLikeHeader(name string, fromParagraph bool) bool {
	folded := textutil.Fold(name)
	n := textutil.Len(strings.TrimSpace(name))

	knownHeader := textutil.ContainsAny(folded, m.knownHeaders) || textutil.EqualsAny(folded, m.knownHeaders)
	hasPattern := textutil.ContainsAny(folded, m.namePatterns)
	shortWithSpecial := n < 25 && textutil.HasUnderscoreOrHash(name)
	veryShort := n < 15
	singleWord := len(textutil.Words(name)) == 1 && n < 20

	return knownHeader || hasPattern || shortWithSpecial ||
		(veryShort && !fromParagraph) || (singleWord && hasPattern)
}

// RetryTitle reports whether a paragraph qualifies in the wider search that
// follows a rejected name.
func (m *Matcher) RetryTitle(text string) bool {
	if !IsTitleCandidate(text) {
		return false
	}
	folded := textutil.Fold(text)
	return textutil.ContainsAny(folded, m.retryKeywords) && !textutil.ContainsAny(folded, m.retryExclusions)
}
