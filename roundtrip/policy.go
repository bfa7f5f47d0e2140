package roundtrip

import (
	"unicode"

	"github.com/tsawler/docreview/internal/textutil"
	"github.com/tsawler/docreview/vocab"
)

// Policy decides which paragraphs an edit may overwrite.
type Policy struct {
	sectionKeywords     []string
	replacementKeywords []string
	headerIdentifiers   []string
}

// NewPolicy builds a Policy from the writer vocabulary.
func NewPolicy(v vocab.Writer) *Policy {
	return &Policy{
		sectionKeywords:     textutil.FoldAll(v.SectionKeywords),
		replacementKeywords: textutil.FoldAll(v.ReplacementKeywords),
		headerIdentifiers:   textutil.FoldAll(v.HeaderIdentifiers),
	}
}

// DefaultPolicy returns the Policy for the default vocabulary.
func DefaultPolicy() *Policy {
	return NewPolicy(vocab.Default().Writer)
}

// numbered reports whether text starts with a digit and has a '.' within
// its first five characters, as in "3. Equipment" or "12.4 Results".
func numbered(text string) bool {
	runes := []rune(text)
	if len(runes) == 0 || !unicode.IsDigit(runes[0]) {
		return false
	}
	for i := 0; i < len(runes) && i < 5; i++ {
		if runes[i] == '.' {
			return true
		}
	}
	return false
}

// IsSectionHeading reports whether a paragraph acts as a structural title.
func (p *Policy) IsSectionHeading(text string) bool {
	return numbered(text) ||
		(textutil.ContainsAny(textutil.Fold(text), p.sectionKeywords) && textutil.Len(text) > 10)
}

// LooksLikeHeaderIdentifier reports whether text reads as a bare column
// identifier such as "BG_ATN".
func (p *Policy) LooksLikeHeaderIdentifier(text string) bool {
	if text == "" {
		return false
	}
	return textutil.ContainsAny(textutil.Fold(text), p.headerIdentifiers) ||
		(textutil.Len(text) < 20 && textutil.HasUnderscoreOrHash(text))
}

func (p *Policy) headingShaped(text string) bool {
	return numbered(text) ||
		(textutil.ContainsAny(textutil.Fold(text), p.replacementKeywords) && textutil.Len(text) > 10)
}

// Reasons a paragraph is preserved.
const (
	ReasonHeaderIdentifier = "header identifier"
	ReasonShrunk           = "replacement much shorter than heading"
)

// PreserveParagraph reports whether the original paragraph must be kept
// instead of being replaced by proposed. Both are expected trimmed.
func (p *Policy) PreserveParagraph(original, proposed string) bool {
	return p.preserveReason(original, proposed) != ""
}

func (p *Policy) preserveReason(original, proposed string) string {
	if !p.IsSectionHeading(original) {
		return ""
	}
	if p.LooksLikeHeaderIdentifier(proposed) {
		return ReasonHeaderIdentifier
	}
	if !p.headingShaped(proposed) && proposed != original &&
		2*textutil.Len(proposed) < textutil.Len(original) {
		return ReasonShrunk
	}
	return ""
}
