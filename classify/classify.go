// Package classify decides whether a table cell's text is complete or one of
// the gap categories the review workflow tracks.
//
// Classification depends only on the text, so repeated calls on identical
// text always agree. The round-trip convergence of the edit cycle relies on
// this.
package classify

import (
	"strings"

	"github.com/tsawler/docreview/internal/textutil"
	"github.com/tsawler/docreview/vocab"
)

// Flags are the gap flags of one cell.
type Flags struct {
	IsPending bool
	IsNull    bool
	IsMissing bool
	IsEmpty   bool
	HasGap    bool
}

// Label is the single highest-priority gap category of a cell.
type Label int

const (
	// None means the cell has no gap.
	None Label = iota
	Pending
	Null
	Missing
	Empty
	// Gap is reported for a gap none of the other labels explain. It is
	// unreachable with the default vocabulary.
	Gap
)

// String returns the human-readable issue name.
func (l Label) String() string {
	switch l {
	case Pending:
		return "Pending"
	case Null:
		return "Null value"
	case Missing:
		return "Missing value"
	case Empty:
		return "Empty cell"
	case Gap:
		return "Data quality gap"
	default:
		return "Complete"
	}
}

// Status returns the machine-readable status name.
func (l Label) Status() string {
	switch l {
	case Pending:
		return "pending"
	case Null:
		return "null"
	case Missing:
		return "missing"
	case Empty:
		return "empty"
	case Gap:
		return "gap"
	default:
		return "complete"
	}
}

// Result is the outcome of classifying one cell.
type Result struct {
	Flags
	Label Label
}

// Classifier classifies cell text against a vocabulary.
type Classifier struct {
	pending        string
	nullExact      []string
	nullSubstrings []string
	missing        []string
	nullKeywords   []string
}

// New returns a Classifier for the given vocabulary.
func New(v vocab.Cells) *Classifier {
	return &Classifier{
		pending:        textutil.Fold(v.Pending),
		nullExact:      textutil.FoldAll(v.NullExact),
		nullSubstrings: textutil.FoldAll(v.NullSubstrings),
		missing:        textutil.FoldAll(v.Missing),
		nullKeywords:   textutil.FoldAll(v.NullKeywords),
	}
}

var defaultClassifier = New(vocab.Default().Cells)

// Classify classifies text with the default vocabulary.
func Classify(text string) Result {
	return defaultClassifier.Classify(text)
}

// Classify classifies text.
func (c *Classifier) Classify(text string) Result {
	folded := textutil.Fold(text)

	var r Result
	r.IsEmpty = folded == ""
	if !r.IsEmpty {
		r.IsPending = c.pending != "" && strings.Contains(folded, c.pending)
		r.IsNull = textutil.EqualsAny(folded, c.nullExact) || textutil.ContainsAny(folded, c.nullSubstrings)

		missingText := textutil.EqualsAny(folded, c.missing) || textutil.ContainsAny(folded, c.missing)
		nullKeyword := textutil.ContainsAny(folded, c.nullKeywords)
		r.IsMissing = missingText || nullKeyword
	}
	r.HasGap = r.IsPending || r.IsNull || r.IsMissing || r.IsEmpty
	r.Label = label(r.Flags)
	return r
}

// Label returns only the label for text.
func (c *Classifier) Label(text string) Label {
	return c.Classify(text).Label
}

func label(f Flags) Label {
	switch {
	case !f.HasGap:
		return None
	case f.IsPending:
		return Pending
	case f.IsNull:
		return Null
	case f.IsMissing:
		return Missing
	case f.IsEmpty:
		return Empty
	default:
		return Gap
	}
}
