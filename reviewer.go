package docreview

import (
	"fmt"

	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/metrics"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/vocab"
)

// Reviewer provides a fluent interface over one document. Each
// configuration method returns a new Reviewer, so a configured Reviewer
// can be shared and extended safely.
type Reviewer struct {
	filename string
	options  reviewOptions
}

// Open returns a Reviewer for the DOCX file at filename. The file is read
// by the terminal operations, not by Open.
//
// Example:
//
//	review, err := docreview.Open("document.docx").Review()
func Open(filename string) *Reviewer {
	return &Reviewer{filename: filename}
}

func (r *Reviewer) clone() *Reviewer {
	return &Reviewer{filename: r.filename, options: r.options.clone()}
}

// WithPreserved supplies table identities confirmed in an earlier review.
// They take precedence over the naming heuristics.
//
// Example:
//
//	meta := model.CapturePreserved(previous.Structure)
//	review, err := docreview.Open("doc.docx").WithPreserved(meta).Review()
func (r *Reviewer) WithPreserved(p model.PreservedTableMetadata) *Reviewer {
	out := r.clone()
	out.options.preserved = p
	out.options = out.options.clone()
	return out
}

// WithLogger sets the logger that receives pipeline events.
func (r *Reviewer) WithLogger(l logging.Logger) *Reviewer {
	out := r.clone()
	out.options.logger = l
	return out
}

// WithVocabulary replaces the heuristic keyword lists. Empty lists keep
// their defaults.
func (r *Reviewer) WithVocabulary(v vocab.Vocabulary) *Reviewer {
	out := r.clone()
	out.options.vocabulary = v
	return out
}

// WithMetrics sets the metrics recorder.
func (r *Reviewer) WithMetrics(m metrics.Recorder) *Reviewer {
	out := r.clone()
	out.options.metrics = m
	return out
}

func (r *Reviewer) engine() (*Engine, error) {
	if r.filename == "" {
		return nil, fmt.Errorf("no filename specified")
	}
	return NewEngine(r.options.config()), nil
}

// Structure returns the document structure.
func (r *Reviewer) Structure() (*model.DocumentStructure, error) {
	e, err := r.engine()
	if err != nil {
		return nil, err
	}
	return e.Structure(r.filename, r.options.preserved)
}

// Review returns the full review: text content, structure, structured
// data and gaps.
func (r *Reviewer) Review() (*Review, error) {
	e, err := r.engine()
	if err != nil {
		return nil, err
	}
	return e.Review(r.filename, r.options.preserved)
}

// Apply writes edited into the document and returns the review of the
// saved file. See Engine.Apply.
func (r *Reviewer) Apply(edited *model.DocumentStructure) (*ApplyResult, error) {
	e, err := r.engine()
	if err != nil {
		return nil, err
	}
	return e.Apply(r.filename, edited)
}

// ApplyText replaces the document with the lines of text and returns the
// review of the new file.
func (r *Reviewer) ApplyText(text string) (*Review, error) {
	e, err := r.engine()
	if err != nil {
		return nil, err
	}
	return e.ApplyText(r.filename, text)
}

// TextContent returns the editable plain-text view of the document.
func (r *Reviewer) TextContent() (string, error) {
	e, err := r.engine()
	if err != nil {
		return "", err
	}
	return e.TextContent(r.filename)
}

// XML returns the document as <document><title/><content/> XML.
func (r *Reviewer) XML() (string, error) {
	e, err := r.engine()
	if err != nil {
		return "", err
	}
	return e.XML(r.filename)
}
