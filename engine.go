package docreview

import (
	"errors"
	"fmt"
	"time"

	"github.com/tsawler/docreview/classify"
	"github.com/tsawler/docreview/docx"
	"github.com/tsawler/docreview/entities"
	"github.com/tsawler/docreview/format"
	"github.com/tsawler/docreview/gaps"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/metrics"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/roundtrip"
	"github.com/tsawler/docreview/structure"
	"github.com/tsawler/docreview/tables"
	"github.com/tsawler/docreview/vocab"
)

// ErrNoEdits is returned by Apply when there is nothing to apply.
var ErrNoEdits = errors.New("no edited structure provided")

// Review is the complete review of one document.
type Review struct {
	TextContent    string                   `json:"text_content" yaml:"text_content"`
	Structure      *model.DocumentStructure `json:"document_structure" yaml:"document_structure"`
	StructuredData *model.StructuredData    `json:"structured_data" yaml:"structured_data"`
	Gaps           *model.GapReport         `json:"gaps" yaml:"gaps"`
}

// Warning describes a non-fatal problem met while applying edits.
type Warning struct {
	Code    string `json:"code" yaml:"code"`
	Message string `json:"message" yaml:"message"`
}

// Warning codes.
const (
	WarnRebuilt = "rebuilt"
)

// ApplyResult is the outcome of applying edits: the review of the saved
// document plus what the write did.
type ApplyResult struct {
	Review        `yaml:",inline"`
	Outcome       roundtrip.Outcome `json:"outcome" yaml:"outcome"`
	NamesRestored int               `json:"names_restored" yaml:"names_restored"`
	Warnings      []Warning         `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Config configures an Engine. The zero value uses the default vocabulary
// and discards logs and metrics.
type Config struct {
	// Vocabulary holds the heuristic keyword lists. Empty lists fall back
	// to the defaults.
	Vocabulary vocab.Vocabulary
	Logger     logging.Logger
	Metrics    metrics.Recorder
}

// Engine runs reviews and edits. It is safe for concurrent use; callers
// must serialize edits of the same file.
type Engine struct {
	logger    logging.Logger
	metrics   metrics.Recorder
	extractor *structure.Extractor
	entities  *entities.Extractor
	gaps      *gaps.Aggregator
	writer    *roundtrip.Writer
}

// NewEngine builds the review pipeline described by cfg.
func NewEngine(cfg Config) *Engine {
	v := cfg.Vocabulary.WithDefaults()
	logger := logging.OrNop(cfg.Logger)
	classifier := classify.New(v.Cells)

	resolver := tables.NewResolver(
		tables.WithVocabulary(v.Tables),
		tables.WithLogger(logger.Named("tables")),
	)

	return &Engine{
		logger:  logger,
		metrics: metrics.OrNop(cfg.Metrics),
		extractor: structure.New(
			structure.WithResolver(resolver),
			structure.WithClassifier(classifier),
			structure.WithLogger(logger.Named("structure")),
		),
		entities: entities.New(v.Entities),
		gaps:     gaps.New(classifier),
		writer: roundtrip.NewWriter(docx.Store{},
			roundtrip.WithPolicy(roundtrip.NewPolicy(v.Writer)),
			roundtrip.WithLogger(logger.Named("roundtrip")),
		),
	}
}

func (e *Engine) open(path string) (*docx.Reader, error) {
	if err := format.Require(path); err != nil {
		return nil, err
	}
	r, err := docx.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	return r, nil
}

// Structure extracts the document structure of path. preserved may be nil.
func (e *Engine) Structure(path string, preserved model.PreservedTableMetadata) (*model.DocumentStructure, error) {
	r, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return e.extract(r.Blocks(), preserved), nil
}

func (e *Engine) extract(blocks []model.Block, preserved model.PreservedTableMetadata) *model.DocumentStructure {
	start := time.Now()
	ds := e.extractor.Extract(blocks, preserved)
	e.metrics.ObserveExtraction(time.Since(start), len(ds.Tables))
	for _, t := range ds.Tables {
		e.metrics.TableNamed(string(t.NameSource))
	}
	return ds
}

// Review reads path and reports its structure, entities and gaps.
func (e *Engine) Review(path string, preserved model.PreservedTableMetadata) (*Review, error) {
	rv, err := e.read(path, preserved)
	if err != nil {
		return nil, err
	}
	e.finish(path, rv)
	return rv, nil
}

// read builds everything except the gap report.
func (e *Engine) read(path string, preserved model.PreservedTableMetadata) (*Review, error) {
	r, err := e.open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	blocks := r.Blocks()
	ds := e.extract(blocks, preserved)
	return &Review{
		TextContent:    textContent(blocks),
		Structure:      ds,
		StructuredData: e.entities.Extract(ds.Paragraphs, r.Metadata()),
	}, nil
}

func (e *Engine) finish(path string, rv *Review) {
	rv.Gaps = e.gaps.Aggregate(rv.Structure, rv.StructuredData)
	for status, n := range rv.Gaps.Counts.ByStatus {
		e.metrics.GapsFound(status, n)
	}
	e.logger.Info("document reviewed",
		logging.String("path", path),
		logging.Int("tables", len(rv.Structure.Tables)),
		logging.Int("total_gaps", rv.Gaps.TotalGaps))
}

// Apply writes edited into path and reviews the result. The table
// identities in edited are captured before writing and override the
// heuristics when the saved file is read back, so confirmed names survive
// the cycle.
//
// A document that cannot be edited in place is rebuilt from edited; the
// result then carries a warning. Only a failed rebuild is an error.
func (e *Engine) Apply(path string, edited *model.DocumentStructure) (*ApplyResult, error) {
	if edited == nil {
		return nil, ErrNoEdits
	}
	preserved := model.CapturePreserved(edited)

	out, err := e.writer.Apply(path, edited)
	if err != nil {
		e.metrics.DocumentWritten("failed")
		return nil, err
	}
	e.metrics.DocumentWritten(string(out.Mode))

	rv, err := e.read(path, preserved)
	if err != nil {
		return nil, fmt.Errorf("reading back %s: %w", path, err)
	}
	restored := e.writer.Reconcile(edited, rv.Structure)
	e.finish(path, rv)

	res := &ApplyResult{Review: *rv, Outcome: out, NamesRestored: restored}
	if out.Fallback != nil {
		res.Warnings = append(res.Warnings, Warning{
			Code:    WarnRebuilt,
			Message: fmt.Sprintf("document could not be edited in place and was rebuilt without its original formatting: %v", out.Fallback),
		})
	}
	return res, nil
}

// ApplyText replaces path with a document holding one paragraph per line
// of text, then reviews it.
func (e *Engine) ApplyText(path, text string) (*Review, error) {
	if _, err := e.writer.TextToDocument(path, text); err != nil {
		e.metrics.DocumentWritten("failed")
		return nil, err
	}
	e.metrics.DocumentWritten("text")
	return e.Review(path, nil)
}

// TextContent returns the editable plain-text view of path.
func (e *Engine) TextContent(path string) (string, error) {
	r, err := e.open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return textContent(r.Blocks()), nil
}

// XML returns the XML export of path.
func (e *Engine) XML(path string) (string, error) {
	r, err := e.open(path)
	if err != nil {
		return "", err
	}
	defer r.Close()
	return xmlExport(r.Blocks())
}
