package structure

import (
	"strings"

	"github.com/tsawler/docreview/classify"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/tables"
	"github.com/tsawler/docreview/vocab"
)

// Source yields a document body as ordered blocks.
type Source interface {
	Blocks() []model.Block
}

// Extractor builds document structures. It is safe for concurrent use.
type Extractor struct {
	resolver   *tables.Resolver
	classifier *classify.Classifier
	logger     logging.Logger
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithResolver sets the table identity resolver.
func WithResolver(r *tables.Resolver) Option {
	return func(e *Extractor) {
		if r != nil {
			e.resolver = r
		}
	}
}

// WithClassifier sets the cell classifier.
func WithClassifier(c *classify.Classifier) Option {
	return func(e *Extractor) {
		if c != nil {
			e.classifier = c
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(e *Extractor) {
		e.logger = logging.OrNop(l)
	}
}

// New creates an Extractor. Without options it uses the default
// vocabulary and discards logs.
func New(opts ...Option) *Extractor {
	e := &Extractor{
		resolver:   tables.NewResolver(),
		classifier: classify.New(vocab.Default().Cells),
		logger:     logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFrom extracts the structure of the blocks src yields.
func (e *Extractor) ExtractFrom(src Source, preserved model.PreservedTableMetadata) *model.DocumentStructure {
	return e.Extract(src.Blocks(), preserved)
}

// Extract builds the structure of blocks. Empty paragraphs are dropped
// before positions are assigned, so a Position is the index among the
// remaining paragraphs and tables.
//
// preserved overrides the identity of the tables it names; pass nil on a
// first read.
func (e *Extractor) Extract(blocks []model.Block, preserved model.PreservedTableMetadata) *model.DocumentStructure {
	body := make([]model.Block, 0, len(blocks))
	for _, b := range blocks {
		if b.Kind == model.BlockParagraph && strings.TrimSpace(b.Text) == "" {
			continue
		}
		body = append(body, b)
	}

	ds := &model.DocumentStructure{
		Paragraphs: []model.Paragraph{},
		Tables:     []model.Table{},
	}

	for pos, b := range body {
		switch b.Kind {
		case model.BlockParagraph:
			ds.Paragraphs = append(ds.Paragraphs, model.Paragraph{
				Text:     strings.TrimSpace(b.Text),
				Style:    b.Style,
				Position: pos,
			})
		case model.BlockTable:
			index := len(ds.Tables)
			ds.Tables = append(ds.Tables, e.table(index, pos, b.Rows, body, preserved))
		}
	}

	e.logger.Debug("document structure extracted",
		logging.Int("paragraphs", len(ds.Paragraphs)),
		logging.Int("tables", len(ds.Tables)))
	return ds
}

func (e *Extractor) table(index, pos int, rows [][]string, body []model.Block, preserved model.PreservedTableMetadata) model.Table {
	in := tables.Input{
		Index:   index,
		Rows:    trimRows(rows),
		Context: preceding(body, pos),
	}
	if p, ok := preserved.Lookup(index); ok {
		in.Preserved = &p
	}

	res := e.resolver.Resolve(in)
	e.logger.Debug("table resolved",
		logging.Int("table", index),
		logging.String("name", res.Name),
		logging.String("source", string(res.Source)),
		logging.Bool("title_row", res.TitleRow),
		logging.Strings("rules", res.Fired))

	t := model.Table{
		ID:            res.ID,
		Name:          res.Name,
		ColumnHeaders: res.ColumnHeaders,
		Rows:          make([]model.Row, len(in.Rows)),
		Position:      pos,
		TitleRow:      res.TitleRow,
		NameSource:    res.Source,
	}
	for r, texts := range in.Rows {
		row := model.Row{ID: model.RowID(index, r), Cells: make([]model.Cell, len(texts))}
		for c, text := range texts {
			row.Cells[c] = e.cell(index, r, c, text)
		}
		t.Rows[r] = row
	}
	return t
}

func (e *Extractor) cell(t, r, c int, text string) model.Cell {
	res := e.classifier.Classify(text)
	return model.Cell{
		ID:        model.CellID(t, r, c),
		Text:      text,
		Row:       r,
		Col:       c,
		IsPending: res.IsPending,
		IsNull:    res.IsNull,
		IsMissing: res.IsMissing,
		IsEmpty:   res.IsEmpty,
		HasGap:    res.HasGap,
	}
}

// preceding returns up to tables.RetryWindow elements before body[pos],
// nearest first.
func preceding(body []model.Block, pos int) []tables.ContextItem {
	var items []tables.ContextItem
	for i := pos - 1; i >= 0 && len(items) < tables.RetryWindow; i-- {
		b := body[i]
		if b.Kind == model.BlockTable {
			items = append(items, tables.ContextItem{IsTable: true})
			continue
		}
		items = append(items, tables.ContextItem{Text: strings.TrimSpace(b.Text)})
	}
	return items
}

func trimRows(rows [][]string) [][]string {
	out := make([][]string, len(rows))
	for r, row := range rows {
		cells := make([]string, len(row))
		for c, text := range row {
			cells[c] = strings.TrimSpace(text)
		}
		out[r] = cells
	}
	return out
}
