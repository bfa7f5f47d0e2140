package roundtrip

import (
	"fmt"
	"strings"

	"github.com/tsawler/docreview/internal/textutil"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
)

// Mode records how an edit reached the document.
type Mode string

const (
	ModeInPlace Mode = "in_place"
	ModeRebuilt Mode = "rebuilt"
)

// Outcome summarises one Apply.
type Outcome struct {
	Mode                Mode `json:"mode" yaml:"mode"`
	ParagraphsUpdated   int  `json:"paragraphs_updated" yaml:"paragraphs_updated"`
	ParagraphsPreserved int  `json:"paragraphs_preserved" yaml:"paragraphs_preserved"`
	CellsUpdated        int  `json:"cells_updated" yaml:"cells_updated"`
	HeadersRestored     int  `json:"headers_restored" yaml:"headers_restored"`

	// Fallback is the in-place failure that caused a rebuild.
	Fallback error `json:"-" yaml:"-"`
}

// Writer applies edited structures to documents.
type Writer struct {
	store  Store
	policy *Policy
	logger logging.Logger
}

// Option configures a Writer.
type Option func(*Writer)

// WithPolicy sets the paragraph protection policy.
func WithPolicy(p *Policy) Option {
	return func(w *Writer) {
		if p != nil {
			w.policy = p
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l logging.Logger) Option {
	return func(w *Writer) {
		w.logger = logging.OrNop(l)
	}
}

// NewWriter creates a Writer over store.
func NewWriter(store Store, opts ...Option) *Writer {
	w := &Writer{
		store:  store,
		policy: DefaultPolicy(),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Apply writes edited onto the document at path. The document is updated
// in place when possible; on any failure it is rebuilt from edited. Only a
// failed rebuild is returned as an error.
func (w *Writer) Apply(path string, edited *model.DocumentStructure) (Outcome, error) {
	if edited == nil {
		edited = &model.DocumentStructure{}
	}
	log := w.logger.With(logging.String("path", path))

	out, err := w.applyInPlace(path, edited, log)
	if err == nil {
		log.Info("document updated in place",
			logging.Int("paragraphs_updated", out.ParagraphsUpdated),
			logging.Int("paragraphs_preserved", out.ParagraphsPreserved),
			logging.Int("cells_updated", out.CellsUpdated),
			logging.Int("headers_restored", out.HeadersRestored))
		return out, nil
	}

	log.Warn("in-place update failed, rebuilding document", logging.Err(err))
	rebuilt, rerr := w.rebuild(path, edited)
	rebuilt.Fallback = err
	if rerr != nil {
		return rebuilt, fmt.Errorf("rebuilding %s: %w", path, rerr)
	}
	return rebuilt, nil
}

func (w *Writer) applyInPlace(path string, edited *model.DocumentStructure, log logging.Logger) (Outcome, error) {
	out := Outcome{Mode: ModeInPlace}

	doc, err := w.store.Open(path)
	if err != nil {
		return out, err
	}

	for i := 0; i < doc.ParagraphCount() && i < len(edited.Paragraphs); i++ {
		original := strings.TrimSpace(doc.Paragraph(i))
		proposed := strings.TrimSpace(edited.Paragraphs[i].Text)

		if reason := w.policy.preserveReason(original, proposed); reason != "" {
			out.ParagraphsPreserved++
			log.Info("preserving section heading",
				logging.Int("paragraph", i),
				logging.String("original", original),
				logging.String("proposed", proposed),
				logging.String("reason", reason))
			continue
		}
		if original == proposed {
			continue
		}
		if err := doc.SetParagraph(i, proposed); err != nil {
			return out, fmt.Errorf("paragraph %d: %w", i, err)
		}
		out.ParagraphsUpdated++
	}

	for t := 0; t < doc.TableCount() && t < len(edited.Tables); t++ {
		table := &edited.Tables[t]
		headerRow := 0
		if table.TitleRow {
			headerRow = 1
		}
		for r, row := range table.Rows {
			if r >= doc.RowCount(t) {
				break
			}
			if r == headerRow && len(table.ColumnHeaders) > 0 {
				n, err := writeHeaders(doc, t, r, table.ColumnHeaders)
				out.HeadersRestored += n
				if err != nil {
					return out, fmt.Errorf("table %d header row: %w", t, err)
				}
				continue
			}
			for c, cell := range row.Cells {
				if c >= doc.CellCount(t, r) {
					break
				}
				if strings.TrimSpace(doc.Cell(t, r, c)) == strings.TrimSpace(cell.Text) {
					continue
				}
				if err := doc.SetCell(t, r, c, cell.Text); err != nil {
					return out, fmt.Errorf("table %d cell (%d,%d): %w", t, r, c, err)
				}
				out.CellsUpdated++
			}
		}
	}

	if err := doc.Save(); err != nil {
		return out, err
	}
	return out, nil
}

// writeHeaders writes row r of table t from headers. Empty header values
// leave the cell alone. It returns the number of cells changed.
func writeHeaders(doc Document, t, r int, headers []string) (int, error) {
	changed := 0
	for c := 0; c < len(headers) && c < doc.CellCount(t, r); c++ {
		h := strings.TrimSpace(headers[c])
		if h == "" || strings.TrimSpace(doc.Cell(t, r, c)) == h {
			continue
		}
		if err := doc.SetCell(t, r, c, headers[c]); err != nil {
			return changed, err
		}
		changed++
	}
	return changed, nil
}

// rebuild creates a new document at path holding edited: paragraphs with
// their styles, then tables sized to their widest row or header list.
func (w *Writer) rebuild(path string, edited *model.DocumentStructure) (Outcome, error) {
	out := Outcome{Mode: ModeRebuilt}

	b, err := w.store.Create(path)
	if err != nil {
		return out, err
	}

	for _, p := range edited.Paragraphs {
		b.AddParagraph(p.Text, p.Style)
		out.ParagraphsUpdated++
	}

	for _, table := range edited.Tables {
		if len(table.Rows) == 0 {
			continue
		}
		cols := len(table.ColumnHeaders)
		for _, row := range table.Rows {
			cols = max(cols, len(row.Cells))
		}
		cols = max(cols, 1)

		headerRow := 0
		if table.TitleRow {
			headerRow = 1
		}
		ti := b.AddTable(len(table.Rows), cols)
		for r, row := range table.Rows {
			if r == headerRow && len(table.ColumnHeaders) > 0 {
				for c, h := range table.ColumnHeaders {
					if err := b.SetCell(ti, r, c, h); err != nil {
						return out, err
					}
					out.HeadersRestored++
				}
				continue
			}
			for c, cell := range row.Cells {
				if err := b.SetCell(ti, r, c, cell.Text); err != nil {
					return out, err
				}
				out.CellsUpdated++
			}
		}
	}

	if err := b.Save(); err != nil {
		return out, err
	}
	return out, nil
}

// TextToDocument replaces the document at path with a new one holding one
// paragraph per non-empty line of text. Lines containing '|' are table rows
// rendered as text; their cells are re-joined with " | ".
func (w *Writer) TextToDocument(path, text string) (int, error) {
	b, err := w.store.Create(path)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if strings.Contains(line, "|") {
			cells := strings.Split(line, "|")
			for i := range cells {
				cells[i] = strings.TrimSpace(cells[i])
			}
			line = strings.TrimSpace(strings.Join(cells, " | "))
		}
		b.AddParagraph(line, "")
		n++
	}
	if err := b.Save(); err != nil {
		return n, fmt.Errorf("saving %s: %w", path, err)
	}
	w.logger.Info("document replaced from text", logging.String("path", path), logging.Int("paragraphs", n))
	return n, nil
}

// Reconcile is applied after re-extraction with preserved metadata. For
// every table present in both structures it restores the edited name
// (when longer than five characters), id, column headers and title row onto
// reparsed. It returns the number of names restored.
func (w *Writer) Reconcile(edited, reparsed *model.DocumentStructure) int {
	if edited == nil || reparsed == nil {
		return 0
	}
	restored := 0
	for i := range edited.Tables {
		if i >= len(reparsed.Tables) {
			break
		}
		orig, parsed := &edited.Tables[i], &reparsed.Tables[i]

		if orig.Name != "" && textutil.Len(orig.Name) > 5 && orig.Name != parsed.Name {
			kind := "user-confirmed"
			if headerShaped(parsed.Name) {
				kind = "header-shaped"
			}
			w.logger.Info("restoring edited table name",
				logging.Int("table", i),
				logging.String("edited", orig.Name),
				logging.String("reparsed", parsed.Name),
				logging.String("reparsed_kind", kind))
			parsed.Name = orig.Name
			parsed.NameSource = model.SourcePreserved
			restored++
		}
		if orig.ID != "" {
			parsed.ID = orig.ID
		}
		if len(orig.ColumnHeaders) > 0 {
			parsed.ColumnHeaders = append([]string(nil), orig.ColumnHeaders...)
		}
		if orig.TitleRow {
			parsed.TitleRow = true
		}
	}
	return restored
}

func headerShaped(name string) bool {
	return textutil.Len(name) < 20 && (textutil.HasUnderscoreOrHash(name) || textutil.IsUpper(name))
}
