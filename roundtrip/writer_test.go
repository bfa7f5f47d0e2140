package roundtrip

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
)

// memDoc is an in-memory Document.
type memDoc struct {
	paragraphs []string
	tables     [][][]string
	saved      bool
	saveErr    error
	setErr     error
}

func (d *memDoc) ParagraphCount() int    { return len(d.paragraphs) }
func (d *memDoc) Paragraph(i int) string { return d.paragraphs[i] }
func (d *memDoc) SetParagraph(i int, text string) error {
	d.paragraphs[i] = text
	return nil
}
func (d *memDoc) TableCount() int         { return len(d.tables) }
func (d *memDoc) RowCount(t int) int      { return len(d.tables[t]) }
func (d *memDoc) CellCount(t, r int) int  { return len(d.tables[t][r]) }
func (d *memDoc) Cell(t, r, c int) string { return d.tables[t][r][c] }
func (d *memDoc) SetCell(t, r, c int, text string) error {
	if d.setErr != nil {
		return d.setErr
	}
	d.tables[t][r][c] = text
	return nil
}
func (d *memDoc) Save() error {
	if d.saveErr != nil {
		return d.saveErr
	}
	d.saved = true
	return nil
}

type builtParagraph struct{ text, style string }

// memBuilder is an in-memory Builder.
type memBuilder struct {
	paragraphs []builtParagraph
	tables     [][][]string
	saved      bool
	saveErr    error
}

func (b *memBuilder) AddParagraph(text, style string) {
	b.paragraphs = append(b.paragraphs, builtParagraph{text, style})
}
func (b *memBuilder) AddTable(rows, cols int) int {
	t := make([][]string, rows)
	for r := range t {
		t[r] = make([]string, cols)
	}
	b.tables = append(b.tables, t)
	return len(b.tables) - 1
}
func (b *memBuilder) SetCell(t, r, c int, text string) error {
	if r >= len(b.tables[t]) || c >= len(b.tables[t][r]) {
		return fmt.Errorf("cell (%d,%d) out of range", r, c)
	}
	b.tables[t][r][c] = text
	return nil
}
func (b *memBuilder) Save() error {
	if b.saveErr != nil {
		return b.saveErr
	}
	b.saved = true
	return nil
}

type memStore struct {
	doc     *memDoc
	openErr error
	builder *memBuilder
}

func (s *memStore) Open(string) (Document, error) {
	if s.openErr != nil {
		return nil, s.openErr
	}
	return s.doc, nil
}

func (s *memStore) Create(string) (Builder, error) {
	if s.builder == nil {
		s.builder = &memBuilder{}
	}
	return s.builder, nil
}

func structureOf(paragraphs []string, tables ...model.Table) *model.DocumentStructure {
	s := &model.DocumentStructure{Tables: tables}
	for i, p := range paragraphs {
		s.Paragraphs = append(s.Paragraphs, model.Paragraph{Text: p, Position: i})
	}
	return s
}

func tableOf(name string, headers []string, rows ...[]string) model.Table {
	t := model.Table{Name: name, ColumnHeaders: headers}
	for r, texts := range rows {
		row := model.Row{ID: model.RowID(0, r)}
		for c, text := range texts {
			row.Cells = append(row.Cells, model.Cell{Text: text, Row: r, Col: c})
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func TestApplyInPlace(t *testing.T) {
	doc := &memDoc{
		paragraphs: []string{"Introduction text", "Old body"},
		tables:     [][][]string{{{"Equipment", "Configuration"}, {"Incubator", "None"}}},
	}
	store := &memStore{doc: doc}

	edited := structureOf(
		[]string{"Introduction text", "New body"},
		tableOf("Equipment Configuration", []string{"Equipment", "Configuration"},
			[]string{"Equipment", "Configuration"},
			[]string{"Incubator", "37C / 5% CO2"}),
	)

	out, err := NewWriter(store).Apply("doc.docx", edited)
	require.NoError(t, err)

	assert.Equal(t, ModeInPlace, out.Mode)
	assert.Equal(t, 1, out.ParagraphsUpdated)
	assert.Equal(t, 1, out.CellsUpdated)
	assert.Zero(t, out.HeadersRestored)
	assert.True(t, doc.saved)
	assert.Equal(t, "New body", doc.paragraphs[1])
	assert.Equal(t, "37C / 5% CO2", doc.tables[0][1][1])
}

func TestHeaderWriteIsolation(t *testing.T) {
	doc := &memDoc{tables: [][][]string{{{"Equipment", "Configuration"}, {"a", "b"}}}}
	store := &memStore{doc: doc}

	// Row 0 cell text diverged from the headers; headers win.
	edited := structureOf(nil, tableOf("Equipment Configuration",
		[]string{"Equipment", "Configuration"},
		[]string{"BG_ATN", "Material_CTG #"},
		[]string{"a", "b"}))

	out, err := NewWriter(store).Apply("doc.docx", edited)
	require.NoError(t, err)
	assert.Equal(t, []string{"Equipment", "Configuration"}, doc.tables[0][0])
	assert.Zero(t, out.CellsUpdated)
}

func TestHeaderRowRestoredFromHeaders(t *testing.T) {
	doc := &memDoc{tables: [][][]string{{{"BG_ATN", "x", "keep"}}}}
	store := &memStore{doc: doc}

	edited := structureOf(nil, tableOf("Materials Used",
		[]string{"Equipment", "Configuration", ""},
		[]string{"BG_ATN", "x", "keep"}))

	out, err := NewWriter(store).Apply("doc.docx", edited)
	require.NoError(t, err)
	assert.Equal(t, 2, out.HeadersRestored)
	assert.Equal(t, []string{"Equipment", "Configuration", "keep"}, doc.tables[0][0])
}

func TestHeaderRowWithoutHeadersWrittenFromCells(t *testing.T) {
	doc := &memDoc{tables: [][][]string{{{"a", "b"}}}}
	store := &memStore{doc: doc}

	edited := structureOf(nil, tableOf("T", nil, []string{"x", "y"}))
	_, err := NewWriter(store).Apply("doc.docx", edited)
	require.NoError(t, err)
	assert.Equal(t, []string{"x", "y"}, doc.tables[0][0])
}

func TestTitleRowKeptAndHeadersWrittenToRowOne(t *testing.T) {
	title := "Summary of Calibration Runs For Unit A"
	doc := &memDoc{tables: [][][]string{{
		{title, title, title},
		{"Run", "Temp", "Result"},
		{"1", "37", "Pass"},
	}}}
	store := &memStore{doc: doc}

	table := tableOf(title, []string{"Run", "Temperature", "Result"},
		[]string{title, title, title},
		[]string{"Run", "Temp", "Result"},
		[]string{"1", "37", "Pass"})
	table.TitleRow = true

	out, err := NewWriter(store).Apply("doc.docx", structureOf(nil, table))
	require.NoError(t, err)
	assert.Equal(t, 1, out.HeadersRestored)
	assert.Zero(t, out.CellsUpdated)
	assert.Equal(t, []string{title, title, title}, doc.tables[0][0])
	assert.Equal(t, []string{"Run", "Temperature", "Result"}, doc.tables[0][1])
}

func TestSurroundingWhitespaceIsNotAnEdit(t *testing.T) {
	doc := &memDoc{tables: [][][]string{{{"Equipment ", " Configuration"}, {"Incubator ", " 37C"}}}}
	store := &memStore{doc: doc}

	edited := structureOf(nil, tableOf("Equipment Configuration",
		[]string{"Equipment", "Configuration"},
		[]string{"Equipment", "Configuration"},
		[]string{"Incubator", "37C"}))

	out, err := NewWriter(store).Apply("doc.docx", edited)
	require.NoError(t, err)
	assert.Zero(t, out.CellsUpdated)
	assert.Zero(t, out.HeadersRestored)
	assert.Equal(t, []string{"Incubator ", " 37C"}, doc.tables[0][1])
}

func TestSectionHeadingPreserved(t *testing.T) {
	doc := &memDoc{paragraphs: []string{"3. Equipment Configuration", "Materials Used In This Study", "Plain text"}}
	store := &memStore{doc: doc}

	core, logs := observer.New(zapcore.InfoLevel)
	w := NewWriter(store, WithLogger(logging.NewLoggerFromCore(core)))

	edited := structureOf([]string{"BG_ATN", "Misc", "Replaced"})
	out, err := w.Apply("doc.docx", edited)
	require.NoError(t, err)

	assert.Equal(t, 2, out.ParagraphsPreserved)
	assert.Equal(t, 1, out.ParagraphsUpdated)
	assert.Equal(t, []string{"3. Equipment Configuration", "Materials Used In This Study", "Replaced"}, doc.paragraphs)
	assert.Equal(t, 2, logs.FilterMessage("preserving section heading").Len())
}

func TestFallbackRebuild(t *testing.T) {
	store := &memStore{openErr: errors.New("corrupt archive")}

	edited := structureOf([]string{"Title", "Body"},
		tableOf("Materials", []string{"Name", "Lot", "Supplier"},
			[]string{"BG_ATN", "x"},
			[]string{"Buffer", "L1"},
			[]string{"Reagent", "L2", "Acme", "extra"}),
		tableOf("Empty", []string{"A"}),
	)
	edited.Paragraphs[0].Style = "Heading 1"

	out, err := NewWriter(store).Apply("doc.docx", edited)
	require.NoError(t, err)
	assert.Equal(t, ModeRebuilt, out.Mode)
	require.Error(t, out.Fallback)
	assert.Contains(t, out.Fallback.Error(), "corrupt archive")

	b := store.builder
	require.True(t, b.saved)
	assert.Equal(t, []builtParagraph{{"Title", "Heading 1"}, {"Body", ""}}, b.paragraphs)
	require.Len(t, b.tables, 1, "tables without rows are skipped")
	assert.Len(t, b.tables[0], 3)
	assert.Len(t, b.tables[0][0], 4)
	assert.Equal(t, []string{"Name", "Lot", "Supplier", ""}, b.tables[0][0])
	assert.Equal(t, []string{"Reagent", "L2", "Acme", "extra"}, b.tables[0][2])
}

func TestFallbackRebuildKeepsTitleRow(t *testing.T) {
	store := &memStore{openErr: errors.New("corrupt archive")}

	title := "Summary of Calibration Runs For Unit A"
	table := tableOf(title, []string{"Run", "Temp"},
		[]string{title, title},
		[]string{"run", "temp"},
		[]string{"1", "37"})
	table.TitleRow = true

	_, err := NewWriter(store).Apply("doc.docx", structureOf(nil, table))
	require.NoError(t, err)
	require.Len(t, store.builder.tables, 1)
	assert.Equal(t, [][]string{{title, title}, {"Run", "Temp"}, {"1", "37"}}, store.builder.tables[0])
}

func TestFallbackOnSaveFailure(t *testing.T) {
	doc := &memDoc{paragraphs: []string{"a"}, saveErr: errors.New("disk full")}
	store := &memStore{doc: doc}

	out, err := NewWriter(store).Apply("doc.docx", structureOf([]string{"b"}))
	require.NoError(t, err)
	assert.Equal(t, ModeRebuilt, out.Mode)
	assert.True(t, store.builder.saved)
}

func TestRebuildFailurePropagates(t *testing.T) {
	store := &memStore{
		openErr: errors.New("corrupt archive"),
		builder: &memBuilder{saveErr: errors.New("read-only file system")},
	}
	_, err := NewWriter(store).Apply("doc.docx", structureOf([]string{"b"}))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read-only file system")
}

func TestTextToDocument(t *testing.T) {
	store := &memStore{}
	n, err := NewWriter(store).TextToDocument("doc.docx", "Title\n\n  Body line  \nName|Lot\n a | b |c\n")
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []builtParagraph{
		{"Title", ""}, {"Body line", ""}, {"Name | Lot", ""}, {"a | b | c", ""},
	}, store.builder.paragraphs)
}

func TestReconcile(t *testing.T) {
	edited := structureOf(nil,
		model.Table{Name: "Equipment Configuration", ID: "eq", ColumnHeaders: []string{"Equipment", "Configuration"}, TitleRow: true},
		model.Table{Name: "Short", ColumnHeaders: nil},
		model.Table{Name: "Extra table"},
	)
	reparsed := structureOf(nil,
		model.Table{Name: "BG_ATN", ID: "table_0", ColumnHeaders: []string{"BG_ATN", "CTG"}},
		model.Table{Name: "Table 2", ID: "table_1", ColumnHeaders: []string{"x"}},
	)

	core, logs := observer.New(zapcore.InfoLevel)
	w := NewWriter(&memStore{}, WithLogger(logging.NewLoggerFromCore(core)))
	restored := w.Reconcile(edited, reparsed)

	assert.Equal(t, 1, restored)
	assert.Equal(t, "Equipment Configuration", reparsed.Tables[0].Name)
	assert.Equal(t, model.SourcePreserved, reparsed.Tables[0].NameSource)
	assert.Equal(t, "eq", reparsed.Tables[0].ID)
	assert.Equal(t, []string{"Equipment", "Configuration"}, reparsed.Tables[0].ColumnHeaders)
	assert.True(t, reparsed.Tables[0].TitleRow)
	assert.False(t, reparsed.Tables[1].TitleRow)

	// Names of five characters or fewer are not restored.
	assert.Equal(t, "Table 2", reparsed.Tables[1].Name)
	assert.Equal(t, "table_1", reparsed.Tables[1].ID)
	assert.Equal(t, []string{"x"}, reparsed.Tables[1].ColumnHeaders)

	entries := logs.FilterMessage("restoring edited table name").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "header-shaped", entries[0].ContextMap()["reparsed_kind"])
}
