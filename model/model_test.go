package model

import (
	"encoding/json"
	"strings"
	"testing"
)

// ============================================================================
// Table Tests
// ============================================================================

func sampleTable() Table {
	return Table{
		ID:            "table_0",
		Name:          "Materials Used",
		ColumnHeaders: []string{"Name", "Lot"},
		Rows: []Row{
			{ID: "row_0_0", Cells: []Cell{{Text: "Name"}, {Text: "Lot"}}},
			{ID: "row_0_1", Cells: []Cell{{Text: "Buffer A"}, {Text: "L-1", HasGap: false}}},
			{ID: "row_0_2", Cells: []Cell{{Text: "Buffer, B"}, {Text: "", HasGap: true}}},
		},
	}
}

func TestTableToMarkdown(t *testing.T) {
	table := sampleTable()
	md := table.ToMarkdown()

	lines := strings.Split(strings.TrimSpace(md), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected 4 lines, got %d:\n%s", len(lines), md)
	}
	if lines[0] != "| Name | Lot |" {
		t.Errorf("header line = %q", lines[0])
	}
	if lines[1] != "| --- | --- |" {
		t.Errorf("separator line = %q", lines[1])
	}
	if lines[2] != "| Buffer A | L-1 |" {
		t.Errorf("data line = %q", lines[2])
	}
}

func TestTableToCSV(t *testing.T) {
	table := sampleTable()
	csv := table.ToCSV()

	expected := "Name,Lot\nBuffer A,L-1\n\"Buffer, B\",\n"
	if csv != expected {
		t.Errorf("ToCSV() = %q, want %q", csv, expected)
	}
}

func TestTableDataRowsSkipsTitleRow(t *testing.T) {
	table := sampleTable()
	table.TitleRow = true
	rows := table.DataRows()
	if len(rows) != 1 || rows[0].ID != "row_0_2" {
		t.Errorf("DataRows() with title row = %+v", rows)
	}

	empty := Table{}
	if empty.DataRows() != nil {
		t.Error("expected nil data rows for empty table")
	}
	if empty.ToMarkdown() != "" {
		t.Error("expected empty markdown for empty table")
	}
}

func TestTableHeaderPlaceholder(t *testing.T) {
	table := Table{ColumnHeaders: []string{"A", ""}}
	tests := []struct {
		col  int
		want string
	}{
		{0, "A"},
		{1, "Column 2"},
		{5, "Column 6"},
	}
	for _, tt := range tests {
		if got := table.Header(tt.col); got != tt.want {
			t.Errorf("Header(%d) = %q, want %q", tt.col, got, tt.want)
		}
	}
}

func TestGapCells(t *testing.T) {
	table := sampleTable()
	if got := len(table.GapCells()); got != 1 {
		t.Errorf("GapCells() len = %d, want 1", got)
	}
}

// ============================================================================
// DocumentStructure Tests
// ============================================================================

func TestPrecedingParagraph(t *testing.T) {
	doc := DocumentStructure{
		Paragraphs: []Paragraph{
			{Text: "Intro", Position: 0},
			{Text: "3. Equipment Configuration", Position: 1},
		},
		Tables: []Table{{Position: 2}, {Position: 3}},
	}

	p, ok := doc.PrecedingParagraph(0)
	if !ok || p.Text != "3. Equipment Configuration" {
		t.Errorf("PrecedingParagraph(0) = %+v, %v", p, ok)
	}
	if _, ok := doc.PrecedingParagraph(1); ok {
		t.Error("table 1 is preceded by a table, not a paragraph")
	}
	if _, ok := doc.PrecedingParagraph(7); ok {
		t.Error("out of range index should report false")
	}
}

func TestCloneIsDeep(t *testing.T) {
	doc := &DocumentStructure{Tables: []Table{sampleTable()}}
	c := doc.Clone()
	c.Tables[0].ColumnHeaders[0] = "changed"
	c.Tables[0].Rows[1].Cells[0].Text = "changed"

	if doc.Tables[0].ColumnHeaders[0] != "Name" {
		t.Error("clone shares column headers")
	}
	if doc.Tables[0].Rows[1].Cells[0].Text != "Buffer A" {
		t.Error("clone shares cells")
	}
	if doc.CellCount() != 6 {
		t.Errorf("CellCount() = %d, want 6", doc.CellCount())
	}
}

// ============================================================================
// Preserved Metadata Tests
// ============================================================================

func TestCapturePreserved(t *testing.T) {
	doc := &DocumentStructure{Tables: []Table{sampleTable()}}
	m := CapturePreserved(doc)

	p, ok := m.Lookup(0)
	if !ok {
		t.Fatal("expected entry for table 0")
	}
	if p.Name != "Materials Used" || p.ID != "table_0" || len(p.ColumnHeaders) != 2 {
		t.Errorf("captured = %+v", p)
	}
	doc.Tables[0].ColumnHeaders[0] = "changed"
	if p.ColumnHeaders[0] != "Name" {
		t.Error("captured headers alias the structure")
	}
}

func TestCapturePreservedTitleRow(t *testing.T) {
	table := sampleTable()
	table.TitleRow = true
	m := CapturePreserved(&DocumentStructure{Tables: []Table{table}})
	if p, _ := m.Lookup(0); !p.TitleRow {
		t.Errorf("captured = %+v, want title row", p)
	}

	if !(PreservedTable{}).IsZero() {
		t.Error("empty entry should be zero")
	}
	if (PreservedTable{TitleRow: true}).IsZero() {
		t.Error("title row alone should not be zero")
	}
}

func TestDecodePreserved(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantLen int
		check   func(t *testing.T, m PreservedTableMetadata)
	}{
		{
			name:    "well formed",
			input:   `{"0": {"name": "Equipment", "id": "table_0", "column_headers": ["A", "B"]}}`,
			wantLen: 1,
			check: func(t *testing.T, m PreservedTableMetadata) {
				if m[0].Name != "Equipment" || len(m[0].ColumnHeaders) != 2 {
					t.Errorf("entry = %+v", m[0])
				}
			},
		},
		{name: "not an object", input: `[1, 2, 3]`, wantLen: 0},
		{name: "garbage", input: `{{{`, wantLen: 0},
		{name: "non integer key", input: `{"first": {"name": "X"}}`, wantLen: 0},
		{name: "entry not an object", input: `{"0": "Equipment"}`, wantLen: 0},
		{
			name:    "wrong field shapes",
			input:   `{"1": {"name": 42, "id": "table_1", "column_headers": "A,B"}}`,
			wantLen: 1,
			check: func(t *testing.T, m PreservedTableMetadata) {
				p := m[1]
				if p.Name != "" || p.ID != "table_1" || p.ColumnHeaders != nil {
					t.Errorf("entry = %+v", p)
				}
			},
		},
		{
			name:    "title row",
			input:   `{"2": {"name": "Summary of Calibration Runs", "is_title_row": true}, "3": {"is_title_row": "yes"}}`,
			wantLen: 1,
			check: func(t *testing.T, m PreservedTableMetadata) {
				if !m[2].TitleRow {
					t.Errorf("entry = %+v", m[2])
				}
			},
		},
		{name: "mixed header types", input: `{"0": {"column_headers": ["A", 1]}}`, wantLen: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := DecodePreserved([]byte(tt.input))
			if len(m) != tt.wantLen {
				t.Fatalf("len = %d, want %d (%+v)", len(m), tt.wantLen, m)
			}
			if tt.check != nil {
				tt.check(t, m)
			}
		})
	}
}

func TestPreservedUnmarshalNeverFails(t *testing.T) {
	var req struct {
		Preserved PreservedTableMetadata `json:"preserved"`
	}
	if err := json.Unmarshal([]byte(`{"preserved": "bogus"}`), &req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(req.Preserved) != 0 {
		t.Errorf("expected empty metadata, got %+v", req.Preserved)
	}
}

// ============================================================================
// GapReport Tests
// ============================================================================

func TestGapReportFinalize(t *testing.T) {
	g := NewGapReport()
	g.Materials = append(g.Materials, MaterialGap{Status: "missing"})
	g.TableCells = append(g.TableCells, CellGap{Status: "pending"}, CellGap{Status: "missing"})
	g.TotalGaps = 99

	g.Finalize()

	if g.TotalGaps != 3 {
		t.Errorf("TotalGaps = %d, want 3", g.TotalGaps)
	}
	if g.Counts.ByStatus["missing"] != 2 || g.Counts.TableCells != 2 {
		t.Errorf("Counts = %+v", g.Counts)
	}
}

func TestEmptyGapReportJSON(t *testing.T) {
	g := NewGapReport()
	g.Finalize()
	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `"table_cells":[]`) || !strings.Contains(string(data), `"total_gaps":0`) {
		t.Errorf("unexpected JSON: %s", data)
	}
}

func TestMaterialNullFields(t *testing.T) {
	data, err := json.Marshal(Material{Name: StringPtr("Tris Buffer")})
	if err != nil {
		t.Fatal(err)
	}
	want := `{"name":"Tris Buffer","catalog_number":null,"supplier":null,"lot_number":null}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}
