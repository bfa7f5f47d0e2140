package model

import (
	"fmt"
	"strings"
)

// NameSource records which heuristic named a table.
type NameSource string

const (
	SourcePreserved         NameSource = "preserved"
	SourceParagraph         NameSource = "paragraph"
	SourceTitleRow          NameSource = "title_row"
	SourceFallbackParagraph NameSource = "fallback_paragraph"
	SourceDefault           NameSource = "default"
)

// Table represents a table with its resolved identity and rows
type Table struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	ColumnHeaders []string   `json:"column_headers"`
	Rows          []Row      `json:"rows"`
	Position      int        `json:"position"`
	TitleRow      bool       `json:"is_title_row,omitempty"`
	NameSource    NameSource `json:"name_source,omitempty"`
}

// Row is one table row.
type Row struct {
	ID    string `json:"id"`
	Cells []Cell `json:"cells"`
}

// Cell is one table cell. The flags are a pure function of Text.
type Cell struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Row       int    `json:"row"`
	Col       int    `json:"col"`
	IsPending bool   `json:"is_pending"`
	IsNull    bool   `json:"is_null"`
	IsMissing bool   `json:"is_missing"`
	IsEmpty   bool   `json:"is_empty"`
	HasGap    bool   `json:"has_gap"`
}

// TableID returns the synthetic id of table index t.
func TableID(t int) string { return fmt.Sprintf("table_%d", t) }

// RowID returns the synthetic id of row r in table t.
func RowID(t, r int) string { return fmt.Sprintf("row_%d_%d", t, r) }

// CellID returns the synthetic id of cell (r, c) in table t.
func CellID(t, r, c int) string { return fmt.Sprintf("cell_%d_%d_%d", t, r, c) }

// DefaultTableName returns the display name used when nothing better was
// found for table index t.
func DefaultTableName(t int) string { return fmt.Sprintf("Table %d", t+1) }

// ColumnLabel returns the placeholder header for 0-based column c.
func ColumnLabel(c int) string { return fmt.Sprintf("Column %d", c+1) }

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return len(t.Rows)
}

// ColCount returns the widest of the header list and every row.
func (t *Table) ColCount() int {
	n := len(t.ColumnHeaders)
	for _, r := range t.Rows {
		if len(r.Cells) > n {
			n = len(r.Cells)
		}
	}
	return n
}

// GetCell returns the cell at the given row and column (0-indexed)
func (t *Table) GetCell(row, col int) *Cell {
	if row < 0 || row >= len(t.Rows) {
		return nil
	}
	if col < 0 || col >= len(t.Rows[row].Cells) {
		return nil
	}
	return &t.Rows[row].Cells[col]
}

// Header returns the header of column c, or its placeholder.
func (t *Table) Header(c int) string {
	if c >= 0 && c < len(t.ColumnHeaders) && t.ColumnHeaders[c] != "" {
		return t.ColumnHeaders[c]
	}
	return ColumnLabel(c)
}

// DataRows returns the rows after the header row (and title row).
func (t *Table) DataRows() []Row {
	start := 1
	if t.TitleRow {
		start = 2
	}
	if start >= len(t.Rows) {
		return nil
	}
	return t.Rows[start:]
}

// ToMarkdown converts the table to markdown format
func (t *Table) ToMarkdown() string {
	cols := t.ColCount()
	if cols == 0 {
		return ""
	}

	var sb strings.Builder

	// Header row
	sb.WriteString("|")
	for c := 0; c < cols; c++ {
		sb.WriteString(" ")
		sb.WriteString(markdownCell(t.Header(c)))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")

	// Separator
	sb.WriteString("|")
	for c := 0; c < cols; c++ {
		sb.WriteString(" --- |")
	}
	sb.WriteString("\n")

	// Data rows
	for _, row := range t.DataRows() {
		sb.WriteString("|")
		for c := 0; c < cols; c++ {
			text := ""
			if c < len(row.Cells) {
				text = row.Cells[c].Text
			}
			sb.WriteString(" ")
			sb.WriteString(markdownCell(text))
			sb.WriteString(" |")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

func markdownCell(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	return strings.ReplaceAll(s, "|", "\\|")
}

// ToCSV converts the table to CSV format, header row first
func (t *Table) ToCSV() string {
	cols := t.ColCount()
	var sb strings.Builder

	writeRow := func(texts []string) {
		for j, text := range texts {
			// Escape quotes and wrap in quotes if necessary
			if strings.ContainsAny(text, ",\"\n") {
				text = "\"" + strings.ReplaceAll(text, "\"", "\"\"") + "\""
			}
			sb.WriteString(text)
			if j < len(texts)-1 {
				sb.WriteString(",")
			}
		}
		sb.WriteString("\n")
	}

	headers := make([]string, cols)
	for c := range headers {
		headers[c] = t.Header(c)
	}
	writeRow(headers)

	for _, row := range t.DataRows() {
		texts := make([]string, cols)
		for c := 0; c < cols && c < len(row.Cells); c++ {
			texts[c] = row.Cells[c].Text
		}
		writeRow(texts)
	}
	return sb.String()
}

// GapCells returns the cells flagged with a gap.
func (t *Table) GapCells() []Cell {
	var out []Cell
	for _, r := range t.Rows {
		for _, c := range r.Cells {
			if c.HasGap {
				out = append(out, c)
			}
		}
	}
	return out
}

func (t Table) clone() Table {
	out := t
	out.ColumnHeaders = append([]string(nil), t.ColumnHeaders...)
	out.Rows = make([]Row, len(t.Rows))
	for i, r := range t.Rows {
		out.Rows[i] = Row{ID: r.ID, Cells: append([]Cell(nil), r.Cells...)}
	}
	return out
}
