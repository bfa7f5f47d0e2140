package docx

import (
	"fmt"
	"strings"
)

// Editor modifies the text of an existing document in place. Everything
// it does not touch, including formatting and unrelated package parts,
// is written back unchanged.
//
// Paragraphs are addressed by index over the non-empty body paragraphs,
// which is the numbering Reader.Blocks uses. Cells are addressed by
// physical position within a row.
type Editor struct {
	path       string
	c          *container
	doc        *node
	paragraphs []*node
	tables     []*tableView
}

// OpenEditor opens filename for editing.
func OpenEditor(filename string) (*Editor, error) {
	c, err := openContainer(filename)
	if err != nil {
		return nil, err
	}
	doc, err := c.tree(c.mainPart)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.mainPart, err)
	}
	body := doc.root().child("body")
	if body == nil {
		return nil, fmt.Errorf("%w: document body", ErrMissingPart)
	}

	e := &Editor{path: filename, c: c, doc: doc}
	for _, el := range bodyElements(body) {
		if el.is("tbl") {
			e.tables = append(e.tables, newTableView(el))
		} else if strings.TrimSpace(paragraphText(el)) != "" {
			e.paragraphs = append(e.paragraphs, el)
		}
	}
	return e, nil
}

// ParagraphCount returns the number of non-empty body paragraphs.
func (e *Editor) ParagraphCount() int { return len(e.paragraphs) }

// Paragraph returns the text of paragraph i.
func (e *Editor) Paragraph(i int) string {
	if i < 0 || i >= len(e.paragraphs) {
		return ""
	}
	return paragraphText(e.paragraphs[i])
}

// SetParagraph replaces the text of paragraph i, keeping its style.
func (e *Editor) SetParagraph(i int, text string) error {
	if i < 0 || i >= len(e.paragraphs) {
		return fmt.Errorf("paragraph %d out of range (have %d)", i, len(e.paragraphs))
	}
	setParagraphText(e.paragraphs[i], text)
	return nil
}

// TableCount returns the number of body tables.
func (e *Editor) TableCount() int { return len(e.tables) }

// RowCount returns the number of rows of table t.
func (e *Editor) RowCount(t int) int {
	if t < 0 || t >= len(e.tables) {
		return 0
	}
	return len(e.tables[t].rows)
}

// CellCount returns the number of cells in row r of table t.
func (e *Editor) CellCount(t, r int) int {
	if t < 0 || t >= len(e.tables) || r < 0 || r >= len(e.tables[t].rows) {
		return 0
	}
	return len(e.tables[t].rows[r])
}

// Cell returns the text of a cell.
func (e *Editor) Cell(t, r, c int) string {
	if t < 0 || t >= len(e.tables) {
		return ""
	}
	ref, ok := e.tables[t].cell(r, c)
	if !ok {
		return ""
	}
	return cellText(ref.origin)
}

// SetCell replaces the text of a cell. Writes to a vertical-merge
// continuation are ignored; the merged text belongs to the first cell.
func (e *Editor) SetCell(t, r, c int, text string) error {
	if t < 0 || t >= len(e.tables) {
		return fmt.Errorf("table %d out of range (have %d)", t, len(e.tables))
	}
	ref, ok := e.tables[t].cell(r, c)
	if !ok {
		return fmt.Errorf("cell (%d,%d) out of range in table %d", r, c, t)
	}
	if ref.continuation() {
		return nil
	}
	setCellText(ref.tc, text)
	return nil
}

// Save writes the document back over its original path.
func (e *Editor) Save() error {
	return e.SaveAs(e.path)
}

// SaveAs writes the edited document to filename.
func (e *Editor) SaveAs(filename string) error {
	if err := writePackage(filename, e.c.zr, part{name: e.c.mainPart, data: e.doc.marshal()}); err != nil {
		return fmt.Errorf("saving %s: %w", filename, err)
	}
	return nil
}
