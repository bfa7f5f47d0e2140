// Package roundtrip applies an edited document structure back onto the
// document it was extracted from.
//
// Edits are merged conservatively. Section-heading paragraphs are protected
// from replacement by header-shaped or badly truncated text, and a table's
// first row is always written from its resolved column headers rather than
// from the row's cell text, so an edited cell value can never leak into the
// header row. When the document cannot be updated in place it is rebuilt
// from the structure instead of losing the edit.
package roundtrip

// Document is an opened document whose text can be edited in place.
// Paragraphs are indexed over the non-empty body paragraphs.
type Document interface {
	ParagraphCount() int
	Paragraph(i int) string
	SetParagraph(i int, text string) error

	TableCount() int
	RowCount(t int) int
	CellCount(t, r int) int
	Cell(t, r, c int) string
	SetCell(t, r, c int, text string) error

	Save() error
}

// Builder assembles a new document.
type Builder interface {
	AddParagraph(text, style string)
	AddTable(rows, cols int) int
	SetCell(t, r, c int, text string) error
	Save() error
}

// Store opens existing documents and creates new ones at a path.
type Store interface {
	Open(path string) (Document, error)
	Create(path string) (Builder, error)
}
