package model

// DocumentStructure is the ordered logical structure of a document.
type DocumentStructure struct {
	Paragraphs []Paragraph `json:"paragraphs"`
	Tables     []Table     `json:"tables"`
}

// Paragraph is a non-empty body paragraph.
type Paragraph struct {
	Text     string `json:"text"`
	Style    string `json:"style,omitempty"`
	Position int    `json:"position"`
}

// Metadata contains document-level information
type Metadata struct {
	Title          string   `json:"title,omitempty"`
	Author         string   `json:"author,omitempty"`
	Subject        string   `json:"subject,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	Creator        string   `json:"creator,omitempty"`
	LastModifiedBy string   `json:"last_modified_by,omitempty"`
	Created        string   `json:"created,omitempty"`
	Modified       string   `json:"modified,omitempty"`
}

// BlockKind identifies a body element.
type BlockKind string

const (
	BlockParagraph BlockKind = "paragraph"
	BlockTable     BlockKind = "table"
)

// Block is one element of a document body as the container yields it.
// Paragraph blocks carry Text and Style; table blocks carry Rows of
// trimmed cell text.
type Block struct {
	Kind  BlockKind
	Text  string
	Style string
	Rows  [][]string
}

// ParagraphAt returns the paragraph whose Position is pos.
func (d *DocumentStructure) ParagraphAt(pos int) (Paragraph, bool) {
	for _, p := range d.Paragraphs {
		if p.Position == pos {
			return p, true
		}
	}
	return Paragraph{}, false
}

// PrecedingParagraph returns the paragraph immediately before table index
// i in body order, if that element is a paragraph.
func (d *DocumentStructure) PrecedingParagraph(i int) (Paragraph, bool) {
	if i < 0 || i >= len(d.Tables) {
		return Paragraph{}, false
	}
	return d.ParagraphAt(d.Tables[i].Position - 1)
}

// CellCount returns the number of cells across all tables.
func (d *DocumentStructure) CellCount() int {
	n := 0
	for _, t := range d.Tables {
		for _, r := range t.Rows {
			n += len(r.Cells)
		}
	}
	return n
}

// Clone returns a deep copy of d.
func (d *DocumentStructure) Clone() *DocumentStructure {
	if d == nil {
		return nil
	}
	out := &DocumentStructure{
		Paragraphs: append([]Paragraph(nil), d.Paragraphs...),
		Tables:     make([]Table, len(d.Tables)),
	}
	for i, t := range d.Tables {
		out.Tables[i] = t.clone()
	}
	return out
}
