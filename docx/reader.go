package docx

import (
	"fmt"
	"strings"

	"github.com/tsawler/docreview/model"
)

// Reader provides access to DOCX document content.
type Reader struct {
	c      *container
	body   *node
	styles styleIndex
	core   *corePropertiesXML
	app    *appPropertiesXML
}

// Open opens a DOCX file for reading. A file that is not a DOCX package
// fails with ErrNotDOCX.
func Open(filename string) (*Reader, error) {
	c, err := openContainer(filename)
	if err != nil {
		return nil, err
	}
	return newReader(c)
}

// OpenBytes reads a DOCX package held in memory.
func OpenBytes(data []byte) (*Reader, error) {
	c, err := newContainer(data)
	if err != nil {
		return nil, err
	}
	return newReader(c)
}

func newReader(c *container) (*Reader, error) {
	doc, err := c.tree(c.mainPart)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.mainPart, err)
	}
	body := doc.root().child("body")
	if body == nil {
		return nil, fmt.Errorf("%w: document body", ErrMissingPart)
	}

	r := &Reader{c: c, body: body, styles: c.styles()}

	// Metadata is optional
	core := &corePropertiesXML{}
	if err := c.unmarshal(corePart, core); err == nil {
		r.core = core
	}
	app := &appPropertiesXML{}
	if err := c.unmarshal(appPart, app); err == nil {
		r.app = app
	}

	return r, nil
}

// Close releases resources associated with the Reader.
func (r *Reader) Close() error {
	r.c = nil
	r.body = nil
	return nil
}

// Blocks returns the non-empty paragraphs and the tables of the body in
// document order. Paragraph text is returned as written; table cells are
// trimmed, and vertical-merge continuations repeat the merged text.
func (r *Reader) Blocks() []model.Block {
	if r.body == nil {
		return nil
	}
	var blocks []model.Block
	for _, el := range bodyElements(r.body) {
		if el.is("tbl") {
			blocks = append(blocks, model.Block{Kind: model.BlockTable, Rows: newTableView(el).texts()})
			continue
		}
		text := paragraphText(el)
		if strings.TrimSpace(text) == "" {
			continue
		}
		blocks = append(blocks, model.Block{
			Kind:  model.BlockParagraph,
			Text:  text,
			Style: r.styles.name(paragraphStyleID(el)),
		})
	}
	return blocks
}

// Metadata returns document metadata.
func (r *Reader) Metadata() model.Metadata {
	meta := model.Metadata{}
	if r.core != nil {
		meta.Title = r.core.Title
		meta.Author = r.core.Creator
		meta.Subject = r.core.Subject
		meta.LastModifiedBy = r.core.LastModifiedBy
		meta.Created = r.core.Created
		meta.Modified = r.core.Modified
		if r.core.Keywords != "" {
			meta.Keywords = strings.Split(r.core.Keywords, ",")
			for i, kw := range meta.Keywords {
				meta.Keywords[i] = strings.TrimSpace(kw)
			}
		}
	}
	if r.app != nil {
		meta.Creator = r.app.Application
	}
	return meta
}
