package docx

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

const nsW = "http://schemas.openxmlformats.org/wordprocessingml/2006/main"

// Builder creates a new document from paragraphs and tables.
type Builder struct {
	path   string
	body   *node
	tables []*tableView
}

// NewBuilder starts an empty document that Save writes to filename.
func NewBuilder(filename string) *Builder {
	return &Builder{path: filename, body: newElement("w", "body")}
}

// AddParagraph appends a paragraph. A style name other than "Normal" is
// referenced by id; the document carries definitions for the title and
// heading styles.
func (b *Builder) AddParagraph(text, style string) {
	p := newElement("w", "p")
	if style != "" && style != "Normal" {
		pPr := p.appendChild(newElement("w", "pPr"))
		pPr.appendChild(newElement("w", "pStyle", wAttr("val", styleID(style))))
	}
	p.appendChild(newRun("w", nil, text))
	b.body.appendChild(p)
}

// AddTable appends an empty grid table and returns its index.
func (b *Builder) AddTable(rows, cols int) int {
	tbl := newElement("w", "tbl")
	tblPr := tbl.appendChild(newElement("w", "tblPr"))
	tblPr.appendChild(newElement("w", "tblStyle", wAttr("val", "TableGrid")))
	tblPr.appendChild(newElement("w", "tblW", wAttr("w", "0"), wAttr("type", "auto")))

	grid := tbl.appendChild(newElement("w", "tblGrid"))
	for c := 0; c < cols; c++ {
		grid.appendChild(newElement("w", "gridCol", wAttr("w", strconv.Itoa(9000/max(cols, 1)))))
	}
	for r := 0; r < rows; r++ {
		tr := tbl.appendChild(newElement("w", "tr"))
		for c := 0; c < cols; c++ {
			tc := tr.appendChild(newElement("w", "tc"))
			tcPr := tc.appendChild(newElement("w", "tcPr"))
			tcPr.appendChild(newElement("w", "tcW", wAttr("w", "0"), wAttr("type", "auto")))
			tc.appendChild(newElement("w", "p"))
		}
	}
	b.body.appendChild(tbl)
	b.tables = append(b.tables, newTableView(tbl))
	return len(b.tables) - 1
}

// SetCell sets the text of a cell of a table added with AddTable.
func (b *Builder) SetCell(t, r, c int, text string) error {
	if t < 0 || t >= len(b.tables) {
		return fmt.Errorf("table %d out of range (have %d)", t, len(b.tables))
	}
	ref, ok := b.tables[t].cell(r, c)
	if !ok {
		return fmt.Errorf("cell (%d,%d) out of range in table %d", r, c, t)
	}
	setCellText(ref.tc, text)
	return nil
}

// Save writes the document.
func (b *Builder) Save() error {
	if err := writePackage(b.path, nil, b.parts()...); err != nil {
		return fmt.Errorf("saving %s: %w", b.path, err)
	}
	return nil
}

func (b *Builder) parts() []part {
	doc := newElement("w", "document", xml.Attr{Name: xml.Name{Space: "xmlns", Local: "w"}, Value: nsW})
	body := doc.appendChild(newElement("w", "body"))
	body.children = append(body.children, b.body.children...)

	sectPr := body.appendChild(newElement("w", "sectPr"))
	sectPr.appendChild(newElement("w", "pgSz", wAttr("w", "12240"), wAttr("h", "15840")))
	sectPr.appendChild(newElement("w", "pgMar",
		wAttr("top", "1440"), wAttr("right", "1440"), wAttr("bottom", "1440"), wAttr("left", "1440")))

	document := append([]byte(xml.Header), doc.marshal()...)
	return []part{
		{name: contentTypesPart, data: []byte(contentTypesXML)},
		{name: packageRelsPart, data: []byte(packageRelsXML)},
		{name: defaultMainPart, data: document},
		{name: "word/_rels/document.xml.rels", data: []byte(documentRelsXML)},
		{name: defaultStyles, data: []byte(builderStylesXML)},
	}
}

func wAttr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: "w", Local: local}, Value: value}
}

const contentTypesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
<Override PartName="/word/styles.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.styles+xml"/>
</Types>`

const packageRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`

const documentRelsXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/styles" Target="styles.xml"/>
</Relationships>`

const builderStylesXML = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:styles xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:style w:type="paragraph" w:default="1" w:styleId="Normal"><w:name w:val="Normal"/><w:qFormat/></w:style>
<w:style w:type="paragraph" w:styleId="Title"><w:name w:val="Title"/><w:basedOn w:val="Normal"/><w:qFormat/><w:rPr><w:sz w:val="56"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading1"><w:name w:val="Heading 1"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:outlineLvl w:val="0"/></w:pPr><w:rPr><w:b/><w:sz w:val="32"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading2"><w:name w:val="Heading 2"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:outlineLvl w:val="1"/></w:pPr><w:rPr><w:b/><w:sz w:val="28"/></w:rPr></w:style>
<w:style w:type="paragraph" w:styleId="Heading3"><w:name w:val="Heading 3"/><w:basedOn w:val="Normal"/><w:qFormat/><w:pPr><w:outlineLvl w:val="2"/></w:pPr><w:rPr><w:b/><w:sz w:val="24"/></w:rPr></w:style>
<w:style w:type="table" w:styleId="TableGrid"><w:name w:val="Table Grid"/><w:tblPr><w:tblBorders><w:top w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:left w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:bottom w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:right w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideH w:val="single" w:sz="4" w:space="0" w:color="auto"/><w:insideV w:val="single" w:sz="4" w:space="0" w:color="auto"/></w:tblBorders></w:tblPr></w:style>
</w:styles>`
