package docreview

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsawler/docreview/model"
)

// textContent renders the plain-text view: every paragraph on its own
// line, then each table as " | "-joined rows framed by blank lines.
func textContent(blocks []model.Block) string {
	var lines []string
	for _, b := range blocks {
		if b.Kind == model.BlockParagraph && strings.TrimSpace(b.Text) != "" {
			lines = append(lines, b.Text)
		}
	}
	for _, b := range blocks {
		if b.Kind != model.BlockTable {
			continue
		}
		lines = append(lines, "")
		for _, row := range b.Rows {
			lines = append(lines, strings.Join(row, " | "))
		}
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

type xmlDocument struct {
	XMLName xml.Name   `xml:"document"`
	Title   string     `xml:"title"`
	Content xmlContent `xml:"content"`
}

type xmlContent struct {
	Paragraphs []string   `xml:"paragraph"`
	Tables     []xmlTable `xml:"table"`
}

type xmlTable struct {
	Rows []xmlRow `xml:"row"`
}

type xmlRow struct {
	Cells []string `xml:"cell"`
}

// xmlExport renders the document as <document><title/><content/>, with
// paragraphs first and tables after them.
func xmlExport(blocks []model.Block) (string, error) {
	doc := xmlDocument{Title: "Document Content"}
	for _, b := range blocks {
		switch b.Kind {
		case model.BlockParagraph:
			if strings.TrimSpace(b.Text) != "" {
				doc.Content.Paragraphs = append(doc.Content.Paragraphs, b.Text)
			}
		case model.BlockTable:
			t := xmlTable{Rows: make([]xmlRow, len(b.Rows))}
			for i, row := range b.Rows {
				t.Rows[i] = xmlRow{Cells: append([]string(nil), row...)}
			}
			doc.Content.Tables = append(doc.Content.Tables, t)
		}
	}

	out, err := xml.Marshal(doc)
	if err != nil {
		return "", fmt.Errorf("encoding xml: %w", err)
	}
	return string(out), nil
}
