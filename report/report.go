// Package report renders a review as a standalone HTML page for reviewers.
//
// Gap cells are highlighted in place, with the issue as a tooltip, and the
// entity gaps are listed after the tables. The page carries its own styles
// and no scripts.
package report

import (
	"fmt"
	"io"
	"sort"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/tsawler/docreview/model"
)

const stylesheet = `body{font-family:sans-serif;margin:2em;color:#222}
table{border-collapse:collapse;margin-bottom:1.5em}
th,td{border:1px solid #999;padding:.3em .6em;text-align:left}
th{background:#eee}
td.gap{background:#fde2e2}
td.gap-pending{background:#fff3cd}
small{color:#666;font-weight:normal}
.summary span{margin-right:1em}`

// Page is what a report shows.
type Page struct {
	Title     string
	Structure *model.DocumentStructure
	Gaps      *model.GapReport
}

// Render writes p as an HTML document to w.
func Render(w io.Writer, p Page) error {
	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})

	root := element(atom.Html, "lang", "en")
	doc.AppendChild(root)

	head := element(atom.Head)
	head.AppendChild(element(atom.Meta, "charset", "utf-8"))
	head.AppendChild(withText(element(atom.Title), "Review: "+p.Title))
	head.AppendChild(withText(element(atom.Style), stylesheet))
	root.AppendChild(head)

	body := element(atom.Body)
	root.AppendChild(body)
	body.AppendChild(withText(element(atom.H1), p.Title))

	gaps := p.Gaps
	if gaps == nil {
		gaps = model.NewGapReport()
	}
	body.AppendChild(summary(gaps))

	cellGaps := make(map[string]model.CellGap, len(gaps.TableCells))
	for _, g := range gaps.TableCells {
		cellGaps[cellKey(g.TableID, g.Row, g.Col)] = g
	}

	if p.Structure != nil {
		for i := range p.Structure.Tables {
			body.AppendChild(tableSection(i, &p.Structure.Tables[i], cellGaps))
		}
	}

	if len(gaps.Materials) > 0 || len(gaps.Equipment) > 0 {
		body.AppendChild(withText(element(atom.H2), "Entity gaps"))
		list := element(atom.Ul)
		for _, m := range gaps.Materials {
			list.AppendChild(withText(element(atom.Li, "class", "gap-"+m.Status),
				fmt.Sprintf("Material %s: %s is %s", m.MaterialName, m.Field, m.Status)))
		}
		for _, e := range gaps.Equipment {
			list.AppendChild(withText(element(atom.Li, "class", "gap-"+e.Status),
				fmt.Sprintf("Equipment %s: %s is %s", e.EquipmentName, e.Field, e.Status)))
		}
		body.AppendChild(list)
	}

	if err := html.Render(w, doc); err != nil {
		return fmt.Errorf("rendering report: %w", err)
	}
	return nil
}

func summary(g *model.GapReport) *html.Node {
	p := element(atom.P, "class", "summary")
	p.AppendChild(withText(element(atom.Strong), fmt.Sprintf("%d gaps", g.TotalGaps)))

	statuses := make([]string, 0, len(g.Counts.ByStatus))
	for s := range g.Counts.ByStatus {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)
	for _, s := range statuses {
		p.AppendChild(withText(element(atom.Span), fmt.Sprintf("%s: %d", s, g.Counts.ByStatus[s])))
	}
	return p
}

func tableSection(index int, t *model.Table, cellGaps map[string]model.CellGap) *html.Node {
	id := t.ID
	if id == "" {
		id = model.TableID(index)
	}
	section := element(atom.Section, "id", id)

	h := withText(element(atom.H2), t.Name)
	if t.NameSource != "" {
		h.AppendChild(text(" "))
		h.AppendChild(withText(element(atom.Small), "("+string(t.NameSource)+")"))
	}
	section.AppendChild(h)

	tbl := element(atom.Table)
	thead := element(atom.Thead)
	hr := element(atom.Tr)
	cols := t.ColCount()
	for c := 0; c < cols; c++ {
		hr.AppendChild(withText(element(atom.Th, "scope", "col"), t.Header(c)))
	}
	thead.AppendChild(hr)
	tbl.AppendChild(thead)

	tbody := element(atom.Tbody)
	for r, row := range t.Rows {
		tr := element(atom.Tr, "id", row.ID)
		for c, cell := range row.Cells {
			td := element(atom.Td, "id", cell.ID)
			if g, ok := cellGaps[cellKey(id, r, c)]; ok {
				td.Attr = append(td.Attr,
					html.Attribute{Key: "class", Val: "gap gap-" + g.Status},
					html.Attribute{Key: "title", Val: g.Issue})
			}
			td.AppendChild(text(cell.Text))
			tr.AppendChild(td)
		}
		tbody.AppendChild(tr)
	}
	tbl.AppendChild(tbody)
	section.AppendChild(tbl)
	return section
}

func cellKey(table string, r, c int) string {
	return fmt.Sprintf("%s/%d/%d", table, r, c)
}

// element creates an element node. attrs are key/value pairs.
func element(a atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

func text(s string) *html.Node {
	return &html.Node{Type: html.TextNode, Data: s}
}

func withText(n *html.Node, s string) *html.Node {
	n.AppendChild(text(s))
	return n
}
