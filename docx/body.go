package docx

import (
	"encoding/xml"
	"strconv"
	"strings"
)

// bodyElements returns the paragraphs and tables of a body in document
// order. Content controls are transparent.
func bodyElements(body *node) []*node {
	var out []*node
	var walk func(*node)
	walk = func(n *node) {
		for _, c := range n.children {
			switch {
			case c.is("p"), c.is("tbl"):
				out = append(out, c)
			case c.is("sdt"):
				if content := c.child("sdtContent"); content != nil {
					walk(content)
				}
			}
		}
	}
	walk(body)
	return out
}

// skipped subtrees carry text that is not part of the paragraph flow.
var skipped = map[string]bool{
	"pPr": true, "rPr": true, "drawing": true, "pict": true, "object": true,
	"AlternateContent": true, "txbxContent": true, "del": true,
}

// paragraphText returns the visible text of a paragraph: run text with
// tabs as '\t' and breaks as '\n'.
func paragraphText(p *node) string {
	var sb strings.Builder
	var walk func(*node)
	walk = func(n *node) {
		for _, c := range n.children {
			if c.kind != elementNode || skipped[c.name.Local] {
				continue
			}
			switch c.name.Local {
			case "t":
				for _, t := range c.children {
					if t.kind == textNode {
						sb.Write(t.data)
					}
				}
			case "tab":
				sb.WriteByte('\t')
			case "br", "cr":
				sb.WriteByte('\n')
			default:
				walk(c)
			}
		}
	}
	walk(p)
	return sb.String()
}

// cellText joins the text of a cell's paragraphs with newlines. Nested
// tables are not included.
func cellText(tc *node) string {
	var parts []string
	for _, p := range tc.elements("p") {
		parts = append(parts, paragraphText(p))
	}
	return strings.Join(parts, "\n")
}

// paragraphStyleID returns the pStyle of a paragraph, if any.
func paragraphStyleID(p *node) string {
	if ppr := p.child("pPr"); ppr != nil {
		if ps := ppr.child("pStyle"); ps != nil {
			v, _ := ps.attrValue("val")
			return v
		}
	}
	return ""
}

// cellRef is one physical cell. A vertical-merge continuation points at
// the cell that started the merge.
type cellRef struct {
	tc     *node
	origin *node
}

func (c cellRef) continuation() bool { return c.tc != c.origin }

// tableView is the row and cell layout of one table.
type tableView struct {
	tbl  *node
	rows [][]cellRef
}

func newTableView(tbl *node) *tableView {
	v := &tableView{tbl: tbl}
	origins := make(map[int]*node)
	for _, tr := range tbl.elements("tr") {
		col := gridBefore(tr)
		var row []cellRef
		for _, tc := range tr.elements("tc") {
			ref := cellRef{tc: tc, origin: tc}
			if vMergeContinue(tc) {
				if o, ok := origins[col]; ok {
					ref.origin = o
				}
			}
			origins[col] = ref.origin
			row = append(row, ref)
			col += gridSpan(tc)
		}
		v.rows = append(v.rows, row)
	}
	return v
}

func (v *tableView) cell(r, c int) (cellRef, bool) {
	if r < 0 || r >= len(v.rows) || c < 0 || c >= len(v.rows[r]) {
		return cellRef{}, false
	}
	return v.rows[r][c], true
}

// texts returns the trimmed text of every cell, row by row.
func (v *tableView) texts() [][]string {
	rows := make([][]string, len(v.rows))
	for r, row := range v.rows {
		cells := make([]string, len(row))
		for c, ref := range row {
			cells[c] = strings.TrimSpace(cellText(ref.origin))
		}
		rows[r] = cells
	}
	return rows
}

func gridSpan(tc *node) int {
	if tcPr := tc.child("tcPr"); tcPr != nil {
		if gs := tcPr.child("gridSpan"); gs != nil {
			if v, ok := gs.attrValue("val"); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					return n
				}
			}
		}
	}
	return 1
}

func gridBefore(tr *node) int {
	if trPr := tr.child("trPr"); trPr != nil {
		if gb := trPr.child("gridBefore"); gb != nil {
			if v, ok := gb.attrValue("val"); ok {
				if n, err := strconv.Atoi(v); err == nil && n > 0 {
					return n
				}
			}
		}
	}
	return 0
}

// vMergeContinue reports whether tc continues a vertical merge. A vMerge
// without a value means "continue".
func vMergeContinue(tc *node) bool {
	tcPr := tc.child("tcPr")
	if tcPr == nil {
		return false
	}
	vm := tcPr.child("vMerge")
	if vm == nil {
		return false
	}
	v, ok := vm.attrValue("val")
	return !ok || v == "continue"
}

// setParagraphText replaces the content of p with a single run holding
// text. Paragraph properties and the first run's properties are kept.
func setParagraphText(p *node, text string) {
	var rPr *node
	if r := p.child("r"); r != nil {
		rPr = r.child("rPr")
	}
	p.removeChildrenExcept(func(c *node) bool { return c.is("pPr") })
	p.appendChild(newRun(p.prefix(), rPr, text))
}

// newRun builds a run for text, mapping '\t' to tab and '\n' to break.
func newRun(prefix string, rPr *node, text string) *node {
	r := newElement(prefix, "r")
	if rPr != nil {
		r.appendChild(rPr)
	}
	var segment strings.Builder
	flush := func() {
		if segment.Len() == 0 {
			return
		}
		t := newElement(prefix, "t", xml.Attr{Name: xml.Name{Space: "xml", Local: "space"}, Value: "preserve"})
		t.appendChild(&node{kind: textNode, data: []byte(segment.String())})
		r.appendChild(t)
		segment.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			r.appendChild(newElement(prefix, "tab"))
		case '\n':
			flush()
			r.appendChild(newElement(prefix, "br"))
		case '\r':
		default:
			segment.WriteRune(ch)
		}
	}
	flush()
	return r
}

// setCellText replaces the content of a cell with one paragraph. Cell
// properties and the formatting of the first paragraph are kept.
func setCellText(tc *node, text string) {
	prefix := tc.prefix()
	var pPr, rPr *node
	if p := tc.child("p"); p != nil {
		pPr = p.child("pPr")
		if r := p.child("r"); r != nil {
			rPr = r.child("rPr")
		}
	}
	tc.removeChildrenExcept(func(c *node) bool { return c.is("tcPr") })

	p := newElement(prefix, "p")
	if pPr != nil {
		p.appendChild(pPr)
	}
	p.appendChild(newRun(prefix, rPr, text))
	tc.appendChild(p)
}
