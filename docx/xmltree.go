package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// nodeKind distinguishes the token types kept in a tree.
type nodeKind int

const (
	elementNode nodeKind = iota
	textNode
	commentNode
	procInstNode
	directiveNode
)

// node is one token of a part, kept with its raw namespace prefix so the
// part can be written back without the decoder's namespace rewriting.
type node struct {
	kind     nodeKind
	name     xml.Name // Space holds the prefix, not the namespace URL
	attr     []xml.Attr
	children []*node
	parent   *node

	// data holds character data, comment text, or a directive.
	data   []byte
	target string // processing instruction target
}

// parseTree reads an XML part into a tree rooted at a synthetic document
// node holding the prolog and the root element.
func parseTree(r io.Reader) (*node, error) {
	dec := xml.NewDecoder(r)
	dec.Strict = true

	doc := &node{kind: elementNode}
	cur := doc
	for {
		tok, err := dec.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			n := &node{kind: elementNode, name: t.Name, attr: append([]xml.Attr(nil), t.Attr...), parent: cur}
			cur.children = append(cur.children, n)
			cur = n
		case xml.EndElement:
			if cur == doc || cur.name != t.Name {
				return nil, fmt.Errorf("unexpected end element </%s>", qualified(t.Name))
			}
			cur = cur.parent
		case xml.CharData:
			cur.children = append(cur.children, &node{kind: textNode, data: t.Copy(), parent: cur})
		case xml.Comment:
			cur.children = append(cur.children, &node{kind: commentNode, data: t.Copy(), parent: cur})
		case xml.ProcInst:
			cur.children = append(cur.children, &node{kind: procInstNode, target: t.Target, data: append([]byte(nil), t.Inst...), parent: cur})
		case xml.Directive:
			cur.children = append(cur.children, &node{kind: directiveNode, data: t.Copy(), parent: cur})
		}
	}
	if cur != doc {
		return nil, fmt.Errorf("unclosed element <%s>", qualified(cur.name))
	}
	return doc, nil
}

func qualified(n xml.Name) string {
	if n.Space == "" {
		return n.Local
	}
	return n.Space + ":" + n.Local
}

// is reports whether n is an element with the given local name.
func (n *node) is(local string) bool {
	return n != nil && n.kind == elementNode && n.name.Local == local
}

// child returns the first child element named local.
func (n *node) child(local string) *node {
	if n == nil {
		return nil
	}
	for _, c := range n.children {
		if c.is(local) {
			return c
		}
	}
	return nil
}

// elements returns the child elements named local.
func (n *node) elements(local string) []*node {
	var out []*node
	for _, c := range n.children {
		if c.is(local) {
			out = append(out, c)
		}
	}
	return out
}

// attrValue returns the value of the attribute with the given local name.
func (n *node) attrValue(local string) (string, bool) {
	for _, a := range n.attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// prefix returns the prefix used by n, which new sibling elements reuse.
func (n *node) prefix() string {
	return n.name.Space
}

// newElement creates an element under the given prefix.
func newElement(prefix, local string, attrs ...xml.Attr) *node {
	return &node{kind: elementNode, name: xml.Name{Space: prefix, Local: local}, attr: attrs}
}

// appendChild adds c as the last child of n.
func (n *node) appendChild(c *node) *node {
	c.parent = n
	n.children = append(n.children, c)
	return c
}

// removeChildrenExcept drops every child not accepted by keep.
func (n *node) removeChildrenExcept(keep func(*node) bool) {
	kept := n.children[:0]
	for _, c := range n.children {
		if keep(c) {
			kept = append(kept, c)
		}
	}
	for i := len(kept); i < len(n.children); i++ {
		n.children[i] = nil
	}
	n.children = kept
}

// root returns the root element of a document node.
func (n *node) root() *node {
	for _, c := range n.children {
		if c.kind == elementNode {
			return c
		}
	}
	return nil
}

// write serializes the tree.
func (n *node) write(w *bytes.Buffer) {
	switch n.kind {
	case textNode:
		escapeText(w, n.data)
	case commentNode:
		w.WriteString("<!--")
		w.Write(n.data)
		w.WriteString("-->")
	case procInstNode:
		w.WriteString("<?")
		w.WriteString(n.target)
		if len(n.data) > 0 {
			w.WriteByte(' ')
			w.Write(n.data)
		}
		w.WriteString("?>")
	case directiveNode:
		w.WriteString("<!")
		w.Write(n.data)
		w.WriteString(">")
	case elementNode:
		if n.name.Local == "" {
			// Synthetic document node.
			for _, c := range n.children {
				c.write(w)
			}
			return
		}
		w.WriteByte('<')
		w.WriteString(qualified(n.name))
		for _, a := range n.attr {
			w.WriteByte(' ')
			w.WriteString(qualified(a.Name))
			w.WriteString(`="`)
			escapeAttr(w, a.Value)
			w.WriteByte('"')
		}
		if len(n.children) == 0 {
			w.WriteString("/>")
			return
		}
		w.WriteByte('>')
		for _, c := range n.children {
			c.write(w)
		}
		w.WriteString("</")
		w.WriteString(qualified(n.name))
		w.WriteByte('>')
	}
}

// marshal returns the serialized tree.
func (n *node) marshal() []byte {
	var buf bytes.Buffer
	n.write(&buf)
	return buf.Bytes()
}

var textEscaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")

var attrEscaper = strings.NewReplacer(
	"&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;",
	"\n", "&#xA;", "\r", "&#xD;", "\t", "&#x9;",
)

func escapeText(w *bytes.Buffer, data []byte) {
	textEscaper.WriteString(w, string(data))
}

func escapeAttr(w *bytes.Buffer, s string) {
	attrEscaper.WriteString(w, s)
}
