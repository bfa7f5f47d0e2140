package docx

import (
	"encoding/xml"
	"path"
	"strings"
)

// stylesXML represents the structure of word/styles.xml
type stylesXML struct {
	XMLName xml.Name      `xml:"styles"`
	Styles  []styleDefXML `xml:"style"`
}

// styleDefXML represents a style definition.
type styleDefXML struct {
	Type    string       `xml:"type,attr"` // paragraph, character, table, numbering
	StyleID string       `xml:"styleId,attr"`
	Default string       `xml:"default,attr"` // "1" if default style
	Name    styleNameXML `xml:"name"`
}

// styleNameXML represents a style name.
type styleNameXML struct {
	Val string `xml:"val,attr"`
}

// relationshipsXML represents _rels/*.rels files
type relationshipsXML struct {
	XMLName       xml.Name          `xml:"Relationships"`
	Relationships []relationshipXML `xml:"Relationship"`
}

// relationshipXML represents a single relationship.
type relationshipXML struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"` // External or empty (internal)
}

// target returns the part name of the first internal relationship whose
// type ends in kind, resolved against base.
func (r *relationshipsXML) target(base, kind string) (string, bool) {
	if r == nil {
		return "", false
	}
	for _, rel := range r.Relationships {
		if rel.TargetMode == "External" || !strings.HasSuffix(rel.Type, "/"+kind) {
			continue
		}
		if strings.HasPrefix(rel.Target, "/") {
			return strings.TrimPrefix(rel.Target, "/"), true
		}
		return path.Join(base, rel.Target), true
	}
	return "", false
}

// corePropertiesXML represents docProps/core.xml (Dublin Core metadata)
type corePropertiesXML struct {
	XMLName        xml.Name `xml:"coreProperties"`
	Title          string   `xml:"title"`
	Subject        string   `xml:"subject"`
	Creator        string   `xml:"creator"`
	Keywords       string   `xml:"keywords"`
	LastModifiedBy string   `xml:"lastModifiedBy"`
	Created        string   `xml:"created"`
	Modified       string   `xml:"modified"`
}

// appPropertiesXML represents docProps/app.xml
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
}

// styleIndex maps paragraph style ids to display names.
type styleIndex struct {
	names        map[string]string
	defaultStyle string
}

func newStyleIndex(s *stylesXML) styleIndex {
	idx := styleIndex{names: make(map[string]string)}
	if s == nil {
		return idx
	}
	for _, st := range s.Styles {
		if st.Type != "" && st.Type != "paragraph" {
			continue
		}
		name := st.Name.Val
		if name == "" {
			name = st.StyleID
		}
		idx.names[st.StyleID] = name
		if st.Default == "1" || st.Default == "true" {
			idx.defaultStyle = name
		}
	}
	return idx
}

// name returns the display name for a style id. Paragraphs without a
// style report the document's default paragraph style.
func (idx styleIndex) name(id string) string {
	if id == "" {
		return idx.defaultStyle
	}
	if n, ok := idx.names[id]; ok {
		return n
	}
	return id
}

// styleID derives the id a new document uses for a style name.
func styleID(name string) string {
	return strings.ReplaceAll(name, " ", "")
}
