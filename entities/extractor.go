// Package entities pulls material, equipment and method records out of
// paragraph text.
//
// Each paragraph is tested against three trigger lists and may feed more
// than one bucket. A material or equipment record is kept only when a name
// is found; its other fields are left nil when absent, and that absence is
// what the gap aggregator reports on.
package entities

import (
	"regexp"
	"strings"

	"github.com/tsawler/docreview/internal/textutil"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/vocab"
)

// Labelled field patterns. A label is followed by a colon or whitespace and
// then the value.
var (
	catalogPattern       = regexp.MustCompile(`(?i)catalog[:\s]+([A-Z0-9\-]+)`)
	supplierPattern      = regexp.MustCompile(`(?i)supplier[:\s]+([A-Za-z\s\-]+)`)
	lotPattern           = regexp.MustCompile(`(?i)lot[:\s]+([A-Z0-9\-]+)`)
	configurationPattern = regexp.MustCompile(`(?i)configuration[:\s]+([A-Za-z\s\-]+)`)
	modelPattern         = regexp.MustCompile(`(?i)model[:\s]+([A-Z0-9\-]+)`)
	serialPattern        = regexp.MustCompile(`(?i)serial[:\s]+([A-Z0-9\-]+)`)
)

// Extractor extracts entities with one vocabulary. It is safe for
// concurrent use.
type Extractor struct {
	materialTriggers  []string
	equipmentTriggers []string
	methodTriggers    []string

	materialName  *regexp.Regexp
	equipmentName *regexp.Regexp
}

// New returns an Extractor for v. Empty suffix lists disable name
// extraction for that bucket.
func New(v vocab.Entities) *Extractor {
	return &Extractor{
		materialTriggers:  textutil.FoldAll(v.MaterialTriggers),
		equipmentTriggers: textutil.FoldAll(v.EquipmentTriggers),
		methodTriggers:    textutil.FoldAll(v.MethodTriggers),
		materialName:      namePattern(v.MaterialSuffixes),
		equipmentName:     namePattern(v.EquipmentSuffixes),
	}
}

// namePattern matches a capitalised phrase that ends in one of suffixes.
// Suffixes are matched case-sensitively.
func namePattern(suffixes []string) *regexp.Regexp {
	if len(suffixes) == 0 {
		return nil
	}
	quoted := make([]string, len(suffixes))
	for i, s := range suffixes {
		quoted[i] = regexp.QuoteMeta(s)
	}
	return regexp.MustCompile(`[A-Z][a-zA-Z\s]+(?:` + strings.Join(quoted, "|") + `)`)
}

var defaultExtractor = New(vocab.Default().Entities)

// Extract runs the default extractor over paragraphs.
func Extract(paragraphs []model.Paragraph, meta model.Metadata) *model.StructuredData {
	return defaultExtractor.Extract(paragraphs, meta)
}

// Extract builds the structured data of a document from its paragraphs.
// meta is carried through unchanged.
func (e *Extractor) Extract(paragraphs []model.Paragraph, meta model.Metadata) *model.StructuredData {
	data := &model.StructuredData{
		Materials: []model.Material{},
		Equipment: []model.Equipment{},
		Methods:   []string{},
		Metadata:  meta,
	}

	for _, p := range paragraphs {
		text := p.Text
		if strings.TrimSpace(text) == "" {
			continue
		}
		folded := textutil.Fold(text)

		if textutil.ContainsAny(folded, e.materialTriggers) {
			if m, ok := e.Material(text); ok {
				data.Materials = append(data.Materials, m)
			}
		}
		if textutil.ContainsAny(folded, e.equipmentTriggers) {
			if eq, ok := e.Equipment(text); ok {
				data.Equipment = append(data.Equipment, eq)
			}
		}
		if textutil.ContainsAny(folded, e.methodTriggers) {
			data.Methods = append(data.Methods, text)
		}
	}
	return data
}

// Material parses one material record from text. It reports false when no
// name was found.
func (e *Extractor) Material(text string) (model.Material, bool) {
	name := findName(e.materialName, text)
	if name == nil {
		return model.Material{}, false
	}
	return model.Material{
		Name:          name,
		CatalogNumber: field(catalogPattern, text),
		Supplier:      field(supplierPattern, text),
		LotNumber:     field(lotPattern, text),
	}, true
}

// Equipment parses one equipment record from text. A configuration of
// "none" counts as absent.
func (e *Extractor) Equipment(text string) (model.Equipment, bool) {
	name := findName(e.equipmentName, text)
	if name == nil {
		return model.Equipment{}, false
	}
	config := field(configurationPattern, text)
	if config != nil && strings.EqualFold(*config, "none") {
		config = nil
	}
	return model.Equipment{
		Name:          name,
		Configuration: config,
		ModelNumber:   field(modelPattern, text),
		SerialNumber:  field(serialPattern, text),
	}, true
}

func findName(re *regexp.Regexp, text string) *string {
	if re == nil {
		return nil
	}
	m := re.FindString(text)
	if m == "" {
		return nil
	}
	return model.StringPtr(strings.TrimSpace(m))
}

// field returns the trimmed first capture of re in text, or nil.
func field(re *regexp.Regexp, text string) *string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return nil
	}
	v := strings.TrimSpace(m[1])
	if v == "" {
		return nil
	}
	return model.StringPtr(v)
}
