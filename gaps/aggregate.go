// Package gaps consolidates the review gaps of a document into one
// [model.GapReport].
package gaps

import (
	"fmt"
	"strings"

	"github.com/tsawler/docreview/classify"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/vocab"
)

// Gap fields and statuses for extracted entities.
const (
	FieldCatalogNumber = "catalog_number"
	FieldConfiguration = "configuration"

	StatusMissing = "missing"
	StatusInvalid = "invalid"
)

const (
	unknownName = "Unknown"
	emptyText   = "(empty)"
)

// Aggregator builds gap reports. It is safe for concurrent use.
type Aggregator struct {
	classifier *classify.Classifier
}

// New returns an Aggregator that classifies cells with c. A nil c uses
// the default vocabulary.
func New(c *classify.Classifier) *Aggregator {
	if c == nil {
		c = classify.New(vocab.Default().Cells)
	}
	return &Aggregator{classifier: c}
}

var defaultAggregator = New(nil)

// Aggregate builds a report with the default vocabulary.
func Aggregate(ds *model.DocumentStructure, data *model.StructuredData) *model.GapReport {
	return defaultAggregator.Aggregate(ds, data)
}

// Aggregate lists every material without a catalog number, every piece of
// equipment without a usable configuration and every table cell whose
// text classifies as a gap. Either argument may be nil.
//
// Cells are classified again from their text, so flags sent back by a
// client never decide the outcome.
func (a *Aggregator) Aggregate(ds *model.DocumentStructure, data *model.StructuredData) *model.GapReport {
	report := model.NewGapReport()

	if data != nil {
		for i, m := range data.Materials {
			if strings.TrimSpace(model.Deref(m.CatalogNumber)) != "" {
				continue
			}
			report.Materials = append(report.Materials, model.MaterialGap{
				Index:        i,
				Field:        FieldCatalogNumber,
				MaterialName: nameOr(m.Name),
				Status:       StatusMissing,
			})
		}
		for i, e := range data.Equipment {
			config := model.Deref(e.Configuration)
			if config != "" && config != "None" {
				continue
			}
			report.Equipment = append(report.Equipment, model.EquipmentGap{
				Index:         i,
				Field:         FieldConfiguration,
				EquipmentName: nameOr(e.Name),
				Status:        StatusInvalid,
			})
		}
	}

	if ds != nil {
		for ti := range ds.Tables {
			report.TableCells = append(report.TableCells, a.tableGaps(ti, &ds.Tables[ti])...)
		}
	}

	report.Finalize()
	return report
}

func (a *Aggregator) tableGaps(ti int, t *model.Table) []model.CellGap {
	id := t.ID
	if id == "" {
		id = model.TableID(ti)
	}
	label := t.Name
	if label == "" {
		label = t.ID
	}
	if label == "" {
		label = model.DefaultTableName(ti)
	}

	var out []model.CellGap
	for r, row := range t.Rows {
		for c, cell := range row.Cells {
			text := strings.TrimSpace(cell.Text)
			res := a.classifier.Classify(text)
			if !res.HasGap {
				continue
			}

			field := t.Header(c)
			issue := res.Label.String()

			var desc string
			if r == 0 && len(t.ColumnHeaders) > 0 {
				desc = fmt.Sprintf("%s - Field: %s - %s", label, field, issue)
			} else {
				desc = fmt.Sprintf("%s - Row %d, Field: %s - %s", label, r+1, field, issue)
			}
			if text == "" {
				text = emptyText
			}

			out = append(out, model.CellGap{
				TableID:     id,
				TableName:   label,
				FieldName:   field,
				Row:         r,
				Col:         c,
				Text:        text,
				Issue:       issue,
				Status:      res.Label.Status(),
				Description: desc,
			})
		}
	}
	return out
}

func nameOr(p *string) string {
	if p == nil || *p == "" {
		return unknownName
	}
	return *p
}
