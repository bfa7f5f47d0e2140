package model

// Material is a material record extracted from paragraph text. Absent
// fields are nil and serialize as null; their absence is a gap signal.
type Material struct {
	Name          *string `json:"name"`
	CatalogNumber *string `json:"catalog_number"`
	Supplier      *string `json:"supplier"`
	LotNumber     *string `json:"lot_number"`
}

// Equipment is an equipment record extracted from paragraph text.
type Equipment struct {
	Name          *string `json:"name"`
	Configuration *string `json:"configuration"`
	ModelNumber   *string `json:"model_number"`
	SerialNumber  *string `json:"serial_number"`
}

// StructuredData holds the entities extracted from a document. It is
// recomputed on every extraction pass and never mutated in place.
type StructuredData struct {
	Materials []Material  `json:"materials"`
	Equipment []Equipment `json:"equipment"`
	Methods   []string    `json:"methods"`
	Metadata  Metadata    `json:"metadata"`
}

// MaterialGap reports a material without a catalog number.
type MaterialGap struct {
	Index        int    `json:"index"`
	Field        string `json:"field"`
	MaterialName string `json:"material_name"`
	Status       string `json:"status"`
}

// EquipmentGap reports equipment with a missing or invalid configuration.
type EquipmentGap struct {
	Index         int    `json:"index"`
	Field         string `json:"field"`
	EquipmentName string `json:"equipment_name"`
	Status        string `json:"status"`
}

// CellGap reports one table cell judged incomplete.
type CellGap struct {
	TableID     string `json:"table_id"`
	TableName   string `json:"table_name"`
	FieldName   string `json:"field_name"`
	Row         int    `json:"row"`
	Col         int    `json:"col"`
	Text        string `json:"text"`
	Issue       string `json:"issue"`
	Status      string `json:"status"`
	Description string `json:"description"`
}

// GapCounts summarizes a GapReport.
type GapCounts struct {
	Materials  int            `json:"materials"`
	Equipment  int            `json:"equipment"`
	TableCells int            `json:"table_cells"`
	ByStatus   map[string]int `json:"by_status"`
}

// GapReport is the consolidated gap list for a document.
type GapReport struct {
	Materials  []MaterialGap  `json:"materials"`
	Equipment  []EquipmentGap `json:"equipment"`
	TableCells []CellGap      `json:"table_cells"`
	Counts     GapCounts      `json:"counts"`
	TotalGaps  int            `json:"total_gaps"`
}

// NewGapReport returns an empty report whose lists serialize as [].
func NewGapReport() *GapReport {
	return &GapReport{
		Materials:  []MaterialGap{},
		Equipment:  []EquipmentGap{},
		TableCells: []CellGap{},
		Counts:     GapCounts{ByStatus: map[string]int{}},
	}
}

// Finalize recomputes Counts and TotalGaps from the lists. It must be the
// last step of building a report; nothing maintains the totals
// incrementally.
func (g *GapReport) Finalize() {
	byStatus := make(map[string]int)
	for _, m := range g.Materials {
		byStatus[m.Status]++
	}
	for _, e := range g.Equipment {
		byStatus[e.Status]++
	}
	for _, c := range g.TableCells {
		byStatus[c.Status]++
	}
	g.Counts = GapCounts{
		Materials:  len(g.Materials),
		Equipment:  len(g.Equipment),
		TableCells: len(g.TableCells),
		ByStatus:   byStatus,
	}
	g.TotalGaps = len(g.Materials) + len(g.Equipment) + len(g.TableCells)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string { return &s }

// Deref returns *p, or "" when p is nil.
func Deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
