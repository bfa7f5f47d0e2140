package tables

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/vocab"
)

func paragraphs(texts ...string) []ContextItem {
	items := make([]ContextItem, len(texts))
	for i, t := range texts {
		items[i] = ContextItem{Text: t}
	}
	return items
}

func TestHeaderRowNeverNamesTable(t *testing.T) {
	r := NewResolver()
	res := r.Resolve(Input{
		Index: 2,
		Rows: [][]string{
			{"BG_ATN", "Material_CTG #", "Supplier"},
			{"A-1", "C-77", "Acme"},
		},
	})

	assert.False(t, res.TitleRow)
	assert.Equal(t, []string{"BG_ATN", "Material_CTG #", "Supplier"}, res.ColumnHeaders)
	assert.Equal(t, "Table 3", res.Name)
	assert.Equal(t, model.SourceDefault, res.Source)
	assert.Equal(t, "table_2", res.ID)
}

func TestSectionHeadingNamesTable(t *testing.T) {
	r := NewResolver()
	res := r.Resolve(Input{
		Index:   0,
		Rows:    [][]string{{"Instrument", "Setting", "Value"}, {"Incubator", "37C", "OK"}},
		Context: paragraphs("3. Equipment Configuration"),
	})

	assert.Equal(t, "3. Equipment Configuration", res.Name)
	assert.Equal(t, model.SourceParagraph, res.Source)
	assert.Equal(t, []string{"Instrument", "Setting", "Value"}, res.ColumnHeaders)
}

func TestMaterialsHeadingNamesTable(t *testing.T) {
	for _, heading := range []string{"Materials Used", "4. Materials", "Subgroup Analysis"} {
		t.Run(heading, func(t *testing.T) {
			res := NewResolver().Resolve(Input{
				Rows:    [][]string{{"Lot", "Qty"}, {"1", "2"}},
				Context: paragraphs(heading),
			})
			assert.Equal(t, heading, res.Name)
			assert.Equal(t, model.SourceParagraph, res.Source)
		})
	}
}

func TestParagraphSearch(t *testing.T) {
	rows := [][]string{{"Step", "Result"}, {"1", "pass"}}

	tests := []struct {
		name    string
		context []ContextItem
		want    string
		source  model.NameSource
	}{
		{
			name:    "nearest keyword paragraph wins",
			context: paragraphs("Verification Activities", "Materials Used"),
			want:    "Verification Activities",
			source:  model.SourceParagraph,
		},
		{
			name:    "header-shaped paragraph skipped",
			context: paragraphs("BG_ATTN", "Equipment Summary"),
			want:    "Equipment Summary",
			source:  model.SourceParagraph,
		},
		{
			name:    "sentence ending in full stop skipped",
			context: paragraphs("The results are listed below.", "Calibration Log"),
			want:    "Calibration Log",
			source:  model.SourceParagraph,
		},
		{
			name:    "short multi-word line accepted",
			context: paragraphs("Sterile Handling"),
			want:    "Sterile Handling",
			source:  model.SourceParagraph,
		},
		{
			name:    "single long word accepted",
			context: paragraphs("Sterilization"),
			want:    "Sterilization",
			source:  model.SourceParagraph,
		},
		{
			name:    "single short word rejected",
			context: paragraphs("Notes"),
			want:    "Table 1",
			source:  model.SourceDefault,
		},
		{
			name:    "tables in window are skipped",
			context: []ContextItem{{IsTable: true}, {Text: "Equipment Summary"}},
			want:    "Equipment Summary",
			source:  model.SourceParagraph,
		},
		{
			name: "paragraph beyond window ignored",
			context: append(
				[]ContextItem{{IsTable: true}, {IsTable: true}, {IsTable: true}, {IsTable: true}, {IsTable: true},
					{IsTable: true}, {IsTable: true}, {IsTable: true}, {IsTable: true}, {IsTable: true}},
				ContextItem{Text: "Equipment Summary"},
			),
			want:   "Table 1",
			source: model.SourceDefault,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := NewResolver().Resolve(Input{Rows: rows, Context: tt.context})
			assert.Equal(t, tt.want, res.Name)
			assert.Equal(t, tt.source, res.Source)
		})
	}
}

func TestTitleRowDetection(t *testing.T) {
	t.Run("single spanning cell", func(t *testing.T) {
		res := NewResolver().Resolve(Input{
			Rows: [][]string{
				{"Summary of Calibration Results For Unit"},
				{"Parameter", "Value"},
				{"Temp", "37"},
			},
		})
		assert.True(t, res.TitleRow)
		assert.Equal(t, "Summary of Calibration Results For Unit", res.Name)
		assert.Equal(t, model.SourceTitleRow, res.Source)
		assert.Equal(t, []string{"Parameter", "Value"}, res.ColumnHeaders)
	})

	t.Run("identical repeated cells", func(t *testing.T) {
		title := "Summary of Calibration Results For Unit"
		res := NewResolver().Resolve(Input{
			Rows: [][]string{{title, title}, {"Parameter", "Value"}},
		})
		assert.True(t, res.TitleRow)
		assert.Equal(t, title, res.Name)
	})

	t.Run("header patterns block title row", func(t *testing.T) {
		res := NewResolver().Resolve(Input{
			Rows: [][]string{{"Material_CTG reference for every lot"}, {"A", "B"}},
		})
		assert.False(t, res.TitleRow)
		assert.Equal(t, "Table 1", res.Name)
		assert.Equal(t, []string{"Material_CTG reference for every lot", "Column 2"}, res.ColumnHeaders)
	})

	t.Run("paragraph name suppresses title row", func(t *testing.T) {
		res := NewResolver().Resolve(Input{
			Rows:    [][]string{{"Summary of Calibration Results For Unit"}, {"Parameter", "Value"}},
			Context: paragraphs("Equipment Summary"),
		})
		assert.False(t, res.TitleRow)
		assert.Equal(t, "Equipment Summary", res.Name)
		assert.Equal(t, []string{"Summary of Calibration Results For Unit", "Column 2"}, res.ColumnHeaders)
	})

	t.Run("title row without second row", func(t *testing.T) {
		res := NewResolver().Resolve(Input{
			Rows: [][]string{{"Summary of Calibration Results For Unit"}},
		})
		assert.True(t, res.TitleRow)
		assert.Equal(t, []string{"Column 1"}, res.ColumnHeaders)
	})
}

func TestHeaderPlaceholdersAndPadding(t *testing.T) {
	res := NewResolver().Resolve(Input{
		Rows: [][]string{
			{"Lot", ""},
			{"L-1", "x", "extra"},
		},
	})
	assert.Equal(t, []string{"Lot", "Column 2", "Column 3"}, res.ColumnHeaders)
}

func TestEmptyTable(t *testing.T) {
	res := NewResolver().Resolve(Input{Index: 4})
	assert.Equal(t, "Table 5", res.Name)
	assert.Equal(t, "table_4", res.ID)
	assert.NotNil(t, res.ColumnHeaders)
	assert.Empty(t, res.ColumnHeaders)
}

func TestPreservedShortCircuit(t *testing.T) {
	preserved := &model.PreservedTable{
		Name:          "BG_ATN",
		ID:            "equipment_table",
		ColumnHeaders: []string{"Equipment", "Configuration"},
	}
	res := NewResolver().Resolve(Input{
		Index:     1,
		Rows:      [][]string{{"BG_ATN", "CFG"}, {"Incubator", "None"}},
		Context:   paragraphs("Materials Used"),
		Preserved: preserved,
	})

	// Preserved data is trusted verbatim, even when header-shaped.
	assert.True(t, res.Preserved)
	assert.Equal(t, "BG_ATN", res.Name)
	assert.Equal(t, "equipment_table", res.ID)
	assert.Equal(t, []string{"Equipment", "Configuration"}, res.ColumnHeaders)
	assert.Equal(t, model.SourcePreserved, res.Source)
	assert.NotContains(t, res.Fired, RuleParagraphTitle)
	assert.NotContains(t, res.Fired, RuleValidateName)
}

func TestPreservedWithoutHeadersDerivesHeaders(t *testing.T) {
	res := NewResolver().Resolve(Input{
		Rows:      [][]string{{"Lot", "Qty"}, {"1", "2"}},
		Preserved: &model.PreservedTable{Name: "Materials Used"},
	})
	assert.Equal(t, "Materials Used", res.Name)
	assert.Equal(t, []string{"Lot", "Qty"}, res.ColumnHeaders)
	assert.Equal(t, "table_0", res.ID)
}

func TestPreservedWithoutNameDerivesName(t *testing.T) {
	res := NewResolver().Resolve(Input{
		Rows:      [][]string{{"Lot", "Qty"}},
		Context:   paragraphs("Materials Used"),
		Preserved: &model.PreservedTable{ID: "mat"},
	})
	assert.False(t, res.Preserved)
	assert.Equal(t, "Materials Used", res.Name)
	assert.Equal(t, "mat", res.ID)
}

func TestPreservedTitleRow(t *testing.T) {
	title := "Summary of Calibration Runs For Unit A"
	rows := [][]string{{title, title, title}, {"Run", "Temp", "Result"}, {"1", "37", "Pass"}}

	res := NewResolver().Resolve(Input{
		Rows:      rows,
		Preserved: &model.PreservedTable{Name: title, TitleRow: true},
	})
	assert.True(t, res.TitleRow)
	assert.Equal(t, title, res.Name)
	assert.Equal(t, []string{"Run", "Temp", "Result"}, res.ColumnHeaders)

	// Preserved headers are adopted while row 0 stays the title.
	res = NewResolver().Resolve(Input{
		Rows:      rows,
		Preserved: &model.PreservedTable{Name: title, ColumnHeaders: []string{"Run", "Temperature", "Result"}, TitleRow: true},
	})
	assert.True(t, res.TitleRow)
	assert.Equal(t, []string{"Run", "Temperature", "Result"}, res.ColumnHeaders)
}

func TestIdempotentUnderPreservation(t *testing.T) {
	inputs := []Input{
		{Rows: [][]string{{"BG_ATN", "Material_CTG #"}, {"x", ""}}},
		{Rows: [][]string{{"Summary of Calibration Results For Unit"}, {"A", ""}}},
		{Rows: [][]string{{"Step", "Result"}}, Context: paragraphs("3. Equipment Configuration")},
		{Rows: [][]string{{"a", "b", "c"}, {"1"}}},
	}
	r := NewResolver()
	for i, in := range inputs {
		in.Index = i
		first := r.Resolve(in)

		in.Preserved = &model.PreservedTable{Name: first.Name, ID: first.ID, ColumnHeaders: first.ColumnHeaders, TitleRow: first.TitleRow}
		second := r.Resolve(in)

		assert.Equal(t, first.Name, second.Name, "input %d", i)
		assert.Equal(t, first.ColumnHeaders, second.ColumnHeaders, "input %d", i)
		assert.Equal(t, first.ID, second.ID, "input %d", i)
		assert.Equal(t, first.TitleRow, second.TitleRow, "input %d", i)
	}
}

func TestNeverHeaderAsName(t *testing.T) {
	headerTexts := []string{
		"BG_ATN", "bg_attn", "BG ATTN", "bg atn", "Material_CTG", "Material_CTG #",
		"material ctg", "MATERIAL CTG #", "material_ctg#", "Lot_ID", "Ref #", "QTY_#",
	}
	known := vocab.Default().Tables.KnownHeaders

	r := NewResolver()
	for _, h := range headerTexts {
		candidates := []Input{
			{Rows: [][]string{{h}, {"a"}}},
			{Rows: [][]string{{h, h}, {"a", "b"}}},
			{Rows: [][]string{{"x"}}, Context: paragraphs(h)},
			{Rows: [][]string{{h + " and more words here"}}},
			{Rows: [][]string{{"x"}}, Context: paragraphs(h, "Equipment")},
		}
		for _, in := range candidates {
			res := r.Resolve(in)
			lower := strings.ToLower(res.Name)
			for _, k := range known {
				assert.NotEqual(t, k, lower, "header %q produced name %q", h, res.Name)
			}
			if len([]rune(res.Name)) < 25 {
				assert.NotContains(t, res.Name, "_", "header %q", h)
				assert.NotContains(t, res.Name, "#", "header %q", h)
			}
		}
	}
}

func TestValidateNameRetriesFurtherBack(t *testing.T) {
	forced := Rule{
		Name:  "forced",
		When:  func(s *State) bool { return s.Name == "" },
		Apply: func(s *State) { s.SetName("CTG", model.SourceTitleRow) },
	}

	context := []ContextItem{{Text: "Notes"}}
	for i := 0; i < 11; i++ {
		context = append(context, ContextItem{IsTable: true})
	}
	context = append(context, ContextItem{Text: "Equipment Verification Log"})

	core, logs := observer.New(zapcore.InfoLevel)
	r := NewResolver(
		WithRules(PreservedRule(), forced, HeadersRule(), ValidateNameRule(), DefaultNameRule()),
		WithLogger(logging.NewLoggerFromCore(core)),
	)
	res := r.Resolve(Input{Rows: [][]string{{"a", "b"}}, Context: context})

	assert.Equal(t, "CTG", res.Rejected)
	assert.Equal(t, "Equipment Verification Log", res.Name)
	assert.Equal(t, model.SourceFallbackParagraph, res.Source)
	require.Equal(t, 1, logs.FilterMessage("rejected header-shaped table name").Len())
}

func TestValidateNameNoRetryForParagraphNames(t *testing.T) {
	forced := Rule{
		Name:  "forced",
		Apply: func(s *State) { s.SetName("x_y", model.SourceParagraph) },
	}
	r := NewResolver(WithRules(forced, ValidateNameRule(), DefaultNameRule()))
	res := r.Resolve(Input{Index: 0, Context: paragraphs("Equipment Verification Log")})

	assert.Equal(t, "x_y", res.Rejected)
	assert.Equal(t, "Table 1", res.Name)
}

func TestCustomVocabulary(t *testing.T) {
	// Too long for the length fallback; only a keyword can accept it.
	title := "Freezer inventory of all reagent lots received during the third quarter"
	in := Input{Rows: [][]string{{"Lot", "Qty"}}, Context: paragraphs(title)}

	assert.Equal(t, "Table 1", NewResolver().Resolve(in).Name)

	v := vocab.Default().Tables
	v.TitleKeywords = []string{"inventory"}
	assert.Equal(t, title, NewResolver(WithVocabulary(v)).Resolve(in).Name)
}

func TestDefaultRuleOrder(t *testing.T) {
	var names []string
	for _, rule := range NewResolver().Rules() {
		names = append(names, rule.Name)
	}
	assert.Equal(t, []string{
		RulePreserved, RuleParagraphTitle, RuleTitleRow, RuleHeaders, RuleValidateName, RuleDefaultName,
	}, names)
}

func TestResolveDeterministic(t *testing.T) {
	in := Input{
		Rows:    [][]string{{"Summary of Calibration Results For Unit"}, {"A", "B"}},
		Context: paragraphs("Lot_Ref", "The table follows."),
	}
	r := NewResolver()
	first := r.Resolve(in)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, r.Resolve(in))
	}
}
