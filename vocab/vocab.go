// Package vocab holds the keyword lists the review heuristics are tuned with.
//
// The lists were tuned against one family of laboratory document templates
// (column identifiers such as "BG_ATN" or "Material_CTG #"). They are data
// rather than code so that deployments reviewing other templates can adjust
// them from configuration without touching the rules that consume them.
//
// All matching is done on folded text (see internal/textutil), so entries
// should be written in lower case.
package vocab

// Vocabulary is the complete set of keyword lists.
type Vocabulary struct {
	Cells    Cells    `mapstructure:"cells" yaml:"cells" json:"cells"`
	Tables   Tables   `mapstructure:"tables" yaml:"tables" json:"tables"`
	Entities Entities `mapstructure:"entities" yaml:"entities" json:"entities"`
	Writer   Writer   `mapstructure:"writer" yaml:"writer" json:"writer"`
}

// Cells drives cell gap classification.
type Cells struct {
	// Pending is matched as a substring anywhere in the cell.
	Pending string `mapstructure:"pending" yaml:"pending" json:"pending"`

	// NullExact is matched against the whole cell.
	NullExact []string `mapstructure:"null_exact" yaml:"null_exact" json:"null_exact"`

	// NullSubstrings mark a cell null wherever they occur.
	NullSubstrings []string `mapstructure:"null_substrings" yaml:"null_substrings" json:"null_substrings"`

	// Missing phrases match exactly or as substrings.
	Missing []string `mapstructure:"missing" yaml:"missing" json:"missing"`

	// NullKeywords additionally flag a cell as missing when embedded in
	// longer text.
	NullKeywords []string `mapstructure:"null_keywords" yaml:"null_keywords" json:"null_keywords"`
}

// Tables drives table identity resolution.
type Tables struct {
	// KnownHeaders are literal column identifiers that must never become
	// a table name.
	KnownHeaders []string `mapstructure:"known_headers" yaml:"known_headers" json:"known_headers"`

	// ParagraphHeaderPatterns reject a preceding paragraph as a title.
	ParagraphHeaderPatterns []string `mapstructure:"paragraph_header_patterns" yaml:"paragraph_header_patterns" json:"paragraph_header_patterns"`

	// TitleKeywords accept a preceding paragraph as a title.
	TitleKeywords []string `mapstructure:"title_keywords" yaml:"title_keywords" json:"title_keywords"`

	// HeaderIndicators mark a first row as looking like column headers.
	HeaderIndicators []string `mapstructure:"header_indicators" yaml:"header_indicators" json:"header_indicators"`

	// DefiniteHeaderIndicators extend HeaderIndicators for the stricter
	// "definitely headers" test.
	DefiniteHeaderIndicators []string `mapstructure:"definite_header_indicators" yaml:"definite_header_indicators" json:"definite_header_indicators"`

	// RowHeaderPatterns disqualify a first row from being a title row.
	RowHeaderPatterns []string `mapstructure:"row_header_patterns" yaml:"row_header_patterns" json:"row_header_patterns"`

	// NamePatterns reject a derived name during final validation.
	NamePatterns []string `mapstructure:"name_patterns" yaml:"name_patterns" json:"name_patterns"`

	// RetryKeywords are used by the wider paragraph search that follows
	// a rejected name.
	RetryKeywords []string `mapstructure:"retry_keywords" yaml:"retry_keywords" json:"retry_keywords"`

	// RetryExclusions reject paragraphs during the wider search.
	RetryExclusions []string `mapstructure:"retry_exclusions" yaml:"retry_exclusions" json:"retry_exclusions"`
}

// Entities drives paragraph entity extraction.
type Entities struct {
	MaterialTriggers  []string `mapstructure:"material_triggers" yaml:"material_triggers" json:"material_triggers"`
	EquipmentTriggers []string `mapstructure:"equipment_triggers" yaml:"equipment_triggers" json:"equipment_triggers"`
	MethodTriggers    []string `mapstructure:"method_triggers" yaml:"method_triggers" json:"method_triggers"`

	// Name suffixes are case sensitive; they end a capitalised phrase.
	MaterialSuffixes  []string `mapstructure:"material_suffixes" yaml:"material_suffixes" json:"material_suffixes"`
	EquipmentSuffixes []string `mapstructure:"equipment_suffixes" yaml:"equipment_suffixes" json:"equipment_suffixes"`
}

// Writer drives the round-trip paragraph protection policy.
type Writer struct {
	SectionKeywords []string `mapstructure:"section_keywords" yaml:"section_keywords" json:"section_keywords"`

	// ReplacementKeywords decide whether proposed text is itself
	// heading-shaped.
	ReplacementKeywords []string `mapstructure:"replacement_keywords" yaml:"replacement_keywords" json:"replacement_keywords"`

	HeaderIdentifiers []string `mapstructure:"header_identifiers" yaml:"header_identifiers" json:"header_identifiers"`
}

// Default returns the vocabulary the heuristics were tuned with.
func Default() Vocabulary {
	return Vocabulary{
		Cells: Cells{
			Pending:        "pending",
			NullExact:      []string{"null", "none", "nil", "n/a", "na", "n.a."},
			NullSubstrings: []string{"null"},
			Missing: []string{
				"missing", "not provided", "not available", "unavailable",
				"tbd", "to be determined", "t.b.d.", "tba", "to be announced",
				"unknown", "unk",
			},
			NullKeywords: []string{"null", "missing", "not provided", "not available", "unavailable"},
		},
		Tables: Tables{
			KnownHeaders: []string{
				"bg_atn", "bg_attn", "bg attn", "bg atn",
				"material_ctg", "material_ctg #", "material ctg", "material ctg #", "material_ctg#",
			},
			ParagraphHeaderPatterns: []string{
				"_", "#", "atn", "attn", "ctg", "bg_", "bg ",
				"material_", "material ", "bg_atn", "bg_attn", "material_ctg",
			},
			TitleKeywords: []string{
				"table", "materials", "equipment", "method", "procedure", "result",
				"data", "summary", "list", "specification", "requirement", "verification",
				"activities", "configuration", "test", "analysis", "activity",
			},
			HeaderIndicators: []string{
				"_", "#", "id", "name", "date", "type", "status", "code", "num", "qty", "atn", "ctg",
			},
			DefiniteHeaderIndicators: []string{"bg", "material"},
			RowHeaderPatterns: []string{
				"_", "#", "atn", "attn", "ctg", "bg", "material_", "material ",
			},
			NamePatterns: []string{
				"_", "#", "atn", "attn", "ctg", "bg_", "bg ", "material_ctg",
				"material_", "material ", "bg_atn", "bg attn", "bg_attn",
			},
			RetryKeywords: []string{
				"equipment", "verification", "materials", "configuration",
				"activities", "method", "procedure",
			},
			RetryExclusions: []string{"_", "#", "atn", "attn", "ctg", "bg_"},
		},
		Entities: Entities{
			MaterialTriggers:  []string{"material", "reagent", "buffer", "solution"},
			EquipmentTriggers: []string{"equipment", "instrument", "device", "apparatus"},
			MethodTriggers:    []string{"method", "procedure", "protocol", "process"},
			MaterialSuffixes:  []string{"Solution", "Buffer", "Reagent", "Material"},
			EquipmentSuffixes: []string{"Incubator", "Centrifuge", "Chamber", "Device", "System"},
		},
		Writer: Writer{
			SectionKeywords: []string{
				"equipment configuration", "verification activities", "materials used",
				"equipment", "configuration", "verification", "activities", "materials",
				"table", "section", "subsection",
			},
			ReplacementKeywords: []string{
				"equipment configuration", "verification activities", "materials used",
				"equipment", "configuration", "verification", "activities", "materials",
			},
			HeaderIdentifiers: []string{
				"bg_atn", "bg_attn", "material_ctg", "material_ctg#", "material_ctg #", "material ctg",
			},
		},
	}
}

// WithDefaults returns v with every empty list replaced by its default.
// Configuration files may therefore override a single list.
func (v Vocabulary) WithDefaults() Vocabulary {
	d := Default()

	if v.Cells.Pending == "" {
		v.Cells.Pending = d.Cells.Pending
	}
	fill(&v.Cells.NullExact, d.Cells.NullExact)
	fill(&v.Cells.NullSubstrings, d.Cells.NullSubstrings)
	fill(&v.Cells.Missing, d.Cells.Missing)
	fill(&v.Cells.NullKeywords, d.Cells.NullKeywords)

	fill(&v.Tables.KnownHeaders, d.Tables.KnownHeaders)
	fill(&v.Tables.ParagraphHeaderPatterns, d.Tables.ParagraphHeaderPatterns)
	fill(&v.Tables.TitleKeywords, d.Tables.TitleKeywords)
	fill(&v.Tables.HeaderIndicators, d.Tables.HeaderIndicators)
	fill(&v.Tables.DefiniteHeaderIndicators, d.Tables.DefiniteHeaderIndicators)
	fill(&v.Tables.RowHeaderPatterns, d.Tables.RowHeaderPatterns)
	fill(&v.Tables.NamePatterns, d.Tables.NamePatterns)
	fill(&v.Tables.RetryKeywords, d.Tables.RetryKeywords)
	fill(&v.Tables.RetryExclusions, d.Tables.RetryExclusions)

	fill(&v.Entities.MaterialTriggers, d.Entities.MaterialTriggers)
	fill(&v.Entities.EquipmentTriggers, d.Entities.EquipmentTriggers)
	fill(&v.Entities.MethodTriggers, d.Entities.MethodTriggers)
	fill(&v.Entities.MaterialSuffixes, d.Entities.MaterialSuffixes)
	fill(&v.Entities.EquipmentSuffixes, d.Entities.EquipmentSuffixes)

	fill(&v.Writer.SectionKeywords, d.Writer.SectionKeywords)
	fill(&v.Writer.ReplacementKeywords, d.Writer.ReplacementKeywords)
	fill(&v.Writer.HeaderIdentifiers, d.Writer.HeaderIdentifiers)

	return v
}

func fill(dst *[]string, def []string) {
	if len(*dst) == 0 {
		*dst = append([]string(nil), def...)
	}
}
