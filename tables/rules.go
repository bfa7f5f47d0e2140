package tables

import (
	"github.com/tsawler/docreview/internal/textutil"
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
)

// Rule is a named predicate/action pair. When may be nil, in which case
// Apply always runs.
type Rule struct {
	Name  string
	When  func(*State) bool
	Apply func(*State)
}

// Rule names of the default list.
const (
	RulePreserved      = "preserved"
	RuleParagraphTitle = "paragraph-title"
	RuleTitleRow       = "title-row"
	RuleHeaders        = "headers"
	RuleValidateName   = "validate-name"
	RuleDefaultName    = "default-name"
)

// DefaultRules returns the resolution rules in priority order.
func DefaultRules() []Rule {
	return []Rule{
		PreservedRule(),
		ParagraphTitleRule(),
		TitleRowRule(),
		HeadersRule(),
		ValidateNameRule(),
		DefaultNameRule(),
	}
}

// PreservedRule adopts confirmed metadata verbatim. A non-empty preserved
// name suppresses every later naming rule; preserved headers suppress
// header derivation. A preserved title row keeps row 0 out of the headers.
func PreservedRule() Rule {
	return Rule{
		Name: RulePreserved,
		When: func(s *State) bool {
			return s.Input.Preserved != nil && !s.Input.Preserved.IsZero()
		},
		Apply: func(s *State) {
			p := s.Input.Preserved
			if p.ID != "" {
				s.ID = p.ID
			}
			if p.TitleRow {
				s.TitleRow = true
			}
			if p.Name != "" {
				s.SetName(p.Name, model.SourcePreserved)
				s.Preserved = true
			}
			if len(p.ColumnHeaders) > 0 {
				s.ColumnHeaders = append([]string(nil), p.ColumnHeaders...)
				s.HeadersResolved = true
			}
		},
	}
}

// ParagraphTitleRule takes the nearest acceptable paragraph within
// TitleWindow elements before the table.
func ParagraphTitleRule() Rule {
	return Rule{
		Name: RuleParagraphTitle,
		When: func(s *State) bool { return s.Name == "" && !s.Preserved },
		Apply: func(s *State) {
			for i, item := range s.Input.Context {
				if i >= TitleWindow {
					break
				}
				if item.IsTable {
					continue
				}
				if s.Match.ParagraphTitle(item.Text) {
					s.SetName(item.Text, model.SourceParagraph)
					return
				}
			}
		},
	}
}

// TitleRowRule detects a first row that is a spanning title rather than
// headers: a single cell over 20 runes, or identical cells over 25 runes,
// free of header patterns.
func TitleRowRule() Rule {
	return Rule{
		Name: RuleTitleRow,
		When: func(s *State) bool {
			row := s.Row(0)
			return s.Name == "" && !s.Preserved && len(row) > 0 && !s.Match.RowHasHeaderPatterns(row)
		},
		Apply: func(s *State) {
			row := s.Row(0)
			if s.Match.RowLooksLikeHeaders(row) {
				return
			}
			text := row[0]
			switch {
			case len(row) == 1:
				if textutil.Len(text) <= 20 {
					return
				}
			case allEqual(row):
				if textutil.Len(text) <= 25 {
					return
				}
			default:
				return
			}
			if s.Match.TextHasHeaderPatterns(text) {
				return
			}
			s.SetName(text, model.SourceTitleRow)
			s.TitleRow = true
		},
	}
}

// HeadersRule chooses the header row. A title row yields row 1. Otherwise
// row 0 is used, except that a lone long cell without header patterns
// becomes the name when nothing else named the table.
func HeadersRule() Rule {
	return Rule{
		Name: RuleHeaders,
		When: func(s *State) bool { return !s.HeadersResolved },
		Apply: func(s *State) {
			first := s.Row(0)
			if first == nil {
				s.SetHeaders(nil)
				return
			}

			if s.TitleRow {
				// A title row with nothing beneath it leaves only
				// placeholders.
				s.SetHeaders(s.Row(1))
				return
			}

			if s.Match.RowDefinitelyHeaders(first) || s.Name != "" {
				s.SetHeaders(first)
				return
			}

			if len(first) == 1 && textutil.Len(first[0]) > 20 && !s.Match.TextHasHeaderPatterns(first[0]) {
				s.SetName(first[0], model.SourceTitleRow)
				s.TitleRow = true
				s.SetHeaders(s.Row(1))
				return
			}
			s.SetHeaders(first)
		},
	}
}

// ValidateNameRule rejects a derived name that looks like a column
// identifier. If the rejected name did not come from a paragraph, it
// searches RetryWindow elements back with the narrower keyword set.
// Preserved names are trusted and skipped.
func ValidateNameRule() Rule {
	return Rule{
		Name: RuleValidateName,
		When: func(s *State) bool { return s.Name != "" && !s.Preserved },
		Apply: func(s *State) {
			if !s.Match.NameLooksLikeHeader(s.Name, s.NameFromParagraph) {
				return
			}
			rejected, fromParagraph := s.Name, s.NameFromParagraph
			s.Rejected = rejected
			s.Name, s.Source, s.NameFromParagraph = "", "", false
			logging.OrNop(s.Log).Info("rejected header-shaped table name", logging.String("name", rejected))

			if fromParagraph {
				return
			}
			for i, item := range s.Input.Context {
				if i >= RetryWindow {
					break
				}
				if item.IsTable {
					continue
				}
				if s.Match.RetryTitle(item.Text) {
					s.SetName(item.Text, model.SourceFallbackParagraph)
					return
				}
			}
		},
	}
}

// DefaultNameRule names the table "Table N".
func DefaultNameRule() Rule {
	return Rule{
		Name: RuleDefaultName,
		When: func(s *State) bool { return s.Name == "" },
		Apply: func(s *State) {
			s.SetName(model.DefaultTableName(s.Input.Index), model.SourceDefault)
		},
	}
}

func allEqual(row []string) bool {
	for _, t := range row[1:] {
		if t != row[0] {
			return false
		}
	}
	return true
}
