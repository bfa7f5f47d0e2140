package tables

import (
	"github.com/tsawler/docreview/logging"
	"github.com/tsawler/docreview/model"
	"github.com/tsawler/docreview/vocab"
)

// Window sizes, counted in body elements before the table. Tables inside a
// window are skipped but still consume a slot.
const (
	TitleWindow = 10
	RetryWindow = 15
)

// ContextItem is one body element preceding a table.
type ContextItem struct {
	IsTable bool
	Text    string
}

// Input is everything the resolver may consult for one table.
type Input struct {
	// Index is the table's position among the document's tables.
	Index int

	// Rows holds the trimmed cell text of each row.
	Rows [][]string

	// Context lists the preceding body elements, nearest first. Callers
	// pass at least RetryWindow elements when available.
	Context []ContextItem

	// Preserved is the confirmed identity for this table, if any.
	Preserved *model.PreservedTable
}

// Resolution is the resolved identity of one table.
type Resolution struct {
	ID            string
	Name          string
	ColumnHeaders []string
	TitleRow      bool
	Source        model.NameSource
	Preserved     bool
	FromParagraph bool

	// Rejected holds a derived name that failed final validation.
	Rejected string

	// Fired lists the rules that applied, in order.
	Fired []string
}

// State is the working state rules read and update.
type State struct {
	Input Input
	Match *Matcher

	ID                string
	Name              string
	NameFromParagraph bool
	Source            model.NameSource
	Preserved         bool
	TitleRow          bool
	ColumnHeaders     []string
	HeadersResolved   bool
	Rejected          string

	Log logging.Logger
}

// Row returns the cell texts of row r, or nil.
func (s *State) Row(r int) []string {
	if r < 0 || r >= len(s.Input.Rows) {
		return nil
	}
	return s.Input.Rows[r]
}

// SetName records a name and where it came from.
func (s *State) SetName(name string, source model.NameSource) {
	s.Name = name
	s.Source = source
	s.NameFromParagraph = source == model.SourceParagraph || source == model.SourceFallbackParagraph
}

// SetHeaders records the header texts, replacing empty entries with
// column placeholders.
func (s *State) SetHeaders(texts []string) {
	headers := make([]string, len(texts))
	for i, t := range texts {
		if t == "" {
			t = model.ColumnLabel(i)
		}
		headers[i] = t
	}
	s.ColumnHeaders = headers
	s.HeadersResolved = true
}

// Resolver determines table identity by evaluating rules in order.
// It is safe for concurrent use.
type Resolver struct {
	rules  []Rule
	match  *Matcher
	logger logging.Logger
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithRules replaces the rule list.
func WithRules(rules ...Rule) Option {
	return func(r *Resolver) {
		r.rules = append([]Rule(nil), rules...)
	}
}

// WithVocabulary sets the keyword lists the default matcher uses.
func WithVocabulary(v vocab.Tables) Option {
	return func(r *Resolver) {
		r.match = NewMatcher(v)
	}
}

// WithLogger sets the logger that receives rule traces.
func WithLogger(l logging.Logger) Option {
	return func(r *Resolver) {
		r.logger = logging.OrNop(l)
	}
}

// NewResolver creates a Resolver with the default rules and vocabulary.
func NewResolver(opts ...Option) *Resolver {
	r := &Resolver{
		rules:  DefaultRules(),
		match:  NewMatcher(vocab.Default().Tables),
		logger: logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rules returns a copy of the rule list.
func (r *Resolver) Rules() []Rule {
	return append([]Rule(nil), r.rules...)
}

// Resolve runs the rules for one table. It never fails: when nothing
// matches, the table is named "Table N" and headers are placeholders.
func (r *Resolver) Resolve(in Input) Resolution {
	log := r.logger.With(logging.Int("table", in.Index))
	s := &State{Input: in, Match: r.match, Log: log}

	var fired []string
	for _, rule := range r.rules {
		if rule.When != nil && !rule.When(s) {
			continue
		}
		rule.Apply(s)
		fired = append(fired, rule.Name)
		log.Debug("table rule applied",
			logging.String("rule", rule.Name),
			logging.String("name", s.Name),
			logging.Bool("title_row", s.TitleRow))
	}

	finish(s)

	return Resolution{
		ID:            s.ID,
		Name:          s.Name,
		ColumnHeaders: s.ColumnHeaders,
		TitleRow:      s.TitleRow,
		Source:        s.Source,
		Preserved:     s.Preserved,
		FromParagraph: s.NameFromParagraph,
		Rejected:      s.Rejected,
		Fired:         fired,
	}
}

// finish guarantees the invariants regardless of which rules ran: an id,
// a name, and one header per column.
func finish(s *State) {
	if s.ID == "" {
		s.ID = model.TableID(s.Input.Index)
	}
	if s.Name == "" {
		s.SetName(model.DefaultTableName(s.Input.Index), model.SourceDefault)
	}

	cols := 0
	for _, row := range s.Input.Rows {
		if len(row) > cols {
			cols = len(row)
		}
	}
	headers := append([]string(nil), s.ColumnHeaders...)
	for i := range headers {
		if headers[i] == "" && !s.Preserved {
			headers[i] = model.ColumnLabel(i)
		}
	}
	for len(headers) < cols {
		headers = append(headers, model.ColumnLabel(len(headers)))
	}
	if headers == nil {
		headers = []string{}
	}
	s.ColumnHeaders = headers
}
