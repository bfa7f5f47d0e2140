// Package tables resolves the identity of document tables: their display
// name, whether the first row is a spanning title, and their column headers.
//
// Word-processing documents carry no reliable table metadata. Titles live in
// nearby paragraphs or in a spanning first row, and column identifiers such as
// "BG_ATN" or "Material_CTG #" look superficially like short titles. No single
// signal is reliable, so resolution is a priority-ordered list of weak
// heuristics with one hard constraint checked last: a header-shaped string is
// never used as a name.
//
// # Rules
//
// Resolution is performed by an ordered list of [Rule] values, each a named
// predicate/action pair evaluated top to bottom over a shared [State]:
//
//  1. preserved - adopt a name, id and headers the reviewer confirmed
//  2. paragraph-title - take the title from a nearby preceding paragraph
//  3. title-row - detect a spanning title in the first row
//  4. headers - choose the header row and fill placeholders
//  5. validate-name - reject header-shaped names and search further back
//  6. default-name - fall back to "Table N"
//
// The list is returned by [DefaultRules] and can be replaced or reordered:
//
//	r := tables.NewResolver(tables.WithRules(custom...))
//	res := r.Resolve(input)
//
// # Vocabulary
//
// Every keyword the rules match on comes from [vocab.Tables] through a
// [Matcher], so deployments can tune the lists to other template families.
//
// # Preserved Metadata
//
// When an [Input] carries preserved metadata with a non-empty name, the name
// is adopted verbatim and neither derived nor validated. This breaks the
// feedback loop in which an edit, re-extracted, would re-derive a different
// name than the one the reviewer confirmed. A preserved title row flag keeps
// row 0 as the title and takes headers from row 1.
package tables
