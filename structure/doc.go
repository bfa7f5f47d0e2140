// Package structure turns the ordered body of a document into a
// [model.DocumentStructure].
//
// The extractor walks the body once. For every table it collects the body
// elements that precede it, asks the table resolver for the table's
// identity and classifies each cell as the row is built, so the returned
// structure already carries its gap flags.
//
// Extraction never fails on heuristics. A table nothing could name is
// still returned as "Table N" with placeholder column headers.
package structure
