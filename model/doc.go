// Package model provides the intermediate representation for reviewed
// documents.
//
// This package defines the user-facing data structures produced by the
// review engine. They are JSON-serializable with the snake_case field names
// the review front end consumes, and every other package in the module
// produces or consumes them.
//
// # Document Structure
//
// A [DocumentStructure] holds the non-empty body paragraphs and the tables
// of a document in body order. Each [Paragraph] and [Table] records its
// Position in the combined body sequence, so the paragraph immediately
// preceding a table can always be recovered from the structure alone.
//
// The container view that feeds extraction is a flat list of [Block]
// values, one per body paragraph or table.
//
// # Tables
//
// A [Table] carries its resolved identity (ID, Name, ColumnHeaders) and its
// [Row] values. Row 0 is either the header row or, when TitleRow is set, a
// spanning title and row 1 holds the headers. Every [Cell] carries gap flags
// computed from its text when the structure was built.
//
// Export methods ToMarkdown() and ToCSV() render a table's header and data
// rows.
//
// # Preserved Metadata
//
// [PreservedTableMetadata] maps a table index to the name, id and headers a
// reviewer confirmed. It travels with an edit request and overrides the
// derived identity on the next extraction:
//
//	preserved := model.CapturePreserved(edited)
//
// Malformed preserved metadata never fails a request; unreadable entries are
// dropped (see [DecodePreserved]).
//
// # Review Output
//
// [StructuredData] holds the materials, equipment and methods extracted from
// paragraph text and [GapReport] the consolidated gap list. Call
// [GapReport.Finalize] after the lists are complete; it recomputes the
// totals from the lists.
package model
