// Package docx reads, edits and creates DOCX (Office Open XML) documents.
//
// The main document part is held as a token tree that keeps every element,
// attribute and namespace prefix as written, so the same parse serves three
// uses:
//
//   - [Reader] yields the body as ordered paragraph and table blocks
//   - [Editor] replaces paragraph and cell text in place, leaving all other
//     markup and package parts untouched
//   - [Builder] assembles a new document from paragraphs and tables
//
// Saves are written to a temporary file in the target directory and renamed
// over the original once complete.
package docx
