// Package docreview reviews DOCX documents for missing information and
// writes reviewer edits back into them.
//
// A review recovers the logical structure of a document (which table is
// which, with its real name and column headers), extracts material,
// equipment and method records from the paragraphs and reports every gap
// it finds:
//
//	review, err := docreview.Open("batch-record.docx").Review()
//	if err != nil {
//	    // handle error
//	}
//	fmt.Println(review.Gaps.TotalGaps)
//
// Edits come back as an edited [model.DocumentStructure]. Apply merges them
// into the file, re-reads it with the table identities the reviewer
// confirmed, and returns a fresh review:
//
//	result, err := docreview.Open("batch-record.docx").Apply(edited)
//
// For long-running processes, [NewEngine] builds the pipeline once and
// serves any number of documents.
package docreview

// Must is a helper that wraps a call to a function returning (T, error)
// and panics if the error is non-nil. It is intended for use in scripts
// or tests where error handling would be cumbersome.
//
// Example:
//
//	text := docreview.Must(docreview.Open("report.docx").TextContent())
func Must[T any](val T, err error) T {
	if err != nil {
		panic(err)
	}
	return val
}
