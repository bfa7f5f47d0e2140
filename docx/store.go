package docx

import "github.com/tsawler/docreview/roundtrip"

// Store opens and creates DOCX files for the round-trip writer.
type Store struct{}

// Open opens path for in-place editing.
func (Store) Open(path string) (roundtrip.Document, error) {
	e, err := OpenEditor(path)
	if err != nil {
		return nil, err
	}
	return e, nil
}

// Create starts a new document that replaces path when saved.
func (Store) Create(path string) (roundtrip.Builder, error) {
	return NewBuilder(path), nil
}
