// Package format tells reviewable documents apart from everything else a
// caller might hand the engine.
//
// Only DOCX is reviewable. The other formats are recognized so that the
// error can say what the file actually is.
package format

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnsupported is returned for files that are not DOCX documents.
var ErrUnsupported = errors.New("unsupported document format")

// Format represents a document format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// PDF indicates a PDF document.
	PDF
	// ODT indicates an OpenDocument Text (.odt) document.
	ODT
	// XLSX indicates a Microsoft Excel (.xlsx) workbook.
	XLSX
	// PPTX indicates a Microsoft PowerPoint (.pptx) presentation.
	PPTX
	// DOC indicates a legacy binary Word (.doc) document.
	DOC
)

// String returns the string representation of the format.
func (f Format) String() string {
	switch f {
	case DOCX:
		return "DOCX"
	case PDF:
		return "PDF"
	case ODT:
		return "ODT"
	case XLSX:
		return "XLSX"
	case PPTX:
		return "PPTX"
	case DOC:
		return "DOC"
	default:
		return "Unknown"
	}
}

// Reviewable reports whether documents of format f can be reviewed.
func (f Format) Reviewable() bool { return f == DOCX }

// Detect determines the format from the filename extension.
func Detect(filename string) Format {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".docx", ".docm":
		return DOCX
	case ".pdf":
		return PDF
	case ".odt":
		return ODT
	case ".xlsx":
		return XLSX
	case ".pptx":
		return PPTX
	case ".doc":
		return DOC
	default:
		return Unknown
	}
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	// Compound File Binary header used by legacy Office formats.
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectFromReader inspects the content to determine the format. ZIP
// archives are opened to tell the OOXML and OpenDocument formats apart.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, pdfMagic):
		return PDF, nil
	case bytes.HasPrefix(magic, cfbMagic):
		return DOC, nil
	case bytes.HasPrefix(magic, zipMagic):
		return detectZIPFormat(r, size)
	}
	return Unknown, nil
}

// detectZIPFormat inspects a ZIP archive's entry names.
func detectZIPFormat(r io.ReaderAt, size int64) (Format, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown, err
	}

	for _, f := range zr.File {
		if f.Name != "mimetype" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			break
		}
		data := make([]byte, 256)
		n, _ := io.ReadFull(rc, data)
		rc.Close()
		if strings.Contains(string(data[:n]), "application/vnd.oasis.opendocument.text") {
			return ODT, nil
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX, nil
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX, nil
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX, nil
		}
	}
	return Unknown, nil
}

// DetectFile detects the format of the file at path from its content,
// falling back to the extension when the content is not recognized.
func DetectFile(path string) (Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return Unknown, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return Unknown, err
	}
	got, err := DetectFromReader(f, info.Size())
	if err != nil || got == Unknown {
		return Detect(path), nil
	}
	return got, nil
}

// Require returns nil when path is a DOCX document and an error wrapping
// ErrUnsupported otherwise. Filesystem errors are returned as they are.
func Require(path string) error {
	got, err := DetectFile(path)
	if err != nil {
		return err
	}
	if !got.Reviewable() {
		return fmt.Errorf("%s: %w: %s", filepath.Base(path), ErrUnsupported, got)
	}
	return nil
}
