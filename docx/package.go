package docx

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotDOCX is returned when a file is not an Office Open XML package.
	ErrNotDOCX = errors.New("not a DOCX document")

	// ErrMissingPart is returned when a required package part is absent.
	ErrMissingPart = errors.New("missing required part")
)

const (
	contentTypesPart = "[Content_Types].xml"
	packageRelsPart  = "_rels/.rels"
	defaultMainPart  = "word/document.xml"
	defaultStyles    = "word/styles.xml"
	corePart         = "docProps/core.xml"
	appPart          = "docProps/app.xml"
)

// container is an opened package held in memory, so it can be rewritten
// over its own path.
type container struct {
	zr       *zip.Reader
	files    map[string]*zip.File
	mainPart string
}

func openContainer(filename string) (*container, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}
	return newContainer(data)
}

func newContainer(data []byte) (*container, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotDOCX, err)
	}

	c := &container{zr: zr, files: make(map[string]*zip.File, len(zr.File))}
	for _, f := range zr.File {
		c.files[f.Name] = f
	}
	if _, ok := c.files[contentTypesPart]; !ok {
		return nil, fmt.Errorf("%w: no %s", ErrNotDOCX, contentTypesPart)
	}

	c.mainPart = defaultMainPart
	var rels relationshipsXML
	if err := c.unmarshal(packageRelsPart, &rels); err == nil {
		if target, ok := rels.target("", "officeDocument"); ok {
			c.mainPart = target
		}
	}
	if _, ok := c.files[c.mainPart]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, c.mainPart)
	}
	return c, nil
}

// read returns the content of a part.
func (c *container) read(name string) ([]byte, error) {
	f, ok := c.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (c *container) unmarshal(name string, v any) error {
	data, err := c.read(name)
	if err != nil {
		return err
	}
	return xml.Unmarshal(data, v)
}

// tree parses a part into a token tree.
func (c *container) tree(name string) (*node, error) {
	f, ok := c.files[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrMissingPart, name)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return parseTree(rc)
}

// stylesPart resolves the styles part of the main document.
func (c *container) stylesPart() string {
	dir := path.Dir(c.mainPart)
	relsName := path.Join(dir, "_rels", path.Base(c.mainPart)+".rels")
	var rels relationshipsXML
	if err := c.unmarshal(relsName, &rels); err == nil {
		if target, ok := rels.target(dir, "styles"); ok {
			return target
		}
	}
	return defaultStyles
}

// styles loads the style index; a missing or unreadable styles part
// yields an empty index.
func (c *container) styles() styleIndex {
	var s stylesXML
	if err := c.unmarshal(c.stylesPart(), &s); err != nil {
		return newStyleIndex(nil)
	}
	return newStyleIndex(&s)
}

// part is one entry of a package being written.
type part struct {
	name string
	data []byte
}

// writePackage writes parts to filename through a temporary file in the
// same directory, renamed into place once complete. Entries of src not
// replaced by parts are copied unchanged, in their original order.
func writePackage(filename string, src *zip.Reader, parts ...part) (err error) {
	dir := filepath.Dir(filename)
	tmp := filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", filepath.Base(filename), uuid.NewString()))

	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			f.Close()
			os.Remove(tmp)
		}
	}()

	zw := zip.NewWriter(f)
	replaced := make(map[string]bool, len(parts))
	for _, p := range parts {
		replaced[p.name] = true
	}

	now := time.Now()
	writePart := func(p part, modified time.Time) error {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: modified})
		if err != nil {
			return err
		}
		_, err = w.Write(p.data)
		return err
	}

	written := make(map[string]bool, len(parts))
	if src != nil {
		for _, zf := range src.File {
			if !replaced[zf.Name] {
				if err = zw.Copy(zf); err != nil {
					return fmt.Errorf("copying %s: %w", zf.Name, err)
				}
				continue
			}
			for _, p := range parts {
				if p.name == zf.Name {
					if err = writePart(p, zf.Modified); err != nil {
						return fmt.Errorf("writing %s: %w", p.name, err)
					}
					written[p.name] = true
				}
			}
		}
	}
	for _, p := range parts {
		if written[p.name] {
			continue
		}
		if err = writePart(p, now); err != nil {
			return fmt.Errorf("writing %s: %w", p.name, err)
		}
	}

	if err = zw.Close(); err != nil {
		return fmt.Errorf("finishing archive: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("closing temporary file: %w", err)
	}
	if err = os.Rename(tmp, filename); err != nil {
		return fmt.Errorf("replacing %s: %w", filename, err)
	}
	return nil
}
