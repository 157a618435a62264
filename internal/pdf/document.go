// Package pdf wraps pdfcpu behind a small document handle used by the rest of
// bindery. A Document owns one open source file; extraction always produces a
// new standalone PDF and never mutates the source.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// ErrCorruptDocument indicates the source bytes are not a parseable PDF.
var ErrCorruptDocument = errors.New("corrupt document")

// ErrInvalidRange indicates a page range outside [1, PageCount].
var ErrInvalidRange = errors.New("invalid page range")

// OutlineEntry is one embedded bookmark in document order.
// Level 0 entries are top-level chapters.
type OutlineEntry struct {
	Title string
	Level int
	Page  int // 1-indexed target page
}

// Document is an open PDF. Read operations are safe for concurrent use;
// the handle must not be shared across jobs (each job opens its own).
type Document struct {
	mu        sync.Mutex
	file      *os.File
	path      string
	pageCount int
	closed    bool
}

// Open opens and validates the PDF at path.
func Open(path string) (*Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadContext(f, conf)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %v", ErrCorruptDocument, err)
	}

	return &Document{
		file:      f,
		path:      path,
		pageCount: ctx.PageCount,
	}, nil
}

// Path returns the path the document was opened from.
func (d *Document) Path() string {
	return d.path
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.pageCount
}

// ExtractPages returns a new standalone PDF containing pages [start, end]
// inclusive (1-indexed). Page content and embedded resources are preserved;
// outline metadata is not.
func (d *Document) ExtractPages(start, end int) ([]byte, error) {
	if start < 1 || end < start || end > d.pageCount {
		return nil, fmt.Errorf("%w: %d-%d of %d pages", ErrInvalidRange, start, end, d.pageCount)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("document is closed")
	}
	if _, err := d.file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to seek source PDF: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	var buf bytes.Buffer
	selected := []string{fmt.Sprintf("%d-%d", start, end)}
	if err := api.Trim(d.file, &buf, selected, conf); err != nil {
		return nil, fmt.Errorf("failed to extract pages %d-%d: %w", start, end, err)
	}

	return buf.Bytes(), nil
}

// ReadOutline returns the document's embedded bookmarks flattened in document
// order. Returns an empty slice if the document has no outline.
func (d *Document) ReadOutline() ([]OutlineEntry, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, fmt.Errorf("document is closed")
	}
	if _, err := d.file.Seek(0, 0); err != nil {
		return nil, fmt.Errorf("failed to seek source PDF: %w", err)
	}

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	bms, err := api.Bookmarks(d.file, conf)
	if err != nil {
		// pdfcpu reports a missing outline as an error; treat it as empty.
		return nil, nil
	}

	var entries []OutlineEntry
	flattenBookmarks(bms, 0, &entries)
	return entries, nil
}

func flattenBookmarks(bms []pdfcpu.Bookmark, level int, out *[]OutlineEntry) {
	for _, bm := range bms {
		*out = append(*out, OutlineEntry{
			Title: bm.Title,
			Level: level,
			Page:  bm.PageFrom,
		})
		if len(bm.Kids) > 0 {
			flattenBookmarks(bm.Kids, level+1, out)
		}
	}
}

// Close releases the underlying file. Idempotent.
func (d *Document) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}
	d.closed = true
	return d.file.Close()
}
