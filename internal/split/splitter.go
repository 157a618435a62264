// Package split writes a resolved TOC tree out as a directory of per-section
// PDFs mirroring the hierarchy.
package split

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bindery/bindery/internal/toc"
)

// PageExtractor produces a standalone PDF for an inclusive 1-indexed page
// range. Implemented by *pdf.Document.
type PageExtractor interface {
	ExtractPages(start, end int) ([]byte, error)
}

// NodeError reports which TOC node failed during splitting.
type NodeError struct {
	Title  string
	Number string
	Err    error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("failed to split section %s %q: %v", e.Number, e.Title, e.Err)
}

func (e *NodeError) Unwrap() error { return e.Err }

// Split writes one PDF per node of the resolved tree under outputRoot.
//
// A chapter without subtopics becomes a single "{number}_{title}.pdf". A
// chapter with subtopics becomes a "{number}_{title}/" directory holding the
// chapter's own full-range PDF plus its subtopics, recursively.
//
// progress, if non-nil, is called after each file with the completed
// percentage over the precomputed total node count. The first extraction
// failure aborts the remaining work; files already written are left on disk.
func Split(doc PageExtractor, tree *toc.Tree, outputRoot string, progress func(percent int)) error {
	total := tree.CountNodes()
	if total == 0 {
		return toc.ErrEmptyTree
	}
	if err := os.MkdirAll(outputRoot, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	written := 0
	emit := func() {
		written++
		if progress != nil {
			progress(written * 100 / total)
		}
	}

	return splitNodes(doc, tree.Chapters, outputRoot, emit)
}

func splitNodes(doc PageExtractor, nodes []*toc.Node, dir string, emit func()) error {
	for _, n := range nodes {
		name := SanitizeTitle(n.Number + "_" + n.Title)

		if len(n.Subtopics) > 0 {
			nodeDir := filepath.Join(dir, name)
			if err := os.MkdirAll(nodeDir, 0o755); err != nil {
				return fmt.Errorf("failed to create section directory: %w", err)
			}
			// The chapter keeps its own full-range PDF alongside its children.
			if err := writeNode(doc, n, filepath.Join(nodeDir, name+".pdf")); err != nil {
				return err
			}
			emit()
			if err := splitNodes(doc, n.Subtopics, nodeDir, emit); err != nil {
				return err
			}
		} else {
			if err := writeNode(doc, n, filepath.Join(dir, name+".pdf")); err != nil {
				return err
			}
			emit()
		}
	}
	return nil
}

func writeNode(doc PageExtractor, n *toc.Node, path string) error {
	data, err := doc.ExtractPages(n.Page, n.EndPage)
	if err != nil {
		return &NodeError{Title: n.Title, Number: n.Number, Err: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &NodeError{Title: n.Title, Number: n.Number, Err: err}
	}
	return nil
}
