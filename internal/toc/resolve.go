package toc

import "errors"

// ErrEmptyTree is returned when a tree has no chapters to resolve.
var ErrEmptyTree = errors.New("TOC tree has no chapters")

// Resolve returns a new tree in which every node has a concrete end page.
//
// Per sibling list, in order: a node with no end page ends one page before
// its next sibling; the last sibling inherits its parent's end page (the
// document's last page at the top level). Ranges are clamped so a child never
// overflows its parent and end never precedes start (a degenerate section
// collapses to a single page). Explicitly authored end pages are kept,
// subject to the same clamping.
//
// Resolve is pure and deterministic: the input tree is not modified, and
// identical inputs always produce identical output. Resolving an
// already-resolved tree is a no-op.
func Resolve(t *Tree, totalPages int) (*Tree, error) {
	if t == nil || len(t.Chapters) == 0 {
		return nil, ErrEmptyTree
	}

	resolved := t.Clone()
	resolveSiblings(resolved.Chapters, totalPages)
	return resolved, nil
}

func resolveSiblings(nodes []*Node, parentEnd int) {
	for i, n := range nodes {
		if n.EndPage == 0 {
			if i < len(nodes)-1 {
				n.EndPage = nodes[i+1].Page - 1
			} else {
				n.EndPage = parentEnd
			}
		}
		// Children are clipped to their containing chapter.
		if n.EndPage > parentEnd {
			n.EndPage = parentEnd
		}
		if n.EndPage < n.Page {
			n.EndPage = n.Page
		}
		resolveSiblings(n.Subtopics, n.EndPage)
	}
}
