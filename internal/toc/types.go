// Package toc defines the table-of-contents tree, extraction from embedded
// PDF outlines, and resolution of page ranges across the hierarchy.
package toc

// Node is one TOC entry. Page numbers are absolute 1-indexed PDF pages.
// EndPage of 0 means unresolved; Resolve fills it in.
type Node struct {
	Title     string  `json:"title"`
	Number    string  `json:"number"`
	Page      int     `json:"page"`
	EndPage   int     `json:"end_page,omitempty"`
	Subtopics []*Node `json:"subtopics"`
}

// Tree is the root chapter list plus the offset mapping the book's own
// "content page" numbering to absolute PDF pages. ContentStartPage is only
// meaningful for manually-authored trees; 0 or 1 means no offset.
type Tree struct {
	Chapters         []*Node `json:"chapters"`
	ContentStartPage int     `json:"content_start_page,omitempty"`
}

// Clone returns a deep copy of the node.
func (n *Node) Clone() *Node {
	c := *n
	if n.Subtopics != nil {
		c.Subtopics = make([]*Node, len(n.Subtopics))
		for i, s := range n.Subtopics {
			c.Subtopics[i] = s.Clone()
		}
	}
	return &c
}

// Clone returns a deep copy of the tree.
func (t *Tree) Clone() *Tree {
	c := &Tree{ContentStartPage: t.ContentStartPage}
	c.Chapters = make([]*Node, len(t.Chapters))
	for i, n := range t.Chapters {
		c.Chapters[i] = n.Clone()
	}
	return c
}

// CountNodes returns the total number of nodes in the tree.
// Every node produces exactly one output file when splitting.
func (t *Tree) CountNodes() int {
	var count func(nodes []*Node) int
	count = func(nodes []*Node) int {
		n := len(nodes)
		for _, node := range nodes {
			n += count(node.Subtopics)
		}
		return n
	}
	return count(t.Chapters)
}
