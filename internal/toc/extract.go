package toc

import (
	"sort"
	"strconv"
	"strings"

	"github.com/bindery/bindery/internal/pdf"
)

// FallbackTitle is used for the single-chapter fallback when no better
// title (e.g. the uploaded filename) is known.
const FallbackTitle = "Document"

// OutlineSource provides the embedded outline and page count of a document.
// Implemented by *pdf.Document.
type OutlineSource interface {
	ReadOutline() ([]pdf.OutlineEntry, error)
	PageCount() int
}

// Extract builds a TOC tree from the document's embedded outline.
//
// Entries are grouped by level: an entry becomes a child of the most recent
// preceding entry at a shallower level. Numbers are assigned from 1-based
// sibling counters per level ("1", "1.1", "2", ...). If the document has no
// usable outline, a single-chapter fallback spanning the whole document is
// returned, so extraction never yields an empty tree.
func Extract(doc OutlineSource, fallbackTitle string) *Tree {
	entries, err := doc.ReadOutline()
	if err != nil || len(entries) == 0 {
		return fallbackTree(doc.PageCount(), fallbackTitle)
	}

	tree := buildTree(entries)
	if len(tree.Chapters) == 0 {
		// Outline exists but has no top-level entries: too sparse to split on.
		return fallbackTree(doc.PageCount(), fallbackTitle)
	}
	return tree
}

// buildTree groups flat outline entries into a tree using a stack of the
// current ancestor chain, with per-level counters for numbering.
func buildTree(entries []pdf.OutlineEntry) *Tree {
	tree := &Tree{ContentStartPage: 1}

	type frame struct {
		level int
		node  *Node
	}
	var stack []frame
	counters := map[int]int{}

	for _, e := range entries {
		title := strings.TrimSpace(e.Title)
		if title == "" || e.Page < 1 {
			continue
		}

		counters[e.Level]++
		for l := range counters {
			if l > e.Level {
				delete(counters, l)
			}
		}

		node := &Node{
			Title:     title,
			Number:    numberFor(counters, e.Level),
			Page:      e.Page,
			Subtopics: []*Node{},
		}

		for len(stack) > 0 && stack[len(stack)-1].level >= e.Level {
			stack = stack[:len(stack)-1]
		}
		if len(stack) > 0 {
			parent := stack[len(stack)-1].node
			parent.Subtopics = append(parent.Subtopics, node)
		} else {
			tree.Chapters = append(tree.Chapters, node)
		}
		stack = append(stack, frame{level: e.Level, node: node})
	}

	return tree
}

// numberFor joins the sibling counters of all levels up to and including
// level, e.g. {0:2, 1:3} at level 1 -> "2.3".
func numberFor(counters map[int]int, level int) string {
	levels := make([]int, 0, len(counters))
	for l := range counters {
		if l <= level {
			levels = append(levels, l)
		}
	}
	sort.Ints(levels)

	parts := make([]string, len(levels))
	for i, l := range levels {
		parts[i] = strconv.Itoa(counters[l])
	}
	return strings.Join(parts, ".")
}

func fallbackTree(pageCount int, title string) *Tree {
	if title == "" {
		title = FallbackTitle
	}
	if pageCount < 1 {
		pageCount = 1
	}
	return &Tree{
		ContentStartPage: 1,
		Chapters: []*Node{{
			Title:     title,
			Number:    "1",
			Page:      1,
			EndPage:   pageCount,
			Subtopics: []*Node{},
		}},
	}
}
