package toc

import (
	"errors"
	"testing"

	"github.com/bindery/bindery/internal/pdf"
)

// fakeDoc implements OutlineSource for tests.
type fakeDoc struct {
	entries []pdf.OutlineEntry
	err     error
	pages   int
}

func (f *fakeDoc) ReadOutline() ([]pdf.OutlineEntry, error) { return f.entries, f.err }
func (f *fakeDoc) PageCount() int                           { return f.pages }

func TestExtract(t *testing.T) {
	t.Run("groups entries by level", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 50,
			entries: []pdf.OutlineEntry{
				{Title: "Introduction", Level: 0, Page: 1},
				{Title: "Getting Started", Level: 1, Page: 3},
				{Title: "Advanced Topics", Level: 1, Page: 7},
				{Title: "Reference", Level: 0, Page: 20},
			},
		}

		tree := Extract(doc, "")
		if len(tree.Chapters) != 2 {
			t.Fatalf("expected 2 chapters, got %d", len(tree.Chapters))
		}

		intro := tree.Chapters[0]
		if intro.Title != "Introduction" || intro.Number != "1" || intro.Page != 1 {
			t.Errorf("unexpected first chapter: %+v", intro)
		}
		if len(intro.Subtopics) != 2 {
			t.Fatalf("expected 2 subtopics, got %d", len(intro.Subtopics))
		}
		if intro.Subtopics[0].Number != "1.1" || intro.Subtopics[1].Number != "1.2" {
			t.Errorf("unexpected subtopic numbers: %s, %s",
				intro.Subtopics[0].Number, intro.Subtopics[1].Number)
		}

		ref := tree.Chapters[1]
		if ref.Number != "2" || ref.Page != 20 {
			t.Errorf("unexpected second chapter: %+v", ref)
		}
	})

	t.Run("sibling counters reset per parent", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 100,
			entries: []pdf.OutlineEntry{
				{Title: "One", Level: 0, Page: 1},
				{Title: "One A", Level: 1, Page: 2},
				{Title: "Two", Level: 0, Page: 10},
				{Title: "Two A", Level: 1, Page: 11},
				{Title: "Two B", Level: 1, Page: 15},
			},
		}

		tree := Extract(doc, "")
		two := tree.Chapters[1]
		if two.Subtopics[0].Number != "2.1" {
			t.Errorf("expected 2.1, got %s", two.Subtopics[0].Number)
		}
		if two.Subtopics[1].Number != "2.2" {
			t.Errorf("expected 2.2, got %s", two.Subtopics[1].Number)
		}
	})

	t.Run("skips blank titles and invalid pages", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 30,
			entries: []pdf.OutlineEntry{
				{Title: "  ", Level: 0, Page: 1},
				{Title: "Valid", Level: 0, Page: 0},
				{Title: "Kept", Level: 0, Page: 5},
			},
		}

		tree := Extract(doc, "")
		if len(tree.Chapters) != 1 || tree.Chapters[0].Title != "Kept" {
			t.Fatalf("expected only the valid entry, got %d chapters", len(tree.Chapters))
		}
	})

	t.Run("deep nesting", func(t *testing.T) {
		doc := &fakeDoc{
			pages: 40,
			entries: []pdf.OutlineEntry{
				{Title: "Part", Level: 0, Page: 1},
				{Title: "Chapter", Level: 1, Page: 2},
				{Title: "Section", Level: 2, Page: 3},
			},
		}

		tree := Extract(doc, "")
		section := tree.Chapters[0].Subtopics[0].Subtopics[0]
		if section.Number != "1.1.1" || section.Page != 3 {
			t.Errorf("unexpected section node: %+v", section)
		}
	})

	t.Run("no outline falls back to single chapter", func(t *testing.T) {
		doc := &fakeDoc{pages: 42}

		tree := Extract(doc, "My Book")
		if len(tree.Chapters) != 1 {
			t.Fatalf("expected single fallback chapter, got %d", len(tree.Chapters))
		}
		ch := tree.Chapters[0]
		if ch.Title != "My Book" || ch.Number != "1" || ch.Page != 1 || ch.EndPage != 42 {
			t.Errorf("unexpected fallback chapter: %+v", ch)
		}
	})

	t.Run("outline read error falls back", func(t *testing.T) {
		doc := &fakeDoc{pages: 10, err: errors.New("broken outline")}

		tree := Extract(doc, "")
		if len(tree.Chapters) != 1 || tree.Chapters[0].Title != FallbackTitle {
			t.Fatalf("expected fallback with default title, got %+v", tree.Chapters)
		}
	})

	t.Run("fallback never yields zero pages", func(t *testing.T) {
		doc := &fakeDoc{pages: 0}

		tree := Extract(doc, "")
		if tree.Chapters[0].EndPage != 1 {
			t.Errorf("expected end page 1, got %d", tree.Chapters[0].EndPage)
		}
	})
}
