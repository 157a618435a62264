package toc

import (
	"strings"
	"testing"
)

func TestParseWire(t *testing.T) {
	t.Run("valid tree", func(t *testing.T) {
		data := `{
			"chapters": [
				{"title": "Ch1", "number": "1", "page": 1, "subtopics": [
					{"title": "1.1", "number": "1.1", "page": 3, "subtopics": []}
				]},
				{"title": "Ch2", "number": "2", "page": 10, "end_page": 20, "subtopics": []}
			]
		}`

		tree, err := ParseWire([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(tree.Chapters) != 2 {
			t.Fatalf("expected 2 chapters, got %d", len(tree.Chapters))
		}
		if tree.Chapters[0].Subtopics[0].Title != "1.1" {
			t.Errorf("unexpected subtopic: %+v", tree.Chapters[0].Subtopics[0])
		}
		if tree.Chapters[1].EndPage != 20 {
			t.Errorf("expected end_page 20, got %d", tree.Chapters[1].EndPage)
		}
	})

	t.Run("content_start_page accepted", func(t *testing.T) {
		data := `{"content_start_page": 15, "chapters": [{"title": "Ch1", "page": 1}]}`

		tree, err := ParseWire([]byte(data))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tree.ContentStartPage != 15 {
			t.Errorf("expected content_start_page 15, got %d", tree.ContentStartPage)
		}
	})

	t.Run("rejections", func(t *testing.T) {
		cases := []struct {
			name string
			data string
		}{
			{"not json", `{chapters: []`},
			{"missing chapters", `{}`},
			{"empty chapters", `{"chapters": []}`},
			{"missing title", `{"chapters": [{"page": 1}]}`},
			{"empty title", `{"chapters": [{"title": "", "page": 1}]}`},
			{"missing page", `{"chapters": [{"title": "Ch1"}]}`},
			{"zero page", `{"chapters": [{"title": "Ch1", "page": 0}]}`},
			{"bad subtopic", `{"chapters": [{"title": "Ch1", "page": 1, "subtopics": [{"page": 2}]}]}`},
			{"non-integer page", `{"chapters": [{"title": "Ch1", "page": "one"}]}`},
		}

		for _, tc := range cases {
			t.Run(tc.name, func(t *testing.T) {
				if _, err := ParseWire([]byte(tc.data)); err == nil {
					t.Errorf("expected error for %s", tc.name)
				}
			})
		}
	})

	t.Run("rejection mentions shape", func(t *testing.T) {
		_, err := ParseWire([]byte(`{"chapters": []}`))
		if err == nil || !strings.Contains(err.Error(), "shape") {
			t.Errorf("expected shape error, got %v", err)
		}
	})
}

func TestStore(t *testing.T) {
	tree := &Tree{Chapters: []*Node{{Title: "Ch1", Page: 1}}}

	t.Run("set and get", func(t *testing.T) {
		s := NewStore()
		s.Set("doc1", tree)

		got, ok := s.Get("doc1")
		if !ok {
			t.Fatal("expected saved tree")
		}
		if got.Chapters[0].Title != "Ch1" {
			t.Errorf("unexpected tree: %+v", got)
		}
	})

	t.Run("get returns a copy", func(t *testing.T) {
		s := NewStore()
		s.Set("doc1", tree)

		got, _ := s.Get("doc1")
		got.Chapters[0].Title = "mutated"

		again, _ := s.Get("doc1")
		if again.Chapters[0].Title != "Ch1" {
			t.Error("store contents were mutated through a returned copy")
		}
	})

	t.Run("missing document", func(t *testing.T) {
		s := NewStore()
		if _, ok := s.Get("nope"); ok {
			t.Error("expected no tree for unknown document")
		}
	})

	t.Run("delete", func(t *testing.T) {
		s := NewStore()
		s.Set("doc1", tree)
		s.Delete("doc1")
		if _, ok := s.Get("doc1"); ok {
			t.Error("expected tree gone after delete")
		}
	})
}
