package docstore

import (
	"testing"
	"time"
)

func TestStore(t *testing.T) {
	doc := Document{
		ID:         "abc",
		Filename:   "book.pdf",
		Title:      "book",
		Path:       "/tmp/abc.pdf",
		PageCount:  42,
		UploadedAt: time.Now().UTC(),
	}

	t.Run("put and get", func(t *testing.T) {
		s := NewStore()
		s.Put(doc)

		got, ok := s.Get("abc")
		if !ok {
			t.Fatal("expected document")
		}
		if got.Filename != "book.pdf" || got.PageCount != 42 {
			t.Errorf("unexpected document: %+v", got)
		}
	})

	t.Run("missing document", func(t *testing.T) {
		s := NewStore()
		if _, ok := s.Get("nope"); ok {
			t.Error("expected no document")
		}
	})

	t.Run("put replaces", func(t *testing.T) {
		s := NewStore()
		s.Put(doc)
		updated := doc
		updated.Title = "renamed"
		s.Put(updated)

		got, _ := s.Get("abc")
		if got.Title != "renamed" {
			t.Errorf("expected replaced title, got %s", got.Title)
		}
	})

	t.Run("list", func(t *testing.T) {
		s := NewStore()
		s.Put(doc)
		other := doc
		other.ID = "def"
		s.Put(other)

		if got := len(s.List()); got != 2 {
			t.Errorf("expected 2 documents, got %d", got)
		}
	})
}
