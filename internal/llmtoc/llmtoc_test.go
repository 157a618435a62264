package llmtoc

import (
	"context"
	"errors"
	"testing"

	"github.com/bindery/bindery/internal/toc"
)

func TestEnabled(t *testing.T) {
	t.Run("no key", func(t *testing.T) {
		e := New(Config{}, nil)
		if e.Enabled() {
			t.Error("extractor without API key should be disabled")
		}
	})

	t.Run("with key", func(t *testing.T) {
		e := New(Config{APIKey: "sk-test"}, nil)
		if !e.Enabled() {
			t.Error("extractor with API key should be enabled")
		}
	})

	t.Run("reload flips state", func(t *testing.T) {
		e := New(Config{}, nil)
		e.Reload(Config{APIKey: "sk-test"})
		if !e.Enabled() {
			t.Error("extractor should be enabled after reload with key")
		}
		e.Reload(Config{})
		if e.Enabled() {
			t.Error("extractor should be disabled after reload without key")
		}
	})
}

func TestExtract_NotConfigured(t *testing.T) {
	e := New(Config{}, nil)
	_, err := e.Extract(context.Background(), Request{PDFPath: "/tmp/x.pdf", TOCStart: 1, TOCEnd: 2})
	if !errors.Is(err, ErrNotConfigured) {
		t.Errorf("expected ErrNotConfigured, got %v", err)
	}
}

func TestExtract_InvalidRange(t *testing.T) {
	e := New(Config{APIKey: "sk-test"}, nil)

	cases := []struct {
		name  string
		start int
		end   int
	}{
		{"zero start", 0, 3},
		{"end before start", 5, 2},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := e.Extract(context.Background(), Request{PDFPath: "/tmp/x.pdf", TOCStart: tc.start, TOCEnd: tc.end})
			if err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestStripCodeFence(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bare json", `{"chapters":[]}`, `{"chapters":[]}`},
		{"json fence", "```json\n{\"chapters\":[]}\n```", `{"chapters":[]}`},
		{"plain fence", "```\n{\"chapters\":[]}\n```", `{"chapters":[]}`},
		{"surrounding whitespace", "  {\"a\":1}  ", `{"a":1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := stripCodeFence(tc.in); got != tc.want {
				t.Errorf("stripCodeFence(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestTranslateToAbsolute(t *testing.T) {
	t.Run("shifts printed pages", func(t *testing.T) {
		tree := &toc.Tree{Chapters: []*toc.Node{
			{Title: "Ch1", Page: 1, EndPage: 9, Subtopics: []*toc.Node{
				{Title: "1.1", Page: 3},
			}},
			{Title: "Ch2", Page: 10},
		}}

		// The book's printed page 1 is PDF page 15.
		translateToAbsolute(tree, 15)

		if tree.Chapters[0].Page != 15 || tree.Chapters[0].EndPage != 23 {
			t.Errorf("unexpected chapter 1 range: %d-%d", tree.Chapters[0].Page, tree.Chapters[0].EndPage)
		}
		if tree.Chapters[0].Subtopics[0].Page != 17 {
			t.Errorf("unexpected subtopic page: %d", tree.Chapters[0].Subtopics[0].Page)
		}
		// Unresolved end pages stay unresolved.
		if tree.Chapters[0].Subtopics[0].EndPage != 0 {
			t.Errorf("unresolved end page was shifted: %d", tree.Chapters[0].Subtopics[0].EndPage)
		}
		if tree.ContentStartPage != 1 {
			t.Errorf("expected content start reset to 1, got %d", tree.ContentStartPage)
		}
	})

	t.Run("no offset", func(t *testing.T) {
		tree := &toc.Tree{Chapters: []*toc.Node{{Title: "Ch1", Page: 5}}}
		translateToAbsolute(tree, 0)
		if tree.Chapters[0].Page != 5 {
			t.Errorf("pages should be unchanged, got %d", tree.Chapters[0].Page)
		}
	})
}
