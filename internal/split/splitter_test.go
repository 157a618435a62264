package split

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/bindery/bindery/internal/toc"
)

// fakeExtractor records extraction calls and can fail a specific range.
type fakeExtractor struct {
	calls    []string
	failPage int
}

func (f *fakeExtractor) ExtractPages(start, end int) ([]byte, error) {
	f.calls = append(f.calls, fmt.Sprintf("%d-%d", start, end))
	if f.failPage != 0 && start == f.failPage {
		return nil, errors.New("extraction failed")
	}
	return []byte(fmt.Sprintf("pdf %d-%d", start, end)), nil
}

func TestSplit(t *testing.T) {
	t.Run("layout mirrors the hierarchy", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "book")
		tree := &toc.Tree{Chapters: []*toc.Node{
			{Title: "Ch1", Number: "1", Page: 1, EndPage: 9, Subtopics: []*toc.Node{
				{Title: "1.1", Number: "1.1", Page: 3, EndPage: 9},
			}},
			{Title: "Ch2", Number: "2", Page: 10, EndPage: 20},
		}}

		doc := &fakeExtractor{}
		if err := Split(doc, tree, outDir, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantFiles := []string{
			"1_Ch1/1_Ch1.pdf",
			"1_Ch1/1.1_1.1.pdf",
			"2_Ch2.pdf",
		}
		for _, f := range wantFiles {
			path := filepath.Join(outDir, f)
			data, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("expected file %s: %v", f, err)
			}
			if len(data) == 0 {
				t.Errorf("file %s is empty", f)
			}
		}

		// A chapter with children keeps its own full-range PDF.
		data, _ := os.ReadFile(filepath.Join(outDir, "1_Ch1/1_Ch1.pdf"))
		if string(data) != "pdf 1-9" {
			t.Errorf("expected chapter PDF to span 1-9, got %q", data)
		}
	})

	t.Run("one extraction per node", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "book")
		tree := &toc.Tree{Chapters: []*toc.Node{
			{Title: "Ch1", Number: "1", Page: 1, EndPage: 9, Subtopics: []*toc.Node{
				{Title: "1.1", Number: "1.1", Page: 3, EndPage: 9},
			}},
			{Title: "Ch2", Number: "2", Page: 10, EndPage: 20},
		}}

		doc := &fakeExtractor{}
		if err := Split(doc, tree, outDir, nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []string{"1-9", "3-9", "10-20"}
		if len(doc.calls) != len(want) {
			t.Fatalf("expected %d extractions, got %v", len(want), doc.calls)
		}
		for i, w := range want {
			if doc.calls[i] != w {
				t.Errorf("call %d: expected %s, got %s", i, w, doc.calls[i])
			}
		}
	})

	t.Run("progress reaches 100", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "book")
		tree := &toc.Tree{Chapters: []*toc.Node{
			{Title: "A", Number: "1", Page: 1, EndPage: 5},
			{Title: "B", Number: "2", Page: 6, EndPage: 10},
			{Title: "C", Number: "3", Page: 11, EndPage: 20},
		}}

		var seen []int
		if err := Split(&fakeExtractor{}, tree, outDir, func(pct int) {
			seen = append(seen, pct)
		}); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		want := []int{33, 66, 100}
		if len(seen) != len(want) {
			t.Fatalf("expected %d progress updates, got %v", len(want), seen)
		}
		for i, w := range want {
			if seen[i] != w {
				t.Errorf("update %d: expected %d, got %d", i, w, seen[i])
			}
		}
	})

	t.Run("failure aborts and keeps earlier output", func(t *testing.T) {
		outDir := filepath.Join(t.TempDir(), "book")
		tree := &toc.Tree{Chapters: []*toc.Node{
			{Title: "A", Number: "1", Page: 1, EndPage: 5},
			{Title: "B", Number: "2", Page: 6, EndPage: 10},
			{Title: "C", Number: "3", Page: 11, EndPage: 20},
		}}

		doc := &fakeExtractor{failPage: 6}
		err := Split(doc, tree, outDir, nil)
		if err == nil {
			t.Fatal("expected error")
		}

		var nodeErr *NodeError
		if !errors.As(err, &nodeErr) {
			t.Fatalf("expected NodeError, got %T", err)
		}
		if nodeErr.Title != "B" || nodeErr.Number != "2" {
			t.Errorf("error names wrong node: %+v", nodeErr)
		}

		// The first chapter was written before the failure, the third never was.
		if _, err := os.Stat(filepath.Join(outDir, "1_A.pdf")); err != nil {
			t.Error("expected first chapter on disk")
		}
		if _, err := os.Stat(filepath.Join(outDir, "3_C.pdf")); err == nil {
			t.Error("third chapter should not have been written")
		}
	})

	t.Run("empty tree", func(t *testing.T) {
		err := Split(&fakeExtractor{}, &toc.Tree{}, t.TempDir(), nil)
		if !errors.Is(err, toc.ErrEmptyTree) {
			t.Errorf("expected ErrEmptyTree, got %v", err)
		}
	})
}

func TestSanitizeTitle(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Chapter 1: The Beginning", "Chapter_1_The_Beginning"},
		{"1.1_Getting Started", "1.1_Getting_Started"},
		{"  spaced   out  ", "spaced_out"},
		{"slash/back\\slash", "slashbackslash"},
		{"Ünïcode titlé", "ncode_titl"},
		{"___", "section"},
		{"...", "section"},
		{"", "section"},
		{"trailing dot.", "trailing_dot"},
		{"hy-phen_ok.keep", "hy-phen_ok.keep"},
	}

	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			if got := SanitizeTitle(tc.in); got != tc.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}

	t.Run("length capped", func(t *testing.T) {
		long := ""
		for i := 0; i < 50; i++ {
			long += "abcdefgh"
		}
		if got := SanitizeTitle(long); len(got) > maxTitleLen {
			t.Errorf("expected at most %d chars, got %d", maxTitleLen, len(got))
		}
	})
}
