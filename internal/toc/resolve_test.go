package toc

import (
	"reflect"
	"testing"
)

func TestResolve(t *testing.T) {
	t.Run("siblings end before the next sibling", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 1},
			{Title: "Ch2", Page: 10},
			{Title: "Ch3", Page: 15},
		}}

		resolved, err := Resolve(tree, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		wantEnds := []int{9, 14, 20}
		for i, ch := range resolved.Chapters {
			if ch.EndPage != wantEnds[i] {
				t.Errorf("chapter %d: expected end %d, got %d", i, wantEnds[i], ch.EndPage)
			}
		}
	})

	t.Run("last child inherits parent end", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 1, Subtopics: []*Node{
				{Title: "1.1", Page: 3},
			}},
			{Title: "Ch2", Page: 10},
		}}

		resolved, err := Resolve(tree, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		ch1 := resolved.Chapters[0]
		if ch1.EndPage != 9 {
			t.Errorf("expected chapter 1 end 9, got %d", ch1.EndPage)
		}
		// The last (only) child runs to the end of its parent, not to 8.
		if ch1.Subtopics[0].EndPage != 9 {
			t.Errorf("expected child end 9, got %d", ch1.Subtopics[0].EndPage)
		}
		if resolved.Chapters[1].EndPage != 20 {
			t.Errorf("expected chapter 2 end 20, got %d", resolved.Chapters[1].EndPage)
		}
	})

	t.Run("child clamped to parent range", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 1, EndPage: 10, Subtopics: []*Node{
				{Title: "1.1", Page: 5, EndPage: 50},
			}},
		}}

		resolved, err := Resolve(tree, 100)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Chapters[0].Subtopics[0].EndPage != 10 {
			t.Errorf("expected child clamped to 10, got %d", resolved.Chapters[0].Subtopics[0].EndPage)
		}
	})

	t.Run("degenerate range collapses to single page", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 8, EndPage: 3},
			{Title: "Ch2", Page: 10},
		}}

		resolved, err := Resolve(tree, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resolved.Chapters[0].EndPage; got != 8 {
			t.Errorf("expected end collapsed to start page 8, got %d", got)
		}
	})

	t.Run("explicit end pages are kept", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 1, EndPage: 5},
			{Title: "Ch2", Page: 10},
		}}

		resolved, err := Resolve(tree, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if resolved.Chapters[0].EndPage != 5 {
			t.Errorf("expected authored end 5 kept, got %d", resolved.Chapters[0].EndPage)
		}
	})

	t.Run("does not modify the input", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 1, Subtopics: []*Node{{Title: "1.1", Page: 2}}},
			{Title: "Ch2", Page: 10},
		}}

		if _, err := Resolve(tree, 20); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tree.Chapters[0].EndPage != 0 || tree.Chapters[0].Subtopics[0].EndPage != 0 {
			t.Error("input tree was modified")
		}
	})

	t.Run("idempotent", func(t *testing.T) {
		tree := &Tree{Chapters: []*Node{
			{Title: "Ch1", Page: 1, Subtopics: []*Node{{Title: "1.1", Page: 3}}},
			{Title: "Ch2", Page: 10},
		}}

		once, err := Resolve(tree, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		twice, err := Resolve(once, 20)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("resolving twice changed the tree:\nonce:  %+v\ntwice: %+v", once, twice)
		}
	})

	t.Run("empty tree", func(t *testing.T) {
		if _, err := Resolve(&Tree{}, 20); err != ErrEmptyTree {
			t.Errorf("expected ErrEmptyTree, got %v", err)
		}
		if _, err := Resolve(nil, 20); err != ErrEmptyTree {
			t.Errorf("expected ErrEmptyTree for nil tree, got %v", err)
		}
	})
}
