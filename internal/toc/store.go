package toc

import "sync"

// Store holds caller-edited TOC trees keyed by document ID. Edits live in
// process memory only; restarting the server discards them.
type Store struct {
	mu    sync.RWMutex
	trees map[string]*Tree
}

// NewStore creates an empty edited-TOC store.
func NewStore() *Store {
	return &Store{trees: make(map[string]*Tree)}
}

// Set saves an edited tree for a document, replacing any previous edit.
func (s *Store) Set(documentID string, tree *Tree) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.trees[documentID] = tree.Clone()
}

// Get returns a copy of the edited tree for a document.
func (s *Store) Get(documentID string) (*Tree, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.trees[documentID]
	if !ok {
		return nil, false
	}
	return t.Clone(), true
}

// Delete removes the edited tree for a document.
func (s *Store) Delete(documentID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.trees, documentID)
}
