// Package docstore tracks uploaded documents for the lifetime of the
// process. The PDF bytes themselves live in the home uploads directory;
// this store only keeps their metadata.
package docstore

import (
	"sync"
	"time"
)

// Document is metadata for one uploaded PDF.
type Document struct {
	ID         string    `json:"document_id"`
	Filename   string    `json:"filename"`
	Title      string    `json:"title"`
	Path       string    `json:"-"`
	PageCount  int       `json:"pages"`
	UploadedAt time.Time `json:"uploaded_at"`
}

// Store is an in-memory document registry.
type Store struct {
	mu   sync.RWMutex
	docs map[string]Document
}

// NewStore creates an empty document store.
func NewStore() *Store {
	return &Store{docs: make(map[string]Document)}
}

// Put registers a document.
func (s *Store) Put(doc Document) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.docs[doc.ID] = doc
}

// Get returns a document by ID.
func (s *Store) Get(id string) (Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// List returns all documents in unspecified order.
func (s *Store) List() []Document {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Document, 0, len(s.docs))
	for _, d := range s.docs {
		out = append(out, d)
	}
	return out
}
