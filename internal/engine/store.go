package engine

import (
	"sync"
	"time"
)

// Store is the process-scoped job table. It is created at startup and handed
// to the engine; entries are kept until the process exits (eviction is the
// operator's concern). After creation each job has a single writer — its
// worker goroutine — so reads only need the lock for map access and copying.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create inserts a new job.
func (s *Store) Create(job *Job) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.jobs[job.ID] = job
}

// Get returns a copy of the job, if present. The copy keeps polling reads
// from observing partial writes.
func (s *Store) Get(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, false
	}
	out := *job
	if job.Progress != nil {
		p := *job.Progress
		out.Progress = &p
	}
	return out, true
}

// Update applies fn to the job under the lock and stamps UpdatedAt.
// Terminal jobs are never mutated.
func (s *Store) Update(id string, fn func(*Job)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok || job.Status.Terminal() {
		return
	}
	fn(job)
	job.UpdatedAt = time.Now().UTC()
}

// Len returns the number of tracked jobs.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.jobs)
}
