// Package engine runs split jobs asynchronously: resolve page ranges, split
// the document into a directory tree, archive the tree, and track progress
// through a polling-friendly job table.
package engine

import "time"

// Status is a job lifecycle state. Queued is transient; completed and failed
// are terminal and never mutated again.
type Status string

const (
	StatusQueued     Status = "queued"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// Terminal reports whether the status is final.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Job is one asynchronous execution of the resolve -> split -> archive
// pipeline. Progress is 0-100, nil until the worker first reports.
type Job struct {
	ID         string     `json:"id"`
	Status     Status     `json:"status"`
	Progress   *int       `json:"progress"`
	OutputPath string     `json:"output_path,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}
