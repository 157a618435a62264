package engine

import (
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bindery/bindery/internal/archive"
	"github.com/bindery/bindery/internal/pdf"
	"github.com/bindery/bindery/internal/split"
	"github.com/bindery/bindery/internal/toc"
)

// ErrJobNotFound is returned when polling an unknown job ID.
var ErrJobNotFound = errors.New("job not found")

// ErrJobNotReady is returned when fetching output of a job that has not
// completed.
var ErrJobNotReady = errors.New("job output not ready")

// Splitting reserves the final progress points for archiving; the split
// callback is scaled into [0, splitProgressCeiling].
const splitProgressCeiling = 95

// Document is the per-job view of an open PDF. Implemented by *pdf.Document.
type Document interface {
	PageCount() int
	ExtractPages(start, end int) ([]byte, error)
	Close() error
}

// Request describes one split submission.
type Request struct {
	// PDFPath is the source document. The engine opens its own handle;
	// concurrent jobs against the same file each get their own.
	PDFPath string

	// Title names the output tree's root directory. Derived from the
	// filename when empty.
	Title string

	// Tree is the TOC to split on, with absolute 1-indexed pages.
	// End pages may be unresolved; the engine resolves them.
	Tree *toc.Tree
}

// Config configures an Engine.
type Config struct {
	// Store is the shared job table. Required.
	Store *Store

	// OutputsDir is where split trees and archives are written. Required.
	OutputsDir string

	// Logger defaults to slog.Default.
	Logger *slog.Logger

	// Open overrides document opening, for tests. Defaults to pdf.Open.
	Open func(path string) (Document, error)
}

// Engine schedules and tracks split jobs. Each submitted job runs in its own
// worker goroutine; the worker is the job's sole writer after creation.
type Engine struct {
	store      *Store
	outputsDir string
	logger     *slog.Logger
	open       func(path string) (Document, error)
	wg         sync.WaitGroup
}

// New creates an Engine.
func New(cfg Config) *Engine {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	open := cfg.Open
	if open == nil {
		open = func(path string) (Document, error) { return pdf.Open(path) }
	}
	return &Engine{
		store:      cfg.Store,
		outputsDir: cfg.OutputsDir,
		logger:     logger,
		open:       open,
	}
}

// Submit validates the request, creates a queued job, and schedules the
// pipeline in the background. It returns the new job ID without blocking on
// the split itself. An unreadable or corrupt document fails here, before any
// job exists.
func (e *Engine) Submit(req Request) (string, error) {
	if req.Tree == nil || len(req.Tree.Chapters) == 0 {
		return "", toc.ErrEmptyTree
	}

	doc, err := e.open(req.PDFPath)
	if err != nil {
		return "", err
	}

	jobID := uuid.New().String()
	now := time.Now().UTC()
	progress := 0
	e.store.Create(&Job{
		ID:        jobID,
		Status:    StatusQueued,
		Progress:  &progress,
		CreatedAt: now,
		UpdatedAt: now,
	})

	e.wg.Add(1)
	go e.run(jobID, doc, req)

	return jobID, nil
}

// Status returns a snapshot of the job. Safe to poll repeatedly.
func (e *Engine) Status(jobID string) (Job, error) {
	job, ok := e.store.Get(jobID)
	if !ok {
		return Job{}, ErrJobNotFound
	}
	return job, nil
}

// Output returns the archive path of a completed job.
func (e *Engine) Output(jobID string) (string, error) {
	job, ok := e.store.Get(jobID)
	if !ok {
		return "", ErrJobNotFound
	}
	if job.Status != StatusCompleted {
		return "", fmt.Errorf("%w: job is %s", ErrJobNotReady, job.Status)
	}
	return job.OutputPath, nil
}

// Wait blocks until all in-flight jobs have reached a terminal state.
func (e *Engine) Wait() {
	e.wg.Wait()
}

// run executes the pipeline for one job. All failures terminate in the
// failed state; nothing escapes to crash the process or other jobs.
func (e *Engine) run(jobID string, doc Document, req Request) {
	defer e.wg.Done()
	defer doc.Close()

	log := e.logger.With("job_id", jobID)

	defer func() {
		if r := recover(); r != nil {
			log.Error("split job panicked", "panic", r)
			e.fail(jobID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	e.store.Update(jobID, func(j *Job) { j.Status = StatusInProgress })
	log.Info("split job started", "pdf", req.PDFPath, "chapters", len(req.Tree.Chapters))

	resolved, err := toc.Resolve(req.Tree, doc.PageCount())
	if err != nil {
		log.Error("range resolution failed", "error", err)
		e.fail(jobID, fmt.Sprintf("failed to resolve page ranges: %v", err))
		return
	}

	title := req.Title
	if title == "" {
		title = strings.TrimSuffix(filepath.Base(req.PDFPath), filepath.Ext(req.PDFPath))
	}
	outputRoot := filepath.Join(e.outputsDir, split.SanitizeTitle(title))

	err = split.Split(doc, resolved, outputRoot, func(pct int) {
		scaled := pct * splitProgressCeiling / 100
		e.store.Update(jobID, func(j *Job) { j.Progress = &scaled })
	})
	if err != nil {
		log.Error("splitting failed", "error", err)
		e.fail(jobID, err.Error())
		return
	}

	archivePath := filepath.Join(e.outputsDir, jobID+".zip")
	if err := archive.Zip(outputRoot, archivePath); err != nil {
		// The unarchived tree remains on disk and may still be usable.
		log.Error("archiving failed", "error", err, "output", outputRoot)
		e.fail(jobID, fmt.Sprintf("failed to archive output: %v", err))
		return
	}

	e.store.Update(jobID, func(j *Job) {
		done := 100
		j.Progress = &done
		j.Status = StatusCompleted
		j.OutputPath = archivePath
	})
	log.Info("split job completed", "archive", archivePath)
}

// fail marks the job failed, leaving progress at its last reported value.
func (e *Engine) fail(jobID, msg string) {
	e.store.Update(jobID, func(j *Job) {
		j.Status = StatusFailed
		j.Error = msg
	})
}
