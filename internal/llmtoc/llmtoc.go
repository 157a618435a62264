// Package llmtoc extracts a TOC from the printed table-of-contents pages of
// a book using an OpenAI-compatible model. It is the fallback for scanned
// books whose PDFs carry no embedded outline worth splitting on.
package llmtoc

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/avast/retry-go/v4"
	openai "github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"

	"github.com/bindery/bindery/internal/toc"
)

const (
	defaultModel       = "gpt-4o-mini"
	defaultTimeout     = 120 * time.Second
	defaultMaxAttempts = 3
	defaultRetryDelay  = 2 * time.Second
)

const systemPrompt = `You convert the raw text of a book's table of contents into JSON.
Respond with ONLY a JSON object of this exact shape, no prose and no markdown fences:
{"chapters":[{"title":"...","number":"1","page":12,"subtopics":[{"title":"...","number":"1.1","page":14,"subtopics":[]}]}]}
Use the page numbers exactly as printed in the contents. Nest subsections under
their chapter. Assign sequential numbers ("1", "1.1", "1.2", "2", ...) when the
book does not print its own.`

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("LLM TOC extraction is not configured (missing API key)")

// Config holds LLM client settings.
type Config struct {
	APIKey      string
	Model       string        // default "gpt-4o-mini"
	BaseURL     string        // optional, for OpenAI-compatible endpoints
	Timeout     time.Duration // HTTP timeout
	MaxAttempts uint          // retry attempts for the completion call
	RetryDelay  time.Duration // base delay between retries
}

// Request identifies the TOC pages of an uploaded document.
type Request struct {
	PDFPath     string
	TOCStart    int // first PDF page of the printed contents, 1-indexed
	TOCEnd      int // last PDF page of the printed contents, inclusive
	ContentPage int // PDF page where the book's "page 1" falls; 0 or 1 = no offset
}

// Extractor asks a model to structure printed TOC text into a tree.
// Reload swaps the client when configuration changes; Extract is safe to
// call concurrently with Reload.
type Extractor struct {
	mu     sync.RWMutex
	cfg    Config
	client openai.Client
	logger *slog.Logger
}

// New creates an Extractor. A zero APIKey yields a disabled extractor whose
// Extract returns ErrNotConfigured.
func New(cfg Config, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	e := &Extractor{logger: logger.With("component", "llmtoc")}
	e.Reload(cfg)
	return e
}

// Reload replaces the extractor's configuration and client.
func (e *Extractor) Reload(cfg Config) {
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryDelay == 0 {
		cfg.RetryDelay = defaultRetryDelay
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	e.mu.Lock()
	e.cfg = cfg
	e.client = openai.NewClient(opts...)
	e.mu.Unlock()
}

// Enabled reports whether an API key is configured.
func (e *Extractor) Enabled() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.cfg.APIKey != ""
}

// Extract reads the text of the given TOC pages, asks the model for the
// structured tree, validates it against the wire schema, and translates the
// printed content-page numbers to absolute PDF pages. The returned tree only
// ever carries absolute pages.
func (e *Extractor) Extract(ctx context.Context, req Request) (*toc.Tree, error) {
	if !e.Enabled() {
		return nil, ErrNotConfigured
	}
	if req.TOCStart < 1 || req.TOCEnd < req.TOCStart {
		return nil, fmt.Errorf("invalid TOC page range %d-%d", req.TOCStart, req.TOCEnd)
	}

	text, err := pageText(req.PDFPath, req.TOCStart, req.TOCEnd)
	if err != nil {
		return nil, fmt.Errorf("failed to read TOC pages: %w", err)
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("TOC pages %d-%d contain no extractable text", req.TOCStart, req.TOCEnd)
	}

	e.mu.RLock()
	cfg := e.cfg
	client := e.client
	e.mu.RUnlock()

	e.logger.Debug("requesting TOC structure", "model", cfg.Model, "pages", fmt.Sprintf("%d-%d", req.TOCStart, req.TOCEnd))

	var raw string
	err = retry.Do(
		func() error {
			resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
				Model: openai.ChatModel(cfg.Model),
				Messages: []openai.ChatCompletionMessageParamUnion{
					openai.SystemMessage(systemPrompt),
					openai.UserMessage(text),
				},
				Temperature: openai.Float(0),
			})
			if err != nil {
				return err
			}
			if len(resp.Choices) == 0 {
				return errors.New("model returned no choices")
			}
			raw = resp.Choices[0].Message.Content
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(cfg.MaxAttempts),
		retry.Delay(cfg.RetryDelay),
	)
	if err != nil {
		return nil, fmt.Errorf("LLM TOC extraction failed: %w", err)
	}

	tree, err := toc.ParseWire([]byte(stripCodeFence(raw)))
	if err != nil {
		return nil, fmt.Errorf("model returned an unusable TOC: %w", err)
	}

	translateToAbsolute(tree, req.ContentPage)
	return tree, nil
}

// translateToAbsolute shifts printed content-page numbers onto absolute PDF
// pages: absolute = contentPage + printed - 1.
func translateToAbsolute(tree *toc.Tree, contentPage int) {
	if contentPage < 1 {
		contentPage = 1
	}
	offset := contentPage - 1

	var shift func(nodes []*toc.Node)
	shift = func(nodes []*toc.Node) {
		for _, n := range nodes {
			n.Page += offset
			if n.EndPage > 0 {
				n.EndPage += offset
			}
			shift(n.Subtopics)
		}
	}
	shift(tree.Chapters)
	tree.ContentStartPage = 1
}

// stripCodeFence removes a surrounding markdown code fence, which some
// models emit despite instructions.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
