// Package svcctx provides service context for dependency injection via context.
// This package is separate from server to avoid import cycles with endpoints.
package svcctx

import (
	"context"
	"log/slog"

	"github.com/bindery/bindery/internal/config"
	"github.com/bindery/bindery/internal/docstore"
	"github.com/bindery/bindery/internal/engine"
	"github.com/bindery/bindery/internal/home"
	"github.com/bindery/bindery/internal/llmtoc"
	"github.com/bindery/bindery/internal/toc"
)

// Services holds all core services that flow through context.
// Components extract what they need via the individual extractors.
type Services struct {
	Home         *home.Dir
	Documents    *docstore.Store
	EditedTOCs   *toc.Store
	Engine       *engine.Engine
	LLMExtractor *llmtoc.Extractor
	ConfigMgr    *config.Manager
	Logger       *slog.Logger
}

type servicesKey struct{}

// WithServices returns a new context with services attached.
func WithServices(ctx context.Context, s *Services) context.Context {
	return context.WithValue(ctx, servicesKey{}, s)
}

// ServicesFrom extracts the full Services struct from context.
// Returns nil if not present.
func ServicesFrom(ctx context.Context) *Services {
	s, _ := ctx.Value(servicesKey{}).(*Services)
	return s
}

// HomeFrom extracts the home directory from context.
func HomeFrom(ctx context.Context) *home.Dir {
	if s := ServicesFrom(ctx); s != nil {
		return s.Home
	}
	return nil
}

// DocumentsFrom extracts the document store from context.
func DocumentsFrom(ctx context.Context) *docstore.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.Documents
	}
	return nil
}

// EditedTOCsFrom extracts the edited-TOC store from context.
func EditedTOCsFrom(ctx context.Context) *toc.Store {
	if s := ServicesFrom(ctx); s != nil {
		return s.EditedTOCs
	}
	return nil
}

// EngineFrom extracts the split job engine from context.
func EngineFrom(ctx context.Context) *engine.Engine {
	if s := ServicesFrom(ctx); s != nil {
		return s.Engine
	}
	return nil
}

// LLMExtractorFrom extracts the LLM TOC extractor from context.
func LLMExtractorFrom(ctx context.Context) *llmtoc.Extractor {
	if s := ServicesFrom(ctx); s != nil {
		return s.LLMExtractor
	}
	return nil
}

// ConfigFrom extracts the config manager from context.
func ConfigFrom(ctx context.Context) *config.Manager {
	if s := ServicesFrom(ctx); s != nil {
		return s.ConfigMgr
	}
	return nil
}

// LoggerFrom extracts the logger from context.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if s := ServicesFrom(ctx); s != nil {
		return s.Logger
	}
	return nil
}
