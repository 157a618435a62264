// Package server runs the bindery HTTP server.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/bindery/bindery/internal/api"
	"github.com/bindery/bindery/internal/config"
	"github.com/bindery/bindery/internal/docstore"
	"github.com/bindery/bindery/internal/engine"
	"github.com/bindery/bindery/internal/home"
	"github.com/bindery/bindery/internal/llmtoc"
	"github.com/bindery/bindery/internal/server/endpoints"
	"github.com/bindery/bindery/internal/svcctx"
	"github.com/bindery/bindery/internal/toc"
)

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Home is the bindery home directory. Required.
	Home *home.Dir
	// ConfigManager provides configuration with hot-reload support.
	ConfigManager *config.Manager
	// Logger is the structured logger to use.
	Logger *slog.Logger
}

// Server is the bindery HTTP server. It owns the in-memory document, TOC,
// and job stores and the split job engine; all of it lives and dies with
// the process.
type Server struct {
	httpServer *http.Server
	engine     *engine.Engine
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// New creates a new Server with the given configuration.
func New(cfg Config) (*Server, error) {
	if cfg.Host == "" {
		cfg.Host = "127.0.0.1"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Home == nil {
		return nil, errors.New("home directory is required")
	}

	jobStore := engine.NewStore()
	eng := engine.New(engine.Config{
		Store:      jobStore,
		OutputsDir: cfg.Home.OutputsDir(),
		Logger:     cfg.Logger,
	})

	// LLM TOC extraction follows the live config; a config file edit swaps
	// the client without a restart.
	var llmExtractor *llmtoc.Extractor
	if cfg.ConfigManager != nil {
		llmExtractor = llmtoc.New(cfg.ConfigManager.Get().ToLLMConfig(), cfg.Logger)
	} else {
		llmExtractor = llmtoc.New(llmtoc.Config{}, cfg.Logger)
	}

	s := &Server{
		engine: eng,
		logger: cfg.Logger,
	}

	s.services = &svcctx.Services{
		Home:         cfg.Home,
		Documents:    docstore.NewStore(),
		EditedTOCs:   toc.NewStore(),
		Engine:       eng,
		LLMExtractor: llmExtractor,
		ConfigMgr:    cfg.ConfigManager,
		Logger:       cfg.Logger,
	}

	if cfg.ConfigManager != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			llmExtractor.Reload(c.ToLLMConfig())
			cfg.Logger.Info("LLM TOC extractor reloaded from config")
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry()
	for _, ep := range endpoints.All() {
		s.endpointRegistry.Register(ep)
	}

	// Set up HTTP server
	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, nil)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  10 * time.Minute, // Large book uploads
		WriteTimeout: 10 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server. It blocks until the context is cancelled or an
// error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()

	// Start HTTP server in goroutine
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	// Wait for context cancellation or error
	select {
	case <-ctx.Done():
		s.logger.Info("shutdown signal received")
	case err := <-errCh:
		if err != nil {
			s.setNotRunning()
			return fmt.Errorf("HTTP server error: %w", err)
		}
	}

	return s.shutdown()
}

// shutdown performs graceful shutdown, letting in-flight split jobs finish.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}

	s.logger.Info("waiting for in-flight split jobs")
	s.engine.Wait()

	s.setNotRunning()
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) setNotRunning() {
	s.mu.Lock()
	s.running = false
	s.mu.Unlock()
}

// IsRunning returns whether the server is currently running.
func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

// Addr returns the server's listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Engine returns the split job engine.
func (s *Server) Engine() *engine.Engine {
	return s.engine
}

// Handler returns the fully wired HTTP handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// withServices wraps a handler to enrich the request context with services.
func (s *Server) withServices(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if s.services != nil {
			ctx = svcctx.WithServices(ctx, s.services)
		}
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
