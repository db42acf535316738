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

	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/spellpane/internal/api"
	"github.com/jackzampolin/spellpane/internal/config"
	"github.com/jackzampolin/spellpane/internal/document"
	"github.com/jackzampolin/spellpane/internal/server/endpoints"
	"github.com/jackzampolin/spellpane/internal/svcctx"
	"github.com/jackzampolin/spellpane/internal/workflow"
)

// Server is the task pane HTTP server.
// It serves the pane for one document and, when asked, keeps that document
// in sync with its file.
type Server struct {
	httpServer *http.Server
	workflow   *workflow.Workflow
	document   *document.Document
	watch      bool
	configMgr  *config.Manager
	logger     *slog.Logger

	// services holds all core services for context enrichment
	services *svcctx.Services

	// endpoints registry for HTTP routes
	endpointRegistry *api.Registry

	mu      sync.RWMutex
	running bool
}

// Config holds server configuration.
type Config struct {
	// Host is the address to bind to (default: 127.0.0.1)
	Host string
	// Port is the port to listen on (default: 8080)
	Port string
	// Workflow runs scans and actions. Without it only health, status and
	// the page are served.
	Workflow *workflow.Workflow
	// Document is the document the workflow edits.
	Document *document.Document
	// ServiceURL is reported by /status.
	ServiceURL string
	// Watch reloads and rescans the document when its file changes.
	Watch bool
	// ConfigManager provides configuration with hot-reload support
	ConfigManager *config.Manager
	// Logger is the structured logger to use
	Logger *slog.Logger
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
	if cfg.Watch && (cfg.Document == nil || cfg.Document.Path() == "") {
		return nil, errors.New("watch needs a document opened from a file")
	}

	s := &Server{
		workflow:  cfg.Workflow,
		document:  cfg.Document,
		watch:     cfg.Watch,
		configMgr: cfg.ConfigManager,
		logger:    cfg.Logger,
		services: &svcctx.Services{
			Workflow:   cfg.Workflow,
			Document:   cfg.Document,
			ServiceURL: cfg.ServiceURL,
			Logger:     cfg.Logger,
		},
	}

	// Apply pane settings on config changes
	if cfg.ConfigManager != nil && cfg.Workflow != nil {
		cfg.ConfigManager.OnChange(func(c *config.Config) {
			cfg.Workflow.SetTopN(c.Service.TopN)
			cfg.Workflow.SetNoticeTTL(c.Pane.NoticeTTL)
			cfg.Logger.Info("pane settings reloaded from config",
				"top_n", cfg.Workflow.TopN(),
				"notice_ttl", c.Pane.NoticeTTL)
		})
	}

	// Create endpoint registry and register all endpoints
	s.endpointRegistry = api.NewRegistry(endpoints.All()...)

	mux := http.NewServeMux()
	s.endpointRegistry.RegisterRoutes(mux, s.requireInit)

	s.httpServer = &http.Server{
		Addr:         net.JoinHostPort(cfg.Host, cfg.Port),
		Handler:      s.withServices(mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	return s, nil
}

// Start starts the server and, with Watch set, the document watcher.
// It blocks until the context is cancelled or an error occurs.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return errors.New("server already running")
	}
	s.running = true
	s.mu.Unlock()
	defer s.setNotRunning()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("starting HTTP server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		if ctx.Err() != nil {
			s.logger.Info("shutdown signal received")
		}
		return s.shutdown()
	})

	if s.watch {
		g.Go(func() error {
			return document.Watch(gctx, s.document, document.WatchConfig{
				OnChange: s.rescan,
				Logger:   s.logger,
			})
		})
	}

	err := g.Wait()
	s.logger.Info("server stopped")
	return err
}

// rescan runs a scan after the document changed on disk.
func (s *Server) rescan(ctx context.Context) {
	if s.workflow == nil {
		return
	}
	report, err := s.workflow.Scan(ctx)
	if err != nil {
		if workflow.Recoverable(err) {
			s.logger.Warn("rescan failed", "error", err)
			return
		}
		s.logger.Error("rescan failed", "error", err)
		return
	}
	s.logger.Info("document rescanned", "scan", report.ID, "misspelled", len(report.Misspelled))
}

// shutdown performs graceful shutdown of the HTTP server.
func (s *Server) shutdown() error {
	s.logger.Info("shutting down server")

	// Shutdown HTTP server with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Error("HTTP server shutdown error", "error", err)
	}
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

// Handler returns the server's HTTP handler, for use with httptest.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Workflow returns the workflow, or nil when none was configured.
func (s *Server) Workflow() *workflow.Workflow {
	return s.workflow
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

// requireInit is middleware that ensures a document is loaded.
// Returns 503 Service Unavailable if there is no workflow or document.
func (s *Server) requireInit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.workflow == nil || s.document == nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"error":"server not fully initialized"}`))
			return
		}
		next(w, r)
	}
}
