// Package api serves studies and archived results over HTTP.
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	handlerapi "github.com/newthinker/trendkit/internal/api/handler/api"
	"github.com/newthinker/trendkit/internal/metrics"
	"github.com/newthinker/trendkit/internal/storage/archive"
	"github.com/newthinker/trendkit/internal/study"
)

// Server represents the trendkit HTTP server
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host         string
	Port         int
	MaxBodyBytes int64
	Timeout      time.Duration
	MetricsPath  string
}

// Dependencies holds the services the handlers use. Results and Metrics
// are optional.
type Dependencies struct {
	Engine  *study.Engine
	Results *archive.ResultStore
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.Engine == nil {
		return nil, fmt.Errorf("study engine is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	mux := http.NewServeMux()
	s := &Server{
		logger: logger,
		mux:    mux,
	}
	s.setupRoutes(deps, cfg.MetricsPath)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.middleware(mux, deps.Metrics, cfg.MaxBodyBytes),
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(deps Dependencies, metricsPath string) {
	// a nil *ResultStore must reach the handlers as a nil interface
	var results handlerapi.ResultStore
	if deps.Results != nil {
		results = deps.Results
	}

	studies := handlerapi.NewStudiesHandler(deps.Engine, results, s.logger)
	archived := handlerapi.NewResultsHandler(results)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	s.mux.HandleFunc("GET /api/v1/studies", studies.List)
	s.mux.HandleFunc("POST /api/v1/studies/{name}", studies.Compute)
	s.mux.HandleFunc("GET /api/v1/results", archived.List)
	s.mux.HandleFunc("GET /api/v1/results/{key...}", archived.Get)

	if deps.Metrics != nil && metricsPath != "" {
		s.mux.Handle("GET "+metricsPath, deps.Metrics.Handler())
	}
}

// middleware wraps h with request logging, metrics and a body size limit,
// outermost first.
func (s *Server) middleware(h http.Handler, reg *metrics.Registry, maxBody int64) http.Handler {
	if maxBody > 0 {
		inner := h
		h = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Body = http.MaxBytesReader(w, r.Body, maxBody)
			inner.ServeHTTP(w, r)
		})
	}
	if reg != nil {
		h = metrics.HTTPMiddleware(reg)(h)
	}
	return metrics.LoggingMiddleware(s.logger)(h)
}

// Handler returns the fully wrapped handler
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server and blocks until it stops
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
