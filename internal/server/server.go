// Package server serves the explainer web forms and JSON API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"explainer/internal/config"
	"explainer/internal/core"
	"explainer/internal/explain"
	"explainer/internal/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server represents the HTTP server
type Server struct {
	router      *chi.Mux
	httpServer  *http.Server
	config      config.Server
	explainers  explain.Factory
	defaultMode core.BackendMode
	renderer    *TemplateRenderer
	started     time.Time
}

// New creates a new HTTP server instance
func New(cfg config.Server, defaultMode core.BackendMode, explainers explain.Factory) (*Server, error) {
	renderer, err := NewTemplateRenderer()
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:      chi.NewRouter(),
		config:      cfg,
		explainers:  explainers,
		defaultMode: defaultMode,
		renderer:    renderer,
		started:     time.Now(),
	}

	s.setupMiddleware()
	s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      3 * time.Minute,
	}

	return s, nil
}

// setupMiddleware configures middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(requestLogger)

	// Recovery middleware (recover from panics)
	s.router.Use(middleware.Recoverer)

	// Generation can be slow on a local model
	s.router.Use(middleware.Timeout(150 * time.Second))
	s.router.Use(securityHeaders)
}

// setupRoutes configures routes for the server
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)

	s.router.Route("/api", func(r chi.Router) {
		r.Use(noCache)
		r.Post("/explain", s.handleAPIExplain)
		r.Post("/ask", s.handleAPIAsk)
	})

	// Web routes (HTML pages)
	s.router.Get("/", s.handleHomePage)
	s.router.Get("/topic", s.handleTopicPage)
	s.router.Post("/topic", s.handleTopicPage)
	s.router.Get("/text", s.handleTextPage)
	s.router.Post("/text", s.handleTextPage)
}

// Start starts the HTTP server
func (s *Server) Start() error {
	logger.Info("Starting HTTP server", "addr", s.httpServer.Addr, "mode", string(s.defaultMode))

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed to start: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server
func (s *Server) Shutdown(ctx context.Context) error {
	logger.Info("Shutting down HTTP server gracefully...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("HTTP server stopped")
	return nil
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Router returns the chi router instance (useful for testing)
func (s *Server) Router() *chi.Mux {
	return s.router
}

// explainerFor resolves the explainer for mode, turning a factory error into
// a missing-configuration Result.
func (s *Server) explainerFor(ctx context.Context, mode core.BackendMode) (*explain.Explainer, *explain.Result) {
	e, err := s.explainers(ctx, mode)
	if err != nil {
		logger.Warn("Backend unavailable", "mode", string(mode), "error", err.Error())
		failed := explain.MissingConfig(err)
		return nil, &failed
	}
	return e, nil
}
