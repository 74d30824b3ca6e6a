// Package server runs the development HTTP server. Every page request is
// dispatched against a freshly built route table; asset directories are
// served straight from the template root.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path"
	"path/filepath"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/phpnomad/documentation/internal/compile"
	"github.com/phpnomad/documentation/internal/logfields"
	"github.com/phpnomad/documentation/internal/metrics"
	"github.com/phpnomad/documentation/internal/server/middleware"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = ":8080"

// Assets names the asset subdirectories under Root served at /public/<dir>/.
type Assets struct {
	Root string
	Dirs []string
}

// Server represents the development server.
type Server struct {
	Addr     string
	router   *chi.Mux
	server   *http.Server
	logger   *slog.Logger
	registry *prometheus.Registry
}

// Option configures a Server.
type Option func(*Server)

// WithMetrics exposes reg on /metrics.
func WithMetrics(reg *prometheus.Registry) Option {
	return func(s *Server) { s.registry = reg }
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// New creates a server listening on addr. pages handles every request that is
// not an asset, health or metrics request.
func New(addr string, pages http.Handler, assets Assets, opts ...Option) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	s := &Server{
		Addr:   addr,
		router: chi.NewRouter(),
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRoutes(pages, assets)

	s.server = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes(pages http.Handler, assets Assets) {
	s.router.Use(chimw.RequestID)
	s.router.Use(chimw.RealIP)
	s.router.Use(middleware.Chain(s.logger))

	s.router.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"healthy"}`))
	})
	if s.registry != nil {
		s.router.Handle("/metrics", metrics.HTTPHandler(s.registry))
	}

	for _, sub := range assets.Dirs {
		prefix := path.Join("/", compile.PublicDir, sub)
		files := http.FileServer(http.Dir(filepath.Join(assets.Root, sub)))
		s.router.Handle(prefix+"/*", http.StripPrefix(prefix, files))
	}

	s.router.Handle("/*", pages)
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start listens until Shutdown is called. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.logger.Info("Development server listening", slog.String("addr", s.Addr))
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		s.logger.Error("Server stopped", logfields.Error(err))
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// Run starts the server and shuts it down when ctx is done.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	}
}
