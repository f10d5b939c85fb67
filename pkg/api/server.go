// Package api serves the classification pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness and build info
//	POST /v1/classify          options + datasets + regions → classified map
//	POST /v1/legend?format=    options + datasets → rendered legend (svg, json, png, pdf)
//	GET  /v1/results           stored runs, newest first (?limit=)
//	GET  /v1/results/{id}      one stored run
//
// Request bodies are [pipeline.Options] in JSON; datasets usually carry
// their values inline under "data". Errors are JSON objects with the error
// code, and misconfiguration maps to 400.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/statmap/pkg/errors"
	"github.com/matzehuels/statmap/pkg/pipeline"
	"github.com/matzehuels/statmap/pkg/store"
)

// Server defaults.
const (
	DefaultAddr    = ":8080"
	DefaultTimeout = 60 * time.Second
	MaxBodyBytes   = 32 << 20
)

// Server is the HTTP front end of a pipeline runner.
type Server struct {
	runner  *pipeline.Runner
	store   store.Store
	logger  *log.Logger
	timeout time.Duration
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithStore persists every classify run. Without a store the results
// routes answer 404.
func WithStore(s store.Store) Option { return func(srv *Server) { srv.store = s } }

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option { return func(srv *Server) { srv.logger = l } }

// WithTimeout bounds each request.
func WithTimeout(d time.Duration) Option { return func(srv *Server) { srv.timeout = d } }

// New returns a server for runner.
func New(runner *pipeline.Runner, opts ...Option) *Server {
	s := &Server{
		runner:  runner,
		logger:  log.Default(),
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.setupRouter()
	return s
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/classify", s.handleClassify)
		r.Post("/legend", s.handleLegend)
		r.Get("/results", s.handleListResults)
		r.Get("/results/{id}", s.handleGetResult)
	})
	s.router = r
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = DefaultAddr
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.timeout + 5*time.Second,
		IdleTimeout:       2 * time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting HTTP server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- errors.Wrap(errors.ErrCodeNetwork, err, "listen on %s", addr)
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.logger.Info("stopping HTTP server")
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		return err
	}
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"request_id", middleware.GetReqID(r.Context()),
			"duration", time.Since(start))
	})
}
