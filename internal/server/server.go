// Package server exposes the netblend pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz              liveness probe
//	POST /v1/layout            network config -> scene JSON
//	POST /v1/render?format=stl network config -> rendered artifact
//
// Request bodies carry the architecture inline together with optional layout
// parameters:
//
//	{"arch": [784, [28, 28], 10], "origin": [0, 0, 0], "centered": true}
//
// Errors are JSON objects {"error": "...", "code": "..."}. Errors caused by
// the request map to 400, everything else to 500.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/netblend/netblend/pkg/buildinfo"
	"github.com/netblend/netblend/pkg/observability"
	"github.com/netblend/netblend/pkg/pipeline"
)

// DefaultMaxBodyBytes caps request bodies.
const DefaultMaxBodyBytes = 8 << 20

const shutdownTimeout = 5 * time.Second

// Server serves the HTTP API on top of a pipeline runner.
type Server struct {
	runner   *pipeline.Runner
	logger   *log.Logger
	defaults   *pipeline.FileConfig
	maxBody    int64
	maxNeurons int
	router     chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithDefaults fills request fields left unset from a config file.
func WithDefaults(cfg *pipeline.FileConfig) Option {
	return func(s *Server) { s.defaults = cfg }
}

// WithMaxBodyBytes overrides [DefaultMaxBodyBytes].
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) { s.maxBody = n }
}

// WithMaxNeurons rejects networks with more than n neurons with a 400.
// Unset, the config file's layout.max_neurons and then
// [pipeline.DefaultMaxNeurons] apply.
func WithMaxNeurons(n int) Option {
	return func(s *Server) { s.maxNeurons = n }
}

// New creates a server. A nil logger falls back to the runner's logger.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = runner.Logger
	}
	s := &Server{
		runner:  runner,
		logger:  logger.WithPrefix("http"),
		maxBody: DefaultMaxBodyBytes,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layout", s.handleLayout)
		r.Post("/render", s.handleRender)
	})
	return r
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown failed", "err", err)
		return srv.Close()
	}
	return nil
}

// observe reports requests to the HTTP hooks and the debug log.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()
		observability.HTTP().OnRequest(ctx, r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		ww.Header().Set("Server", buildinfo.UserAgent())
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		dur := time.Since(start)
		observability.HTTP().OnResponse(ctx, r.Method, r.URL.Path, status, dur)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", status,
			"bytes", ww.BytesWritten(),
			"duration", dur,
			"request_id", middleware.GetReqID(ctx))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
