// Package server exposes the review engine over HTTP.
//
// Documents live in a configured root directory and are addressed by base
// name. The service reads and edits them in place; it never accepts
// uploads. Edits of the same document are serialized.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	docreview "github.com/tsawler/docreview"
	"github.com/tsawler/docreview/config"
	"github.com/tsawler/docreview/logging"
)

// Server is the HTTP review service.
type Server struct {
	cfg         config.ServerConfig
	engine      *docreview.Engine
	logger      logging.Logger
	metrics     http.Handler
	metricsPath string
	locks       *keyedMutex
	router      *gin.Engine
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for request and error logging.
func WithLogger(l logging.Logger) Option {
	return func(s *Server) {
		s.logger = logging.OrNop(l)
	}
}

// WithMetrics serves h at path. Without it no metrics route is registered.
func WithMetrics(path string, h http.Handler) Option {
	return func(s *Server) {
		s.metricsPath = path
		s.metrics = h
	}
}

// New builds a Server over engine.
func New(cfg config.ServerConfig, engine *docreview.Engine, opts ...Option) *Server {
	s := &Server{
		cfg:    cfg,
		engine: engine,
		logger: logging.NewNopLogger(),
		locks:  newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// Handler returns the HTTP handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully within the shutdown timeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("http server listening",
			logging.String("addr", s.cfg.Addr),
			logging.String("document_root", s.cfg.DocumentRoot))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}
