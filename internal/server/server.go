// Package server exposes the task store over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"todo/internal/intent"
	"todo/internal/taskstore"
)

const shutdownTimeout = 5 * time.Second

// Server serializes every request that touches the store through one mutex,
// so the store keeps a single writer.
type Server struct {
	mu         sync.Mutex
	dispatcher *intent.Dispatcher
	logger     *log.Logger
	celebrate  bool
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithCelebrate toggles the celebrate flag in mutation responses.
func WithCelebrate(enabled bool) Option {
	return func(s *Server) { s.celebrate = enabled }
}

// New creates a server for store.
func New(store *taskstore.Store, opts ...Option) *Server {
	s := &Server{
		dispatcher: intent.NewDispatcher(store, nil),
		celebrate:  true,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.New(io.Discard)
	}
	return s
}

// Router builds the chi router with all routes and middleware.
func (s *Server) Router() chi.Router {
	r := chi.NewRouter()

	r.Use(RequestID)
	r.Use(Logger(s.logger))
	r.Use(Recovery(s.logger))

	r.Get("/health", s.health)
	r.Get("/progress", s.progress)

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", s.list)
		r.Post("/", s.add)
		r.Patch("/{id}", s.toggle)
		r.Delete("/{id}", s.remove)
		r.Post("/{id}/edit", s.edit)
	})

	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
