package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

const shutdownTimeout = 10 * time.Second

// Watcher exposes the state of the check loop.
type Watcher interface {
	Snapshot() models.Snapshot
	LastCheck() time.Time
}

// Counter reports how many recipients are registered.
type Counter interface {
	Len() int
}

// Status is the body of GET /status.
type Status struct {
	Products   int        `json:"products"`
	Recipients int        `json:"recipients"`
	LastCheck  *time.Time `json:"last_check"`
}

// NewRouter builds the liveness and status routes.
func NewRouter(watcher Watcher, recipients Counter) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/status", func(w http.ResponseWriter, _ *http.Request) {
		status := Status{
			Products:   len(watcher.Snapshot()),
			Recipients: recipients.Len(),
		}
		if ts := watcher.LastCheck(); !ts.IsZero() {
			status.LastCheck = &ts
		}
		writeJSON(w, http.StatusOK, status)
	})

	return r
}

// Server serves the status routes until its context ends.
type Server struct {
	log *slog.Logger
	srv *http.Server
}

// New creates a Server listening on addr.
func New(log *slog.Logger, addr string, handler http.Handler) *Server {
	return &Server{
		log: log,
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       60 * time.Second,
		},
	}
}

// Run listens until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	const opn = "httpserver.Run"

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("HTTP server starting", "op", opn, "addr", s.srv.Addr)
		errCh <- s.srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%s: %w", opn, err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("%s: shutdown: %w", opn, err)
	}
	s.log.Info("HTTP server stopped", "op", opn)

	return nil
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
