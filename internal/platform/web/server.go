// Package web exposes the shared leaderboard over HTTP so that hosts other
// than the terminal front-end can read it and store into it.
package web

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimid "github.com/go-chi/chi/v5/middleware"

	"github.com/vovakirdan/kojo/internal/leaderboard"
	"github.com/vovakirdan/kojo/internal/scoring"
	"github.com/vovakirdan/kojo/internal/storage"
)

// maxValueBytes bounds a stored value.
const maxValueBytes = 64 << 10

// History is the optional score history behind /api/scores.
type History interface {
	TopScores(limit int) ([]storage.ScoreEntry, error)
	Stats() ([]storage.PlayerStats, error)
}

// Options configures the HTTP bridge.
type Options struct {
	Store    scoring.Store
	Key      string // leaderboard key, scoring.DefaultKey when empty
	Capacity int    // leaderboard.DefaultCapacity when zero
	History  History
	Logger   *log.Logger
}

// NewServer wires routes and returns an http.Handler.
func NewServer(opts Options) http.Handler {
	if opts.Key == "" {
		opts.Key = scoring.DefaultKey
	}
	if opts.Capacity <= 0 {
		opts.Capacity = leaderboard.DefaultCapacity
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}

	h := &handlers{opts: opts, logger: opts.Logger.WithPrefix("http")}

	r := chi.NewRouter()
	r.Use(chimid.RequestID)
	r.Use(chimid.Recoverer)
	r.Use(h.logRequests)

	r.Get("/healthz", h.health)
	r.Route("/api", func(r chi.Router) {
		r.Get("/leaderboard", h.leaderboard)
		r.Get("/leaderboard/{name}", h.player)
		r.Get("/storage/{key}", h.getItem)
		r.Put("/storage/{key}", h.setItem)
		r.Get("/scores", h.scores)
		r.Get("/scores/stats", h.stats)
		r.Post("/scores/{player}", h.award)
	})
	return r
}

// Serve runs the handler on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string, handler http.Handler, logger *log.Logger) error {
	if logger == nil {
		logger = log.Default()
	}
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	logger.Info("starting HTTP server", "address", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
