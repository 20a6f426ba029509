// Package api serves the timeline, catalog, plan and preferences as a small
// local JSON API for companion front ends.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"

	"github.com/julianstephens/shiftwake/internal/constants"
	"github.com/julianstephens/shiftwake/internal/logger"
	"github.com/julianstephens/shiftwake/internal/storage"
	"github.com/julianstephens/shiftwake/internal/timeline"
)

type Server struct {
	store  storage.Provider
	calc   *timeline.Calculator
	now    func() time.Time
	router *chi.Mux
}

func New(store storage.Provider, calc *timeline.Calculator) *Server {
	s := &Server{
		store:  store,
		calc:   calc,
		now:    time.Now,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))
	s.router.Use(httprate.LimitByIP(constants.APIRequestsPerSec, time.Second))
	s.router.Use(middleware.Recoverer)

	s.router.Route(constants.APIPrefix, func(r chi.Router) {
		r.Get("/timeline", s.handleTimeline)
		r.Get("/reminder.ics", s.handleReminder)

		r.Route("/shifts", func(r chi.Router) {
			r.Get("/", s.handleListShifts)
			r.Post("/", s.handleCreateShift)
			r.Put("/{id}", s.handleUpdateShift)
			r.Delete("/{id}", s.handleDeleteShift)
		})

		r.Route("/week", func(r chi.Router) {
			r.Get("/", s.handleGetWeek)
			r.Put("/{day}", s.handleSetDay)
		})

		r.Get("/preferences", s.handleGetPreferences)
		r.Patch("/preferences", s.handlePatchPreferences)
	})
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("api listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		logger.Info("api shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
