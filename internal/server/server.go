package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/kerlouan/fitbridge/internal/storage"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	db     *storage.DB
	log    *slog.Logger
	apiKey string
	router chi.Router
}

// New creates a new Server with all routes configured.
func New(db *storage.DB, apiKey string, log *slog.Logger) *Server {
	s := &Server{
		db:     db,
		log:    log,
		apiKey: apiKey,
		router: chi.NewRouter(),
	}
	s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Admin endpoints (API key required)
	s.router.Route("/api/v1/admin", func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/refresh-distances", s.handleRefreshDistances)
		r.Get("/ingest-runs", s.handleIngestRuns)
	})

	// Dashboard API endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleQueryWorkouts)
	s.router.Get("/api/v1/workouts/{id}", s.handleGetWorkout)
	s.router.Get("/api/v1/workouts/{id}/points", s.handleGetWorkoutPoints)
	s.router.Get("/api/v1/stats", s.handleStats)
	s.router.Get("/api/v1/health", s.handleHealth)
}
