// Package api exposes vertex scoring over a small JSON HTTP surface. The
// estimation core itself stays transport-free; this adapter only decodes
// tables, runs the scoring service and encodes results.
package api

import (
	"encoding/json"
	"log"
	"net/http"

	"goanomaly/domain/core"
	"goanomaly/ports"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the HTTP scoring server.
type Server struct {
	router *chi.Mux
	repo   ports.FeatureRepository
}

// NewServer creates a server for stateless scoring: callers supply all
// three tables with every request.
func NewServer() *Server {
	return newServer(nil)
}

// NewServerWithRepository additionally mounts the history-backed routes:
// window ingestion and scoring against persisted reference tables.
func NewServerWithRepository(repo ports.FeatureRepository) *Server {
	return newServer(repo)
}

func newServer(repo ports.FeatureRepository) *Server {
	s := &Server{router: chi.NewRouter(), repo: repo}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/score", s.handleScore)
		r.Post("/score/batch", s.handleScoreBatch)
		r.Post("/combine", s.handleCombine)

		if s.repo != nil {
			r.Post("/vertices/{vertex}/score", s.handleScoreFromHistory)
			r.Post("/windows/{window}/edges", s.handleIngestWindow)
		}
	})

	return s
}

// Router returns the mounted router.
func (s *Server) Router() http.Handler {
	return s.router
}

// ListenAndServe starts serving on the given address.
func (s *Server) ListenAndServe(addr string) error {
	log.Printf("[API] Listening on %s", addr)
	return http.ListenAndServe(addr, s.router)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("[API] Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	if core.IsConfigError(err) || core.IsInputError(err) {
		status = http.StatusBadRequest
	} else if core.IsNotFoundError(err) {
		status = http.StatusNotFound
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
