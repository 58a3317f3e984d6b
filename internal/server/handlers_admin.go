package server

import (
	"net/http"
	"time"
)

func (s *Server) getStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.deps.Stats(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (s *Server) setupDatabase(w http.ResponseWriter, r *http.Request) {
	statuses, err := s.deps.Bootstrap(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"message": "Database setup complete",
		"tables":  statuses,
	})
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.DB.Ping(r.Context()); err != nil {
		s.logger.Error("health check failed", "err", err)
		respondJSON(w, http.StatusInternalServerError, map[string]string{
			"status": "unhealthy",
			"error":  "database unreachable",
		})
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
