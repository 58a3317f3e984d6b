package server

import (
	"net/http"

	"github.com/rickgao/shopwatch/internal/model"
)

func (s *Server) listMonitoringConfigs(w http.ResponseWriter, r *http.Request) {
	configs, err := s.deps.Configs.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, configs)
}

func (s *Server) saveMonitoringConfig(w http.ResponseWriter, r *http.Request) {
	var in model.MonitoringConfigInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	// Atomic insert-or-update: repeated saves for the same company
	// update in place, concurrent saves cannot duplicate rows.
	cfg, err := s.deps.Configs.Upsert(r.Context(), in)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, cfg)
}

func (s *Server) deleteMonitoringConfig(w http.ResponseWriter, r *http.Request) {
	companyID, ok := idParam(w, r, "companyID")
	if !ok {
		return
	}

	if err := s.deps.Configs.Delete(r.Context(), companyID); err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Monitoring config deleted"})
}
