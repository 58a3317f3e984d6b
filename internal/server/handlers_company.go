package server

import (
	"errors"
	"net/http"

	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
)

func (s *Server) listCompanies(w http.ResponseWriter, r *http.Request) {
	companies, err := s.deps.Companies.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, companies)
}

func (s *Server) createCompany(w http.ResponseWriter, r *http.Request) {
	var in model.CompanyInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	company, err := s.deps.Companies.Create(r.Context(), in)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, company)
}

func (s *Server) bulkCompanies(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Companies []model.CompanyInput `json:"companies"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Companies == nil {
		respondError(w, http.StatusBadRequest, "companies must be an array")
		return
	}

	result, err := s.deps.Ingestor.BulkCompanies(r.Context(), body.Companies)
	if err != nil {
		if errors.Is(err, ingest.ErrInvalidBatch) {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, result)
}

func (s *Server) setCompanyStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	var body struct {
		IsActive bool `json:"is_active"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	company, err := s.deps.Companies.SetActive(r.Context(), id, body.IsActive)
	if err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, company)
}

func (s *Server) deleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.deps.Companies.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{
		"message": "Company and all associated data deleted",
	})
}

func (s *Server) scanCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	company, err := s.deps.Configs.ActiveCompany(r.Context(), id)
	if err != nil {
		s.storeError(w, r, err)
		return
	}

	result, err := s.deps.Scanner.ScanCompany(r.Context(), *company)
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, result)
}
