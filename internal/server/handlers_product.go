package server

import (
	"errors"
	"net/http"

	"github.com/rickgao/shopwatch/internal/database"
	"github.com/rickgao/shopwatch/internal/ingest"
	"github.com/rickgao/shopwatch/internal/model"
)

func (s *Server) listProducts(w http.ResponseWriter, r *http.Request) {
	products, err := s.deps.Products.List(r.Context())
	if err != nil {
		s.serverError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, products)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var in model.ProductInput
	if !decodeBody(w, r, &in) {
		return
	}
	if err := in.Validate(); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	product, err := s.deps.Products.Insert(r.Context(), in)
	if err != nil {
		if database.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "Product with this Shopify ID already exists for this company")
			return
		}
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusCreated, product)
}

func (s *Server) bulkProducts(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Products []model.ProductInput `json:"products"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if body.Products == nil {
		respondError(w, http.StatusBadRequest, "products must be an array")
		return
	}

	result, err := s.deps.Ingestor.BulkProducts(r.Context(), body.Products)
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

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r, "id")
	if !ok {
		return
	}

	if err := s.deps.Products.Delete(r.Context(), id); err != nil {
		s.storeError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Product deleted"})
}
