package web

import (
	"net/http"
	"strings"

	"github.com/cargoport/etl/internal/model"
)

func (s *Server) handleListProducts(w http.ResponseWriter, r *http.Request) {
	// ?sku= short-circuits to a natural-key lookup
	if sku := r.URL.Query().Get("sku"); sku != "" {
		p, found, err := s.store.GetProductBySKU(r.Context(), strings.ToUpper(strings.TrimSpace(sku)))
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, []model.Product{})
			return
		}
		writeJSON(w, http.StatusOK, []model.Product{p})
		return
	}

	limit, offset := pagination(r)
	products, err := s.store.ListProducts(r.Context(), limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

func (s *Server) handleGetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	p, err := s.store.GetProduct(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	var p model.Product
	if err := decodeJSON(r, &p); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if p.Name == "" || p.SKU == "" {
		badRequest(w, "name and sku are required")
		return
	}
	p.SKU = strings.ToUpper(strings.TrimSpace(p.SKU))

	created, err := s.store.CreateProduct(r.Context(), p)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var patch model.ProductPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.store.UpdateProduct(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteProduct(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
