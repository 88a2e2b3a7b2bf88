package web

import (
	"net/http"
	"strings"

	"github.com/cargoport/etl/internal/model"
)

func (s *Server) handleListCustomers(w http.ResponseWriter, r *http.Request) {
	// ?email= short-circuits to a natural-key lookup
	if email := r.URL.Query().Get("email"); email != "" {
		c, found, err := s.store.GetCustomerByEmail(r.Context(), strings.ToLower(strings.TrimSpace(email)))
		if err != nil {
			s.respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		if !found {
			writeJSON(w, http.StatusOK, []model.Customer{})
			return
		}
		writeJSON(w, http.StatusOK, []model.Customer{c})
		return
	}

	limit, offset := pagination(r)
	customers, err := s.store.ListCustomers(r.Context(), limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if customers == nil {
		customers = []model.Customer{}
	}
	writeJSON(w, http.StatusOK, customers)
}

func (s *Server) handleGetCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	c, err := s.store.GetCustomer(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (s *Server) handleCreateCustomer(w http.ResponseWriter, r *http.Request) {
	var c model.Customer
	if err := decodeJSON(r, &c); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if c.FullName == "" || c.Email == "" {
		badRequest(w, "full_name and email are required")
		return
	}
	c.Email = strings.ToLower(strings.TrimSpace(c.Email))

	created, err := s.store.CreateCustomer(r.Context(), c)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var patch model.CustomerPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.store.UpdateCustomer(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteCustomer(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListCustomerOrders(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	orders, err := s.store.ListOrdersByCustomer(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}
