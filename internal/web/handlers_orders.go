package web

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cargoport/etl/internal/model"
)

func (s *Server) handleListOrders(w http.ResponseWriter, r *http.Request) {
	limit, offset := pagination(r)
	orders, err := s.store.ListOrders(r.Context(), limit, offset)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

func (s *Server) handleGetOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	o, err := s.store.GetOrder(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, o)
}

func (s *Server) handleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var o model.Order
	if err := decodeJSON(r, &o); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if o.CustomerID == uuid.Nil {
		badRequest(w, "customer_id is required")
		return
	}
	if o.TotalAmount.IsNegative() {
		badRequest(w, "total_amount must not be negative")
		return
	}

	created, err := s.store.CreateOrder(r.Context(), o)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var patch model.OrderPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}

	updated, err := s.store.UpdateOrder(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteOrder(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteOrder(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
