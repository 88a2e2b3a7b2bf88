package web

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/cargoport/etl/internal/model"
	"github.com/cargoport/etl/internal/store"
)

func (s *Server) handleListOrderItems(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	items, err := s.store.ListOrderItems(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []model.OrderItem{}
	}
	writeJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	item, err := s.store.GetOrderItem(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) handleCreateOrderItem(w http.ResponseWriter, r *http.Request) {
	var item model.OrderItem
	if err := decodeJSON(r, &item); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if item.OrderID == uuid.Nil {
		badRequest(w, "order_id is required")
		return
	}
	if item.ProductID == uuid.Nil {
		badRequest(w, "product_id is required")
		return
	}
	if item.Quantity <= 0 {
		badRequest(w, "quantity must be positive")
		return
	}
	if item.PricePerUnit.IsNegative() {
		badRequest(w, "price_per_unit must not be negative")
		return
	}

	// Referenced rows must exist; a dangling reference is a client error,
	// not a constraint surprise.
	if _, err := s.store.GetOrder(r.Context(), item.OrderID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			badRequest(w, "order not found")
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if _, err := s.store.GetProduct(r.Context(), item.ProductID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			badRequest(w, "product not found")
			return
		}
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	created, err := s.store.CreateOrderItem(r.Context(), item)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	var patch model.OrderItemPatch
	if err := decodeJSON(r, &patch); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if patch.Quantity != nil && *patch.Quantity <= 0 {
		badRequest(w, "quantity must be positive")
		return
	}
	if patch.PricePerUnit != nil && patch.PricePerUnit.IsNegative() {
		badRequest(w, "price_per_unit must not be negative")
		return
	}

	updated, err := s.store.UpdateOrderItem(r.Context(), id, patch)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteOrderItem(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	if err := s.store.DeleteOrderItem(r.Context(), id); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
