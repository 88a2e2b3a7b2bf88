package web

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/cargoport/etl/internal/model"
)

// validLookupTables mirrors the dictionaries the store knows about.
var validLookupTables = map[model.LookupTable]bool{
	model.LookupProductCategories: true,
	model.LookupPaymentMethods:    true,
	model.LookupOrderStatuses:     true,
	model.LookupShipmentStatuses:  true,
	model.LookupVehicleTypes:      true,
}

func lookupTable(r *http.Request) (model.LookupTable, bool) {
	table := model.LookupTable(chi.URLParam(r, "table"))
	return table, validLookupTables[table]
}

func (s *Server) handleListLookup(w http.ResponseWriter, r *http.Request) {
	table, ok := lookupTable(r)
	if !ok {
		badRequest(w, "unknown dictionary")
		return
	}

	lookups, err := s.store.ListLookup(r.Context(), table)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	if lookups == nil {
		lookups = []model.Lookup{}
	}
	writeJSON(w, http.StatusOK, lookups)
}

func (s *Server) handleCreateLookup(w http.ResponseWriter, r *http.Request) {
	table, ok := lookupTable(r)
	if !ok {
		badRequest(w, "unknown dictionary")
		return
	}

	var l model.Lookup
	if err := decodeJSON(r, &l); err != nil {
		badRequest(w, "invalid request body: "+err.Error())
		return
	}
	if l.Code == "" {
		badRequest(w, "code is required")
		return
	}

	created, err := s.store.CreateLookup(r.Context(), table, l)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleDeleteLookup(w http.ResponseWriter, r *http.Request) {
	table, ok := lookupTable(r)
	if !ok {
		badRequest(w, "unknown dictionary")
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil {
		badRequest(w, "invalid id: must be an integer")
		return
	}

	if err := s.store.DeleteLookup(r.Context(), table, int32(id)); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
