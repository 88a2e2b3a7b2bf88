package web

// errors.go provides unified error response handling for the web layer.
// Technical errors are logged server-side with the request ID; clients
// receive a sanitized JSON body with a stable machine-readable code.

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/cargoport/etl/internal/logging"
	"github.com/cargoport/etl/internal/pipeline"
	"github.com/cargoport/etl/internal/store"
)

// ErrorResponse is the JSON structure for API error responses.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// respondError logs the technical error and writes a sanitized JSON response.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, statusCode int) {
	msg, code := mapError(err)

	logging.FromContext(r.Context()).Error("request error",
		"path", r.URL.Path,
		"method", r.Method,
		"status", statusCode,
		"error", err.Error(),
		"code", code,
		"request_id", middleware.GetReqID(r.Context()),
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(ErrorResponse{Error: msg, Code: code})
}

// mapError converts an internal error to a client-safe message and code.
// Unrecognized errors collapse to a generic message so internals never leak.
func mapError(err error) (message, code string) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return "resource not found", "NOT_FOUND"
	case errors.Is(err, pipeline.ErrFileNotFound):
		return "input file not found", "FILE_NOT_FOUND"
	case errors.Is(err, pipeline.ErrUnsupportedFormat):
		return "unsupported file format, expected .csv, .xlsx or .xls", "UNSUPPORTED_FORMAT"
	}

	s := err.Error()
	switch {
	case strings.Contains(s, "duplicate key"), strings.Contains(s, "unique constraint"):
		return "a record with this key already exists", "DUPLICATE"
	case strings.Contains(s, "foreign key"):
		return "referenced record does not exist", "FOREIGN_KEY"
	case strings.Contains(s, "exceeds") && strings.Contains(s, "byte limit"):
		return "file exceeds the maximum upload size", "FILE_TOO_LARGE"
	case strings.Contains(s, "invalid UUID"), strings.Contains(s, "invalid uuid"):
		return "identifier is not a valid UUID", "BAD_ID"
	}
	return "internal error", "INTERNAL"
}

// statusFor picks the HTTP status for a store error.
func statusFor(err error) int {
	if errors.Is(err, store.ErrNotFound) {
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// writeJSON encodes v as JSON with the given status code.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// badRequest writes a 400 with the literal message. Used for request shape
// problems where the message is already client-safe.
func badRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: message, Code: "BAD_REQUEST"})
}
