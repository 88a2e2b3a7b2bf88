package web

import (
	"io"
	"net/http"

	"github.com/cargoport/etl/internal/pipeline"
)

// handleUpload accepts a multipart file submission and dispatches a
// background pipeline run for it. The optional file_type form value hints
// the entity type; without it the filename keywords decide.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	maxSize := s.cfg.ETL.MaxFileSize
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil {
		badRequest(w, "file too large or invalid form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		badRequest(w, "no file provided")
		return
	}
	defer file.Close()

	hint := pipeline.EntityAuto
	if v := r.FormValue("file_type"); v != "" {
		switch pipeline.EntityType(v) {
		case pipeline.EntityCustomers, pipeline.EntityProducts, pipeline.EntityOrders, pipeline.EntityAuto:
			hint = pipeline.EntityType(v)
		default:
			badRequest(w, "file_type must be customers, products, orders or auto")
			return
		}
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}

	fileID, err := s.service.SubmitFile(header.Filename, data, hint)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"file_id": fileID})
}

// handleRunBatch runs the pipeline over every discovered input file,
// blocking until the run finishes, and returns the run report.
func (s *Server) handleRunBatch(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.RunBatch(r.Context())
	if err != nil {
		s.respondError(w, r, err, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// handleStatus reports the orchestrator state and the last finished run.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.service.Status())
}
