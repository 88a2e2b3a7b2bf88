package web

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/cargoport/etl/internal/pipeline"
	"github.com/cargoport/etl/internal/store"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		err  error
		code string
	}{
		{store.ErrNotFound, "NOT_FOUND"},
		{fmt.Errorf("get customer: %w", store.ErrNotFound), "NOT_FOUND"},
		{pipeline.ErrFileNotFound, "FILE_NOT_FOUND"},
		{pipeline.ErrUnsupportedFormat, "UNSUPPORTED_FORMAT"},
		{errors.New(`ERROR: duplicate key value violates unique constraint "customers_email_key"`), "DUPLICATE"},
		{errors.New("insert or update violates foreign key constraint"), "FOREIGN_KEY"},
		{errors.New("file exceeds 104857600 byte limit"), "FILE_TOO_LARGE"},
		{errors.New("something internal with a connection string"), "INTERNAL"},
	}

	for _, tt := range tests {
		msg, code := mapError(tt.err)
		if code != tt.code {
			t.Errorf("mapError(%v) code = %q, want %q", tt.err, code, tt.code)
		}
		if msg == "" {
			t.Errorf("mapError(%v) produced empty message", tt.err)
		}
	}
}

func TestMapError_NeverLeaksInternals(t *testing.T) {
	msg, _ := mapError(errors.New("pq: password authentication failed for user admin"))
	if msg != "internal error" {
		t.Errorf("unrecognized error leaked: %q", msg)
	}
}

func TestStatusFor(t *testing.T) {
	if got := statusFor(store.ErrNotFound); got != http.StatusNotFound {
		t.Errorf("statusFor(ErrNotFound) = %d", got)
	}
	if got := statusFor(errors.New("boom")); got != http.StatusInternalServerError {
		t.Errorf("statusFor(other) = %d", got)
	}
}
