package store

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/shopspring/decimal"
)

func TestNumericRoundTrip(t *testing.T) {
	values := []string{"0", "19.99", "-5.50", "59.97", "123456789.123456789", "0.0001"}

	for _, v := range values {
		d := decimal.RequireFromString(v)
		n, err := ToPgNumeric(d)
		if err != nil {
			t.Fatalf("ToPgNumeric(%s) error = %v", v, err)
		}
		got := FromPgNumeric(n)
		if !got.Equal(d) {
			t.Errorf("round trip %s = %s", v, got)
		}
	}
}

func TestFromPgNumeric_Null(t *testing.T) {
	got := FromPgNumeric(pgtype.Numeric{})
	if !got.Equal(decimal.Zero) {
		t.Errorf("NULL numeric = %s, want 0", got)
	}
}

func TestUUIDRoundTrip(t *testing.T) {
	id := uuid.New()
	if got := FromPgUUID(ToPgUUID(id)); got != id {
		t.Errorf("round trip = %s, want %s", got, id)
	}
}

func TestDateRoundTrip(t *testing.T) {
	if FromPgDate(ToPgDate(nil)) != nil {
		t.Error("nil date should survive the round trip as nil")
	}

	day := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	got := FromPgDate(ToPgDate(&day))
	if got == nil || !got.Equal(day) {
		t.Errorf("round trip = %v, want %v", got, day)
	}
}

func TestTextRoundTrip(t *testing.T) {
	if got := FromPgText(ToPgText("")); got != "" {
		t.Errorf("empty text = %q", got)
	}
	if ToPgText("").Valid {
		t.Error("empty string should map to NULL")
	}
	if got := FromPgText(ToPgText("hello")); got != "hello" {
		t.Errorf("text = %q, want hello", got)
	}
}
