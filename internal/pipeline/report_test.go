package pipeline

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteErrors_NoopWhenEmpty(t *testing.T) {
	errorsDir := t.TempDir()
	r := NewReporter(t.TempDir(), errorsDir, nil)

	if err := r.WriteErrors("customers.csv", EntityCustomers, nil); err != nil {
		t.Fatalf("WriteErrors() error = %v", err)
	}
	entries, _ := os.ReadDir(errorsDir)
	if len(entries) != 0 {
		t.Errorf("empty rejected set produced %d files", len(entries))
	}
}

func TestWriteErrors_CSVShape(t *testing.T) {
	errorsDir := t.TempDir()
	r := NewReporter(t.TempDir(), errorsDir, nil)

	rows := []RejectedRow{
		{
			Line:       2,
			Columns:    []string{"full_name", "email"},
			Fields:     map[string]string{"full_name": "No Email", "email": ""},
			Violations: []string{"missing required fields: email", "invalid phone format"},
		},
	}
	if err := r.WriteErrors("customers.csv", EntityCustomers, rows); err != nil {
		t.Fatalf("WriteErrors() error = %v", err)
	}

	entries, err := os.ReadDir(errorsDir)
	if err != nil {
		t.Fatal(err)
	}
	var csvPath string
	for _, e := range entries {
		if strings.HasSuffix(e.Name(), ".csv") {
			csvPath = filepath.Join(errorsDir, e.Name())
		}
	}
	if csvPath == "" {
		t.Fatal("no CSV artifact written")
	}

	f, err := os.Open(csvPath)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("artifact has %d rows, want header + 1", len(records))
	}

	wantHeader := []string{"line", "full_name", "email", "violations"}
	for i, col := range wantHeader {
		if records[0][i] != col {
			t.Errorf("header[%d] = %q, want %q", i, records[0][i], col)
		}
	}
	if records[1][0] != "2" {
		t.Errorf("line = %q, want 2", records[1][0])
	}
	if records[1][3] != "missing required fields: email; invalid phone format" {
		t.Errorf("violations cell = %q", records[1][3])
	}
}

func TestWriteRunReport(t *testing.T) {
	outputDir := t.TempDir()
	r := NewReporter(outputDir, t.TempDir(), nil)

	report := RunReport{
		Timestamp: "20240315_120000",
		Statistics: map[EntityType]*EntityStats{
			EntityCustomers: {TotalProcessed: 3, Valid: 2, Rejected: 1, Created: 2},
		},
		Summary: RunSummary{TotalProcessed: 3, TotalValid: 2, TotalErrors: 1, TotalCreated: 2, SuccessRate: 66.67},
	}

	path, err := r.WriteRunReport(report)
	if err != nil {
		t.Fatalf("WriteRunReport() error = %v", err)
	}
	if filepath.Base(path) != "etl_report_20240315_120000.json" {
		t.Errorf("report path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"total_processed": 3`, `"success_rate": 66.67`, `"error_records": 1`} {
		if !strings.Contains(string(data), want) {
			t.Errorf("report missing %s:\n%s", want, data)
		}
	}
}

func TestRenderDashboard(t *testing.T) {
	outputDir := t.TempDir()

	report := RunReport{
		Timestamp: "20240315_120000",
		Statistics: map[EntityType]*EntityStats{
			EntityCustomers: {TotalProcessed: 3, Valid: 2, Rejected: 1, Created: 2},
			EntityOrders:    {TotalProcessed: 2, Valid: 1, Rejected: 1, Created: 1},
		},
		Summary: RunSummary{TotalProcessed: 5, TotalValid: 3, SuccessRate: 60},
	}

	path, err := RenderDashboard(outputDir, report)
	if err != nil {
		t.Fatalf("RenderDashboard() error = %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("dashboard not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("dashboard file is empty")
	}

	// PNG magic bytes.
	data, _ := os.ReadFile(path)
	if len(data) < 8 || string(data[1:4]) != "PNG" {
		t.Error("dashboard is not a PNG")
	}
}

func TestRenderDashboard_NoStats(t *testing.T) {
	_, err := RenderDashboard(t.TempDir(), RunReport{Timestamp: "x", Statistics: map[EntityType]*EntityStats{}})
	if err == nil {
		t.Error("expected error for empty statistics")
	}
}
