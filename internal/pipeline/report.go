package pipeline

// report.go writes the durable artifacts of a run: per-file rejected-row
// tables (CSV plus a structured JSON summary with enough original data to
// correct and resubmit) and the final run report.

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Reporter serializes rejected rows and run reports to the configured
// output directories.
type Reporter struct {
	outputDir string
	errorsDir string
	logger    *slog.Logger
}

// NewReporter creates a reporter writing run reports to outputDir and
// rejected-row artifacts to errorsDir.
func NewReporter(outputDir, errorsDir string, logger *slog.Logger) *Reporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reporter{outputDir: outputDir, errorsDir: errorsDir, logger: logger}
}

// errorSummary is the machine-readable companion to the rejected-row CSV.
type errorSummary struct {
	SourceFile  string        `json:"source_file"`
	EntityType  EntityType    `json:"entity_type"`
	GeneratedAt time.Time     `json:"generated_at"`
	Rows        []RejectedRow `json:"rows"`
}

// WriteErrors writes the rejected rows for one file and entity type as a
// flat CSV of original values plus violations, and a JSON summary alongside
// it. A no-op when the rejected set is empty.
func (r *Reporter) WriteErrors(sourceFile string, entity EntityType, rows []RejectedRow) error {
	if len(rows) == 0 {
		return nil
	}

	if err := os.MkdirAll(r.errorsDir, 0o755); err != nil {
		return fmt.Errorf("create errors dir: %w", err)
	}

	stamp := time.Now().Format("20060102_150405")
	base := fmt.Sprintf("%s_errors_%s", entity, stamp)

	if err := r.writeErrorCSV(filepath.Join(r.errorsDir, base+".csv"), rows); err != nil {
		return err
	}

	summary := errorSummary{
		SourceFile:  sourceFile,
		EntityType:  entity,
		GeneratedAt: time.Now(),
		Rows:        rows,
	}
	if err := writeJSONFile(filepath.Join(r.errorsDir, base+".json"), summary); err != nil {
		return err
	}

	r.logger.Info("error report written",
		"entity", entity,
		"source", sourceFile,
		"rows", len(rows),
		"file", base+".csv",
	)
	return nil
}

// writeErrorCSV writes original field values in their source column order,
// with line number and joined violations appended.
func (r *Reporter) writeErrorCSV(path string, rows []RejectedRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create error report: %w", err)
	}
	defer f.Close()

	columns := rows[0].Columns
	w := csv.NewWriter(f)

	header := append(append([]string{"line"}, columns...), "violations")
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write error report header: %w", err)
	}

	for _, row := range rows {
		rec := make([]string, 0, len(columns)+2)
		rec = append(rec, fmt.Sprintf("%d", row.Line))
		for _, col := range columns {
			rec = append(rec, row.Fields[col])
		}
		rec = append(rec, strings.Join(row.Violations, "; "))
		if err := w.Write(rec); err != nil {
			return fmt.Errorf("write error report row: %w", err)
		}
	}

	w.Flush()
	return w.Error()
}

// WriteRunReport serializes the final run report to the output directory.
func (r *Reporter) WriteRunReport(report RunReport) (string, error) {
	if err := os.MkdirAll(r.outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(r.outputDir, fmt.Sprintf("etl_report_%s.json", report.Timestamp))
	if err := writeJSONFile(path, report); err != nil {
		return "", err
	}

	r.logger.Info("run report written", "file", path)
	return path, nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}
	return nil
}
