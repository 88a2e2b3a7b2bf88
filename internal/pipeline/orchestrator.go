package pipeline

// orchestrator.go sequences a run: discover files, route each to an entity
// type by filename keyword, process customers before products before orders
// (order transformation needs the identity map the customer loader fills),
// aggregate statistics, and emit the run report and dashboard. Whole-file
// failures are recorded and the run continues; nothing aborts a run.

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"sync"
	"time"
)

// State is the orchestrator's position in the run state machine.
type State string

const (
	StateIdle        State = "idle"
	StateDiscovering State = "discovering"
	StateProcessing  State = "processing"
	StateReporting   State = "reporting"
)

// EntityAuto routes by filename keyword instead of an explicit hint.
const EntityAuto EntityType = "auto"

// routeKeywords match a filename to an entity type. Source systems name
// files in English or Russian.
var routeKeywords = []struct {
	entity   EntityType
	keywords []string
}{
	{EntityCustomers, []string{"customer", "клиент"}},
	{EntityProducts, []string{"product", "товар"}},
	{EntityOrders, []string{"order", "заказ"}},
}

// entitySheets are the worksheet names read for spreadsheet inputs; an
// absent sheet falls back to the workbook default inside the reader.
var entitySheets = map[EntityType]string{
	EntityCustomers: "",
	EntityProducts:  "Products",
	EntityOrders:    "Orders",
}

// RouteFile determines the entity type a file carries from its name.
func RouteFile(name string) (EntityType, bool) {
	lower := strings.ToLower(name)
	for _, route := range routeKeywords {
		for _, kw := range route.keywords {
			if strings.Contains(lower, kw) {
				return route.entity, true
			}
		}
	}
	return "", false
}

// Orchestrator drives one run at a time over the configured input directory.
// Processing is strictly sequential; only Status may be called concurrently.
type Orchestrator struct {
	reader    *Reader
	loader    *Loader
	reporter  *Reporter
	mappings  *Mappings
	outputDir string
	logger    *slog.Logger

	mu       sync.Mutex
	state    State
	identity IdentityMap
	stats    map[EntityType]*EntityStats
}

// NewOrchestrator wires the pipeline components for a run.
func NewOrchestrator(reader *Reader, loader *Loader, reporter *Reporter, mappings *Mappings, outputDir string, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		reader:    reader,
		loader:    loader,
		reporter:  reporter,
		mappings:  mappings,
		outputDir: outputDir,
		logger:    logger,
		state:     StateIdle,
	}
}

// Status returns the orchestrator's current state.
func (o *Orchestrator) Status() State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.state
}

func (o *Orchestrator) setState(s State) {
	o.mu.Lock()
	o.state = s
	o.mu.Unlock()
}

// Run discovers every supported file in the input directory and processes
// the batch to completion, returning the run report.
func (o *Orchestrator) Run(ctx context.Context) (RunReport, error) {
	o.begin()

	o.setState(StateDiscovering)
	files, err := o.reader.ListFiles()
	if err != nil {
		o.setState(StateIdle)
		return RunReport{}, err
	}
	if len(files) == 0 {
		o.logger.Warn("no input files to process")
	}

	// Bucket by entity so customers always precede products and orders.
	buckets := map[EntityType][]string{}
	for _, f := range files {
		entity, ok := RouteFile(f)
		if !ok {
			o.logger.Warn("unrecognized file type, skipping", "file", f)
			continue
		}
		buckets[entity] = append(buckets[entity], f)
	}

	o.setState(StateProcessing)
	for _, entity := range []EntityType{EntityCustomers, EntityProducts, EntityOrders} {
		for _, f := range buckets[entity] {
			o.processFile(ctx, f, entity)
		}
	}

	return o.finish()
}

// RunFile processes a single file (typically an upload) as its own run.
// hint selects the entity type; EntityAuto or empty falls back to filename
// routing.
func (o *Orchestrator) RunFile(ctx context.Context, path string, hint EntityType) (RunReport, error) {
	o.begin()

	entity := hint
	if entity == "" || entity == EntityAuto {
		var ok bool
		entity, ok = RouteFile(path)
		if !ok {
			o.setState(StateIdle)
			return RunReport{}, fmt.Errorf("cannot determine entity type for %s", path)
		}
	}

	o.setState(StateProcessing)
	o.processFile(ctx, path, entity)

	return o.finish()
}

// begin resets the run-scoped state: fresh identity map, zeroed statistics.
func (o *Orchestrator) begin() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.identity = make(IdentityMap)
	o.stats = map[EntityType]*EntityStats{}
}

// finish computes the summary, writes the report and dashboard, and returns
// to idle. Artifact failures are logged, not fatal.
func (o *Orchestrator) finish() (RunReport, error) {
	o.setState(StateReporting)

	report := o.buildReport()

	if _, err := o.reporter.WriteRunReport(report); err != nil {
		o.logger.Error("failed to write run report", "error", err)
	}
	if _, err := RenderDashboard(o.outputDir, report); err != nil {
		o.logger.Error("failed to render dashboard", "error", err)
	}

	o.setState(StateIdle)
	return report, nil
}

// processFile runs one file through extract, transform, load, and error
// reporting, then merges its statistics into the run aggregate. Whole-file
// failures are recorded as a zero-processed entry for that file.
func (o *Orchestrator) processFile(ctx context.Context, path string, entity EntityType) {
	logger := o.logger.With("file", path, "entity", entity)
	logger.Info("processing file")

	records, err := o.reader.Read(path, entitySheets[entity])
	if err != nil {
		logger.Error("file processing failed", "error", err)
		o.mergeStats(entity, EntityStats{FileErrors: []string{err.Error()}})
		return
	}

	var stats EntityStats
	stats.TotalProcessed = len(records)

	var rejected []RejectedRow
	var loadStats LoadStats
	var loadFailed []RejectedRow

	switch entity {
	case EntityCustomers:
		var valid []Customer
		valid, rejected = TransformCustomers(records)
		stats.Valid = len(valid)
		loadStats, loadFailed = o.loader.LoadCustomers(ctx, valid, o.identity)
	case EntityProducts:
		var valid []Product
		valid, rejected = TransformProducts(records, o.mappings)
		stats.Valid = len(valid)
		loadStats, loadFailed = o.loader.LoadProducts(ctx, valid)
	case EntityOrders:
		var valid []Order
		valid, rejected = TransformOrders(records, o.mappings, o.identity)
		stats.Valid = len(valid)
		loadStats, loadFailed = o.loader.LoadOrders(ctx, valid)
	}

	stats.Rejected = len(rejected)
	stats.Created = loadStats.Created
	stats.Skipped = loadStats.Skipped
	stats.Errors = loadStats.Errors

	if len(rejected) > 0 || len(loadFailed) > 0 {
		if err := o.reporter.WriteErrors(path, entity, append(rejected, loadFailed...)); err != nil {
			logger.Error("failed to write error report", "error", err)
		}
	}

	o.mergeStats(entity, stats)

	logger.Info("file processed",
		"total", stats.TotalProcessed,
		"valid", stats.Valid,
		"rejected", stats.Rejected,
		"created", stats.Created,
		"skipped", stats.Skipped,
	)
}

func (o *Orchestrator) mergeStats(entity EntityType, stats EntityStats) {
	o.mu.Lock()
	defer o.mu.Unlock()
	existing, ok := o.stats[entity]
	if !ok {
		existing = &EntityStats{}
		o.stats[entity] = existing
	}
	existing.Merge(stats)
}

// buildReport snapshots the aggregated statistics into a run report.
func (o *Orchestrator) buildReport() RunReport {
	o.mu.Lock()
	defer o.mu.Unlock()

	now := time.Now()
	statistics := make(map[EntityType]*EntityStats, len(o.stats))
	var summary RunSummary

	for entity, stats := range o.stats {
		copied := *stats
		statistics[entity] = &copied

		summary.TotalProcessed += stats.TotalProcessed
		summary.TotalValid += stats.Valid
		summary.TotalErrors += stats.Rejected
		summary.TotalCreated += stats.Created
	}

	if summary.TotalProcessed > 0 {
		rate := float64(summary.TotalValid) / float64(summary.TotalProcessed) * 100
		summary.SuccessRate = math.Round(rate*100) / 100
	}

	return RunReport{
		Timestamp:   now.Format("20060102_150405"),
		GeneratedAt: now,
		Statistics:  statistics,
		Summary:     summary,
	}
}
