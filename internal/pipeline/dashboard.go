package pipeline

// dashboard.go renders the run dashboard: a bar chart of processed, created,
// and error counts per entity type, saved as a PNG next to the run report.
// The dashboard is a reporting sink; render failures are logged by the
// orchestrator and never fail the run.

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	processedColor = drawing.Color{R: 68, G: 114, B: 196, A: 255}
	createdColor   = drawing.Color{R: 84, G: 130, B: 53, A: 255}
	errorColor     = drawing.Color{R: 192, G: 52, B: 52, A: 255}
)

// RenderDashboard writes the dashboard PNG for a finished run and returns
// the file path.
func RenderDashboard(outputDir string, report RunReport) (string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	var bars []chart.Value
	for _, entity := range []EntityType{EntityCustomers, EntityProducts, EntityOrders} {
		stats, ok := report.Statistics[entity]
		if !ok {
			continue
		}
		bars = append(bars,
			chart.Value{
				Label: fmt.Sprintf("%s processed", entity),
				Value: float64(stats.TotalProcessed),
				Style: chart.Style{FillColor: processedColor, StrokeColor: processedColor},
			},
			chart.Value{
				Label: fmt.Sprintf("%s created", entity),
				Value: float64(stats.Created),
				Style: chart.Style{FillColor: createdColor, StrokeColor: createdColor},
			},
			chart.Value{
				Label: fmt.Sprintf("%s errors", entity),
				Value: float64(stats.Rejected + len(stats.Errors)),
				Style: chart.Style{FillColor: errorColor, StrokeColor: errorColor},
			},
		)
	}
	if len(bars) == 0 {
		return "", fmt.Errorf("no statistics to render")
	}

	graph := chart.BarChart{
		Title:    fmt.Sprintf("ETL run %s (success rate %.1f%%)", report.Timestamp, report.Summary.SuccessRate),
		Width:    1280,
		Height:   640,
		BarWidth: 90,
		Bars:     bars,
		XAxis:    chart.Style{TextRotationDegrees: 30},
	}

	path := filepath.Join(outputDir, fmt.Sprintf("etl_dashboard_%s.png", report.Timestamp))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("create dashboard: %w", err)
	}
	defer f.Close()

	if err := graph.Render(chart.PNG, f); err != nil {
		return "", fmt.Errorf("render dashboard: %w", err)
	}
	return path, nil
}
