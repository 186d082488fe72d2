package reporting

import (
	"fmt"
	"os"
	"path/filepath"

	"fraudlab/internal/observability"
)

const (
	// MarkdownFilename is the rendered report file.
	MarkdownFilename = "REPORT_TRAINING.md"

	// CSVFilename is the machine-readable metrics file.
	CSVFilename = "training_metrics.csv"
)

// WriteFiles renders the report and writes both output files into dir,
// creating the directory if needed.
func WriteFiles(dir string, r *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	mdPath := filepath.Join(dir, MarkdownFilename)
	if err := os.WriteFile(mdPath, []byte(RenderMarkdown(r)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", MarkdownFilename, err)
	}

	csvPath := filepath.Join(dir, CSVFilename)
	if err := os.WriteFile(csvPath, []byte(RenderCSV(r.Models)), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", CSVFilename, err)
	}

	observability.DefaultMetrics.ReportsGenerated.Inc()
	return nil
}
