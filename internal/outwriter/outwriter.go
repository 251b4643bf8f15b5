// Package outwriter has output and writer logic.
package outwriter

import (
	"os"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints a scored dashboard using the configured output format.
func (ow *OutWriter) WriteSummary(summary schema.DashboardSummary, cfg *contract.Config) error {
	return WriteSummary(summary, cfg)
}

// WriteRunResults prints the outcome of a validation run using the configured output format.
func (ow *OutWriter) WriteRunResults(results []schema.RunResult, cfg *contract.Config) error {
	return WriteRunResults(results, cfg)
}

// WriteSuites prints the loaded check suites using the configured output format.
func (ow *OutWriter) WriteSuites(suites []schema.Suite, cfg *contract.Config) error {
	return WriteSuites(suites, cfg)
}

// terminalWidth returns the width override or the detected terminal width.
func terminalWidth(cfg *contract.Config) int {
	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		return cfg.Width
	}
	detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || detectedWidth <= 0 {
		// Fallback to conservative default if terminal size can't be detected
		return 80 // Conservative default for narrow terminals and CI
	}
	return detectedWidth
}

// GetMaxTableTextWidth calculates the maximum width for the free-text column of a table
// (field names, labels, report paths) given the width already used by fixed columns.
func GetMaxTableTextWidth(cfg *contract.Config, fixedWidth int) int {
	// Reserve generous space for table borders, separators, and padding
	available := terminalWidth(cfg) - fixedWidth - 20
	if available < 12 {
		// Minimum reasonable text width
		return 12
	}
	if available > 70 {
		// Maximum text width to prevent overly wide tables
		return 70
	}
	return available
}

// labelFunc returns the label renderer for table output.
func labelFunc(cfg *contract.Config) func(float64) string {
	if cfg.UseColors {
		return contract.GetColorLabel
	}
	return contract.GetPlainLabel
}
