// Package contract provides interfaces and shared utilities for dqscore's internal architecture.
package contract

import (
	"time"

	"github.com/huangsam/dqscore/schema"
)

// HistoryManager defines the interface for managing the run history store.
// This allows the history layer to be mocked for testing.
type HistoryManager interface {
	GetHistoryStore() HistoryStore
}

// HistoryStore defines the interface for tracking scoring runs and their per-field summaries.
type HistoryStore interface {
	// BeginRun creates a new scoring run and returns its unique ID
	BeginRun(runUUID, suite, batch string, scoredAt time.Time, configParams map[string]any) (int64, error)

	// RecordFieldSummary stores the summary of one field for a run
	RecordFieldSummary(runID int64, field schema.FieldSummary) error

	// EndRun updates the run with its totals
	EndRun(runID int64, totalChecks int, overallScore float64) error

	// GetStatus returns status information about the history store
	GetStatus() (schema.HistoryStatus, error)

	// GetAllRuns returns every recorded run, oldest first
	GetAllRuns() ([]schema.ScoreRunRecord, error)

	// GetAllFieldScores returns every recorded field summary, ordered by run
	GetAllFieldScores() ([]schema.FieldScoreRecord, error)

	// Close closes the underlying connection
	Close() error
}
