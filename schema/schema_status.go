package schema

import "time"

// HistoryStatus represents the status of the run history store.
type HistoryStatus struct {
	Backend       string           `json:"backend"`
	Database      string           `json:"database,omitempty"`
	Connected     bool             `json:"connected"`
	TotalRuns     int              `json:"total_runs"`
	LastRunID     int64            `json:"last_run_id"`
	LastRunTime   time.Time        `json:"last_run_time"`
	OldestRunTime time.Time        `json:"oldest_run_time"`
	TotalChecks   int              `json:"total_checks"`
	TableSizes    map[string]int64 `json:"table_sizes"`
}

// ScoreRunRecord represents a row from the dq_score_runs table.
type ScoreRunRecord struct {
	RunID        int64
	RunUUID      string
	SuiteName    string
	BatchName    string
	ScoredAt     time.Time
	TotalChecks  int32
	OverallScore *float64
	ConfigParams *string
}

// FieldScoreRecord represents a row from the dq_field_scores table.
type FieldScoreRecord struct {
	RunID           int64
	ColumnName      string
	TotalChecks     int32
	Passed          int32
	Failed          int32
	PassRate        float64
	AvgQualityScore float64
}
