// Package parquet provides data structures and functions for exporting dqscore
// scores and run history to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/dqscore/schema"
	"github.com/parquet-go/parquet-go"
)

// ScoreRun represents a single scoring run with metadata.
// This struct maps to the dq_score_runs database table.
type ScoreRun struct {
	// RunID is the unique identifier for this scoring run
	RunID int64 `parquet:"run_id,snappy"`

	// RunUUID is the run_id recorded in the scored report, when present
	RunUUID string `parquet:"run_uuid,snappy"`

	// SuiteName is the check suite of the scored report
	SuiteName string `parquet:"suite_name,snappy"`

	// BatchName is the batch the suite ran against
	BatchName string `parquet:"batch_name,snappy"`

	// ScoredAt is when the report was scored (stored as TIMESTAMP with nanosecond precision)
	ScoredAt time.Time `parquet:"scored_at,snappy"`

	// TotalChecks is the number of checks in the scored report
	TotalChecks int32 `parquet:"total_checks,snappy"`

	// OverallScore is the overall dataset quality score (nullable until the run ends)
	OverallScore *float64 `parquet:"overall_score,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// FieldScore represents the summary of one field in a scoring run.
// This struct maps to the dq_field_scores database table.
type FieldScore struct {
	RunID           int64   `parquet:"run_id,snappy"`
	ColumnName      string  `parquet:"column_name,snappy"`
	TotalChecks     int32   `parquet:"total_checks,snappy"`
	Passed          int32   `parquet:"passed,snappy"`
	Failed          int32   `parquet:"failed,snappy"`
	PassRate        float64 `parquet:"pass_rate,snappy"`
	AvgQualityScore float64 `parquet:"avg_score,snappy"`
}

// SummaryRow is one field of a dashboard summary as written by `score --output parquet`.
// The overall score is repeated on every row.
type SummaryRow struct {
	Suite           string  `parquet:"suite,snappy"`
	Batch           string  `parquet:"batch,snappy"`
	Field           string  `parquet:"field,snappy"`
	TotalChecks     int32   `parquet:"total_checks,snappy"`
	Passed          int32   `parquet:"passed,snappy"`
	Failed          int32   `parquet:"failed,snappy"`
	PassRate        float64 `parquet:"pass_rate,snappy"`
	AvgQualityScore float64 `parquet:"avg_score,snappy"`
	Label           string  `parquet:"label,snappy"`
	OverallScore    float64 `parquet:"overall_score,snappy"`
}

// Write encodes rows as a Parquet file into w. The schema is derived from the struct tags of T.
func Write[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// WriteFile writes rows to a new Parquet file at outputPath.
func WriteFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := Write(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteScoreRunsParquet writes a slice of ScoreRun structs to a Parquet file.
func WriteScoreRunsParquet(data []ScoreRun, outputPath string) error {
	return WriteFile(data, outputPath)
}

// WriteFieldScoresParquet writes a slice of FieldScore structs to a Parquet file.
func WriteFieldScoresParquet(data []FieldScore, outputPath string) error {
	return WriteFile(data, outputPath)
}

// ScoreRunsFromRecords converts history records to their Parquet form.
func ScoreRunsFromRecords(records []schema.ScoreRunRecord) []ScoreRun {
	out := make([]ScoreRun, len(records))
	for i, r := range records {
		out[i] = ScoreRun{
			RunID:        r.RunID,
			RunUUID:      r.RunUUID,
			SuiteName:    r.SuiteName,
			BatchName:    r.BatchName,
			ScoredAt:     r.ScoredAt,
			TotalChecks:  r.TotalChecks,
			OverallScore: r.OverallScore,
			ConfigParams: r.ConfigParams,
		}
	}
	return out
}

// FieldScoresFromRecords converts history records to their Parquet form.
func FieldScoresFromRecords(records []schema.FieldScoreRecord) []FieldScore {
	out := make([]FieldScore, len(records))
	for i, r := range records {
		out[i] = FieldScore(r)
	}
	return out
}

// SummaryRows flattens a dashboard summary into one row per field.
// label maps a field's average score to its display label.
func SummaryRows(s schema.DashboardSummary, label func(float64) string) []SummaryRow {
	rows := make([]SummaryRow, len(s.Fields))
	for i, f := range s.Fields {
		rows[i] = SummaryRow{
			Suite:           s.Suite,
			Batch:           s.Batch,
			Field:           f.Column,
			TotalChecks:     int32(f.TotalChecks),
			Passed:          int32(f.Passed),
			Failed:          int32(f.Failed),
			PassRate:        f.PassRate,
			AvgQualityScore: f.AvgQualityScore,
			Label:           label(f.AvgQualityScore),
			OverallScore:    s.OverallScore,
		}
	}
	return rows
}
