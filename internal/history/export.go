package history

import (
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/parquet"
)

// ExportFiles returns the two Parquet paths written for an export prefix.
func ExportFiles(outputFile string) (runsFile, fieldScoresFile string) {
	return outputFile + ".runs.parquet", outputFile + ".field_scores.parquet"
}

// Export writes every recorded run and field score of the store to Parquet files.
func Export(store contract.HistoryStore, outputFile string, w io.Writer) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}
	if store == nil {
		return errors.New("history is disabled. Set --history-backend to export")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get history status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no history data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total score runs: %s\n", humanize.Comma(int64(status.TotalRuns)))

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve score runs: %w", err)
	}
	fields, err := store.GetAllFieldScores()
	if err != nil {
		return fmt.Errorf("failed to retrieve field scores: %w", err)
	}

	runsFile, fieldScoresFile := ExportFiles(outputFile)
	parquetRuns := parquet.ScoreRunsFromRecords(runs)
	if err := parquet.WriteScoreRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write score runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %s score runs to: %s\n", humanize.Comma(int64(len(parquetRuns))), runsFile)

	parquetFields := parquet.FieldScoresFromRecords(fields)
	if err := parquet.WriteFieldScoresParquet(parquetFields, fieldScoresFile); err != nil {
		return fmt.Errorf("failed to write field scores: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %s field score records to: %s\n", humanize.Comma(int64(len(parquetFields))), fieldScoresFile)

	return nil
}
