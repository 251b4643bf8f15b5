package cmd

import (
	"github.com/huangsam/dqscore/core"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/spf13/cobra"
)

// scoreCmd turns a validation report into a per-field quality dashboard.
var scoreCmd = &cobra.Command{
	Use:   "score [report.json]",
	Short: "Score a validation report per field",
	Long: `Compute the quality dashboard of a validation report.

Every failed check loses half of its quality score. Field scores are the mean
of their checks, and the overall score is the mean of the field scores.

Pass a report path directly, or use --suite to pick the newest report of that
suite for the configured trip batch. Add --timestamp to pick an exact report.

Examples:
  # Score a report file
  dqscore score data/output/reports/2024-03-01T12:00:00.000000_trip_data_checks_trip_data_batch.json

  # Score the latest report of a suite
  dqscore score --suite trip_fare_checks

  # Score an exact run and export as parquet
  dqscore score --suite trip_data_checks --timestamp 2024-03-01T12:00:00.000000 --output parquet --output-file score.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		var reportPath string
		if len(args) == 1 {
			reportPath = args[0]
		}
		if err := core.ExecuteScore(rootCtx, cfg, historyManager, reportPath); err != nil {
			contract.LogFatal("Cannot score report", err)
		}
	},
}
