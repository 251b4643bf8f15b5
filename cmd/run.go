package cmd

import (
	"github.com/huangsam/dqscore/core"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/spf13/cobra"
)

// runCmd validates the configured batches and writes one report per suite.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Validate trip and fare batches and write validation reports",
	Long: `Run every expectation suite against its batch and save a JSON validation report.

Suites are routed by name: trip_data* suites run against the trip batch and
trip_fare* suites run against the fare batch. Reports are written to the
report directory as <timestamp>_<suite>_<batch>.json.

With --score, each report is scored right away and, when a history backend
is configured, the scores are recorded.

Examples:
  # Validate default batches
  dqscore run

  # Validate and score a specific trip batch
  dqscore run --trip-batch trip_data_2 --score

  # Record scores in SQLite
  dqscore run --score --history-backend sqlite`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRun(rootCtx, cfg, historyManager); err != nil {
			contract.LogFatal("Cannot run validation", err)
		}
	},
}
