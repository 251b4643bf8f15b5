package cmd

import (
	"github.com/huangsam/dqscore/core"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/spf13/cobra"
)

// checksCmd lists the configured expectation suites.
var checksCmd = &cobra.Command{
	Use:   "checks",
	Short: "List the expectation suites and their checks",
	Long: `Load every YAML suite in the checks directory and print its checks.

Each row shows:
- Suite name and the dataset it targets (trip_data or trip_fare)
- Expectation type and target column
- Label, severity and quality score from the check meta

Use this to:
- Verify suites parse before a run
- Review the score weights assigned to each check

Examples:
  # List all suites
  dqscore checks

  # List one suite as JSON
  dqscore checks --suite trip_data_checks --output json`,
	Args:    cobra.NoArgs,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteChecks(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot list checks", err)
		}
	},
}
