// Package cmd defines the command-line interface for dqscore.
package cmd

import (
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(checksCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("workspace", ".", "Workspace root that relative directories resolve against")
	rootCmd.PersistentFlags().String("checks-dir", contract.DefaultChecksDir, "Directory of YAML check suites")
	rootCmd.PersistentFlags().String("trip-data-dir", contract.DefaultTripDataDir, "Directory of trip data CSV batches")
	rootCmd.PersistentFlags().String("trip-fare-dir", contract.DefaultTripFareDir, "Directory of trip fare CSV batches")
	rootCmd.PersistentFlags().String("report-dir", contract.DefaultReportDir, "Directory where validation reports are written")
	rootCmd.PersistentFlags().String("trip-batch", contract.DefaultTripBatch, "Name of the trip data batch")
	rootCmd.PersistentFlags().String("fare-batch", contract.DefaultFareBatch, "Name of the trip fare batch")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none (empty disables history)")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Log level: debug or info or warn or error")
	rootCmd.PersistentFlags().String("suite", "", "Only use the suite with this name")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of runCmd to Viper
	runCmd.Flags().Bool("score", false, "Score each report right after it is written")
	if err := viper.BindPFlags(runCmd.Flags()); err != nil {
		contract.LogFatal("Error binding run flags", err)
	}

	// Bind all flags of scoreCmd to Viper
	scoreCmd.Flags().String("timestamp", "", "Score the report written at this timestamp (format 2006-01-02T15:04:05.000000)")
	if err := viper.BindPFlags(scoreCmd.Flags()); err != nil {
		contract.LogFatal("Error binding score flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
