package cmd

import (
	"fmt"
	"os"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/history"
	"github.com/huangsam/dqscore/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyBackend reads the backend settings without running the full shared setup.
func historyBackend() (schema.DatabaseBackend, string, error) {
	if err := loadConfigFile(); err != nil {
		return "", "", err
	}

	backend := schema.DatabaseBackend(viper.GetString("history-backend"))
	if backend == "" {
		backend = schema.NoneBackend
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", backend)
	}
	connStr := viper.GetString("history-db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return "", "", err
	}
	return backend, connStr, nil
}

// historySetup loads minimal configuration needed for history operations.
func historySetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}
	if err := history.InitStores(backend, connStr); err != nil {
		return fmt.Errorf("failed to initialize history: %w", err)
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// historyMigrateSetup does NOT initialize stores or create tables,
// so migrations can run on a fresh database.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	backend, connStr, err := historyBackend()
	if err != nil {
		return err
	}
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetHistoryDBFilePath()
	}

	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = connStr
	return nil
}

// historyCmd focused on run history management.
//
// Note: History subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup. Workspace paths and output modes are irrelevant here.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded scoring runs and exports",
	Long: `Manage the scoring history used for trend tracking and reporting.

When a history backend is configured, every scored report stores:
- Run metadata (suite, batch, time, configuration)
- Per-field totals, pass rate and average quality score
- The overall dataset score

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # Check history status
  dqscore history status --history-backend sqlite

  # Export for analysis in pandas/DuckDB
  dqscore history export --history-backend sqlite --output-file scores`,
}

// historyClearCmd clears the history data.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded scoring runs",
	Long: `Delete all stored scoring runs and field score history.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  dqscore history export --history-backend sqlite --output-file backup
  dqscore history clear --history-backend sqlite`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.Clear(cfg.HistoryBackend, cfg.HistoryDBConnect, cfg.HistoryDBConnect); err != nil {
			contract.LogFatal("Failed to clear history", err)
		}
		fmt.Println("History cleared successfully.")
	},
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display history statistics and connection details",
	Long: `Show detailed information about recorded scoring runs.

Displays:
- Backend type and connection status
- Total number of runs stored
- Last and oldest run timestamps
- Total checks scored across all runs
- Database table sizes

Examples:
  # Check history status
  dqscore history status --history-backend sqlite`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get history status", err)
		}
		history.PrintStatus(os.Stdout, status)
	},
}

// historyExportCmd exports history data to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export recorded runs to Parquet for BI tools and analytics",
	Long: `Export all stored scoring runs to Parquet format.

Exports two datasets next to the --output-file prefix:
- <prefix>.runs.parquet - one row per scored report
- <prefix>.field_scores.parquet - one row per field of each run

Requires: --output-file parameter

Examples:
  # Export all data
  dqscore history export --history-backend sqlite --output-file scores

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('scores.field_scores.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := history.Export(history.Manager.GetHistoryStore(), cfg.OutputFile, os.Stdout); err != nil {
			contract.LogFatal("Failed to export history", err)
		}
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  dqscore history migrate --history-backend postgresql --history-db-connect "$DQSCORE_HISTORY_DB_CONNECT"

  # Rollback to the initial state
  dqscore history migrate --history-backend sqlite --target-version 0`,
	PreRunE: historyMigrateSetup,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := history.Migrate(cfg.HistoryBackend, cfg.HistoryDBConnect, targetVersion, os.Stdout); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
