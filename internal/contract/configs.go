package contract

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/dqscore/schema"
	"github.com/rs/zerolog"
)

// Default values for configuration.
const (
	DefaultPrecision = 2
	DefaultTripBatch = "trip_data_batch"
	DefaultFareBatch = "trip_fare_batch"
)

// Default workspace layout, relative to the workspace root.
var (
	DefaultChecksDir   = "checks"
	DefaultTripDataDir = filepath.Join("data", "input", "trip_data")
	DefaultTripFareDir = filepath.Join("data", "input", "trip_fare")
	DefaultReportDir   = filepath.Join("data", "output", "reports")
)

// Config holds the runtime configuration for a dqscore invocation.
// This struct is the "final, validated" config.
type Config struct {
	Workspace   string
	ChecksDir   string
	TripDataDir string
	TripFareDir string
	ReportDir   string

	TripBatch string
	FareBatch string
	Suite     string
	Timestamp time.Time // Zero means "latest report"

	Precision  int
	Output     schema.OutputMode
	OutputFile string
	Width      int // Terminal width override (0 = auto-detect)
	UseColors  bool

	HistoryBackend   schema.DatabaseBackend // Empty means history is disabled
	HistoryDBConnect string                 // Please use env var as this is plaintext

	LogLevel zerolog.Level
	Score    bool // Score reports right after `run` produces them
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// --- Fields from rootCmd.PersistentFlags() ---
	Workspace        string `mapstructure:"workspace"`
	ChecksDir        string `mapstructure:"checks-dir"`
	TripDataDir      string `mapstructure:"trip-data-dir"`
	TripFareDir      string `mapstructure:"trip-fare-dir"`
	ReportDir        string `mapstructure:"report-dir"`
	TripBatch        string `mapstructure:"trip-batch"`
	FareBatch        string `mapstructure:"fare-batch"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Precision        int    `mapstructure:"precision"`
	Color            string `mapstructure:"color"`
	Width            int    `mapstructure:"width"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	LogLevel         string `mapstructure:"log-level"`

	// --- Fields from scoreCmd.Flags() ---
	Suite     string `mapstructure:"suite"`
	Timestamp string `mapstructure:"timestamp"`

	// --- Fields from runCmd.Flags() ---
	Score bool `mapstructure:"score"`
}

// Clone returns a copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := resolveWorkspacePaths(cfg, input); err != nil {
		return err
	}
	if err := processTimestamp(cfg, input); err != nil {
		return err
	}
	return validateHistoryConfig(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// validateSimpleInputs processes and validates all non-path related fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width
	cfg.Suite = strings.TrimSpace(input.Suite)
	cfg.Score = input.Score

	cfg.TripBatch = strings.TrimSpace(input.TripBatch)
	if cfg.TripBatch == "" {
		cfg.TripBatch = DefaultTripBatch
	}
	cfg.FareBatch = strings.TrimSpace(input.FareBatch)
	if cfg.FareBatch == "" {
		cfg.FareBatch = DefaultFareBatch
	}

	colors := true
	if input.Color != "" {
		parsed, err := ParseBoolString(input.Color)
		if err != nil {
			return fmt.Errorf("invalid --color value: %w", err)
		}
		colors = parsed
	}
	cfg.UseColors = colors

	if input.Precision < 1 || input.Precision > 4 {
		return fmt.Errorf("precision must be between 1 and 4 (received %d)", input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.TextOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	if input.Width < 0 {
		return fmt.Errorf("width cannot be negative (received %d)", input.Width)
	}

	level, err := ParseLogLevel(input.LogLevel)
	if err != nil {
		return err
	}
	cfg.LogLevel = level

	return nil
}

// resolveWorkspacePaths makes every directory absolute. Unset directories
// default to the standard layout under the workspace root.
func resolveWorkspacePaths(cfg *Config, input *ConfigRawInput) error {
	workspace := input.Workspace
	if workspace == "" {
		workspace = "."
	}
	abs, err := filepath.Abs(workspace)
	if err != nil {
		return fmt.Errorf("resolving workspace %q: %w", workspace, err)
	}
	cfg.Workspace = filepath.Clean(abs)

	resolve := func(value, fallback string) string {
		if value == "" {
			value = fallback
		}
		if filepath.IsAbs(value) {
			return filepath.Clean(value)
		}
		return filepath.Join(cfg.Workspace, value)
	}
	cfg.ChecksDir = resolve(input.ChecksDir, DefaultChecksDir)
	cfg.TripDataDir = resolve(input.TripDataDir, DefaultTripDataDir)
	cfg.TripFareDir = resolve(input.TripFareDir, DefaultTripFareDir)
	cfg.ReportDir = resolve(input.ReportDir, DefaultReportDir)
	return nil
}

// processTimestamp parses the --timestamp selector used to pick an exact report.
func processTimestamp(cfg *Config, input *ConfigRawInput) error {
	ts := strings.TrimSpace(input.Timestamp)
	if ts == "" {
		cfg.Timestamp = time.Time{}
		return nil
	}
	for _, layout := range []string{schema.ReportTimestampFormat, "2006-01-02T15:04:05", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, ts, time.Local); err == nil {
			cfg.Timestamp = t
			return nil
		}
	}
	return fmt.Errorf("invalid timestamp '%s'. expected format %s", ts, schema.ReportTimestampFormat)
}

// validateHistoryConfig validates the run history backend. An empty backend disables history.
func validateHistoryConfig(cfg *Config, input *ConfigRawInput) error {
	cfg.HistoryBackend = schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(input.HistoryBackend)))
	if cfg.HistoryBackend == "" {
		return nil
	}
	if _, ok := schema.ValidDatabaseBackends[cfg.HistoryBackend]; !ok {
		return fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", input.HistoryBackend)
	}
	cfg.HistoryDBConnect = input.HistoryDBConnect
	return ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect)
}
