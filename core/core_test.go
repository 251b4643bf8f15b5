package core

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/dataset"
	"github.com/huangsam/dqscore/internal/history"
	"github.com/huangsam/dqscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const tripChecksYAML = `
- expectation_type: expect_column_values_to_not_be_null
  kwargs: {column: trip_distance}
  meta: {label: distance_not_null, quality_score: 10}
- expectation_type: expect_column_values_to_be_between
  kwargs: {column: trip_distance, min_value: 0, max_value: 5}
  meta: {label: distance_in_range, quality_score: 20}
`

const fareChecksYAML = `
- expectation_type: ExpectColumnToExist
  kwargs: {column: fare_amount}
  meta: {label: has_fare_amount, quality_score: 10}
`

// workspace lays out checks and batches the way a real workspace does and returns a config pointing at it.
func workspace(t *testing.T) *contract.Config {
	t.Helper()
	root := t.TempDir()
	cfg := &contract.Config{
		Workspace:   root,
		ChecksDir:   filepath.Join(root, "checks"),
		TripDataDir: filepath.Join(root, "trip_data"),
		TripFareDir: filepath.Join(root, "trip_fare"),
		ReportDir:   filepath.Join(root, "reports"),
		TripBatch:   contract.DefaultTripBatch,
		FareBatch:   contract.DefaultFareBatch,
		Precision:   2,
		Output:      schema.JSONOut,
		Width:       120,
	}

	files := map[string]string{
		filepath.Join(cfg.ChecksDir, "trip_data_checks.yaml"):         tripChecksYAML,
		filepath.Join(cfg.ChecksDir, "trip_fare_checks.yml"):          fareChecksYAML,
		filepath.Join(cfg.ChecksDir, "notes.txt"):                     "not a suite",
		dataset.BatchPath(cfg.TripDataDir, contract.DefaultTripBatch): "medallion, trip_distance\nA1,1.0\nA2,9.0\n",
		dataset.BatchPath(cfg.TripFareDir, contract.DefaultFareBatch): "medallion,fare_amount\nA1,5.5\n",
	}
	for path, content := range files {
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return cfg
}

func TestExecuteChecks(t *testing.T) {
	cfg := workspace(t)
	cfg.Output = schema.CSVOut
	cfg.OutputFile = filepath.Join(t.TempDir(), "checks.csv")

	require.NoError(t, ExecuteChecks(context.Background(), cfg))

	f, err := os.Open(cfg.OutputFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	records, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "trip_data_checks", records[1][0])
	assert.Equal(t, "distance_not_null", records[1][2])
	assert.Equal(t, "trip_fare_checks", records[3][0])
}

func TestExecuteChecksUnknownSuite(t *testing.T) {
	cfg := workspace(t)
	cfg.Suite = "trip_data_nope"
	assert.ErrorIs(t, ExecuteChecks(context.Background(), cfg), ErrSuiteNotFound)
}

func TestExecuteRunAndScore(t *testing.T) {
	cfg := workspace(t)
	cfg.Score = true
	cfg.Timestamp = time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	cfg.OutputFile = filepath.Join(t.TempDir(), "run.json")

	store := &history.MockHistoryStore{}
	store.On("BeginRun", mock.Anything, "trip_data_checks", contract.DefaultTripBatch, mock.Anything, mock.Anything).Return(int64(1), nil)
	store.On("BeginRun", mock.Anything, "trip_fare_checks", contract.DefaultFareBatch, mock.Anything, mock.Anything).Return(int64(2), nil)
	store.On("RecordFieldSummary", mock.Anything, mock.Anything).Return(nil)
	store.On("EndRun", int64(1), 2, 10.0).Return(nil)
	store.On("EndRun", int64(2), 1, 10.0).Return(nil)
	mgr := &history.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	require.NoError(t, ExecuteRun(context.Background(), cfg, mgr))
	store.AssertExpectations(t)
	store.AssertNumberOfCalls(t, "RecordFieldSummary", 2)

	content, err := os.ReadFile(cfg.OutputFile)
	require.NoError(t, err)
	var results []schema.RunResult
	require.NoError(t, json.Unmarshal(content, &results))
	require.Len(t, results, 2)
	assert.Equal(t, "trip_data_checks", results[0].Suite)
	require.NotNil(t, results[0].Summary)
	assert.InDelta(t, 10.0, results[0].Summary.OverallScore, 0.0001)
	assert.InDelta(t, 50.0, results[0].Summary.Fields[0].PassRate, 0.0001)
	assert.FileExists(t, results[1].ReportPath)

	// Score the latest trip report without naming the file
	scoreCfg := cfg.Clone()
	scoreCfg.Suite = "trip_data_checks"
	scoreCfg.Timestamp = time.Time{}
	scoreCfg.OutputFile = filepath.Join(t.TempDir(), "score.json")
	require.NoError(t, ExecuteScore(context.Background(), scoreCfg, nil, ""))

	content, err = os.ReadFile(scoreCfg.OutputFile)
	require.NoError(t, err)
	var summary struct {
		FieldOrder   []string `json:"field_order"`
		OverallScore float64  `json:"overall_score"`
	}
	require.NoError(t, json.Unmarshal(content, &summary))
	assert.Equal(t, []string{"trip_distance"}, summary.FieldOrder)
	assert.InDelta(t, 10.0, summary.OverallScore, 0.0001)

	// An exact timestamp resolves the same report
	scoreCfg.Timestamp = cfg.Timestamp
	require.NoError(t, ExecuteScore(context.Background(), scoreCfg, nil, ""))

	// A timestamp with no report fails
	scoreCfg.Timestamp = cfg.Timestamp.Add(time.Second)
	assert.Error(t, ExecuteScore(context.Background(), scoreCfg, nil, ""))
}

func TestExecuteRunMissingBatch(t *testing.T) {
	cfg := workspace(t)
	cfg.FareBatch = "missing_batch"
	err := ExecuteRun(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestExecuteScoreRequiresTarget(t *testing.T) {
	cfg := workspace(t)
	err := ExecuteScore(context.Background(), cfg, nil, "")
	assert.ErrorContains(t, err, "--suite")
}

func TestExecuteScoreTracksHistory(t *testing.T) {
	cfg := workspace(t)
	cfg.OutputFile = filepath.Join(t.TempDir(), "score.json")
	path := filepath.Join(t.TempDir(), "report.json")
	r := schema.ValidationReport{
		SuiteName: "trip_data_checks",
		Meta:      schema.ReportMeta{RunID: "run-42", BatchName: "trip_data_batch"},
		Results:   []schema.ValidationResult{resultFor("medallion", 10, true)},
	}
	data, err := json.Marshal(r)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	store := &history.MockHistoryStore{}
	store.On("BeginRun", "run-42", "trip_data_checks", "trip_data_batch", mock.Anything, mock.Anything).Return(int64(0), assert.AnError)
	mgr := &history.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)

	// History failures are logged, not returned
	require.NoError(t, ExecuteScore(context.Background(), cfg, mgr, path))
	store.AssertNotCalled(t, "RecordFieldSummary", mock.Anything, mock.Anything)
}

func TestRecordHistoryDisabled(t *testing.T) {
	mgr := &history.MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(nil)
	recordHistory(mgr, &contract.Config{}, "", schema.DashboardSummary{})
	recordHistory(nil, &contract.Config{}, "", schema.DashboardSummary{})
	mgr.AssertExpectations(t)
}
