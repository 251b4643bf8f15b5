package parquet

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dqscore/schema"
	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStructTags(t *testing.T) {
	tests := []struct {
		name    string
		model   any
		columns []string
	}{
		{
			name:    "score runs",
			model:   new(ScoreRun),
			columns: []string{"run_id", "run_uuid", "suite_name", "batch_name", "scored_at", "total_checks", "overall_score", "config_params"},
		},
		{
			name:    "field scores",
			model:   new(FieldScore),
			columns: []string{"run_id", "column_name", "total_checks", "passed", "failed", "pass_rate", "avg_score"},
		},
		{
			name:    "summary rows",
			model:   new(SummaryRow),
			columns: []string{"suite", "batch", "field", "total_checks", "passed", "failed", "pass_rate", "avg_score", "label", "overall_score"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := parquet.SchemaOf(tt.model)
			require.NotNil(t, s)
			for _, colName := range tt.columns {
				col, ok := s.Lookup(colName)
				require.True(t, ok, "Column %s should exist in schema", colName)
				require.NotNil(t, col, "Column %s should not be nil", colName)
			}
		})
	}
}

func readAll[T any](t *testing.T, r io.ReaderAt) []T {
	t.Helper()
	reader := parquet.NewGenericReader[T](r)
	defer func() { _ = reader.Close() }()

	rows := make([]T, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err, "Should be able to read data")
	}
	return rows[:n]
}

func TestWriteScoreRunsParquet(t *testing.T) {
	score := 72.5
	params := `{"output":"text"}`
	data := []ScoreRun{
		{RunID: 1, RunUUID: "a", SuiteName: "trip_data_checks", BatchName: "trip_data_1", ScoredAt: time.Now().UTC(), TotalChecks: 4, OverallScore: &score, ConfigParams: &params},
		{RunID: 2, SuiteName: "trip_fare_checks", BatchName: "trip_data_1", ScoredAt: time.Now().UTC(), TotalChecks: 0},
	}
	outputPath := filepath.Join(t.TempDir(), "runs.parquet")
	require.NoError(t, WriteScoreRunsParquet(data, outputPath))

	file, err := os.Open(outputPath)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	rows := readAll[ScoreRun](t, file)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(1), rows[0].RunID)
	require.NotNil(t, rows[0].OverallScore)
	assert.InDelta(t, 72.5, *rows[0].OverallScore, 0.0001)
	require.NotNil(t, rows[0].ConfigParams)
	assert.Equal(t, params, *rows[0].ConfigParams)
	assert.Nil(t, rows[1].OverallScore)
	assert.Nil(t, rows[1].ConfigParams)
	assert.WithinDuration(t, data[0].ScoredAt, rows[0].ScoredAt, time.Microsecond)
}

func TestWriteFieldScoresParquet(t *testing.T) {
	data := FieldScoresFromRecords([]schema.FieldScoreRecord{
		{RunID: 1, ColumnName: "medallion", TotalChecks: 2, Passed: 1, Failed: 1, PassRate: 50, AvgQualityScore: 7.5},
	})
	outputPath := filepath.Join(t.TempDir(), "fields.parquet")
	require.NoError(t, WriteFieldScoresParquet(data, outputPath))

	info, err := os.Stat(outputPath)
	require.NoError(t, err, "Output file should exist")
	assert.Greater(t, info.Size(), int64(0), "Output file should not be empty")
}

func TestWriteEmptyData(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "empty.parquet")
	require.NoError(t, WriteScoreRunsParquet([]ScoreRun{}, outputPath))
	info, err := os.Stat(outputPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestWriteFileBadPath(t *testing.T) {
	err := WriteFieldScoresParquet(nil, filepath.Join(t.TempDir(), "missing", "dir", "x.parquet"))
	assert.Error(t, err)
}

func TestSummaryRows(t *testing.T) {
	s := schema.DashboardSummary{
		Suite: "trip_data_checks",
		Batch: "trip_data_1",
		Fields: []schema.FieldSummary{
			{Column: "medallion", ChecksSummary: schema.ChecksSummary{TotalChecks: 2, Passed: 1, Failed: 1, PassRate: 50, AvgQualityScore: 10}},
			{Column: "_table", ChecksSummary: schema.ChecksSummary{TotalChecks: 1, Passed: 1, PassRate: 100, AvgQualityScore: 5}},
		},
		OverallScore: 7.5,
	}
	rows := SummaryRows(s, func(v float64) string {
		if v >= 10 {
			return "high"
		}
		return "low"
	})
	require.Len(t, rows, 2)
	assert.Equal(t, "high", rows[0].Label)
	assert.Equal(t, "low", rows[1].Label)
	assert.InDelta(t, 7.5, rows[1].OverallScore, 0.0001)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, rows))
	back := readAll[SummaryRow](t, bytes.NewReader(buf.Bytes()))
	assert.Equal(t, rows, back)

	assert.Len(t, ScoreRunsFromRecords([]schema.ScoreRunRecord{{RunID: 3}}), 1)
}
