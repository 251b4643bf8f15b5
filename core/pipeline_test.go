package core

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dqscore/core/engine"
	"github.com/huangsam/dqscore/internal/report"
	"github.com/huangsam/dqscore/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func check(kind, column string, score int, kwargs map[string]any) schema.CheckDefinition {
	if kwargs == nil {
		kwargs = map[string]any{}
	}
	if column != "" {
		kwargs["column"] = column
	}
	return schema.CheckDefinition{
		ExpectationType: kind,
		Kwargs:          kwargs,
		Meta:            map[string]any{"label": kind + "_" + column, "quality_score": score},
	}
}

func testBatches() map[schema.DatasetKind]*schema.Batch {
	return map[schema.DatasetKind]*schema.Batch{
		schema.TripData: {
			Name:    "trip_data_1",
			Columns: []string{"medallion", "trip_distance"},
			Rows:    [][]string{{"A1", "1.0"}, {"A2", "9.0"}},
		},
		schema.TripFare: {
			Name:    "trip_fare_1",
			Columns: []string{"medallion", "fare_amount"},
			Rows:    [][]string{{"A1", "5.5"}, {"A2", "12.0"}},
		},
	}
}

func TestPipelineRun(t *testing.T) {
	dir := t.TempDir()
	ts := time.Date(2024, 3, 1, 12, 0, 0, 0, time.Local)
	suites := []schema.Suite{
		{Name: "trip_data_checks", Checks: []schema.CheckDefinition{
			check("expect_column_values_to_not_be_null", "trip_distance", 10, nil),
			check("expect_column_values_to_be_between", "trip_distance", 20, map[string]any{"min_value": 0, "max_value": 5}),
		}},
		{Name: "unrouted_checks", Checks: []schema.CheckDefinition{
			check("expect_column_to_exist", "medallion", 10, nil),
		}},
		{Name: "trip_fare_checks", Checks: []schema.CheckDefinition{
			check("expect_column_to_exist", "fare_amount", 10, nil),
		}},
	}

	p := &Pipeline{
		Runner:      engine.NewEngine(),
		Batches:     testBatches(),
		ReportDir:   dir,
		ReportBatch: "trip_data_1",
		Score:       true,
		Now:         func() time.Time { return ts },
	}
	results, err := p.Run(context.Background(), suites)
	require.NoError(t, err)
	require.Len(t, results, 2)

	trip := results[0]
	assert.Equal(t, "trip_data_checks", trip.Suite)
	assert.Equal(t, schema.TripData, trip.Dataset)
	assert.False(t, trip.Success)
	assert.Equal(t, 2, trip.Evaluated)
	assert.Equal(t, 1, trip.Successful)
	assert.Equal(t, report.FileName(dir, ts, "trip_data_checks", "trip_data_1"), trip.ReportPath)
	require.NotNil(t, trip.Summary)
	assert.InDelta(t, 10.0, trip.Summary.OverallScore, 0.0001)
	assert.InDelta(t, 50.0, trip.Summary.Fields[0].PassRate, 0.0001)

	// The fare report is named after the trip batch
	fare := results[1]
	assert.Equal(t, schema.TripFare, fare.Dataset)
	assert.Equal(t, "trip_fare_1", fare.Batch)
	assert.Equal(t, report.FileName(dir, ts, "trip_fare_checks", "trip_data_1"), fare.ReportPath)
	assert.True(t, fare.Success)

	saved, err := report.ReadReport(trip.ReportPath)
	require.NoError(t, err)
	assert.Equal(t, trip.RunID, saved.Meta.RunID)
	assert.Equal(t, "trip_data_1", saved.Meta.BatchName)
	assert.Len(t, saved.Results, 2)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestPipelineRunWithoutScore(t *testing.T) {
	p := &Pipeline{Runner: engine.NewEngine(), Batches: testBatches(), ReportDir: t.TempDir()}
	results, err := p.Run(context.Background(), []schema.Suite{
		{Name: "trip_fare_checks", Checks: []schema.CheckDefinition{check("expect_column_to_exist", "fare_amount", 10, nil)}},
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].Summary)
	// Without a report batch override the batch's own name is used
	assert.Contains(t, filepath.Base(results[0].ReportPath), "_trip_fare_checks_trip_fare_1.json")
}

func TestPipelineRunMissingBatch(t *testing.T) {
	batches := testBatches()
	delete(batches, schema.TripFare)
	p := &Pipeline{Runner: engine.NewEngine(), Batches: batches, ReportDir: t.TempDir()}

	_, err := p.Run(context.Background(), []schema.Suite{{Name: "trip_fare_checks"}})
	assert.ErrorContains(t, err, "trip_fare")
}

func TestPipelineRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &Pipeline{Runner: engine.NewEngine(), Batches: testBatches(), ReportDir: t.TempDir()}

	_, err := p.Run(ctx, []schema.Suite{{Name: "trip_data_checks"}})
	assert.ErrorIs(t, err, context.Canceled)
}
