package history

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/dqscore/internal/parquet"
	"github.com/huangsam/dqscore/schema"
	pq "github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestStoreManager(t *testing.T) {
	mgr := &StoreManager{}
	assert.Nil(t, mgr.GetHistoryStore())

	store, err := NewStore(schema.NoneBackend, "")
	require.NoError(t, err)
	mgr.history = store
	assert.Equal(t, store, mgr.GetHistoryStore())
}

func TestClear(t *testing.T) {
	t.Run("sqlite removes file", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "history.db")
		store, err := NewStore(schema.SQLiteBackend, dbPath)
		require.NoError(t, err)
		require.NoError(t, store.Close())

		require.NoError(t, Clear(schema.SQLiteBackend, dbPath, ""))
		_, err = os.Stat(dbPath)
		assert.True(t, os.IsNotExist(err))

		// Missing file is not an error
		assert.NoError(t, Clear(schema.SQLiteBackend, dbPath, ""))
	})

	t.Run("sqlite requires path", func(t *testing.T) {
		assert.Error(t, Clear(schema.SQLiteBackend, "", ""))
	})

	t.Run("none backend", func(t *testing.T) {
		assert.NoError(t, Clear(schema.NoneBackend, "", ""))
	})

	t.Run("unsupported backend", func(t *testing.T) {
		assert.Error(t, Clear(schema.DatabaseBackend("oracle"), "", ""))
	})
}

func TestExport(t *testing.T) {
	store, err := NewStore(schema.SQLiteBackend, ":memory:")
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	prefix := filepath.Join(t.TempDir(), "history")
	var out bytes.Buffer

	// Nothing recorded yet
	err = Export(store, prefix, &out)
	assert.ErrorContains(t, err, "no history data")

	runID, err := store.BeginRun("run-1", "trip_data_checks", "trip_data_batch", time.Now(), nil)
	require.NoError(t, err)
	require.NoError(t, store.RecordFieldSummary(runID, field("medallion", 1, 1, 100, 10)))
	require.NoError(t, store.EndRun(runID, 1, 10))

	require.NoError(t, Export(store, prefix, &out))
	runsFile, fieldsFile := ExportFiles(prefix)
	assert.Contains(t, out.String(), "Exported 1 score runs to: "+runsFile)
	assert.Contains(t, out.String(), "Exported 1 field score records to: "+fieldsFile)

	f, err := os.Open(fieldsFile)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()
	reader := pq.NewGenericReader[parquet.FieldScore](f)
	defer func() { _ = reader.Close() }()
	rows := make([]parquet.FieldScore, reader.NumRows())
	n, err := reader.Read(rows)
	if err != nil && err != io.EOF {
		require.NoError(t, err)
	}
	require.Equal(t, 1, n)
	assert.Equal(t, "medallion", rows[0].ColumnName)
}

func TestExportValidation(t *testing.T) {
	assert.Error(t, Export(&MockHistoryStore{}, "", &bytes.Buffer{}))
	assert.Error(t, Export(nil, "out", &bytes.Buffer{}))

	m := &MockHistoryStore{}
	m.On("GetStatus").Return(schema.HistoryStatus{Backend: "sqlite", TotalRuns: 2}, nil)
	m.On("GetAllRuns").Return(nil, assert.AnError)
	err := Export(m, filepath.Join(t.TempDir(), "x"), &bytes.Buffer{})
	assert.ErrorIs(t, err, assert.AnError)
	m.AssertExpectations(t)
}

func TestPrintStatus(t *testing.T) {
	var out bytes.Buffer
	PrintStatus(&out, schema.HistoryStatus{Backend: "none"})
	assert.Equal(t, "History Backend: none\nConnected: false\n", out.String())

	out.Reset()
	now := time.Now()
	PrintStatus(&out, schema.HistoryStatus{
		Backend:       "sqlite",
		Connected:     true,
		TotalRuns:     1200,
		LastRunID:     1200,
		LastRunTime:   now,
		OldestRunTime: now.Add(-time.Hour),
		TotalChecks:   36000,
		TableSizes:    map[string]int64{fieldScoresTable: 4800, scoreRunsTable: 1200},
	})
	s := out.String()
	assert.Contains(t, s, "Total Runs: 1,200")
	assert.Contains(t, s, "Total Checks Scored: 36,000")
	// Tables are listed in name order
	assert.Less(t, bytes.Index(out.Bytes(), []byte(fieldScoresTable)), bytes.Index(out.Bytes(), []byte(scoreRunsTable)))
}

func TestMockHistoryManager(t *testing.T) {
	mgr := &MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(nil)
	assert.Nil(t, mgr.GetHistoryStore())

	store := &MockHistoryStore{}
	mgr = &MockHistoryManager{}
	mgr.On("GetHistoryStore").Return(store)
	assert.Equal(t, store, mgr.GetHistoryStore())
	store.On("BeginRun", "u", "s", "b", mock.Anything, mock.Anything).Return(int64(7), nil)
	id, err := mgr.GetHistoryStore().BeginRun("u", "s", "b", time.Now(), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(7), id)
}
