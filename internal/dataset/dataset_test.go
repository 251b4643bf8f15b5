package dataset

import (
	"encoding/csv"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tripCSV = "medallion, hack_license ,vendor_id , passenger_count\n" +
	"89D2,BA96,CMT,1\n" +
	"0BD7,9FD8,VTS,\n"

func TestLoadBatch(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "trip_data_1.csv"), []byte(tripCSV), 0o644))

	batch, err := LoadBatch(dir, "trip_data_1")
	require.NoError(t, err)

	assert.Equal(t, "trip_data_1", batch.Name)
	assert.Equal(t, filepath.Join(dir, "trip_data_1.csv"), batch.Source)
	assert.Equal(t, []string{"medallion", "hack_license", "vendor_id", "passenger_count"}, batch.Columns)
	require.Len(t, batch.Rows, 2)

	values, ok := batch.Values("passenger_count")
	require.True(t, ok)
	assert.Equal(t, []string{"1", ""}, values)
}

func TestLoadCSVMissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "absent.csv"), "absent")
	assert.ErrorIs(t, err, ErrBatchNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)
	assert.Contains(t, err.Error(), "absent.csv")
}

func TestReadCSV(t *testing.T) {
	t.Run("ragged row", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader("a,b\n1,2\n3\n"), "ragged")
		assert.ErrorIs(t, err, csv.ErrFieldCount)
	})

	t.Run("empty input", func(t *testing.T) {
		_, err := ReadCSV(strings.NewReader(""), "empty")
		assert.Error(t, err)
	})

	t.Run("header only", func(t *testing.T) {
		batch, err := ReadCSV(strings.NewReader("a,b\n"), "header")
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "b"}, batch.Columns)
		assert.Empty(t, batch.Rows)
	})

	t.Run("byte order mark", func(t *testing.T) {
		batch, err := ReadCSV(strings.NewReader("\ufeffmedallion,fare_amount\nX,3.5\n"), "bom")
		require.NoError(t, err)
		_, ok := batch.ColumnIndex("medallion")
		assert.True(t, ok)
	})
}
