// Package dataset loads trip and fare CSV files into in-memory batches.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"
)

// ErrBatchNotFound is returned when the CSV file backing a batch does not exist.
// It wraps fs.ErrNotExist.
var ErrBatchNotFound = fmt.Errorf("batch file not found: %w", fs.ErrNotExist)

// BatchPath returns the CSV path of a named batch inside dir.
func BatchPath(dir, name string) string {
	return filepath.Join(dir, name+".csv")
}

// LoadBatch loads the named batch from dir.
func LoadBatch(dir, name string) (*schema.Batch, error) {
	return LoadCSV(BatchPath(dir, name), name)
}

// LoadCSV reads a CSV file with a header row into a batch.
// Header cells are whitespace-trimmed and every row must have as many cells as the header.
func LoadCSV(path, name string) (*schema.Batch, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrBatchNotFound, path)
		}
		return nil, fmt.Errorf("opening batch %s: %w", name, err)
	}
	defer func() { _ = f.Close() }()

	batch, err := ReadCSV(f, name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	batch.Source = path
	contract.Logger().Debug().Str("batch", name).Int("rows", len(batch.Rows)).Int("columns", len(batch.Columns)).Msg("loaded batch")
	return batch, nil
}

// ReadCSV reads CSV content with a header row into a batch.
func ReadCSV(r io.Reader, name string) (*schema.Batch, error) {
	reader := csv.NewReader(r)
	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("batch %s has no header row", name)
	}
	if err != nil {
		return nil, err
	}

	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	batch := &schema.Batch{Name: name, Columns: columns}
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// csv.ErrFieldCount covers ragged rows
			return nil, err
		}
		batch.Rows = append(batch.Rows, record)
	}
	return batch, nil
}
