// Package report reads and writes validation report documents.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huangsam/dqscore/schema"
)

// ErrMissingMeta is returned when a result lacks meta.label or meta.quality_score.
var ErrMissingMeta = errors.New("result is missing required meta")

// ErrNoReport is returned when no report matches the requested suite and batch.
var ErrNoReport = fmt.Errorf("no matching report: %w", fs.ErrNotExist)

// ReadReport decodes the report at path.
func ReadReport(path string) (schema.ValidationReport, error) {
	var r schema.ValidationReport
	data, err := os.ReadFile(path)
	if err != nil {
		return r, fmt.Errorf("reading report: %w", err)
	}
	if err := json.Unmarshal(data, &r); err != nil {
		return r, fmt.Errorf("decoding report %s: %w", path, err)
	}
	return r, nil
}

// WriteReport encodes the report as indented JSON at path, creating parent directories.
func WriteReport(path string, r schema.ValidationReport) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating report dir: %w", err)
	}
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding report: %w", err)
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}

// FileName returns the report path for a suite run: <dir>/<timestamp>_<suite>_<batch>.json.
func FileName(dir string, ts time.Time, suite, batch string) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s_%s.json", ts.Format(schema.ReportTimestampFormat), suite, batch))
}

// Save writes the report under dir using FileName and returns the path.
func Save(dir string, ts time.Time, suite, batch string, r schema.ValidationReport) (string, error) {
	path := FileName(dir, ts, suite, batch)
	if err := WriteReport(path, r); err != nil {
		return "", err
	}
	return path, nil
}

// Entry is a report file found on disk.
type Entry struct {
	Path      string
	Timestamp time.Time
}

// List returns every report in dir for the suite and batch, in file name order.
func List(dir, suite, batch string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading report dir: %w", err)
	}
	suffix := fmt.Sprintf("_%s_%s.json", suite, batch)
	var entries []Entry
	for _, f := range files {
		if f.IsDir() || !strings.HasSuffix(f.Name(), suffix) {
			continue
		}
		prefix := strings.TrimSuffix(f.Name(), suffix)
		ts, err := time.ParseInLocation(schema.ReportTimestampFormat, prefix, time.Local)
		if err != nil {
			continue
		}
		entries = append(entries, Entry{Path: filepath.Join(dir, f.Name()), Timestamp: ts})
	}
	return entries, nil
}

// FindLatest returns the newest report in dir for the suite and batch.
func FindLatest(dir, suite, batch string) (string, error) {
	entries, err := List(dir, suite, batch)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		return "", fmt.Errorf("%w for suite %s and batch %s in %s", ErrNoReport, suite, batch, dir)
	}
	latest := entries[0]
	for _, e := range entries[1:] {
		if e.Timestamp.After(latest.Timestamp) {
			latest = e
		}
	}
	return latest.Path, nil
}

// FindAt returns the report written at exactly ts for the suite and batch.
func FindAt(dir string, ts time.Time, suite, batch string) (string, error) {
	path := FileName(dir, ts, suite, batch)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", ErrNoReport, path)
		}
		return "", err
	}
	return path, nil
}

// ToTests converts every result of the report into a QualityTest, in report order.
// A result without meta.label or meta.quality_score aborts the conversion.
func ToTests(r schema.ValidationReport) ([]schema.QualityTest, error) {
	tests := make([]schema.QualityTest, 0, len(r.Results))
	for i, res := range r.Results {
		cfg := res.ExpectationConfig
		label, ok := cfg.Meta["label"].(string)
		if !ok || label == "" {
			return nil, fmt.Errorf("%w: result #%d (%s) has no label", ErrMissingMeta, i, cfg.Type)
		}
		score, ok := qualityScore(cfg.Meta["quality_score"])
		if !ok {
			return nil, fmt.Errorf("%w: result #%d (%s) has no numeric quality_score", ErrMissingMeta, i, label)
		}
		severity := cfg.Severity
		if severity == "" {
			severity = schema.CriticalSeverity
		}
		tests = append(tests, schema.QualityTest{
			Config: schema.CheckConfig{
				Type:         cfg.Type,
				Column:       schema.ColumnFromKwargs(cfg.Kwargs),
				Description:  cfg.Description,
				Label:        label,
				Severity:     severity,
				QualityScore: score,
				Success:      res.Success,
			},
			Result: schema.CheckResult{
				ElementCount:      res.Result.ElementCount,
				UnexpectedCount:   res.Result.UnexpectedCount,
				UnexpectedPercent: res.Result.UnexpectedPercent,
				MissingPercent:    res.Result.MissingPercent,
			},
		})
	}
	return tests, nil
}

// qualityScore accepts the numeric shapes produced by JSON and YAML decoding.
func qualityScore(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(math.Round(n)), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return int(math.Round(f)), true
	default:
		return 0, false
	}
}
