// Package core has core logic for running checks and scoring validation reports.
package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/huangsam/dqscore/core/engine"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/dataset"
	"github.com/huangsam/dqscore/internal/loader"
	"github.com/huangsam/dqscore/internal/outwriter"
	"github.com/huangsam/dqscore/internal/report"
	"github.com/huangsam/dqscore/schema"
)

// ErrSuiteNotFound is returned when the requested suite is not in the checks directory.
var ErrSuiteNotFound = errors.New("suite not found")

// ExecuteChecks loads the checks directory and prints every suite with its labels.
func ExecuteChecks(_ context.Context, cfg *contract.Config) error {
	suites, err := loadSuites(cfg)
	if err != nil {
		return err
	}
	return outwriter.NewOutWriter().WriteSuites(suites, cfg)
}

// ExecuteRun loads the batches and checks, runs every suite, saves the reports
// and prints where they were saved. With cfg.Score each report is also scored.
func ExecuteRun(ctx context.Context, cfg *contract.Config, mgr contract.HistoryManager) error {
	suites, err := loadSuites(cfg)
	if err != nil {
		return err
	}
	batches, err := loadBatches(cfg, suites)
	if err != nil {
		return err
	}

	p := &Pipeline{
		Runner:      engine.NewEngine(),
		Batches:     batches,
		ReportDir:   cfg.ReportDir,
		ReportBatch: cfg.TripBatch,
		Score:       cfg.Score,
	}
	if !cfg.Timestamp.IsZero() {
		p.Now = func() time.Time { return cfg.Timestamp }
	}
	results, err := p.Run(ctx, suites)
	if err != nil {
		return err
	}

	for _, r := range results {
		if r.Summary != nil {
			recordHistory(mgr, cfg, r.RunID, *r.Summary)
		}
	}
	return outwriter.NewOutWriter().WriteRunResults(results, cfg)
}

// ExecuteScore scores one report and prints its summary.
// Without a path, the report is resolved from the report directory by suite and trip batch,
// at cfg.Timestamp when set and otherwise the latest one.
func ExecuteScore(_ context.Context, cfg *contract.Config, mgr contract.HistoryManager, reportPath string) error {
	path, err := resolveReportPath(cfg, reportPath)
	if err != nil {
		return err
	}
	contract.Logger().Debug().Str("path", path).Msg("scoring report")

	r, summary, err := ScoreReportFile(path)
	if err != nil {
		return err
	}
	recordHistory(mgr, cfg, r.Meta.RunID, summary)
	return outwriter.NewOutWriter().WriteSummary(summary, cfg)
}

func resolveReportPath(cfg *contract.Config, reportPath string) (string, error) {
	if reportPath != "" {
		return reportPath, nil
	}
	if cfg.Suite == "" {
		return "", errors.New("a report path or --suite is required")
	}
	if !cfg.Timestamp.IsZero() {
		return report.FindAt(cfg.ReportDir, cfg.Timestamp, cfg.Suite, cfg.TripBatch)
	}
	return report.FindLatest(cfg.ReportDir, cfg.Suite, cfg.TripBatch)
}

// loadSuites loads the checks directory, narrowed to cfg.Suite when set.
func loadSuites(cfg *contract.Config) ([]schema.Suite, error) {
	suites, err := loader.LoadChecks(cfg.ChecksDir, engine.NewEngine())
	if err != nil {
		return nil, err
	}
	for name, n := range loader.Counts(suites) {
		contract.Logger().Info().Str("suite", name).Int("checks", n).Msg("loaded suite")
	}
	if cfg.Suite == "" {
		return suites, nil
	}
	suite, ok := loader.Find(suites, cfg.Suite)
	if !ok {
		return nil, fmt.Errorf("%w: %s in %s", ErrSuiteNotFound, cfg.Suite, cfg.ChecksDir)
	}
	return []schema.Suite{suite}, nil
}

// loadBatches loads each batch that at least one suite runs against.
func loadBatches(cfg *contract.Config, suites []schema.Suite) (map[schema.DatasetKind]*schema.Batch, error) {
	sources := map[schema.DatasetKind]struct{ dir, name string }{
		schema.TripData: {cfg.TripDataDir, cfg.TripBatch},
		schema.TripFare: {cfg.TripFareDir, cfg.FareBatch},
	}
	batches := make(map[schema.DatasetKind]*schema.Batch)
	for _, s := range suites {
		kind, ok := s.Kind()
		if !ok {
			continue
		}
		if _, loaded := batches[kind]; loaded {
			continue
		}
		src := sources[kind]
		batch, err := dataset.LoadBatch(src.dir, src.name)
		if err != nil {
			return nil, err
		}
		batches[kind] = batch
	}
	return batches, nil
}

// recordHistory writes a scored summary to the history store when one is configured.
// Tracking failures are logged and never fail the command.
func recordHistory(mgr contract.HistoryManager, cfg *contract.Config, runUUID string, summary schema.DashboardSummary) {
	if mgr == nil {
		return
	}
	store := mgr.GetHistoryStore()
	if store == nil {
		return
	}
	if runUUID == "" {
		runUUID = uuid.NewString()
	}

	configParams := map[string]any{
		"report_dir": cfg.ReportDir,
		"checks_dir": cfg.ChecksDir,
		"precision":  cfg.Precision,
	}
	runID, err := store.BeginRun(runUUID, summary.Suite, summary.Batch, time.Now(), configParams)
	if err != nil {
		contract.LogWarn("History tracking initialization failed", err)
		return
	}
	for _, f := range summary.Fields {
		if err := store.RecordFieldSummary(runID, f); err != nil {
			contract.LogWarn(fmt.Sprintf("History tracking failed for field %s", f.Column), err)
		}
	}
	if err := store.EndRun(runID, summary.TotalChecks(), summary.OverallScore); err != nil {
		contract.LogWarn("Failed to finalize history tracking", err)
	}
}
