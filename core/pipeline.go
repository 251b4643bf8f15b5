package core

import (
	"context"
	"fmt"
	"time"

	"github.com/huangsam/dqscore/core/engine"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/report"
	"github.com/huangsam/dqscore/schema"
)

// Pipeline runs check suites against the trip and fare batches and saves one report per suite.
type Pipeline struct {
	Runner      engine.Runner
	Batches     map[schema.DatasetKind]*schema.Batch
	ReportDir   string
	ReportBatch string // Batch name used in report file names
	Score       bool   // Score each saved report
	Now         func() time.Time
}

// Run executes the suites in order. Suites whose name matches no dataset kind are skipped.
// Every report of one run shares the same file name timestamp.
func (p *Pipeline) Run(ctx context.Context, suites []schema.Suite) ([]schema.RunResult, error) {
	now := time.Now
	if p.Now != nil {
		now = p.Now
	}
	ts := now()

	var results []schema.RunResult
	for _, suite := range suites {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		kind, ok := suite.Kind()
		if !ok {
			contract.Logger().Warn().Str("suite", suite.Name).Msg("skipping suite with no matching dataset")
			continue
		}
		batch, ok := p.Batches[kind]
		if !ok || batch == nil {
			return results, fmt.Errorf("suite %s needs the %s batch, which is not loaded", suite.Name, kind)
		}

		r := engine.RunSuite(p.Runner, suite, batch, ts)
		path, err := report.Save(p.ReportDir, ts, suite.Name, p.reportBatch(batch), r)
		if err != nil {
			return results, err
		}
		contract.Logger().Info().Str("suite", suite.Name).Str("path", path).Bool("success", r.Success).Msg("saved report")

		result := schema.RunResult{
			Suite:      suite.Name,
			RunID:      r.Meta.RunID,
			Dataset:    kind,
			Batch:      batch.Name,
			ReportPath: path,
			Success:    r.Success,
			Evaluated:  r.Statistics.EvaluatedExpectations,
			Successful: r.Statistics.SuccessfulExpectations,
		}
		if p.Score {
			summary, err := ScoreReport(r)
			if err != nil {
				return results, err
			}
			result.Summary = &summary
		}
		results = append(results, result)
	}
	return results, nil
}

func (p *Pipeline) reportBatch(batch *schema.Batch) string {
	if p.ReportBatch != "" {
		return p.ReportBatch
	}
	return batch.Name
}
