package core

import (
	"fmt"

	"github.com/huangsam/dqscore/internal/report"
	"github.com/huangsam/dqscore/schema"
)

// BuildDashboard groups tests into one panel per column, keeping the order in which columns first appear.
func BuildDashboard(tests []schema.QualityTest) schema.Dashboard {
	index := make(map[string]int)
	var panels []schema.FieldPanel
	for _, t := range tests {
		column := t.Config.Column
		if column == "" {
			column = schema.TableColumn
		}
		i, ok := index[column]
		if !ok {
			i = len(panels)
			index[column] = i
			panels = append(panels, schema.FieldPanel{Column: column})
		}
		panels[i].Tests = append(panels[i].Tests, t)
	}
	return schema.Dashboard{Panels: panels}
}

// ScoreReport builds the dashboard of a validation report and derives its summary.
func ScoreReport(r schema.ValidationReport) (schema.DashboardSummary, error) {
	tests, err := report.ToTests(r)
	if err != nil {
		return schema.DashboardSummary{}, fmt.Errorf("scoring suite %s: %w", r.SuiteName, err)
	}
	summary := Summarize(BuildDashboard(tests))
	summary.Suite = r.SuiteName
	summary.Batch = r.Meta.BatchName
	return summary, nil
}

// ScoreReportFile reads the report at path and scores it.
func ScoreReportFile(path string) (schema.ValidationReport, schema.DashboardSummary, error) {
	r, err := report.ReadReport(path)
	if err != nil {
		return schema.ValidationReport{}, schema.DashboardSummary{}, err
	}
	summary, err := ScoreReport(r)
	if err != nil {
		return r, schema.DashboardSummary{}, err
	}
	return r, summary, nil
}
