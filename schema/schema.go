// Package schema has configs, models and global variables for all parts of dqscore.
package schema

// CheckConfig is the configuration metadata of a single executed check.
// It is immutable once produced by a check run.
type CheckConfig struct {
	Type         string   `json:"type"`          // Normalized expectation type, e.g. expect_column_values_to_not_be_null
	Column       string   `json:"column"`        // Column the check targets (TableColumn for table-level checks)
	Description  string   `json:"description"`   // Free-form description from the definition
	Label        string   `json:"label"`         // Unique label of the check inside its suite
	Severity     Severity `json:"severity"`      // Severity of a failure
	QualityScore int      `json:"quality_score"` // Baseline score awarded when the check passes
	Success      bool     `json:"success"`       // Outcome of the check
}

// CheckResult holds the metrics produced by the validation engine for one check.
type CheckResult struct {
	ElementCount      int     `json:"element_count"`
	UnexpectedCount   int     `json:"unexpected_count"`
	UnexpectedPercent float64 `json:"unexpected_percent"`
	MissingPercent    float64 `json:"missing_percent"`
}

// QualityTest pairs one executed check with its metrics.
type QualityTest struct {
	Config CheckConfig `json:"config"`
	Result CheckResult `json:"result"`
}

// FieldPanel holds every quality test observed for one column, in report order.
type FieldPanel struct {
	Column string        `json:"column"`
	Tests  []QualityTest `json:"tests"`
}

// Dashboard is the full set of field panels for one report, in first-seen column order.
type Dashboard struct {
	Panels []FieldPanel `json:"panels"`
}

// ChecksSummary is the per-field summary rendered for display.
type ChecksSummary struct {
	TotalChecks     int     `json:"total_checks"`
	Passed          int     `json:"passed"`
	Failed          int     `json:"failed"`
	PassRate        float64 `json:"pass_rate"`         // Percentage, rounded to 2 decimals
	AvgQualityScore float64 `json:"avg_quality_score"` // Mean weighted score, rounded to 2 decimals
}

// FieldSummary is a ChecksSummary bound to its column, used where order matters.
type FieldSummary struct {
	Column string `json:"column"`
	ChecksSummary
}

// DashboardSummary is the fully derived, display-ready view of a Dashboard.
type DashboardSummary struct {
	Suite           string         `json:"suite,omitempty"`
	Batch           string         `json:"batch,omitempty"`
	Fields          []FieldSummary `json:"fields"`
	OverallScore    float64        `json:"overall_score"`
	MaxQualityScore int            `json:"max_quality_score"` // Highest quality_score observed, the best achievable field score
}

// Percent expresses a score as a percentage of the best achievable score.
// It returns 0 when no quality score was observed.
func (s DashboardSummary) Percent(score float64) float64 {
	if s.MaxQualityScore <= 0 {
		return 0
	}
	return 100 * score / float64(s.MaxQualityScore)
}

// ByColumn returns the summary as a mapping from column name to its summary.
func (s DashboardSummary) ByColumn() map[string]ChecksSummary {
	out := make(map[string]ChecksSummary, len(s.Fields))
	for _, f := range s.Fields {
		out[f.Column] = f.ChecksSummary
	}
	return out
}

// TotalChecks returns the number of checks across all fields.
func (s DashboardSummary) TotalChecks() int {
	total := 0
	for _, f := range s.Fields {
		total += f.TotalChecks
	}
	return total
}

// RunResult is the outcome of running one suite against one batch.
type RunResult struct {
	Suite      string            `json:"suite"`
	RunID      string            `json:"run_id"`
	Dataset    DatasetKind       `json:"dataset"`
	Batch      string            `json:"batch"`
	ReportPath string            `json:"report_path"`
	Success    bool              `json:"success"`
	Evaluated  int               `json:"evaluated"`
	Successful int               `json:"successful"`
	Summary    *DashboardSummary `json:"summary,omitempty"` // Set when the report was scored
}
