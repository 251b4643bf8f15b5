// Package engine runs check definitions against in-memory batches.
package engine

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
	"github.com/huangsam/dqscore/schema"
)

// partialUnexpectedLimit caps how many unexpected values are echoed back in a result.
const partialUnexpectedLimit = 20

// ErrUnknownExpectation is returned when a definition names an expectation type the engine does not know.
var ErrUnknownExpectation = errors.New("unknown expectation type")

// ErrColumnNotFound is returned when a check targets a column the batch does not have.
var ErrColumnNotFound = errors.New("column not found")

// Outcome is the pass/fail verdict and metrics of one check against one batch.
type Outcome struct {
	Success bool
	Metrics schema.ResultMetrics
}

// Runner executes one check definition against one batch.
// Implementations must not mutate the batch.
type Runner interface {
	Run(def schema.CheckDefinition, batch *schema.Batch) (Outcome, error)
}

// checkFunc evaluates one expectation type.
type checkFunc func(kwargs map[string]any, batch *schema.Batch) (Outcome, error)

// Engine is the built-in Runner. It knows a fixed set of expectation types.
type Engine struct {
	checks map[string]checkFunc
}

var _ Runner = &Engine{} // Compile-time check

// NewEngine creates an engine with every built-in expectation type registered.
func NewEngine() *Engine {
	return &Engine{
		checks: map[string]checkFunc{
			"expect_column_to_exist":                           columnToExist,
			"expect_column_values_to_not_be_null":              columnValuesNotNull,
			"expect_column_values_to_be_null":                  columnValuesNull,
			"expect_column_values_to_be_between":               columnValuesBetween,
			"expect_column_values_to_be_in_set":                columnValuesInSet,
			"expect_column_values_to_not_be_in_set":            columnValuesNotInSet,
			"expect_column_values_to_be_unique":                columnValuesUnique,
			"expect_column_values_to_match_regex":              columnValuesMatchRegex,
			"expect_column_values_to_match_strftime_format":    columnValuesMatchStrftime,
			"expect_column_value_lengths_to_be_between":        columnValueLengthsBetween,
			"expect_column_pair_values_a_to_be_greater_than_b": columnPairGreater,
			"expect_column_pair_values_to_be_equal":            columnPairEqual,
			"expect_column_mean_to_be_between":                 columnMeanBetween,
			"expect_table_row_count_to_be_between":             tableRowCountBetween,
		},
	}
}

// Supports reports whether the engine knows the given expectation type.
func (e *Engine) Supports(expectationType string) bool {
	_, ok := e.checks[NormalizeType(expectationType)]
	return ok
}

// Types returns every supported expectation type, sorted.
func (e *Engine) Types() []string {
	return slices.Sorted(maps.Keys(e.checks))
}

// Run evaluates one definition against the batch.
func (e *Engine) Run(def schema.CheckDefinition, batch *schema.Batch) (Outcome, error) {
	name := NormalizeType(def.ExpectationType)
	fn, ok := e.checks[name]
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %s", ErrUnknownExpectation, def.ExpectationType)
	}
	return fn(def.Kwargs, batch)
}

// RunSuite runs every check of the suite against the batch, in suite order.
// A check that cannot be evaluated is recorded as a failed result with exception info
// instead of aborting the suite.
func RunSuite(r Runner, suite schema.Suite, batch *schema.Batch, now time.Time) schema.ValidationReport {
	report := schema.ValidationReport{
		Success:   true,
		SuiteName: suite.Name,
		Results:   make([]schema.ValidationResult, 0, len(suite.Checks)),
		Meta: schema.ReportMeta{
			RunID:          uuid.NewString(),
			BatchName:      batch.Name,
			BatchSource:    batch.Source,
			ValidationTime: now.Format(time.RFC3339Nano),
		},
	}

	for _, def := range suite.Checks {
		result := schema.ValidationResult{ExpectationConfig: expectationConfig(def, batch.Name)}
		outcome, err := r.Run(def, batch)
		if err != nil {
			result.Success = false
			result.ExceptionInfo = &schema.ExceptionInfo{RaisedException: true, ExceptionMessage: err.Error()}
		} else {
			result.Success = outcome.Success
			result.Result = outcome.Metrics
		}
		if !result.Success {
			report.Success = false
		}
		report.Results = append(report.Results, result)
	}

	report.Statistics = statistics(report.Results)
	return report
}

// expectationConfig serializes a definition the way it is stored in a report.
func expectationConfig(def schema.CheckDefinition, batchName string) schema.ExpectationConfig {
	kwargs := make(map[string]any, len(def.Kwargs)+1)
	maps.Copy(kwargs, def.Kwargs)
	kwargs["batch_id"] = batchName

	meta := make(map[string]any, len(def.Meta))
	maps.Copy(meta, def.Meta)

	severity := def.Severity
	if severity == "" {
		severity = schema.CriticalSeverity
	}
	return schema.ExpectationConfig{
		ID:          uuid.NewString(),
		Type:        NormalizeType(def.ExpectationType),
		Kwargs:      kwargs,
		Description: def.Description,
		Meta:        meta,
		Severity:    severity,
	}
}

func statistics(results []schema.ValidationResult) schema.ValidationStatistics {
	stats := schema.ValidationStatistics{EvaluatedExpectations: len(results)}
	for _, r := range results {
		if r.Success {
			stats.SuccessfulExpectations++
		}
	}
	stats.UnsuccessfulExpectations = stats.EvaluatedExpectations - stats.SuccessfulExpectations
	if stats.EvaluatedExpectations > 0 {
		stats.SuccessPercent = 100 * float64(stats.SuccessfulExpectations) / float64(stats.EvaluatedExpectations)
	}
	return stats
}

// NormalizeType converts class-style names (ExpectColumnValuesToNotBeNull) to
// snake style (expect_column_values_to_not_be_null). Snake-style input is returned lowercased.
func NormalizeType(name string) string {
	name = strings.TrimSpace(name)
	if strings.Contains(name, "_") || strings.ToLower(name) == name {
		return strings.ToLower(name)
	}
	runes := []rune(name)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) && i > 0 {
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				b.WriteByte('_')
			}
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
