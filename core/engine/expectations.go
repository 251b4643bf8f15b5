package engine

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/huangsam/dqscore/schema"
	"github.com/ncruces/go-strftime"
)

// timeLayouts are tried, in order, when comparing column pairs that are not numeric.
var timeLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// columnTally accumulates per-row verdicts for a column map check.
type columnTally struct {
	elements   int
	missing    int
	unexpected int
	partial    []any
}

func (t *columnTally) reject(v string) {
	t.unexpected++
	if len(t.partial) < partialUnexpectedLimit {
		t.partial = append(t.partial, v)
	}
}

// outcome converts the tally into metrics. Missing cells are excluded from the
// unexpected percentage and success honours the optional mostly threshold.
func (t *columnTally) outcome(mostly float64) Outcome {
	nonMissing := t.elements - t.missing
	m := schema.ResultMetrics{
		ElementCount:          t.elements,
		UnexpectedCount:       t.unexpected,
		MissingCount:          t.missing,
		PartialUnexpectedList: t.partial,
	}
	if t.elements > 0 {
		m.MissingPercent = 100 * float64(t.missing) / float64(t.elements)
	}
	if nonMissing > 0 {
		m.UnexpectedPercentNonmissing = 100 * float64(t.unexpected) / float64(nonMissing)
		m.UnexpectedPercent = m.UnexpectedPercentNonmissing
	}
	success := true
	if nonMissing > 0 {
		success = float64(nonMissing-t.unexpected)/float64(nonMissing) >= mostly
	}
	return Outcome{Success: success, Metrics: m}
}

// mapColumn applies accept to every non-missing cell of the target column.
func mapColumn(kwargs map[string]any, batch *schema.Batch, accept func(string) bool) (Outcome, error) {
	values, err := requireColumn(kwargs, "column", batch)
	if err != nil {
		return Outcome{}, err
	}
	mostly, err := mostlyArg(kwargs)
	if err != nil {
		return Outcome{}, err
	}
	tally := columnTally{elements: len(values)}
	for _, v := range values {
		if schema.IsMissing(v) {
			tally.missing++
			continue
		}
		if !accept(v) {
			tally.reject(v)
		}
	}
	return tally.outcome(mostly), nil
}

func columnToExist(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	name, err := stringArg(kwargs, "column")
	if err != nil {
		return Outcome{}, err
	}
	_, ok := batch.ColumnIndex(name)
	return Outcome{
		Success: ok,
		Metrics: schema.ResultMetrics{ElementCount: len(batch.Rows), ObservedValue: ok},
	}, nil
}

func columnValuesNotNull(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	values, err := requireColumn(kwargs, "column", batch)
	if err != nil {
		return Outcome{}, err
	}
	mostly, err := mostlyArg(kwargs)
	if err != nil {
		return Outcome{}, err
	}
	// Nulls are the unexpected values here, so nothing counts as missing.
	tally := columnTally{elements: len(values)}
	for _, v := range values {
		if schema.IsMissing(v) {
			tally.reject(v)
		}
	}
	return tally.outcome(mostly), nil
}

func columnValuesNull(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	values, err := requireColumn(kwargs, "column", batch)
	if err != nil {
		return Outcome{}, err
	}
	mostly, err := mostlyArg(kwargs)
	if err != nil {
		return Outcome{}, err
	}
	tally := columnTally{elements: len(values)}
	for _, v := range values {
		if !schema.IsMissing(v) {
			tally.reject(v)
		}
	}
	return tally.outcome(mostly), nil
}

func columnValuesBetween(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	bounds, err := boundsArgs(kwargs, "min_value", "max_value")
	if err != nil {
		return Outcome{}, err
	}
	return mapColumn(kwargs, batch, func(v string) bool {
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return err == nil && bounds.contains(f)
	})
}

func columnValuesInSet(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	set, err := listArg(kwargs, "value_set")
	if err != nil {
		return Outcome{}, err
	}
	return mapColumn(kwargs, batch, func(v string) bool { return inSet(v, set) })
}

func columnValuesNotInSet(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	set, err := listArg(kwargs, "value_set")
	if err != nil {
		return Outcome{}, err
	}
	return mapColumn(kwargs, batch, func(v string) bool { return !inSet(v, set) })
}

func columnValuesUnique(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	values, err := requireColumn(kwargs, "column", batch)
	if err != nil {
		return Outcome{}, err
	}
	counts := make(map[string]int, len(values))
	for _, v := range values {
		if !schema.IsMissing(v) {
			counts[strings.TrimSpace(v)]++
		}
	}
	// Every occurrence of a duplicated value is unexpected.
	return mapColumn(kwargs, batch, func(v string) bool { return counts[strings.TrimSpace(v)] == 1 })
}

func columnValuesMatchRegex(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	pattern, err := stringArg(kwargs, "regex")
	if err != nil {
		return Outcome{}, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Outcome{}, fmt.Errorf("invalid regex %q: %w", pattern, err)
	}
	return mapColumn(kwargs, batch, re.MatchString)
}

func columnValuesMatchStrftime(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	format, err := stringArg(kwargs, "strftime_format")
	if err != nil {
		return Outcome{}, err
	}
	return mapColumn(kwargs, batch, func(v string) bool {
		_, err := strftime.Parse(format, strings.TrimSpace(v))
		return err == nil
	})
}

func columnValueLengthsBetween(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	bounds, err := boundsArgs(kwargs, "min_value", "max_value")
	if err != nil {
		return Outcome{}, err
	}
	return mapColumn(kwargs, batch, func(v string) bool {
		return bounds.contains(float64(utf8.RuneCountInString(v)))
	})
}

// mapColumnPair applies accept to every row where both cells are present.
func mapColumnPair(kwargs map[string]any, batch *schema.Batch, accept func(a, b string) bool) (Outcome, error) {
	left, err := requireColumn(kwargs, "column_A", batch)
	if err != nil {
		return Outcome{}, err
	}
	right, err := requireColumn(kwargs, "column_B", batch)
	if err != nil {
		return Outcome{}, err
	}
	mostly, err := mostlyArg(kwargs)
	if err != nil {
		return Outcome{}, err
	}
	tally := columnTally{elements: len(left)}
	for i := range left {
		if schema.IsMissing(left[i]) || schema.IsMissing(right[i]) {
			tally.missing++
			continue
		}
		if !accept(left[i], right[i]) {
			tally.reject(left[i] + "|" + right[i])
		}
	}
	return tally.outcome(mostly), nil
}

func columnPairGreater(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	orEqual, err := boolArg(kwargs, "or_equal")
	if err != nil {
		return Outcome{}, err
	}
	return mapColumnPair(kwargs, batch, func(a, b string) bool {
		c := compareCells(a, b)
		return c > 0 || (orEqual && c == 0)
	})
}

func columnPairEqual(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	return mapColumnPair(kwargs, batch, func(a, b string) bool { return compareCells(a, b) == 0 })
}

func columnMeanBetween(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	values, err := requireColumn(kwargs, "column", batch)
	if err != nil {
		return Outcome{}, err
	}
	bounds, err := boundsArgs(kwargs, "min_value", "max_value")
	if err != nil {
		return Outcome{}, err
	}
	sum, n, missing := 0.0, 0, 0
	for _, v := range values {
		if schema.IsMissing(v) {
			missing++
			continue
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			continue
		}
		sum += f
		n++
	}
	m := schema.ResultMetrics{ElementCount: len(values), MissingCount: missing}
	if len(values) > 0 {
		m.MissingPercent = 100 * float64(missing) / float64(len(values))
	}
	if n == 0 {
		return Outcome{Success: false, Metrics: m}, nil
	}
	observed := sum / float64(n)
	m.ObservedValue = observed
	return Outcome{Success: bounds.contains(observed), Metrics: m}, nil
}

func tableRowCountBetween(kwargs map[string]any, batch *schema.Batch) (Outcome, error) {
	bounds, err := boundsArgs(kwargs, "min_value", "max_value")
	if err != nil {
		return Outcome{}, err
	}
	rows := len(batch.Rows)
	return Outcome{
		Success: bounds.contains(float64(rows)),
		Metrics: schema.ResultMetrics{ElementCount: rows, ObservedValue: rows},
	}, nil
}

// compareCells orders two cells numerically, then as timestamps, then lexically.
func compareCells(a, b string) int {
	a, b = strings.TrimSpace(a), strings.TrimSpace(b)
	fa, errA := strconv.ParseFloat(a, 64)
	fb, errB := strconv.ParseFloat(b, 64)
	if errA == nil && errB == nil {
		return cmpFloat(fa, fb)
	}
	for _, layout := range timeLayouts {
		ta, errA := time.Parse(layout, a)
		tb, errB := time.Parse(layout, b)
		if errA == nil && errB == nil {
			return ta.Compare(tb)
		}
	}
	return strings.Compare(a, b)
}

func cmpFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// inSet reports whether the cell equals any set member, numerically when the member is a number.
func inSet(v string, set []any) bool {
	v = strings.TrimSpace(v)
	for _, member := range set {
		if f, ok := toFloat(member); ok {
			if cf, err := strconv.ParseFloat(v, 64); err == nil && cf == f {
				return true
			}
			continue
		}
		if fmt.Sprint(member) == v {
			return true
		}
	}
	return false
}

// bounds is an optional, optionally strict numeric interval.
type bounds struct {
	min, max             float64
	hasMin, hasMax       bool
	strictMin, strictMax bool
}

func (b bounds) contains(v float64) bool {
	if b.hasMin && (v < b.min || (b.strictMin && v == b.min)) {
		return false
	}
	if b.hasMax && (v > b.max || (b.strictMax && v == b.max)) {
		return false
	}
	return true
}

func boundsArgs(kwargs map[string]any, minKey, maxKey string) (bounds, error) {
	var b bounds
	var err error
	if b.min, b.hasMin, err = optionalFloatArg(kwargs, minKey); err != nil {
		return b, err
	}
	if b.max, b.hasMax, err = optionalFloatArg(kwargs, maxKey); err != nil {
		return b, err
	}
	if !b.hasMin && !b.hasMax {
		return b, fmt.Errorf("at least one of %s or %s is required", minKey, maxKey)
	}
	if b.hasMin && b.hasMax && b.min > b.max {
		return b, fmt.Errorf("%s (%v) cannot exceed %s (%v)", minKey, b.min, maxKey, b.max)
	}
	if b.strictMin, err = boolArg(kwargs, "strict_min"); err != nil {
		return b, err
	}
	if b.strictMax, err = boolArg(kwargs, "strict_max"); err != nil {
		return b, err
	}
	return b, nil
}

func requireColumn(kwargs map[string]any, key string, batch *schema.Batch) ([]string, error) {
	name, err := stringArg(kwargs, key)
	if err != nil {
		return nil, err
	}
	values, ok := batch.Values(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in batch %s", ErrColumnNotFound, name, batch.Name)
	}
	return values, nil
}

func stringArg(kwargs map[string]any, key string) (string, error) {
	v, ok := kwargs[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := v.(string)
	if !ok || s == "" {
		return "", fmt.Errorf("argument %q must be a non-empty string", key)
	}
	return s, nil
}

func optionalFloatArg(kwargs map[string]any, key string) (float64, bool, error) {
	v, ok := kwargs[key]
	if !ok || v == nil {
		return 0, false, nil
	}
	f, ok := toFloat(v)
	if !ok {
		return 0, false, fmt.Errorf("argument %q must be a number (got %v)", key, v)
	}
	return f, true, nil
}

func mostlyArg(kwargs map[string]any) (float64, error) {
	f, ok, err := optionalFloatArg(kwargs, "mostly")
	if err != nil {
		return 0, err
	}
	if !ok {
		return 1, nil
	}
	if f < 0 || f > 1 || math.IsNaN(f) {
		return 0, fmt.Errorf("argument \"mostly\" must be between 0 and 1 (got %v)", f)
	}
	return f, nil
}

func boolArg(kwargs map[string]any, key string) (bool, error) {
	v, ok := kwargs[key]
	if !ok || v == nil {
		return false, nil
	}
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("argument %q must be a boolean (got %v)", key, v)
	}
	return b, nil
}

func listArg(kwargs map[string]any, key string) ([]any, error) {
	v, ok := kwargs[key]
	if !ok {
		return nil, fmt.Errorf("missing required argument %q", key)
	}
	list, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a list (got %T)", key, v)
	}
	return list, nil
}

// toFloat accepts the numeric shapes produced by YAML and JSON decoding.
func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}
