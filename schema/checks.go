package schema

import "strings"

// CheckDefinition is one declarative check as read from a suite file.
type CheckDefinition struct {
	Suite           string         `json:"suite" yaml:"-"`
	ExpectationType string         `json:"expectation_type" yaml:"expectation_type"`
	Kwargs          map[string]any `json:"kwargs" yaml:"kwargs"`
	Meta            map[string]any `json:"meta" yaml:"meta"`
	Description     string         `json:"description" yaml:"description"`
	Severity        Severity       `json:"severity" yaml:"severity"`
}

// Label returns meta.label, or an empty string when it is absent.
func (d CheckDefinition) Label() string {
	if d.Meta == nil {
		return ""
	}
	label, _ := d.Meta["label"].(string)
	return label
}

// Column returns the column the check targets, falling back to column_A for pair checks.
func (d CheckDefinition) Column() string {
	return ColumnFromKwargs(d.Kwargs)
}

// Suite is a named, ordered set of check definitions loaded from one file.
type Suite struct {
	Name   string            `json:"name"`
	Checks []CheckDefinition `json:"checks"`
}

// Kind returns the dataset kind this suite runs against, based on its name prefix.
func (s Suite) Kind() (DatasetKind, bool) {
	for _, kind := range AllDatasetKinds {
		if strings.HasPrefix(s.Name, string(kind)) {
			return kind, true
		}
	}
	return "", false
}

// Labels returns the check labels in suite order.
func (s Suite) Labels() []string {
	labels := make([]string, len(s.Checks))
	for i, c := range s.Checks {
		labels[i] = c.Label()
	}
	return labels
}

// Batch is one in-memory dataset snapshot against which checks run.
type Batch struct {
	Name    string     `json:"name"`
	Source  string     `json:"source"`
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"-"`
}

// ColumnIndex returns the position of the named column.
func (b *Batch) ColumnIndex(name string) (int, bool) {
	for i, c := range b.Columns {
		if c == name {
			return i, true
		}
	}
	return -1, false
}

// Values returns every cell of the named column in row order.
func (b *Batch) Values(name string) ([]string, bool) {
	idx, ok := b.ColumnIndex(name)
	if !ok {
		return nil, false
	}
	out := make([]string, len(b.Rows))
	for i, row := range b.Rows {
		out[i] = row[idx]
	}
	return out, true
}

// missingTokens are cell values treated as missing, compared case-insensitively.
var missingTokens = map[string]struct{}{
	"":     {},
	"na":   {},
	"nan":  {},
	"null": {},
	"none": {},
}

// IsMissing reports whether a raw cell value counts as missing.
func IsMissing(v string) bool {
	_, ok := missingTokens[strings.ToLower(strings.TrimSpace(v))]
	return ok
}

// ColumnFromKwargs extracts the target column from check kwargs.
// It prefers "column" and falls back to "column_A". Table-level checks return TableColumn.
func ColumnFromKwargs(kwargs map[string]any) string {
	for _, key := range []string{"column", "column_A"} {
		if v, ok := kwargs[key].(string); ok && v != "" {
			return v
		}
	}
	return TableColumn
}
