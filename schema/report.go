package schema

// ValidationReport is the JSON document written for one suite run against one batch.
type ValidationReport struct {
	Success    bool                 `json:"success"`
	SuiteName  string               `json:"suite_name"`
	Results    []ValidationResult   `json:"results"`
	Statistics ValidationStatistics `json:"statistics"`
	Meta       ReportMeta           `json:"meta"`
}

// ValidationResult is the outcome of one check inside a report.
type ValidationResult struct {
	ExpectationConfig ExpectationConfig `json:"expectation_config"`
	Success           bool              `json:"success"`
	Result            ResultMetrics     `json:"result"`
	ExceptionInfo     *ExceptionInfo    `json:"exception_info,omitempty"`
}

// ExpectationConfig is the serialized form of the check that produced a result.
type ExpectationConfig struct {
	ID          string         `json:"id,omitempty"`
	Type        string         `json:"type"`
	Kwargs      map[string]any `json:"kwargs"`
	Description string         `json:"description"`
	Meta        map[string]any `json:"meta"`
	Severity    Severity       `json:"severity"`
}

// ResultMetrics are the metrics reported for one check. Absent values decode as zero.
type ResultMetrics struct {
	ElementCount                int     `json:"element_count"`
	UnexpectedCount             int     `json:"unexpected_count"`
	UnexpectedPercent           float64 `json:"unexpected_percent"`
	UnexpectedPercentNonmissing float64 `json:"unexpected_percent_nonmissing"`
	MissingCount                int     `json:"missing_count"`
	MissingPercent              float64 `json:"missing_percent"`
	PartialUnexpectedList       []any   `json:"partial_unexpected_list,omitempty"`
	ObservedValue               any     `json:"observed_value,omitempty"`
}

// ExceptionInfo describes a check that could not be evaluated.
type ExceptionInfo struct {
	RaisedException  bool   `json:"raised_exception"`
	ExceptionMessage string `json:"exception_message,omitempty"`
}

// ValidationStatistics summarizes a report.
type ValidationStatistics struct {
	EvaluatedExpectations    int     `json:"evaluated_expectations"`
	SuccessfulExpectations   int     `json:"successful_expectations"`
	UnsuccessfulExpectations int     `json:"unsuccessful_expectations"`
	SuccessPercent           float64 `json:"success_percent"`
}

// ReportMeta identifies the run that produced a report.
type ReportMeta struct {
	RunID          string `json:"run_id,omitempty"`
	BatchName      string `json:"batch_name,omitempty"`
	BatchSource    string `json:"batch_source,omitempty"`
	ValidationTime string `json:"validation_time,omitempty"` // RFC 3339
}
