package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/parquet"
	"github.com/huangsam/dqscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// summaryFixedWidth is the width used by every summary column except Field.
const summaryFixedWidth = 60

// WriteSummary outputs a scored dashboard, dispatching based on the output format configured.
func WriteSummary(summary schema.DashboardSummary, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryJSON(w, summary)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryCSV(w, summary, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		if cfg.OutputFile == "" {
			return errors.New("parquet output requires --output-file")
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, parquet.SummaryRows(summary, plainLabel(summary)))
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(w, summary, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// plainLabel binds the plain label of a field score to the summary's best achievable score.
func plainLabel(summary schema.DashboardSummary) func(float64) string {
	return func(score float64) string {
		return contract.GetPlainLabel(summary.Percent(score))
	}
}

// writeSummaryTable generates and writes the human-readable table.
func writeSummaryTable(w io.Writer, summary schema.DashboardSummary, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	if summary.Suite != "" {
		if _, err := fmt.Fprintf(w, "Suite %s on batch %s (%s checks)\n", summary.Suite, summary.Batch, humanize.Comma(int64(summary.TotalChecks()))); err != nil {
			return err
		}
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Field", "Checks", "Passed", "Failed", "Pass Rate", "Avg Score", "Label"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	label := labelFunc(cfg)
	maxWidth := GetMaxTableTextWidth(cfg, summaryFixedWidth)
	var data [][]string
	for _, f := range summary.Fields {
		data = append(data, []string{
			contract.TruncateText(f.Column, maxWidth),
			fmt.Sprintf(intFmt, f.TotalChecks),
			fmt.Sprintf(intFmt, f.Passed),
			fmt.Sprintf(intFmt, f.Failed),
			fmtFloat(f.PassRate) + "%",
			fmtFloat(f.AvgQualityScore),
			label(summary.Percent(f.AvgQualityScore)),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Overall dataset quality score: %s\n", fmtFloat(summary.OverallScore))
	return err
}

// jsonField is one field of the JSON summary.
type jsonField struct {
	schema.ChecksSummary
	Label string `json:"label"`
}

// writeSummaryJSON writes the summary as a column-keyed mapping plus the original field order.
func writeSummaryJSON(w io.Writer, summary schema.DashboardSummary) error {
	label := plainLabel(summary)
	fields := make(map[string]jsonField, len(summary.Fields))
	order := make([]string, len(summary.Fields))
	for i, f := range summary.Fields {
		fields[f.Column] = jsonField{ChecksSummary: f.ChecksSummary, Label: label(f.AvgQualityScore)}
		order[i] = f.Column
	}
	return writeJSON(w, struct {
		Suite        string               `json:"suite,omitempty"`
		Batch        string               `json:"batch,omitempty"`
		Fields       map[string]jsonField `json:"fields"`
		FieldOrder   []string             `json:"field_order"`
		OverallScore float64              `json:"overall_score"`
		OverallLabel string               `json:"overall_label"`
	}{
		Suite:        summary.Suite,
		Batch:        summary.Batch,
		Fields:       fields,
		FieldOrder:   order,
		OverallScore: summary.OverallScore,
		OverallLabel: label(summary.OverallScore),
	})
}

// writeSummaryCSV writes one row per field followed by the overall row.
func writeSummaryCSV(w io.Writer, summary schema.DashboardSummary, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"field", "total_checks", "passed", "failed", "pass_rate", "avg_score", "label"}
	label := plainLabel(summary)
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		total, passed, failed := 0, 0, 0
		for _, f := range summary.Fields {
			rec := []string{
				f.Column,
				fmt.Sprintf(intFmt, f.TotalChecks),
				fmt.Sprintf(intFmt, f.Passed),
				fmt.Sprintf(intFmt, f.Failed),
				fmtFloat(f.PassRate),
				fmtFloat(f.AvgQualityScore),
				label(f.AvgQualityScore),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
			total += f.TotalChecks
			passed += f.Passed
			failed += f.Failed
		}
		passRate := 0.0
		if total > 0 {
			passRate = 100 * float64(passed) / float64(total)
		}
		return cw.Write([]string{
			schema.OverallRowKey,
			fmt.Sprintf(intFmt, total),
			fmt.Sprintf(intFmt, passed),
			fmt.Sprintf(intFmt, failed),
			fmtFloat(passRate),
			fmtFloat(summary.OverallScore),
			label(summary.OverallScore),
		})
	})
}
