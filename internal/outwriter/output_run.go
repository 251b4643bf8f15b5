package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"

	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/internal/parquet"
	"github.com/huangsam/dqscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// runFixedWidth is the width used by every run column except Report.
const runFixedWidth = 75

// WriteRunResults outputs the outcome of a validation run, dispatching based on the output format configured.
func WriteRunResults(results []schema.RunResult, cfg *contract.Config) error {
	fmtFloat, intFmt := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, results)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunCSV(w, results, fmtFloat, intFmt)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		var rows []parquet.SummaryRow
		for _, r := range results {
			if r.Summary != nil {
				rows = append(rows, parquet.SummaryRows(*r.Summary, plainLabel(*r.Summary))...)
			}
		}
		if len(rows) == 0 {
			return errors.New("parquet output for run requires --score")
		}
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return parquet.Write(w, rows)
		}, "Wrote Parquet"); err != nil {
			return fmt.Errorf("error writing Parquet output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunTable(w, results, cfg, fmtFloat, intFmt)
		}, "Wrote table")
	}
	return nil
}

// writeRunTable writes one row per suite run, followed by the summary of every scored report.
func writeRunTable(w io.Writer, results []schema.RunResult, cfg *contract.Config, fmtFloat func(float64) string, intFmt string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Suite", "Dataset", "Batch", "Checks", "Passed", "Success", "Report"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	maxWidth := GetMaxTableTextWidth(cfg, runFixedWidth)
	var data [][]string
	for _, r := range results {
		data = append(data, []string{
			r.Suite,
			string(r.Dataset),
			r.Batch,
			fmt.Sprintf(intFmt, r.Evaluated),
			fmt.Sprintf(intFmt, r.Successful),
			strconv.FormatBool(r.Success),
			contract.TruncateText(filepath.Base(r.ReportPath), maxWidth),
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	for _, r := range results {
		if _, err := fmt.Fprintf(w, "Completed saving report to path: %s\n", r.ReportPath); err != nil {
			return err
		}
	}
	for _, r := range results {
		if r.Summary == nil {
			continue
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
		if err := writeSummaryTable(w, *r.Summary, cfg, fmtFloat, intFmt); err != nil {
			return err
		}
	}
	return nil
}

func writeRunCSV(w io.Writer, results []schema.RunResult, fmtFloat func(float64) string, intFmt string) error {
	header := []string{"suite", "dataset", "batch", "evaluated", "successful", "success", "report_path", "overall_score"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, r := range results {
			overall := ""
			if r.Summary != nil {
				overall = fmtFloat(r.Summary.OverallScore)
			}
			rec := []string{
				r.Suite,
				string(r.Dataset),
				r.Batch,
				fmt.Sprintf(intFmt, r.Evaluated),
				fmt.Sprintf(intFmt, r.Successful),
				strconv.FormatBool(r.Success),
				r.ReportPath,
				overall,
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
