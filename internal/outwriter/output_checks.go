package outwriter

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/huangsam/dqscore/internal/contract"
	"github.com/huangsam/dqscore/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// suitesFixedWidth is the width used by every suite column except Labels.
const suitesFixedWidth = 50

// WriteSuites outputs the loaded check suites, dispatching based on the output format configured.
func WriteSuites(suites []schema.Suite, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, suites)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSuitesCSV(w, suites)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	case schema.ParquetOut:
		return errors.New("parquet output is not supported for check listings")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSuitesTable(w, suites, cfg)
		}, "Wrote table")
	}
	return nil
}

func dataset(s schema.Suite) string {
	if kind, ok := s.Kind(); ok {
		return string(kind)
	}
	return "-"
}

func writeSuitesTable(w io.Writer, suites []schema.Suite, cfg *contract.Config) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Suite", "Dataset", "Checks", "Labels"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignLeft
	})

	maxWidth := GetMaxTableTextWidth(cfg, suitesFixedWidth)
	total := 0
	var data [][]string
	for _, s := range suites {
		data = append(data, []string{
			s.Name,
			dataset(s),
			humanize.Comma(int64(len(s.Checks))),
			contract.TruncateText(strings.Join(s.Labels(), ", "), maxWidth),
		})
		total += len(s.Checks)
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Loaded %s checks across %s suites\n", humanize.Comma(int64(total)), humanize.Comma(int64(len(suites))))
	return err
}

func writeSuitesCSV(w io.Writer, suites []schema.Suite) error {
	header := []string{"suite", "dataset", "label", "expectation_type", "column", "quality_score", "severity"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, s := range suites {
			for _, c := range s.Checks {
				severity := c.Severity
				if severity == "" {
					severity = schema.CriticalSeverity
				}
				rec := []string{
					s.Name,
					dataset(s),
					c.Label(),
					c.ExpectationType,
					c.Column(),
					fmt.Sprint(c.Meta["quality_score"]),
					string(severity),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
		}
		return nil
	})
}
