package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteScoreReport outputs a scoring report, dispatching based on the output format configured.
func WriteScoreReport(report schema.ScoreReport, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON"); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreCSV(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeScoreTable(w, report, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// writeScoreTable generates and writes the human-readable score summary.
func writeScoreTable(w io.Writer, report schema.ScoreReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Subject", "Base", "Bracket", "Composite", "Score", "Label", "Scored", "Issues"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	res := report.Result
	row := []string{
		report.SubjectID,
		fmtFloat(report.BaseScore),
		string(res.Bracket),
		fmtFloat(res.Composite),
		fmtFloat(res.Score),
		contract.GetColorLabel(res.Score),
		strconv.Itoa(res.Scored),
		strconv.Itoa(len(res.Issues)),
	}
	if err := table.Bulk([][]string{row}); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if cfg.Verbose {
		for _, issue := range res.Issues {
			if _, err := fmt.Fprintf(w, "  %s [%s] %s\n", issue.Key, issue.Kind, issue.Detail); err != nil {
				return err
			}
		}
	}
	if report.ScoreID > 0 {
		if _, err := fmt.Fprintf(w, "Recorded score #%d for %s at %s\n", report.ScoreID, report.SubjectID, report.RecordedAt.Format(contract.DateTimeFormat)); err != nil {
			return err
		}
	}
	return nil
}

// writeScoreCSV writes the score as a single CSV record.
func writeScoreCSV(w io.Writer, report schema.ScoreReport, fmtFloat func(float64) string) error {
	header := []string{"subject", "base_score", "bracket", "composite", "score", "label", "scored", "issues", "score_id", "recorded_at"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		res := report.Result
		return cw.Write([]string{
			report.SubjectID,
			fmtFloat(report.BaseScore),
			string(res.Bracket),
			fmtFloat(res.Composite),
			fmtFloat(res.Score),
			report.Label,
			strconv.Itoa(res.Scored),
			strconv.Itoa(len(res.Issues)),
			strconv.FormatInt(report.ScoreID, 10),
			report.RecordedAt.Format(contract.DateTimeFormat),
		})
	})
}
