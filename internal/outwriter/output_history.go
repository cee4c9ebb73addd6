package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteHistoryReport outputs the score history of a subject.
func WriteHistoryReport(report schema.HistoryReport, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, report)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryCSV(w, report, fmtFloat)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, report, fmtFloat)
		}, "Wrote table")
	}
}

// writeHistoryTable prints one row per recorded score with its delta.
func writeHistoryTable(w io.Writer, report schema.HistoryReport, fmtFloat func(float64) string) error {
	if len(report.Points) == 0 {
		_, err := fmt.Fprintf(w, "No scores recorded for %s\n", report.SubjectID)
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Recorded", "Bracket", "Score", "Label", "Delta", "Issues"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	rows := make([][]string, 0, len(report.Points))
	for i, p := range report.Points {
		delta := "-"
		if i > 0 {
			delta = formatDelta(p.Delta, fmtFloat)
		}
		rows = append(rows, []string{
			p.RecordedAt.Format(dateFormat),
			string(p.Bracket),
			fmtFloat(p.Score),
			contract.GetColorLabel(p.Score),
			delta,
			strconv.Itoa(p.IssueCount),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// formatDelta signs the delta and colors gains green and losses red.
func formatDelta(delta float64, fmtFloat func(float64) string) string {
	switch {
	case delta > 0:
		return color.GreenString("+" + fmtFloat(delta))
	case delta < 0:
		return color.RedString(fmtFloat(delta))
	default:
		return fmtFloat(0)
	}
}

func writeHistoryCSV(w io.Writer, report schema.HistoryReport, fmtFloat func(float64) string) error {
	header := []string{"subject", "score_id", "recorded_at", "base_score", "bracket", "score", "delta", "issues", "answers"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, p := range report.Points {
			if err := cw.Write([]string{
				report.SubjectID,
				strconv.FormatInt(p.ID, 10),
				p.RecordedAt.Format(contract.DateTimeFormat),
				fmtFloat(p.BaseScore),
				string(p.Bracket),
				fmtFloat(p.Score),
				fmtFloat(p.Delta),
				strconv.Itoa(p.IssueCount),
				strconv.Itoa(p.AnswerCount),
			}); err != nil {
				return err
			}
		}
		return nil
	})
}
