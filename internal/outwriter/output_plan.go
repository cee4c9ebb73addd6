package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/huangsam/maturity/internal/contract"
	"github.com/huangsam/maturity/schema"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WritePlanReport outputs a growth plan, dispatching based on the output format configured.
func WritePlanReport(report schema.PlanReport, cfg *contract.Config) error {
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
			return writePlanCSV(w, report, fmtFloat)
		}, "Wrote CSV"); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writePlanTable(w, report, cfg, fmtFloat)
		}, "Wrote table")
	}
	return nil
}

// leverStatus returns a short status for the lever at now.
func leverStatus(l schema.EnrichedLever, now time.Time) string {
	switch {
	case l.Completed:
		return "Done"
	case l.Blocked:
		days := int(l.BlockedFor(now) / (24 * time.Hour))
		return fmt.Sprintf("Blocked %dd", max(days, 0))
	default:
		return "Open"
	}
}

// writePlanTable generates and writes the human-readable lever table.
func writePlanTable(w io.Writer, report schema.PlanReport, cfg *contract.Config, fmtFloat func(float64) string) error {
	if _, err := fmt.Fprintf(w, "Plan %s for %s (%s to %s)\n", report.PlanID, report.SubjectID,
		report.PeriodStart.Format(dateFormat), report.PeriodEnd.Format(dateFormat)); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	headers := []string{"Priority", "Title", "Ratio", "Due", "Status"}
	if cfg.Verbose {
		headers = append(headers, "Risk")
	}
	table.Header(headers)
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	titleWidth := getMaxTitleWidth(cfg)
	blocked := 0
	var data [][]string
	for _, l := range report.Levers {
		status := leverStatus(l, report.Now)
		if l.Blocked && !l.Completed {
			blocked++
			status = contract.BlockedColor.Sprint(status)
		}
		row := []string{
			strconv.Itoa(l.Priority),
			contract.TruncateText(l.Title, titleWidth),
			fmtFloat(l.Ratio),
			formatDate(l.DueDate),
			status,
		}
		if cfg.Verbose {
			row = append(row, l.Risk.String())
		}
		data = append(data, row)
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	verb := "Showing"
	if report.Replanned {
		verb = "Replanned"
	}
	_, err := fmt.Fprintf(w, "%s %d levers (%d blocked) as of %s\n", verb, len(report.Levers), blocked, report.Now.Format(contract.DateTimeFormat))
	return err
}

// writePlanCSV writes one CSV record per lever.
func writePlanCSV(w io.Writer, report schema.PlanReport, fmtFloat func(float64) string) error {
	header := []string{"plan_id", "subject", "lever_id", "priority", "title", "impact", "effort", "ratio", "due_date", "blocked_at", "completed", "risk_reason"}
	return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
		for _, l := range report.Levers {
			due := ""
			if l.DueDate != nil {
				due = l.DueDate.Format(dateFormat)
			}
			rec := []string{
				report.PlanID,
				report.SubjectID,
				l.ID,
				strconv.Itoa(l.Priority),
				l.Title,
				fmtFloat(l.EffectiveImpact()),
				fmtFloat(l.EffectiveEffort()),
				fmtFloat(l.Ratio),
				due,
				formatOptionalTime(l.BlockedAt),
				strconv.FormatBool(l.Completed),
				l.Risk.String(),
			}
			if err := cw.Write(rec); err != nil {
				return err
			}
		}
		return nil
	})
}
