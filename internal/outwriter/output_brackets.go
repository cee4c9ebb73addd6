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

// WriteBracketLadder outputs the bracket ladder with the bracket selected for base.
func WriteBracketLadder(rows []schema.BracketRow, base float64, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, struct {
				Base     float64             `json:"base"`
				Brackets []schema.BracketRow `json:"brackets"`
			}{base, rows})
		}, "Wrote JSON")
	case schema.CSVOut:
		header := []string{"bracket", "floor", "selected", "rules", "total_weight"}
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
				for _, r := range rows {
					if err := cw.Write([]string{
						string(r.Bracket), fmtFloat(r.Floor), strconv.FormatBool(r.Selected),
						strconv.Itoa(r.Rules), fmtFloat(r.TotalWeight),
					}); err != nil {
						return err
					}
				}
				return nil
			})
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeBracketTable(w, rows, base, fmtFloat)
		}, "Wrote table")
	}
}

func writeBracketTable(w io.Writer, rows []schema.BracketRow, base float64, fmtFloat func(float64) string) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Bracket", "Floor", "Label", "Rules", "Weight", ""})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range rows {
		marker := ""
		if r.Selected {
			marker = "<"
		}
		data = append(data, []string{
			string(r.Bracket),
			fmtFloat(r.Floor),
			contract.GetColorLabel(r.Floor),
			strconv.Itoa(r.Rules),
			fmtFloat(r.TotalWeight),
			marker,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Base score %s selects bracket marked with <\n", fmtFloat(base))
	return err
}
