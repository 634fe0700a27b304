package google

import (
	"github.com/sanri/eve-online-tools/internal/core"
	"github.com/sanri/eve-online-tools/internal/report"
)

// journalValues flattens journal rows into a sheet value grid: one header
// row, then one row per ledger line.
func journalValues(rows []report.JournalRow) [][]any {
	values := make([][]any, 0, len(rows)+1)
	values = append(values, []any{"Date", "Type", "Amount", "Balance", "Party", "Description"})
	for _, r := range rows {
		values = append(values, []any{
			r.Date.UTC().Format("2006-01-02 15:04:05"),
			r.RefType.Label(),
			r.Amount.Float64(),
			r.Balance.Float64(),
			r.PartyName,
			r.Description,
		})
	}
	return values
}

// taxValues flattens tax rows into a grid with two header rows: the first
// names each month once above its three subcolumns, the second names the
// subcolumns. No cell merging; the month label simply sits over the first of
// its three columns.
func taxValues(start, end core.Period, rows []report.TaxRow) ([][]any, error) {
	periods, err := periodList(start, end)
	if err != nil {
		return nil, err
	}

	header1 := []any{"Main Character", "Unpaid"}
	header2 := []any{"", ""}
	for _, p := range periods {
		header1 = append(header1, p.String(), "", "")
		header2 = append(header2, "PAP Tax", "Poll Tax", "Paid")
	}

	values := [][]any{header1, header2}
	for _, r := range rows {
		row := []any{r.MainCharacterName, r.Unpaid.Float64()}
		for _, m := range r.Months {
			row = append(row, m.PapTax.Float64(), m.PollTax.Float64(), m.Paid.Float64())
		}
		values = append(values, row)
	}
	return values, nil
}

func periodList(start, end core.Period) ([]core.Period, error) {
	seq, err := core.PeriodRange(start, end)
	if err != nil {
		return nil, err
	}
	var periods []core.Period
	for p := range seq {
		periods = append(periods, p)
	}
	return periods, nil
}
