package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/sartorproj/salesforecast/forecast"
)

// TailHeader names the preview columns.
var TailHeader = []string{"ds", "yhat", "yhat_lower", "yhat_upper"}

func newTable(w io.Writer, align []tw.Align) *tablewriter.Table {
	return tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global:    tw.AlignLeft,
					PerColumn: align,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.Off,
				},
				Alignment: tw.CellAlignment{
					Global:    tw.AlignLeft,
					PerColumn: align,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
}

// TailRows formats the last k points of f as preview rows.
func TailRows(f *forecast.Forecast, k int) [][]string {
	tail := f.Tail(k)
	rows := make([][]string, len(tail))
	for i, p := range tail {
		rows[i] = []string{
			p.Date.Format(time.DateOnly),
			formatAmount(p.Yhat),
			formatAmount(p.Lower),
			formatAmount(p.Upper),
		}
	}
	return rows
}

// PrintTail writes the last k points of f as a table.
func PrintTail(w io.Writer, f *forecast.Forecast, k int) error {
	if f == nil {
		return fmt.Errorf("no forecast to print")
	}

	table := newTable(w, []tw.Align{tw.AlignLeft, tw.AlignRight, tw.AlignRight, tw.AlignRight})
	table.Header(TailHeader)
	if err := table.Bulk(TailRows(f, k)); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	return table.Render()
}

// PrintSummary writes label/value pairs as a two-column table.
func PrintSummary(w io.Writer, rows [][]string) error {
	table := newTable(w, []tw.Align{tw.AlignLeft, tw.AlignRight})
	table.Header([]string{"metric", "value"})
	if err := table.Bulk(rows); err != nil {
		return fmt.Errorf("failed to add rows: %w", err)
	}
	return table.Render()
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
