package cli

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sartorproj/salesforecast/pipeline"
	"github.com/sartorproj/salesforecast/report"
	"github.com/sartorproj/salesforecast/stats"
	"github.com/sartorproj/salesforecast/timeseries"
)

const inspectLags = 28

func (a *app) inspectCommand() *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "inspect [path]",
		Short: "Summarize the cleaned daily series without forecasting",
		Long: `Run the load and cleaning stages and print what they produced: rows read
and dropped, the date range, filled days, totals, weekly seasonal strength
and the strongest autocorrelation lags.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, _ []string) error {
			prep, err := (&pipeline.Pipeline{}).Prepare(cmd.Context(), a.cfg)
			if err != nil {
				return err
			}

			a.printer.Header("Daily series")
			if err := report.PrintSummary(cmd.OutOrStdout(), summaryRows(prep)); err != nil {
				return err
			}

			if export != "" {
				if err := exportSeries(export, prep.Series); err != nil {
					return &pipeline.StageError{Stage: pipeline.StageWrite, Err: err}
				}
				a.printer.Success("exported %d days to %s", prep.Series.Len(), export)
			}

			a.printer.PrintHints(cmd.Name())
			return nil
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "write the daily series as ds,y CSV")
	return cmd
}

func summaryRows(prep *pipeline.Preparation) [][]string {
	s := prep.Series
	acf := stats.ACF(s.Values, inspectLags)

	lags := make([]string, 0, 3)
	for _, l := range stats.TopLags(acf, s.Len(), 3) {
		lags = append(lags, fmt.Sprintf("%d (%.2f)", l.Lag, l.Value))
	}
	top := "none"
	if len(lags) > 0 {
		top = strings.Join(lags, ", ")
	}

	return [][]string{
		{"rows read", strconv.Itoa(prep.RowsRead)},
		{"rows dropped", strconv.Itoa(prep.RowsDropped)},
		{"non-numeric values", strconv.Itoa(prep.InvalidValues)},
		{"first day", s.Start().Format(time.DateOnly)},
		{"last day", s.End().Format(time.DateOnly)},
		{"days", strconv.Itoa(s.Len())},
		{"days filled", strconv.Itoa(prep.DaysFilled)},
		{"total", formatNumber(s.Sum())},
		{"daily mean", formatNumber(s.Mean())},
		{"daily std", formatNumber(s.Std())},
		{"daily min", formatNumber(s.Min())},
		{"daily max", formatNumber(s.Max())},
		{"weekly strength", formatNumber(stats.SeasonalStrength(s, 7))},
		{"top acf lags", top},
	}
}

func formatNumber(v float64) string {
	if math.IsNaN(v) {
		return "-"
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func exportSeries(path string, s *timeseries.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := timeseries.WriteCSV(f, s); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
