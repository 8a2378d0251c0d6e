package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/sartorproj/salesforecast/forecast"
)

// Workbook sheet names.
const (
	ForecastSheet = "forecast"
	HistorySheet  = "history"
)

var (
	forecastHeader = []interface{}{"ds", "yhat", "yhat_lower", "yhat_upper", "trend", "weekly", "yearly", "y"}
	historyHeader  = []interface{}{"ds", "y", "fitted", "residual"}
)

// WriteWorkbook writes f as an .xlsx workbook: every point with its
// components on the forecast sheet, and each observed day with the
// in-sample fit and its residual on the history sheet.
func WriteWorkbook(w io.Writer, f *forecast.Forecast) error {
	if f == nil {
		return fmt.Errorf("no forecast to export")
	}

	book := excelize.NewFile()
	defer book.Close()

	if err := book.SetSheetName("Sheet1", ForecastSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := book.NewSheet(HistorySheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	if err := book.SetSheetRow(ForecastSheet, "A1", &forecastHeader); err != nil {
		return err
	}
	if err := book.SetSheetRow(HistorySheet, "A1", &historyHeader); err != nil {
		return err
	}

	for i, p := range f.Points {
		row := []interface{}{
			p.Date.Format(time.DateOnly),
			p.Yhat, p.Lower, p.Upper,
			p.Trend, p.Weekly, p.Yearly,
			nil,
		}
		if !math.IsNaN(p.Actual) {
			row[7] = p.Actual
		}
		if err := setRow(book, ForecastSheet, i+2, row); err != nil {
			return err
		}
	}

	historyRow := 2
	for _, p := range f.History() {
		if math.IsNaN(p.Actual) {
			continue
		}
		row := []interface{}{p.Date.Format(time.DateOnly), p.Actual, p.Yhat, p.Actual - p.Yhat}
		if err := setRow(book, HistorySheet, historyRow, row); err != nil {
			return err
		}
		historyRow++
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func setRow(book *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := book.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
	}
	return nil
}
