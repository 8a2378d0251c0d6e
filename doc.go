// Package salesforecast forecasts daily retail sales from an export of
// individual orders.
//
// The pipeline loads a CSV or .xlsx file, checks that the date and sales
// columns exist, parses order dates, drops rows whose date cannot be read,
// sums sales per calendar day and fills missing days. The resulting daily
// series is fitted with a piecewise linear trend plus weekly and yearly
// Fourier seasonalities, projected forward with uncertainty intervals and
// rendered as PNG plots, an optional workbook and a console preview.
//
// # Quick Start
//
// Clean a file into a daily series:
//
//	table, _ := dataset.Load(ctx, "sales_data_sample.csv", dataset.DefaultOptions())
//	table, _ = dataset.Validate(table, "ORDERDATE", "SALES")
//	table, _ = dataset.ParseDates(table, "ORDERDATE", dataset.DefaultDateLayouts)
//	table, _ = dataset.DropInvalidDates(table)
//	daily, _ := dataset.AggregateDaily(table, "ORDERDATE", "SALES")
//	daily, _ = daily.FillGaps(timeseries.FillZero)
//
// Forecast it:
//
//	model := forecast.New(forecast.DefaultConfig())
//	_ = model.Fit(ctx, daily)
//	f, _ := model.Predict(90)
//	_ = report.PrintTail(os.Stdout, f, 10)
//
// Or run every stage from configuration:
//
//	cfg, _ := config.Load(config.New(), "")
//	res, err := (&pipeline.Pipeline{Out: os.Stdout}).Run(ctx, cfg)
//
// # Packages
//
//   - dataset: loading, validation and cleaning of order tables
//   - timeseries: daily series and gap filling
//   - forecast: trend and seasonality model with intervals
//   - stats: autocorrelation and seasonal decomposition
//   - plot: forecast and components PNG rendering on gonum.org/v1/plot
//   - report: console preview tables and .xlsx export
//   - config: layered YAML, environment and flag configuration
//   - pipeline: the stage runner
//   - cli: the salesforecast command line
//
// # References
//
//   - Taylor, S.J., & Letham, B. (2018). Forecasting at Scale. The American Statistician
//   - Hyndman, R.J., & Athanasopoulos, G. (2021). Forecasting: Principles and Practice
package salesforecast
