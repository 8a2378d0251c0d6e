// Package timeseries provides the daily series type shared by the cleaner,
// the forecaster and the renderers.
//
// # Creating a Series
//
// A gapless daily series from a start day and values:
//
//	series := timeseries.NewDaily(start, []float64{150, 0, 30})
//
// Or from explicit (possibly gappy) timestamps:
//
//	series, err := timeseries.NewWithTimestamps(days, totals)
//
// # Filling Gaps
//
// Aggregated sales only carry the days that had orders. FillGaps inserts the
// missing calendar days between the first and last observed day:
//
//	daily, err := series.FillGaps(timeseries.FillZero)
//	daily, err := series.FillGaps(timeseries.FillInterpolate)
//
// With FillInterpolate a missing day takes the straight-line value between
// its nearest known neighbors; a day with a known neighbor on one side only
// takes that neighbor's value.
//
// # Checking the Invariant
//
//	if err := daily.CheckDaily(); err != nil {
//	    // consecutive timestamps are not exactly one day apart
//	}
//
// # Basic Statistics
//
//	total := series.Sum()
//	mean := series.Mean()
//	std := series.Std()
//
// # Export
//
//	err := timeseries.WriteCSV(w, daily) // "ds,y" rows
package timeseries
