// Package stats provides the series summaries shown by the inspection
// report, on top of gonum's stat package.
//
// # Autocorrelation
//
//	acf := stats.ACF(values, 28)
//	top := stats.TopLags(acf, len(values), 3)
//
// # Seasonality
//
// Classical additive decomposition and the strength of a seasonal period:
//
//	decomp := stats.Decompose(series, 7)
//	strength := stats.SeasonalStrength(series, 7) // 0 (none) .. 1 (strong)
package stats
