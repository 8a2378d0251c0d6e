package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/sartorproj/salesforecast/timeseries"
)

// DecompositionResult splits a series into Y = Trend + Seasonal + Residual.
type DecompositionResult struct {
	Original *timeseries.Series
	Trend    *timeseries.Series
	Seasonal *timeseries.Series
	Residual *timeseries.Series
	Period   int
}

// Decompose performs classical additive decomposition with a centered
// moving average trend. Returns nil when the series is shorter than two
// periods.
func Decompose(series *timeseries.Series, period int) *DecompositionResult {
	n := series.Len()
	if period < 2 || n < 2*period {
		return nil
	}

	trend := centeredMovingAverage(series.Values, period)

	// Average the detrended values by position within the period.
	pattern := make([]float64, period)
	counts := make([]int, period)
	for i, v := range series.Values {
		if math.IsNaN(trend[i]) {
			continue
		}
		pattern[i%period] += v - trend[i]
		counts[i%period]++
	}
	for i := range pattern {
		if counts[i] > 0 {
			pattern[i] /= float64(counts[i])
		}
	}
	center := stat.Mean(pattern, nil)
	for i := range pattern {
		pattern[i] -= center
	}

	seasonal := make([]float64, n)
	residual := make([]float64, n)
	for i, v := range series.Values {
		seasonal[i] = pattern[i%period]
		residual[i] = v - trend[i] - seasonal[i]
	}

	component := func(values []float64, name string) *timeseries.Series {
		return &timeseries.Series{Timestamps: series.Timestamps, Values: values, Name: name}
	}

	return &DecompositionResult{
		Original: series,
		Trend:    component(trend, "trend"),
		Seasonal: component(seasonal, "seasonal"),
		Residual: component(residual, "residual"),
		Period:   period,
	}
}

// centeredMovingAverage returns the centered moving average of values with
// the given window. Even windows use the 2xm average. Edges are NaN.
func centeredMovingAverage(values []float64, period int) []float64 {
	n := len(values)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	for i := half; i < n-half; i++ {
		sum := 0.0
		if period%2 == 0 {
			sum += 0.5*values[i-half] + 0.5*values[i+half]
			for j := i - half + 1; j < i+half; j++ {
				sum += values[j]
			}
		} else {
			for j := i - half; j <= i+half; j++ {
				sum += values[j]
			}
		}
		trend[i] = sum / float64(period)
	}

	return trend
}

// SeasonalStrength calculates the strength of seasonality
// F_S = max(0, 1 - Var(R) / Var(S+R)) from an additive decomposition.
// Returns 0 when the series is too short to decompose.
func SeasonalStrength(series *timeseries.Series, period int) float64 {
	decomp := Decompose(series, period)
	if decomp == nil {
		return 0
	}

	// The trend is undefined at the edges; only the interior counts.
	var resid, seasonalPlusResid []float64
	for i, r := range decomp.Residual.Values {
		if math.IsNaN(r) {
			continue
		}
		resid = append(resid, r)
		seasonalPlusResid = append(seasonalPlusResid, decomp.Seasonal.Values[i]+r)
	}
	if len(resid) < 2 {
		return 0
	}

	varSR := stat.Variance(seasonalPlusResid, nil)
	if varSR == 0 {
		return 0
	}
	return math.Max(0, 1-stat.Variance(resid, nil)/varSR)
}
