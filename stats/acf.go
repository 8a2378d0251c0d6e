package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ACF calculates the Autocorrelation Function of values.
// Returns ACF values for lags 0 to maxLag, or nil for a constant input.
func ACF(values []float64, maxLag int) []float64 {
	n := len(values)
	if maxLag >= n {
		maxLag = n - 1
	}
	if maxLag < 0 {
		return nil
	}

	mean := stat.Mean(values, nil)
	variance := 0.0
	for _, v := range values {
		diff := v - mean
		variance += diff * diff
	}

	if variance == 0 {
		return nil
	}

	acf := make([]float64, maxLag+1)
	for k := 0; k <= maxLag; k++ {
		sum := 0.0
		for i := k; i < n; i++ {
			sum += (values[i] - mean) * (values[i-k] - mean)
		}
		acf[k] = sum / variance
	}

	return acf
}

// Lag pairs a lag with its autocorrelation.
type Lag struct {
	Lag   int
	Value float64
}

// TopLags returns up to k lags (excluding lag 0) whose autocorrelation
// exceeds the 95% bound 1.96/sqrt(n), strongest first.
func TopLags(acf []float64, n, k int) []Lag {
	if len(acf) < 2 || n <= 0 {
		return nil
	}
	bound := 1.96 / math.Sqrt(float64(n))

	var lags []Lag
	for i := 1; i < len(acf); i++ {
		if math.Abs(acf[i]) > bound {
			lags = append(lags, Lag{Lag: i, Value: acf[i]})
		}
	}

	sort.SliceStable(lags, func(a, b int) bool {
		return math.Abs(lags[a].Value) > math.Abs(lags[b].Value)
	})
	if len(lags) > k {
		lags = lags[:k]
	}
	return lags
}
