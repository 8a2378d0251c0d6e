package forecast

import (
	"errors"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"

	"github.com/sartorproj/salesforecast/timeseries"
)

var epoch = time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)

// seasonality is a Fourier series of the given order over period days.
type seasonality struct {
	name   string
	period float64
	order  int
}

const (
	weeklyPeriod = 7.0
	yearlyPeriod = 365.25

	// seasonalityPriorScale is the prior standard deviation of every
	// Fourier coefficient, in scaled sales units.
	seasonalityPriorScale = 10.0
)

// unpenalized marks a column with a flat prior.
var unpenalized = math.Inf(1)

// width is the number of design columns the seasonality contributes.
func (s seasonality) width() int {
	return 2 * s.order
}

// fourier appends sin/cos pairs for k = 1..order at absolute day d.
func (s seasonality) fourier(dst []float64, d float64) []float64 {
	for k := 1; k <= s.order; k++ {
		x := 2 * math.Pi * float64(k) * d / s.period
		dst = append(dst, math.Sin(x), math.Cos(x))
	}
	return dst
}

// absDay is the number of days from the Unix epoch to the calendar day of t.
func absDay(t time.Time) float64 {
	return float64(timeseries.DaysBetween(epoch, t))
}

// trendRow appends the piecewise linear basis 1, t, max(0, t - s_j).
func trendRow(dst []float64, t float64, changepoints []float64) []float64 {
	dst = append(dst, 1, t)
	for _, s := range changepoints {
		dst = append(dst, math.Max(0, t-s))
	}
	return dst
}

// placeChangepoints spreads n changepoints evenly over the first fraction
// of the scaled history times ts. ts[0] is never a changepoint.
func placeChangepoints(ts []float64, n int, fraction float64) []float64 {
	histSize := int(math.Floor(fraction * float64(len(ts))))
	if limit := histSize - 1; n > limit {
		n = limit
	}
	if n <= 0 {
		return nil
	}

	cps := make([]float64, n)
	for j := 1; j <= n; j++ {
		idx := int(math.Round(float64(j) * float64(histSize-1) / float64(n)))
		cps[j-1] = ts[idx]
	}
	return cps
}

// errSingular is wrapped into a FitError when the design has no unique
// least squares solution.
var errSingular = errors.New("design matrix is rank deficient")

// leastSquares returns the maximum a posteriori coefficients of y = Xb
// under independent zero-mean Gaussian priors with the given scales:
//
//	min ||y - Xb||² + Σ (b_j / prior_j)²
//
// Penalized columns are reparameterized as b_j = prior_j·u_j with a unit
// ridge on u. The ridge rows are appended below X and the stacked system is
// solved by QR.
func leastSquares(x [][]float64, y, prior []float64) ([]float64, error) {
	n, k := len(y), len(prior)

	penalized := 0
	for _, s := range prior {
		if !math.IsInf(s, 1) {
			penalized++
		}
	}

	a := mat.NewDense(n+penalized, k, nil)
	b := mat.NewVecDense(n+penalized, nil)
	for i, row := range x {
		for j, v := range row {
			a.Set(i, j, v*columnScale(prior[j]))
		}
		b.SetVec(i, y[i])
	}
	r := n
	for j, s := range prior {
		if !math.IsInf(s, 1) {
			a.Set(r, j, 1)
			r++
		}
	}

	var u mat.VecDense
	if err := u.SolveVec(a, b); err != nil {
		var cond mat.Condition
		if errors.As(err, &cond) {
			return nil, errSingular
		}
		return nil, err
	}

	coeffs := make([]float64, k)
	for j := range coeffs {
		coeffs[j] = u.AtVec(j) * columnScale(prior[j])
	}
	return coeffs, nil
}

func columnScale(prior float64) float64 {
	if math.IsInf(prior, 1) {
		return 1
	}
	return prior
}
