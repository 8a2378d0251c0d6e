package forecast

import (
	"errors"
	"math"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/salesforecast/stats"
)

// Diagnostics summarizes the in-sample fit.
type Diagnostics struct {
	Observations int
	Parameters   int
	Changepoints int
	RMSE         float64
	MAE          float64
	// LjungBox is nil for fewer than 10 observations or constant residuals.
	LjungBox *LjungBox
	// DurbinWatson is NaN for a perfect fit.
	DurbinWatson float64
	AIC          float64
	BIC          float64
}

// LjungBox is the portmanteau test of residual autocorrelation up to Lags.
// A p-value below 0.05 means the model left structure in the residuals.
type LjungBox struct {
	Statistic float64
	PValue    float64
	Lags      int
	DOF       int
}

// Diagnostics returns residual diagnostics of the fitted model. The
// Ljung-Box test uses min(14, n/5) lags and, since the regressors are not
// lagged values, does not subtract fitted parameters from its degrees of
// freedom.
func (m *Model) Diagnostics() (*Diagnostics, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before diagnostics")
	}

	n := len(m.residuals)
	sse := floats.Dot(m.residuals, m.residuals)
	sae := 0.0
	for _, r := range m.residuals {
		sae += math.Abs(r)
	}

	// +1 for the noise variance.
	k := float64(m.params() + 1)
	logLik := gaussianLogLik(sse, n)

	return &Diagnostics{
		Observations: n,
		Parameters:   m.params(),
		Changepoints: len(m.changepoints),
		RMSE:         math.Sqrt(sse / float64(n)),
		MAE:          sae / float64(n),
		LjungBox:     ljungBox(m.residuals, min(14, n/5)),
		DurbinWatson: durbinWatson(m.residuals, sse),
		AIC:          -2*logLik + 2*k,
		BIC:          -2*logLik + k*math.Log(float64(n)),
	}, nil
}

func ljungBox(residuals []float64, lags int) *LjungBox {
	n := len(residuals)
	if n < 10 || lags < 1 {
		return nil
	}
	acf := stats.ACF(residuals, lags)
	if acf == nil {
		return nil
	}

	q := 0.0
	for k := 1; k <= lags; k++ {
		q += acf[k] * acf[k] / float64(n-k)
	}
	q *= float64(n * (n + 2))

	return &LjungBox{
		Statistic: q,
		PValue:    distuv.ChiSquared{K: float64(lags)}.Survival(q),
		Lags:      lags,
		DOF:       lags,
	}
}

// durbinWatson is Σ(e_t - e_t-1)² / Σe_t². Near 2 means no first-order
// autocorrelation.
func durbinWatson(residuals []float64, sse float64) float64 {
	if len(residuals) < 2 || sse == 0 {
		return math.NaN()
	}
	num := 0.0
	for i := 1; i < len(residuals); i++ {
		d := residuals[i] - residuals[i-1]
		num += d * d
	}
	return num / sse
}

// gaussianLogLik is the log-likelihood of n residuals under N(0, sse/n).
func gaussianLogLik(sse float64, n int) float64 {
	if sse == 0 {
		return math.Inf(1)
	}
	nf := float64(n)
	return -nf / 2 * (math.Log(2*math.Pi*sse/nf) + 1)
}

// MarshalZerologObject logs the diagnostics as flat fields.
func (d *Diagnostics) MarshalZerologObject(e *zerolog.Event) {
	e.Int("observations", d.Observations).
		Int("parameters", d.Parameters).
		Int("changepoints", d.Changepoints).
		Float64("rmse", d.RMSE).
		Float64("mae", d.MAE).
		Float64("aic", d.AIC).
		Float64("bic", d.BIC)
	if d.LjungBox != nil {
		e.Float64("ljung_box_p", d.LjungBox.PValue)
	}
	if !math.IsNaN(d.DurbinWatson) {
		e.Float64("durbin_watson", d.DurbinWatson)
	}
}
