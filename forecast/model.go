package forecast

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/rs/zerolog"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/sartorproj/salesforecast/timeseries"
)

// Forecaster fits a daily series and extends it past its last day.
type Forecaster interface {
	Fit(ctx context.Context, series *timeseries.Series) error
	Predict(horizon int) (*Forecast, error)
}

var _ Forecaster = (*Model)(nil)

// Model is a piecewise linear trend plus Fourier seasonalities. The
// coefficients are maximum a posteriori estimates under Gaussian priors,
// solved with gonum's QR least squares.
type Model struct {
	Config Config

	fitted        bool
	history       *timeseries.Series
	span          float64 // days from first to last observation
	scale         float64
	changepoints  []float64
	seasonalities []seasonality
	trendCoeffs   []float64 // intercept, rate, changepoint deltas
	seasonCoeffs  []float64
	sigma         float64 // residual std in scaled units
	residuals     []float64 // sales units
}

// New creates an unfitted model.
func New(cfg Config) *Model {
	return &Model{Config: cfg}
}

// Fit fits the model to a gapless daily series. Input the model cannot
// use is reported as a *FitError.
func (m *Model) Fit(ctx context.Context, series *timeseries.Series) error {
	logger := zerolog.Ctx(ctx)
	m.fitted = false

	if err := m.Config.Validate(); err != nil {
		return &FitError{Reason: "invalid configuration", Err: err}
	}
	if series == nil || series.Len() < 2 {
		return &FitError{Reason: "at least 2 daily observations are required"}
	}
	if err := series.CheckDaily(); err != nil {
		return &FitError{Reason: "series is not daily", Err: err}
	}
	for i, v := range series.Values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return &FitError{Reason: fmt.Sprintf("non-finite value on %s", series.Timestamps[i].Format(time.DateOnly))}
		}
	}

	n := series.Len()
	m.history = series.Copy()
	m.span = float64(n - 1)

	m.scale = 0
	for _, v := range series.Values {
		m.scale = math.Max(m.scale, math.Abs(v))
	}
	if m.scale == 0 {
		m.scale = 1
	}

	y := make([]float64, n)
	ts := make([]float64, n)
	for i, v := range series.Values {
		y[i] = v / m.scale
		ts[i] = float64(i) / m.span
	}

	m.changepoints = nil
	if m.Config.ChangepointPriorScale > 0 {
		m.changepoints = placeChangepoints(ts, m.Config.NChangepoints, m.Config.ChangepointRange)
	}
	m.seasonalities = m.activeSeasonalities(logger)

	trendX := make([][]float64, n)
	seasonX := make([][]float64, n)
	for i := range ts {
		trendX[i] = trendRow(nil, ts[i], m.changepoints)
		seasonX[i] = m.seasonalRow(nil, absDay(series.Timestamps[i]))
	}

	// Intercept and rate are unpenalized, changepoint deltas get the
	// changepoint prior scale.
	trendPrior := make([]float64, 2+len(m.changepoints))
	for j := range trendPrior {
		trendPrior[j] = unpenalized
		if j >= 2 {
			trendPrior[j] = m.Config.ChangepointPriorScale
		}
	}
	seasonPrior := make([]float64, m.seasonalWidth())
	for j := range seasonPrior {
		seasonPrior[j] = seasonalityPriorScale
	}

	if err := m.solve(trendX, seasonX, y, trendPrior, seasonPrior); err != nil {
		return err
	}

	m.residuals = make([]float64, n)
	sse := 0.0
	for i := range y {
		g := floats.Dot(trendX[i], m.trendCoeffs)
		s := floats.Dot(seasonX[i], m.seasonCoeffs)
		r := y[i] - m.combine(g, s)
		sse += r * r
		m.residuals[i] = r * m.scale
	}

	dof := n - m.params()
	if dof < 1 {
		dof = n
	}
	m.sigma = math.Sqrt(sse / float64(dof))
	m.fitted = true

	logger.Debug().
		Int("observations", n).
		Int("changepoints", len(m.changepoints)).
		Int("parameters", m.params()).
		Float64("sigma", m.sigma*m.scale).
		Str("mode", string(m.Config.Mode)).
		Msg("model fitted")

	return nil
}

// solve fits trend and seasonal coefficients jointly (additive) or the
// trend first and the seasonal ratio to it second (multiplicative).
func (m *Model) solve(trendX, seasonX [][]float64, y, trendPrior, seasonPrior []float64) error {
	switch m.Config.Mode {
	case Multiplicative:
		trend, err := leastSquares(trendX, y, trendPrior)
		if err != nil {
			return &FitError{Reason: "trend least squares failed", Err: err}
		}
		m.trendCoeffs = trend

		ratio := make([]float64, len(y))
		for i := range y {
			g := floats.Dot(trendX[i], trend)
			if g <= 1e-9 {
				return &FitError{Reason: "multiplicative seasonality needs a positive trend"}
			}
			ratio[i] = y[i]/g - 1
		}

		m.seasonCoeffs = nil
		if len(seasonPrior) > 0 {
			season, err := leastSquares(seasonX, ratio, seasonPrior)
			if err != nil {
				return &FitError{Reason: "seasonal least squares failed", Err: err}
			}
			m.seasonCoeffs = season
		}

	default:
		x := make([][]float64, len(y))
		for i := range x {
			x[i] = append(append(make([]float64, 0, len(trendX[i])+len(seasonX[i])), trendX[i]...), seasonX[i]...)
		}
		prior := append(append([]float64{}, trendPrior...), seasonPrior...)

		coeffs, err := leastSquares(x, y, prior)
		if err != nil {
			return &FitError{Reason: "least squares failed", Err: err}
		}
		m.trendCoeffs = coeffs[:len(trendPrior)]
		m.seasonCoeffs = coeffs[len(trendPrior):]
	}
	return nil
}

// activeSeasonalities drops seasonalities the history is too short to
// identify: weekly needs two weeks, yearly a full year.
func (m *Model) activeSeasonalities(logger *zerolog.Logger) []seasonality {
	var out []seasonality
	if m.Config.WeeklySeasonality {
		if m.span >= 2*weeklyPeriod {
			out = append(out, seasonality{name: "weekly", period: weeklyPeriod, order: m.Config.WeeklyOrder})
		} else {
			logger.Info().Float64("days", m.span+1).Msg("history shorter than two weeks, weekly seasonality disabled")
		}
	}
	if m.Config.YearlySeasonality {
		if m.span >= yearlyPeriod {
			out = append(out, seasonality{name: "yearly", period: yearlyPeriod, order: m.Config.YearlyOrder})
		} else {
			logger.Info().Float64("days", m.span+1).Msg("history shorter than a year, yearly seasonality disabled")
		}
	}
	return out
}

func (m *Model) seasonalWidth() int {
	w := 0
	for _, s := range m.seasonalities {
		w += s.width()
	}
	return w
}

func (m *Model) seasonalRow(dst []float64, d float64) []float64 {
	for _, s := range m.seasonalities {
		dst = s.fourier(dst, d)
	}
	return dst
}

// effects returns the weekly and yearly seasonal terms at absolute day d,
// in scaled units (additive) or as trend fractions (multiplicative).
func (m *Model) effects(d float64) (weekly, yearly float64) {
	offset := 0
	var buf []float64
	for _, s := range m.seasonalities {
		buf = s.fourier(buf[:0], d)
		v := floats.Dot(buf, m.seasonCoeffs[offset:offset+s.width()])
		offset += s.width()

		switch s.name {
		case "weekly":
			weekly = v
		case "yearly":
			yearly = v
		}
	}
	return weekly, yearly
}

func (m *Model) combine(g, s float64) float64 {
	if m.Config.Mode == Multiplicative {
		return g * (1 + s)
	}
	return g + s
}

func (m *Model) params() int {
	return len(m.trendCoeffs) + len(m.seasonCoeffs)
}

// Predict returns fitted values for the history and forecasts for horizon
// days after it.
func (m *Model) Predict(horizon int) (*Forecast, error) {
	if !m.fitted {
		return nil, errors.New("model must be fitted before prediction")
	}
	if horizon < 1 {
		return nil, fmt.Errorf("horizon must be at least 1, got %d", horizon)
	}

	n := m.history.Len()
	start := m.history.Start()
	z := distuv.UnitNormal.Quantile((1 + m.Config.IntervalWidth) / 2)
	rate, meanDelta := m.trendChange()

	points := make([]Point, n+horizon)
	row := make([]float64, 0, len(m.trendCoeffs))
	for i := range points {
		date := start.AddDate(0, 0, i)
		g := floats.Dot(trendRow(row[:0], float64(i)/m.span, m.changepoints), m.trendCoeffs)
		weekly, yearly := m.effects(absDay(date))
		s := weekly + yearly
		yhat := m.combine(g, s)

		variance := m.sigma * m.sigma
		if h := i - (n - 1); h > 0 {
			ht := float64(h) / m.span
			trendVar := rate * 2 * meanDelta * meanDelta * ht * ht * ht / 3
			if m.Config.Mode == Multiplicative {
				trendVar *= (1 + s) * (1 + s)
			}
			variance += trendVar
		}
		half := z * math.Sqrt(variance)

		p := Point{
			Date:   date,
			Yhat:   yhat * m.scale,
			Lower:  (yhat - half) * m.scale,
			Upper:  (yhat + half) * m.scale,
			Actual: math.NaN(),
			Trend:  g * m.scale,
			Weekly: weekly * m.scale,
			Yearly: yearly * m.scale,
		}
		if m.Config.Mode == Multiplicative {
			p.Weekly *= g
			p.Yearly *= g
		}
		if i < n {
			p.Actual = m.history.Values[i]
		}
		points[i] = p
	}

	return &Forecast{
		Points:     points,
		Components: m.components(),
		Mode:       m.Config.Mode,
		HistoryEnd: m.history.End(),
	}, nil
}

// trendChange returns the changepoint rate per unit of scaled time and the
// mean absolute rate change.
func (m *Model) trendChange() (rate, meanDelta float64) {
	deltas := m.trendCoeffs[2:]
	if len(deltas) == 0 {
		return 0, 0
	}
	for _, d := range deltas {
		meanDelta += math.Abs(d)
	}
	return float64(len(deltas)), meanDelta / float64(len(deltas))
}

func (m *Model) components() Components {
	unit := m.scale
	if m.Config.Mode == Multiplicative {
		unit = 1
	}

	var c Components
	for _, s := range m.seasonalities {
		switch s.name {
		case "weekly":
			c.Weekly = make([]float64, 7)
			for wd := range c.Weekly {
				// The epoch fell on a Thursday.
				w, _ := m.effects(float64((wd + 3) % 7))
				c.Weekly[wd] = w * unit
			}
		case "yearly":
			c.Yearly = make([]float64, 366)
			leap := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
			for i := range c.Yearly {
				_, y := m.effects(absDay(leap.AddDate(0, 0, i)))
				c.Yearly[i] = y * unit
			}
		}
	}
	return c
}
