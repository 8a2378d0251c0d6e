// Package forecast fits an additive regression model to a daily series and
// projects it forward with uncertainty intervals.
//
// The model is
//
//	y(t) = g(t) + s(t) + e        (additive)
//	y(t) = g(t) * (1 + s(t)) + e  (multiplicative)
//
// where g is a piecewise linear trend whose rate may change at evenly
// spaced changepoints, and s is a sum of Fourier series with weekly and
// yearly periods. Coefficients are maximum a posteriori estimates under
// zero-mean Gaussian priors: changepoint deltas have the changepoint prior
// scale, Fourier coefficients a scale of 10. The numerics come from gonum:
// the prior-augmented design is solved with mat's QR least squares and the
// interval and Ljung-Box quantiles come from stat/distuv.
//
// # Usage
//
//	model := forecast.New(forecast.DefaultConfig())
//	if err := model.Fit(ctx, daily); err != nil {
//	    var fitErr *forecast.FitError
//	    // errors.As(err, &fitErr) for rejected input
//	}
//	f, err := model.Predict(90)
//	for _, p := range f.Tail(10) {
//	    fmt.Println(p.Date, p.Yhat, p.Lower, p.Upper)
//	}
//
// # Intervals
//
// Historical points carry z*sigma bands from the residual spread. Future
// points add the variance of trend changes of the size seen in history,
// growing with the cube of the distance past the last observation.
//
// Fitting is deterministic: the same series and Config always give the
// same forecast.
package forecast
