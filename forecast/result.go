package forecast

import (
	"time"
)

// Point is the forecast for one calendar day. Trend, Weekly and Yearly are
// in sales units and sum to Yhat. Actual is NaN for future days.
type Point struct {
	Date   time.Time
	Yhat   float64
	Lower  float64
	Upper  float64
	Actual float64
	Trend  float64
	Weekly float64
	Yearly float64
}

// Components holds one period of each fitted seasonality.
//
// Weekly is indexed by time.Weekday (Sunday first) and Yearly by day of
// year minus one, over a leap year. In additive mode values are in sales
// units; in multiplicative mode they are fractions of the trend. A nil
// slice means the seasonality was not fitted.
type Components struct {
	Weekly []float64
	Yearly []float64
}

// Forecast covers every day from the first observation to the end of the
// horizon, in ascending order.
type Forecast struct {
	Points     []Point
	Components Components
	Mode       Mode
	HistoryEnd time.Time
}

// Len returns the number of points.
func (f *Forecast) Len() int {
	return len(f.Points)
}

// Tail returns the last k points, or every point if k exceeds the length.
func (f *Forecast) Tail(k int) []Point {
	if k <= 0 {
		return []Point{}
	}
	if k > len(f.Points) {
		k = len(f.Points)
	}
	out := make([]Point, k)
	copy(out, f.Points[len(f.Points)-k:])
	return out
}

// History returns the points up to and including HistoryEnd.
func (f *Forecast) History() []Point {
	return f.Points[:f.split()]
}

// Future returns the points after HistoryEnd.
func (f *Forecast) Future() []Point {
	return f.Points[f.split():]
}

func (f *Forecast) split() int {
	for i, p := range f.Points {
		if p.Date.After(f.HistoryEnd) {
			return i
		}
	}
	return len(f.Points)
}
