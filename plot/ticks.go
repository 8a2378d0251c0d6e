package plot

import (
	"math"
	"strconv"
	"time"

	gplot "gonum.org/v1/plot"
)

// dayX is the x coordinate of a calendar day: days since the Unix epoch.
func dayX(t time.Time) float64 {
	return float64(t.Unix()) / 86400
}

func xDay(x float64) time.Time {
	return time.Unix(int64(math.Round(x*86400)), 0).UTC()
}

// valueTicker labels about n ticks at multiples of 1, 2 or 5 times a power
// of ten.
type valueTicker struct {
	n      int
	format func(float64) string
}

func (t valueTicker) Ticks(lo, hi float64) []gplot.Tick {
	return valueTicks(lo, hi, t.n, t.format)
}

func valueTicks(lo, hi float64, n int, format func(float64) string) []gplot.Tick {
	span := hi - lo
	if span <= 0 || n < 1 {
		return []gplot.Tick{{Value: lo, Label: format(lo)}}
	}

	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	step := 10 * mag
	for _, m := range []float64{1, 2, 5} {
		if raw <= m*mag {
			step = m * mag
			break
		}
	}

	unit := math.Pow(10, math.Max(0, -math.Floor(math.Log10(step))))
	var ticks []gplot.Tick
	for i := math.Ceil(lo / step); i*step <= hi+step*1e-9; i++ {
		v := math.Round(i*step*unit) / unit
		if v == 0 {
			v = 0 // no "-0" labels
		}
		ticks = append(ticks, gplot.Tick{Value: v, Label: format(v)})
	}
	return ticks
}

// formatValue abbreviates thousands and millions.
func formatValue(v float64) string {
	abs := math.Abs(v)
	switch {
	case abs >= 1e6:
		return strconv.FormatFloat(v/1e6, 'f', -1, 64) + "M"
	case abs >= 1e3:
		return strconv.FormatFloat(v/1e3, 'f', -1, 64) + "k"
	default:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
}

func formatPercent(v float64) string {
	return strconv.FormatFloat(math.Round(v*1e4)/1e2, 'f', -1, 64) + "%"
}

// dateTicker labels calendar days on an axis of dayX coordinates.
type dateTicker struct {
	n int
}

func (t dateTicker) Ticks(lo, hi float64) []gplot.Tick {
	return dateTicks(xDay(math.Ceil(lo)), xDay(math.Floor(hi)), t.n)
}

// dateTicks places about n ticks between first and last, at month starts
// for long ranges and at whole-day steps otherwise.
func dateTicks(first, last time.Time, n int) []gplot.Tick {
	days := last.Sub(first).Hours() / 24
	if days <= 0 || n < 1 {
		return []gplot.Tick{{Value: dayX(first), Label: first.Format("Jan 02")}}
	}

	if days > 120 {
		months := int(days/30.44) + 1
		step := 12
		for _, s := range []int{1, 2, 3, 6, 12} {
			if months/s <= n {
				step = s
				break
			}
		}

		var ticks []gplot.Tick
		t := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, time.UTC)
		if t.Before(first) {
			t = t.AddDate(0, 1, 0)
		}
		for (int(t.Month())-1)%step != 0 {
			t = t.AddDate(0, 1, 0)
		}
		for ; !t.After(last); t = t.AddDate(0, step, 0) {
			ticks = append(ticks, gplot.Tick{Value: dayX(t), Label: t.Format("Jan 2006")})
		}
		return ticks
	}

	step := 28
	for _, s := range []int{1, 2, 7, 14, 28} {
		if days/float64(s) <= float64(n) {
			step = s
			break
		}
	}
	var ticks []gplot.Tick
	for d := 0; float64(d) <= days; d += step {
		day := first.AddDate(0, 0, d)
		ticks = append(ticks, gplot.Tick{Value: dayX(day), Label: day.Format("Jan 02")})
	}
	return ticks
}
