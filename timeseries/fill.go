package timeseries

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
)

// FillStrategy selects how days missing from a series are filled.
type FillStrategy string

const (
	// FillZero sets missing days to 0.
	FillZero FillStrategy = "zero"
	// FillInterpolate linearly interpolates between the nearest known days.
	// A missing day with a known neighbor on one side only takes that value.
	FillInterpolate FillStrategy = "interpolate"
)

// ParseFillStrategy parses a strategy name case-insensitively.
func ParseFillStrategy(s string) (FillStrategy, error) {
	switch FillStrategy(strings.ToLower(strings.TrimSpace(s))) {
	case FillZero:
		return FillZero, nil
	case FillInterpolate:
		return FillInterpolate, nil
	default:
		return "", fmt.Errorf("unknown fill strategy %q: must be zero or interpolate", s)
	}
}

// FillGaps returns a daily series covering every calendar day between the
// earliest and latest timestamp. Known days keep their value; duplicate days
// are summed. NaN values count as missing.
func (s *Series) FillGaps(strategy FillStrategy) (*Series, error) {
	if strategy != FillZero && strategy != FillInterpolate {
		return nil, fmt.Errorf("unknown fill strategy %q", strategy)
	}
	if len(s.Timestamps) != len(s.Values) {
		return nil, fmt.Errorf("series has %d timestamps for %d values", len(s.Timestamps), len(s.Values))
	}
	if len(s.Values) == 0 {
		return &Series{Timestamps: []time.Time{}, Values: []float64{}, Name: s.Name}, nil
	}

	order := make([]int, len(s.Timestamps))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return s.Timestamps[order[a]].Before(s.Timestamps[order[b]])
	})

	start := TruncateDay(s.Timestamps[order[0]])
	end := TruncateDay(s.Timestamps[order[len(order)-1]])
	n := DaysBetween(start, end) + 1

	values := make([]float64, n)
	known := make([]bool, n)
	for _, i := range order {
		v := s.Values[i]
		if math.IsNaN(v) {
			continue
		}
		idx := DaysBetween(start, s.Timestamps[i])
		values[idx] += v
		known[idx] = true
	}

	if strategy == FillInterpolate {
		interpolate(values, known)
	}

	return &Series{
		Timestamps: NewDaily(start, values).Timestamps,
		Values:     values,
		Name:       s.Name,
	}, nil
}

// MissingDays counts the calendar days absent from the series between its
// earliest and latest timestamp.
func (s *Series) MissingDays() int {
	if len(s.Timestamps) == 0 {
		return 0
	}
	seen := make(map[time.Time]struct{}, len(s.Timestamps))
	first, last := TruncateDay(s.Timestamps[0]), TruncateDay(s.Timestamps[0])
	for _, ts := range s.Timestamps {
		day := TruncateDay(ts)
		seen[day] = struct{}{}
		if day.Before(first) {
			first = day
		}
		if day.After(last) {
			last = day
		}
	}
	return DaysBetween(first, last) + 1 - len(seen)
}

// interpolate fills the unknown entries of values in place.
func interpolate(values []float64, known []bool) {
	prev := -1
	for i := 0; i < len(values); i++ {
		if !known[i] {
			continue
		}
		if prev == -1 {
			// Leading gap: extend the first known value backwards.
			for j := 0; j < i; j++ {
				values[j] = values[i]
			}
		} else if i-prev > 1 {
			span := float64(i - prev)
			for j := prev + 1; j < i; j++ {
				w := float64(j-prev) / span
				values[j] = values[prev]*(1-w) + values[i]*w
			}
		}
		prev = i
	}

	if prev == -1 {
		return // nothing known, values stay zero
	}
	for j := prev + 1; j < len(values); j++ {
		values[j] = values[prev]
	}
}
