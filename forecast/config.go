package forecast

import (
	"errors"
	"fmt"
	"strings"
)

// Mode selects how seasonal terms combine with the trend.
type Mode string

const (
	// Additive: yhat = trend + seasonal.
	Additive Mode = "additive"
	// Multiplicative: yhat = trend * (1 + seasonal).
	Multiplicative Mode = "multiplicative"
)

// ParseMode parses a seasonality mode name, case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case Additive:
		return Additive, nil
	case Multiplicative:
		return Multiplicative, nil
	default:
		return "", fmt.Errorf("unknown seasonality mode %q: must be additive or multiplicative", s)
	}
}

// Config holds model hyperparameters.
type Config struct {
	Mode Mode

	// ChangepointPriorScale bounds how far the trend rate may move at each
	// changepoint. Zero disables changepoints.
	ChangepointPriorScale float64
	NChangepoints         int
	// ChangepointRange is the leading fraction of history eligible for
	// changepoints.
	ChangepointRange float64

	YearlySeasonality bool
	WeeklySeasonality bool
	YearlyOrder       int
	WeeklyOrder       int

	// IntervalWidth is the coverage of [Lower, Upper], in (0, 1).
	IntervalWidth float64
}

// DefaultConfig returns the usual daily-sales settings.
func DefaultConfig() Config {
	return Config{
		Mode:                  Additive,
		ChangepointPriorScale: 0.05,
		NChangepoints:         25,
		ChangepointRange:      0.8,
		YearlySeasonality:     true,
		WeeklySeasonality:     true,
		YearlyOrder:           10,
		WeeklyOrder:           3,
		IntervalWidth:         0.8,
	}
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Mode != Additive && c.Mode != Multiplicative {
		return fmt.Errorf("unknown seasonality mode %q", c.Mode)
	}
	if c.ChangepointPriorScale < 0 {
		return errors.New("changepoint prior scale must not be negative")
	}
	if c.NChangepoints < 0 {
		return errors.New("number of changepoints must not be negative")
	}
	if c.ChangepointRange <= 0 || c.ChangepointRange > 1 {
		return errors.New("changepoint range must be in (0, 1]")
	}
	if c.YearlySeasonality && c.YearlyOrder < 1 {
		return errors.New("yearly order must be at least 1")
	}
	if c.WeeklySeasonality && c.WeeklyOrder < 1 {
		return errors.New("weekly order must be at least 1")
	}
	if c.WeeklyOrder > 3 {
		return errors.New("weekly order must be at most 3")
	}
	if c.IntervalWidth <= 0 || c.IntervalWidth >= 1 {
		return errors.New("interval width must be in (0, 1)")
	}
	return nil
}
