package config

import (
	"github.com/sartorproj/salesforecast/dataset"
	"github.com/sartorproj/salesforecast/forecast"
	"github.com/sartorproj/salesforecast/timeseries"
)

// DatasetOptions returns the loader options for the input file.
func (c *Config) DatasetOptions() (dataset.Options, error) {
	delim, err := ParseDelimiter(c.Input.Delimiter)
	if err != nil {
		return dataset.Options{}, err
	}
	return dataset.Options{
		Encoding:  c.Input.Encoding,
		Delimiter: delim,
		Sheet:     c.Input.Sheet,
	}, nil
}

// FillStrategy returns the gap filling strategy.
func (c *Config) FillStrategy() (timeseries.FillStrategy, error) {
	return timeseries.ParseFillStrategy(c.Clean.Fill)
}

// ForecastConfig returns the model hyperparameters.
func (c *Config) ForecastConfig() (forecast.Config, error) {
	mode, err := forecast.ParseMode(c.Model.SeasonalityMode)
	if err != nil {
		return forecast.Config{}, err
	}
	return forecast.Config{
		Mode:                  mode,
		ChangepointPriorScale: c.Model.ChangepointPriorScale,
		NChangepoints:         c.Model.NChangepoints,
		ChangepointRange:      c.Model.ChangepointRange,
		YearlySeasonality:     c.Model.YearlySeasonality,
		WeeklySeasonality:     c.Model.WeeklySeasonality,
		YearlyOrder:           c.Model.YearlyOrder,
		WeeklyOrder:           c.Model.WeeklyOrder,
		IntervalWidth:         c.Model.IntervalWidth,
	}, nil
}
