// Package config provides Viper-based configuration management for salesforecast
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/sartorproj/salesforecast/dataset"
)

// EnvPrefix prefixes environment overrides, e.g. SALESFORECAST_FORECAST_HORIZON_DAYS.
const EnvPrefix = "SALESFORECAST"

// Config represents the complete run configuration
type Config struct {
	Input    InputConfig    `mapstructure:"input"`
	Clean    CleanConfig    `mapstructure:"clean"`
	Model    ModelConfig    `mapstructure:"model"`
	Forecast ForecastConfig `mapstructure:"forecast"`
	Output   OutputConfig   `mapstructure:"output"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// InputConfig describes the sales file and its fields
type InputConfig struct {
	Path        string   `mapstructure:"path" validate:"required"`
	Encoding    string   `mapstructure:"encoding"`
	Delimiter   string   `mapstructure:"delimiter" validate:"delimiter"`
	Sheet       string   `mapstructure:"sheet"`
	DateField   string   `mapstructure:"date_field" validate:"required"`
	ValueField  string   `mapstructure:"value_field" validate:"required"`
	DateLayouts []string `mapstructure:"date_layouts" validate:"min=1,dive,required"`
}

// CleanConfig controls gap filling
type CleanConfig struct {
	Fill string `mapstructure:"fill" validate:"oneof=zero interpolate"`
}

// ModelConfig holds forecaster hyperparameters
type ModelConfig struct {
	SeasonalityMode       string  `mapstructure:"seasonality_mode" validate:"oneof=additive multiplicative"`
	ChangepointPriorScale float64 `mapstructure:"changepoint_prior_scale" validate:"gte=0"`
	NChangepoints         int     `mapstructure:"n_changepoints" validate:"gte=0"`
	ChangepointRange      float64 `mapstructure:"changepoint_range" validate:"gt=0,lte=1"`
	YearlySeasonality     bool    `mapstructure:"yearly_seasonality"`
	WeeklySeasonality     bool    `mapstructure:"weekly_seasonality"`
	YearlyOrder           int     `mapstructure:"yearly_order" validate:"gte=1,lte=50"`
	WeeklyOrder           int     `mapstructure:"weekly_order" validate:"gte=1,lte=3"`
	IntervalWidth         float64 `mapstructure:"interval_width" validate:"gt=0,lt=1"`
}

// ForecastConfig controls the horizon and console preview
type ForecastConfig struct {
	HorizonDays int `mapstructure:"horizon_days" validate:"gt=0"`
	PreviewRows int `mapstructure:"preview_rows" validate:"gt=0"`
}

// OutputConfig names the generated files
type OutputConfig struct {
	Dir            string `mapstructure:"dir" validate:"required"`
	ForecastPlot   string `mapstructure:"forecast_plot" validate:"required"`
	ComponentsPlot string `mapstructure:"components_plot"`
	Width          int    `mapstructure:"width" validate:"gte=200,lte=10000"`
	Height         int    `mapstructure:"height" validate:"gte=150,lte=10000"`
	Workbook       string `mapstructure:"workbook"`
	Colors         bool   `mapstructure:"colors"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json"`
}

// New returns a viper instance with defaults and environment overrides set up.
// Callers may bind flags to it before calling Load.
func New() *viper.Viper {
	v := viper.New()

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)
	return v
}

// Load reads the config file (explicit, or .salesforecast.yaml found in the
// working directory or $HOME/.config/salesforecast), then unmarshals and
// validates the merged settings.
func Load(v *viper.Viper, cfgFile string) (*Config, error) {
	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName(".salesforecast")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/salesforecast")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	normalize(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// normalize lower-cases the enumerated settings so validation accepts the
// same spellings the parsers do.
func normalize(cfg *Config) {
	cfg.Clean.Fill = strings.ToLower(strings.TrimSpace(cfg.Clean.Fill))
	cfg.Model.SeasonalityMode = strings.ToLower(strings.TrimSpace(cfg.Model.SeasonalityMode))
	cfg.Logging.Level = strings.ToLower(strings.TrimSpace(cfg.Logging.Level))
	cfg.Logging.Format = strings.ToLower(strings.TrimSpace(cfg.Logging.Format))
}

// setDefaults configures default values
func setDefaults(v *viper.Viper) {
	v.SetDefault("input.path", "sales_data_sample.csv")
	v.SetDefault("input.encoding", "ISO-8859-1")
	v.SetDefault("input.delimiter", ",")
	v.SetDefault("input.sheet", "")
	v.SetDefault("input.date_field", "ORDERDATE")
	v.SetDefault("input.value_field", "SALES")
	v.SetDefault("input.date_layouts", dataset.DefaultDateLayouts)

	v.SetDefault("clean.fill", "zero")

	v.SetDefault("model.seasonality_mode", "additive")
	v.SetDefault("model.changepoint_prior_scale", 0.05)
	v.SetDefault("model.n_changepoints", 25)
	v.SetDefault("model.changepoint_range", 0.8)
	v.SetDefault("model.yearly_seasonality", true)
	v.SetDefault("model.weekly_seasonality", true)
	v.SetDefault("model.yearly_order", 10)
	v.SetDefault("model.weekly_order", 3)
	v.SetDefault("model.interval_width", 0.8)

	v.SetDefault("forecast.horizon_days", 90)
	v.SetDefault("forecast.preview_rows", 10)

	v.SetDefault("output.dir", ".")
	v.SetDefault("output.forecast_plot", "forecast.png")
	v.SetDefault("output.components_plot", "components.png")
	v.SetDefault("output.width", 1000)
	v.SetDefault("output.height", 600)
	v.SetDefault("output.workbook", "")
	v.SetDefault("output.colors", true)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// OutputPath joins name onto the output directory. Empty names stay empty.
func (c *Config) OutputPath(name string) string {
	if name == "" {
		return ""
	}
	if filepath.IsAbs(name) {
		return name
	}
	return filepath.Join(c.Output.Dir, name)
}
