package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sartorproj/salesforecast/config"
	"github.com/sartorproj/salesforecast/pipeline"
)

const envPrefix = config.EnvPrefix

var version = "dev"

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

type app struct {
	stdout io.Writer
	stderr io.Writer

	cfgFile   string
	verbose   bool
	colorMode string

	v       *viper.Viper
	cfg     *config.Config
	printer *Printer
}

// Execute runs the command line and returns the process exit code.
func Execute(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		v:       config.New(),
		printer: NewPrinter(stdout, stderr, ResolveColors(ColorAuto, true)),
	}

	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	if err := root.ExecuteContext(ctx); err != nil {
		// Flag and argument errors stop before initConfig picks the printer.
		if a.cfg == nil {
			if mode, perr := ParseColorMode(a.colorMode); perr == nil {
				a.printer = NewPrinter(stdout, stderr, ResolveColors(mode, true))
			}
		}
		cliErr := Classify(err)
		a.printer.FormatError(cliErr)
		return cliErr.ExitCode
	}
	return ExitSuccess
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "salesforecast [path]",
		Short: "Forecast daily retail sales from an order export",
		Long: `salesforecast loads a CSV or .xlsx export of sales orders, aggregates it
into a gapless daily series and forecasts it with a trend plus weekly and
yearly seasonality model.

It writes a forecast plot, a components plot and optionally an .xlsx
workbook, then prints the last days of the forecast.

Example usage:
  salesforecast                         # sales_data_sample.csv, 90 days
  salesforecast orders.csv --horizon 30 # forecast a month
  salesforecast inspect orders.csv      # summarize the cleaned series`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.initConfig(cmd, args)
		},
		RunE: a.runForecast,
	}
	root.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	pflags := root.PersistentFlags()
	pflags.StringVar(&a.cfgFile, "config", "", "config file (default is .salesforecast.yaml)")
	pflags.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")
	pflags.StringVar(&a.colorMode, "color", "auto", "color output: auto, always, or never")
	pflags.String("fill", "", "gap filling: zero or interpolate")

	flags := root.Flags()
	flags.Int("horizon", 0, "days to forecast past the last observation")
	flags.String("mode", "", "seasonality mode: additive or multiplicative")
	flags.String("out-dir", "", "directory for generated files")

	_ = a.v.BindPFlag("clean.fill", pflags.Lookup("fill"))
	_ = a.v.BindPFlag("forecast.horizon_days", flags.Lookup("horizon"))
	_ = a.v.BindPFlag("model.seasonality_mode", flags.Lookup("mode"))
	_ = a.v.BindPFlag("output.dir", flags.Lookup("out-dir"))

	root.AddCommand(a.inspectCommand(), a.versionCommand())
	return root
}

// usageArgs tags positional argument errors as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return &usageError{err: err}
		}
		return nil
	}
}

// initConfig loads .env, the config file and the environment, then sets
// up the printer and the logger carried by the command context.
func (a *app) initConfig(cmd *cobra.Command, args []string) error {
	mode, err := ParseColorMode(a.colorMode)
	if err != nil {
		return &usageError{err: err}
	}
	a.printer = NewPrinter(a.stdout, a.stderr, ResolveColors(mode, true))

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		a.printer.Warning("ignoring .env file: %v", err)
	}

	if len(args) == 1 {
		a.v.Set("input.path", args[0])
	}

	a.cfg, err = config.Load(a.v, a.cfgFile)
	if err != nil {
		return &configError{err: err}
	}
	if a.verbose {
		a.cfg.Logging.Level = "debug"
	}

	colors := ResolveColors(mode, a.cfg.Output.Colors)
	a.printer = NewPrinter(a.stdout, a.stderr, colors)

	logger, err := newLogger(a.stderr, a.cfg.Logging, colors)
	if err != nil {
		return &configError{err: err}
	}
	cmd.SetContext(logger.WithContext(cmd.Context()))

	logger.Debug().
		Str("config", a.v.ConfigFileUsed()).
		Str("input", a.cfg.Input.Path).
		Str("output_dir", a.cfg.Output.Dir).
		Msg("configuration loaded")

	return nil
}

func newLogger(w io.Writer, cfg config.LoggingConfig, colors bool) (zerolog.Logger, error) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("logging.level: %w", err)
	}

	out := w
	if cfg.Format == "console" {
		out = zerolog.ConsoleWriter{Out: w, TimeFormat: time.TimeOnly, NoColor: !colors}
	}
	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}

func (a *app) runForecast(cmd *cobra.Command, _ []string) error {
	p := &pipeline.Pipeline{Out: cmd.OutOrStdout()}
	res, err := p.Run(cmd.Context(), a.cfg)
	if err != nil {
		return err
	}

	a.printer.Success("forecast of %d days after %s from %d daily observations",
		a.cfg.Forecast.HorizonDays, res.Forecast.HistoryEnd.Format(time.DateOnly), res.Series.Len())
	projected := 0.0
	for _, pt := range res.Forecast.Future() {
		projected += pt.Yhat
	}
	a.printer.Info("  projected sales over the horizon: %s", formatNumber(projected))
	for _, path := range res.Written {
		a.printer.Info("  wrote %s", path)
	}
	if res.RowsDropped > 0 {
		a.printer.Warning("%d rows with unparseable dates were dropped", res.RowsDropped)
	}
	a.printer.PrintHints(cmd.Name())
	return nil
}
