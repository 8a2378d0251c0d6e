package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/sartorproj/salesforecast/config"
	"github.com/sartorproj/salesforecast/dataset"
	"github.com/sartorproj/salesforecast/forecast"
	"github.com/sartorproj/salesforecast/plot"
	"github.com/sartorproj/salesforecast/report"
	"github.com/sartorproj/salesforecast/timeseries"
)

// Renderer draws forecast images.
type Renderer interface {
	Plot(w io.Writer, f *forecast.Forecast) error
	PlotComponents(w io.Writer, f *forecast.Forecast) error
}

// Pipeline wires the forecasting and rendering collaborators. Nil fields
// are built from the run configuration.
type Pipeline struct {
	Forecaster forecast.Forecaster
	Renderer   Renderer
	// Out receives the forecast preview table. Nil skips the preview.
	Out io.Writer
}

// Preparation is the outcome of the cleaning stages.
type Preparation struct {
	RowsRead      int
	RowsDropped   int
	InvalidValues int
	DaysFilled    int
	// Observed has one entry per day with at least one order.
	Observed *timeseries.Series
	// Series is Observed with every missing day filled.
	Series *timeseries.Series
}

// Result is the outcome of a full run.
type Result struct {
	*Preparation
	Forecast    *forecast.Forecast
	Diagnostics *forecast.Diagnostics
	Written     []string
	Elapsed     time.Duration
}

// Prepare loads the input and cleans it into a gapless daily series.
func (p *Pipeline) Prepare(ctx context.Context, cfg *config.Config) (*Preparation, error) {
	logger := zerolog.Ctx(ctx)
	in := cfg.Input

	opts, err := cfg.DatasetOptions()
	if err != nil {
		return nil, fail(StageLoad, err)
	}
	table, err := dataset.Load(ctx, in.Path, opts)
	if err != nil {
		return nil, fail(StageLoad, err)
	}
	prep := &Preparation{RowsRead: table.Len()}

	table, err = dataset.Validate(table, in.DateField, in.ValueField)
	if err != nil {
		return nil, fail(StageValidate, err)
	}

	table, err = dataset.ParseDates(table, in.DateField, in.DateLayouts)
	if err != nil {
		return nil, fail(StageParseDates, err)
	}
	table, err = dataset.DropInvalidDates(table)
	if err != nil {
		return nil, fail(StageParseDates, err)
	}
	prep.RowsDropped = prep.RowsRead - table.Len()
	if prep.RowsDropped > 0 {
		logger.Warn().Int("rows", prep.RowsDropped).Str("field", in.DateField).Msg("dropped rows with unparseable dates")
	}

	prep.Observed, err = dataset.AggregateDaily(table, in.DateField, in.ValueField)
	if err != nil {
		return nil, fail(StageAggregate, err)
	}
	prep.InvalidValues = table.InvalidValues(in.ValueField)
	if prep.InvalidValues > 0 {
		logger.Warn().Int("rows", prep.InvalidValues).Str("field", in.ValueField).Msg("skipped non-numeric values")
	}

	strategy, err := cfg.FillStrategy()
	if err != nil {
		return nil, fail(StageFillGaps, err)
	}
	prep.Series, err = prep.Observed.FillGaps(strategy)
	if err != nil {
		return nil, fail(StageFillGaps, err)
	}
	if err := prep.Series.CheckDaily(); err != nil {
		return nil, fail(StageFillGaps, err)
	}
	prep.DaysFilled = prep.Observed.MissingDays()

	logger.Info().
		Int("rows_read", prep.RowsRead).
		Int("rows_dropped", prep.RowsDropped).
		Int("days", prep.Series.Len()).
		Int("days_filled", prep.DaysFilled).
		Str("fill", string(strategy)).
		Time("first", prep.Series.Start()).
		Time("last", prep.Series.End()).
		Msg("prepared daily series")

	return prep, nil
}

// Run prepares the series, fits and predicts, renders every output into
// memory and only then writes files and prints the preview.
func (p *Pipeline) Run(ctx context.Context, cfg *config.Config) (*Result, error) {
	logger := zerolog.Ctx(ctx)
	began := time.Now()

	prep, err := p.Prepare(ctx, cfg)
	if err != nil {
		return nil, err
	}
	result := &Result{Preparation: prep}

	forecaster := p.Forecaster
	if forecaster == nil {
		modelCfg, err := cfg.ForecastConfig()
		if err != nil {
			return nil, fail(StageFit, err)
		}
		forecaster = forecast.New(modelCfg)
	}

	if err := forecaster.Fit(ctx, prep.Series); err != nil {
		return nil, fail(StageFit, err)
	}
	if d, ok := forecaster.(interface {
		Diagnostics() (*forecast.Diagnostics, error)
	}); ok {
		diag, err := d.Diagnostics()
		if err != nil {
			logger.Warn().Err(err).Msg("fit diagnostics unavailable")
		} else {
			result.Diagnostics = diag
			logger.Info().EmbedObject(diag).Msg("model fitted")
		}
	}

	result.Forecast, err = forecaster.Predict(cfg.Forecast.HorizonDays)
	if err != nil {
		return nil, fail(StagePredict, err)
	}

	files, err := p.render(cfg, result.Forecast)
	if err != nil {
		return nil, fail(StageRender, err)
	}
	var preview bytes.Buffer
	if p.Out != nil {
		if err := report.PrintTail(&preview, result.Forecast, cfg.Forecast.PreviewRows); err != nil {
			return nil, fail(StageRender, fmt.Errorf("preview: %w", err))
		}
	}

	result.Written, err = writeFiles(cfg.Output.Dir, files)
	if err != nil {
		return nil, fail(StageWrite, err)
	}
	for _, path := range result.Written {
		logger.Info().Str("path", path).Msg("wrote output")
	}

	if p.Out != nil {
		if _, err := preview.WriteTo(p.Out); err != nil {
			return nil, fail(StageWrite, err)
		}
	}

	result.Elapsed = time.Since(began)
	logger.Debug().Dur("elapsed", result.Elapsed).Msg("run complete")
	return result, nil
}

type outputFile struct {
	path string
	data []byte
}

func (p *Pipeline) render(cfg *config.Config, f *forecast.Forecast) ([]outputFile, error) {
	renderer := p.Renderer
	if renderer == nil {
		renderer = plot.Renderer{Width: cfg.Output.Width, Height: cfg.Output.Height}
	}

	var files []outputFile
	var buf bytes.Buffer
	if err := renderer.Plot(&buf, f); err != nil {
		return nil, fmt.Errorf("forecast plot: %w", err)
	}
	files = append(files, outputFile{cfg.OutputPath(cfg.Output.ForecastPlot), bytes.Clone(buf.Bytes())})

	if cfg.Output.ComponentsPlot != "" {
		buf.Reset()
		if err := renderer.PlotComponents(&buf, f); err != nil {
			return nil, fmt.Errorf("components plot: %w", err)
		}
		files = append(files, outputFile{cfg.OutputPath(cfg.Output.ComponentsPlot), bytes.Clone(buf.Bytes())})
	}

	if cfg.Output.Workbook != "" {
		buf.Reset()
		if err := report.WriteWorkbook(&buf, f); err != nil {
			return nil, fmt.Errorf("workbook: %w", err)
		}
		files = append(files, outputFile{cfg.OutputPath(cfg.Output.Workbook), bytes.Clone(buf.Bytes())})
	}

	return files, nil
}

func writeFiles(dir string, files []outputFile) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}

	written := make([]string, 0, len(files))
	for _, f := range files {
		if err := os.MkdirAll(filepath.Dir(f.path), 0o755); err != nil {
			return written, fmt.Errorf("creating directory for %s: %w", f.path, err)
		}
		if err := os.WriteFile(f.path, f.data, 0o644); err != nil {
			return written, fmt.Errorf("writing %s: %w", f.path, err)
		}
		written = append(written, f.path)
	}
	return written, nil
}
