package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/sartorproj/salesforecast/dataset"
	"github.com/sartorproj/salesforecast/forecast"
	"github.com/sartorproj/salesforecast/pipeline"
)

// Exit code constants
const (
	ExitSuccess = 0
	ExitGeneral = 1
	ExitUsage   = 2
	ExitInput   = 3
	ExitData    = 4
	ExitFit     = 5
	ExitOutput  = 6
)

// CLIError is a structured error with user-facing context
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
}

// Error implements the error interface, returning the summary
func (e *CLIError) Error() string {
	if e.Detail == "" {
		return e.Summary
	}
	return e.Summary + ": " + e.Detail
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// Classify maps an error returned by a command onto a CLIError with the
// exit code for its class.
func Classify(err error) *CLIError {
	if err == nil {
		return nil
	}

	var cliErr *CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var usage *usageError
	if errors.As(err, &usage) {
		return &CLIError{
			Summary:    "invalid usage",
			Detail:     usage.err.Error(),
			Suggestion: "run 'salesforecast --help' for usage",
			ExitCode:   ExitUsage,
		}
	}

	var cfgErr *configError
	if errors.As(err, &cfgErr) {
		return &CLIError{
			Summary:    "invalid configuration",
			Detail:     cfgErr.err.Error(),
			Suggestion: "fix the listed keys in the config file or the " + envPrefix + "_* environment",
			ExitCode:   ExitUsage,
		}
	}

	out := &CLIError{Summary: "salesforecast failed", Detail: err.Error(), ExitCode: ExitGeneral}

	var stage *pipeline.StageError
	if errors.As(err, &stage) {
		out.Summary = fmt.Sprintf("stage %s failed", stage.Stage)
		out.Detail = stage.Err.Error()
	}

	var (
		notFound *dataset.NotFoundError
		schema   *dataset.SchemaError
		fitErr   *forecast.FitError
	)
	switch {
	case errors.As(err, &notFound):
		out.ExitCode = ExitInput
		out.Suggestion = "check the path argument or input.path in the config file"
	case errors.As(err, &schema):
		out.ExitCode = ExitInput
		out.Suggestion = fmt.Sprintf("available columns: %s; set input.date_field and input.value_field to match",
			strings.Join(schema.Available, ", "))
	case errors.Is(err, dataset.ErrEmptyDataset):
		out.ExitCode = ExitData
		out.Suggestion = "check that input.date_layouts matches the date column and that sales values are numeric"
	case errors.As(err, &fitErr):
		out.ExitCode = ExitFit
		out.Suggestion = "provide a longer history or relax the model settings"
	case stage != nil:
		out.ExitCode, out.Suggestion = classifyStage(stage.Stage)
	}

	return out
}

func classifyStage(s pipeline.Stage) (int, string) {
	switch s {
	case pipeline.StageLoad, pipeline.StageValidate:
		return ExitInput, "check input.encoding and input.delimiter against the file"
	case pipeline.StageParseDates, pipeline.StageAggregate, pipeline.StageFillGaps:
		return ExitData, "run 'salesforecast inspect' to see how the rows were cleaned"
	case pipeline.StageFit, pipeline.StagePredict:
		return ExitFit, "provide a longer history or relax the model settings"
	case pipeline.StageRender, pipeline.StageWrite:
		return ExitOutput, "check that output.dir is writable"
	default:
		return ExitGeneral, ""
	}
}
