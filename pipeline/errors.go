package pipeline

import "fmt"

// Stage names a pipeline step.
type Stage string

const (
	StageLoad       Stage = "load"
	StageValidate   Stage = "validate"
	StageParseDates Stage = "parse-dates"
	StageAggregate  Stage = "aggregate"
	StageFillGaps   Stage = "fill-gaps"
	StageFit        Stage = "fit"
	StagePredict    Stage = "predict"
	StageRender     Stage = "render"
	StageWrite      Stage = "write"
)

// StageError wraps the failure of a single stage.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("stage %s failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func fail(stage Stage, err error) error {
	return &StageError{Stage: stage, Err: err}
}
