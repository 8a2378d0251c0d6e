package forecast

import "fmt"

// FitError reports input the model cannot be fitted to.
type FitError struct {
	Reason string
	Err    error
}

func (e *FitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("model fit failed: %s: %v", e.Reason, e.Err)
	}
	return "model fit failed: " + e.Reason
}

func (e *FitError) Unwrap() error {
	return e.Err
}
