package dataset

import (
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyDataset is returned when no usable rows survive cleaning.
var ErrEmptyDataset = errors.New("no valid rows remain")

// NotFoundError reports an input path that does not resolve to a readable file.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("input file %q not readable: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("input file %q not readable", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// SchemaError reports required fields absent from the table header.
type SchemaError struct {
	Missing   []string
	Available []string
}

func (e *SchemaError) Error() string {
	quoted := make([]string, len(e.Missing))
	for i, f := range e.Missing {
		quoted[i] = fmt.Sprintf("%q", f)
	}
	noun := "field"
	if len(e.Missing) > 1 {
		noun = "fields"
	}
	return fmt.Sprintf("missing required %s %s", noun, strings.Join(quoted, ", "))
}
