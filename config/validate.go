package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
)

// ValidationError lists every invalid setting by its config key.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return "invalid configuration: " + strings.Join(e.Problems, "; ")
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report fields by their config keys.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("delimiter", isDelimiter)

	return v
}

// Validate checks cfg against its validate tags.
func Validate(cfg *Config) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating config: %w", err)
	}

	problems := make([]string, len(fieldErrs))
	for i, fe := range fieldErrs {
		problems[i] = formatFieldError(fe)
	}
	return &ValidationError{Problems: problems}
}

func formatFieldError(fe validator.FieldError) string {
	key := strings.TrimPrefix(fe.Namespace(), "Config.")
	param := fe.Param()

	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", key)
	case "min":
		return fmt.Sprintf("%s needs at least %s entries", key, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s (got %v)", key, strings.ReplaceAll(param, " ", ", "), fe.Value())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s (got %v)", key, param, fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s (got %v)", key, param, fe.Value())
	case "lt":
		return fmt.Sprintf("%s must be less than %s (got %v)", key, param, fe.Value())
	case "lte":
		return fmt.Sprintf("%s must be at most %s (got %v)", key, param, fe.Value())
	case "delimiter":
		return fmt.Sprintf("%s must be a single character or \"tab\" (got %q)", key, fe.Value())
	default:
		return fmt.Sprintf("%s failed %s validation", key, fe.Tag())
	}
}

func isDelimiter(fl validator.FieldLevel) bool {
	_, err := ParseDelimiter(fl.Field().String())
	return err == nil
}

// ParseDelimiter accepts a single character or the word "tab".
func ParseDelimiter(s string) (rune, error) {
	if strings.EqualFold(s, "tab") || s == `\t` {
		return '\t', nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	if r == '"' || r == '\r' || r == '\n' || r == utf8.RuneError {
		return 0, fmt.Errorf("delimiter %q is not allowed", s)
	}
	return r, nil
}
