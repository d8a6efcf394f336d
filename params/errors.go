package params

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is returned when a numeric parameter is outside its allowed range
	ErrOutOfRange = errors.New("parameter out of range")

	// ErrConflict is returned when compression ratios and quality values are combined
	ErrConflict = errors.New("compression ratios and quality values must not be used together")

	// ErrInvalidValue is returned when a ratio, quality or format value is not acceptable
	ErrInvalidValue = errors.New("invalid parameter value")

	// ErrInvalidDimensions is returned when an image size is not positive
	ErrInvalidDimensions = errors.New("image dimensions must be positive")
)

// ValidationError describes a rejected builder step.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s = %v: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(field string, value any, err error) *ValidationError {
	return &ValidationError{Field: field, Value: value, Err: err}
}

type boundsError struct {
	min, max int
}

func (e boundsError) Error() string {
	return fmt.Sprintf("must be between %d and %d", e.min, e.max)
}

func (e boundsError) Unwrap() error {
	return ErrOutOfRange
}

func rangeError(lo, hi int) error {
	return boundsError{min: lo, max: hi}
}
