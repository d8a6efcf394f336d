package codec

import "errors"

var (
	// ErrEngineNotFound is returned when an engine is not found in the registry
	ErrEngineNotFound = errors.New("engine not found")

	// ErrInvalidRequest is returned when an encode request is inconsistent
	ErrInvalidRequest = errors.New("invalid encode request")

	// ErrUnsupportedFormat is returned when the format ordinal is not supported
	ErrUnsupportedFormat = errors.New("unsupported format")
)
