package gateway

import "errors"

var (
	// ErrNoEngine is returned when a Gateway was created without an engine
	ErrNoEngine = errors.New("no engine configured")

	// ErrNoSource is returned when a Source has no bytes, path or reader
	ErrNoSource = errors.New("no input source")

	// ErrReadSource is returned when a stream source cannot be read
	ErrReadSource = errors.New("failed to read input source")

	// ErrDecodeFailed is returned when the engine produces no usable decode result
	ErrDecodeFailed = errors.New("decode failed")

	// ErrHeaderFailed is returned when the engine produces no usable header
	ErrHeaderFailed = errors.New("header read failed")

	// ErrEncodeFailed is returned when the engine cannot encode the image
	ErrEncodeFailed = errors.New("encode failed")

	// ErrDimensionMismatch is returned when the pixel buffer and configuration sizes differ
	ErrDimensionMismatch = errors.New("pixel buffer size does not match encode configuration")
)
