package params

import (
	"fmt"
	"strings"
)

// OutputFormat selects the encoder output container.
// The ordinal values are what the engine receives.
type OutputFormat int

const (
	// Codestream is a raw JPEG 2000 codestream (.j2k).
	Codestream OutputFormat = iota
	// FileFormat is the standard JP2 file format (.jp2).
	FileFormat
)

// String returns the conventional file extension name of the format
func (f OutputFormat) String() string {
	switch f {
	case Codestream:
		return "j2k"
	case FileFormat:
		return "jp2"
	default:
		return fmt.Sprintf("OutputFormat(%d)", int(f))
	}
}

// Valid reports whether f is one of the known formats.
func (f OutputFormat) Valid() bool {
	return f == Codestream || f == FileFormat
}

// ParseOutputFormat maps a user supplied name to an OutputFormat.
func ParseOutputFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "j2k", "j2c", "codestream":
		return Codestream, nil
	case "jp2", "file":
		return FileFormat, nil
	default:
		return 0, invalid("outputFormat", name, ErrInvalidValue)
	}
}
