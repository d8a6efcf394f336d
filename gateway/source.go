package gateway

import (
	"fmt"
	"io"

	"github.com/cocosip/go-jp2k/codec"
)

// Source describes where encoded data comes from. When several fields are
// set, Data wins over Path, and Path wins over Reader.
type Source struct {
	Data   []byte
	Path   string
	Reader io.Reader
}

// FromBytes creates a Source backed by data
func FromBytes(data []byte) Source {
	return Source{Data: data}
}

// FromFile creates a Source backed by a file path
func FromFile(path string) Source {
	return Source{Path: path}
}

// FromReader creates a Source backed by a stream. The stream is read to the
// end and closed if it implements io.Closer.
func FromReader(r io.Reader) Source {
	return Source{Reader: r}
}

// kind names the selected input for diagnostics.
func (s Source) kind() string {
	switch {
	case s.Data != nil:
		return "bytes"
	case s.Path != "":
		return "file"
	case s.Reader != nil:
		return "stream"
	default:
		return "none"
	}
}

// input resolves the source into an engine input. A stream is fully
// drained into memory and always closed.
func (s Source) input() (in codec.Input, err error) {
	switch {
	case s.Data != nil:
		return codec.Input{Data: s.Data}, nil
	case s.Path != "":
		return codec.Input{Path: s.Path}, nil
	case s.Reader != nil:
		if c, ok := s.Reader.(io.Closer); ok {
			defer func() {
				if cerr := c.Close(); cerr != nil && err == nil {
					err = fmt.Errorf("%w: close: %w", ErrReadSource, cerr)
				}
			}()
		}
		data, rerr := io.ReadAll(s.Reader)
		if rerr != nil {
			return codec.Input{}, fmt.Errorf("%w: %w", ErrReadSource, rerr)
		}
		if data == nil {
			data = []byte{}
		}
		return codec.Input{Data: data}, nil
	default:
		return codec.Input{}, ErrNoSource
	}
}
