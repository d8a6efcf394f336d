package dicom

import (
	"errors"
	"fmt"

	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	"github.com/cocosip/go-jp2k/pixel"
)

var (
	// ErrUnsupportedFrame is returned for frame layouts the bridge cannot marshal
	ErrUnsupportedFrame = errors.New("unsupported frame layout")

	// ErrFrameSize is returned when frame data does not match the frame info
	ErrFrameSize = errors.New("frame data size mismatch")
)

// checkFrameInfo accepts 8-bit unsigned frames with 1 or 3 samples per pixel.
func checkFrameInfo(info *imagetypes.FrameInfo) error {
	if info == nil {
		return fmt.Errorf("%w: missing frame info", ErrUnsupportedFrame)
	}
	if info.Width == 0 || info.Height == 0 {
		return fmt.Errorf("%w: %dx%d", ErrUnsupportedFrame, info.Width, info.Height)
	}
	if info.BitsAllocated != 8 {
		return fmt.Errorf("%w: %d bits allocated", ErrUnsupportedFrame, info.BitsAllocated)
	}
	if info.PixelRepresentation != 0 {
		return fmt.Errorf("%w: signed pixels", ErrUnsupportedFrame)
	}
	if info.SamplesPerPixel != 1 && info.SamplesPerPixel != 3 {
		return fmt.Errorf("%w: %d samples per pixel", ErrUnsupportedFrame, info.SamplesPerPixel)
	}
	return nil
}

// frameToBuffer converts a MONOCHROME or RGB frame into an opaque pixel buffer.
func frameToBuffer(data []byte, info *imagetypes.FrameInfo) (*pixel.Buffer, error) {
	width, height := int(info.Width), int(info.Height)
	n := width * height
	spp := int(info.SamplesPerPixel)
	if len(data) < n*spp {
		return nil, fmt.Errorf("%w: got %d bytes, want %d", ErrFrameSize, len(data), n*spp)
	}

	pixels := make([]uint32, n)
	switch {
	case spp == 1:
		for i := range pixels {
			v := data[i]
			pixels[i] = pixel.Pack(0xFF, v, v, v)
		}
	case info.PlanarConfiguration == 0:
		for i := range pixels {
			pixels[i] = pixel.Pack(0xFF, data[i*3], data[i*3+1], data[i*3+2])
		}
	default:
		for i := range pixels {
			pixels[i] = pixel.Pack(0xFF, data[i], data[n+i], data[2*n+i])
		}
	}
	return &pixel.Buffer{Width: width, Height: height, Grayscale: spp == 1, Pixels: pixels}, nil
}

// bufferToFrame converts a decoded buffer back into frame bytes with the
// layout described by info.
func bufferToFrame(buf *pixel.Buffer, info *imagetypes.FrameInfo) ([]byte, error) {
	if buf.Width != int(info.Width) || buf.Height != int(info.Height) {
		return nil, fmt.Errorf("%w: decoded %dx%d, frame info %dx%d",
			ErrFrameSize, buf.Width, buf.Height, info.Width, info.Height)
	}
	n := len(buf.Pixels)
	spp := int(info.SamplesPerPixel)
	out := make([]byte, n*spp)

	for i, p := range buf.Pixels {
		_, r, g, b := pixel.Unpack(p)
		switch {
		case spp == 1:
			out[i] = r
		case info.PlanarConfiguration == 0:
			out[i*3], out[i*3+1], out[i*3+2] = r, g, b
		default:
			out[i], out[n+i], out[2*n+i] = r, g, b
		}
	}
	return out, nil
}
