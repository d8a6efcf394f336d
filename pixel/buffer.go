// Package pixel converts between packed ARGB pixel buffers and the flat
// integer layout exchanged with the JPEG 2000 engine.
package pixel

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"slices"
)

var (
	// ErrInvalidDimensions is returned when width or height is not positive
	ErrInvalidDimensions = errors.New("pixel buffer dimensions must be positive")

	// ErrSizeMismatch is returned when the pixel count does not equal width*height
	ErrSizeMismatch = errors.New("pixel count does not match dimensions")
)

// Buffer is a row-major image of packed 0xAARRGGBB values.
type Buffer struct {
	Width    int
	Height   int
	HasAlpha bool

	// Premultiplied is metadata for the consumer. The marshaling code never
	// rescales pixel values according to it.
	Premultiplied bool

	// Grayscale marks buffers whose channels carry one luminance sample
	// (r == g == b). Encoders then write a single component.
	Grayscale bool

	Pixels []uint32
}

// NewBuffer creates a buffer holding a copy of pixels.
func NewBuffer(width, height int, hasAlpha bool, pixels []uint32) (*Buffer, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, width, height)
	}
	if len(pixels) != width*height {
		return nil, fmt.Errorf("%w: got %d pixels for %dx%d", ErrSizeMismatch, len(pixels), width, height)
	}
	return &Buffer{
		Width:    width,
		Height:   height,
		HasAlpha: hasAlpha,
		Pixels:   slices.Clone(pixels),
	}, nil
}

// At returns the packed pixel at (x, y).
func (b *Buffer) At(x, y int) uint32 {
	return b.Pixels[y*b.Width+x]
}

// Validate checks the buffer invariants.
func (b *Buffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidDimensions)
	}
	if b.Width <= 0 || b.Height <= 0 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidDimensions, b.Width, b.Height)
	}
	if len(b.Pixels) != b.Width*b.Height {
		return fmt.Errorf("%w: got %d pixels for %dx%d", ErrSizeMismatch, len(b.Pixels), b.Width, b.Height)
	}
	return nil
}

// Pack builds a 0xAARRGGBB value.
func Pack(a, r, g, b uint8) uint32 {
	return uint32(a)<<24 | uint32(r)<<16 | uint32(g)<<8 | uint32(b)
}

// Unpack splits a 0xAARRGGBB value into its channels.
func Unpack(p uint32) (a, r, g, b uint8) {
	return uint8(p >> 24), uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// FromImage extracts straight (non-premultiplied) ARGB pixels from img.
// HasAlpha is false when the image reports itself as opaque.
func FromImage(img image.Image) *Buffer {
	bounds := img.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	buf := &Buffer{
		Width:  width,
		Height: height,
		Pixels: make([]uint32, width*height),
	}

	hasAlpha := true
	if o, ok := img.(interface{ Opaque() bool }); ok {
		hasAlpha = !o.Opaque()
	}
	buf.HasAlpha = hasAlpha

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width*4]
			for x := 0; x < width; x++ {
				p := row[x*4 : x*4+4]
				buf.Pixels[y*width+x] = Pack(p[3], p[0], p[1], p[2])
			}
		}
	case *image.Gray:
		buf.Grayscale = true
		for y := 0; y < height; y++ {
			row := src.Pix[y*src.Stride : y*src.Stride+width]
			for x, v := range row {
				buf.Pixels[y*width+x] = Pack(0xFF, v, v, v)
			}
		}
	default:
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				buf.Pixels[y*width+x] = Pack(c.A, c.R, c.G, c.B)
			}
		}
	}
	return buf
}

// Image returns the buffer as an NRGBA image. Buffers without alpha are
// written fully opaque.
func (b *Buffer) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, b.Width, b.Height))
	for i, p := range b.Pixels {
		a, r, g, bl := Unpack(p)
		if !b.HasAlpha {
			a = 0xFF
		}
		px := img.Pix[i*4 : i*4+4 : i*4+4]
		px[0], px[1], px[2], px[3] = r, g, bl, a
	}
	return img
}
