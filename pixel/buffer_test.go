package pixel

import (
	"errors"
	"image"
	"image/color"
	"slices"
	"testing"
)

func TestNewBuffer(t *testing.T) {
	src := []uint32{1, 2, 3, 4, 5, 6}
	buf, err := NewBuffer(3, 2, true, src)
	if err != nil {
		t.Fatalf("NewBuffer failed: %v", err)
	}
	src[0] = 99
	if buf.Pixels[0] != 1 {
		t.Error("NewBuffer did not copy the pixel slice")
	}
	if buf.At(2, 1) != 6 {
		t.Errorf("At(2, 1) = %d, want 6", buf.At(2, 1))
	}
	if err := buf.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

func TestNewBufferErrors(t *testing.T) {
	tests := []struct {
		name          string
		width, height int
		pixels        []uint32
		want          error
	}{
		{"zero width", 0, 2, nil, ErrInvalidDimensions},
		{"negative height", 2, -1, nil, ErrInvalidDimensions},
		{"too few pixels", 2, 2, []uint32{1, 2, 3}, ErrSizeMismatch},
		{"too many pixels", 1, 1, []uint32{1, 2}, ErrSizeMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewBuffer(tt.width, tt.height, false, tt.pixels)
			if !errors.Is(err, tt.want) {
				t.Errorf("NewBuffer error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestPackUnpack(t *testing.T) {
	p := Pack(0x80, 0x11, 0x22, 0x33)
	if p != 0x80112233 {
		t.Fatalf("Pack = %#08x, want 0x80112233", p)
	}
	a, r, g, b := Unpack(p)
	if a != 0x80 || r != 0x11 || g != 0x22 || b != 0x33 {
		t.Errorf("Unpack = %x %x %x %x", a, r, g, b)
	}
}

func TestFromImageNRGBA(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 2, 2))
	img.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 40})
	img.SetNRGBA(1, 0, color.NRGBA{R: 255, A: 255})
	img.SetNRGBA(0, 1, color.NRGBA{G: 255, A: 255})
	img.SetNRGBA(1, 1, color.NRGBA{B: 255, A: 0})

	buf := FromImage(img)
	if buf.Width != 2 || buf.Height != 2 {
		t.Fatalf("size = %dx%d, want 2x2", buf.Width, buf.Height)
	}
	if !buf.HasAlpha {
		t.Error("HasAlpha = false for translucent image")
	}
	want := []uint32{0x280A141E, 0xFFFF0000, 0xFF00FF00, 0x000000FF}
	if !slices.Equal(buf.Pixels, want) {
		t.Errorf("Pixels = %x, want %x", buf.Pixels, want)
	}

	back := buf.Image()
	if got := back.NRGBAAt(0, 0); got != (color.NRGBA{R: 10, G: 20, B: 30, A: 40}) {
		t.Errorf("Image().NRGBAAt(0, 0) = %v", got)
	}
}

func TestFromImageOpaque(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 3, 1))
	gray.SetGray(0, 0, color.Gray{Y: 7})
	gray.SetGray(2, 0, color.Gray{Y: 200})

	buf := FromImage(gray)
	if buf.HasAlpha {
		t.Error("HasAlpha = true for grayscale image")
	}
	if !buf.Grayscale {
		t.Error("Grayscale = false for grayscale image")
	}
	want := []uint32{0xFF070707, 0xFF000000, 0xFFC8C8C8}
	if !slices.Equal(buf.Pixels, want) {
		t.Errorf("Pixels = %x, want %x", buf.Pixels, want)
	}

	rgba := image.NewRGBA(image.Rect(5, 5, 7, 6))
	rgba.SetRGBA(5, 5, color.RGBA{R: 1, G: 2, B: 3, A: 255})
	rgba.SetRGBA(6, 5, color.RGBA{A: 255})
	buf = FromImage(rgba)
	if buf.HasAlpha {
		t.Error("HasAlpha = true for opaque RGBA image")
	}
	if buf.Grayscale {
		t.Error("Grayscale = true for RGBA image")
	}
	if buf.Pixels[0] != 0xFF010203 {
		t.Errorf("Pixels[0] = %#08x, want 0xff010203", buf.Pixels[0])
	}
}

func TestImageForcesOpaqueWithoutAlpha(t *testing.T) {
	buf := &Buffer{Width: 1, Height: 1, Pixels: []uint32{0x00102030}}
	if got := buf.Image().NRGBAAt(0, 0); got.A != 0xFF {
		t.Errorf("alpha = %d, want 255", got.A)
	}
}
