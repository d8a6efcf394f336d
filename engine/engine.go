// Package engine implements codec.Engine on top of the pure-Go
// github.com/mrjoshuak/go-jpeg2000 library.
package engine

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	jpeg2000 "github.com/mrjoshuak/go-jpeg2000"

	"github.com/cocosip/go-jp2k/codec"
	"github.com/cocosip/go-jp2k/header"
	"github.com/cocosip/go-jp2k/pixel"
)

// Name is the registry name of this engine
const Name = "go-jpeg2000"

// PSNR range mapped onto the library's 1-100 quality scale
const (
	minPSNR = 20.0
	maxPSNR = 70.0
)

var _ codec.Engine = (*Engine)(nil)

// Engine is a codec.Engine backed by go-jpeg2000. It holds no state and is
// safe for concurrent use.
type Engine struct{}

// New creates an Engine
func New() *Engine {
	return &Engine{}
}

func init() {
	codec.Register(Name, New())
}

// EncodeToBuffer implements codec.Engine
func (e *Engine) EncodeToBuffer(req codec.EncodeRequest) ([]byte, error) {
	var buf bytes.Buffer
	if err := e.encode(&buf, req); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// EncodeToFile implements codec.Engine. The file is written to a temporary
// name in the same directory and renamed into place.
func (e *Engine) EncodeToFile(path string, req codec.EncodeRequest) int {
	if err := e.encodeFile(path, req); err != nil {
		return codec.ExitFailure
	}
	return codec.ExitSuccess
}

func (e *Engine) encodeFile(path string, req codec.EncodeRequest) error {
	tmp := filepath.Join(filepath.Dir(path), "."+uuid.NewString()+".tmp")
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return err
	}
	if err := e.encode(f, req); err != nil {
		f.Close()
		os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

func (e *Engine) encode(w io.Writer, req codec.EncodeRequest) error {
	if err := req.Validate(); err != nil {
		return err
	}
	opts, err := Options(req)
	if err != nil {
		return err
	}
	if err := jpeg2000.Encode(w, requestImage(req), opts); err != nil {
		return fmt.Errorf("jpeg2000 encode: %w", err)
	}
	return nil
}

// Options maps an encode request onto go-jpeg2000 options.
//
// Ratios are ascending, so the first ratio is the lowest (best quality)
// lossy ratio and becomes the rate target. Qualities give one layer per PSNR
// value with the first value as the quality target. A trailing lossless
// sentinel selects the reversible transform, in which case go-jpeg2000
// ignores CompressionRatio and Quality. No ratios and no qualities means a
// single lossless layer.
func Options(req codec.EncodeRequest) (*jpeg2000.Options, error) {
	opts := jpeg2000.DefaultOptions()
	switch req.Format {
	case codec.FormatJ2K:
		opts.Format = jpeg2000.FormatJ2K
	case codec.FormatJP2:
		opts.Format = jpeg2000.FormatJP2
	default:
		return nil, fmt.Errorf("%w: %d", codec.ErrUnsupportedFormat, req.Format)
	}
	opts.NumResolutions = req.NumResolutions
	opts.NumLayers = req.NumLayers()

	switch {
	case len(req.CompressionRatios) > 0:
		ratios := req.CompressionRatios
		opts.Lossless = ratios[len(ratios)-1] == 1
		opts.Quality = 0
		opts.CompressionRatio = ratios[0]
	case len(req.QualityValues) > 0:
		qualities := req.QualityValues
		opts.Lossless = qualities[len(qualities)-1] == 0
		opts.Quality = psnrToQuality(qualities[0])
	default:
		opts.Lossless = true
	}
	return opts, nil
}

// psnrToQuality maps a PSNR target in dB onto the 1-100 quality scale.
func psnrToQuality(psnr float64) int {
	if psnr <= 0 {
		return 100
	}
	q := (psnr - minPSNR) / (maxPSNR - minPSNR) * 99
	return int(math.Round(math.Max(0, math.Min(99, q)))) + 1
}

// requestImage builds a gray image (one component), an RGB image (opaque) or
// an RGBA image with straight alpha from the packed ARGB pixels. Gray samples
// are taken from the red channel.
func requestImage(req codec.EncodeRequest) image.Image {
	rect := image.Rect(0, 0, req.Width, req.Height)
	if req.Grayscale && !req.HasAlpha {
		m := image.NewGray(rect)
		for i, p := range req.Pixels {
			_, r, _, _ := pixel.Unpack(uint32(p))
			m.Pix[i] = r
		}
		return m
	}
	var pix []uint8
	var img image.Image
	if req.HasAlpha {
		m := image.NewNRGBA(rect)
		pix, img = m.Pix, m
	} else {
		m := image.NewRGBA(rect)
		pix, img = m.Pix, m
	}
	for i, p := range req.Pixels {
		a, r, g, b := pixel.Unpack(uint32(p))
		if !req.HasAlpha {
			a = 0xFF
		}
		px := pix[i*4 : i*4+4 : i*4+4]
		px[0], px[1], px[2], px[3] = r, g, b, a
	}
	return img
}

// Decode implements codec.Engine
func (e *Engine) Decode(in codec.Input, reduce, layers int) []int32 {
	data, err := readInput(in)
	if err != nil {
		return nil
	}
	meta, err := jpeg2000.DecodeMetadata(bytes.NewReader(data))
	if err != nil {
		return nil
	}
	reduce = min(max(reduce, 0), max(meta.NumResolutions-1, 0))

	img, err := jpeg2000.DecodeConfig(bytes.NewReader(data), &jpeg2000.Config{
		ReduceResolution: reduce,
		QualityLayers:    max(layers, 0),
	})
	if err != nil {
		return nil
	}
	return decodeResult(img, hasAlpha(meta))
}

// decodeResult flattens img into [width, height, alpha, pixels...].
func decodeResult(img image.Image, hasAlpha bool) []int32 {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	buf := &pixel.Buffer{Width: w, Height: h, HasAlpha: hasAlpha, Pixels: make([]uint32, w*h)}
	px := buf.Pixels

	switch m := img.(type) {
	case *image.RGBA:
		// The decoder stores straight alpha in RGBA images.
		for y := 0; y < h; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w*4]
			for x := 0; x < w; x++ {
				p := row[x*4 : x*4+4]
				a := p[3]
				if !hasAlpha {
					a = 0xFF
				}
				px[y*w+x] = pixel.Pack(a, p[0], p[1], p[2])
			}
		}
	case *image.Gray:
		for y := 0; y < h; y++ {
			row := m.Pix[y*m.Stride : y*m.Stride+w]
			for x, v := range row {
				px[y*w+x] = pixel.Pack(0xFF, v, v, v)
			}
		}
	case *image.RGBA64:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := m.RGBA64At(b.Min.X+x, b.Min.Y+y)
				a := uint8(c.A >> 8)
				if !hasAlpha {
					a = 0xFF
				}
				px[y*w+x] = pixel.Pack(a, uint8(c.R>>8), uint8(c.G>>8), uint8(c.B>>8))
			}
		}
	case *image.Gray16:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				v := uint8(m.Gray16At(b.Min.X+x, b.Min.Y+y).Y >> 8)
				px[y*w+x] = pixel.Pack(0xFF, v, v, v)
			}
		}
	default:
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				r, g, bl, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
				if !hasAlpha {
					a = 0xFFFF
				}
				px[y*w+x] = pixel.Pack(uint8(a>>8), uint8(r>>8), uint8(g>>8), uint8(bl>>8))
			}
		}
	}
	return pixel.ToDecodeResult(buf)
}

// ReadHeader implements codec.Engine. Only the main header is parsed; tile data is not decoded.
func (e *Engine) ReadHeader(in codec.Input) []int32 {
	data, err := readInput(in)
	if err != nil {
		return nil
	}
	meta, err := jpeg2000.DecodeMetadata(bytes.NewReader(data))
	if err != nil || meta.Width <= 0 || meta.Height <= 0 {
		return nil
	}
	return header.ToHeaderResult(header.Header{
		Width:            meta.Width,
		Height:           meta.Height,
		HasAlpha:         hasAlpha(meta),
		NumResolutions:   meta.NumResolutions,
		NumQualityLayers: meta.NumQualityLayers,
	})
}

// hasAlpha reports whether the component count implies an alpha channel
// (gray+alpha or RGB+alpha).
func hasAlpha(meta *jpeg2000.Metadata) bool {
	return meta.NumComponents == 2 || meta.NumComponents >= 4
}

var errNoInput = errors.New("no input data")

func readInput(in codec.Input) ([]byte, error) {
	if in.Data != nil {
		return in.Data, nil
	}
	if in.Path != "" {
		return os.ReadFile(in.Path)
	}
	return nil, errNoInput
}
