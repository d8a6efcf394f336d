// Package gateway ties the parameter, pixel and header layers to a JPEG 2000
// engine: it selects the input source, calls the engine and interprets the
// raw results.
package gateway

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/cocosip/go-jp2k/codec"
	"github.com/cocosip/go-jp2k/header"
	"github.com/cocosip/go-jp2k/params"
	"github.com/cocosip/go-jp2k/pixel"
)

// Gateway runs encode, decode and header operations against one engine.
// It holds no mutable state; concurrent use is safe when the engine is.
type Gateway struct {
	engine codec.Engine
	logger *slog.Logger
}

// Option configures a Gateway
type Option func(*Gateway)

// WithLogger sets the logger used for diagnostics
func WithLogger(logger *slog.Logger) Option {
	return func(g *Gateway) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// New creates a Gateway over engine. A nil engine yields a Gateway whose
// operations fail with ErrNoEngine.
func New(engine codec.Engine, opts ...Option) *Gateway {
	g := &Gateway{
		engine: engine,
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewNamed creates a Gateway over a registered engine
func NewNamed(name string, opts ...Option) (*Gateway, error) {
	engine, err := codec.Get(name)
	if err != nil {
		return nil, err
	}
	return New(engine, opts...), nil
}

func (g *Gateway) ready() error {
	if g == nil || g.engine == nil {
		return ErrNoEngine
	}
	return nil
}

// Decode decodes src into a pixel buffer
func (g *Gateway) Decode(src Source, opts params.DecodeOptions) (*pixel.Buffer, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	in, err := src.input()
	if err != nil {
		g.logger.Warn("decode: input unavailable", "source", src.kind(), "error", err)
		return nil, err
	}

	raw := g.engine.Decode(in, opts.SkipResolutions(), opts.LayersToDecode())
	buf := pixel.FromDecodeResult(raw, opts.Premultiplied())
	if buf == nil {
		g.logger.Warn("decode: engine returned no image", "source", src.kind(), "values", len(raw))
		return nil, ErrDecodeFailed
	}

	g.logger.Debug("decode: done",
		"source", src.kind(),
		"width", buf.Width,
		"height", buf.Height,
		"alpha", buf.HasAlpha,
		"reduce", opts.SkipResolutions(),
		"layers", opts.LayersToDecode(),
		"elapsed", time.Since(start))
	return buf, nil
}

// ReadHeader reads the image header of src without decoding pixels
func (g *Gateway) ReadHeader(src Source) (header.Header, error) {
	if err := g.ready(); err != nil {
		return header.Header{}, err
	}
	start := time.Now()
	in, err := src.input()
	if err != nil {
		g.logger.Warn("header: input unavailable", "source", src.kind(), "error", err)
		return header.Header{}, err
	}

	raw := g.engine.ReadHeader(in)
	h, ok := header.FromHeaderResult(raw)
	if !ok {
		g.logger.Warn("header: engine returned no header", "source", src.kind(), "values", len(raw))
		return header.Header{}, ErrHeaderFailed
	}

	g.logger.Debug("header: done", "source", src.kind(), "header", h.String(), "elapsed", time.Since(start))
	return h, nil
}

// Encode encodes buf with cfg and returns the encoded bytes
func (g *Gateway) Encode(buf *pixel.Buffer, cfg params.EncodeConfiguration) ([]byte, error) {
	if err := g.ready(); err != nil {
		return nil, err
	}
	start := time.Now()
	req, err := request(buf, cfg)
	if err != nil {
		g.logger.Warn("encode: invalid input", "error", err)
		return nil, err
	}

	data, err := g.engine.EncodeToBuffer(req)
	if err != nil {
		g.logger.Warn("encode: engine failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrEncodeFailed, err)
	}
	if len(data) == 0 {
		g.logger.Warn("encode: engine returned no data")
		return nil, ErrEncodeFailed
	}

	g.logger.Debug("encode: done",
		"format", cfg.OutputFormat().String(),
		"width", req.Width,
		"height", req.Height,
		"resolutions", req.NumResolutions,
		"layers", req.NumLayers(),
		"bytes", len(data),
		"elapsed", time.Since(start))
	return data, nil
}

// EncodeFile encodes buf with cfg into the file at path
func (g *Gateway) EncodeFile(buf *pixel.Buffer, cfg params.EncodeConfiguration, path string) error {
	if err := g.ready(); err != nil {
		return err
	}
	start := time.Now()
	req, err := request(buf, cfg)
	if err != nil {
		g.logger.Warn("encode: invalid input", "path", path, "error", err)
		return err
	}

	if code := g.engine.EncodeToFile(path, req); code != codec.ExitSuccess {
		g.logger.Warn("encode: engine failed", "path", path, "exit", code)
		return fmt.Errorf("%w: exit code %d", ErrEncodeFailed, code)
	}

	g.logger.Debug("encode: done",
		"path", path,
		"format", cfg.OutputFormat().String(),
		"width", req.Width,
		"height", req.Height,
		"elapsed", time.Since(start))
	return nil
}

// EncodeTo encodes buf with cfg and writes the result to w
func (g *Gateway) EncodeTo(w io.Writer, buf *pixel.Buffer, cfg params.EncodeConfiguration) (int, error) {
	data, err := g.Encode(buf, cfg)
	if err != nil {
		return 0, err
	}
	n, err := w.Write(data)
	if err != nil {
		return n, fmt.Errorf("%w: write: %w", ErrEncodeFailed, err)
	}
	return n, nil
}

func request(buf *pixel.Buffer, cfg params.EncodeConfiguration) (codec.EncodeRequest, error) {
	if err := buf.Validate(); err != nil {
		return codec.EncodeRequest{}, err
	}
	if buf.Width != cfg.Width() || buf.Height != cfg.Height() {
		return codec.EncodeRequest{}, fmt.Errorf("%w: buffer %dx%d, configuration %dx%d",
			ErrDimensionMismatch, buf.Width, buf.Height, cfg.Width(), cfg.Height())
	}
	return codec.EncodeRequest{
		Pixels:            pixel.ToEngineBuffer(buf),
		HasAlpha:          buf.HasAlpha,
		Grayscale:         buf.Grayscale && !buf.HasAlpha,
		Width:             buf.Width,
		Height:            buf.Height,
		Format:            int(cfg.OutputFormat()),
		NumResolutions:    cfg.NumResolutions(),
		CompressionRatios: cfg.CompressionRatios(),
		QualityValues:     cfg.QualityValues(),
	}, nil
}
