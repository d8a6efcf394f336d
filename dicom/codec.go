// Package dicom registers JPEG 2000 codecs for DICOM transfer syntaxes
// 1.2.840.10008.1.2.4.90 (lossless only) and 1.2.840.10008.1.2.4.91.
package dicom

import (
	"fmt"

	"github.com/cocosip/go-dicom/pkg/dicom/transfer"
	"github.com/cocosip/go-dicom/pkg/imaging/codec"
	"github.com/cocosip/go-dicom/pkg/imaging/imagetypes"

	engines "github.com/cocosip/go-jp2k/codec"
	"github.com/cocosip/go-jp2k/engine"
	"github.com/cocosip/go-jp2k/gateway"
	"github.com/cocosip/go-jp2k/params"
)

var _ codec.Codec = (*Codec)(nil)

const defaultRatio = 20

// Codec implements codec.Codec on top of a JPEG 2000 engine.
// Encoded frames are raw codestreams, as DICOM encapsulation requires.
type Codec struct {
	transferSyntax *transfer.Syntax
	lossless       bool
	defaultRatio   float64
	gateway        *gateway.Gateway
}

// NewLosslessCodec creates the JPEG 2000 Lossless codec (UID .90)
func NewLosslessCodec() *Codec {
	return NewCodecWithEngine(transfer.JPEG2000Lossless, true, engine.New())
}

// NewLossyCodec creates the JPEG 2000 codec (UID .91) with a default rate of ratio:1
func NewLossyCodec(ratio ...float64) *Codec {
	c := NewCodecWithEngine(transfer.JPEG2000, false, engine.New())
	if len(ratio) > 0 {
		c.WithDefaultRatio(ratio[0])
	}
	return c
}

// NewCodecWithEngine creates a codec for ts backed by e. A lossless codec
// ignores layer settings and always writes one reversible layer.
func NewCodecWithEngine(ts *transfer.Syntax, lossless bool, e engines.Engine) *Codec {
	return &Codec{
		transferSyntax: ts,
		lossless:       lossless,
		defaultRatio:   defaultRatio,
		gateway:        gateway.New(e),
	}
}

// WithDefaultRatio sets the rate used when no parameters are given.
// Ratios below 1 are ignored.
func (c *Codec) WithDefaultRatio(ratio float64) *Codec {
	if ratio >= 1 {
		c.defaultRatio = ratio
	}
	return c
}

// Name returns the codec name
func (c *Codec) Name() string {
	if c.lossless {
		return "JPEG 2000 Lossless"
	}
	return fmt.Sprintf("JPEG 2000 (Ratio %g)", c.defaultRatio)
}

// TransferSyntax returns the transfer syntax this codec handles
func (c *Codec) TransferSyntax() *transfer.Syntax {
	return c.transferSyntax
}

// GetDefaultParameters returns the default codec parameters
func (c *Codec) GetDefaultParameters() codec.Parameters {
	if c.lossless {
		return NewParameters()
	}
	return NewLossyParameters(c.defaultRatio)
}

// Encode encodes every frame of oldPixelData into newPixelData
func (c *Codec) Encode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}
	frameInfo := oldPixelData.GetFrameInfo()
	if err := checkFrameInfo(frameInfo); err != nil {
		return err
	}

	p := fromGeneric(parameters, c.GetDefaultParameters().(*Parameters))
	if err := p.Validate(); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	cfg, err := c.configuration(p, int(frameInfo.Width), int(frameInfo.Height))
	if err != nil {
		return err
	}

	for frameIndex := 0; frameIndex < oldPixelData.FrameCount(); frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		buf, err := frameToBuffer(frameData, frameInfo)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frameIndex, err)
		}
		encoded, err := c.gateway.Encode(buf, cfg)
		if err != nil {
			return fmt.Errorf("JPEG 2000 encode failed for frame %d: %w", frameIndex, err)
		}
		if err := newPixelData.AddFrame(encoded); err != nil {
			return fmt.Errorf("failed to add encoded frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// configuration builds a codestream configuration for one frame size.
func (c *Codec) configuration(p *Parameters, width, height int) (params.EncodeConfiguration, error) {
	b, err := params.NewBuilder(width, height)
	if err != nil {
		return params.EncodeConfiguration{}, err
	}
	if b, err = b.WithOutputFormat(params.Codestream); err != nil {
		return params.EncodeConfiguration{}, err
	}
	if b, err = b.WithResolutions(min(p.NumResolutions, params.MaxResolutions(width, height))); err != nil {
		return params.EncodeConfiguration{}, err
	}
	if c.lossless {
		return b.Build(), nil
	}
	if b, err = b.WithCompressionRatios(p.CompressionRatios); err != nil {
		return params.EncodeConfiguration{}, err
	}
	if b, err = b.WithQualityValues(p.QualityValues); err != nil {
		return params.EncodeConfiguration{}, err
	}
	return b.Build(), nil
}

// Decode decodes every frame of oldPixelData into newPixelData
func (c *Codec) Decode(oldPixelData imagetypes.PixelData, newPixelData imagetypes.PixelData, parameters codec.Parameters) error {
	if oldPixelData == nil || newPixelData == nil {
		return fmt.Errorf("source and destination PixelData cannot be nil")
	}
	frameInfo := newPixelData.GetFrameInfo()
	if frameInfo == nil {
		frameInfo = oldPixelData.GetFrameInfo()
	}
	if err := checkFrameInfo(frameInfo); err != nil {
		return err
	}

	opts := params.NewDecodeOptions().WithoutPremultiplication()
	for frameIndex := 0; frameIndex < oldPixelData.FrameCount(); frameIndex++ {
		frameData, err := oldPixelData.GetFrame(frameIndex)
		if err != nil {
			return fmt.Errorf("failed to get frame %d: %w", frameIndex, err)
		}
		if len(frameData) == 0 {
			return fmt.Errorf("frame %d pixel data is empty", frameIndex)
		}

		buf, err := c.gateway.Decode(gateway.FromBytes(frameData), opts)
		if err != nil {
			return fmt.Errorf("JPEG 2000 decode failed for frame %d: %w", frameIndex, err)
		}
		decoded, err := bufferToFrame(buf, frameInfo)
		if err != nil {
			return fmt.Errorf("frame %d: %w", frameIndex, err)
		}
		if err := newPixelData.AddFrame(decoded); err != nil {
			return fmt.Errorf("failed to add decoded frame %d: %w", frameIndex, err)
		}
	}
	return nil
}

// RegisterCodecs registers both codecs with the global registry
func RegisterCodecs() {
	registry := codec.GetGlobalRegistry()
	registry.RegisterCodec(transfer.JPEG2000Lossless, NewLosslessCodec())
	registry.RegisterCodec(transfer.JPEG2000, NewLossyCodec())
}

func init() {
	RegisterCodecs()
}
