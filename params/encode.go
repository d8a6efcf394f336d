// Package params validates and canonicalizes JPEG 2000 encode and decode parameters.
//
// Encode parameters are accumulated on a Builder bound to one image size. Every
// builder step validates its input immediately and returns either the updated
// builder or a *ValidationError; Build produces an immutable EncodeConfiguration.
//
//	b, err := params.NewBuilder(640, 480)
//	if err != nil { ... }
//	if b, err = b.WithResolutions(5); err != nil { ... }
//	if b, err = b.WithQualityValues([]float64{30, 40, 0}); err != nil { ... }
//	cfg := b.Build()
package params

import (
	"math"
	"math/bits"
	"slices"
)

const (
	// MinResolutions is the smallest accepted number of resolutions.
	MinResolutions = 1

	// MaxResolutionsGlobal caps the resolution count regardless of image size.
	MaxResolutionsGlobal = 32

	// DefaultNumResolutions is used when the image is large enough for it.
	DefaultNumResolutions = 6
)

// MaxResolutions returns floor(log2(min(width, height))) + 1, capped at MaxResolutionsGlobal.
// It returns 0 for non-positive dimensions.
func MaxResolutions(width, height int) int {
	m := min(width, height)
	if m <= 0 {
		return 0
	}
	return min(bits.Len(uint(m)), MaxResolutionsGlobal)
}

// EncodeConfiguration is an immutable set of validated encode parameters for one image size.
type EncodeConfiguration struct {
	width          int
	height         int
	maxResolutions int
	outputFormat   OutputFormat
	numResolutions int
	ratios         []float64
	qualities      []float64
}

// Width returns the width of the image the configuration is bound to
func (c EncodeConfiguration) Width() int { return c.width }

// Height returns the height of the image the configuration is bound to
func (c EncodeConfiguration) Height() int { return c.height }

// MaxResolutions returns the resolution ceiling derived from the image size
func (c EncodeConfiguration) MaxResolutions() int { return c.maxResolutions }

// OutputFormat returns the selected container format
func (c EncodeConfiguration) OutputFormat() OutputFormat { return c.outputFormat }

// NumResolutions returns the number of resolutions (DWT decompositions + 1)
func (c EncodeConfiguration) NumResolutions() int { return c.numResolutions }

// CompressionRatios returns a copy of the normalized compression ratios.
func (c EncodeConfiguration) CompressionRatios() []float64 { return slices.Clone(c.ratios) }

// QualityValues returns a copy of the normalized PSNR quality values.
func (c EncodeConfiguration) QualityValues() []float64 { return slices.Clone(c.qualities) }

// NumLayers returns the number of quality layers the configuration produces.
// With neither ratios nor qualities set a single lossless layer is written.
func (c EncodeConfiguration) NumLayers() int {
	if n := max(len(c.ratios), len(c.qualities)); n > 0 {
		return n
	}
	return 1
}

// IsLossless reports whether the final (highest fidelity) layer is lossless.
func (c EncodeConfiguration) IsLossless() bool {
	switch {
	case len(c.ratios) > 0:
		return c.ratios[len(c.ratios)-1] == LosslessRatio
	case len(c.qualities) > 0:
		return c.qualities[len(c.qualities)-1] == LosslessQuality
	default:
		return true
	}
}

// Builder accumulates encode parameters. It is a value type: a failed step
// leaves the builder the caller already holds unchanged.
type Builder struct {
	cfg EncodeConfiguration
}

// NewBuilder creates a builder for an image of the given size with default values:
// JP2 output, min(6, MaxResolutions) resolutions and a single lossless layer.
func NewBuilder(width, height int) (Builder, error) {
	if width <= 0 || height <= 0 {
		return Builder{}, invalid("size", [2]int{width, height}, ErrInvalidDimensions)
	}
	maxRes := MaxResolutions(width, height)
	return Builder{cfg: EncodeConfiguration{
		width:          width,
		height:         height,
		maxResolutions: maxRes,
		outputFormat:   FileFormat,
		numResolutions: min(DefaultNumResolutions, maxRes),
	}}, nil
}

// WithOutputFormat selects the output container.
func (b Builder) WithOutputFormat(f OutputFormat) (Builder, error) {
	if !f.Valid() {
		return b, invalid("outputFormat", int(f), ErrInvalidValue)
	}
	b.cfg.outputFormat = f
	return b, nil
}

// WithResolutions sets the number of resolutions. The value must lie in
// [MinResolutions, MaxResolutions(width, height)].
func (b Builder) WithResolutions(n int) (Builder, error) {
	if n < MinResolutions || n > b.cfg.maxResolutions {
		return b, &ValidationError{
			Field: "numResolutions",
			Value: n,
			Err:   rangeError(MinResolutions, b.cfg.maxResolutions),
		}
	}
	b.cfg.numResolutions = n
	return b, nil
}

// WithCompressionRatios sets per-layer compression ratios (20 means 20:1, 1 means lossless).
// An empty slice clears the ratios. Values are deduplicated and sorted ascending
// with the lossless ratio last. +Inf is accepted as the lowest-rate layer.
func (b Builder) WithCompressionRatios(values []float64) (Builder, error) {
	if len(values) == 0 {
		b.cfg.ratios = nil
		return b, nil
	}
	for _, v := range values {
		if math.IsNaN(v) || v < LosslessRatio {
			return b, invalid("compressionRatios", v, ErrInvalidValue)
		}
	}
	if len(b.cfg.qualities) > 0 {
		return b, invalid("compressionRatios", values, ErrConflict)
	}
	b.cfg.ratios = normalizeLayers(values, true, LosslessRatio)
	return b, nil
}

// WithQualityValues sets per-layer PSNR targets in dB (0 means lossless).
// An empty slice clears the values. Values are deduplicated and sorted descending
// with the lossless value last.
func (b Builder) WithQualityValues(values []float64) (Builder, error) {
	if len(values) == 0 {
		b.cfg.qualities = nil
		return b, nil
	}
	for _, v := range values {
		if !finite(v) || v < LosslessQuality {
			return b, invalid("qualityValues", v, ErrInvalidValue)
		}
	}
	if len(b.cfg.ratios) > 0 {
		return b, invalid("qualityValues", values, ErrConflict)
	}
	b.cfg.qualities = normalizeLayers(values, false, LosslessQuality)
	return b, nil
}

// Build returns the accumulated configuration.
func (b Builder) Build() EncodeConfiguration {
	cfg := b.cfg
	cfg.ratios = slices.Clone(b.cfg.ratios)
	cfg.qualities = slices.Clone(b.cfg.qualities)
	return cfg
}
