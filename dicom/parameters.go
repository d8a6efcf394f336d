package dicom

import (
	"errors"
	"slices"

	"github.com/cocosip/go-dicom/pkg/imaging/codec"
)

// Ensure Parameters implements codec.Parameters
var _ codec.Parameters = (*Parameters)(nil)

var errConflict = errors.New("compression ratios and quality values are mutually exclusive")

// DefaultNumResolutions matches the encoder default of 5 decomposition levels
const DefaultNumResolutions = 6

// Parameters contains JPEG 2000 encode parameters for DICOM frames.
// At most one of CompressionRatios and QualityValues may be set; neither
// means a single lossless layer.
type Parameters struct {
	// NumResolutions is the number of resolution levels (decompositions + 1).
	// Clamped to what the frame size allows at encode time. Default: 6.
	NumResolutions int

	// CompressionRatios lists one target ratio per quality layer, 1 = lossless.
	CompressionRatios []float64

	// QualityValues lists one PSNR target (dB) per quality layer, 0 = lossless.
	QualityValues []float64

	// internal storage for compatibility with generic parameter interface
	params map[string]interface{}
}

// NewParameters creates Parameters for a single lossless layer
func NewParameters() *Parameters {
	return &Parameters{
		NumResolutions: DefaultNumResolutions,
		params:         make(map[string]interface{}),
	}
}

// NewLossyParameters creates Parameters with a single layer at ratio:1
func NewLossyParameters(ratio float64) *Parameters {
	p := NewParameters()
	p.CompressionRatios = []float64{ratio}
	return p
}

// GetParameter retrieves a parameter by name (implements codec.Parameters)
func (p *Parameters) GetParameter(name string) interface{} {
	switch name {
	case "numResolutions":
		return p.NumResolutions
	case "compressionRatios":
		return slices.Clone(p.CompressionRatios)
	case "qualityValues":
		return slices.Clone(p.QualityValues)
	default:
		return p.params[name]
	}
}

// SetParameter sets a parameter value (implements codec.Parameters)
func (p *Parameters) SetParameter(name string, value interface{}) {
	switch name {
	case "numResolutions":
		if v, ok := value.(int); ok {
			p.NumResolutions = v
		}
	case "compressionRatios":
		if v, ok := value.([]float64); ok {
			p.CompressionRatios = slices.Clone(v)
		}
	case "qualityValues":
		if v, ok := value.([]float64); ok {
			p.QualityValues = slices.Clone(v)
		}
	default:
		if p.params == nil {
			p.params = make(map[string]interface{})
		}
		p.params[name] = value
	}
}

// Validate resets an out-of-range resolution count to the default and
// rejects conflicting layer settings.
func (p *Parameters) Validate() error {
	if p.NumResolutions < 1 {
		p.NumResolutions = DefaultNumResolutions
	}
	if len(p.CompressionRatios) > 0 && len(p.QualityValues) > 0 {
		return errConflict
	}
	return nil
}

// WithNumResolutions sets the resolution count and returns the parameters for chaining
func (p *Parameters) WithNumResolutions(n int) *Parameters {
	p.NumResolutions = n
	return p
}

// WithCompressionRatios sets the per-layer ratios and returns the parameters for chaining
func (p *Parameters) WithCompressionRatios(ratios ...float64) *Parameters {
	p.CompressionRatios = ratios
	return p
}

// WithQualityValues sets the per-layer PSNR targets and returns the parameters for chaining
func (p *Parameters) WithQualityValues(values ...float64) *Parameters {
	p.QualityValues = values
	return p
}

// fromGeneric reads Parameters from any codec.Parameters implementation.
func fromGeneric(parameters codec.Parameters, fallback *Parameters) *Parameters {
	if parameters == nil {
		return fallback
	}
	if p, ok := parameters.(*Parameters); ok {
		return p
	}
	p := NewParameters()
	p.CompressionRatios = slices.Clone(fallback.CompressionRatios)
	p.QualityValues = slices.Clone(fallback.QualityValues)
	if n, ok := parameters.GetParameter("numResolutions").(int); ok && n > 0 {
		p.NumResolutions = n
	}
	if r, ok := parameters.GetParameter("compressionRatios").([]float64); ok && len(r) > 0 {
		p.CompressionRatios = r
		p.QualityValues = nil
	}
	if q, ok := parameters.GetParameter("qualityValues").([]float64); ok && len(q) > 0 {
		p.QualityValues = q
		p.CompressionRatios = nil
	}
	return p
}
