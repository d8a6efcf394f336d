package codec

import "fmt"

// Validate checks that the request is internally consistent.
func (r *EncodeRequest) Validate() error {
	if r.Width <= 0 || r.Height <= 0 {
		return fmt.Errorf("%w: size %dx%d", ErrInvalidRequest, r.Width, r.Height)
	}
	if len(r.Pixels) != r.Width*r.Height {
		return fmt.Errorf("%w: %d pixels for %dx%d", ErrInvalidRequest, len(r.Pixels), r.Width, r.Height)
	}
	if r.Grayscale && r.HasAlpha {
		return fmt.Errorf("%w: grayscale with alpha", ErrInvalidRequest)
	}
	if r.Format != FormatJ2K && r.Format != FormatJP2 {
		return fmt.Errorf("%w: %d", ErrUnsupportedFormat, r.Format)
	}
	if r.NumResolutions < 1 {
		return fmt.Errorf("%w: %d resolutions", ErrInvalidRequest, r.NumResolutions)
	}
	if len(r.CompressionRatios) > 0 && len(r.QualityValues) > 0 {
		return fmt.Errorf("%w: both compression ratios and quality values set", ErrInvalidRequest)
	}
	return nil
}

// NumLayers returns the number of quality layers the request asks for.
func (r *EncodeRequest) NumLayers() int {
	if n := max(len(r.CompressionRatios), len(r.QualityValues)); n > 0 {
		return n
	}
	return 1
}
