// Package header interprets the engine's header-only result.
package header

import "fmt"

// resultLen is the number of values the engine returns for a header read.
const resultLen = 5

// Header describes a JPEG 2000 image without decoding its pixels.
type Header struct {
	Width            int
	Height           int
	HasAlpha         bool
	NumResolutions   int
	NumQualityLayers int
}

// FromHeaderResult maps [width, height, alphaFlag, numResolutions, numQualityLayers].
// ok is false when raw holds fewer than five values.
func FromHeaderResult(raw []int32) (h Header, ok bool) {
	if len(raw) < resultLen {
		return Header{}, false
	}
	return Header{
		Width:            int(raw[0]),
		Height:           int(raw[1]),
		HasAlpha:         raw[2] != 0,
		NumResolutions:   int(raw[3]),
		NumQualityLayers: int(raw[4]),
	}, true
}

// ToHeaderResult is the inverse of FromHeaderResult, used by engines.
func ToHeaderResult(h Header) []int32 {
	alpha := int32(0)
	if h.HasAlpha {
		alpha = 1
	}
	return []int32{int32(h.Width), int32(h.Height), alpha, int32(h.NumResolutions), int32(h.NumQualityLayers)}
}

func (h Header) String() string {
	return fmt.Sprintf("%dx%d alpha=%t resolutions=%d layers=%d",
		h.Width, h.Height, h.HasAlpha, h.NumResolutions, h.NumQualityLayers)
}
