package params

// DecodeOptions controls how much of an image the engine reconstructs.
// The zero value is not the default; use NewDecodeOptions.
type DecodeOptions struct {
	skipResolutions int
	layersToDecode  int
	premultiplied   bool
}

// NewDecodeOptions returns the defaults: full resolution, all layers,
// premultiplied output flag set.
func NewDecodeOptions() DecodeOptions {
	return DecodeOptions{premultiplied: true}
}

// SkipResolutions returns the number of highest resolution levels discarded
func (o DecodeOptions) SkipResolutions() int { return o.skipResolutions }

// LayersToDecode returns the maximum number of quality layers decoded, 0 meaning all
func (o DecodeOptions) LayersToDecode() int { return o.layersToDecode }

// Premultiplied reports whether decoded buffers are flagged as premultiplied
func (o DecodeOptions) Premultiplied() bool { return o.premultiplied }

// WithSkipResolutions discards the n highest resolution levels; the decoded size is divided by 2^n.
// The engine always decodes at least the lowest resolution, however large n is.
func (o DecodeOptions) WithSkipResolutions(n int) (DecodeOptions, error) {
	if n < 0 {
		return o, invalid("skipResolutions", n, ErrOutOfRange)
	}
	o.skipResolutions = n
	return o, nil
}

// WithLayersToDecode limits decoding to the first n quality layers; 0 decodes all of them.
func (o DecodeOptions) WithLayersToDecode(n int) (DecodeOptions, error) {
	if n < 0 {
		return o, invalid("layersToDecode", n, ErrOutOfRange)
	}
	o.layersToDecode = n
	return o, nil
}

// WithoutPremultiplication clears the premultiplied flag on decoded buffers.
// Pixel values are never rewritten; only the flag changes.
func (o DecodeOptions) WithoutPremultiplication() DecodeOptions {
	o.premultiplied = false
	return o
}
