package pixel

// minDecodeResult is the length of the [width, height, alphaFlag] prefix.
const minDecodeResult = 3

// ToEngineBuffer flattens the buffer into the engine's row-major int layout.
// Bit patterns are preserved; colour conversion is the caller's job.
func ToEngineBuffer(b *Buffer) []int32 {
	out := make([]int32, len(b.Pixels))
	for i, p := range b.Pixels {
		out[i] = int32(p)
	}
	return out
}

// FromDecodeResult interprets [width, height, alphaFlag, pixels...] returned by the engine.
// It returns nil when raw is absent, too short, or describes a non-positive size.
// premultiplied only sets the Premultiplied flag on the result.
func FromDecodeResult(raw []int32, premultiplied bool) *Buffer {
	if len(raw) < minDecodeResult {
		return nil
	}
	width, height := int(raw[0]), int(raw[1])
	if width <= 0 || height <= 0 {
		return nil
	}
	count := width * height
	if count/width != height || len(raw)-minDecodeResult < count {
		return nil
	}

	pixels := make([]uint32, count)
	for i, v := range raw[minDecodeResult : minDecodeResult+count] {
		pixels[i] = uint32(v)
	}
	return &Buffer{
		Width:         width,
		Height:        height,
		HasAlpha:      raw[2] != 0,
		Premultiplied: premultiplied,
		Pixels:        pixels,
	}
}

// ToDecodeResult builds the engine's decode layout for b. Engines and test
// doubles use it to produce results that FromDecodeResult accepts.
func ToDecodeResult(b *Buffer) []int32 {
	out := make([]int32, minDecodeResult, minDecodeResult+len(b.Pixels))
	out[0] = int32(b.Width)
	out[1] = int32(b.Height)
	if b.HasAlpha {
		out[2] = 1
	}
	return append(out, ToEngineBuffer(b)...)
}
