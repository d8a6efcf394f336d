package codestream

// Info summarizes a JPEG 2000 image from its main header.
type Info struct {
	Width          int
	Height         int
	Components     int
	BitDepth       int // of the first component
	NumResolutions int
	NumLayers      int
	Reversible     bool
}

// HasAlpha reports whether the component count implies an alpha channel
// (gray+alpha or RGB+alpha).
func (i *Info) HasAlpha() bool {
	return i.Components == 2 || i.Components >= 4
}

// ReadMainHeader locates the codestream in data and parses its main header.
func ReadMainHeader(data []byte) (*MainHeader, error) {
	cs, err := FindCodestream(data)
	if err != nil {
		return nil, err
	}
	return NewParser(cs).ParseMainHeader()
}

// ReadInfo parses the main header of a JP2 file or raw codestream.
func ReadInfo(data []byte) (*Info, error) {
	hdr, err := ReadMainHeader(data)
	if err != nil {
		return nil, err
	}
	return &Info{
		Width:          hdr.SIZ.Width(),
		Height:         hdr.SIZ.Height(),
		Components:     int(hdr.SIZ.Csiz),
		BitDepth:       hdr.SIZ.Components[0].BitDepth(),
		NumResolutions: hdr.COD.NumResolutions(),
		NumLayers:      int(hdr.COD.NumberOfLayers),
		Reversible:     hdr.COD.IsReversible(),
	}, nil
}
