package codestream

// MainHeader holds the main-header segments needed to describe an image
type MainHeader struct {
	SIZ *SIZSegment // Image and tile size
	COD *CODSegment // Coding style default

	// Markers lists every main-header marker in the order it was seen
	Markers []uint16
}

// SIZSegment - Image and tile size marker segment
// ISO/IEC 15444-1 A.5.1
type SIZSegment struct {
	Rsiz   uint16 // Capabilities (0 = baseline)
	Xsiz   uint32 // Width of reference grid
	Ysiz   uint32 // Height of reference grid
	XOsiz  uint32 // Horizontal offset
	YOsiz  uint32 // Vertical offset
	XTsiz  uint32 // Width of one reference tile
	YTsiz  uint32 // Height of one reference tile
	XTOsiz uint32 // Horizontal offset of first tile
	YTOsiz uint32 // Vertical offset of first tile
	Csiz   uint16 // Number of components

	Components []ComponentSize
}

// Width returns the image area width on the reference grid
func (s *SIZSegment) Width() int {
	return int(s.Xsiz) - int(s.XOsiz)
}

// Height returns the image area height on the reference grid
func (s *SIZSegment) Height() int {
	return int(s.Ysiz) - int(s.YOsiz)
}

// ComponentSize holds per-component sizing information
type ComponentSize struct {
	Ssiz  uint8 // Precision and sign (bit 7 = sign, bits 0-6 = depth-1)
	XRsiz uint8 // Horizontal separation
	YRsiz uint8 // Vertical separation
}

// BitDepth returns the bit depth of the component
func (c *ComponentSize) BitDepth() int {
	return int(c.Ssiz&0x7F) + 1
}

// IsSigned returns true if the component is signed
func (c *ComponentSize) IsSigned() bool {
	return (c.Ssiz & 0x80) != 0
}

// CODSegment - Coding style default marker segment
// ISO/IEC 15444-1 A.6.1
type CODSegment struct {
	Scod                        uint8  // Coding style for all components
	ProgressionOrder            uint8  // 0=LRCP, 1=RLCP, 2=RPCL, 3=PCRL, 4=CPRL
	NumberOfLayers              uint16 // Number of quality layers
	MultipleComponentTransform  uint8  // 0=none, 1=RCT or ICT
	NumberOfDecompositionLevels uint8
	CodeBlockWidth              uint8 // Code-block width exponent (2^(n+2))
	CodeBlockHeight             uint8 // Code-block height exponent (2^(n+2))
	CodeBlockStyle              uint8
	Transformation              uint8 // 0=9-7 irreversible, 1=5-3 reversible
}

// NumResolutions returns the number of resolution levels (decompositions + 1)
func (c *CODSegment) NumResolutions() int {
	return int(c.NumberOfDecompositionLevels) + 1
}

// IsReversible reports whether the 5-3 reversible wavelet is used
func (c *CODSegment) IsReversible() bool {
	return c.Transformation == 1
}
