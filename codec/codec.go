// Package codec defines the call contract between the marshaling layer and a
// JPEG 2000 compression engine, and a registry of available engines.
package codec

// Exit codes returned by Engine.EncodeToFile
const (
	ExitSuccess = 0
	ExitFailure = 1
)

// Output format ordinals passed in EncodeRequest.Format
const (
	FormatJ2K = 0 // raw codestream
	FormatJP2 = 1 // JP2 file container
)

// Engine is the interface every JPEG 2000 engine implements.
// Decode and ReadHeader return nil on failure; results are flat int slices:
//
//	ReadHeader: [width, height, alphaFlag, numResolutions, numQualityLayers]
//	Decode:     [width, height, alphaFlag, pixel0, ..., pixel(w*h-1)]
type Engine interface {
	// EncodeToBuffer encodes the request and returns the container bytes
	EncodeToBuffer(req EncodeRequest) ([]byte, error)

	// EncodeToFile encodes the request into path and returns an exit code
	EncodeToFile(path string, req EncodeRequest) int

	// Decode decodes in, skipping reduce resolution levels and keeping at most layers quality layers (0 = all)
	Decode(in Input, reduce, layers int) []int32

	// ReadHeader reads the image header without decoding pixel data
	ReadHeader(in Input) []int32
}

// EncodeRequest contains the marshaled pixels and validated encode parameters
type EncodeRequest struct {
	Pixels         []int32 // Row-major packed ARGB
	HasAlpha       bool    // Encode an alpha component
	Grayscale      bool    // Encode a single luminance component taken from red
	Width          int     // Image width
	Height         int     // Image height
	Format         int     // FormatJ2K or FormatJP2
	NumResolutions int     // DWT decompositions + 1

	// At most one of these is non-empty; both empty means a single lossless layer.
	CompressionRatios []float64
	QualityValues     []float64
}

// Input is the data an engine reads from: in-memory bytes or a file path.
// Data takes precedence when both are set.
type Input struct {
	Data []byte
	Path string
}
