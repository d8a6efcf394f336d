package codec

import (
	"encoding/binary"
	"os"
	"sync"
)

// memoryMagic makes MemoryEngine output look like a raw codestream to format sniffing.
var memoryMagic = []byte{0xFF, 0x4F, 0xFF, 0x51}

const memoryHeaderLen = 4 + 4 + 4 + 1 + 1 + 2

// MemoryEngine is a lossless in-memory Engine for tests. It stores pixels
// verbatim behind a codestream signature and records the last call arguments.
type MemoryEngine struct {
	mu sync.Mutex

	// Fail* make the corresponding primitive report failure.
	FailEncode bool
	FailDecode bool
	FailHeader bool

	LastRequest *EncodeRequest
	LastInput   Input
	LastReduce  int
	LastLayers  int
	Calls       int
}

// NewMemoryEngine creates a MemoryEngine
func NewMemoryEngine() *MemoryEngine {
	return &MemoryEngine{}
}

// EncodeToBuffer implements Engine
func (e *MemoryEngine) EncodeToBuffer(req EncodeRequest) ([]byte, error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Calls++
	e.LastRequest = &req

	if e.FailEncode {
		return nil, ErrInvalidRequest
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	out := make([]byte, memoryHeaderLen+4*len(req.Pixels))
	copy(out, memoryMagic)
	binary.BigEndian.PutUint32(out[4:], uint32(req.Width))
	binary.BigEndian.PutUint32(out[8:], uint32(req.Height))
	if req.HasAlpha {
		out[12] = 1
	}
	out[13] = uint8(req.NumResolutions)
	binary.BigEndian.PutUint16(out[14:], uint16(req.NumLayers()))
	for i, p := range req.Pixels {
		binary.BigEndian.PutUint32(out[memoryHeaderLen+4*i:], uint32(p))
	}
	return out, nil
}

// EncodeToFile implements Engine
func (e *MemoryEngine) EncodeToFile(path string, req EncodeRequest) int {
	data, err := e.EncodeToBuffer(req)
	if err != nil {
		return ExitFailure
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return ExitFailure
	}
	return ExitSuccess
}

// Decode implements Engine. reduce keeps every 2^reduce-th pixel in each direction.
func (e *MemoryEngine) Decode(in Input, reduce, layers int) []int32 {
	e.mu.Lock()
	e.Calls++
	e.LastInput = in
	e.LastReduce = reduce
	e.LastLayers = layers
	fail := e.FailDecode
	e.mu.Unlock()

	if fail {
		return nil
	}
	data, ok := readInput(in)
	if !ok {
		return nil
	}
	width, height, alpha, numRes, _, ok := parseMemoryHeader(data)
	if !ok || len(data) < memoryHeaderLen+4*width*height {
		return nil
	}

	reduce = min(reduce, numRes-1)
	step := 1 << max(reduce, 0)
	outW := (width + step - 1) / step
	outH := (height + step - 1) / step

	out := make([]int32, 0, 3+outW*outH)
	out = append(out, int32(outW), int32(outH), int32(alpha))
	for y := 0; y < height; y += step {
		for x := 0; x < width; x += step {
			off := memoryHeaderLen + 4*(y*width+x)
			out = append(out, int32(binary.BigEndian.Uint32(data[off:])))
		}
	}
	return out
}

// ReadHeader implements Engine
func (e *MemoryEngine) ReadHeader(in Input) []int32 {
	e.mu.Lock()
	e.Calls++
	e.LastInput = in
	fail := e.FailHeader
	e.mu.Unlock()

	if fail {
		return nil
	}
	data, ok := readInput(in)
	if !ok {
		return nil
	}
	width, height, alpha, numRes, layers, ok := parseMemoryHeader(data)
	if !ok {
		return nil
	}
	return []int32{int32(width), int32(height), int32(alpha), int32(numRes), int32(layers)}
}

func readInput(in Input) ([]byte, bool) {
	if in.Data != nil {
		return in.Data, true
	}
	if in.Path == "" {
		return nil, false
	}
	data, err := os.ReadFile(in.Path)
	if err != nil {
		return nil, false
	}
	return data, true
}

func parseMemoryHeader(data []byte) (width, height, alpha, numRes, layers int, ok bool) {
	if len(data) < memoryHeaderLen || string(data[:4]) != string(memoryMagic) {
		return 0, 0, 0, 0, 0, false
	}
	width = int(binary.BigEndian.Uint32(data[4:]))
	height = int(binary.BigEndian.Uint32(data[8:]))
	alpha = int(data[12])
	numRes = int(data[13])
	layers = int(binary.BigEndian.Uint16(data[14:]))
	return width, height, alpha, numRes, layers, width > 0 && height > 0
}
