package engine

import (
	"bytes"
	"image"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"testing"

	jpeg2000 "github.com/mrjoshuak/go-jpeg2000"

	"github.com/cocosip/go-jp2k/codec"
	"github.com/cocosip/go-jp2k/format"
	"github.com/cocosip/go-jp2k/pixel"
)

func argb(a, r, g, b uint8) int32 {
	return int32(pixel.Pack(a, r, g, b))
}

func gradientRequest(width, height int, alpha bool) codec.EncodeRequest {
	pixels := make([]int32, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			a := uint32(0xFF)
			if alpha {
				a = uint32((x * 255) / max(width-1, 1))
			}
			pixels[y*width+x] = argb(uint8(a), uint8(x*8), uint8(y*8), uint8(x+y))
		}
	}
	return codec.EncodeRequest{
		Pixels:         pixels,
		HasAlpha:       alpha,
		Width:          width,
		Height:         height,
		Format:         codec.FormatJP2,
		NumResolutions: 3,
	}
}

func TestOptions(t *testing.T) {
	tests := []struct {
		name         string
		ratios       []float64
		qualities    []float64
		format       int
		wantFormat   jpeg2000.Format
		wantLossless bool
		wantLayers   int
		wantRatio    float64
	}{
		{"default lossless", nil, nil, codec.FormatJP2, jpeg2000.FormatJP2, true, 1, 0},
		{"codestream", nil, nil, codec.FormatJ2K, jpeg2000.FormatJ2K, true, 1, 0},
		{"lossy ratios", []float64{20, 40}, nil, codec.FormatJP2, jpeg2000.FormatJP2, false, 2, 20},
		{"ratios with lossless layer", []float64{5, 10, 1}, nil, codec.FormatJP2, jpeg2000.FormatJP2, true, 3, 5},
		{"infinite last ratio", []float64{10, math.Inf(1)}, nil, codec.FormatJP2, jpeg2000.FormatJP2, false, 2, 10},
		{"lossy qualities", nil, []float64{50, 30}, codec.FormatJP2, jpeg2000.FormatJP2, false, 2, 0},
		{"qualities with lossless layer", nil, []float64{50, 0}, codec.FormatJP2, jpeg2000.FormatJP2, true, 2, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := gradientRequest(8, 8, false)
			req.Format = tt.format
			req.CompressionRatios = tt.ratios
			req.QualityValues = tt.qualities

			opts, err := Options(req)
			if err != nil {
				t.Fatalf("Options failed: %v", err)
			}
			if opts.Format != tt.wantFormat {
				t.Errorf("Format = %v, want %v", opts.Format, tt.wantFormat)
			}
			if opts.Lossless != tt.wantLossless {
				t.Errorf("Lossless = %v, want %v", opts.Lossless, tt.wantLossless)
			}
			if opts.NumLayers != tt.wantLayers {
				t.Errorf("NumLayers = %d, want %d", opts.NumLayers, tt.wantLayers)
			}
			if tt.wantRatio != 0 && opts.CompressionRatio != tt.wantRatio {
				t.Errorf("CompressionRatio = %v, want %v", opts.CompressionRatio, tt.wantRatio)
			}
			if opts.NumResolutions != 3 {
				t.Errorf("NumResolutions = %d, want 3", opts.NumResolutions)
			}
		})
	}

	req := gradientRequest(8, 8, false)
	req.Format = 7
	if _, err := Options(req); err == nil {
		t.Error("Options should reject an unknown format")
	}
}

func TestPSNRToQuality(t *testing.T) {
	tests := []struct {
		psnr float64
		want int
	}{
		{0, 100},
		{10, 1},
		{20, 1},
		{70, 100},
		{90, 100},
		{45, 51},
	}
	for _, tt := range tests {
		if got := psnrToQuality(tt.psnr); got != tt.want {
			t.Errorf("psnrToQuality(%v) = %d, want %d", tt.psnr, got, tt.want)
		}
	}
}

func TestRequestImage(t *testing.T) {
	req := gradientRequest(4, 2, false)
	req.Pixels[0] = argb(0x10, 1, 2, 3)
	img, ok := requestImage(req).(*image.RGBA)
	if !ok {
		t.Fatalf("opaque request should build *image.RGBA, got %T", requestImage(req))
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{1, 2, 3, 0xFF}) {
		t.Errorf("pixel(0,0) = %v, want opaque {1 2 3}", got)
	}

	req = gradientRequest(4, 2, true)
	req.Pixels[0] = argb(0x10, 1, 2, 3)
	nimg, ok := requestImage(req).(*image.NRGBA)
	if !ok {
		t.Fatalf("alpha request should build *image.NRGBA, got %T", requestImage(req))
	}
	if got := nimg.NRGBAAt(0, 0); got != (color.NRGBA{1, 2, 3, 0x10}) {
		t.Errorf("pixel(0,0) = %v, want {1 2 3 16}", got)
	}

	req = gradientRequest(4, 2, false)
	req.Grayscale = true
	req.Pixels[0] = argb(0xFF, 9, 9, 9)
	gimg, ok := requestImage(req).(*image.Gray)
	if !ok {
		t.Fatalf("grayscale request should build *image.Gray, got %T", requestImage(req))
	}
	if got := gimg.GrayAt(0, 0); got.Y != 9 {
		t.Errorf("pixel(0,0) = %v, want 9", got)
	}
}

func TestHasAlpha(t *testing.T) {
	for n, want := range map[int]bool{1: false, 2: true, 3: false, 4: true, 5: true} {
		if got := hasAlpha(&jpeg2000.Metadata{NumComponents: n}); got != want {
			t.Errorf("hasAlpha(%d components) = %v, want %v", n, got, want)
		}
	}
}

func TestGrayscaleEncodesOneComponent(t *testing.T) {
	e := New()
	req := gradientRequest(16, 8, false)
	for i, p := range req.Pixels {
		_, r, _, _ := pixel.Unpack(uint32(p))
		req.Pixels[i] = argb(0xFF, r, r, r)
	}
	req.Grayscale = true

	data, err := e.EncodeToBuffer(req)
	if err != nil {
		t.Fatalf("EncodeToBuffer failed: %v", err)
	}
	meta, err := jpeg2000.DecodeMetadata(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("DecodeMetadata failed: %v", err)
	}
	if meta.NumComponents != 1 {
		t.Errorf("NumComponents = %d, want 1", meta.NumComponents)
	}

	raw := e.Decode(codec.Input{Data: data}, 0, 0)
	if len(raw) != 3+16*8 {
		t.Fatalf("Decode returned %d values, want %d", len(raw), 3+16*8)
	}
	for i, p := range req.Pixels {
		if raw[3+i] != p {
			t.Fatalf("pixel %d = %#x, want %#x", i, raw[3+i], p)
		}
	}
}

func TestDecodeResult(t *testing.T) {
	gray := image.NewGray(image.Rect(0, 0, 2, 1))
	gray.Pix[0], gray.Pix[1] = 0x20, 0x40
	got := decodeResult(gray, false)
	want := []int32{2, 1, 0, argb(0xFF, 0x20, 0x20, 0x20), argb(0xFF, 0x40, 0x40, 0x40)}
	if len(got) != len(want) {
		t.Fatalf("decodeResult(gray) len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("decodeResult(gray)[%d] = %#x, want %#x", i, got[i], want[i])
		}
	}

	rgba := image.NewRGBA(image.Rect(0, 0, 1, 1))
	copy(rgba.Pix, []uint8{10, 20, 30, 40})
	got = decodeResult(rgba, true)
	if got[2] != 1 || got[3] != argb(40, 10, 20, 30) {
		t.Errorf("decodeResult(rgba, alpha) = %#x", got)
	}
	got = decodeResult(rgba, false)
	if got[2] != 0 || got[3] != argb(0xFF, 10, 20, 30) {
		t.Errorf("decodeResult(rgba, opaque) = %#x", got)
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	tests := []struct {
		name   string
		format int
		alpha  bool
		kind   format.Kind
	}{
		{"jp2 opaque", codec.FormatJP2, false, format.KindJP2RFC3745},
		{"j2k opaque", codec.FormatJ2K, false, format.KindJ2K},
		{"jp2 alpha", codec.FormatJP2, true, format.KindJP2RFC3745},
	}

	e := New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := gradientRequest(32, 24, tt.alpha)
			req.Format = tt.format

			data, err := e.EncodeToBuffer(req)
			if err != nil {
				t.Fatalf("EncodeToBuffer failed: %v", err)
			}
			if kind := format.Detect(data); kind != tt.kind {
				t.Errorf("Detect = %v, want %v", kind, tt.kind)
			}

			hdr := e.ReadHeader(codec.Input{Data: data})
			if len(hdr) != 5 {
				t.Fatalf("ReadHeader = %v, want 5 values", hdr)
			}
			if hdr[0] != 32 || hdr[1] != 24 {
				t.Errorf("header size = %dx%d, want 32x24", hdr[0], hdr[1])
			}
			if (hdr[2] == 1) != tt.alpha {
				t.Errorf("header alpha = %d, want %v", hdr[2], tt.alpha)
			}
			if hdr[3] != 3 {
				t.Errorf("header resolutions = %d, want 3", hdr[3])
			}

			raw := e.Decode(codec.Input{Data: data}, 0, 0)
			if len(raw) != 3+32*24 {
				t.Fatalf("Decode returned %d values, want %d", len(raw), 3+32*24)
			}
			if raw[0] != 32 || raw[1] != 24 {
				t.Errorf("decoded size = %dx%d, want 32x24", raw[0], raw[1])
			}
			if (raw[2] == 1) != tt.alpha {
				t.Errorf("decoded alpha = %d, want %v", raw[2], tt.alpha)
			}
		})
	}
}

func TestDecodeReduceIsClamped(t *testing.T) {
	e := New()
	data, err := e.EncodeToBuffer(gradientRequest(32, 32, false))
	if err != nil {
		t.Fatalf("EncodeToBuffer failed: %v", err)
	}
	// 3 resolutions: reduce 99 is clamped to 2, quartering each dimension.
	raw := e.Decode(codec.Input{Data: data}, 99, 0)
	if raw == nil {
		t.Fatal("Decode with large reduce returned nil")
	}
	if raw[0] != 8 || raw[1] != 8 {
		t.Errorf("reduced size = %dx%d, want 8x8", raw[0], raw[1])
	}
}

func TestEncodeToFile(t *testing.T) {
	e := New()
	dir := t.TempDir()
	path := filepath.Join(dir, "out.jp2")

	if code := e.EncodeToFile(path, gradientRequest(16, 16, false)); code != codec.ExitSuccess {
		t.Fatalf("EncodeToFile = %d, want %d", code, codec.ExitSuccess)
	}
	hdr := e.ReadHeader(codec.Input{Path: path})
	if len(hdr) != 5 || hdr[0] != 16 || hdr[1] != 16 {
		t.Errorf("ReadHeader(file) = %v", hdr)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the output file", len(entries))
	}

	bad := gradientRequest(16, 16, false)
	bad.Pixels = bad.Pixels[:10]
	if code := e.EncodeToFile(filepath.Join(dir, "bad.jp2"), bad); code != codec.ExitFailure {
		t.Errorf("EncodeToFile(invalid) = %d, want %d", code, codec.ExitFailure)
	}
	if _, err := os.Stat(filepath.Join(dir, "bad.jp2")); !os.IsNotExist(err) {
		t.Error("failed encode should not leave an output file")
	}
}

func TestInvalidInput(t *testing.T) {
	e := New()
	if raw := e.Decode(codec.Input{}, 0, 0); raw != nil {
		t.Errorf("Decode(empty input) = %v, want nil", raw)
	}
	if raw := e.Decode(codec.Input{Data: []byte("junk")}, 0, 0); raw != nil {
		t.Errorf("Decode(junk) = %v, want nil", raw)
	}
	if hdr := e.ReadHeader(codec.Input{Path: filepath.Join(t.TempDir(), "missing.jp2")}); hdr != nil {
		t.Errorf("ReadHeader(missing file) = %v, want nil", hdr)
	}
}

func TestRegistered(t *testing.T) {
	got, err := codec.Get(Name)
	if err != nil {
		t.Fatalf("Get(%q) failed: %v", Name, err)
	}
	if _, ok := got.(*Engine); !ok {
		t.Errorf("registered engine is %T, want *Engine", got)
	}
}
