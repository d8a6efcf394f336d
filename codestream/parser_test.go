package codestream

import (
	"bytes"
	"encoding/binary"
	"errors"
	"testing"
)

// buildCodestream writes a minimal main header: SOC, SIZ, optional COM, COD, QCD, EOC.
func buildCodestream(width, height uint32, components uint16, levels uint8, layers uint16, withCOD bool) []byte {
	var buf bytes.Buffer

	// SOC marker
	_ = binary.Write(&buf, binary.BigEndian, MarkerSOC)

	// SIZ segment
	_ = binary.Write(&buf, binary.BigEndian, MarkerSIZ)
	_ = binary.Write(&buf, binary.BigEndian, uint16(38+3*int(components))) // Length
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))                     // Rsiz
	_ = binary.Write(&buf, binary.BigEndian, width)                         // Xsiz
	_ = binary.Write(&buf, binary.BigEndian, height)                        // Ysiz
	_ = binary.Write(&buf, binary.BigEndian, uint32(0))                     // XOsiz
	_ = binary.Write(&buf, binary.BigEndian, uint32(0))                     // YOsiz
	_ = binary.Write(&buf, binary.BigEndian, width)                         // XTsiz
	_ = binary.Write(&buf, binary.BigEndian, height)                        // YTsiz
	_ = binary.Write(&buf, binary.BigEndian, uint32(0))                     // XTOsiz
	_ = binary.Write(&buf, binary.BigEndian, uint32(0))                     // YTOsiz
	_ = binary.Write(&buf, binary.BigEndian, components)                    // Csiz
	for i := uint16(0); i < components; i++ {
		_ = binary.Write(&buf, binary.BigEndian, uint8(7)) // Ssiz (8-bit unsigned)
		_ = binary.Write(&buf, binary.BigEndian, uint8(1)) // XRsiz
		_ = binary.Write(&buf, binary.BigEndian, uint8(1)) // YRsiz
	}

	// COM segment (skipped by the parser)
	_ = binary.Write(&buf, binary.BigEndian, MarkerCOM)
	_ = binary.Write(&buf, binary.BigEndian, uint16(6))
	_ = binary.Write(&buf, binary.BigEndian, uint16(1))
	buf.WriteString("hi")

	if withCOD {
		_ = binary.Write(&buf, binary.BigEndian, MarkerCOD)
		_ = binary.Write(&buf, binary.BigEndian, uint16(12)) // Length
		_ = binary.Write(&buf, binary.BigEndian, uint8(0))   // Scod
		_ = binary.Write(&buf, binary.BigEndian, uint8(0))   // Progression order (LRCP)
		_ = binary.Write(&buf, binary.BigEndian, layers)     // Number of layers
		_ = binary.Write(&buf, binary.BigEndian, uint8(1))   // MCT
		_ = binary.Write(&buf, binary.BigEndian, levels)     // Decomposition levels
		_ = binary.Write(&buf, binary.BigEndian, uint8(4))   // Code-block width
		_ = binary.Write(&buf, binary.BigEndian, uint8(4))   // Code-block height
		_ = binary.Write(&buf, binary.BigEndian, uint8(0))   // Code-block style
		_ = binary.Write(&buf, binary.BigEndian, uint8(1))   // Transformation (5-3 reversible)
	}

	// QCD segment
	_ = binary.Write(&buf, binary.BigEndian, MarkerQCD)
	_ = binary.Write(&buf, binary.BigEndian, uint16(5))
	_ = binary.Write(&buf, binary.BigEndian, uint8(0))
	_ = binary.Write(&buf, binary.BigEndian, uint16(0))

	// EOC marker
	_ = binary.Write(&buf, binary.BigEndian, MarkerEOC)
	return buf.Bytes()
}

func TestParseMainHeader(t *testing.T) {
	data := buildCodestream(256, 128, 3, 5, 4, true)

	hdr, err := NewParser(data).ParseMainHeader()
	if err != nil {
		t.Fatalf("ParseMainHeader failed: %v", err)
	}

	if hdr.SIZ.Width() != 256 || hdr.SIZ.Height() != 128 {
		t.Errorf("Expected 256x128, got %dx%d", hdr.SIZ.Width(), hdr.SIZ.Height())
	}
	if hdr.SIZ.Csiz != 3 {
		t.Errorf("Expected 3 components, got %d", hdr.SIZ.Csiz)
	}
	if hdr.SIZ.Components[0].BitDepth() != 8 || hdr.SIZ.Components[0].IsSigned() {
		t.Errorf("Expected 8-bit unsigned, got %d-bit signed=%v", hdr.SIZ.Components[0].BitDepth(), hdr.SIZ.Components[0].IsSigned())
	}
	if hdr.COD.NumResolutions() != 6 {
		t.Errorf("NumResolutions() = %d, want 6", hdr.COD.NumResolutions())
	}
	if hdr.COD.NumberOfLayers != 4 {
		t.Errorf("NumberOfLayers = %d, want 4", hdr.COD.NumberOfLayers)
	}
	if !hdr.COD.IsReversible() {
		t.Error("Expected reversible transform")
	}

	wantMarkers := []uint16{MarkerSIZ, MarkerCOM, MarkerCOD, MarkerQCD}
	if len(hdr.Markers) != len(wantMarkers) {
		t.Fatalf("Markers = %v, want %v", hdr.Markers, wantMarkers)
	}
	for i, m := range wantMarkers {
		if hdr.Markers[i] != m {
			t.Errorf("Markers[%d] = %s, want %s", i, MarkerName(hdr.Markers[i]), MarkerName(m))
		}
	}
}

func TestParseMainHeaderErrors(t *testing.T) {
	valid := buildCodestream(16, 16, 1, 2, 1, true)

	tests := []struct {
		name string
		data []byte
		want error
	}{
		{"not a codestream", []byte{0x00, 0x01, 0x02, 0x03}, ErrNotJPEG2000},
		{"missing COD", buildCodestream(16, 16, 1, 2, 1, false), ErrMissingSegment},
		{"SOC only", []byte{0xFF, 0x4F}, ErrMissingSegment},
		{"garbage after SOC", []byte{0xFF, 0x4F, 0x12, 0x34}, ErrInvalidHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewParser(tt.data).ParseMainHeader()
			if !errors.Is(err, tt.want) {
				t.Errorf("ParseMainHeader() error = %v, want %v", err, tt.want)
			}
		})
	}

	// Truncating anywhere inside SIZ must fail without panicking.
	for n := 3; n < 40; n++ {
		if _, err := NewParser(valid[:n]).ParseMainHeader(); err == nil {
			t.Errorf("ParseMainHeader(truncated to %d) succeeded", n)
		}
	}
}

func TestMarkerName(t *testing.T) {
	if MarkerName(MarkerSIZ) != "SIZ" {
		t.Errorf("MarkerName(SIZ) = %s", MarkerName(MarkerSIZ))
	}
	if MarkerName(0xFF01) != "UNKNOWN" {
		t.Errorf("MarkerName(0xFF01) = %s", MarkerName(0xFF01))
	}
}
