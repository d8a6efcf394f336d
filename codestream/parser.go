// Package codestream reads the main header of JPEG 2000 codestreams and
// locates the codestream inside JP2 files. It never decodes tile data.
package codestream

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
)

var (
	// ErrNotJPEG2000 is returned when the data does not start with SOC or a JP2 signature
	ErrNotJPEG2000 = errors.New("codestream: not JPEG 2000 data")

	// ErrMissingSegment is returned when SIZ or COD is absent from the main header
	ErrMissingSegment = errors.New("codestream: required main header segment missing")

	// ErrInvalidHeader is returned for malformed marker segments
	ErrInvalidHeader = errors.New("codestream: invalid header")
)

// Parser parses the main header of a JPEG 2000 codestream
type Parser struct {
	data   []byte
	offset int
}

// NewParser creates a new codestream parser
func NewParser(data []byte) *Parser {
	return &Parser{
		data:   data,
		offset: 0,
	}
}

// ParseMainHeader reads SOC and the main header up to the first SOT or EOC.
// SIZ and COD are decoded, every other segment is skipped.
func (p *Parser) ParseMainHeader() (*MainHeader, error) {
	marker, err := p.readMarker()
	if err != nil {
		return nil, fmt.Errorf("failed to read SOC: %w", err)
	}
	if marker != MarkerSOC {
		return nil, fmt.Errorf("%w: expected SOC marker (0x%04X), got 0x%04X", ErrNotJPEG2000, MarkerSOC, marker)
	}

	hdr := &MainHeader{}
	for {
		marker, err := p.peekMarker()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		// Main header ends when we hit SOT or EOC
		if marker == MarkerSOT || marker == MarkerEOC {
			break
		}
		if marker>>8 != 0xFF {
			return nil, fmt.Errorf("%w: expected marker at offset %d, got 0x%04X", ErrInvalidHeader, p.offset, marker)
		}

		marker, _ = p.readMarker()
		hdr.Markers = append(hdr.Markers, marker)

		switch marker {
		case MarkerSIZ:
			if hdr.SIZ != nil {
				return nil, fmt.Errorf("%w: duplicate SIZ segment", ErrInvalidHeader)
			}
			siz, err := p.parseSIZ()
			if err != nil {
				return nil, fmt.Errorf("failed to parse SIZ: %w", err)
			}
			hdr.SIZ = siz

		case MarkerCOD:
			if hdr.SIZ == nil {
				return nil, fmt.Errorf("%w: COD encountered before SIZ", ErrInvalidHeader)
			}
			if hdr.COD != nil {
				return nil, fmt.Errorf("%w: duplicate COD segment", ErrInvalidHeader)
			}
			cod, err := p.parseCOD()
			if err != nil {
				return nil, fmt.Errorf("failed to parse COD: %w", err)
			}
			hdr.COD = cod

		default:
			if err := p.skipSegment(); err != nil {
				return nil, fmt.Errorf("failed to skip %s segment: %w", MarkerName(marker), err)
			}
		}
	}

	if hdr.SIZ == nil {
		return nil, fmt.Errorf("%w: SIZ", ErrMissingSegment)
	}
	if hdr.COD == nil {
		return nil, fmt.Errorf("%w: COD", ErrMissingSegment)
	}
	return hdr, nil
}

// parseSIZ parses the SIZ marker segment
func (p *Parser) parseSIZ() (*SIZSegment, error) {
	length, err := p.readUint16()
	if err != nil {
		return nil, err
	}

	siz := &SIZSegment{}

	if siz.Rsiz, err = p.readUint16(); err != nil {
		return nil, err
	}
	for _, field := range []*uint32{
		&siz.Xsiz, &siz.Ysiz, &siz.XOsiz, &siz.YOsiz,
		&siz.XTsiz, &siz.YTsiz, &siz.XTOsiz, &siz.YTOsiz,
	} {
		if *field, err = p.readUint32(); err != nil {
			return nil, err
		}
	}
	if siz.Csiz, err = p.readUint16(); err != nil {
		return nil, err
	}

	expectedLength := 38 + 3*int(siz.Csiz)
	if int(length) != expectedLength {
		return nil, fmt.Errorf("%w: SIZ segment length mismatch: expected %d, got %d", ErrInvalidHeader, expectedLength, length)
	}
	if siz.Csiz == 0 {
		return nil, fmt.Errorf("%w: SIZ declares no components", ErrInvalidHeader)
	}
	if siz.Xsiz <= siz.XOsiz || siz.Ysiz <= siz.YOsiz {
		return nil, fmt.Errorf("%w: empty image area", ErrInvalidHeader)
	}

	siz.Components = make([]ComponentSize, siz.Csiz)
	for i := range siz.Components {
		if siz.Components[i].Ssiz, err = p.readUint8(); err != nil {
			return nil, err
		}
		if siz.Components[i].XRsiz, err = p.readUint8(); err != nil {
			return nil, err
		}
		if siz.Components[i].YRsiz, err = p.readUint8(); err != nil {
			return nil, err
		}
	}

	return siz, nil
}

// parseCOD parses the COD marker segment. Precinct sizes are skipped.
func (p *Parser) parseCOD() (*CODSegment, error) {
	length, err := p.readUint16()
	if err != nil {
		return nil, err
	}
	if length < 12 {
		return nil, fmt.Errorf("%w: COD segment too short: %d", ErrInvalidHeader, length)
	}

	cod := &CODSegment{}
	start := p.offset

	if cod.Scod, err = p.readUint8(); err != nil {
		return nil, err
	}
	if cod.ProgressionOrder, err = p.readUint8(); err != nil {
		return nil, err
	}
	if cod.NumberOfLayers, err = p.readUint16(); err != nil {
		return nil, err
	}
	if cod.MultipleComponentTransform, err = p.readUint8(); err != nil {
		return nil, err
	}
	for _, field := range []*uint8{
		&cod.NumberOfDecompositionLevels, &cod.CodeBlockWidth, &cod.CodeBlockHeight,
		&cod.CodeBlockStyle, &cod.Transformation,
	} {
		if *field, err = p.readUint8(); err != nil {
			return nil, err
		}
	}

	consumed := p.offset - start
	expected := int(length) - 2
	if p.offset+expected-consumed > len(p.data) {
		return nil, io.ErrUnexpectedEOF
	}
	p.offset += expected - consumed

	return cod, nil
}

// Helper methods for reading data

func (p *Parser) readMarker() (uint16, error) {
	return p.readUint16()
}

func (p *Parser) peekMarker() (uint16, error) {
	if p.offset+2 > len(p.data) {
		return 0, io.EOF
	}
	return binary.BigEndian.Uint16(p.data[p.offset : p.offset+2]), nil
}

func (p *Parser) readUint8() (uint8, error) {
	if p.offset+1 > len(p.data) {
		return 0, io.ErrUnexpectedEOF
	}
	val := p.data[p.offset]
	p.offset++
	return val, nil
}

func (p *Parser) readUint16() (uint16, error) {
	if p.offset+2 > len(p.data) {
		return 0, io.ErrUnexpectedEOF
	}
	val := binary.BigEndian.Uint16(p.data[p.offset : p.offset+2])
	p.offset += 2
	return val, nil
}

func (p *Parser) readUint32() (uint32, error) {
	if p.offset+4 > len(p.data) {
		return 0, io.ErrUnexpectedEOF
	}
	val := binary.BigEndian.Uint32(p.data[p.offset : p.offset+4])
	p.offset += 4
	return val, nil
}

func (p *Parser) skipSegment() error {
	length, err := p.readUint16()
	if err != nil {
		return err
	}
	// length includes the 2 bytes for length itself
	skip := int(length) - 2
	if skip < 0 || p.offset+skip > len(p.data) {
		return io.ErrUnexpectedEOF
	}
	p.offset += skip
	return nil
}
