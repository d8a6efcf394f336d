package codestream

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/cocosip/go-jp2k/format"
)

// JP2 box types
const (
	BoxSignature  uint32 = 0x6A502020 // "jP  "
	BoxFileType   uint32 = 0x66747970 // "ftyp"
	BoxHeader     uint32 = 0x6A703268 // "jp2h" (superbox)
	BoxImageHdr   uint32 = 0x69686472 // "ihdr"
	BoxColorSpec  uint32 = 0x636F6C72 // "colr"
	BoxChannelDef uint32 = 0x63646566 // "cdef"
	BoxCodestream uint32 = 0x6A703263 // "jp2c"
)

// Box is one JP2 box: its type and payload (header excluded)
type Box struct {
	Type    uint32
	Offset  int // offset of the box header within the file
	Payload []byte
}

// ReadBoxes splits data into a sequence of top-level boxes.
func ReadBoxes(data []byte) ([]Box, error) {
	var boxes []Box
	offset := 0
	for offset < len(data) {
		if offset+8 > len(data) {
			return nil, fmt.Errorf("%w: truncated box header at offset %d", ErrInvalidHeader, offset)
		}
		length := uint64(binary.BigEndian.Uint32(data[offset:]))
		boxType := binary.BigEndian.Uint32(data[offset+4:])
		headerLen := uint64(8)

		switch length {
		case 0:
			// box extends to end of file
			length = uint64(len(data) - offset)
		case 1:
			if offset+16 > len(data) {
				return nil, fmt.Errorf("%w: truncated extended box length at offset %d", ErrInvalidHeader, offset)
			}
			length = binary.BigEndian.Uint64(data[offset+8:])
			headerLen = 16
		}
		if length < headerLen || length > uint64(len(data)-offset) {
			return nil, fmt.Errorf("%w: box %s length %d out of bounds", ErrInvalidHeader, boxName(boxType), length)
		}

		boxes = append(boxes, Box{
			Type:    boxType,
			Offset:  offset,
			Payload: data[offset+int(headerLen) : offset+int(length)],
		})
		offset += int(length)
	}
	return boxes, nil
}

// Name returns the four-character box type without trailing padding.
func (b Box) Name() string {
	var t [4]byte
	binary.BigEndian.PutUint32(t[:], b.Type)
	return strings.TrimRight(string(t[:]), " ")
}

// FileBoxes returns the top-level boxes of a JP2 file. A raw codestream has
// no boxes and yields an empty list.
func FileBoxes(data []byte) ([]Box, error) {
	switch format.Detect(data) {
	case format.KindJ2K:
		return nil, nil
	case format.KindJP2RFC3745:
		return ReadBoxes(data)
	case format.KindJP2:
		return ReadBoxes(data[4:])
	default:
		return nil, ErrNotJPEG2000
	}
}

// FindCodestream returns the contiguous codestream carried by data.
// Raw codestreams are returned unchanged; JP2 files yield the jp2c payload.
func FindCodestream(data []byte) ([]byte, error) {
	if format.Detect(data) == format.KindJ2K {
		return data, nil
	}
	boxes, err := FileBoxes(data)
	if err != nil {
		return nil, err
	}
	for _, box := range boxes {
		if box.Type == BoxCodestream {
			return box.Payload, nil
		}
	}
	return nil, fmt.Errorf("%w: no jp2c box", ErrMissingSegment)
}

func boxName(t uint32) string {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], t)
	return fmt.Sprintf("%q", b[:])
}
