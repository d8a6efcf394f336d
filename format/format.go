// Package format detects JPEG 2000 containers from the leading bytes of a buffer.
package format

import "bytes"

// Kind identifies the container a byte sequence starts with.
type Kind int

const (
	// KindUnknown means none of the JPEG 2000 signatures matched.
	KindUnknown Kind = iota
	// KindJP2RFC3745 is a JP2 file starting with the full signature box (RFC 3745).
	KindJP2RFC3745
	// KindJP2 is a JP2 file recognized by the short signature only.
	KindJP2
	// KindJ2K is a raw codestream (SOC followed by SIZ).
	KindJ2K
)

var (
	rfc3745Magic = []byte{0x00, 0x00, 0x00, 0x0C, 0x6A, 0x50, 0x20, 0x20, 0x0D, 0x0A, 0x87, 0x0A}
	jp2Magic     = []byte{0x0D, 0x0A, 0x87, 0x0A}
	j2kMagic     = []byte{0xFF, 0x4F, 0xFF, 0x51}
)

// String returns the short name of the kind
func (k Kind) String() string {
	switch k {
	case KindJP2RFC3745:
		return "JP2 (RFC3745)"
	case KindJP2:
		return "JP2"
	case KindJ2K:
		return "J2K"
	default:
		return "Unknown"
	}
}

// IsContainer reports whether the kind is a JP2 file (as opposed to a bare codestream).
func (k Kind) IsContainer() bool {
	return k == KindJP2RFC3745 || k == KindJP2
}

// Detect returns the kind of JPEG 2000 data that starts data.
// The 12-byte RFC 3745 signature is checked before the shorter ones.
func Detect(data []byte) Kind {
	switch {
	case bytes.HasPrefix(data, rfc3745Magic):
		return KindJP2RFC3745
	case bytes.HasPrefix(data, jp2Magic):
		return KindJP2
	case bytes.HasPrefix(data, j2kMagic):
		return KindJ2K
	default:
		return KindUnknown
	}
}

// IsJPEG2000 returns true if data starts with one of the JPEG 2000 signatures.
// Nil, empty and too-short inputs return false.
func IsJPEG2000(data []byte) bool {
	return Detect(data) != KindUnknown
}

// Signatures returns copies of the three recognized prefixes, longest first.
func Signatures() [][]byte {
	return [][]byte{
		bytes.Clone(rfc3745Magic),
		bytes.Clone(jp2Magic),
		bytes.Clone(j2kMagic),
	}
}
