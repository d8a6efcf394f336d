package codestream

// JPEG 2000 marker codes used by the main-header reader.
// Reference: ISO/IEC 15444-1:2019 Table A.1
const (
	MarkerSOC uint16 = 0xFF4F // Start of codestream
	MarkerSOT uint16 = 0xFF90 // Start of tile-part
	MarkerSOD uint16 = 0xFF93 // Start of data
	MarkerEOC uint16 = 0xFFD9 // End of codestream
	MarkerSIZ uint16 = 0xFF51 // Image and tile size
	MarkerCOD uint16 = 0xFF52 // Coding style default
	MarkerCOC uint16 = 0xFF53 // Coding style component
	MarkerQCD uint16 = 0xFF5C // Quantization default
	MarkerQCC uint16 = 0xFF5D // Quantization component
	MarkerRGN uint16 = 0xFF5E // Region of interest
	MarkerPOC uint16 = 0xFF5F // Progression order change
	MarkerTLM uint16 = 0xFF55 // Tile-part lengths
	MarkerPLM uint16 = 0xFF57 // Packet length, main header
	MarkerPPM uint16 = 0xFF60 // Packed packet headers, main header
	MarkerCRG uint16 = 0xFF63 // Component registration
	MarkerCOM uint16 = 0xFF64 // Comment
	MarkerCAP uint16 = 0xFF50 // Extended capabilities (Part 15)
)

// MarkerName returns the name of a marker code
func MarkerName(marker uint16) string {
	switch marker {
	case MarkerSOC:
		return "SOC"
	case MarkerSOT:
		return "SOT"
	case MarkerSOD:
		return "SOD"
	case MarkerEOC:
		return "EOC"
	case MarkerSIZ:
		return "SIZ"
	case MarkerCOD:
		return "COD"
	case MarkerCOC:
		return "COC"
	case MarkerQCD:
		return "QCD"
	case MarkerQCC:
		return "QCC"
	case MarkerRGN:
		return "RGN"
	case MarkerPOC:
		return "POC"
	case MarkerTLM:
		return "TLM"
	case MarkerPLM:
		return "PLM"
	case MarkerPPM:
		return "PPM"
	case MarkerCRG:
		return "CRG"
	case MarkerCOM:
		return "COM"
	case MarkerCAP:
		return "CAP"
	default:
		return "UNKNOWN"
	}
}
