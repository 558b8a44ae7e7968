package charset

import "fmt"

// BOMType identifies a detected byte-order mark family. Only UTF-8 is
// acceptable to the rest of the fabric's parsers; every other value
// exists solely so DetectBOM can report exactly what was found before
// the caller rejects it.
type BOMType int

const (
	BOMNone BOMType = iota
	BOMUTF8
	BOMUTF16LE
	BOMUTF16BE
	BOMUTF32LE
	BOMUTF32BE
	BOMUTF7
	BOMUTF1
	BOMUTFEBCDIC
	BOMBOCU1
	BOMGB18030
	BOMSCSU
)

func (t BOMType) String() string {
	switch t {
	case BOMNone:
		return "none"
	case BOMUTF8:
		return "utf-8"
	case BOMUTF16LE:
		return "utf-16le"
	case BOMUTF16BE:
		return "utf-16be"
	case BOMUTF32LE:
		return "utf-32le"
	case BOMUTF32BE:
		return "utf-32be"
	case BOMUTF7:
		return "utf-7"
	case BOMUTF1:
		return "utf-1"
	case BOMUTFEBCDIC:
		return "utf-ebcdic"
	case BOMBOCU1:
		return "bocu-1"
	case BOMGB18030:
		return "gb-18030"
	case BOMSCSU:
		return "scsu"
	default:
		return "unknown"
	}
}

type bomSignature struct {
	bom  []byte
	kind BOMType
}

// Signatures ordered longest-prefix-first so a UTF-32LE BOM (which
// shares its first two bytes with UTF-16LE) is matched before the
// shorter UTF-16LE signature.
var bomSignatures = []bomSignature{
	{[]byte{0x00, 0x00, 0xFE, 0xFF}, BOMUTF32BE},
	{[]byte{0xFF, 0xFE, 0x00, 0x00}, BOMUTF32LE},
	{[]byte{0xDD, 0x73, 0x66, 0x73}, BOMUTFEBCDIC},
	{[]byte{0x84, 0x31, 0x95, 0x33}, BOMGB18030},
	{[]byte{0xEF, 0xBB, 0xBF}, BOMUTF8},
	{[]byte{0x2B, 0x2F, 0x76}, BOMUTF7},
	{[]byte{0xFB, 0xEE, 0x28}, BOMBOCU1},
	{[]byte{0xF7, 0x64, 0x4C}, BOMUTF1},
	{[]byte{0x0E, 0xFE, 0xFF}, BOMSCSU},
	{[]byte{0xFE, 0xFF}, BOMUTF16BE},
	{[]byte{0xFF, 0xFE}, BOMUTF16LE},
}

// DetectBOM inspects the start of data and returns the BOM family
// found and the number of bytes to skip past it. BOMNone/0 means no
// recognized BOM was present.
func DetectBOM(data []byte) (BOMType, int) {
	for _, sig := range bomSignatures {
		if len(data) >= len(sig.bom) && hasPrefix(data, sig.bom) {
			return sig.kind, len(sig.bom)
		}
	}
	return BOMNone, 0
}

func hasPrefix(data, prefix []byte) bool {
	for i, b := range prefix {
		if data[i] != b {
			return false
		}
	}
	return true
}

// IncompatibleEncoding reports a detected BOM family the parsers
// cannot consume; only UTF-8 (or no BOM at all, which is assumed
// UTF-8) is accepted.
type IncompatibleEncoding struct {
	Detected BOMType
}

func (e *IncompatibleEncoding) Error() string {
	return fmt.Sprintf("charset: incompatible encoding %s, only UTF-8 is accepted", e.Detected)
}

// RequireUTF8 strips a UTF-8 BOM if present and returns the remaining
// bytes, or fails with *IncompatibleEncoding if a non-UTF-8 BOM is
// detected.
func RequireUTF8(data []byte) ([]byte, error) {
	kind, skip := DetectBOM(data)
	switch kind {
	case BOMNone, BOMUTF8:
		return data[skip:], nil
	default:
		return nil, &IncompatibleEncoding{Detected: kind}
	}
}

// EmitBOM returns the canonical UTF-8 BOM bytes, for callers that want
// to write a BOM-prefixed document.
func EmitBOM() []byte {
	return []byte{0xEF, 0xBB, 0xBF}
}
