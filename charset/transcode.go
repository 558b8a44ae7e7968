package charset

import (
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

// encodingFor returns the golang.org/x/text encoding backing a
// codepage, for the non-UTF-8 legacy bodies the fabric may need to
// transcode to UTF-8 before the XML/JSON parsers ever see them.
func encodingFor(cp Codepage) (encoding.Encoding, bool) {
	switch cp {
	case CodepageISO88591:
		return charmap.ISO8859_1, true
	case CodepageWindows1252:
		return charmap.Windows1252, true
	case CodepageUTF16:
		return unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM), true
	case CodepageUTF16BE:
		return unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM), true
	default:
		return nil, false
	}
}

// ToUTF8 transcodes data from the named legacy codepage into UTF-8.
// UTF-8 and US-ASCII pass through unchanged.
func ToUTF8(cp Codepage, data []byte) ([]byte, error) {
	if cp == CodepageUTF8 || cp == CodepageUSASCII {
		return data, nil
	}
	enc, ok := encodingFor(cp)
	if !ok {
		return nil, &IncompatibleEncoding{}
	}
	return enc.NewDecoder().Bytes(data)
}

// FromUTF8 transcodes UTF-8 data into the named legacy codepage.
func FromUTF8(cp Codepage, data []byte) ([]byte, error) {
	if cp == CodepageUTF8 || cp == CodepageUSASCII {
		return data, nil
	}
	enc, ok := encodingFor(cp)
	if !ok {
		return nil, &IncompatibleEncoding{}
	}
	return enc.NewEncoder().Bytes(data)
}
