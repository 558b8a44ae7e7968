package charset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLookupCaseInsensitive(t *testing.T) {
	cp, ok := Lookup("UTF-8")
	assert.True(t, ok)
	assert.Equal(t, CodepageUTF8, cp)

	cp, ok = Lookup("")
	assert.True(t, ok)
	assert.Equal(t, DefaultCodepage, cp)

	_, ok = Lookup("no-such-charset")
	assert.False(t, ok)
}

func TestDetectBOM(t *testing.T) {
	kind, skip := DetectBOM([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	assert.Equal(t, BOMUTF8, kind)
	assert.Equal(t, 3, skip)

	kind, skip = DetectBOM([]byte("no bom here"))
	assert.Equal(t, BOMNone, kind)
	assert.Equal(t, 0, skip)

	kind, _ = DetectBOM([]byte{0xFF, 0xFE, 'h', 0})
	assert.Equal(t, BOMUTF16LE, kind)
}

func TestRequireUTF8RejectsIncompatible(t *testing.T) {
	_, err := RequireUTF8([]byte{0xFE, 0xFF, 0, 'h'})
	assert.Error(t, err)

	body, err := RequireUTF8([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	assert.NoError(t, err)
	assert.Equal(t, "hi", string(body))
}

func TestPercentCodecRoundTrip(t *testing.T) {
	encoded := EncodeURLChars("a b&c=d", true)
	decoded := DecodeURLChars(encoded, true, false)
	assert.Equal(t, "a b&c=d", decoded)
}

func TestPercentCodecPlusHandling(t *testing.T) {
	assert.Equal(t, "a b", DecodeURLChars("a+b", true, false))
	assert.Equal(t, "a+b", DecodeURLChars("a+b", true, true))
	assert.Equal(t, "a+b", DecodeURLChars("a+b", false, false))
}

func TestPercentCodecCollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "a%20b", EncodeURLChars("a   \t\nb", false))
}

func TestEntityRoundTrip(t *testing.T) {
	src := "<a href=\"x&y\">it's</a>\x01"
	assert.Equal(t, src, DecodeEntities(EncodeEntities(src)))
}

func TestDecodeNumericEntities(t *testing.T) {
	assert.Equal(t, "A", DecodeEntities("&#65;"))
	assert.Equal(t, "A", DecodeEntities("&#x41;"))
}
