package charset

import (
	"strconv"
	"strings"
)

var namedEntities = map[byte]string{
	'&':  "&amp;",
	'<':  "&lt;",
	'>':  "&gt;",
	'\'': "&apos;",
	'"':  "&quot;",
}

// EncodeEntities escapes the five XML-significant characters and any
// control byte below 0x20 as a numeric character reference.
func EncodeEntities(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); i++ {
		c := text[i]
		if rep, ok := namedEntities[c]; ok {
			b.WriteString(rep)
			continue
		}
		if c < 0x20 {
			b.WriteString("&#")
			b.WriteString(strconv.Itoa(int(c)))
			b.WriteByte(';')
			continue
		}
		b.WriteByte(c)
	}
	return b.String()
}

// DecodeEntities inverts EncodeEntities: it recognizes the five named
// entities plus decimal (&#N;) and hexadecimal (&#xH;) numeric
// character references. Anything else beginning with '&' is passed
// through unmodified (no error — lenient, matching the rest of this
// package's decode style).
func DecodeEntities(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		if text[i] != '&' {
			b.WriteByte(text[i])
			i++
			continue
		}
		semi := strings.IndexByte(text[i:], ';')
		if semi < 0 {
			b.WriteByte(text[i])
			i++
			continue
		}
		entity := text[i+1 : i+semi]
		if r, ok := decodeOneEntity(entity); ok {
			b.WriteRune(r)
			i += semi + 1
			continue
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String()
}

func decodeOneEntity(entity string) (rune, bool) {
	switch entity {
	case "amp":
		return '&', true
	case "lt":
		return '<', true
	case "gt":
		return '>', true
	case "apos":
		return '\'', true
	case "quot":
		return '"', true
	}
	if strings.HasPrefix(entity, "#x") || strings.HasPrefix(entity, "#X") {
		v, err := strconv.ParseInt(entity[2:], 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}
	if strings.HasPrefix(entity, "#") {
		v, err := strconv.ParseInt(entity[1:], 10, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}
	return 0, false
}
