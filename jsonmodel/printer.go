package jsonmodel

import "strings"

// Print serializes v as compact JSON text.
func Print(v Value) string {
	var b strings.Builder
	printValue(&b, v)
	return b.String()
}

func printValue(b *strings.Builder, v Value) {
	switch v.Kind {
	case KindNull, KindNone:
		b.WriteString("null")
	case KindFalse:
		b.WriteString("false")
	case KindTrue:
		b.WriteString("true")
	case KindString:
		printJSONString(b, v.Str)
	case KindInt32:
		b.WriteString(itoa(int64(v.Int32)))
	case KindDecimal:
		b.WriteString(v.Decimal.String())
	case KindArray:
		b.WriteByte('[')
		for i, item := range v.Array {
			if i > 0 {
				b.WriteByte(',')
			}
			printValue(b, item)
		}
		b.WriteByte(']')
	case KindObject:
		b.WriteByte('{')
		for i, p := range v.Object {
			if i > 0 {
				b.WriteByte(',')
			}
			printJSONString(b, p.Name)
			b.WriteByte(':')
			printValue(b, p.Value)
		}
		b.WriteByte('}')
	}
}

func printJSONString(b *strings.Builder, s string) {
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		case '\t':
			b.WriteString(`\t`)
		default:
			if c < 0x20 {
				b.WriteString(`\u00`)
				const hex = "0123456789abcdef"
				b.WriteByte(hex[c>>4])
				b.WriteByte(hex[c&0x0f])
			} else {
				b.WriteByte(c)
			}
		}
	}
	b.WriteByte('"')
}

func itoa(n int64) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
