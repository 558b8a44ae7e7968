package jsonmodel

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/wsforge/fabric/charset"
)

// ParseError is a first-class parse failure, carrying the byte offset
// at which the parser gave up.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("jsonmodel: at byte %d: %s", e.Offset, e.Message)
}

type parser struct {
	data []byte
	pos  int
}

// Parse runs a strict recursive-descent parser over data (a JSON
// document, optionally BOM-prefixed) and returns the root Value.
func Parse(data []byte) (Value, error) {
	body, err := charset.RequireUTF8(data)
	if err != nil {
		return Value{}, err
	}
	p := &parser{data: body}
	p.skipWhitespace()
	v, err := p.parseValue()
	if err != nil {
		return Value{}, err
	}
	p.skipWhitespace()
	if p.pos != len(p.data) {
		return Value{}, &ParseError{Offset: p.pos, Message: "unexpected trailing content"}
	}
	return v, nil
}

func (p *parser) skipWhitespace() {
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case ' ', '\t', '\r', '\n':
			p.pos++
		default:
			return
		}
	}
}

func (p *parser) parseValue() (Value, error) {
	if p.pos >= len(p.data) {
		return Value{}, &ParseError{Offset: p.pos, Message: "unexpected end of input"}
	}
	switch c := p.data[p.pos]; {
	case c == '{':
		return p.parseObject()
	case c == '[':
		return p.parseArray()
	case c == '"':
		s, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		return String(s), nil
	case c == 't':
		return p.parseLiteral("true", True())
	case c == 'f':
		return p.parseLiteral("false", False())
	case c == 'n':
		return p.parseLiteral("null", Null())
	case c == '-' || (c >= '0' && c <= '9'):
		return p.parseNumber()
	default:
		return Value{}, &ParseError{Offset: p.pos, Message: fmt.Sprintf("unexpected character %q", c)}
	}
}

func (p *parser) parseLiteral(lit string, v Value) (Value, error) {
	if p.pos+len(lit) > len(p.data) || string(p.data[p.pos:p.pos+len(lit)]) != lit {
		return Value{}, &ParseError{Offset: p.pos, Message: "invalid literal"}
	}
	p.pos += len(lit)
	return v, nil
}

func (p *parser) parseObject() (Value, error) {
	p.pos++ // '{'
	var pairs []Pair
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == '}' {
		p.pos++
		return Object(pairs), nil
	}
	for {
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != '"' {
			return Value{}, &ParseError{Offset: p.pos, Message: "expected string key"}
		}
		key, err := p.parseString()
		if err != nil {
			return Value{}, err
		}
		p.skipWhitespace()
		if p.pos >= len(p.data) || p.data[p.pos] != ':' {
			return Value{}, &ParseError{Offset: p.pos, Message: "expected ':' after object key"}
		}
		p.pos++
		p.skipWhitespace()
		val, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		pairs = append(pairs, Pair{Name: key, Value: val})

		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Value{}, &ParseError{Offset: p.pos, Message: "unterminated object"}
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
			continue
		case '}':
			p.pos++
			return Object(pairs), nil
		default:
			return Value{}, &ParseError{Offset: p.pos, Message: "expected ',' or '}'"}
		}
	}
}

func (p *parser) parseArray() (Value, error) {
	p.pos++ // '['
	var items []Value
	p.skipWhitespace()
	if p.pos < len(p.data) && p.data[p.pos] == ']' {
		p.pos++
		return Array(items), nil
	}
	for {
		p.skipWhitespace()
		v, err := p.parseValue()
		if err != nil {
			return Value{}, err
		}
		items = append(items, v)

		p.skipWhitespace()
		if p.pos >= len(p.data) {
			return Value{}, &ParseError{Offset: p.pos, Message: "unterminated array"}
		}
		switch p.data[p.pos] {
		case ',':
			p.pos++
			continue
		case ']':
			p.pos++
			return Array(items), nil
		default:
			return Value{}, &ParseError{Offset: p.pos, Message: "expected ',' or ']'"}
		}
	}
}

func (p *parser) parseString() (string, error) {
	p.pos++ // opening quote
	var b strings.Builder
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		switch {
		case c == '"':
			p.pos++
			return b.String(), nil
		case c == '\\':
			p.pos++
			if p.pos >= len(p.data) {
				return "", &ParseError{Offset: p.pos, Message: "unterminated escape"}
			}
			esc := p.data[p.pos]
			switch esc {
			case '"', '\\', '/':
				b.WriteByte(esc)
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			case 'u':
				if p.pos+4 >= len(p.data) {
					return "", &ParseError{Offset: p.pos, Message: "invalid \\u escape"}
				}
				hex := string(p.data[p.pos+1 : p.pos+5])
				n, err := strconv.ParseInt(hex, 16, 32)
				if err != nil {
					return "", &ParseError{Offset: p.pos, Message: "invalid \\u escape"}
				}
				b.WriteRune(rune(n))
				p.pos += 4
			default:
				return "", &ParseError{Offset: p.pos, Message: "invalid escape character"}
			}
			p.pos++
		default:
			b.WriteByte(c)
			p.pos++
		}
	}
	return "", &ParseError{Offset: p.pos, Message: "unterminated string"}
}

func (p *parser) parseNumber() (Value, error) {
	start := p.pos
	if p.pos < len(p.data) && p.data[p.pos] == '-' {
		p.pos++
	}
	for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
		p.pos++
	}
	isFloat := false
	if p.pos < len(p.data) && p.data[p.pos] == '.' {
		isFloat = true
		p.pos++
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	if p.pos < len(p.data) && (p.data[p.pos] == 'e' || p.data[p.pos] == 'E') {
		isFloat = true
		p.pos++
		if p.pos < len(p.data) && (p.data[p.pos] == '+' || p.data[p.pos] == '-') {
			p.pos++
		}
		for p.pos < len(p.data) && isDigit(p.data[p.pos]) {
			p.pos++
		}
	}
	raw := string(p.data[start:p.pos])
	if raw == "" || raw == "-" {
		return Value{}, &ParseError{Offset: start, Message: "invalid number"}
	}

	if !isFloat {
		if n, err := strconv.ParseInt(raw, 10, 32); err == nil {
			return Int32(int32(n)), nil
		}
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return Value{}, &ParseError{Offset: start, Message: "invalid number"}
	}
	return Dec(d), nil
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }
