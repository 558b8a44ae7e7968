package xmlmodel

import (
	"strconv"
	"strings"

	"github.com/wsforge/fabric/charset"
)

// Print serializes m back to a UTF-8 byte buffer: an optional BOM,
// the XML declaration, and the element tree, honoring Whitespace and
// Condensed.
func Print(m *Message) []byte {
	var b strings.Builder
	if m.SendBOM {
		b.Write(charset.EmitBOM())
	}
	b.WriteString(`<?xml version="`)
	version := m.Version
	if version == "" {
		version = "1.0"
	}
	b.WriteString(version)
	b.WriteString(`" encoding="UTF-8"`)
	if m.Standalone {
		b.WriteString(` standalone="yes"`)
	}
	b.WriteString("?>")
	if !m.Condensed {
		b.WriteByte('\n')
	}
	if m.Root != nil {
		printElement(&b, m.Root, 0, m.Condensed)
	}
	return []byte(b.String())
}

func printElement(b *strings.Builder, e *Element, depth int, condensed bool) {
	indent := func() {
		if !condensed {
			b.WriteString(strings.Repeat("  ", depth))
		}
	}
	newline := func() {
		if !condensed {
			b.WriteByte('\n')
		}
	}

	indent()
	b.WriteByte('<')
	b.WriteString(qualifiedName(e))
	for _, a := range e.Attributes {
		b.WriteByte(' ')
		b.WriteString(attrQualifiedName(a))
		b.WriteString(`="`)
		b.WriteString(charset.EncodeEntities(a.Value))
		b.WriteByte('"')
	}

	if len(e.Children) == 0 && e.Value == "" && e.Type.Data != TypeCDATA {
		b.WriteString("/>")
		newline()
		return
	}
	b.WriteByte('>')

	switch {
	case e.Type.Data == TypeCDATA:
		b.WriteString("<![CDATA[")
		b.WriteString(e.Value)
		b.WriteString("]]>")
	case len(e.Children) > 0:
		newline()
		for _, c := range e.Children {
			printElement(b, c, depth+1, condensed)
		}
		indent()
	default:
		b.WriteString(charset.EncodeEntities(e.Value))
	}

	b.WriteString("</")
	b.WriteString(qualifiedName(e))
	b.WriteByte('>')
	newline()
}

func qualifiedName(e *Element) string {
	if e.Namespace == "" {
		return e.Name
	}
	return e.Namespace + ":" + e.Name
}

func attrQualifiedName(a Attribute) string {
	if a.Namespace == "" {
		return a.Name
	}
	return a.Namespace + ":" + a.Name
}

// Canonicalize produces the fixed-attribute-order, minimally-escaped
// form used as digest/signature input: attributes sorted
// alphabetically by qualified name, no indentation, no BOM, no XML
// declaration, matching the C14N step the SOAP security layer signs
// over.
func Canonicalize(e *Element) []byte {
	var b strings.Builder
	canonicalizeElement(&b, e)
	return []byte(b.String())
}

func canonicalizeElement(b *strings.Builder, e *Element) {
	b.WriteByte('<')
	b.WriteString(qualifiedName(e))

	attrs := append([]Attribute(nil), e.Attributes...)
	sortAttributes(attrs)
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(attrQualifiedName(a))
		b.WriteString(`="`)
		b.WriteString(canonicalAttrEscape(a.Value))
		b.WriteByte('"')
	}
	b.WriteByte('>')

	if e.Type.Data == TypeCDATA {
		b.WriteString(canonicalTextEscape(e.Value))
	} else if len(e.Children) > 0 {
		for _, c := range e.Children {
			canonicalizeElement(b, c)
		}
	} else {
		b.WriteString(canonicalTextEscape(e.Value))
	}

	b.WriteString("</")
	b.WriteString(qualifiedName(e))
	b.WriteByte('>')
}

func sortAttributes(attrs []Attribute) {
	for i := 1; i < len(attrs); i++ {
		for j := i; j > 0 && attrQualifiedName(attrs[j-1]) > attrQualifiedName(attrs[j]); j-- {
			attrs[j-1], attrs[j] = attrs[j], attrs[j-1]
		}
	}
}

func canonicalTextEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	s = strings.ReplaceAll(s, "\r", "&#xD;")
	return s
}

func canonicalAttrEscape(s string) string {
	s = canonicalTextEscape(s)
	s = strings.ReplaceAll(s, `"`, "&quot;")
	s = strings.ReplaceAll(s, "\t", "&#x9;")
	s = strings.ReplaceAll(s, "\n", "&#xA;")
	return s
}

// FormatBCD renders a decimal value in "bookkeeping" form: fixed
// point, no exponent, trimmed of insignificant trailing zeros but
// keeping at least one digit after the point if it was fractional.
func FormatBCD(f float64) string {
	s := strconv.FormatFloat(f, 'f', -1, 64)
	return s
}
