package xmlmodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleDocument(t *testing.T) {
	doc := `<?xml version="1.0" encoding="UTF-8"?>
<root attr="v"><child>text</child></root>`
	m := Parse([]byte(doc))
	require.False(t, m.HasError())
	require.NotNil(t, m.Root)
	assert.Equal(t, "root", m.Root.Name)
	v, ok := m.Root.Attribute("attr")
	assert.True(t, ok)
	assert.Equal(t, "v", v)

	child := m.Root.FindFirst("child")
	require.NotNil(t, child)
	assert.Equal(t, "text", child.Value)
}

func TestParseEmptyInputIsEmptyXMLError(t *testing.T) {
	m := Parse(nil)
	assert.True(t, m.HasError())
	assert.Equal(t, ErrEmptyXML, m.Err.Kind)
}

func TestParseNoRootElement(t *testing.T) {
	m := Parse([]byte("   "))
	assert.True(t, m.HasError())
	assert.Equal(t, ErrNoRootElement, m.Err.Kind)
}

func TestParseMismatchedEndTag(t *testing.T) {
	m := Parse([]byte("<a><b></c></a>"))
	assert.True(t, m.HasError())
	assert.Equal(t, ErrMissingEndTag, m.Err.Kind)
}

func TestParseCDATAVerbatim(t *testing.T) {
	m := Parse([]byte("<a><![CDATA[<raw> & stuff]]></a>"))
	require.False(t, m.HasError())
	assert.Equal(t, "<raw> & stuff", m.Root.Value)
	assert.Equal(t, TypeCDATA, m.Root.Type.Data)
}

func TestParseEntityDecoding(t *testing.T) {
	m := Parse([]byte("<a>1 &lt; 2 &amp;&amp; 3 &gt; 0</a>"))
	require.False(t, m.HasError())
	assert.Equal(t, "1 < 2 && 3 > 0", m.Root.Value)
}

func TestParseNamespacedElement(t *testing.T) {
	m := Parse([]byte(`<s:Envelope xmlns:s="urn:x"><s:Body/></s:Envelope>`))
	require.False(t, m.HasError())
	assert.Equal(t, "s", m.Root.Namespace)
	assert.Equal(t, "Envelope", m.Root.Name)
	body := m.Root.FindFirst("Body")
	require.NotNil(t, body)
	assert.Equal(t, "s", body.Namespace)
}

func TestParseSkipsCommentsAndDTD(t *testing.T) {
	doc := `<!-- a comment --><!DOCTYPE foo [ <!ELEMENT foo (#PCDATA)> ]><root/>`
	m := Parse([]byte(doc))
	require.False(t, m.HasError())
	assert.Equal(t, "root", m.Root.Name)
}

func TestParseBOMStripped(t *testing.T) {
	doc := append([]byte{0xEF, 0xBB, 0xBF}, []byte("<root/>")...)
	m := Parse(doc)
	require.False(t, m.HasError())
	assert.True(t, m.SendBOM)
	assert.Equal(t, "root", m.Root.Name)
}

func TestParsePrintRoundTrip(t *testing.T) {
	doc := []byte(`<root attr="v"><child>hello</child></root>`)
	m := Parse(doc, WithWhitespaceMode(WhitespacePreserveMode))
	require.False(t, m.HasError())

	out := Print(m)
	m2 := Parse(out, WithWhitespaceMode(WhitespacePreserveMode))
	require.False(t, m2.HasError())

	assert.Equal(t, m.Root.Name, m2.Root.Name)
	v1, _ := m.Root.Attribute("attr")
	v2, _ := m2.Root.Attribute("attr")
	assert.Equal(t, v1, v2)
	assert.Equal(t, m.Root.FindFirst("child").Value, m2.Root.FindFirst("child").Value)
}

func TestEntityEscapeNoBareSpecialChars(t *testing.T) {
	root := NewElement("a")
	root.Value = "<x> & 'y' \"z\"\x01"
	m := NewMessage()
	m.Root = root

	out := string(Print(m))
	assert.NotContains(t, out, "<x>")
	assert.Contains(t, out, "&lt;x&gt;")
	assert.Contains(t, out, "&amp;")
}

func TestRestrictionLengthAndEnumeration(t *testing.T) {
	minLen, maxLen := 2, 5
	r := &Restriction{
		Name:      "code",
		MinLength: &minLen,
		MaxLength: &maxLen,
		Enumeration: []EnumValue{
			{Value: "OK"}, {Value: "FAIL"},
		},
	}
	assert.Equal(t, "", r.Check("OK"))
	assert.NotEqual(t, "", r.Check("O"))
	assert.NotEqual(t, "", r.Check("MAYBE"))
}

func TestCheckDataType(t *testing.T) {
	assert.Equal(t, "", CheckDataType(TypeInteger, "-42"))
	assert.NotEqual(t, "", CheckDataType(TypeInteger, "4.2"))
	assert.Equal(t, "", CheckDataType(TypeBoolean, "TRUE"))
	assert.Equal(t, "", CheckDataType(TypeDouble, "1.5e10"))
	assert.Equal(t, "", CheckDataType(TypeDateTime, "2024-01-01T00:00:00"))
}
