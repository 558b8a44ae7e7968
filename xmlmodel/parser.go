package xmlmodel

import (
	"strings"

	"github.com/wsforge/fabric/charset"
)

// Option configures a Parse call, following the functional-options
// pattern used throughout this module for per-call configuration.
type Option func(*parseConfig)

type parseConfig struct {
	whitespace WhitespaceMode
}

// WithWhitespaceMode selects preserve (default) or collapse handling
// of text content outside CDATA sections.
func WithWhitespaceMode(mode WhitespaceMode) Option {
	return func(c *parseConfig) { c.whitespace = mode }
}

type parser struct {
	data []byte
	pos  int
	msg  *Message

	whitespaceRuns int
	elementOpens   int
}

// Parse runs the single-pass, pointer-advancing parser over data and
// returns the resulting Message. Parse errors are never returned as a
// Go error; they are recorded in Message.Err, matching "never throw
// past the parser entry point" — callers that prefer idiomatic error
// handling can check msg.Err (it implements error) or msg.HasError().
func Parse(data []byte, opts ...Option) *Message {
	cfg := parseConfig{whitespace: WhitespacePreserveMode}
	for _, o := range opts {
		o(&cfg)
	}

	msg := NewMessage()
	msg.Whitespace = cfg.whitespace

	if len(data) == 0 {
		msg.SetError(ErrEmptyXML, "empty input", nil)
		return msg
	}

	body, err := charset.RequireUTF8(data)
	if err != nil {
		msg.SetError(ErrIncompatibleEncoding, err.Error(), nil)
		return msg
	}
	if len(body) < len(data) {
		msg.SendBOM = true
	}

	p := &parser{data: body, msg: msg}
	p.run()
	return msg
}

func (p *parser) run() {
	p.skipDeclaration()
	p.skipPrologMisc()

	if p.msg.HasError() {
		return
	}
	p.skipWhitespaceTracking()
	if p.pos >= len(p.data) || p.data[p.pos] != '<' {
		p.msg.SetError(ErrNoRootElement, "no root element found", nil)
		return
	}

	root := p.parseElement()
	if p.msg.HasError() {
		return
	}
	p.msg.Root = root

	p.skipWhitespaceTracking()
	if p.pos < len(p.data) {
		p.msg.SetError(ErrExtraText, "trailing content after root element", root)
		return
	}

	// Condensed auto-detect: many whitespace runs relative to element
	// opens means the document was pretty-printed; few means condensed.
	if p.elementOpens > 0 && p.whitespaceRuns*2 < p.elementOpens {
		p.msg.Condensed = true
	}
}

func (p *parser) skipDeclaration() {
	if !p.hasPrefix("<?xml") {
		return
	}
	p.pos += len("<?xml")
	attrs := p.parseAttributesUntil("?>")
	for _, a := range attrs {
		switch a.Name {
		case "version":
			p.msg.Version = a.Value
		case "encoding":
			// recorded informationally; the model is always UTF-8 internally.
		case "standalone":
			p.msg.Standalone = a.Value == "yes"
		default:
			p.msg.SetError(ErrHeaderAttribs, "unknown xml declaration attribute: "+a.Name, nil)
			return
		}
	}
	p.consumePrefix("?>")
}

// skipPrologMisc consumes comments, DTD, and processing instructions
// (e.g. xml-stylesheet) that may appear before the root element.
func (p *parser) skipPrologMisc() {
	for {
		p.skipWhitespaceTracking()
		switch {
		case p.hasPrefix("<!--"):
			p.skipComment()
		case p.hasPrefix("<!"):
			p.skipDTD()
		case p.hasPrefix("<?"):
			p.skipProcessingInstruction()
		default:
			return
		}
		if p.msg.HasError() {
			return
		}
	}
}

func (p *parser) skipComment() {
	p.pos += len("<!--")
	end := indexFrom(p.data, p.pos, "-->")
	if end < 0 {
		p.msg.SetError(ErrMissingClosing, "unterminated comment", nil)
		return
	}
	p.pos = end + len("-->")
}

func (p *parser) skipDTD() {
	// DTD is skipped silently: no ErrDTDNotSupported warning is recorded
	// in Message.Err. It may itself contain nested '<' '>' for internal
	// subsets, so track bracket depth.
	start := p.pos
	depth := 0
	for p.pos < len(p.data) {
		switch p.data[p.pos] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				p.pos++
				return
			}
		}
		p.pos++
	}
	p.pos = start
	p.msg.SetError(ErrMissingClosing, "unterminated DTD", nil)
}

func (p *parser) skipProcessingInstruction() {
	p.pos += len("<?")
	end := indexFrom(p.data, p.pos, "?>")
	if end < 0 {
		p.msg.SetError(ErrMissingClosing, "unterminated processing instruction", nil)
		return
	}
	p.pos = end + len("?>")
}

// parseElement parses one element, including its subtree, assuming
// p.pos is positioned at the opening '<'.
func (p *parser) parseElement() *Element {
	p.pos++ // consume '<'
	nameStart := p.pos
	for p.pos < len(p.data) && isNameByte(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == nameStart {
		p.msg.SetError(ErrMissingElement, "expected element name", nil)
		return nil
	}
	rawName := string(p.data[nameStart:p.pos])
	p.elementOpens++

	el := NewElement(rawName)
	if idx := strings.IndexByte(rawName, ':'); idx >= 0 {
		el.Namespace = rawName[:idx]
		el.Name = rawName[idx+1:]
	}

	el.Attributes = p.parseAttributesUntil2('>', '/')

	if p.hasPrefix("/>") {
		p.pos += 2
		return el
	}
	if p.pos >= len(p.data) || p.data[p.pos] != '>' {
		p.msg.SetError(ErrMissingToken, "expected '>' closing start tag", el)
		return nil
	}
	p.pos++ // consume '>'

	p.parseContent(el)
	return el
}

// parseContent consumes the mixed content of el until its matching end tag.
func (p *parser) parseContent(el *Element) {
	var textRun strings.Builder

	flushText := func() {
		text := textRun.String()
		textRun.Reset()
		if text == "" {
			return
		}
		decoded := charset.DecodeEntities(text)
		if p.msg.Whitespace == WhitespaceCollapseMode {
			decoded = strings.TrimSpace(collapseRuns(decoded))
		}
		if isAllWhitespace(decoded) {
			p.whitespaceRuns++
		}
		if decoded != "" {
			el.Value += decoded
		}
	}

	for {
		if p.pos >= len(p.data) {
			p.msg.SetError(ErrMissingEndTag, "unterminated element <"+el.Name+">", el)
			return
		}
		switch {
		case p.hasPrefix("<![CDATA["):
			flushText()
			p.parseCDATA(el)
		case p.hasPrefix("<!--"):
			flushText()
			p.skipComment()
		case p.hasPrefix("</"):
			flushText()
			p.parseEndTag(el)
			return
		case p.data[p.pos] == '<':
			flushText()
			child := p.parseElement()
			if p.msg.HasError() {
				return
			}
			if child != nil {
				el.AddChild(child)
			}
		default:
			textRun.WriteByte(p.data[p.pos])
			p.pos++
		}
		if p.msg.HasError() {
			return
		}
	}
}

func (p *parser) parseCDATA(el *Element) {
	p.pos += len("<![CDATA[")
	end := indexFrom(p.data, p.pos, "]]>")
	if end < 0 {
		p.msg.SetError(ErrMissingClosing, "unterminated CDATA section", el)
		return
	}
	el.Value += string(p.data[p.pos:end])
	el.Type.Data = TypeCDATA
	p.pos = end + len("]]>")
}

func (p *parser) parseEndTag(el *Element) {
	p.pos += 2 // consume "</"
	nameStart := p.pos
	for p.pos < len(p.data) && isNameByte(p.data[p.pos]) {
		p.pos++
	}
	closingName := string(p.data[nameStart:p.pos])
	fullName := el.Name
	if el.Namespace != "" {
		fullName = el.Namespace + ":" + el.Name
	}
	if closingName != fullName {
		p.msg.SetError(ErrMissingEndTag, "end tag </"+closingName+"> does not match <"+fullName+">", el)
		return
	}
	p.skipInlineWhitespace()
	if p.pos >= len(p.data) || p.data[p.pos] != '>' {
		p.msg.SetError(ErrMissingToken, "expected '>' closing end tag", el)
		return
	}
	p.pos++
}

// parseAttributesUntil is used for the XML declaration, whose
// terminator is the literal string "?>" rather than a single byte.
func (p *parser) parseAttributesUntil(terminator string) []Attribute {
	var attrs []Attribute
	for {
		p.skipInlineWhitespace()
		if p.hasPrefix(terminator) || p.pos >= len(p.data) {
			return attrs
		}
		a, ok := p.parseOneAttribute()
		if !ok {
			return attrs
		}
		attrs = append(attrs, a)
	}
}

// parseAttributesUntil2 parses attributes for a start tag, stopping at
// '>' or the self-closing "/>" .
func (p *parser) parseAttributesUntil2(stopA, stopB byte) []Attribute {
	var attrs []Attribute
	for {
		p.skipInlineWhitespace()
		if p.pos >= len(p.data) {
			return attrs
		}
		c := p.data[p.pos]
		if c == stopA || (c == stopB && p.pos+1 < len(p.data) && p.data[p.pos+1] == '>') {
			return attrs
		}
		a, ok := p.parseOneAttribute()
		if !ok {
			return attrs
		}
		attrs = append(attrs, a)
	}
}

func (p *parser) parseOneAttribute() (Attribute, bool) {
	nameStart := p.pos
	for p.pos < len(p.data) && isNameByte(p.data[p.pos]) {
		p.pos++
	}
	if p.pos == nameStart {
		return Attribute{}, false
	}
	rawName := string(p.data[nameStart:p.pos])

	p.skipInlineWhitespace()
	if p.pos >= len(p.data) || p.data[p.pos] != '=' {
		p.msg.SetError(ErrMissingToken, "expected '=' in attribute", nil)
		return Attribute{}, false
	}
	p.pos++
	p.skipInlineWhitespace()
	if p.pos >= len(p.data) || (p.data[p.pos] != '"' && p.data[p.pos] != '\'') {
		p.msg.SetError(ErrMissingToken, "expected quoted attribute value", nil)
		return Attribute{}, false
	}
	delim := p.data[p.pos]
	p.pos++
	valStart := p.pos
	for p.pos < len(p.data) && p.data[p.pos] != delim {
		p.pos++
	}
	if p.pos >= len(p.data) {
		p.msg.SetError(ErrMissingClosing, "unterminated attribute value", nil)
		return Attribute{}, false
	}
	rawValue := string(p.data[valStart:p.pos])
	p.pos++ // consume closing delimiter

	a := Attribute{Name: rawName, Value: charset.DecodeEntities(rawValue)}
	if idx := strings.IndexByte(rawName, ':'); idx >= 0 {
		a.Namespace = rawName[:idx]
		a.Name = rawName[idx+1:]
	}
	return a, true
}

func (p *parser) skipInlineWhitespace() {
	for p.pos < len(p.data) && isSpace(p.data[p.pos]) {
		p.pos++
	}
}

func (p *parser) skipWhitespaceTracking() {
	start := p.pos
	p.skipInlineWhitespace()
	if p.pos > start {
		p.whitespaceRuns++
	}
}

func (p *parser) hasPrefix(s string) bool {
	return strings.HasPrefix(string(p.data[p.pos:]), s)
}

func (p *parser) consumePrefix(s string) {
	if p.hasPrefix(s) {
		p.pos += len(s)
	}
}

func indexFrom(data []byte, from int, sub string) int {
	idx := strings.Index(string(data[from:]), sub)
	if idx < 0 {
		return -1
	}
	return from + idx
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}

// isNameByte implements the identifier production
// [A-Za-z_:][A-Za-z0-9_:.-]* folded into one predicate (the first-byte
// vs. continuation distinction does not matter for this fabric's
// usage since names are always scanned as one run); any byte >=128 is
// also accepted, treating diacritics as alphabetic.
func isNameByte(c byte) bool {
	switch {
	case c >= 'A' && c <= 'Z', c >= 'a' && c <= 'z', c >= '0' && c <= '9':
		return true
	case c == '_' || c == ':' || c == '.' || c == '-':
		return true
	case c >= 0x80:
		return true
	default:
		return false
	}
}

func isAllWhitespace(s string) bool {
	for i := 0; i < len(s); i++ {
		if !isSpace(s[i]) {
			return false
		}
	}
	return true
}

func collapseRuns(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
