package xmlmodel

// Encoding is the output encoding an XMLMessage declares.
type Encoding int

const (
	EncodingPlain Encoding = iota
	EncodingUTF8
	EncodingUTF16
	EncodingISO88591
)

// WhitespaceMode selects how text content is normalized on parse/print.
type WhitespaceMode int

const (
	WhitespacePreserveMode WhitespaceMode = iota
	WhitespaceCollapseMode
)

// Message is the document-level wrapper around a root Element: the
// single in-memory XML model every other layer (JSON bridge, SOAP
// state machine, WSDL templates) builds on.
type Message struct {
	Root *Element

	Version    string
	Standalone bool
	Encoding   Encoding
	Condensed  bool
	SendBOM    bool
	Whitespace WhitespaceMode

	PrintRestrictions bool

	Err *XmlError
}

// NewMessage returns an empty message with XML 1.0/UTF-8 defaults.
func NewMessage() *Message {
	return &Message{
		Version:  "1.0",
		Encoding: EncodingUTF8,
	}
}

// HasError reports whether a non-warning error is recorded.
func (m *Message) HasError() bool {
	return m.Err != nil && m.Err.Kind != ErrNone && !m.Err.IsWarning()
}

// SetError records the first error; subsequent calls are ignored so
// the earliest failure in a single pass is preserved, matching
// "on error, fill the error triple and stop."
func (m *Message) SetError(kind ErrorKind, message string, ctx *Element) {
	if m.Err != nil && m.Err.Kind != ErrNone {
		return
	}
	m.Err = &XmlError{Kind: kind, Message: message, Context: ctx}
}
