package xmlmodel

import "fmt"

// ErrorKind is the parser's first-class error taxonomy, replacing the
// original's string-typed errors per the redesign guidance.
type ErrorKind int

const (
	ErrNone ErrorKind = iota
	ErrEmptyXML
	ErrIncompatibleEncoding
	ErrNotAnXMLMessage
	ErrNoRootElement
	ErrMissingClosing
	ErrMissingToken
	ErrMissingElement
	ErrDTDNotSupported // warning only, non-fatal
	ErrMissingEndTag
	ErrOutOfMemory
	ErrExtraText
	ErrHeaderAttribs
	ErrNoBody
	ErrEmptyCommand
	ErrUnknownProtocol
	ErrUnknownEncoding
	ErrUnknownXMLParser
)

func (k ErrorKind) String() string {
	switch k {
	case ErrNone:
		return "none"
	case ErrEmptyXML:
		return "EmptyXML"
	case ErrIncompatibleEncoding:
		return "IncompatibleEncoding"
	case ErrNotAnXMLMessage:
		return "NotAnXMLMessage"
	case ErrNoRootElement:
		return "NoRootElement"
	case ErrMissingClosing:
		return "MissingClosing"
	case ErrMissingToken:
		return "MissingToken"
	case ErrMissingElement:
		return "MissingElement"
	case ErrDTDNotSupported:
		return "DTDNotSupported"
	case ErrMissingEndTag:
		return "MissingEndTag"
	case ErrOutOfMemory:
		return "OutOfMemory"
	case ErrExtraText:
		return "ExtraText"
	case ErrHeaderAttribs:
		return "HeaderAttribs"
	case ErrNoBody:
		return "NoBody"
	case ErrEmptyCommand:
		return "EmptyCommand"
	case ErrUnknownProtocol:
		return "UnknownProtocol"
	case ErrUnknownEncoding:
		return "UnknownEncoding"
	case ErrUnknownXMLParser:
		return "UnknownXMLParser"
	default:
		return "Unknown"
	}
}

// XmlError is the message's error triple: kind, human message, and the
// element context (if known) at which the error was detected. It
// implements the error interface so callers that prefer idiomatic Go
// error handling can use it directly, while XMLMessage also stores it
// as a field for callers that prefer the original "check after parse"
// style.
type XmlError struct {
	Kind    ErrorKind
	Message string
	Context *Element
}

func (e *XmlError) Error() string {
	if e == nil || e.Kind == ErrNone {
		return ""
	}
	return fmt.Sprintf("xmlmodel: %s: %s", e.Kind, e.Message)
}

// IsWarning reports whether this error kind should not stop processing
// (currently only an unsupported DTD).
func (e *XmlError) IsWarning() bool {
	return e != nil && e.Kind == ErrDTDNotSupported
}
