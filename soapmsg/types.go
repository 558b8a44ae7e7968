// Package soapmsg implements the SOAP message state machine: envelope
// composition and decomposition across SOAP 1.0 (Plain-Old-SOAP),
// 1.1, and 1.2, WS-Addressing, WS-ReliableMessaging, WS-Security
// UsernameToken Profile 1.1, VERB tunneling, SOAP<->JSON bridging, and
// SOAP Faults in both envelope shapes.
package soapmsg

import (
	"github.com/wsforge/fabric/webcookie"
	"github.com/wsforge/fabric/xmlmodel"
)

// Version is the SOAP protocol version a Message targets.
type Version int

const (
	VersionPOS Version = iota // Plain-Old-SOAP: no Envelope, root is the action
	Version11
	Version12
)

// Namespace string constants, byte-exact per the wire contract.
const (
	NSEnvelope11   = "http://schemas.xmlsoap.org/soap/envelope/"
	NSEnvelope12   = "http://www.w3.org/2003/05/soap-envelope"
	NSAddressing   = "http://www.w3.org/2005/08/addressing"
	NSReliable     = "http://schemas.xmlsoap.org/ws/2005/02/rm"
	NSDSig         = "http://www.w3.org/2000/09/xmldsig#"
	NSXMLEnc       = "http://www.w3.org/2001/04/xmlenc#"
	NSWSSecurity   = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-secext-1.0.xsd"
	NSWSUtility    = "http://docs.oasis-open.org/wss/2004/01/oasis-200401-wss-wssecurity-utility-1.0.xsd"
	NSXSD          = "http://www.w3.org/2001/XMLSchema"
	NSXSI          = "http://www.w3.org/2001/XMLSchema-instance"
)

func envelopeNamespace(v Version) string {
	if v == Version12 {
		return NSEnvelope12
	}
	return NSEnvelope11
}

// Encryption is the WS-Security envelope protection mode.
type Encryption int

const (
	EncryptionPlain Encryption = iota
	EncryptionSigning
	EncryptionBody
	EncryptionMessage
)

// WSDLOrder mirrors xmlmodel.Ordering for the message's parameter
// object (All/Choice/Sequence), exposed at this layer because WSDL
// validation reads it directly off the message template.
type WSDLOrder = xmlmodel.Ordering

// Addressing holds the WS-Addressing state.
type Addressing struct {
	Enabled   bool
	MessageID string
	Action    string
	ReplyTo   string
	To        string
}

// Reliable holds the WS-ReliableMessaging state.
type Reliable struct {
	Enabled             bool
	ClientSequenceGUID  string
	ServerSequenceGUID  string
	ClientMessageNumber int
	ServerMessageNumber int
	LastMessage         bool
	AcknowledgedRanges  [][2]int
}

// Security holds the WS-Security envelope-protection state (separate
// from the UsernameToken state in security.go, which governs
// authentication rather than signing/encryption). The signing/
// encryption password itself is never stored here — it is passed
// directly to SignBody/EncryptBody/EncryptMessage and never retained
// on the message, so it cannot leak via a later Clone or log line.
type Security struct {
	Encryption    Encryption
	SigningMethod string // e.g. "sha256"
}

// Fault is the (code, actor, string, detail) quadruple, rendered in
// either the 1.1 or 1.2 envelope shape depending on the message's
// Version.
type Fault struct {
	Code   string
	Actor  string
	String string
	Detail string
}

func (f *Fault) IsSet() bool { return f != nil && (f.Code != "" || f.String != "") }

// HTTPContext mirrors the subset of the transport context the
// original keeps on SOAPMessage for convenience; the transport itself
// is an external collaborator.
type HTTPContext struct {
	Status      int
	SenderAddr  string
	AccessToken string
}

// UsageError marks a programmer misuse (never reaches the wire),
// replacing the original's thrown-exception discipline for invalid
// API calls (e.g. setting a header before a header exists, naming an
// element with a space).
type UsageError struct {
	Reason string
}

func (e *UsageError) Error() string { return "soapmsg: usage error: " + e.Reason }

// Message is the SOAP state machine: an xmlmodel.Message (Envelope
// document) plus the SOAP-specific fields layered on top.
type Message struct {
	Doc *xmlmodel.Message

	Version   Version
	SoapAction string
	Namespace string // service contract URI; action = last path segment

	Header          *xmlmodel.Element
	Body            *xmlmodel.Element
	ParameterObject *xmlmodel.Element

	Cookies *webcookie.Cookies
	Routing []string
	HTTP    HTTPContext

	FaultState *Fault

	Addressing Addressing
	Reliable   Reliable
	Security   Security

	Token Token // WS-Security UsernameToken (security.go)

	WSDLOrder WSDLOrder

	Err *xmlmodel.XmlError
}

// NewMessage returns an empty outgoing message for the given version.
func NewMessage(version Version) *Message {
	return &Message{
		Doc:     xmlmodel.NewMessage(),
		Version: version,
		Cookies: webcookie.NewCookies(),
	}
}

// HasError reports a parse/compose error recorded on the message.
func (m *Message) HasError() bool { return m.Err != nil && m.Err.Kind != xmlmodel.ErrNone }
