package soapmsg

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/wsforge/fabric/xmlmodel"
)

// newSoapElement returns a childless element namespaced with prefix
// (e.g. "s", "a", "rm", "wsse") under the SOAP/WS-* namespace set; the
// prefix is carried on Element.Namespace, and the matching
// xmlns:prefix declaration is added to the Envelope root separately by
// ensureEnvelopeNamespace while the message is composed.
func newSoapElement(prefix, name string) *xmlmodel.Element {
	return &xmlmodel.Element{Namespace: prefix, Name: name}
}

// ensureEnvelopeNamespace records an xmlns:prefix declaration on the
// Envelope root, adding it only once.
func (m *Message) ensureEnvelopeNamespace(prefix, uri string) {
	root := m.Doc.Root
	if root == nil {
		return
	}
	attrName := "xmlns:" + prefix
	if _, ok := root.Attribute(attrName); ok {
		return
	}
	root.SetAttribute(attrName, uri)
}

func (m *Message) ensureHeader() *xmlmodel.Element {
	if m.Header != nil {
		return m.Header
	}
	root := m.ensureRoot()
	header := newSoapElement("s", "Header")
	root.Children = append([]*xmlmodel.Element{header}, root.Children...)
	header.Parent = root
	m.Header = header
	return header
}

func (m *Message) ensureBody() *xmlmodel.Element {
	if m.Body != nil {
		return m.Body
	}
	body := newSoapElement("s", "Body")
	m.ensureRoot().AddChild(body)
	m.Body = body
	return body
}

// ensureRoot guarantees the document has an Envelope root, creating
// one (with its baseline namespace declarations) on first use.
func (m *Message) ensureRoot() *xmlmodel.Element {
	if m.Doc.Root == nil {
		m.Doc.Root = newSoapElement("s", "Envelope")
		m.Doc.Root.SetAttribute("xmlns:s", envelopeNamespace(m.Version))
		m.Doc.Root.SetAttribute("xmlns:i", NSXSI)
		m.Doc.Root.SetAttribute("xmlns:xsd", NSXSD)
	}
	return m.Doc.Root
}

// SetSoapEnvelope guarantees the Envelope root and its baseline
// namespace declarations per spec §4.7 step 1: i/xsd always; a (WS-
// Addressing) iff addressing, reliable messaging, or 1.2; s/rm for
// reliable messaging; ds/xenc/wsse/wsu iff encryption is not Plain.
func (m *Message) SetSoapEnvelope() error {
	if m.Version == VersionPOS {
		return &UsageError{Reason: "SetSoapEnvelope requires SOAP 1.1 or 1.2"}
	}
	if m.Doc.Root == nil {
		m.Doc.Root = newSoapElement("s", "Envelope")
	}
	root := m.Doc.Root
	root.SetAttribute("xmlns:s", envelopeNamespace(m.Version))
	root.SetAttribute("xmlns:i", NSXSI)
	root.SetAttribute("xmlns:xsd", NSXSD)

	if m.Addressing.Enabled || m.Reliable.Enabled || m.Version == Version12 {
		m.ensureEnvelopeNamespace("a", NSAddressing)
	}
	if m.Reliable.Enabled {
		m.ensureEnvelopeNamespace("rm", NSReliable)
	}
	if m.Security.Encryption != EncryptionPlain {
		m.ensureEnvelopeNamespace("ds", NSDSig)
		m.ensureEnvelopeNamespace("xenc", NSXMLEnc)
		m.ensureEnvelopeNamespace("wsse", NSWSSecurity)
		m.ensureEnvelopeNamespace("wsu", NSWSUtility)
	}
	return nil
}

// SetSoapHeader inserts WS-Addressing and WS-ReliableMessaging header
// blocks per spec §4.7 step 3.
func (m *Message) SetSoapHeader() {
	header := m.ensureHeader()

	action := newSoapElement("a", "Action")
	action.Value = m.Namespace + "/" + m.Addressing.Action
	header.AddChild(action)

	if m.Addressing.Enabled {
		if m.Addressing.MessageID == "" {
			m.Addressing.MessageID = "urn:uuid:" + uuid.New().String()
		}
		msgID := newSoapElement("a", "MessageID")
		msgID.Value = m.Addressing.MessageID
		header.AddChild(msgID)

		replyTo := newSoapElement("a", "ReplyTo")
		addr := newSoapElement("a", "Address")
		addr.Value = "http://www.w3.org/2005/08/addressing/anonymous"
		replyTo.AddChild(addr)
		header.AddChild(replyTo)

		to := newSoapElement("a", "To")
		to.Value = m.Addressing.To
		to.SetAttribute("s:mustUnderstand", "1")
		header.AddChild(to)
	}

	if m.Reliable.Enabled {
		ack := newSoapElement("rm", "SequenceAcknowledgement")
		lower, upper := 1, m.Reliable.ServerMessageNumber
		if len(m.Reliable.AcknowledgedRanges) > 0 {
			r := m.Reliable.AcknowledgedRanges[len(m.Reliable.AcknowledgedRanges)-1]
			lower, upper = r[0], r[1]
		}
		rng := newSoapElement("rm", "AcknowledgementRange")
		rng.SetAttribute("Lower", strconv.Itoa(lower))
		rng.SetAttribute("Upper", strconv.Itoa(upper))
		ack.AddChild(rng)
		header.AddChild(ack)

		seq := newSoapElement("rm", "Sequence")
		ident := newSoapElement("rm", "Identifier")
		ident.Value = m.Reliable.ClientSequenceGUID
		seq.AddChild(ident)
		num := newSoapElement("rm", "MessageNumber")
		num.Value = strconv.Itoa(m.Reliable.ClientMessageNumber)
		seq.AddChild(num)
		if m.Reliable.LastMessage {
			seq.AddChild(newSoapElement("rm", "LastMessage"))
		}
		header.AddChild(seq)
	}
}

// SetSoapBody ensures the Body element and, within it, the parameter
// object carrying the operation's xmlns per spec §4.7 step 4.
func (m *Message) SetSoapBody(parameterName string) *xmlmodel.Element {
	body := m.ensureBody()
	if m.ParameterObject == nil {
		m.ParameterObject = newSoapElement("", parameterName)
		body.AddChild(m.ParameterObject)
	}
	if _, ok := m.ParameterObject.Attribute("xmlns"); !ok {
		m.ParameterObject.SetAttribute("xmlns", m.Namespace)
	}
	return m.ParameterObject
}

// soapActionTrim strips the optional surrounding quotes HTTP clients
// historically wrap a SOAPAction header value in.
func soapActionTrim(s string) string {
	return strings.Trim(strings.TrimSpace(s), `"`)
}

// ResolveAction applies the SOAPAction precedence rule (spec §4.7):
// for SOAP >= 1.2, an envelope Action header overrides the transport
// SOAPAction header; for <= 1.1, the transport header is authoritative.
func (m *Message) ResolveAction(httpSoapAction string) string {
	httpSoapAction = soapActionTrim(httpSoapAction)
	envelopeAction := soapActionTrim(m.SoapAction)
	if m.Version == Version12 && envelopeAction != "" {
		return envelopeAction
	}
	if httpSoapAction != "" {
		return httpSoapAction
	}
	return envelopeAction
}

// SetFault records the fault quadruple for serialization by
// ComposeFault / GetSoapMessage.
func (m *Message) SetFault(code, actor, message, detail string) {
	m.FaultState = &Fault{Code: code, Actor: actor, String: message, Detail: detail}
}

// composeFault serializes FaultState into the Body in the shape
// matching m.Version (1.1: faultcode/faultactor/faultstring/detail;
// 1.2: Code/Value+Subcode/Value; Reason/Text; Detail).
func (m *Message) composeFault() {
	body := m.ensureBody()
	body.Children = nil
	f := m.FaultState

	if m.Version == Version12 {
		fault := newSoapElement("s", "Fault")
		code := newSoapElement("s", "Code")
		value := newSoapElement("s", "Value")
		value.Value = f.Code
		code.AddChild(value)
		if f.Actor != "" {
			subcode := newSoapElement("s", "Subcode")
			subcodeValue := newSoapElement("s", "Value")
			subcodeValue.Value = f.Actor
			subcode.AddChild(subcodeValue)
			code.AddChild(subcode)
		}
		fault.AddChild(code)

		reason := newSoapElement("s", "Reason")
		text := newSoapElement("s", "Text")
		text.Value = f.String
		reason.AddChild(text)
		fault.AddChild(reason)

		if f.Detail != "" {
			detail := newSoapElement("s", "Detail")
			detail.Value = f.Detail
			fault.AddChild(detail)
		}
		body.AddChild(fault)
		return
	}

	fault := newSoapElement("", "Fault")
	fault.AddChild(&xmlmodel.Element{Name: "faultcode", Value: f.Code})
	fault.AddChild(&xmlmodel.Element{Name: "faultactor", Value: f.Actor})
	fault.AddChild(&xmlmodel.Element{Name: "faultstring", Value: f.String})
	if f.Detail != "" {
		fault.AddChild(&xmlmodel.Element{Name: "detail", Value: f.Detail})
	}
	body.AddChild(fault)
}

// GetSoapMessage runs the composition pipeline and returns the
// serialized envelope bytes. SignBody/EncryptBody are applied by the
// caller before calling this, since they mutate the Body the printer
// then serializes; EncryptMessage instead calls GetSoapMessage itself
// and wraps the serialized envelope.
func (m *Message) GetSoapMessage() ([]byte, error) {
	if m.Version == VersionPOS {
		m.Doc.Root = m.ParameterObject
		return xmlmodel.Print(m.Doc), nil
	}
	if err := m.SetSoapEnvelope(); err != nil {
		return nil, err
	}
	if m.FaultState.IsSet() {
		m.composeFault()
		return xmlmodel.Print(m.Doc), nil
	}
	m.SetSoapHeader()
	if m.ParameterObject != nil {
		m.SetSoapBody(m.ParameterObject.Name)
	} else {
		m.ensureBody()
	}
	return xmlmodel.Print(m.Doc), nil
}

// SetParameter is the find-or-insert half of the parameter API: it
// updates value if name already exists as a direct child of the
// parameter object, else appends a new child.
func (m *Message) SetParameter(name, value string) *xmlmodel.Element {
	obj := m.ensureParameterObject()
	if el := obj.FindFirst(name); el != nil {
		el.Value = value
		return el
	}
	return obj.AddElement(name, value)
}

// SetParameterInt formats an int32 with %d, the fixed-width integer
// format the wire contract requires.
func (m *Message) SetParameterInt(name string, value int32) *xmlmodel.Element {
	return m.SetParameter(name, fmt.Sprintf("%d", value))
}

// SetParameterInt64 formats an int64 with %d.
func (m *Message) SetParameterInt64(name string, value int64) *xmlmodel.Element {
	return m.SetParameter(name, fmt.Sprintf("%d", value))
}

// SetParameterBool formats a bool as "true"/"false".
func (m *Message) SetParameterBool(name string, value bool) *xmlmodel.Element {
	if value {
		return m.SetParameter(name, "true")
	}
	return m.SetParameter(name, "false")
}

// SetParameterDouble formats a float64 trimmed of trailing zeros, no
// exponent notation, matching the bookkeeping-decimal wire format.
func (m *Message) SetParameterDouble(name string, value float64) *xmlmodel.Element {
	return m.SetParameter(name, xmlmodel.FormatBCD(value))
}

func (m *Message) ensureParameterObject() *xmlmodel.Element {
	if m.ParameterObject != nil {
		return m.ParameterObject
	}
	if m.Version == VersionPOS {
		if m.Doc.Root == nil {
			m.Doc.Root = newSoapElement("", "Request")
		}
		m.ParameterObject = m.Doc.Root
		return m.ParameterObject
	}
	return m.SetSoapBody("Request")
}
