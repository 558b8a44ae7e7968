package soapmsg

import (
	"strconv"
	"strings"

	"github.com/wsforge/fabric/httpmsg"
	"github.com/wsforge/fabric/jsonmodel"
	"github.com/wsforge/fabric/xmlmodel"
)

// FromXML parses a literal XML document into a SOAPMessage and runs
// CheckAfterParsing.
func FromXML(data []byte) *Message {
	doc := xmlmodel.Parse(data)
	m := &Message{Doc: doc}
	if doc.HasError() {
		m.Err = doc.Err
		return m
	}
	m.CheckAfterParsing()
	return m
}

// FromHTTP builds an incoming SOAPMessage from a parsed HTTPMessage:
// the body is parsed as XML, cookies/routing carry over, and VERB
// tunneling is resolved before SOAP decomposition.
func FromHTTP(req *httpmsg.Message) *Message {
	req.FindVerbTunneling()
	m := FromXML(req.Body)
	m.Cookies = req.Cookies
	m.Routing = req.Routing
	m.HTTP.AccessToken = req.AccessToken
	if ct, ok := req.Headers.Get("SOAPAction"); ok {
		m.SoapAction = soapActionTrim(ct)
	}
	return m
}

// FromJSON builds an incoming SOAPMessage from a JSON request body by
// bridging it to an XML parameter object first.
func FromJSON(rootName string, v jsonmodel.Value) *Message {
	el := jsonmodel.ToElement(rootName, v)
	m := &Message{Doc: xmlmodel.NewMessage(), Version: VersionPOS}
	m.Doc.Root = el
	m.ParameterObject = el
	return m
}

// ToJSON bridges the parameter object back to a JSON value per the
// SOAP<->JSON rule: same-named children become an array, otherwise an
// object; a childless element is a scalar.
func (m *Message) ToJSON() jsonmodel.Value {
	if m.ParameterObject == nil {
		return jsonmodel.Null()
	}
	return jsonmodel.FromElement(m.ParameterObject)
}

// NewOutgoing builds an empty outgoing request message bound to a
// contract namespace/action pair.
func NewOutgoing(namespace, action string, version Version) *Message {
	m := NewMessage(version)
	m.Namespace = namespace
	m.Addressing.Action = action
	m.SoapAction = namespace + "/" + action
	return m
}

// Clone deep-copies msg into a new Message, re-deriving the internal
// Header/Body/ParameterObject pointers by re-walking the copied tree
// rather than aliasing the source tree (resolves the "does Clone
// rebind element pointers into the new tree" ambiguity by always
// doing a full copy-then-relocate).
func (m *Message) Clone() *Message {
	clone := *m
	if m.Doc != nil {
		doc := *m.Doc
		doc.Root = cloneElement(m.Doc.Root)
		clone.Doc = &doc
	}
	clone.Header = nil
	clone.Body = nil
	clone.ParameterObject = nil
	if clone.Doc != nil && clone.Doc.Root != nil {
		clone.Header = clone.Doc.Root.FindFirst("Header")
		clone.Body = clone.Doc.Root.FindFirst("Body")
		if clone.Body != nil && len(clone.Body.Children) > 0 {
			clone.ParameterObject = clone.Body.Children[0]
		} else if clone.Body == nil {
			clone.ParameterObject = clone.Doc.Root
		}
	}
	// A parameter object not attached to the document tree is copied on its own.
	if clone.ParameterObject == nil && m.ParameterObject != nil {
		clone.ParameterObject = cloneElement(m.ParameterObject)
	}
	return &clone
}

func cloneElement(e *xmlmodel.Element) *xmlmodel.Element {
	if e == nil {
		return nil
	}
	cp := &xmlmodel.Element{
		Namespace:   e.Namespace,
		Name:        e.Name,
		Type:        e.Type,
		Value:       e.Value,
		Attributes:  append([]xmlmodel.Attribute(nil), e.Attributes...),
		Restriction: e.Restriction,
	}
	for _, c := range e.Children {
		cp.AddChild(cloneElement(c))
	}
	return cp
}

// CheckAfterParsing decomposes the parsed document into the SOAP
// fields per spec §4.7: locate Envelope/Header/Body (falling back to
// Plain-Old-SOAP mode when the root isn't an Envelope), detect a
// lone EncryptionData body/message wrapper and stop, extract the
// Action header and addressing/reliability state, and locate any
// Fault.
func (m *Message) CheckAfterParsing() {
	root := m.Doc.Root
	if root == nil {
		m.Doc.SetError(xmlmodel.ErrNoRootElement, "empty SOAP document", nil)
		m.Err = m.Doc.Err
		return
	}
	if root.Name != "Envelope" {
		m.Version = VersionPOS
		m.ParameterObject = root
		return
	}

	m.Header = root.FindFirst("Header")
	m.Body = root.FindFirst("Body")

	for _, a := range root.Attributes {
		if a.Namespace == "xmlns" && a.Name == "s" {
			if a.Value == NSEnvelope12 {
				m.Version = Version12
			} else if a.Value == NSEnvelope11 {
				m.Version = Version11
			}
			break
		}
	}

	if len(root.Children) == 1 {
		if enc := root.FindFirst("EncryptionData"); enc != nil {
			m.Security.Encryption = EncryptionMessage
			return
		}
	}
	if m.Body == nil {
		m.Doc.SetError(xmlmodel.ErrNoBody, "Envelope has no Body", root)
		m.Err = m.Doc.Err
		return
	}
	if enc := m.Body.FindFirst("EncryptionData"); enc != nil && len(m.Body.Children) == 1 {
		m.Security.Encryption = EncryptionBody
		return
	}

	if m.Header != nil {
		if action := m.Header.FindFirst("Action"); action != nil {
			m.Version = Version12
			m.SoapAction = action.Value
			if i := strings.LastIndex(action.Value, "/"); i >= 0 {
				m.Namespace = action.Value[:i]
				m.Addressing.Action = action.Value[i+1:]
			} else {
				m.Addressing.Action = action.Value
			}
		}
		if msgID := m.Header.FindFirst("MessageID"); msgID != nil {
			m.Addressing.Enabled = true
			m.Addressing.MessageID = msgID.Value
		}
		if to := m.Header.FindFirst("To"); to != nil {
			m.Addressing.To = to.Value
		}
		if seq := m.Header.FindFirst("Sequence"); seq != nil {
			m.Reliable.Enabled = true
			if ident := seq.FindFirst("Identifier"); ident != nil {
				m.Reliable.ClientSequenceGUID = ident.Value
			}
			if num := seq.FindFirst("MessageNumber"); num != nil {
				if n, err := strconv.Atoi(num.Value); err == nil {
					m.Reliable.ClientMessageNumber = n
				}
			}
			if seq.FindFirst("LastMessage") != nil {
				m.Reliable.LastMessage = true
			}
		}
		if ack := m.Header.FindFirst("SequenceAcknowledgement"); ack != nil {
			for _, rng := range ack.FindAll("AcknowledgementRange") {
				lower, _ := strconv.Atoi(firstAttr(rng, "Lower"))
				upper, _ := strconv.Atoi(firstAttr(rng, "Upper"))
				m.Reliable.AcknowledgedRanges = append(m.Reliable.AcknowledgedRanges, [2]int{lower, upper})
			}
		}
	}

	if len(m.Body.Children) > 0 {
		m.ParameterObject = m.Body.Children[0]
	}

	if fault := findFault(root); fault != nil {
		m.FaultState = parseFault(m.Version, fault)
	}
}

func firstAttr(e *xmlmodel.Element, name string) string {
	v, _ := e.Attribute(name)
	return v
}

func findFault(root *xmlmodel.Element) *xmlmodel.Element {
	var walk func(*xmlmodel.Element) *xmlmodel.Element
	walk = func(e *xmlmodel.Element) *xmlmodel.Element {
		if e.Name == "Fault" {
			return e
		}
		for _, c := range e.Children {
			if found := walk(c); found != nil {
				return found
			}
		}
		return nil
	}
	return walk(root)
}

func parseFault(version Version, fault *xmlmodel.Element) *Fault {
	if version == Version12 {
		f := &Fault{}
		if code := fault.FindFirst("Code"); code != nil {
			if v := code.FindFirst("Value"); v != nil {
				f.Code = v.Value
			}
			if subcode := code.FindFirst("Subcode"); subcode != nil {
				if v := subcode.FindFirst("Value"); v != nil {
					f.Actor = v.Value
				}
			}
		}
		if reason := fault.FindFirst("Reason"); reason != nil {
			if t := reason.FindFirst("Text"); t != nil {
				f.String = t.Value
			}
		}
		if detail := fault.FindFirst("Detail"); detail != nil {
			f.Detail = detail.Value
		}
		return f
	}
	f := &Fault{}
	if c := fault.FindFirst("faultcode"); c != nil {
		f.Code = c.Value
	}
	if a := fault.FindFirst("faultactor"); a != nil {
		f.Actor = a.Value
	}
	if s := fault.FindFirst("faultstring"); s != nil {
		f.String = s.Value
	}
	if d := fault.FindFirst("detail"); d != nil {
		f.Detail = d.Value
	}
	return f
}
