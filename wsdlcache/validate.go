package wsdlcache

import (
	"fmt"
	"strings"

	"github.com/wsforge/fabric/soapmsg"
	"github.com/wsforge/fabric/xmlmodel"
)

// CheckIncomingMessage validates msg's parameter object against the
// registered operation's Input template (the operation is named by the
// last "/"-separated segment of msg.SoapAction): a non-backtracking,
// first-match-wins walk over the template's children in declaration
// order (mirroring the template's Ordering — Sequence/All both match
// positionally, Choice checks only the first actual child against the
// template child of the same name). The first mismatch is reported as
// a SOAP Fault on msg and the function returns false.
func (c *Cache) CheckIncomingMessage(msg *soapmsg.Message) bool {
	name := msg.SoapAction
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 {
		name = name[idx+1:]
	}
	op, ok := c.Lookup(name)
	if !ok {
		msg.SetFault("Client.UnknownOperation", "Client", fmt.Sprintf("no operation named %q", msg.SoapAction), "")
		return false
	}
	return c.checkAgainstTemplate(msg, op.Input, "Client")
}

// CheckOutgoingMessage validates msg's parameter object against the
// registered operation's Output template, the same way
// CheckIncomingMessage validates against Input.
func (c *Cache) CheckOutgoingMessage(msg *soapmsg.Message, operationName string) bool {
	op, ok := c.Lookup(operationName)
	if !ok {
		msg.SetFault("Server.UnknownOperation", "Server", fmt.Sprintf("no operation named %q", operationName), "")
		return false
	}
	return c.checkAgainstTemplate(msg, op.Output, "Server")
}

func (c *Cache) checkAgainstTemplate(msg *soapmsg.Message, template *soapmsg.Message, actor string) bool {
	var templateRoot, actualRoot *xmlmodel.Element
	if template != nil {
		templateRoot = template.ParameterObject
	}
	actualRoot = msg.ParameterObject

	if templateRoot == nil {
		return true
	}
	if actualRoot == nil {
		msg.SetFault(actor, actor, "missing message body", "")
		return false
	}
	if actualRoot.Name != templateRoot.Name {
		msg.SetFault(actualRoot.Name, actor, "unexpected parameter object "+actualRoot.Name, "")
		return false
	}

	if errField, reason := c.matchElement(templateRoot, actualRoot); reason != "" {
		msg.SetFault(errField, actor, reason, "")
		return false
	}
	return true
}

// matchElement walks template's children against actual's children
// positionally, first-match-wins: Sequence/All require every
// mandatory template field to be satisfied in order; Choice accepts
// whichever template child matches the next actual child.
func (c *Cache) matchElement(template, actual *xmlmodel.Element) (field, reason string) {
	switch template.Type.Order {
	case xmlmodel.OrderingChoice:
		return c.matchChoice(template, actual)
	default:
		return c.matchSequence(template, actual)
	}
}

func (c *Cache) matchSequence(template, actual *xmlmodel.Element) (field, reason string) {
	actualIdx := 0
	for _, want := range template.Children {
		repeating := want.Type.Cardinality == xmlmodel.CardinalityZeroMany || want.Type.Cardinality == xmlmodel.CardinalityOneMany
		count := 0
		for {
			matched, err := c.takeNext(want, actual.Children, &actualIdx)
			if err != "" {
				return want.Name, err
			}
			if matched == nil {
				break
			}
			count++
			if field, reason := c.checkLeafOrRecurse(want, matched); reason != "" {
				return field, reason
			}
			if !repeating {
				break
			}
		}
		if want.Type.Cardinality == xmlmodel.CardinalityOneMany && count == 0 {
			return want.Name, fmt.Sprintf("missing required field %q", want.Name)
		}
	}
	return "", ""
}

func (c *Cache) matchChoice(template, actual *xmlmodel.Element) (field, reason string) {
	if len(actual.Children) == 0 {
		return template.Name, "choice group had no matching field"
	}
	first := actual.Children[0]
	for _, want := range template.Children {
		if want.Name == first.Name {
			return c.checkLeafOrRecurse(want, first)
		}
	}
	return first.Name, fmt.Sprintf("%q is not a valid choice among the declared fields", first.Name)
}

// takeNext consumes the next actual child matching want's name,
// respecting Cardinality: a missing mandatory field is an error; a
// missing optional field returns (nil, "").
func (c *Cache) takeNext(want *xmlmodel.Element, actual []*xmlmodel.Element, idx *int) (*xmlmodel.Element, string) {
	if *idx < len(actual) && actual[*idx].Name == want.Name {
		found := actual[*idx]
		*idx++
		return found, ""
	}
	switch want.Type.Cardinality {
	case xmlmodel.CardinalityOptional, xmlmodel.CardinalityZeroOne, xmlmodel.CardinalityZeroMany:
		return nil, ""
	default:
		return nil, fmt.Sprintf("missing required field %q", want.Name)
	}
}

func (c *Cache) checkLeafOrRecurse(want, got *xmlmodel.Element) (field, reason string) {
	if want.Type.Data == xmlmodel.TypeComplex {
		if f, r := c.matchElement(want, got); r != "" {
			return f, r
		}
		return "", ""
	}
	if msg := xmlmodel.CheckDataType(want.Type.Data, got.Value); msg != "" {
		return want.Name, msg
	}
	if want.Restriction != nil {
		if msg := want.Restriction.Check(got.Value); msg != "" {
			return want.Name, msg
		}
	}
	return "", ""
}
