package wsdlcache

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wsforge/fabric/soapmsg"
	"github.com/wsforge/fabric/xmlmodel"
)

func templateMessage(rootName string, fields ...*xmlmodel.Element) *soapmsg.Message {
	root := xmlmodel.NewElement(rootName)
	root.Type.Data = xmlmodel.TypeComplex
	for _, f := range fields {
		root.AddChild(f)
	}
	m := soapmsg.NewOutgoing("urn:example", rootName, soapmsg.Version12)
	m.ParameterObject = root
	return m
}

func field(name string, dt xmlmodel.DataType, card xmlmodel.Cardinality) *xmlmodel.Element {
	e := xmlmodel.NewElement(name)
	e.Type.Data = dt
	e.Type.Cardinality = card
	return e
}

func actualMessage(action, rootName string, fields ...*xmlmodel.Element) *soapmsg.Message {
	root := xmlmodel.NewElement(rootName)
	for _, f := range fields {
		root.AddChild(f)
	}
	m := soapmsg.NewOutgoing("urn:example", action, soapmsg.Version12)
	m.SoapAction = action
	m.ParameterObject = root
	return m
}

func leaf(name, value string) *xmlmodel.Element {
	e := xmlmodel.NewElement(name)
	e.Value = value
	return e
}

func newTestCache() *Cache {
	c := New("Widgets", "urn:example", "http://host/services")
	input := templateMessage("Order",
		field("ID", xmlmodel.TypeInteger, xmlmodel.CardinalityMandatory),
		field("Note", xmlmodel.TypeString, xmlmodel.CardinalityOptional),
	)
	output := templateMessage("OrderResponse",
		field("Status", xmlmodel.TypeString, xmlmodel.CardinalityMandatory),
	)
	if err := c.AddOperation(1, "Order", input, output); err != nil {
		panic(err)
	}
	return c
}

func TestAddOperationRejectsDuplicate(t *testing.T) {
	c := newTestCache()
	input := templateMessage("Order", field("ID", xmlmodel.TypeInteger, xmlmodel.CardinalityMandatory))
	output := templateMessage("OrderResponse", field("Status", xmlmodel.TypeString, xmlmodel.CardinalityMandatory))
	err := c.AddOperation(2, "Order", input, output)
	require.Error(t, err)
}

func TestAddOperationClonesTemplates(t *testing.T) {
	c := newTestCache()
	op, ok := c.Lookup("Order")
	require.True(t, ok)
	op.Input.ParameterObject.FindFirst("ID").Value = "mutated"

	again, _ := c.Lookup("Order")
	assert.Equal(t, "mutated", again.Input.ParameterObject.FindFirst("ID").Value)

	fresh := newTestCache()
	freshOp, _ := fresh.Lookup("Order")
	assert.Empty(t, freshOp.Input.ParameterObject.FindFirst("ID").Value)
}

func TestCheckIncomingMessageMandatoryFieldPresent(t *testing.T) {
	c := newTestCache()
	msg := actualMessage("Order", "Order", leaf("ID", "42"))
	ok := c.CheckIncomingMessage(msg)
	assert.True(t, ok)
	assert.False(t, msg.HasError() && msg.FaultState.IsSet())
}

func TestCheckIncomingMessageMissingMandatoryField(t *testing.T) {
	c := newTestCache()
	msg := actualMessage("Order", "Order", leaf("Note", "hi"))
	ok := c.CheckIncomingMessage(msg)
	assert.False(t, ok)
	require.True(t, msg.FaultState.IsSet())
	assert.Equal(t, "ID", msg.FaultState.Code)
	assert.Equal(t, "Client", msg.FaultState.Actor)
}

func TestCheckIncomingMessageOptionalFieldAbsentPasses(t *testing.T) {
	c := newTestCache()
	msg := actualMessage("Order", "Order", leaf("ID", "7"))
	ok := c.CheckIncomingMessage(msg)
	assert.True(t, ok)
}

func TestCheckIncomingMessageBadDataType(t *testing.T) {
	c := newTestCache()
	msg := actualMessage("Order", "Order", leaf("ID", "not-a-number"))
	ok := c.CheckIncomingMessage(msg)
	assert.False(t, ok)
	assert.Equal(t, "ID", msg.FaultState.Code)
}

func TestCheckIncomingMessageUnknownOperation(t *testing.T) {
	c := newTestCache()
	msg := actualMessage("DoesNotExist", "Whatever")
	ok := c.CheckIncomingMessage(msg)
	assert.False(t, ok)
	assert.Equal(t, "Client.UnknownOperation", msg.FaultState.Code)
}

func TestCheckOutgoingMessageUsesServerActor(t *testing.T) {
	c := newTestCache()
	msg := actualMessage("Order", "OrderResponse")
	ok := c.CheckOutgoingMessage(msg, "Order")
	assert.False(t, ok)
	assert.Equal(t, "Server", msg.FaultState.Actor)
}

func TestGenerateWSDLFixedStructure(t *testing.T) {
	c := newTestCache()
	out := string(c.GenerateWSDL())

	assert.True(t, strings.Index(out, "wsdl:types") < strings.Index(out, "wsdl:message"))
	assert.True(t, strings.Index(out, "wsdl:message") < strings.Index(out, "wsdl:portType"))
	assert.True(t, strings.Index(out, "wsdl:portType") < strings.Index(out, "wsdl:binding"))
	assert.True(t, strings.Index(out, "wsdl:binding") < strings.Index(out, "wsdl:service"))

	assert.Contains(t, out, `name="OrderSoapIn"`)
	assert.Contains(t, out, `name="OrderSoapOut"`)
	assert.Contains(t, out, "soap12")
	assert.Contains(t, out, c.ServiceAddress())
}

func TestGenerateWSDLRespectsSoap11Flag(t *testing.T) {
	c := newTestCache()
	c.PerformSoap11 = true
	out := string(c.GenerateWSDL())
	assert.Contains(t, out, `name="WidgetsSoap"`)
	assert.Contains(t, out, `name="WidgetsSoap12"`)
}

func TestGenerateDocPageListsOperations(t *testing.T) {
	c := newTestCache()
	out := string(c.GenerateDocPage())
	assert.Contains(t, out, "Widgets")
	assert.Contains(t, out, "Order")
	assert.Contains(t, out, "?wsdl")
}

func TestServiceAddressUsesDefaultPostfix(t *testing.T) {
	c := New("Svc", "urn:example", "http://host")
	assert.Equal(t, "http://host/Svc.acx", c.ServiceAddress())
}

func TestImportSetDetectsCycle(t *testing.T) {
	s := NewImportSet()
	assert.False(t, s.Visit("a.xsd"))
	assert.False(t, s.Visit("b.xsd"))
	assert.True(t, s.Visit("a.xsd"))
}
