package wsdlcache

import (
	"github.com/wsforge/fabric/soapmsg"
	"github.com/wsforge/fabric/xmlmodel"
)

const (
	nsSoap11          = "http://schemas.xmlsoap.org/wsdl/soap/"
	nsSoap12          = "http://schemas.xmlsoap.org/wsdl/soap12/"
	nsTm              = "http://microsoft.com/wsdl/mime/textMatching/"
	nsSoapenc         = "http://schemas.xmlsoap.org/soap/encoding/"
	nsMime            = "http://schemas.xmlsoap.org/wsdl/mime/"
	nsS               = "http://www.w3.org/2001/XMLSchema"
	nsHTTP            = "http://schemas.xmlsoap.org/wsdl/http/"
	nsWsdl            = "http://schemas.xmlsoap.org/wsdl/"
	nsSoap11Transport = "http://schemas.xmlsoap.org/soap/http"
)

func el(prefix, name string) *xmlmodel.Element {
	return &xmlmodel.Element{Namespace: prefix, Name: name}
}

// GenerateWSDL emits a WSDL 1.1 document for every registered
// operation in the fixed order from spec §4.9: types/schema, message,
// portType, binding (soap11/soap12 per the Perform flags), service,
// wrapped in the definitions element with its fixed namespace prelude.
func (c *Cache) GenerateWSDL() []byte {
	defs := el("wsdl", "definitions")
	defs.SetAttribute("targetNamespace", c.TargetNamespace)
	defs.SetAttribute("xmlns:soap", nsSoap11)
	defs.SetAttribute("xmlns:soap12", nsSoap12)
	defs.SetAttribute("xmlns:tm", nsTm)
	defs.SetAttribute("xmlns:soapenc", nsSoapenc)
	defs.SetAttribute("xmlns:mime", nsMime)
	defs.SetAttribute("xmlns:s", nsS)
	defs.SetAttribute("xmlns:http", nsHTTP)
	defs.SetAttribute("xmlns:wsdl", nsWsdl)
	defs.SetAttribute("xmlns:tns", c.TargetNamespace)

	defs.AddChild(c.genTypes())
	for _, op := range c.Operations() {
		defs.AddChild(genMessage(op.Name+"SoapIn", op.Name))
		defs.AddChild(genMessage(op.Name+"SoapOut", op.Name+"Response"))
	}
	defs.AddChild(c.genPortType())
	if c.PerformSoap11 {
		defs.AddChild(c.genBinding("soap", false))
	}
	if c.PerformSoap12 {
		defs.AddChild(c.genBinding("soap12", true))
	}
	defs.AddChild(c.genService())

	doc := xmlmodel.NewMessage()
	doc.Root = defs
	return xmlmodel.Print(doc)
}

func (c *Cache) genTypes() *xmlmodel.Element {
	types := el("wsdl", "types")
	schema := el("s", "schema")
	schema.SetAttribute("elementFormDefault", "qualified")
	schema.SetAttribute("targetNamespace", c.TargetNamespace)
	for _, op := range c.Operations() {
		schema.AddChild(genOperationElement(op.Name, op.Input))
		schema.AddChild(genOperationElement(op.Name+"Response", op.Output))
	}
	types.AddChild(schema)
	return types
}

// genOperationElement builds <s:element name="..."><s:complexType>...
// from a SOAPMessage template's parameter object, one <s:element> per
// template field with minOccurs/maxOccurs derived from its Cardinality
// and an XSD type derived from its DataType.
func genOperationElement(name string, msg *soapmsg.Message) *xmlmodel.Element {
	elNode := el("s", "element")
	elNode.SetAttribute("name", name)
	complexType := el("s", "complexType")

	var template *xmlmodel.Element
	if msg != nil {
		template = msg.ParameterObject
	}
	if template != nil && len(template.Children) > 0 {
		complexType.AddChild(genOrderGroup(template, template.Type.Order))
	}
	elNode.AddChild(complexType)
	return elNode
}

func genOrderGroup(template *xmlmodel.Element, order xmlmodel.Ordering) *xmlmodel.Element {
	groupName := "sequence"
	switch order {
	case xmlmodel.OrderingChoice:
		groupName = "choice"
	case xmlmodel.OrderingAll:
		groupName = "all"
	}
	group := el("s", groupName)
	for _, field := range template.Children {
		group.AddChild(genFieldElement(field))
	}
	return group
}

func genFieldElement(field *xmlmodel.Element) *xmlmodel.Element {
	e := el("s", "element")
	e.SetAttribute("name", field.Name)
	min, max := occursFor(field.Type.Cardinality)
	e.SetAttribute("minOccurs", min)
	e.SetAttribute("maxOccurs", max)

	if field.Type.Data == xmlmodel.TypeComplex && len(field.Children) > 0 {
		ct := el("s", "complexType")
		ct.AddChild(genOrderGroup(field, field.Type.Order))
		e.AddChild(ct)
	} else {
		e.SetAttribute("type", xsdTypeName(field.Type.Data))
	}
	return e
}

func occursFor(c xmlmodel.Cardinality) (min, max string) {
	switch c {
	case xmlmodel.CardinalityOptional, xmlmodel.CardinalityZeroOne:
		return "0", "1"
	case xmlmodel.CardinalityZeroMany:
		return "0", "unbounded"
	case xmlmodel.CardinalityOneMany:
		return "1", "unbounded"
	default: // Mandatory, OnceOnly
		return "1", "1"
	}
}

func xsdTypeName(dt xmlmodel.DataType) string {
	switch dt {
	case xmlmodel.TypeInteger:
		return "s:int"
	case xmlmodel.TypeBoolean:
		return "s:boolean"
	case xmlmodel.TypeDouble:
		return "s:double"
	case xmlmodel.TypeBase64:
		return "s:base64Binary"
	case xmlmodel.TypeDateTime:
		return "s:dateTime"
	default:
		return "s:string"
	}
}

// genMessage emits <wsdl:message name="..."><part name="parameters"
// element="tns:Name"/></wsdl:message>.
func genMessage(messageName, elementName string) *xmlmodel.Element {
	m := el("wsdl", "message")
	m.SetAttribute("name", messageName)
	part := el("wsdl", "part")
	part.SetAttribute("name", "parameters")
	part.SetAttribute("element", "tns:"+elementName)
	m.AddChild(part)
	return m
}

func (c *Cache) genPortType() *xmlmodel.Element {
	pt := el("wsdl", "portType")
	pt.SetAttribute("name", c.ServiceName+"Soap")
	for _, op := range c.Operations() {
		o := el("wsdl", "operation")
		o.SetAttribute("name", op.Name)
		in := el("wsdl", "input")
		in.SetAttribute("message", "tns:"+op.Name+"SoapIn")
		out := el("wsdl", "output")
		out.SetAttribute("message", "tns:"+op.Name+"SoapOut")
		o.AddChild(in)
		o.AddChild(out)
		pt.AddChild(o)
	}
	return pt
}

func (c *Cache) genBinding(prefix string, is12 bool) *xmlmodel.Element {
	b := el("wsdl", "binding")
	b.SetAttribute("name", c.ServiceName+"Soap"+bindingSuffix(is12))
	b.SetAttribute("type", "tns:"+c.ServiceName+"Soap")

	transport := el(prefix, "binding")
	transport.SetAttribute("transport", nsSoap11Transport)
	transport.SetAttribute("style", "document")
	b.AddChild(transport)

	for _, op := range c.Operations() {
		o := el("wsdl", "operation")
		o.SetAttribute("name", op.Name)

		action := el(prefix, "operation")
		action.SetAttribute("soapAction", c.TargetNamespace+"/"+op.Name)
		action.SetAttribute("style", "document")
		o.AddChild(action)

		in := el("wsdl", "input")
		inBody := el(prefix, "body")
		inBody.SetAttribute("use", "literal")
		in.AddChild(inBody)
		o.AddChild(in)

		out := el("wsdl", "output")
		outBody := el(prefix, "body")
		outBody.SetAttribute("use", "literal")
		out.AddChild(outBody)
		o.AddChild(out)

		b.AddChild(o)
	}
	return b
}

func bindingSuffix(is12 bool) string {
	if is12 {
		return "12"
	}
	return ""
}

func (c *Cache) genService() *xmlmodel.Element {
	svc := el("wsdl", "service")
	svc.SetAttribute("name", c.ServiceName)

	if c.PerformSoap11 {
		port := el("wsdl", "port")
		port.SetAttribute("name", c.ServiceName+"Soap")
		port.SetAttribute("binding", "tns:"+c.ServiceName+"Soap")
		addr := el("soap", "address")
		addr.SetAttribute("location", c.ServiceAddress())
		port.AddChild(addr)
		svc.AddChild(port)
	}
	if c.PerformSoap12 {
		port := el("wsdl", "port")
		port.SetAttribute("name", c.ServiceName+"Soap12")
		port.SetAttribute("binding", "tns:"+c.ServiceName+"Soap12")
		addr := el("soap12", "address")
		addr.SetAttribute("location", c.ServiceAddress())
		port.AddChild(addr)
		svc.AddChild(port)
	}
	return svc
}
