// Package wsdlcache generates and validates WSDL 1.1 contracts from a
// set of registered SOAP operation templates: the input/output
// SOAPMessage shapes double as both the documentation source and the
// runtime validator for incoming/outgoing traffic.
package wsdlcache

import (
	"fmt"

	"github.com/wsforge/fabric/soapmsg"
	"github.com/wsforge/fabric/xmlmodel"
)

// DefaultServicePostfix is the default suffix appended to the service
// name when building the WSDL/service endpoint address.
const DefaultServicePostfix = ".acx"

// Operation pairs a name with the request/response SOAPMessage
// templates WSDL generation and runtime validation are both driven
// from.
type Operation struct {
	Code   int
	Name   string
	Input  *soapmsg.Message
	Output *soapmsg.Message
}

// Cache is the registered operation set for one service contract, plus
// the binding flags controlling which SOAP version bindings
// GenerateWSDL emits.
type Cache struct {
	ServiceName     string
	TargetNamespace string
	Webroot         string
	URL             string
	AbsPath         string
	ServicePostfix  string

	PerformSoap11 bool
	PerformSoap12 bool

	Restrictions *xmlmodel.Restrictions

	operations map[string]*Operation
	order      []string
}

// New returns an empty cache for one service contract.
func New(serviceName, targetNamespace, url string) *Cache {
	return &Cache{
		ServiceName:     serviceName,
		TargetNamespace: targetNamespace,
		URL:             url,
		ServicePostfix:  DefaultServicePostfix,
		PerformSoap12:   true,
		Restrictions:    xmlmodel.NewRestrictions(),
		operations:      make(map[string]*Operation),
	}
}

// AddOperation copies both SOAPMessage templates into the operation
// map; a duplicate name is rejected.
func (c *Cache) AddOperation(code int, name string, input, output *soapmsg.Message) error {
	if _, exists := c.operations[name]; exists {
		return fmt.Errorf("wsdlcache: duplicate operation %q", name)
	}
	c.operations[name] = &Operation{
		Code:   code,
		Name:   name,
		Input:  input.Clone(),
		Output: output.Clone(),
	}
	c.order = append(c.order, name)
	return nil
}

// Lookup returns the operation registered under name.
func (c *Cache) Lookup(name string) (*Operation, bool) {
	op, ok := c.operations[name]
	return op, ok
}

// Operations returns every registered operation in registration order.
func (c *Cache) Operations() []*Operation {
	out := make([]*Operation, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.operations[name])
	}
	return out
}

// ServiceAddress is the endpoint location GenerateWSDL's wsdl:service
// block points at: {url}/{serviceName}{postfix}.
func (c *Cache) ServiceAddress() string {
	return c.URL + "/" + c.ServiceName + c.ServicePostfix
}
