package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wsforge/fabric/jsonmodel"
	"github.com/wsforge/fabric/soapmsg"
	"github.com/wsforge/fabric/wsdlcache"
	"github.com/wsforge/fabric/xmlmodel"
)

// operationSpec is the small JSON shape fabricctl accepts to describe
// registered operations:
//
//	{"service": "Quote", "namespace": "urn:quote", "url": "http://localhost/ws",
//	 "operations": [
//	   {"code": 1, "name": "GetQuote",
//	    "fields": [{"name": "Symbol", "type": "string", "cardinality": "mandatory"}],
//	    "responseFields": [{"name": "Price", "type": "double"}]}
//	 ]}
func newWSDLCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wsdl",
		Short: "Generate or validate against a WSDL operation registry",
	}
	cmd.AddCommand(newWSDLGenerateCmd(), newWSDLValidateCmd())
	return cmd
}

func newWSDLGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate <spec.json>",
		Short: "Emit a WSDL 1.1 document from an operation-spec JSON file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, _, err := buildCacheFromSpec(args[0])
			if err != nil {
				return err
			}
			cmd.OutOrStdout().Write(cache.GenerateWSDL())
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}
	return cmd
}

func newWSDLValidateCmd() *cobra.Command {
	var direction string

	cmd := &cobra.Command{
		Use:   "validate <spec.json> <operation> <message.xml>",
		Short: "Validate a SOAP message against a registered operation template",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			cache, _, err := buildCacheFromSpec(args[0])
			if err != nil {
				return err
			}
			operation := args[1]
			data, err := readInput(args[2])
			if err != nil {
				return err
			}
			msg := soapmsg.FromXML(data)
			if msg.HasError() {
				return fmt.Errorf("parse soap message: %s", msg.Err.Error())
			}

			var ok bool
			switch direction {
			case "in", "incoming":
				ok = cache.CheckIncomingMessage(msg)
			case "out", "outgoing":
				ok = cache.CheckOutgoingMessage(msg, operation)
			default:
				return fmt.Errorf("--direction must be in or out")
			}

			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "INVALID: %s / %s\n", msg.FaultState.Code, msg.FaultState.String)
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}
	cmd.Flags().StringVar(&direction, "direction", "in", "validate as an incoming or outgoing message: in, out")
	return cmd
}

func buildCacheFromSpec(path string) (*wsdlcache.Cache, jsonmodel.Value, error) {
	data, err := readInput(path)
	if err != nil {
		return nil, jsonmodel.Value{}, err
	}
	spec, err := jsonmodel.Parse(data)
	if err != nil {
		return nil, jsonmodel.Value{}, fmt.Errorf("parse spec: %w", err)
	}

	service := stringField(spec, "service", "Service")
	namespace := stringField(spec, "namespace", "urn:fabricctl")
	url := stringField(spec, "url", "http://localhost")

	cache := wsdlcache.New(service, namespace, url)
	cache.PerformSoap11 = true

	opsVal, ok := spec.Get("operations")
	if !ok || opsVal.Kind != jsonmodel.KindArray {
		return nil, jsonmodel.Value{}, fmt.Errorf("spec missing \"operations\" array")
	}
	for i, opVal := range opsVal.Array {
		name := stringField(opVal, "name", "")
		if name == "" {
			return nil, jsonmodel.Value{}, fmt.Errorf("operations[%d] missing \"name\"", i)
		}
		code := int(intField(opVal, "code", int64(i+1)))

		in := soapmsg.NewOutgoing(namespace, name, soapmsg.Version12)
		in.SetSoapBody(name)
		addFields(in, opVal, "fields")

		out := soapmsg.NewOutgoing(namespace, name+"Response", soapmsg.Version12)
		out.SetSoapBody(name + "Response")
		addFields(out, opVal, "responseFields")

		if err := cache.AddOperation(code, name, in, out); err != nil {
			return nil, jsonmodel.Value{}, err
		}
	}
	return cache, spec, nil
}

func addFields(msg *soapmsg.Message, opVal jsonmodel.Value, key string) {
	fieldsVal, ok := opVal.Get(key)
	if !ok || fieldsVal.Kind != jsonmodel.KindArray {
		return
	}
	for _, f := range fieldsVal.Array {
		name := stringField(f, "name", "")
		if name == "" {
			continue
		}
		field := msg.SetParameter(name, "")
		field.Type.Data = dataTypeFor(stringField(f, "type", "string"))
		field.Type.Cardinality = cardinalityFor(stringField(f, "cardinality", "mandatory"))
	}
}

func stringField(v jsonmodel.Value, name, fallback string) string {
	field, ok := v.Get(name)
	if !ok || field.Kind != jsonmodel.KindString {
		return fallback
	}
	return field.Str
}

func intField(v jsonmodel.Value, name string, fallback int64) int64 {
	field, ok := v.Get(name)
	if !ok {
		return fallback
	}
	if field.Kind == jsonmodel.KindInt32 {
		return int64(field.Int32)
	}
	if field.Kind == jsonmodel.KindDecimal {
		return field.Decimal.IntPart()
	}
	return fallback
}

func dataTypeFor(name string) xmlmodel.DataType {
	switch name {
	case "int", "integer":
		return xmlmodel.TypeInteger
	case "bool", "boolean":
		return xmlmodel.TypeBoolean
	case "double", "float":
		return xmlmodel.TypeDouble
	case "base64":
		return xmlmodel.TypeBase64
	case "dateTime", "datetime":
		return xmlmodel.TypeDateTime
	default:
		return xmlmodel.TypeString
	}
}

func cardinalityFor(name string) xmlmodel.Cardinality {
	switch name {
	case "optional", "zeroOne":
		return xmlmodel.CardinalityOptional
	case "onceOnly":
		return xmlmodel.CardinalityOnceOnly
	case "zeroMany":
		return xmlmodel.CardinalityZeroMany
	case "oneMany":
		return xmlmodel.CardinalityOneMany
	default:
		return xmlmodel.CardinalityMandatory
	}
}
