package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runCmd(t *testing.T, args []string, stdin string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	cmd.SetArgs(args)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	if stdin != "" {
		cmd.SetIn(bytes.NewBufferString(stdin))
	}
	err := cmd.Execute()
	return out.String(), err
}

func TestFormatCommandPrettyPrintsXML(t *testing.T) {
	out, err := runCmd(t, []string{"format"}, `<Envelope><Body><GetQuote><Symbol>ACME</Symbol></GetQuote></Body></Envelope>`)
	require.NoError(t, err)
	assert.Contains(t, out, "<Symbol>ACME</Symbol>")
	assert.Contains(t, out, "\n")
}

func TestFormatCommandDetectsJSON(t *testing.T) {
	out, err := runCmd(t, []string{"format"}, `{"symbol": "ACME", "price": 12.5}`)
	require.NoError(t, err)
	assert.Contains(t, out, "ACME")
}

func TestQueryCommandWalksPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "msg.xml")
	require.NoError(t, os.WriteFile(file, []byte(`<Envelope><Body><GetQuote><Symbol>ACME</Symbol></GetQuote></Body></Envelope>`), 0o644))

	out, err := runCmd(t, []string{"query", "Envelope/Body/GetQuote/Symbol", file}, "")
	require.NoError(t, err)
	assert.Equal(t, "ACME\n", out)
}

func TestQueryCommandNoMatchFails(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "msg.xml")
	require.NoError(t, os.WriteFile(file, []byte(`<Envelope><Body/></Envelope>`), 0o644))

	_, err := runCmd(t, []string{"query", "Envelope/Body/Missing", file}, "")
	assert.Error(t, err)
}

func TestSoapCallDryRunPrintsComposedEnvelope(t *testing.T) {
	out, err := runCmd(t, []string{
		"soap-call", "--ns", "urn:quote", "--action", "GetQuote",
		"--version", "1.2", "--data", "Symbol=ACME", "--dry-run",
	}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "GetQuote")
	assert.Contains(t, out, "ACME")
}

func TestWSDLGenerateProducesServiceDefinition(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "spec.json")
	require.NoError(t, os.WriteFile(spec, []byte(`{
		"service": "Quote", "namespace": "urn:quote", "url": "http://localhost/ws",
		"operations": [
			{"code": 1, "name": "GetQuote",
			 "fields": [{"name": "Symbol", "type": "string", "cardinality": "mandatory"}],
			 "responseFields": [{"name": "Price", "type": "double"}]}
		]
	}`), 0o644))

	out, err := runCmd(t, []string{"wsdl", "generate", spec}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "GetQuote")
	assert.Contains(t, out, "urn:quote")
}

func TestWSDLValidateAcceptsMatchingMessage(t *testing.T) {
	dir := t.TempDir()
	spec := filepath.Join(dir, "spec.json")
	require.NoError(t, os.WriteFile(spec, []byte(`{
		"service": "Quote", "namespace": "urn:quote", "url": "http://localhost/ws",
		"operations": [
			{"code": 1, "name": "GetQuote",
			 "fields": [{"name": "Symbol", "type": "string", "cardinality": "mandatory"}]}
		]
	}`), 0o644))

	msgOut, err := runCmd(t, []string{
		"soap-call", "--ns", "urn:quote", "--action", "GetQuote",
		"--version", "1.2", "--data", "Symbol=ACME", "--dry-run",
	}, "")
	require.NoError(t, err)

	msgFile := filepath.Join(dir, "msg.xml")
	require.NoError(t, os.WriteFile(msgFile, []byte(msgOut), 0o644))

	out, err := runCmd(t, []string{"wsdl", "validate", spec, "GetQuote", msgFile, "--direction", "in"}, "")
	require.NoError(t, err)
	assert.Contains(t, out, "OK")
}
