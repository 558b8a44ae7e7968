package wsdlcache

import (
	"bytes"
	"html/template"
)

var docPageTemplate = template.Must(template.New("wsdlcache-doc").Parse(`<!DOCTYPE html>
<html>
<head><title>{{.ServiceName}}</title></head>
<body>
<h1>{{.ServiceName}}</h1>
<p>Target namespace: {{.TargetNamespace}}</p>
<p><a href="?wsdl">Service description (WSDL)</a></p>
<ul>
{{range .Operations}}<li><strong>{{.Name}}</strong> (code {{.Code}}) &mdash; SOAPAction: <code>{{$.TargetNamespace}}/{{.Name}}</code></li>
{{end}}</ul>
</body>
</html>
`))

// GenerateDocPage renders a minimal human-readable HTML page listing
// every registered operation and a link to the WSDL description, the
// same service-browsing page a generated WSDL endpoint conventionally
// serves alongside ?wsdl.
func (c *Cache) GenerateDocPage() []byte {
	var buf bytes.Buffer
	// template.Must already validated the template; execution against
	// a fixed, known-shape struct cannot fail.
	_ = docPageTemplate.Execute(&buf, c)
	return buf.Bytes()
}
