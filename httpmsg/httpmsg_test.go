package httpmsg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerbRoundTrip(t *testing.T) {
	v, ok := ParseVerb("PATCH")
	require.True(t, ok)
	assert.Equal(t, VerbPATCH, v)
	assert.Equal(t, "PATCH", v.String())
}

func TestHeadersCaseInsensitiveLastWins(t *testing.T) {
	h := NewHeaders()
	h.AddHeader("Content-Type", "text/xml")
	h.AddHeader("content-type", "application/json")
	v, ok := h.Get("CONTENT-TYPE")
	require.True(t, ok)
	assert.Equal(t, "application/json", v)
	assert.Len(t, h.Names(), 1)
}

func TestHeadersMultiValuePreservesOrder(t *testing.T) {
	h := NewHeaders()
	h.AddHeaderValue("Set-Cookie", "a=1")
	h.AddHeaderValue("Set-Cookie", "b=2")
	assert.Equal(t, []string{"a=1", "b=2"}, h.Values("Set-Cookie"))
}

func TestFindVerbTunnelingPrecedence(t *testing.T) {
	m := NewMessage()
	m.Verb = VerbPOST
	m.Headers.AddHeader(headerMethodOverride1, "PUT")
	m.Headers.AddHeader(headerMethodOverride3, "DELETE")
	m.FindVerbTunneling()
	assert.Equal(t, VerbDELETE, m.Verb)
	assert.True(t, m.VerbTunnel)
}

func TestUseVerbTunnelingRewritesToPost(t *testing.T) {
	m := NewMessage()
	m.Verb = VerbDELETE
	m.UseVerbTunneling()
	assert.Equal(t, VerbPOST, m.Verb)
	v, ok := m.Headers.Get("X-HTTP-Method-Override")
	require.True(t, ok)
	assert.Equal(t, "DELETE", v)
}
