package webcookie

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCookieBasic(t *testing.T) {
	c := ParseCookie("session=abc123; Path=/; Domain=example.com; Secure; HttpOnly; SameSite=Strict")
	assert.Equal(t, "session", c.Name)
	assert.Equal(t, "abc123", c.Value)
	assert.Equal(t, "/", c.Path)
	assert.Equal(t, "example.com", c.Domain)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, SameSiteStrict, c.SameSite)
}

func TestServerStringAttributeOrder(t *testing.T) {
	c := &Cookie{
		Name: "id", Value: "42",
		Path: "/", Domain: "example.com",
		SameSite: SameSiteLax, Secure: true, HttpOnly: true,
		MaxAge: 3600, HasMaxAge: true,
	}
	s := c.ServerString()
	pathIdx := indexOf(s, "Path=")
	domainIdx := indexOf(s, "Domain=")
	sameSiteIdx := indexOf(s, "SameSite=")
	secureIdx := indexOf(s, "Secure")
	httpOnlyIdx := indexOf(s, "HttpOnly")
	maxAgeIdx := indexOf(s, "Max-Age=")

	require.True(t, pathIdx < domainIdx)
	require.True(t, domainIdx < sameSiteIdx)
	require.True(t, sameSiteIdx < secureIdx)
	require.True(t, secureIdx < httpOnlyIdx)
	require.True(t, httpOnlyIdx < maxAgeIdx)
}

func indexOf(s, substr string) int {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return i
		}
	}
	return -1
}

func TestEncryptedCookieRoundTrip(t *testing.T) {
	c, err := NewEncrypted("token", "super-secret-value", "a password")
	require.NoError(t, err)
	assert.True(t, c.Secure)
	assert.True(t, c.HttpOnly)

	pt, err := c.Decrypt("a password")
	require.NoError(t, err)
	assert.Equal(t, "super-secret-value", pt)
}

func TestCookiesDedupLastWinsFirstSeenOrder(t *testing.T) {
	cs := NewCookies()
	cs.Set(&Cookie{Name: "A", Value: "1"})
	cs.Set(&Cookie{Name: "b", Value: "2"})
	cs.Set(&Cookie{Name: "a", Value: "3"}) // same as "A", case-insensitive, value wins

	assert.Equal(t, 2, cs.Len())
	all := cs.All()
	require.Len(t, all, 2)
	assert.Equal(t, "a", all[0].Name)
	assert.Equal(t, "3", all[0].Value)
	assert.Equal(t, "b", all[1].Name)
}

func TestCookiesClientHeader(t *testing.T) {
	cs := NewCookies()
	cs.Set(&Cookie{Name: "x", Value: "1"})
	cs.Set(&Cookie{Name: "y", Value: "2"})
	assert.Equal(t, "x=1; y=2", cs.ClientHeader())
}

func TestParseCookieExpires(t *testing.T) {
	c := ParseCookie("k=v; Expires=Wed, 09-Jun-2021 10:18:14 GMT")
	require.True(t, c.HasExpires)
	assert.Equal(t, 2021, c.Expires.Year())
	assert.Equal(t, time.June, c.Expires.Month())
}
