// Package webcookie models HTTP cookies: parsing from a Cookie/Set-Cookie
// header, attribute handling, optional value encryption, and the
// name-deduplicated container the fabric keeps per message.
package webcookie

import (
	"strconv"
	"strings"
	"time"

	"github.com/wsforge/fabric/codec"
)

// SameSite mirrors the three legal values of the SameSite attribute.
type SameSite int

const (
	SameSiteUnset SameSite = iota
	SameSiteStrict
	SameSiteLax
	SameSiteNone
)

func (s SameSite) String() string {
	switch s {
	case SameSiteStrict:
		return "Strict"
	case SameSiteLax:
		return "Lax"
	case SameSiteNone:
		return "None"
	default:
		return ""
	}
}

// Cookie is one parsed or constructed cookie.
type Cookie struct {
	Name     string
	Value    string
	Path     string
	Domain   string
	Expires  time.Time
	HasExpires bool
	MaxAge   int
	HasMaxAge bool
	Secure   bool
	HttpOnly bool
	SameSite SameSite

	encrypted bool
}

const cookieDateLayout = "Mon, 02-Jan-2006 15:04:05 GMT"

// ParseCookie parses a single Cookie header value: up to the first
// ';' is "[name=]value", remaining ';'-separated segments are
// attributes matched case-insensitively.
func ParseCookie(header string) *Cookie {
	c := &Cookie{}
	parts := strings.Split(header, ";")
	if len(parts) == 0 {
		return c
	}
	nv := strings.TrimSpace(parts[0])
	if idx := strings.IndexByte(nv, '='); idx >= 0 {
		c.Name = nv[:idx]
		c.Value = nv[idx+1:]
	} else {
		c.Value = nv
	}

	for _, seg := range parts[1:] {
		seg = strings.TrimSpace(seg)
		if seg == "" {
			continue
		}
		key := seg
		val := ""
		if idx := strings.IndexByte(seg, '='); idx >= 0 {
			key = seg[:idx]
			val = seg[idx+1:]
		}
		switch strings.ToLower(key) {
		case "path":
			c.Path = val
		case "domain":
			c.Domain = val
		case "expires":
			if t, err := time.Parse(cookieDateLayout, val); err == nil {
				c.Expires = t
				c.HasExpires = true
			}
		case "max-age":
			if n, err := strconv.Atoi(val); err == nil {
				c.MaxAge = n
				c.HasMaxAge = true
			}
		case "secure":
			c.Secure = true
		case "httponly":
			c.HttpOnly = true
		case "samesite":
			switch strings.ToLower(val) {
			case "strict":
				c.SameSite = SameSiteStrict
			case "lax":
				c.SameSite = SameSiteLax
			case "none":
				c.SameSite = SameSiteNone
			}
		}
	}
	return c
}

// NewEncrypted builds a cookie whose value is AES-256 encrypted (then
// base64-presented) under password, and forces Secure/HttpOnly per the
// spec's rule that an encrypted-value cookie is always marked both.
func NewEncrypted(name, plaintext, password string) (*Cookie, error) {
	ct, err := codec.EncryptAES256(password, []byte(plaintext))
	if err != nil {
		return nil, err
	}
	return &Cookie{
		Name:      name,
		Value:     codec.EncodeBase64(ct),
		Secure:    true,
		HttpOnly:  true,
		encrypted: true,
	}, nil
}

// Decrypt reverses NewEncrypted, returning the plaintext value.
func (c *Cookie) Decrypt(password string) (string, error) {
	ct := codec.DecodeBase64(c.Value)
	pt, err := codec.DecryptAES256(password, ct)
	if err != nil {
		return "", err
	}
	return string(pt), nil
}

// ClientString renders "name=value" with no attributes, the form used
// in an outgoing request's Cookie header.
func (c *Cookie) ClientString() string {
	return c.Name + "=" + c.Value
}

// ServerString renders a full Set-Cookie value, attributes in the
// fixed order Path, Domain, Expires, SameSite, Secure, HttpOnly, Max-Age.
func (c *Cookie) ServerString() string {
	var b strings.Builder
	b.WriteString(c.Name)
	b.WriteByte('=')
	b.WriteString(c.Value)

	if c.Path != "" {
		b.WriteString("; Path=")
		b.WriteString(c.Path)
	}
	if c.Domain != "" {
		b.WriteString("; Domain=")
		b.WriteString(c.Domain)
	}
	if c.HasExpires {
		b.WriteString("; Expires=")
		b.WriteString(c.Expires.UTC().Format(cookieDateLayout))
	}
	if c.SameSite != SameSiteUnset {
		b.WriteString("; SameSite=")
		b.WriteString(c.SameSite.String())
	}
	if c.Secure {
		b.WriteString("; Secure")
	}
	if c.HttpOnly {
		b.WriteString("; HttpOnly")
	}
	if c.HasMaxAge {
		b.WriteString("; Max-Age=")
		b.WriteString(strconv.Itoa(c.MaxAge))
	}
	return b.String()
}
