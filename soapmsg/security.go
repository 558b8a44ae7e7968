package soapmsg

import (
	"crypto/sha1"
	"crypto/subtle"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wsforge/fabric/codec"
	"github.com/wsforge/fabric/xmlmodel"
)

// Security freshness bounds: a Created timestamp outside
// [now-max, now+max] but clamped to at least min is rejected, per
// the UsernameToken Profile 1.1 replay-window guidance.
const (
	SecurityMinTime = 1 * time.Second
	SecurityMaxTime = 5 * time.Minute
)

// Token is the WS-Security UsernameToken state, separate from
// Security (which governs body/message signing and encryption).
type Token struct {
	Username  string
	Password  string // cleartext; sent by SetSecurity, and the preset expected password for CheckSecurity
	Digest    bool   // true selects #PasswordDigest over #PasswordText
	Nonce     string // base64, set by SetSecurity
	Created   time.Time
}

// PasswordFinder resolves the expected cleartext password for a
// username during CheckSecurity, for deployments that do not preset a
// single expected username/password pair.
type PasswordFinder func(username string) (password string, ok bool)

func randomNonce() []byte {
	id := uuid.New()
	return id[:]
}

func usernameTokenDigest(nonceRaw []byte, created string, password string) []byte {
	h := sha1.New()
	h.Write(nonceRaw)
	h.Write([]byte(created))
	h.Write([]byte(password))
	return h.Sum(nil)
}

// SetSecurity stamps the outgoing message's Token onto the Envelope's
// wsse:Security header, requiring SOAP 1.2 per spec. When Token.Digest
// is set, it derives Nonce/Created/PasswordDigest fresh; otherwise it
// emits a plain #PasswordText password.
func (m *Message) SetSecurity() error {
	if m.Version != Version12 {
		return &UsageError{Reason: "WS-Security requires SOAP 1.2"}
	}
	if m.Token.Username == "" {
		return &UsageError{Reason: "SetSecurity requires a Username"}
	}
	m.ensureEnvelopeNamespace("wsse", NSWSSecurity)
	m.ensureEnvelopeNamespace("wsu", NSWSUtility)
	header := m.ensureHeader()

	sec := newSoapElement("wsse", "Security")
	// wsse:Security must be the first header child.
	header.Children = append([]*xmlmodel.Element{sec}, header.Children...)
	sec.Parent = header

	tok := newSoapElement("wsse", "UsernameToken")
	sec.AddChild(tok)

	user := newSoapElement("wsse", "Username")
	user.Value = m.Token.Username
	tok.AddChild(user)

	created := m.Token.Created
	if created.IsZero() {
		created = time.Now().UTC()
	}
	createdStr := created.UTC().Format("2006-01-02T15:04:05") + "Z"

	pass := newSoapElement("wsse", "Password")
	if m.Token.Digest {
		nonceRaw := randomNonce()
		digest := usernameTokenDigest(nonceRaw, createdStr, m.Token.Password)
		pass.Value = codec.EncodeBase64(digest)
		pass.SetAttribute("Type", NSWSSecurity+"#PasswordDigest")

		nonceEl := newSoapElement("wsse", "Nonce")
		nonceEl.Value = codec.EncodeBase64(nonceRaw)
		nonceEl.SetAttribute("EncodingType", NSWSSecurity+"#Base64Binary")
		tok.AddChild(nonceEl)

		m.Token.Nonce = nonceEl.Value
	} else {
		pass.Value = m.Token.Password
		pass.SetAttribute("Type", NSWSSecurity+"#PasswordText")
	}
	tok.AddChild(pass)

	createdEl := newSoapElement("wsu", "Created")
	createdEl.Value = createdStr
	tok.AddChild(createdEl)

	m.Token.Created = created
	return nil
}

// CheckSecurity validates the incoming message's UsernameToken. It
// returns true without touching m.Token when the Security header is
// absent (no auth demanded); it returns true and sets m.Token.Username
// as the authenticated user when the digest/plaintext password checks
// out within the freshness window; it returns false on any mismatch.
func (m *Message) CheckSecurity(expected string, find PasswordFinder) bool {
	if m.Header == nil {
		return true
	}
	sec := m.Header.FindFirst("Security")
	if sec == nil {
		return true
	}
	tok := sec.FindFirst("UsernameToken")
	if tok == nil {
		return false
	}
	userEl := tok.FindFirst("Username")
	if userEl == nil {
		return false
	}
	username := userEl.Value

	var clearPassword string
	var ok bool
	if expected != "" && username == expected {
		clearPassword, ok = m.Token.Password, true
	} else if find != nil {
		clearPassword, ok = find(username)
	}
	if !ok {
		return false
	}

	passEl := tok.FindFirst("Password")
	nonceEl := tok.FindFirst("Nonce")
	createdEl := tok.FindFirst("Created")

	var passType string
	if passEl != nil {
		passType, _ = passEl.Attribute("Type")
	}
	digested := passEl != nil && strings.Contains(passType, "PasswordDigest")

	if digested || (nonceEl != nil && createdEl != nil) {
		if nonceEl == nil || createdEl == nil || passEl == nil {
			return false
		}
		created, err := time.Parse("2006-01-02T15:04:05Z", createdEl.Value)
		if err != nil {
			created, err = time.Parse(time.RFC3339, createdEl.Value)
			if err != nil {
				return false
			}
		}
		freshness := SecurityMaxTime
		if freshness < SecurityMinTime {
			freshness = SecurityMinTime
		}
		skew := time.Since(created)
		if skew < 0 {
			skew = -skew
		}
		if skew > freshness {
			return false
		}

		nonceRaw := codec.DecodeBase64(nonceEl.Value)
		want := usernameTokenDigest(nonceRaw, createdEl.Value, clearPassword)
		got := codec.DecodeBase64(passEl.Value)
		if subtle.ConstantTimeCompare(want, got) != 1 {
			return false
		}
	} else {
		if passEl == nil || passEl.Value != clearPassword {
			return false
		}
	}

	m.Token.Username = username
	return true
}
