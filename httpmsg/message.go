package httpmsg

import (
	"time"

	"github.com/wsforge/fabric/urlcrack"
	"github.com/wsforge/fabric/webcookie"
)

// Message is the fabric's in-memory HTTP message: the Go stand-in for
// the original's HTTPMessage, minus the collaborators explicitly kept
// external (file-buffer multipart plumbing, socket addresses, TLS).
// Body is a plain []byte rather than a FileBuffer handle — the core
// only ever needs GetBuffer/AddBuffer-equivalent access, which a slice
// gives for free without an intrusive reference count.
type Message struct {
	Verb       Verb
	Status     int
	URL        *urlcrack.URL
	ContentType string
	AcceptEncoding string

	User     string
	Password string

	Headers *Headers
	Cookies *webcookie.Cookies
	Routing []string

	Body []byte

	AccessToken string

	UseIfModifiedSince bool
	IfModifiedSince    time.Time

	VerbTunnel bool
	SendBOM    bool

	XMLHttpRequest bool

	// Referrer and Desktop are wire-format passengers (MessageStore
	// FT_REFERRER/FT_DESKTOP): the originating Referer header value and
	// the Windows Remote Desktop session number of the capturing
	// process. Neither is interpreted by the core itself.
	Referrer string
	Desktop  uint32
}

// NewMessage returns an empty outgoing message.
func NewMessage() *Message {
	return &Message{
		Headers: NewHeaders(),
		Cookies: webcookie.NewCookies(),
	}
}

// ContentLength reports len(Body), the wire value for the
// Content-Length header.
func (m *Message) ContentLength() int { return len(m.Body) }

const (
	headerMethodOverride1 = "X-HTTP-Method"
	headerMethodOverride2 = "X-HTTP-Method-Override"
	headerMethodOverride3 = "X-METHOD-OVERRIDE"
)

// FindVerbTunneling promotes a POST to the verb carried in one of the
// method-override headers, checked in M3 > M2 > M1 precedence (last
// one tried wins if earlier ones are absent, but a header present
// earlier in the precedence list is preferred over one later).
func (m *Message) FindVerbTunneling() {
	if m.Verb != VerbPOST {
		return
	}
	for _, name := range []string{headerMethodOverride3, headerMethodOverride2, headerMethodOverride1} {
		if v, ok := m.Headers.Get(name); ok {
			if verb, ok := ParseVerb(v); ok {
				m.Verb = verb
				m.VerbTunnel = true
				return
			}
		}
	}
}

// UseVerbTunneling rewrites a non-POST verb to POST and records the
// original verb in X-HTTP-Method-Override, for transports that only
// allow GET/POST through.
func (m *Message) UseVerbTunneling() {
	if m.Verb == VerbPOST || m.Verb == VerbResponse {
		return
	}
	m.Headers.AddHeader(headerMethodOverride2, m.Verb.String())
	m.Verb = VerbPOST
	m.VerbTunnel = true
}
