package httpmsg

import "strings"

// requestHeaderNames and responseHeaderNames are the fixed-ordinal
// header lists the wire format requires byte-for-byte, grounded on the
// Windows HTTP_HEADER_ID enumeration the original HTTPMessage is built
// against (41 request headers, 10 usable response headers after the
// reserved slot).
var requestHeaderNames = [...]string{
	"Cache-Control", "Connection", "Date", "Keep-Alive", "Pragma", "Trailer",
	"Transfer-Encoding", "Upgrade", "Via", "Warning", "Allow", "Content-Length",
	"Content-Type", "Content-Encoding", "Content-Language", "Content-Location",
	"Content-MD5", "Content-Range", "Expires", "Last-Modified", "Accept",
	"Accept-Charset", "Accept-Encoding", "Accept-Language", "Authorization",
	"Cookie", "Expect", "From", "Host", "If-Match", "If-Modified-Since",
	"If-None-Match", "If-Range", "If-Unmodified-Since", "Max-Forwards",
	"Proxy-Authorization", "Referer", "Range", "TE", "Translate", "User-Agent",
}

var responseHeaderNames = [...]string{
	"Accept-Ranges", "Age", "ETag", "Location", "Proxy-Authenticate",
	"Retry-After", "Server", "Set-Cookie", "Vary", "WWW-Authenticate",
}

// Headers is a case-insensitive ordered header map: lookups and
// AddHeader (replace) are case-insensitive with last-wins semantics;
// multi-value headers that legitimately repeat (Set-Cookie) keep
// parse order via AddHeaderValue instead of AddHeader.
type Headers struct {
	order []string // canonical-cased names, first-seen order
	byKey map[string][]string
}

// NewHeaders returns an empty header map.
func NewHeaders() *Headers {
	return &Headers{byKey: make(map[string][]string)}
}

func foldKey(name string) string { return strings.ToLower(name) }

// AddHeader sets name to value, replacing any prior single value
// (last-wins). Use AddHeaderValue for headers that may legitimately
// repeat.
func (h *Headers) AddHeader(name, value string) {
	key := foldKey(name)
	if _, exists := h.byKey[key]; !exists {
		h.order = append(h.order, name)
	}
	h.byKey[key] = []string{value}
}

// AddHeaderValue appends value to name's list, preserving the order in
// which repeated values were parsed.
func (h *Headers) AddHeaderValue(name, value string) {
	key := foldKey(name)
	if _, exists := h.byKey[key]; !exists {
		h.order = append(h.order, name)
	}
	h.byKey[key] = append(h.byKey[key], value)
}

// Get returns the first value for name, case-insensitively.
func (h *Headers) Get(name string) (string, bool) {
	vals, ok := h.byKey[foldKey(name)]
	if !ok || len(vals) == 0 {
		return "", false
	}
	return vals[0], true
}

// Values returns every value recorded for name, in parse order.
func (h *Headers) Values(name string) []string {
	return h.byKey[foldKey(name)]
}

// Names returns every distinct header name in first-seen order.
func (h *Headers) Names() []string {
	return append([]string(nil), h.order...)
}

// Remove deletes every value for name.
func (h *Headers) Remove(name string) {
	key := foldKey(name)
	if _, ok := h.byKey[key]; !ok {
		return
	}
	delete(h.byKey, key)
	for i, n := range h.order {
		if foldKey(n) == key {
			h.order = append(h.order[:i], h.order[i+1:]...)
			break
		}
	}
}
