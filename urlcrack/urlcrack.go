// Package urlcrack splits a URL into its component parts
// deterministically, without relying on net/url's (by design,
// RFC-3986-strict) parser — the fabric's clients and servers need the
// looser, byte-exact splitting rules the original CrackURL type uses,
// including IPv6-literal handling and default-port omission.
package urlcrack

import (
	"strconv"
	"strings"

	"github.com/wsforge/fabric/charset"
)

// Param is one ordered key/value pair from a query string. Order and
// duplicates are preserved; this is a sequence, not a map.
type Param struct {
	Key   string
	Value string
}

// URL holds a URL split into its named parts.
type URL struct {
	Scheme    string
	Secure    bool
	User      string
	Password  string
	Host      string
	Port      int
	Path      string
	Extension string
	Params    []Param
	Anchor    string
	AllowPlus bool

	Valid bool

	FoundScheme   bool
	FoundSecure   bool
	FoundUserInfo bool
	FoundHost     bool
	FoundPort     bool
	FoundPath     bool
	FoundExt      bool
	FoundParams   bool
	FoundAnchor   bool
}

const defaultHTTPPort = 80
const defaultHTTPSPort = 443

// CrackURL parses input into its component parts. It never returns an
// error; a malformed input simply yields a URL with Valid == false.
func CrackURL(input string) *URL {
	u := &URL{Port: defaultHTTPPort, AllowPlus: true}

	rest := input

	// scheme
	if idx := strings.Index(rest, "://"); idx >= 0 {
		u.Scheme = rest[:idx]
		u.FoundScheme = true
		rest = rest[idx+3:]
		lower := strings.ToLower(u.Scheme)
		u.Secure = lower == "https" || lower == "wss"
		u.FoundSecure = true
	} else if idx := strings.Index(rest, ":"); idx >= 0 && !strings.HasPrefix(rest, "[") &&
		!strings.ContainsAny(rest[:idx], "/?#") {
		// scheme without "//" (rare, but the prefix-up-to-first-colon
		// rule applies regardless of slashes). Guarded against a colon
		// that belongs to a relative path or query value (e.g.
		// "/report?time=12:30:00"), which is not a scheme separator.
		u.Scheme = rest[:idx]
		u.FoundScheme = true
		rest = rest[idx+1:]
	}
	if u.Secure {
		u.Port = defaultHTTPSPort
	}

	// split off anchor first, it always binds to the very end.
	if idx := strings.IndexByte(rest, '#'); idx >= 0 {
		u.Anchor = rest[idx+1:]
		u.FoundAnchor = true
		rest = rest[:idx]
	}

	// split off query
	var query string
	if idx := strings.IndexByte(rest, '?'); idx >= 0 {
		query = rest[idx+1:]
		u.FoundParams = true
		rest = rest[:idx]
	}

	// authority vs path: only meaningful once a scheme was found, or
	// the input looked like //host/path.
	authority := rest
	path := ""
	if u.FoundScheme || strings.HasPrefix(rest, "//") {
		authority = strings.TrimPrefix(rest, "//")
		if idx := strings.IndexByte(authority, '/'); idx >= 0 {
			path = authority[idx:]
			authority = authority[:idx]
		}
	} else {
		authority = ""
		path = rest
	}

	if authority != "" {
		// userinfo
		if idx := strings.LastIndexByte(authority, '@'); idx >= 0 {
			userinfo := authority[:idx]
			authority = authority[idx+1:]
			u.FoundUserInfo = true
			if ci := strings.IndexByte(userinfo, ':'); ci >= 0 {
				u.User = userinfo[:ci]
				u.Password = userinfo[ci+1:]
			} else {
				u.User = userinfo
			}
		}

		hostPart := authority
		// IPv6 literal: skip the bracketed segment before hunting a port colon.
		if strings.HasPrefix(hostPart, "[") {
			if end := strings.IndexByte(hostPart, ']'); end >= 0 {
				u.Host = hostPart[:end+1]
				rem := hostPart[end+1:]
				if strings.HasPrefix(rem, ":") {
					if p, err := strconv.Atoi(rem[1:]); err == nil {
						u.Port = p
						u.FoundPort = true
					}
				}
			} else {
				u.Host = hostPart
			}
		} else if idx := strings.IndexByte(hostPart, ':'); idx >= 0 {
			u.Host = hostPart[:idx]
			if p, err := strconv.Atoi(hostPart[idx+1:]); err == nil {
				u.Port = p
				u.FoundPort = true
			}
		} else {
			u.Host = hostPart
		}
		u.FoundHost = u.Host != ""
	}

	// path normalization: \ -> /, // -> /
	path = strings.ReplaceAll(path, "\\", "/")
	for strings.Contains(path, "//") {
		path = strings.ReplaceAll(path, "//", "/")
	}
	if path != "" {
		u.Path = path
		u.FoundPath = true
	}

	// extension: substring after the last '.' in the final path segment.
	lastSlash := strings.LastIndexByte(u.Path, '/')
	lastSegment := u.Path[lastSlash+1:]
	if dot := strings.LastIndexByte(lastSegment, '.'); dot >= 0 {
		ext := lastSegment[dot+1:]
		if !strings.ContainsAny(ext, "'\"") {
			u.Extension = ext
			u.FoundExt = true
		}
	}

	if query != "" {
		for _, kv := range strings.Split(query, "&") {
			if kv == "" {
				continue
			}
			var key, value string
			if idx := strings.IndexByte(kv, '='); idx >= 0 {
				key, value = kv[:idx], kv[idx+1:]
			} else {
				key = kv
			}
			key = charset.DecodeURLChars(key, true, u.AllowPlus)
			value = charset.DecodeURLChars(value, true, u.AllowPlus)
			u.Params = append(u.Params, Param{Key: key, Value: value})
		}
	}

	u.Valid = u.FoundHost || u.FoundPath
	return u
}

// HasParameter reports whether name is present, case-sensitively
// (query keys are not folded — only cookie/header names are).
func (u *URL) HasParameter(name string) bool {
	for _, p := range u.Params {
		if p.Key == name {
			return true
		}
	}
	return false
}

// Parameter returns the first value for name, or "" if absent.
func (u *URL) Parameter(name string) string {
	for _, p := range u.Params {
		if p.Key == name {
			return p.Value
		}
	}
	return ""
}

// SetParameter appends or replaces (first match) the value for name.
func (u *URL) SetParameter(name, value string) {
	for i, p := range u.Params {
		if p.Key == name {
			u.Params[i].Value = value
			return
		}
	}
	u.Params = append(u.Params, Param{Key: name, Value: value})
}

// DelParameter removes the first parameter matching name and reports
// whether one was found.
func (u *URL) DelParameter(name string) bool {
	for i, p := range u.Params {
		if p.Key == name {
			u.Params = append(u.Params[:i], u.Params[i+1:]...)
			return true
		}
	}
	return false
}

func (u *URL) defaultPort() int {
	if u.Secure {
		return defaultHTTPSPort
	}
	return defaultHTTPPort
}

func (u *URL) authority(includeUserInfo bool) string {
	var b strings.Builder
	if includeUserInfo && u.User != "" {
		b.WriteString(u.User)
		if u.Password != "" {
			b.WriteByte(':')
			b.WriteString(u.Password)
		}
		b.WriteByte('@')
	}
	b.WriteString(u.Host)
	if u.Port != u.defaultPort() {
		b.WriteByte(':')
		b.WriteString(strconv.Itoa(u.Port))
	}
	return b.String()
}

func (u *URL) queryString() string {
	if len(u.Params) == 0 {
		return ""
	}
	var b strings.Builder
	for i, p := range u.Params {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(charset.EncodeURLChars(p.Key, true))
		b.WriteByte('=')
		b.WriteString(charset.EncodeURLChars(p.Value, true))
	}
	return b.String()
}

// AbsolutePath reconstructs path + query + anchor, without scheme or host.
func (u *URL) AbsolutePath() string {
	var b strings.Builder
	b.WriteString(u.Path)
	if q := u.queryString(); q != "" {
		b.WriteByte('?')
		b.WriteString(q)
	}
	if u.Anchor != "" {
		b.WriteByte('#')
		b.WriteString(u.Anchor)
	}
	return b.String()
}

// AbsoluteResource reconstructs just the path (no query, no anchor).
func (u *URL) AbsoluteResource() string {
	return u.Path
}

// URL reconstructs the full URL, including user info if present.
func (u *URL) URL() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(u.authority(true))
	b.WriteString(u.AbsolutePath())
	return b.String()
}

// SafeURL is URL() without the userinfo portion, safe for logging.
func (u *URL) SafeURL() string {
	var b strings.Builder
	if u.Scheme != "" {
		b.WriteString(u.Scheme)
		b.WriteString("://")
	}
	b.WriteString(u.authority(false))
	b.WriteString(u.AbsolutePath())
	return b.String()
}

// UNC reconstructs a Windows UNC-style path: \\host\path with / mapped to \.
func (u *URL) UNC() string {
	p := strings.ReplaceAll(u.Path, "/", "\\")
	return "\\\\" + u.Host + p
}
