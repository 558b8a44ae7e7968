package webcookie

import "strings"

// Cookies holds a message's cookie set, deduplicated by case-insensitive
// name (last Set wins) while preserving first-seen order for
// serialization, matching the ordered-map discipline the rest of the
// fabric uses for headers and query parameters.
type Cookies struct {
	order []string // lowercased names, in first-seen order
	byKey map[string]*Cookie
}

// NewCookies returns an empty container.
func NewCookies() *Cookies {
	return &Cookies{byKey: make(map[string]*Cookie)}
}

// Set inserts or replaces c by case-insensitive name. The last Set for
// a given name wins, but its position in serialization order is the
// position of the *first* time that name was seen.
func (cs *Cookies) Set(c *Cookie) {
	key := strings.ToLower(c.Name)
	if _, exists := cs.byKey[key]; !exists {
		cs.order = append(cs.order, key)
	}
	cs.byKey[key] = c
}

// Get returns the cookie named name (case-insensitive), or nil.
func (cs *Cookies) Get(name string) *Cookie {
	return cs.byKey[strings.ToLower(name)]
}

// Remove deletes the cookie named name, if present.
func (cs *Cookies) Remove(name string) {
	key := strings.ToLower(name)
	if _, exists := cs.byKey[key]; !exists {
		return
	}
	delete(cs.byKey, key)
	for i, k := range cs.order {
		if k == key {
			cs.order = append(cs.order[:i], cs.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of distinct (by name) cookies held.
func (cs *Cookies) Len() int { return len(cs.order) }

// All returns the cookies in first-seen order.
func (cs *Cookies) All() []*Cookie {
	out := make([]*Cookie, 0, len(cs.order))
	for _, k := range cs.order {
		out = append(out, cs.byKey[k])
	}
	return out
}

// ClientHeader renders the full outgoing "Cookie" header value:
// "k1=v1; k2=v2", no attributes.
func (cs *Cookies) ClientHeader() string {
	parts := make([]string, 0, len(cs.order))
	for _, k := range cs.order {
		parts = append(parts, cs.byKey[k].ClientString())
	}
	return strings.Join(parts, "; ")
}
