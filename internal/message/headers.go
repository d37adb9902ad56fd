package message

import "net/http"

// Headers is a case-insensitive header map with last-write-wins
// semantics. Keys are stored in canonical MIME form, so "content-type",
// "Content-Type", and "CONTENT-TYPE" address the same entry.
type Headers struct {
	m map[string]string
}

// NewHeaders creates an empty header map.
func NewHeaders() *Headers {
	return &Headers{m: make(map[string]string)}
}

// HeadersFromMap creates a header map from a plain map. Later writes win
// when two keys canonicalize to the same name; iteration order of the
// input decides which one that is, matching plain-map semantics.
func HeadersFromMap(m map[string]string) *Headers {
	h := &Headers{m: make(map[string]string, len(m))}
	for k, v := range m {
		h.Set(k, v)
	}
	return h
}

// Set stores a header value, overwriting any previous value.
func (h *Headers) Set(key, value string) {
	if h.m == nil {
		h.m = make(map[string]string)
	}
	h.m[http.CanonicalHeaderKey(key)] = value
}

// Get returns the value for a header, or the empty string.
func (h *Headers) Get(key string) string {
	if h == nil || h.m == nil {
		return ""
	}
	return h.m[http.CanonicalHeaderKey(key)]
}

// Lookup returns the value for a header and whether it is present.
func (h *Headers) Lookup(key string) (string, bool) {
	if h == nil || h.m == nil {
		return "", false
	}
	v, ok := h.m[http.CanonicalHeaderKey(key)]
	return v, ok
}

// Del removes a header.
func (h *Headers) Del(key string) {
	if h == nil || h.m == nil {
		return
	}
	delete(h.m, http.CanonicalHeaderKey(key))
}

// Len returns the number of headers.
func (h *Headers) Len() int {
	if h == nil {
		return 0
	}
	return len(h.m)
}

// Clone returns a deep copy.
func (h *Headers) Clone() *Headers {
	if h == nil {
		return NewHeaders()
	}
	c := &Headers{m: make(map[string]string, len(h.m))}
	for k, v := range h.m {
		c.m[k] = v
	}
	return c
}

// Map returns a copy of the headers as a plain map with canonical keys.
func (h *Headers) Map() map[string]string {
	if h == nil {
		return map[string]string{}
	}
	m := make(map[string]string, len(h.m))
	for k, v := range h.m {
		m[k] = v
	}
	return m
}
