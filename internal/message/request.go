package message

import (
	"strings"
	"sync"
)

// extensionBag is the per-call mutable scratch space attached to a
// request. All copies derived from one request share the same bag.
type extensionBag struct {
	mu sync.RWMutex
	m  map[string]interface{}
}

func newExtensionBag() *extensionBag {
	return &extensionBag{m: make(map[string]interface{})}
}

func (b *extensionBag) set(key string, value interface{}) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.m[key] = value
}

func (b *extensionBag) get(key string) (interface{}, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.m[key]
	return v, ok
}

// Request is an immutable protocol-agnostic request. Mutation produces a
// derived copy via the With* methods; the extension bag is the single
// mutable region and is shared across derived copies.
type Request struct {
	method      string
	url         string
	headers     *Headers
	body        []byte
	contentType string
	ext         *extensionBag
}

// RequestOption configures a request at construction time.
type RequestOption func(*Request)

// WithHeader sets a single header.
func WithHeader(key, value string) RequestOption {
	return func(r *Request) {
		r.headers.Set(key, value)
	}
}

// WithHeaders sets all headers from a plain map.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *Request) {
		for k, v := range headers {
			r.headers.Set(k, v)
		}
	}
}

// WithBody sets the body bytes and their declared content type.
func WithBody(body []byte, contentType string) RequestOption {
	return func(r *Request) {
		r.body = body
		r.contentType = contentType
	}
}

// NewRequest creates a request. The method is upper-cased; headers start
// empty unless options provide them.
func NewRequest(method, url string, opts ...RequestOption) *Request {
	r := &Request{
		method:  strings.ToUpper(method),
		url:     url,
		headers: NewHeaders(),
		ext:     newExtensionBag(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Method returns the request method.
func (r *Request) Method() string { return r.method }

// URL returns the request target URL or path.
func (r *Request) URL() string { return r.url }

// Header returns a single header value.
func (r *Request) Header(key string) string { return r.headers.Get(key) }

// Headers returns a copy of the request headers.
func (r *Request) Headers() *Headers { return r.headers.Clone() }

// Body returns the body bytes. Callers must not modify the returned
// slice.
func (r *Request) Body() []byte { return r.body }

// ContentType returns the declared body content type.
func (r *Request) ContentType() string { return r.contentType }

// SetExtension stores a value in the per-call extension bag.
func (r *Request) SetExtension(key string, value interface{}) {
	r.ext.set(key, value)
}

// Extension reads a value from the per-call extension bag.
func (r *Request) Extension(key string) (interface{}, bool) {
	return r.ext.get(key)
}

// clone returns a shallow copy sharing the extension bag, with its own
// header map.
func (r *Request) clone() *Request {
	return &Request{
		method:      r.method,
		url:         r.url,
		headers:     r.headers.Clone(),
		body:        r.body,
		contentType: r.contentType,
		ext:         r.ext,
	}
}

// WithMethod returns a derived request with a different method.
func (r *Request) WithMethod(method string) *Request {
	c := r.clone()
	c.method = strings.ToUpper(method)
	return c
}

// WithURL returns a derived request with a different target URL.
func (r *Request) WithURL(url string) *Request {
	c := r.clone()
	c.url = url
	return c
}

// WithHeader returns a derived request with one header set.
func (r *Request) WithHeader(key, value string) *Request {
	c := r.clone()
	c.headers.Set(key, value)
	return c
}

// WithoutHeader returns a derived request with one header removed.
func (r *Request) WithoutHeader(key string) *Request {
	c := r.clone()
	c.headers.Del(key)
	return c
}

// WithBody returns a derived request with different body bytes and
// content type.
func (r *Request) WithBody(body []byte, contentType string) *Request {
	c := r.clone()
	c.body = body
	c.contentType = contentType
	return c
}
