package message

import (
	"fmt"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Response is an immutable protocol-agnostic response. The status code
// is validated at construction so invalid codes never cross the core's
// boundary.
type Response struct {
	statusCode  int
	headers     *Headers
	body        []byte
	contentType string
	request     *Request
}

// ResponseOption configures a response at construction time.
type ResponseOption func(*Response)

// WithResponseHeader sets a single response header.
func WithResponseHeader(key, value string) ResponseOption {
	return func(r *Response) {
		r.headers.Set(key, value)
	}
}

// WithResponseHeaders sets all response headers from a plain map.
func WithResponseHeaders(headers map[string]string) ResponseOption {
	return func(r *Response) {
		for k, v := range headers {
			r.headers.Set(k, v)
		}
	}
}

// WithResponseBody sets the response body bytes and content type.
func WithResponseBody(body []byte, contentType string) ResponseOption {
	return func(r *Response) {
		r.body = body
		r.contentType = contentType
	}
}

// WithRequest attaches the originating request for correlation and
// timing.
func WithRequest(req *Request) ResponseOption {
	return func(r *Response) {
		r.request = req
	}
}

// NewResponse creates a response. Status codes outside 100-599 are
// rejected.
func NewResponse(statusCode int, opts ...ResponseOption) (*Response, error) {
	if !util.ValidStatusCode(statusCode) {
		return nil, &util.ValidationError{
			Field:   "status_code",
			Message: fmt.Sprintf("status code %d outside valid range 100-599", statusCode),
			Cause:   util.ErrInvalidStatusCode,
		}
	}

	r := &Response{
		statusCode: statusCode,
		headers:    NewHeaders(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// StatusCode returns the response status code.
func (r *Response) StatusCode() int { return r.statusCode }

// Header returns a single header value.
func (r *Response) Header(key string) string { return r.headers.Get(key) }

// Headers returns a copy of the response headers.
func (r *Response) Headers() *Headers { return r.headers.Clone() }

// Body returns the body bytes. Callers must not modify the returned
// slice.
func (r *Response) Body() []byte { return r.body }

// ContentType returns the declared body content type.
func (r *Response) ContentType() string { return r.contentType }

// Request returns the originating request, or nil.
func (r *Response) Request() *Request { return r.request }

// clone returns a shallow copy with its own header map.
func (r *Response) clone() *Response {
	return &Response{
		statusCode:  r.statusCode,
		headers:     r.headers.Clone(),
		body:        r.body,
		contentType: r.contentType,
		request:     r.request,
	}
}

// WithHeader returns a derived response with one header set.
func (r *Response) WithHeader(key, value string) *Response {
	c := r.clone()
	c.headers.Set(key, value)
	return c
}

// WithoutHeader returns a derived response with one header removed.
func (r *Response) WithoutHeader(key string) *Response {
	c := r.clone()
	c.headers.Del(key)
	return c
}

// WithBody returns a derived response with different body bytes and
// content type.
func (r *Response) WithBody(body []byte, contentType string) *Response {
	c := r.clone()
	c.body = body
	c.contentType = contentType
	return c
}

// WithOriginRequest returns a derived response carrying the originating
// request.
func (r *Response) WithOriginRequest(req *Request) *Response {
	c := r.clone()
	c.request = req
	return c
}
