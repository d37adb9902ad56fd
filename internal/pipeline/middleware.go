package pipeline

import (
	"context"

	"github.com/vyrodovalexey/avapibridge/internal/message"
)

// Middleware processes requests, responses, and errors as they flow
// through the pipeline. Implementations must be safe for concurrent
// use; the same instance sees every request passing the pipeline.
type Middleware interface {
	// Name identifies the middleware for registration and removal.
	Name() string

	// OnRequest is called for each request in registration order.
	// It returns the request to hand to the next middleware. Returning
	// an error short-circuits the chain.
	OnRequest(ctx context.Context, req *message.Request) (*message.Request, error)

	// OnResponse is called for each response in reverse registration
	// order. It returns the response to hand to the next middleware.
	OnResponse(ctx context.Context, resp *message.Response) (*message.Response, error)

	// OnError is called when request processing failed. Returning a
	// non-nil Response recovers from the failure; returning nil, nil
	// passes the error along unchanged.
	OnError(ctx context.Context, cause error, req *message.Request) (*message.Response, error)
}

// Funcs adapts plain functions to the Middleware interface. Nil hooks
// pass values through unchanged.
type Funcs struct {
	// MiddlewareName is returned by Name.
	MiddlewareName string

	// Request is invoked by OnRequest when non-nil.
	Request func(ctx context.Context, req *message.Request) (*message.Request, error)

	// Response is invoked by OnResponse when non-nil.
	Response func(ctx context.Context, resp *message.Response) (*message.Response, error)

	// Error is invoked by OnError when non-nil.
	Error func(ctx context.Context, cause error, req *message.Request) (*message.Response, error)
}

var _ Middleware = (*Funcs)(nil)

// Name returns the middleware name.
func (f *Funcs) Name() string {
	return f.MiddlewareName
}

// OnRequest invokes the Request hook when set.
func (f *Funcs) OnRequest(ctx context.Context, req *message.Request) (*message.Request, error) {
	if f.Request == nil {
		return req, nil
	}
	return f.Request(ctx, req)
}

// OnResponse invokes the Response hook when set.
func (f *Funcs) OnResponse(ctx context.Context, resp *message.Response) (*message.Response, error) {
	if f.Response == nil {
		return resp, nil
	}
	return f.Response(ctx, resp)
}

// OnError invokes the Error hook when set.
func (f *Funcs) OnError(ctx context.Context, cause error, req *message.Request) (*message.Response, error) {
	if f.Error == nil {
		return nil, nil
	}
	return f.Error(ctx, cause, req)
}
