package pipeline

import (
	"context"
	"sync"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Pipeline is an ordered middleware chain. All methods are safe for
// concurrent use; traversal works on a snapshot, so removing a
// middleware does not affect requests already in flight.
type Pipeline struct {
	mu          sync.RWMutex
	middlewares []Middleware
	logger      observability.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger used for pipeline diagnostics.
func WithLogger(logger observability.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		logger: observability.NopLogger(),
	}

	for _, opt := range opts {
		opt(p)
	}

	return p
}

// Use appends a middleware to the chain. Duplicate names are allowed;
// Remove takes the first match.
func (p *Pipeline) Use(mw Middleware) {
	p.mu.Lock()
	p.middlewares = append(p.middlewares, mw)
	p.mu.Unlock()

	p.logger.Debug("middleware registered",
		observability.String("middleware", mw.Name()),
	)
}

// Remove removes the first middleware with the given name. Removing an
// unknown name is an error, never a silent no-op.
func (p *Pipeline) Remove(name string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, mw := range p.middlewares {
		if mw.Name() == name {
			p.middlewares = append(p.middlewares[:i], p.middlewares[i+1:]...)
			p.logger.Debug("middleware removed",
				observability.String("middleware", name),
			)
			return nil
		}
	}

	return util.NewMiddlewareNotFoundError(name)
}

// Names returns the registered middleware names in order.
func (p *Pipeline) Names() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, len(p.middlewares))
	for i, mw := range p.middlewares {
		names[i] = mw.Name()
	}
	return names
}

// Len returns the number of registered middlewares.
func (p *Pipeline) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.middlewares)
}

// snapshot returns the current chain for lock-free traversal.
func (p *Pipeline) snapshot() []Middleware {
	p.mu.RLock()
	defer p.mu.RUnlock()

	chain := make([]Middleware, len(p.middlewares))
	copy(chain, p.middlewares)
	return chain
}

// ProcessRequest passes the request through the chain in registration
// order. The first hook error stops the chain; later middlewares never
// see the request. The returned error wraps the cause and names the
// failing middleware.
func (p *Pipeline) ProcessRequest(ctx context.Context, req *message.Request) (*message.Request, error) {
	for _, mw := range p.snapshot() {
		next, err := mw.OnRequest(ctx, req)
		if err != nil {
			p.logger.Debug("request short-circuited",
				observability.String("middleware", mw.Name()),
				observability.Err(err),
			)
			return nil, util.NewPipelineError(mw.Name(), util.StageRequest, err)
		}
		if next != nil {
			req = next
		}
	}

	return req, nil
}

// ProcessResponse passes the response through the chain in reverse
// registration order, so the first middleware to see a request is the
// last to see its response.
func (p *Pipeline) ProcessResponse(ctx context.Context, resp *message.Response) (*message.Response, error) {
	chain := p.snapshot()

	for i := len(chain) - 1; i >= 0; i-- {
		mw := chain[i]
		next, err := mw.OnResponse(ctx, resp)
		if err != nil {
			p.logger.Debug("response processing failed",
				observability.String("middleware", mw.Name()),
				observability.Err(err),
			)
			return nil, util.NewPipelineError(mw.Name(), util.StageResponse, err)
		}
		if next != nil {
			resp = next
		}
	}

	return resp, nil
}

// ProcessError offers the failure to each middleware in registration
// order. The first hook to return a non-nil Response recovers; its
// response is returned with a nil error. A hook's own error is logged
// and skipped so it never masks the original cause. If no hook
// recovers, the original error comes back unchanged.
func (p *Pipeline) ProcessError(ctx context.Context, cause error, req *message.Request) (*message.Response, error) {
	for _, mw := range p.snapshot() {
		resp, err := mw.OnError(ctx, cause, req)
		if err != nil {
			p.logger.Warn("error hook failed",
				observability.String("middleware", mw.Name()),
				observability.Err(err),
			)
			continue
		}
		if resp != nil {
			p.logger.Debug("error recovered",
				observability.String("middleware", mw.Name()),
			)
			return resp, nil
		}
	}

	return nil, cause
}

// Execute runs the full cycle for one request: the request stage, the
// caller-supplied handler, and the response stage. Any failure along
// the way goes through ProcessError, so a middleware may still turn it
// into a response.
func (p *Pipeline) Execute(
	ctx context.Context,
	req *message.Request,
	handler func(ctx context.Context, req *message.Request) (*message.Response, error),
) (*message.Response, error) {
	processed, err := p.ProcessRequest(ctx, req)
	if err != nil {
		return p.ProcessError(ctx, err, req)
	}

	resp, err := handler(ctx, processed)
	if err != nil {
		return p.ProcessError(ctx, err, processed)
	}
	if resp != nil && resp.Request() == nil {
		resp = resp.WithOriginRequest(processed)
	}

	final, err := p.ProcessResponse(ctx, resp)
	if err != nil {
		return p.ProcessError(ctx, err, processed)
	}

	return final, nil
}
