package middleware

import (
	"context"
	"fmt"

	"github.com/google/cel-go/cel"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
)

// ConditionalMiddleware wraps another middleware behind a CEL
// predicate over the request. When the predicate does not hold, every
// hook passes through untouched. Evaluation failures and non-boolean
// results count as the predicate not holding; they never fail the
// request.
//
// The predicate sees a single variable, request, a map with the keys
// method, url, contentType, and headers.
type ConditionalMiddleware struct {
	name    string
	inner   pipeline.Middleware
	expr    string
	program cel.Program
	logger  observability.Logger
}

var _ pipeline.Middleware = (*ConditionalMiddleware)(nil)

// ConditionalOption configures the conditional middleware.
type ConditionalOption func(*ConditionalMiddleware)

// WithConditionalName overrides the middleware name. The default is
// the inner middleware's name with a "conditional_" prefix.
func WithConditionalName(name string) ConditionalOption {
	return func(m *ConditionalMiddleware) {
		m.name = name
	}
}

// NewConditional compiles the predicate and wraps the inner
// middleware. Compilation failures are construction errors.
func NewConditional(expr string, inner pipeline.Middleware, logger observability.Logger, opts ...ConditionalOption) (*ConditionalMiddleware, error) {
	if inner == nil {
		return nil, fmt.Errorf("conditional middleware: inner middleware is required")
	}

	if logger == nil {
		logger = observability.NopLogger()
	}

	env, err := cel.NewEnv(
		cel.Variable("request", cel.MapType(cel.StringType, cel.DynType)),
	)
	if err != nil {
		return nil, fmt.Errorf("conditional middleware: create environment: %w", err)
	}

	ast, issues := env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("conditional middleware: compile %q: %w", expr, issues.Err())
	}

	program, err := env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("conditional middleware: build program: %w", err)
	}

	m := &ConditionalMiddleware{
		name:    "conditional_" + inner.Name(),
		inner:   inner,
		expr:    expr,
		program: program,
		logger:  logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Name returns the middleware name.
func (m *ConditionalMiddleware) Name() string {
	return m.name
}

// OnRequest delegates to the inner middleware when the predicate
// holds.
func (m *ConditionalMiddleware) OnRequest(ctx context.Context, req *message.Request) (*message.Request, error) {
	if !m.matches(req) {
		return req, nil
	}
	return m.inner.OnRequest(ctx, req)
}

// OnResponse delegates when the predicate holds for the originating
// request. Responses without one pass through.
func (m *ConditionalMiddleware) OnResponse(ctx context.Context, resp *message.Response) (*message.Response, error) {
	req := resp.Request()
	if req == nil || !m.matches(req) {
		return resp, nil
	}
	return m.inner.OnResponse(ctx, resp)
}

// OnError delegates when the predicate holds for the failed request.
func (m *ConditionalMiddleware) OnError(ctx context.Context, cause error, req *message.Request) (*message.Response, error) {
	if req == nil || !m.matches(req) {
		return nil, nil
	}
	return m.inner.OnError(ctx, cause, req)
}

// matches evaluates the predicate against the request.
func (m *ConditionalMiddleware) matches(req *message.Request) bool {
	activation := map[string]interface{}{
		"request": map[string]interface{}{
			"method":      req.Method(),
			"url":         req.URL(),
			"contentType": req.ContentType(),
			"headers":     req.Headers().Map(),
		},
	}

	result, _, err := m.program.Eval(activation)
	if err != nil {
		m.logger.Warn("condition evaluation failed",
			observability.String("expression", m.expr),
			observability.Err(err))
		return false
	}

	matched, ok := result.Value().(bool)
	if !ok {
		m.logger.Warn("condition did not evaluate to a boolean",
			observability.String("expression", m.expr))
		return false
	}

	return matched
}
