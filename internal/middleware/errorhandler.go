package middleware

import (
	"context"
	"errors"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// RecoveryFunc decides whether a failed request is answered with a
// fabricated response. Returning nil leaves the failure in place.
type RecoveryFunc func(ctx context.Context, cause error, req *message.Request) *message.Response

// ErrorHandlerMiddleware logs error-class responses and pipeline
// failures. It never modifies responses. An optional recovery policy
// may answer failed requests; without one, failures propagate.
type ErrorHandlerMiddleware struct {
	name    string
	logger  observability.Logger
	recover RecoveryFunc
}

var _ pipeline.Middleware = (*ErrorHandlerMiddleware)(nil)

// ErrorHandlerOption configures the error handler middleware.
type ErrorHandlerOption func(*ErrorHandlerMiddleware)

// WithErrorHandlerName overrides the middleware name.
func WithErrorHandlerName(name string) ErrorHandlerOption {
	return func(m *ErrorHandlerMiddleware) {
		m.name = name
	}
}

// WithRecovery installs a recovery policy for failed requests.
func WithRecovery(fn RecoveryFunc) ErrorHandlerOption {
	return func(m *ErrorHandlerMiddleware) {
		m.recover = fn
	}
}

// NewErrorHandler creates the error handler middleware.
func NewErrorHandler(logger observability.Logger, opts ...ErrorHandlerOption) *ErrorHandlerMiddleware {
	if logger == nil {
		logger = observability.NopLogger()
	}

	m := &ErrorHandlerMiddleware{
		name:   "error_handler",
		logger: logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Name returns the middleware name.
func (m *ErrorHandlerMiddleware) Name() string {
	return m.name
}

// OnRequest passes the request through unchanged.
func (m *ErrorHandlerMiddleware) OnRequest(_ context.Context, req *message.Request) (*message.Request, error) {
	return req, nil
}

// OnResponse logs error-class status codes and returns the response
// unchanged.
func (m *ErrorHandlerMiddleware) OnResponse(_ context.Context, resp *message.Response) (*message.Response, error) {
	status := resp.StatusCode()
	if !util.IsErrorStatus(status) {
		return resp, nil
	}

	fields := append([]observability.Field{observability.Int("status", status)},
		m.requestFields(resp.Request())...)

	if util.IsServerError(status) {
		m.logger.Error("server error response", fields...)
	} else {
		m.logger.Warn("client error response", fields...)
	}

	return resp, nil
}

// OnError logs the failure and consults the recovery policy.
func (m *ErrorHandlerMiddleware) OnError(ctx context.Context, cause error, req *message.Request) (*message.Response, error) {
	fields := []observability.Field{observability.Err(cause)}
	if req != nil {
		fields = append(fields,
			observability.String("method", req.Method()),
			observability.String("url", req.URL()))
	}

	var pe *util.PipelineError
	if errors.As(cause, &pe) {
		fields = append(fields,
			observability.String("middleware", pe.Middleware),
			observability.String("stage", pe.Stage))
	}

	m.logger.Error("pipeline error", fields...)

	if m.recover != nil {
		if resp := m.recover(ctx, cause, req); resp != nil {
			m.logger.Info("error recovered by policy",
				observability.Int("status", resp.StatusCode()))
			return resp, nil
		}
	}

	return nil, nil
}

func (m *ErrorHandlerMiddleware) requestFields(req *message.Request) []observability.Field {
	if req == nil {
		return nil
	}

	return []observability.Field{
		observability.String("method", req.Method()),
		observability.String("url", req.URL()),
	}
}
