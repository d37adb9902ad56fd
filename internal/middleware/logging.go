package middleware

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
)

// LoggingMiddleware logs requests and responses passing the pipeline.
// Each request gets a generated id stored in the extension bag so the
// request and response log lines correlate.
type LoggingMiddleware struct {
	name   string
	logger observability.Logger
}

var _ pipeline.Middleware = (*LoggingMiddleware)(nil)

// LoggingOption configures the logging middleware.
type LoggingOption func(*LoggingMiddleware)

// WithLoggingName overrides the middleware name.
func WithLoggingName(name string) LoggingOption {
	return func(m *LoggingMiddleware) {
		m.name = name
	}
}

// NewLogging creates the logging middleware.
func NewLogging(logger observability.Logger, opts ...LoggingOption) *LoggingMiddleware {
	if logger == nil {
		logger = observability.NopLogger()
	}

	m := &LoggingMiddleware{
		name:   "logging",
		logger: logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m
}

// Name returns the middleware name.
func (m *LoggingMiddleware) Name() string {
	return m.name
}

// OnRequest logs the request and stamps it with a request id and start
// time.
func (m *LoggingMiddleware) OnRequest(_ context.Context, req *message.Request) (*message.Request, error) {
	requestID := uuid.NewString()
	req.SetExtension(ExtKeyRequestID, requestID)
	req.SetExtension(ExtKeyStartTime, time.Now())

	m.logger.Info("request",
		observability.String("method", req.Method()),
		observability.String("url", req.URL()),
		observability.Any("headers", sanitizeHeaders(req.Headers())),
		observability.String("request_id", requestID),
	)

	return req, nil
}

// OnResponse logs the response with the duration since OnRequest.
func (m *LoggingMiddleware) OnResponse(_ context.Context, resp *message.Response) (*message.Response, error) {
	fields := []observability.Field{
		observability.Int("status", resp.StatusCode()),
	}

	if req := resp.Request(); req != nil {
		if id, ok := req.Extension(ExtKeyRequestID); ok {
			if requestID, ok := id.(string); ok {
				fields = append(fields, observability.String("request_id", requestID))
			}
		}
		if v, ok := req.Extension(ExtKeyStartTime); ok {
			if start, ok := v.(time.Time); ok {
				fields = append(fields, observability.Duration("duration", time.Since(start)))
			}
		}
	}

	m.logger.Info("response", fields...)

	return resp, nil
}

// OnError logs the failure. It never recovers.
func (m *LoggingMiddleware) OnError(_ context.Context, cause error, req *message.Request) (*message.Response, error) {
	fields := []observability.Field{
		observability.Err(cause),
	}

	if req != nil {
		fields = append(fields,
			observability.String("method", req.Method()),
			observability.String("url", req.URL()),
		)
		if id, ok := req.Extension(ExtKeyRequestID); ok {
			if requestID, ok := id.(string); ok {
				fields = append(fields, observability.String("request_id", requestID))
			}
		}
	}

	m.logger.Error("request failed", fields...)

	return nil, nil
}

// sanitizeHeaders copies headers for logging with the Authorization
// value redacted.
func sanitizeHeaders(headers *message.Headers) map[string]string {
	out := headers.Map()
	if _, ok := out[HeaderAuthorization]; ok {
		out[HeaderAuthorization] = redactedValue
	}
	return out
}
