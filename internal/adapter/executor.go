package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

const (
	// DefaultExecutorTimeout bounds a single remote call.
	DefaultExecutorTimeout = 30 * time.Second

	// defaultBreakerThreshold is the request count after which the
	// failure ratio can trip the breaker.
	defaultBreakerThreshold = 3
)

// ErrRemoteUnavailable indicates the circuit breaker rejected the call
// without reaching the remote endpoint.
var ErrRemoteUnavailable = errors.New("remote endpoint unavailable")

// RemoteExecutor sends adapted requests to remote HTTP endpoints. Each
// call runs as one fallible unit of work inside a circuit breaker;
// there are no implicit retries. Server error responses count as
// breaker failures but still reach the caller with their body intact.
type RemoteExecutor struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  observability.Logger

	name      string
	threshold int
	timeout   time.Duration
}

// RemoteExecutorOption is a functional option for the executor.
type RemoteExecutorOption func(*RemoteExecutor)

// WithExecutorClient sets the HTTP client used for remote calls.
func WithExecutorClient(client *http.Client) RemoteExecutorOption {
	return func(e *RemoteExecutor) {
		e.client = client
	}
}

// WithExecutorLogger sets the logger for the executor.
func WithExecutorLogger(logger observability.Logger) RemoteExecutorOption {
	return func(e *RemoteExecutor) {
		e.logger = logger
	}
}

// WithExecutorName sets the circuit breaker name reported in state
// change logs.
func WithExecutorName(name string) RemoteExecutorOption {
	return func(e *RemoteExecutor) {
		e.name = name
	}
}

// WithExecutorBreaker tunes the circuit breaker: threshold is the
// request count before the failure ratio is considered, timeout is the
// open-state recovery interval.
func WithExecutorBreaker(threshold int, timeout time.Duration) RemoteExecutorOption {
	return func(e *RemoteExecutor) {
		e.threshold = threshold
		e.timeout = timeout
	}
}

// NewRemoteExecutor creates a remote executor with a default client
// and breaker unless options override them.
func NewRemoteExecutor(opts ...RemoteExecutorOption) *RemoteExecutor {
	e := &RemoteExecutor{
		logger:    observability.NopLogger(),
		name:      "remote-executor",
		threshold: defaultBreakerThreshold,
		timeout:   DefaultExecutorTimeout,
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.client == nil {
		e.client = &http.Client{Timeout: DefaultExecutorTimeout}
	}
	if e.threshold <= 0 {
		e.threshold = defaultBreakerThreshold
	}

	threshold := safeIntToUint32(e.threshold)
	logger := e.logger
	e.breaker = gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        e.name,
		MaxRequests: threshold,
		Interval:    e.timeout,
		Timeout:     e.timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= threshold && failureRatio >= 0.5
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("circuit breaker state change",
				observability.String("name", name),
				observability.String("from", from.String()),
				observability.String("to", to.String()),
			)
		},
	})

	return e
}

// State returns the current circuit breaker state.
func (e *RemoteExecutor) State() gobreaker.State {
	return e.breaker.State()
}

// Execute sends the request and returns the remote response. Breaker
// rejections fail with ErrRemoteUnavailable; transport failures and
// 5xx responses count against the breaker.
func (e *RemoteExecutor) Execute(ctx context.Context, req *message.Request) (*message.Response, error) {
	if req == nil {
		return nil, fmt.Errorf("remote executor: %w: request", util.ErrNilValue)
	}

	ctx, span := adapterTracer.Start(ctx, "executor.execute",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method()),
			attribute.String("http.url", req.URL()),
		),
	)
	defer span.End()

	var resp *message.Response
	_, err := e.breaker.Execute(func() (interface{}, error) {
		r, doErr := e.do(ctx, req)
		if doErr != nil {
			return nil, doErr
		}
		resp = r
		if util.IsServerError(r.StatusCode()) {
			return nil, fmt.Errorf("remote returned status %d", r.StatusCode())
		}
		return nil, nil
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			e.logger.Warn("circuit breaker rejected request",
				observability.String("name", e.name),
				observability.String("url", req.URL()),
			)
			err = fmt.Errorf("%w: %w", ErrRemoteUnavailable, err)
			span.RecordError(err)
			return nil, err
		}
		if resp != nil {
			// Server error responses surface with their body; the
			// error existed only to feed the breaker counts.
			span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
			return resp, nil
		}
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode()))
	return resp, nil
}

// do performs one HTTP exchange and converts the result.
func (e *RemoteExecutor) do(ctx context.Context, req *message.Request) (*message.Response, error) {
	var bodyReader io.Reader
	if len(req.Body()) > 0 {
		bodyReader = bytes.NewReader(req.Body())
	}

	httpReq, err := http.NewRequestWithContext(ctx, req.Method(), req.URL(), bodyReader)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range req.Headers().Map() {
		httpReq.Header.Set(k, v)
	}
	if req.ContentType() != "" {
		httpReq.Header.Set(HeaderContentType, req.ContentType())
	}
	observability.InjectTraceContext(ctx, httpReq)

	httpResp, err := e.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	headers := make(map[string]string, len(httpResp.Header))
	for k := range httpResp.Header {
		headers[k] = httpResp.Header.Get(k)
	}

	return message.NewResponse(httpResp.StatusCode,
		message.WithResponseHeaders(headers),
		message.WithResponseBody(body, httpResp.Header.Get(HeaderContentType)),
		message.WithRequest(req),
	)
}

// safeIntToUint32 clamps an int into uint32 range.
func safeIntToUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	if n > int(^uint32(0)) {
		return ^uint32(0)
	}
	return uint32(n) //nolint:gosec // bounds checked above
}
