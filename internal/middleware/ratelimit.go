package middleware

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// clientEntry tracks a per-client limiter and its last access time for
// TTL-based eviction.
type clientEntry struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimitMiddleware rejects requests that exceed a token bucket
// budget. In per-client mode each client, identified by a configured
// header, gets its own bucket; idle buckets are evicted after a TTL.
type RateLimitMiddleware struct {
	name   string
	cfg    *config.RateLimitConfig
	logger observability.Logger

	global *rate.Limiter

	mu      sync.Mutex
	clients map[string]*clientEntry

	cleanupInterval time.Duration
	stopCh          chan struct{}
	stopOnce        sync.Once
}

var _ pipeline.Middleware = (*RateLimitMiddleware)(nil)

// RateLimitOption configures the rate limit middleware.
type RateLimitOption func(*RateLimitMiddleware)

// WithRateLimitName overrides the middleware name.
func WithRateLimitName(name string) RateLimitOption {
	return func(m *RateLimitMiddleware) {
		m.name = name
	}
}

// NewRateLimit creates the rate limit middleware. In per-client mode a
// background goroutine evicts idle client buckets; callers must Stop
// the middleware when discarding it.
func NewRateLimit(cfg *config.RateLimitConfig, logger observability.Logger, opts ...RateLimitOption) (*RateLimitMiddleware, error) {
	if cfg == nil {
		def := config.DefaultRateLimitConfig()
		cfg = &def
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if logger == nil {
		logger = observability.NopLogger()
	}

	m := &RateLimitMiddleware{
		name:   "rate_limit",
		cfg:    cfg,
		logger: logger,
		stopCh: make(chan struct{}),
	}

	for _, opt := range opts {
		opt(m)
	}

	if cfg.PerClient {
		m.clients = make(map[string]*clientEntry)
		m.cleanupInterval = cleanupIntervalFor(cfg.ClientTTL.Duration())
		go m.cleanupLoop()
	} else {
		m.global = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst)
	}

	return m, nil
}

// cleanupIntervalFor derives the eviction sweep interval from the
// client TTL, clamped to [10s, 1m].
func cleanupIntervalFor(ttl time.Duration) time.Duration {
	interval := ttl / 2
	if interval < 10*time.Second {
		interval = 10 * time.Second
	}
	if interval > time.Minute {
		interval = time.Minute
	}
	return interval
}

// Name returns the middleware name.
func (m *RateLimitMiddleware) Name() string {
	return m.name
}

// OnRequest admits or rejects the request. Rejection is a
// short-circuit carrying ErrRateLimited.
func (m *RateLimitMiddleware) OnRequest(_ context.Context, req *message.Request) (*message.Request, error) {
	if m.allow(req) {
		return req, nil
	}

	fields := []observability.Field{
		observability.String("method", req.Method()),
		observability.String("url", req.URL()),
	}
	if m.cfg.PerClient {
		fields = append(fields, observability.String("client", m.clientKey(req)))
	}
	m.logger.Warn("rate limit exceeded", fields...)

	return nil, util.ErrRateLimited
}

// OnResponse passes the response through unchanged.
func (m *RateLimitMiddleware) OnResponse(_ context.Context, resp *message.Response) (*message.Response, error) {
	return resp, nil
}

// OnError never recovers.
func (m *RateLimitMiddleware) OnError(context.Context, error, *message.Request) (*message.Response, error) {
	return nil, nil
}

// allow consumes one token from the applicable bucket.
func (m *RateLimitMiddleware) allow(req *message.Request) bool {
	if !m.cfg.PerClient {
		return m.global.Allow()
	}

	key := m.clientKey(req)

	m.mu.Lock()
	entry, ok := m.clients[key]
	if !ok {
		entry = &clientEntry{
			limiter: rate.NewLimiter(rate.Limit(m.cfg.RequestsPerSecond), m.cfg.Burst),
		}
		m.clients[key] = entry
	}
	entry.lastAccess = time.Now()
	m.mu.Unlock()

	return entry.limiter.Allow()
}

// clientKey identifies the client bucket for a request. Requests
// without the configured header share one bucket.
func (m *RateLimitMiddleware) clientKey(req *message.Request) string {
	if v, ok := req.Headers().Lookup(m.cfg.ClientHeader); ok && v != "" {
		return v
	}
	return "unknown"
}

// cleanupLoop evicts client buckets idle longer than the TTL.
func (m *RateLimitMiddleware) cleanupLoop() {
	ticker := time.NewTicker(m.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.evictIdle()
		case <-m.stopCh:
			return
		}
	}
}

func (m *RateLimitMiddleware) evictIdle() {
	ttl := m.cfg.ClientTTL.Duration()
	cutoff := time.Now().Add(-ttl)

	m.mu.Lock()
	evicted := 0
	for key, entry := range m.clients {
		if entry.lastAccess.Before(cutoff) {
			delete(m.clients, key)
			evicted++
		}
	}
	remaining := len(m.clients)
	m.mu.Unlock()

	if evicted > 0 {
		m.logger.Debug("evicted idle rate limit clients",
			observability.Int("evicted", evicted),
			observability.Int("remaining", remaining))
	}
}

// ClientCount reports the number of tracked client buckets.
func (m *RateLimitMiddleware) ClientCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.clients)
}

// Stop terminates the eviction goroutine. Safe to call more than once.
func (m *RateLimitMiddleware) Stop() {
	m.stopOnce.Do(func() {
		close(m.stopCh)
	})
}
