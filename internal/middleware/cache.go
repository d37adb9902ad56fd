package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/vyrodovalexey/avapibridge/internal/cache"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
	"github.com/vyrodovalexey/avapibridge/internal/serializer"
)

// cachedResponse is the stored form of a cacheable response.
type cachedResponse struct {
	Status      int               `json:"status"`
	Headers     map[string]string `json:"headers,omitempty"`
	Body        []byte            `json:"body,omitempty"`
	ContentType string            `json:"contentType,omitempty"`
}

// cacheHitError short-circuits the request stage when a cached
// response exists. The middleware's own OnError hook unwraps it and
// answers with the cached response, so a hit never reaches the
// handler.
type cacheHitError struct {
	resp *message.Response
}

func (e *cacheHitError) Error() string {
	return "response served from cache"
}

// CacheMiddleware answers repeated GET requests from a cache. Only
// 200-status GET responses are stored.
type CacheMiddleware struct {
	name        string
	store       cache.Cache
	ttl         time.Duration
	varyHeaders []string
	codec       serializer.Serializer
	logger      observability.Logger
}

var _ pipeline.Middleware = (*CacheMiddleware)(nil)

// CacheOption configures the cache middleware.
type CacheOption func(*CacheMiddleware)

// WithCacheName overrides the middleware name.
func WithCacheName(name string) CacheOption {
	return func(m *CacheMiddleware) {
		m.name = name
	}
}

// WithCacheTTL sets the per-entry lifetime. Zero defers to the store's
// default.
func WithCacheTTL(ttl time.Duration) CacheOption {
	return func(m *CacheMiddleware) {
		m.ttl = ttl
	}
}

// WithVaryHeaders makes the cache key depend on the named request
// headers.
func WithVaryHeaders(headers ...string) CacheOption {
	return func(m *CacheMiddleware) {
		m.varyHeaders = headers
	}
}

// WithCacheCodec overrides the entry codec. The default is JSON.
func WithCacheCodec(codec serializer.Serializer) CacheOption {
	return func(m *CacheMiddleware) {
		m.codec = codec
	}
}

// NewCache creates the caching middleware backed by the given store.
func NewCache(store cache.Cache, logger observability.Logger, opts ...CacheOption) (*CacheMiddleware, error) {
	if store == nil {
		return nil, fmt.Errorf("cache middleware: store is required")
	}

	if logger == nil {
		logger = observability.NopLogger()
	}

	m := &CacheMiddleware{
		name:   "cache",
		store:  store,
		codec:  serializer.NewJSON(),
		logger: logger,
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Name returns the middleware name.
func (m *CacheMiddleware) Name() string {
	return m.name
}

// OnRequest looks the request up in the cache. A hit short-circuits;
// the response is delivered through OnError. Lookup failures other
// than a miss are logged and treated as misses.
func (m *CacheMiddleware) OnRequest(ctx context.Context, req *message.Request) (*message.Request, error) {
	if req.Method() != http.MethodGet {
		return req, nil
	}

	key := m.key(req)

	data, err := m.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrCacheMiss) {
			m.logger.Warn("cache lookup failed",
				observability.String("key", key),
				observability.Err(err))
		}
		return req, nil
	}

	var entry cachedResponse
	if err := m.codec.Decode(data, &entry); err != nil {
		m.logger.Warn("cached entry is undecodable, dropping",
			observability.String("key", key),
			observability.Err(err))
		if delErr := m.store.Delete(ctx, key); delErr != nil {
			m.logger.Warn("cache delete failed",
				observability.String("key", key),
				observability.Err(delErr))
		}
		return req, nil
	}

	resp, err := m.rebuild(&entry, req)
	if err != nil {
		m.logger.Warn("cached entry is unusable",
			observability.String("key", key),
			observability.Err(err))
		return req, nil
	}

	m.logger.Debug("cache hit", observability.String("key", key))

	return nil, &cacheHitError{resp: resp}
}

// OnResponse stores cacheable responses. Only a 200-status response to
// a GET request is stored; everything else passes through.
func (m *CacheMiddleware) OnResponse(ctx context.Context, resp *message.Response) (*message.Response, error) {
	req := resp.Request()
	if req == nil || req.Method() != http.MethodGet || resp.StatusCode() != http.StatusOK {
		return resp, nil
	}

	if _, fromCache := req.Extension(extKeyCacheHit); fromCache {
		return resp, nil
	}

	entry := cachedResponse{
		Status:      resp.StatusCode(),
		Headers:     resp.Headers().Map(),
		Body:        resp.Body(),
		ContentType: resp.ContentType(),
	}

	data, err := m.codec.Encode(entry)
	if err != nil {
		m.logger.Warn("cache encode failed", observability.Err(err))
		return resp, nil
	}

	key := m.key(req)
	if err := m.store.Set(ctx, key, data, m.ttl); err != nil {
		m.logger.Warn("cache store failed",
			observability.String("key", key),
			observability.Err(err))
	}

	return resp, nil
}

// OnError answers with the cached response when the failure is this
// middleware's own cache-hit short circuit.
func (m *CacheMiddleware) OnError(_ context.Context, cause error, _ *message.Request) (*message.Response, error) {
	var hit *cacheHitError
	if errors.As(cause, &hit) {
		return hit.resp, nil
	}
	return nil, nil
}

// Invalidate removes the cached entry for a request.
func (m *CacheMiddleware) Invalidate(ctx context.Context, req *message.Request) error {
	return m.store.Delete(ctx, m.key(req))
}

func (m *CacheMiddleware) key(req *message.Request) string {
	return cache.KeyForRequest(req, m.varyHeaders)
}

// rebuild turns a stored entry back into a response. The originating
// request is attached and marked so the response stage does not
// re-store it.
func (m *CacheMiddleware) rebuild(entry *cachedResponse, req *message.Request) (*message.Response, error) {
	opts := []message.ResponseOption{}
	if len(entry.Headers) > 0 {
		opts = append(opts, message.WithResponseHeaders(entry.Headers))
	}
	if len(entry.Body) > 0 {
		opts = append(opts, message.WithResponseBody(entry.Body, entry.ContentType))
	}

	req.SetExtension(extKeyCacheHit, true)
	opts = append(opts, message.WithRequest(req))

	return message.NewResponse(entry.Status, opts...)
}
