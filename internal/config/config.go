package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/vyrodovalexey/avapibridge/internal/util"
)

// Defaults applied by the constructors below.
const (
	// DefaultGraphQLEndpoint is the path GraphQL operations are POSTed to.
	DefaultGraphQLEndpoint = "/graphql"

	// DefaultWebSocketBufferSize is the read and write buffer size for
	// WebSocket connections.
	DefaultWebSocketBufferSize = 1024

	// DefaultWatcherDebounce is the debounce delay for schema file
	// reloads.
	DefaultWatcherDebounce = 500 * time.Millisecond

	// DefaultCacheTTL is the response cache time-to-live.
	DefaultCacheTTL = 5 * time.Minute

	// DefaultCacheMaxEntries is the memory cache capacity.
	DefaultCacheMaxEntries = 10000

	// DefaultClientTTL is the idle lifetime of per-client rate limiter
	// entries.
	DefaultClientTTL = 10 * time.Minute
)

// Authentication schemes accepted by AuthConfig.
const (
	AuthSchemeBearer = "bearer"
	AuthSchemeAPIKey = "apikey"
	AuthSchemeCustom = "custom"
)

// GraphQLConfig configures the GraphQL adapter.
type GraphQLConfig struct {
	// Endpoint is the HTTP path GraphQL operations are sent to.
	Endpoint string `yaml:"endpoint,omitempty" json:"endpoint,omitempty"`
}

// DefaultGraphQLConfig returns the default GraphQL adapter configuration.
func DefaultGraphQLConfig() GraphQLConfig {
	return GraphQLConfig{Endpoint: DefaultGraphQLEndpoint}
}

// Validate checks the configuration.
func (c *GraphQLConfig) Validate() error {
	if c.Endpoint != "" && !strings.HasPrefix(c.Endpoint, "/") {
		return util.NewFieldValidationError("graphql", "endpoint", "must start with '/'")
	}
	return nil
}

// LegacyConfig configures the legacy system adapter.
type LegacyConfig struct {
	// BaseURL is prefixed to outbound legacy request paths.
	BaseURL string `yaml:"baseUrl,omitempty" json:"baseUrl,omitempty"`
}

// Validate checks the configuration.
func (c *LegacyConfig) Validate() error {
	if c.BaseURL != "" && !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return util.NewFieldValidationError("legacy", "baseUrl", "must start with http:// or https://")
	}
	return nil
}

// WebSocketConfig configures the WebSocket adapter and bridge.
type WebSocketConfig struct {
	// ReadBufferSize is the connection read buffer size in bytes.
	ReadBufferSize int `yaml:"readBufferSize,omitempty" json:"readBufferSize,omitempty"`

	// WriteBufferSize is the connection write buffer size in bytes.
	WriteBufferSize int `yaml:"writeBufferSize,omitempty" json:"writeBufferSize,omitempty"`

	// Format is the serialization format for envelope frames.
	Format string `yaml:"format,omitempty" json:"format,omitempty"`
}

// DefaultWebSocketConfig returns the default WebSocket configuration.
func DefaultWebSocketConfig() WebSocketConfig {
	return WebSocketConfig{
		ReadBufferSize:  DefaultWebSocketBufferSize,
		WriteBufferSize: DefaultWebSocketBufferSize,
		Format:          "json",
	}
}

// Validate checks the configuration.
func (c *WebSocketConfig) Validate() error {
	if c.ReadBufferSize < 0 {
		return util.NewFieldValidationError("websocket", "readBufferSize", "must not be negative")
	}
	if c.WriteBufferSize < 0 {
		return util.NewFieldValidationError("websocket", "writeBufferSize", "must not be negative")
	}
	return nil
}

// ValidatorConfig configures the AsyncAPI validator.
type ValidatorConfig struct {
	// Strict enables the strict-mode checks: 3.x channel addresses,
	// the server protocol allow-list, and the components section
	// allow-list.
	Strict bool `yaml:"strict,omitempty" json:"strict,omitempty"`
}

// WatcherConfig configures the schema document watcher.
type WatcherConfig struct {
	// DebounceDelay batches rapid file events into one reload.
	DebounceDelay Duration `yaml:"debounceDelay,omitempty" json:"debounceDelay,omitempty"`
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{DebounceDelay: Duration(DefaultWatcherDebounce)}
}

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained request rate.
	RequestsPerSecond int `yaml:"requestsPerSecond" json:"requestsPerSecond"`

	// Burst is the token bucket size.
	Burst int `yaml:"burst" json:"burst"`

	// PerClient keys limiters by client identity instead of sharing
	// one bucket.
	PerClient bool `yaml:"perClient,omitempty" json:"perClient,omitempty"`

	// ClientHeader names the header carrying the client identity.
	ClientHeader string `yaml:"clientHeader,omitempty" json:"clientHeader,omitempty"`

	// ClientTTL is the idle lifetime of per-client limiter entries.
	ClientTTL Duration `yaml:"clientTTL,omitempty" json:"clientTTL,omitempty"`
}

// DefaultRateLimitConfig returns the default rate limit configuration.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		RequestsPerSecond: 100,
		Burst:             200,
		ClientHeader:      "X-Forwarded-For",
		ClientTTL:         Duration(DefaultClientTTL),
	}
}

// Validate checks the configuration.
func (c *RateLimitConfig) Validate() error {
	if c.RequestsPerSecond <= 0 {
		return util.NewFieldValidationError("ratelimit", "requestsPerSecond", "must be positive")
	}
	if c.Burst <= 0 {
		return util.NewFieldValidationError("ratelimit", "burst", "must be positive")
	}
	return nil
}

// CacheConfig configures the response caching middleware.
type CacheConfig struct {
	// Type is the cache backend type: "memory" or "redis".
	Type string `yaml:"type" json:"type"`

	// TTL is the time-to-live for cached responses.
	TTL Duration `yaml:"ttl,omitempty" json:"ttl,omitempty"`

	// MaxEntries is the memory cache capacity.
	MaxEntries int `yaml:"maxEntries,omitempty" json:"maxEntries,omitempty"`

	// Redis contains Redis-specific configuration.
	Redis *RedisConfig `yaml:"redis,omitempty" json:"redis,omitempty"`
}

// RedisConfig contains Redis connection configuration.
type RedisConfig struct {
	// URL is the Redis connection URL.
	// Format: redis://[user:password@]host:port[/db]
	URL string `yaml:"url" json:"url"`

	// KeyPrefix is prepended to every cache key.
	KeyPrefix string `yaml:"keyPrefix,omitempty" json:"keyPrefix,omitempty"`

	// ConnectTimeout bounds the initial connection check.
	ConnectTimeout Duration `yaml:"connectTimeout,omitempty" json:"connectTimeout,omitempty"`
}

// DefaultCacheConfig returns the default cache configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		Type:       "memory",
		TTL:        Duration(DefaultCacheTTL),
		MaxEntries: DefaultCacheMaxEntries,
	}
}

// Validate checks the configuration.
func (c *CacheConfig) Validate() error {
	switch c.Type {
	case "memory":
	case "redis":
		if c.Redis == nil || c.Redis.URL == "" {
			return util.NewFieldValidationError("cache", "redis.url", "required for redis cache")
		}
	default:
		return util.NewFieldValidationError("cache", "type",
			fmt.Sprintf("unknown cache type %q", c.Type))
	}
	return nil
}

// AuthConfig configures the authentication middleware.
type AuthConfig struct {
	// Scheme selects the injected credential shape: "bearer",
	// "apikey", or "custom".
	Scheme string `yaml:"scheme" json:"scheme"`

	// Header names the target header for apikey and custom schemes.
	// Defaults to X-API-Key for apikey.
	Header string `yaml:"header,omitempty" json:"header,omitempty"`

	// SecretName is the secret holding the credential.
	SecretName string `yaml:"secretName" json:"secretName"`

	// SecretKey is the key inside the secret. Defaults to "token".
	SecretKey string `yaml:"secretKey,omitempty" json:"secretKey,omitempty"`
}

// Validate checks the configuration.
func (c *AuthConfig) Validate() error {
	switch c.Scheme {
	case AuthSchemeBearer, AuthSchemeAPIKey:
	case AuthSchemeCustom:
		if c.Header == "" {
			return util.NewFieldValidationError("auth", "header", "required for custom scheme")
		}
	default:
		return util.NewFieldValidationError("auth", "scheme",
			fmt.Sprintf("unknown auth scheme %q", c.Scheme))
	}
	if c.SecretName == "" {
		return util.NewFieldValidationError("auth", "secretName", "required")
	}
	return nil
}
