package secrets

import (
	"context"
	"sync"
	"time"

	"github.com/vyrodovalexey/avapibridge/internal/observability"
)

// CachingProvider wraps a Provider with a TTL cache. Hot secrets are
// served from memory instead of hitting the backend on every request.
type CachingProvider struct {
	provider Provider
	mu       sync.RWMutex
	cache    map[string]*cachedSecret
	ttl      time.Duration
	logger   observability.Logger
}

type cachedSecret struct {
	secret    *Secret
	expiresAt time.Time
}

// NewCachingProvider creates a new caching provider wrapper.
func NewCachingProvider(provider Provider, ttl time.Duration, logger observability.Logger) *CachingProvider {
	if logger == nil {
		logger = observability.NopLogger()
	}
	return &CachingProvider{
		provider: provider,
		cache:    make(map[string]*cachedSecret),
		ttl:      ttl,
		logger:   logger,
	}
}

// Type returns the underlying provider type.
func (p *CachingProvider) Type() ProviderType {
	return p.provider.Type()
}

// GetSecret retrieves a secret, using the cache when the entry is fresh.
func (p *CachingProvider) GetSecret(ctx context.Context, path string) (*Secret, error) {
	p.mu.RLock()
	cached, ok := p.cache[path]
	p.mu.RUnlock()

	if ok && time.Now().Before(cached.expiresAt) {
		p.logger.Debug("secret cache hit", observability.String("path", path))
		return cached.secret, nil
	}

	secret, err := p.provider.GetSecret(ctx, path)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	p.cache[path] = &cachedSecret{
		secret:    secret,
		expiresAt: time.Now().Add(p.ttl),
	}
	p.mu.Unlock()

	return secret, nil
}

// ListSecrets delegates to the underlying provider.
func (p *CachingProvider) ListSecrets(ctx context.Context, path string) ([]string, error) {
	return p.provider.ListSecrets(ctx, path)
}

// Invalidate removes a path from the cache.
func (p *CachingProvider) Invalidate(path string) {
	p.mu.Lock()
	delete(p.cache, path)
	p.mu.Unlock()
}

// Clear removes all cached secrets.
func (p *CachingProvider) Clear() {
	p.mu.Lock()
	p.cache = make(map[string]*cachedSecret)
	p.mu.Unlock()
}

// Close closes the underlying provider.
func (p *CachingProvider) Close() error {
	return p.provider.Close()
}
