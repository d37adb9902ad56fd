package secrets

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingProvider counts backend fetches.
type countingProvider struct {
	inner Provider
	gets  atomic.Int64
}

func (p *countingProvider) Type() ProviderType { return p.inner.Type() }

func (p *countingProvider) GetSecret(ctx context.Context, path string) (*Secret, error) {
	p.gets.Add(1)
	return p.inner.GetSecret(ctx, path)
}

func (p *countingProvider) ListSecrets(ctx context.Context, path string) ([]string, error) {
	return p.inner.ListSecrets(ctx, path)
}

func (p *countingProvider) Close() error { return p.inner.Close() }

func newCountingProvider(t *testing.T) *countingProvider {
	t.Helper()
	inner, err := NewStaticProvider(&StaticProviderConfig{
		Secrets: map[string]map[string]string{
			"upstream": {"token": "abc"},
		},
	})
	require.NoError(t, err)
	return &countingProvider{inner: inner}
}

func TestCachingProviderServesFromCache(t *testing.T) {
	backend := newCountingProvider(t)
	cached := NewCachingProvider(backend, time.Minute, nil)

	for i := 0; i < 3; i++ {
		secret, err := cached.GetSecret(context.Background(), "upstream")
		require.NoError(t, err)
		token, _ := secret.GetString("token")
		assert.Equal(t, "abc", token)
	}

	assert.Equal(t, int64(1), backend.gets.Load())
}

func TestCachingProviderExpiry(t *testing.T) {
	backend := newCountingProvider(t)
	cached := NewCachingProvider(backend, 10*time.Millisecond, nil)

	_, err := cached.GetSecret(context.Background(), "upstream")
	require.NoError(t, err)

	time.Sleep(20 * time.Millisecond)

	_, err = cached.GetSecret(context.Background(), "upstream")
	require.NoError(t, err)

	assert.Equal(t, int64(2), backend.gets.Load())
}

func TestCachingProviderInvalidate(t *testing.T) {
	backend := newCountingProvider(t)
	cached := NewCachingProvider(backend, time.Minute, nil)

	_, err := cached.GetSecret(context.Background(), "upstream")
	require.NoError(t, err)

	cached.Invalidate("upstream")

	_, err = cached.GetSecret(context.Background(), "upstream")
	require.NoError(t, err)
	assert.Equal(t, int64(2), backend.gets.Load())
}

func TestCachingProviderDoesNotCacheErrors(t *testing.T) {
	backend := newCountingProvider(t)
	cached := NewCachingProvider(backend, time.Minute, nil)

	for i := 0; i < 2; i++ {
		_, err := cached.GetSecret(context.Background(), "absent")
		assert.ErrorIs(t, err, ErrSecretNotFound)
	}

	assert.Equal(t, int64(2), backend.gets.Load())
}
