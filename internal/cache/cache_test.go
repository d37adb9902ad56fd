package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/config"
)

func TestNewDispatch(t *testing.T) {
	t.Run("nil config", func(t *testing.T) {
		_, err := New(nil, nil)
		assert.ErrorIs(t, err, ErrInvalidConfig)
	})

	t.Run("memory", func(t *testing.T) {
		store, err := New(&config.CacheConfig{Type: "memory"}, nil)
		require.NoError(t, err)
		defer store.Close()

		_, ok := store.(*memoryCache)
		assert.True(t, ok)
	})

	t.Run("empty type defaults to memory", func(t *testing.T) {
		store, err := New(&config.CacheConfig{}, nil)
		require.NoError(t, err)
		defer store.Close()

		_, ok := store.(*memoryCache)
		assert.True(t, ok)
	})

	t.Run("unknown type", func(t *testing.T) {
		_, err := New(&config.CacheConfig{Type: "memcached"}, nil)
		assert.Error(t, err)
	})
}
