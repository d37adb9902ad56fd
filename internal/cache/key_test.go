package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/message"
)

func TestKeyForRequest(t *testing.T) {
	req := message.NewRequest("get", "/users/42")

	key := KeyForRequest(req, nil)
	assert.Equal(t, "GET:/users/42", key)
}

func TestKeyForRequestVaryHeaders(t *testing.T) {
	req := message.NewRequest("GET", "/users",
		message.WithHeader("Accept", "application/json"),
		message.WithHeader("Accept-Language", "de"),
	)

	key := KeyForRequest(req, []string{"Accept-Language", "Accept"})
	assert.Equal(t, "GET:/users:h:Accept=application/json&Accept-Language=de", key)

	// Order of the vary list must not change the key.
	again := KeyForRequest(req, []string{"Accept", "Accept-Language"})
	assert.Equal(t, key, again)
}

func TestKeyForRequestMissingVaryHeader(t *testing.T) {
	req := message.NewRequest("GET", "/users")

	key := KeyForRequest(req, []string{"Accept"})
	assert.Equal(t, "GET:/users", key)
}

func TestHashKey(t *testing.T) {
	h1 := HashKey("GET:/users")
	h2 := HashKey("GET:/users")
	h3 := HashKey("GET:/orders")

	require.Len(t, h1, 64)
	assert.Equal(t, h1, h2)
	assert.NotEqual(t, h1, h3)
}

func TestSanitizeKey(t *testing.T) {
	assert.Equal(t, "GET:/a_b", SanitizeKey("GET:/a b"))
	assert.Equal(t, "GET:/ab", SanitizeKey("GET:/a\nb"))
	assert.Equal(t, "GET:/ab", SanitizeKey("GET:/a\r\tb"))
}
