package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStaticProviderGetSecret(t *testing.T) {
	provider, err := NewStaticProvider(&StaticProviderConfig{
		Secrets: map[string]map[string]string{
			"upstream": {"token": "abc123"},
		},
	})
	require.NoError(t, err)
	defer provider.Close()

	assert.Equal(t, ProviderTypeStatic, provider.Type())

	t.Run("existing secret", func(t *testing.T) {
		secret, err := provider.GetSecret(context.Background(), "upstream")
		require.NoError(t, err)

		token, ok := secret.GetString("token")
		assert.True(t, ok)
		assert.Equal(t, "abc123", token)
	})

	t.Run("missing secret", func(t *testing.T) {
		_, err := provider.GetSecret(context.Background(), "absent")
		assert.ErrorIs(t, err, ErrSecretNotFound)
	})

	t.Run("empty path", func(t *testing.T) {
		_, err := provider.GetSecret(context.Background(), "")
		assert.ErrorIs(t, err, ErrInvalidPath)
	})

	t.Run("returned data is a copy", func(t *testing.T) {
		secret, err := provider.GetSecret(context.Background(), "upstream")
		require.NoError(t, err)

		secret.Data["token"][0] = 'X'

		again, err := provider.GetSecret(context.Background(), "upstream")
		require.NoError(t, err)
		token, _ := again.GetString("token")
		assert.Equal(t, "abc123", token)
	})
}

func TestStaticProviderSetRemove(t *testing.T) {
	provider, err := NewStaticProvider(nil)
	require.NoError(t, err)

	provider.SetSecret("api-key", map[string]string{"value": "k-1"})

	secret, err := provider.GetSecret(context.Background(), "api-key")
	require.NoError(t, err)
	v, _ := secret.GetString("value")
	assert.Equal(t, "k-1", v)

	provider.RemoveSecret("api-key")

	_, err = provider.GetSecret(context.Background(), "api-key")
	assert.ErrorIs(t, err, ErrSecretNotFound)
}

func TestStaticProviderListSecrets(t *testing.T) {
	provider, err := NewStaticProvider(&StaticProviderConfig{
		Secrets: map[string]map[string]string{
			"b-secret": {"v": "2"},
			"a-secret": {"v": "1"},
		},
	})
	require.NoError(t, err)

	names, err := provider.ListSecrets(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, []string{"a-secret", "b-secret"}, names)
}
