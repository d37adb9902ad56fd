package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVaultProviderValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  *VaultProviderConfig
	}{
		{name: "nil config", cfg: nil},
		{name: "missing address", cfg: &VaultProviderConfig{Token: "t"}},
		{name: "missing token", cfg: &VaultProviderConfig{Address: "http://127.0.0.1:8200"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewVaultProvider(tt.cfg)
			assert.ErrorIs(t, err, ErrProviderNotConfigured)
		})
	}
}

func TestNewVaultProviderDefaults(t *testing.T) {
	provider, err := NewVaultProvider(&VaultProviderConfig{
		Address: "http://127.0.0.1:8200",
		Token:   "dev-token",
	})
	require.NoError(t, err)
	defer provider.Close()

	assert.Equal(t, ProviderTypeVault, provider.Type())
	assert.Equal(t, DefaultVaultMountPoint, provider.mountPoint)
}

func TestVaultProviderSecretPath(t *testing.T) {
	tests := []struct {
		name     string
		prefix   string
		path     string
		expected string
	}{
		{name: "no prefix", prefix: "", path: "upstream", expected: "upstream"},
		{name: "with prefix", prefix: "bridge", path: "upstream", expected: "bridge/upstream"},
		{name: "slashes trimmed", prefix: "/bridge/", path: "/upstream/", expected: "bridge/upstream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider, err := NewVaultProvider(&VaultProviderConfig{
				Address:    "http://127.0.0.1:8200",
				Token:      "dev-token",
				PathPrefix: tt.prefix,
			})
			require.NoError(t, err)
			defer provider.Close()

			assert.Equal(t, tt.expected, provider.secretPath(tt.path))
		})
	}
}
