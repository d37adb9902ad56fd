package secrets

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSecretGetString(t *testing.T) {
	secret := &Secret{
		Name: "upstream",
		Data: map[string][]byte{
			"token": []byte("s3cr3t"),
		},
	}

	v, ok := secret.GetString("token")
	assert.True(t, ok)
	assert.Equal(t, "s3cr3t", v)

	_, ok = secret.GetString("missing")
	assert.False(t, ok)

	var nilSecret *Secret
	_, ok = nilSecret.GetString("token")
	assert.False(t, ok)
}

func TestSecretGetBytes(t *testing.T) {
	secret := &Secret{
		Data: map[string][]byte{
			"cert": {0x01, 0x02},
		},
	}

	v, ok := secret.GetBytes("cert")
	assert.True(t, ok)
	assert.Equal(t, []byte{0x01, 0x02}, v)

	_, ok = secret.GetBytes("missing")
	assert.False(t, ok)
}

func TestValidateProviderType(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected ProviderType
		wantErr  bool
	}{
		{name: "vault", input: "vault", expected: ProviderTypeVault},
		{name: "env", input: "env", expected: ProviderTypeEnv},
		{name: "static", input: "static", expected: ProviderTypeStatic},
		{name: "unknown", input: "kubernetes", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ValidateProviderType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidProviderType)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestIsValidProviderType(t *testing.T) {
	assert.True(t, IsValidProviderType("env"))
	assert.False(t, IsValidProviderType("local"))
}
