package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/secrets"
)

func staticSecrets(t *testing.T, data map[string]map[string]string) secrets.Provider {
	t.Helper()

	provider, err := secrets.NewStaticProvider(&secrets.StaticProviderConfig{
		Secrets: data,
	})
	require.NoError(t, err)

	return provider
}

func TestNewAuthSchemes(t *testing.T) {
	t.Parallel()

	provider := staticSecrets(t, map[string]map[string]string{
		"api-credentials": {
			"token":  "s3cret",
			"apikey": "key-123",
		},
	})

	tests := []struct {
		name       string
		cfg        *config.AuthConfig
		wantHeader string
		wantValue  string
	}{
		{
			name: "bearer prefixes the token",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeBearer,
				SecretName: "api-credentials",
			},
			wantHeader: HeaderAuthorization,
			wantValue:  "Bearer s3cret",
		},
		{
			name: "apikey defaults to X-API-Key",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeAPIKey,
				SecretName: "api-credentials",
				SecretKey:  "apikey",
			},
			wantHeader: HeaderAPIKey,
			wantValue:  "key-123",
		},
		{
			name: "apikey honors a configured header",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeAPIKey,
				Header:     "X-Service-Key",
				SecretName: "api-credentials",
				SecretKey:  "apikey",
			},
			wantHeader: "X-Service-Key",
			wantValue:  "key-123",
		},
		{
			name: "custom uses the configured header verbatim",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeCustom,
				Header:     "X-Internal-Token",
				SecretName: "api-credentials",
			},
			wantHeader: "X-Internal-Token",
			wantValue:  "s3cret",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewAuth(context.Background(), tt.cfg, provider, nil)
			require.NoError(t, err)

			req := message.NewRequest("GET", "https://api.example.com/users")

			out, err := m.OnRequest(context.Background(), req)
			require.NoError(t, err)

			assert.Equal(t, tt.wantValue, out.Header(tt.wantHeader))
		})
	}
}

func TestAuthDoesNotClobberExistingHeader(t *testing.T) {
	t.Parallel()

	provider := staticSecrets(t, map[string]map[string]string{
		"api-credentials": {"token": "s3cret"},
	})

	m, err := NewAuth(context.Background(), &config.AuthConfig{
		Scheme:     config.AuthSchemeBearer,
		SecretName: "api-credentials",
	}, provider, nil)
	require.NoError(t, err)

	req := message.NewRequest("GET", "https://api.example.com/users",
		message.WithHeader(HeaderAuthorization, "Bearer caller-token"))

	out, err := m.OnRequest(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer caller-token", out.Header(HeaderAuthorization))
}

func TestNewAuthErrors(t *testing.T) {
	t.Parallel()

	provider := staticSecrets(t, map[string]map[string]string{
		"api-credentials": {"token": "s3cret"},
	})

	tests := []struct {
		name     string
		cfg      *config.AuthConfig
		provider secrets.Provider
	}{
		{
			name:     "nil config",
			cfg:      nil,
			provider: provider,
		},
		{
			name: "nil provider",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeBearer,
				SecretName: "api-credentials",
			},
			provider: nil,
		},
		{
			name: "unknown scheme",
			cfg: &config.AuthConfig{
				Scheme:     "hmac",
				SecretName: "api-credentials",
			},
			provider: provider,
		},
		{
			name: "missing secret",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeBearer,
				SecretName: "absent",
			},
			provider: provider,
		},
		{
			name: "missing secret key",
			cfg: &config.AuthConfig{
				Scheme:     config.AuthSchemeBearer,
				SecretName: "api-credentials",
				SecretKey:  "password",
			},
			provider: provider,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			m, err := NewAuth(context.Background(), tt.cfg, tt.provider, nil)
			assert.Error(t, err)
			assert.Nil(t, m)
		})
	}
}

func TestAuthMissingSecretWrapsSentinel(t *testing.T) {
	t.Parallel()

	provider := staticSecrets(t, nil)

	_, err := NewAuth(context.Background(), &config.AuthConfig{
		Scheme:     config.AuthSchemeBearer,
		SecretName: "absent",
	}, provider, nil)

	require.Error(t, err)
	assert.True(t, errors.Is(err, secrets.ErrSecretNotFound))
}

func TestAuthPassesResponsesAndErrorsThrough(t *testing.T) {
	t.Parallel()

	provider := staticSecrets(t, map[string]map[string]string{
		"api-credentials": {"token": "s3cret"},
	})

	m, err := NewAuth(context.Background(), &config.AuthConfig{
		Scheme:     config.AuthSchemeBearer,
		SecretName: "api-credentials",
	}, provider, nil, WithAuthName("backend_auth"))
	require.NoError(t, err)
	assert.Equal(t, "backend_auth", m.Name())

	resp, err := message.NewResponse(200)
	require.NoError(t, err)

	out, err := m.OnResponse(context.Background(), resp)
	require.NoError(t, err)
	assert.Same(t, resp, out)

	recovered, err := m.OnError(context.Background(), errors.New("boom"), nil)
	assert.Nil(t, recovered)
	assert.NoError(t, err)
}
