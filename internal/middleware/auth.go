package middleware

import (
	"context"
	"fmt"

	"github.com/vyrodovalexey/avapibridge/internal/config"
	"github.com/vyrodovalexey/avapibridge/internal/message"
	"github.com/vyrodovalexey/avapibridge/internal/observability"
	"github.com/vyrodovalexey/avapibridge/internal/pipeline"
	"github.com/vyrodovalexey/avapibridge/internal/secrets"
)

// DefaultSecretKey is the key read from the resolved secret when the
// configuration does not name one.
const DefaultSecretKey = "token"

// AuthMiddleware injects a credential header into outbound requests.
// The credential is resolved from a secrets provider once, at
// construction, so request processing never blocks on the provider.
type AuthMiddleware struct {
	name   string
	header string
	value  string
	logger observability.Logger
}

var _ pipeline.Middleware = (*AuthMiddleware)(nil)

// AuthOption configures the auth middleware.
type AuthOption func(*AuthMiddleware)

// WithAuthName overrides the middleware name.
func WithAuthName(name string) AuthOption {
	return func(m *AuthMiddleware) {
		m.name = name
	}
}

// NewAuth resolves the configured credential and returns the
// middleware. Construction fails when the secret cannot be resolved or
// does not carry the configured key.
func NewAuth(ctx context.Context, cfg *config.AuthConfig, provider secrets.Provider, logger observability.Logger, opts ...AuthOption) (*AuthMiddleware, error) {
	if cfg == nil {
		return nil, fmt.Errorf("auth middleware: config is required")
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("auth middleware: %w", err)
	}

	if provider == nil {
		return nil, fmt.Errorf("auth middleware: secrets provider is required")
	}

	if logger == nil {
		logger = observability.NopLogger()
	}

	secret, err := provider.GetSecret(ctx, cfg.SecretName)
	if err != nil {
		return nil, fmt.Errorf("auth middleware: resolve secret %q: %w", cfg.SecretName, err)
	}

	key := cfg.SecretKey
	if key == "" {
		key = DefaultSecretKey
	}

	credential, ok := secret.GetString(key)
	if !ok {
		return nil, fmt.Errorf("auth middleware: secret %q has no key %q", cfg.SecretName, key)
	}

	m := &AuthMiddleware{
		name:   "auth",
		logger: logger,
	}

	switch cfg.Scheme {
	case config.AuthSchemeBearer:
		m.header = HeaderAuthorization
		m.value = "Bearer " + credential
	case config.AuthSchemeAPIKey:
		m.header = cfg.Header
		if m.header == "" {
			m.header = HeaderAPIKey
		}
		m.value = credential
	case config.AuthSchemeCustom:
		m.header = cfg.Header
		m.value = credential
	}

	for _, opt := range opts {
		opt(m)
	}

	return m, nil
}

// Name returns the middleware name.
func (m *AuthMiddleware) Name() string {
	return m.name
}

// OnRequest injects the credential header. A header already present on
// the request wins over the configured credential.
func (m *AuthMiddleware) OnRequest(_ context.Context, req *message.Request) (*message.Request, error) {
	if _, ok := req.Headers().Lookup(m.header); ok {
		m.logger.Debug("auth header already present, skipping injection",
			observability.String("header", m.header))
		return req, nil
	}

	return req.WithHeader(m.header, m.value), nil
}

// OnResponse passes the response through unchanged.
func (m *AuthMiddleware) OnResponse(_ context.Context, resp *message.Response) (*message.Response, error) {
	return resp, nil
}

// OnError never recovers.
func (m *AuthMiddleware) OnError(context.Context, error, *message.Request) (*message.Response, error) {
	return nil, nil
}
