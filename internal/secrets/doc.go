// Package secrets provides a unified interface for resolving credentials
// from multiple backends: HashiCorp Vault, environment variables, and
// static in-memory data.
//
// # Providers
//
// A Provider resolves named secrets to key-value data:
//
//	provider, err := secrets.NewEnvProvider(&secrets.EnvProviderConfig{})
//	if err != nil {
//		return err
//	}
//	secret, err := provider.GetSecret(ctx, "upstream-token")
//	if err != nil {
//		return err
//	}
//	token, _ := secret.GetString("token")
//
// Providers are read-only. The authentication middleware uses them to
// resolve the credential it injects into forwarded requests.
//
// # Caching
//
// CachingProvider wraps any Provider with a TTL cache so hot secrets are
// not fetched from the backend on every request:
//
//	cached := secrets.NewCachingProvider(provider, 5*time.Minute, logger)
package secrets
