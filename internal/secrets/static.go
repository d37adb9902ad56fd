package secrets

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/vyrodovalexey/avapibridge/internal/observability"
)

// StaticProvider implements the Provider interface using static
// in-memory data. It is intended for tests and single-binary
// deployments where credentials arrive through configuration.
type StaticProvider struct {
	mu      sync.RWMutex
	secrets map[string]map[string][]byte
	logger  observability.Logger
}

// StaticProviderConfig holds configuration for the static secrets provider.
type StaticProviderConfig struct {
	// Secrets maps secret names to key-value data.
	Secrets map[string]map[string]string
	// Logger is the logger instance.
	Logger observability.Logger
}

// NewStaticProvider creates a new static secrets provider.
func NewStaticProvider(cfg *StaticProviderConfig) (*StaticProvider, error) {
	if cfg == nil {
		cfg = &StaticProviderConfig{}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	secrets := make(map[string]map[string][]byte, len(cfg.Secrets))
	for name, data := range cfg.Secrets {
		entry := make(map[string][]byte, len(data))
		for k, v := range data {
			entry[k] = []byte(v)
		}
		secrets[name] = entry
	}

	return &StaticProvider{
		secrets: secrets,
		logger:  logger,
	}, nil
}

// Type returns the provider type.
func (p *StaticProvider) Type() ProviderType {
	return ProviderTypeStatic
}

// GetSecret retrieves a secret from the in-memory store.
func (p *StaticProvider) GetSecret(ctx context.Context, path string) (*Secret, error) {
	start := time.Now()

	if path == "" {
		RecordOperation(p.Type(), "get", time.Since(start), ErrInvalidPath)
		return nil, ErrInvalidPath
	}

	p.mu.RLock()
	data, ok := p.secrets[path]
	p.mu.RUnlock()

	if !ok {
		RecordOperation(p.Type(), "get", time.Since(start), ErrSecretNotFound)
		return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, path)
	}

	// Copy so callers cannot mutate the store.
	copied := make(map[string][]byte, len(data))
	for k, v := range data {
		buf := make([]byte, len(v))
		copy(buf, v)
		copied[k] = buf
	}

	RecordOperation(p.Type(), "get", time.Since(start), nil)

	return &Secret{
		Name: path,
		Data: copied,
		Metadata: map[string]string{
			"source": "static",
		},
	}, nil
}

// ListSecrets lists all secret names in the store.
func (p *StaticProvider) ListSecrets(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	defer func() {
		RecordOperation(p.Type(), "list", time.Since(start), nil)
	}()

	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.secrets))
	for name := range p.secrets {
		names = append(names, name)
	}
	sort.Strings(names)

	return names, nil
}

// SetSecret stores or replaces a secret in the in-memory store.
func (p *StaticProvider) SetSecret(name string, data map[string]string) {
	entry := make(map[string][]byte, len(data))
	for k, v := range data {
		entry[k] = []byte(v)
	}

	p.mu.Lock()
	p.secrets[name] = entry
	p.mu.Unlock()

	p.logger.Debug("static secret stored",
		observability.String("name", name),
		observability.Int("keys", len(entry)),
	)
}

// RemoveSecret removes a secret from the in-memory store.
func (p *StaticProvider) RemoveSecret(name string) {
	p.mu.Lock()
	delete(p.secrets, name)
	p.mu.Unlock()
}

// Close cleans up provider resources.
func (p *StaticProvider) Close() error {
	p.logger.Debug("closing static secrets provider")
	return nil
}
