package secrets

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	vaultapi "github.com/hashicorp/vault/api"

	"github.com/vyrodovalexey/avapibridge/internal/observability"
)

// Defaults for the Vault provider.
const (
	// DefaultVaultMountPoint is the default KV v2 secrets engine mount.
	DefaultVaultMountPoint = "secret"
	// DefaultVaultTimeout is the default request timeout.
	DefaultVaultTimeout = 30 * time.Second
	// DefaultVaultMaxRetries is the default number of request retries.
	DefaultVaultMaxRetries = 3
)

// VaultProviderConfig holds configuration for the Vault secrets provider.
type VaultProviderConfig struct {
	// Address is the Vault server address.
	Address string
	// Token is the Vault token.
	Token string
	// Namespace is the Vault namespace (Enterprise only).
	Namespace string
	// MountPoint is the KV v2 secrets engine mount point.
	// Default: "secret"
	MountPoint string
	// PathPrefix is prepended to every secret path.
	PathPrefix string
	// Timeout is the request timeout.
	Timeout time.Duration
	// MaxRetries is the maximum number of request retries.
	MaxRetries int
	// Logger is the logger instance.
	Logger observability.Logger
}

// VaultProvider implements the Provider interface using the HashiCorp
// Vault KV v2 secrets engine.
type VaultProvider struct {
	client     *vaultapi.Client
	kv         *vaultapi.KVv2
	mountPoint string
	pathPrefix string
	logger     observability.Logger
}

// NewVaultProvider creates a new Vault secrets provider.
func NewVaultProvider(cfg *VaultProviderConfig) (*VaultProvider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrProviderNotConfigured)
	}
	if cfg.Address == "" {
		return nil, fmt.Errorf("%w: vault address is required", ErrProviderNotConfigured)
	}
	if cfg.Token == "" {
		return nil, fmt.Errorf("%w: vault token is required", ErrProviderNotConfigured)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	mountPoint := cfg.MountPoint
	if mountPoint == "" {
		mountPoint = DefaultVaultMountPoint
	}

	clientConfig := vaultapi.DefaultConfig()
	clientConfig.Address = cfg.Address
	if cfg.Timeout > 0 {
		clientConfig.Timeout = cfg.Timeout
	} else {
		clientConfig.Timeout = DefaultVaultTimeout
	}
	if cfg.MaxRetries > 0 {
		clientConfig.MaxRetries = cfg.MaxRetries
	} else {
		clientConfig.MaxRetries = DefaultVaultMaxRetries
	}

	client, err := vaultapi.NewClient(clientConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(cfg.Token)
	if cfg.Namespace != "" {
		client.SetNamespace(cfg.Namespace)
	}

	logger.Info("vault secrets provider initialized",
		observability.String("address", cfg.Address),
		observability.String("mountPoint", mountPoint),
	)

	return &VaultProvider{
		client:     client,
		kv:         client.KVv2(mountPoint),
		mountPoint: mountPoint,
		pathPrefix: strings.Trim(cfg.PathPrefix, "/"),
		logger:     logger,
	}, nil
}

// Type returns the provider type.
func (p *VaultProvider) Type() ProviderType {
	return ProviderTypeVault
}

// secretPath joins the configured path prefix with the given path.
func (p *VaultProvider) secretPath(path string) string {
	path = strings.Trim(path, "/")
	if p.pathPrefix == "" {
		return path
	}
	return p.pathPrefix + "/" + path
}

// GetSecret retrieves a secret from the Vault KV v2 engine.
func (p *VaultProvider) GetSecret(ctx context.Context, path string) (*Secret, error) {
	start := time.Now()

	if path == "" {
		RecordOperation(p.Type(), "get", time.Since(start), ErrInvalidPath)
		return nil, ErrInvalidPath
	}

	fullPath := p.secretPath(path)

	kvSecret, err := p.kv.Get(ctx, fullPath)
	if err != nil {
		RecordOperation(p.Type(), "get", time.Since(start), err)
		if errors.Is(err, vaultapi.ErrSecretNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrSecretNotFound, path)
		}
		p.logger.Error("failed to read secret from vault",
			observability.String("path", fullPath),
			observability.Err(err),
		)
		return nil, fmt.Errorf("failed to read secret from vault: %w", err)
	}

	data := make(map[string][]byte, len(kvSecret.Data))
	for k, v := range kvSecret.Data {
		if strVal, ok := v.(string); ok {
			data[k] = []byte(strVal)
		}
	}

	secret := &Secret{
		Name: path,
		Data: data,
		Metadata: map[string]string{
			"source": "vault",
			"mount":  p.mountPoint,
		},
	}
	if kvSecret.VersionMetadata != nil {
		secret.Version = strconv.Itoa(kvSecret.VersionMetadata.Version)
	}

	p.logger.Debug("retrieved secret from vault",
		observability.String("path", fullPath),
		observability.Int("keys", len(data)),
	)
	RecordOperation(p.Type(), "get", time.Since(start), nil)

	return secret, nil
}

// ListSecrets lists secret names at a path in the KV v2 engine.
func (p *VaultProvider) ListSecrets(ctx context.Context, path string) ([]string, error) {
	start := time.Now()

	listPath := p.mountPoint + "/metadata/" + p.secretPath(path)

	result, err := p.client.Logical().ListWithContext(ctx, listPath)
	if err != nil {
		RecordOperation(p.Type(), "list", time.Since(start), err)
		p.logger.Error("failed to list secrets from vault",
			observability.String("path", listPath),
			observability.Err(err),
		)
		return nil, fmt.Errorf("failed to list secrets from vault: %w", err)
	}

	RecordOperation(p.Type(), "list", time.Since(start), nil)

	if result == nil || result.Data == nil {
		return nil, nil
	}

	raw, ok := result.Data["keys"].([]interface{})
	if !ok {
		return nil, nil
	}

	names := make([]string, 0, len(raw))
	for _, entry := range raw {
		if name, ok := entry.(string); ok {
			names = append(names, name)
		}
	}

	return names, nil
}

// Close cleans up provider resources.
func (p *VaultProvider) Close() error {
	p.logger.Debug("closing vault secrets provider")
	return nil
}
