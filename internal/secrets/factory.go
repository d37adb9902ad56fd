package secrets

import (
	"fmt"

	"github.com/vyrodovalexey/avapibridge/internal/observability"
)

// ProviderConfig holds configuration for creating providers.
type ProviderConfig struct {
	// Type is the provider type.
	Type ProviderType
	// EnvPrefix is the prefix for environment variable secrets.
	EnvPrefix string
	// StaticSecrets holds data for the static provider.
	StaticSecrets map[string]map[string]string
	// VaultConfig holds Vault-specific configuration.
	VaultConfig *VaultProviderConfig
	// Logger is the logger instance.
	Logger observability.Logger
}

// NewProvider creates a new secrets provider based on config.
func NewProvider(cfg *ProviderConfig) (Provider, error) {
	if cfg == nil {
		return nil, fmt.Errorf("%w: config is required", ErrProviderNotConfigured)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	switch cfg.Type {
	case ProviderTypeVault:
		if cfg.VaultConfig == nil {
			return nil, fmt.Errorf("%w: vault config is required for vault provider", ErrProviderNotConfigured)
		}
		if cfg.VaultConfig.Logger == nil {
			cfg.VaultConfig.Logger = logger
		}
		return NewVaultProvider(cfg.VaultConfig)

	case ProviderTypeEnv:
		return NewEnvProvider(&EnvProviderConfig{
			Prefix: cfg.EnvPrefix,
			Logger: logger,
		})

	case ProviderTypeStatic:
		return NewStaticProvider(&StaticProviderConfig{
			Secrets: cfg.StaticSecrets,
			Logger:  logger,
		})

	default:
		return nil, fmt.Errorf("%w: %s", ErrInvalidProviderType, cfg.Type)
	}
}
