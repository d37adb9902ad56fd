package secrets

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"

	"github.com/vyrodovalexey/avapibridge/internal/observability"
)

// DefaultEnvPrefix is the default prefix for environment variable secrets.
const DefaultEnvPrefix = "AVAPIBRIDGE_SECRET_"

// EnvProviderConfig holds configuration for the environment variable
// secrets provider.
type EnvProviderConfig struct {
	// Prefix is the prefix for environment variables.
	// Default: "AVAPIBRIDGE_SECRET_"
	Prefix string
	// Logger is the logger instance.
	Logger observability.Logger
}

// EnvProvider implements the Provider interface using environment
// variables. Path format: "secret-name" maps to env var
// "{PREFIX}SECRET_NAME". For secrets with multiple keys, the env var
// value should be JSON-encoded.
type EnvProvider struct {
	prefix string
	logger observability.Logger
}

// NewEnvProvider creates a new environment variable secrets provider.
func NewEnvProvider(cfg *EnvProviderConfig) (*EnvProvider, error) {
	if cfg == nil {
		cfg = &EnvProviderConfig{}
	}

	prefix := cfg.Prefix
	if prefix == "" {
		prefix = DefaultEnvPrefix
	}

	logger := cfg.Logger
	if logger == nil {
		logger = observability.NopLogger()
	}

	return &EnvProvider{
		prefix: prefix,
		logger: logger,
	}, nil
}

// Type returns the provider type.
func (p *EnvProvider) Type() ProviderType {
	return ProviderTypeEnv
}

// normalizeEnvName converts a secret path to an environment variable name:
// uppercase, with dashes, dots and slashes replaced by underscores, and
// the configured prefix prepended.
func (p *EnvProvider) normalizeEnvName(path string) string {
	name := strings.ToUpper(path)
	name = strings.ReplaceAll(name, "-", "_")
	name = strings.ReplaceAll(name, ".", "_")
	name = strings.ReplaceAll(name, "/", "_")

	return p.prefix + name
}

// GetSecret retrieves a secret from environment variables. If the value
// is valid JSON, it is parsed as a map of key-value pairs. Otherwise the
// entire value is stored under the key "value".
func (p *EnvProvider) GetSecret(ctx context.Context, path string) (*Secret, error) {
	start := time.Now()

	if path == "" {
		RecordOperation(p.Type(), "get", time.Since(start), ErrInvalidPath)
		return nil, ErrInvalidPath
	}

	envName := p.normalizeEnvName(path)

	value, exists := os.LookupEnv(envName)
	if !exists {
		p.logger.Debug("environment variable not found",
			observability.String("envVar", envName),
		)
		RecordOperation(p.Type(), "get", time.Since(start), ErrSecretNotFound)
		return nil, fmt.Errorf("%w: environment variable %s not set", ErrSecretNotFound, envName)
	}

	data := make(map[string][]byte)

	var jsonData map[string]interface{}
	if err := sonic.ConfigStd.Unmarshal([]byte(value), &jsonData); err == nil {
		for k, v := range jsonData {
			switch val := v.(type) {
			case string:
				data[k] = []byte(val)
			default:
				jsonBytes, err := sonic.ConfigStd.Marshal(val)
				if err != nil {
					p.logger.Warn("failed to marshal secret value",
						observability.String("key", k),
						observability.Err(err),
					)
					continue
				}
				data[k] = jsonBytes
			}
		}
	} else {
		data["value"] = []byte(value)
	}

	p.logger.Debug("retrieved secret from environment",
		observability.String("path", path),
		observability.String("envVar", envName),
		observability.Int("keys", len(data)),
	)
	RecordOperation(p.Type(), "get", time.Since(start), nil)

	return &Secret{
		Name: path,
		Data: data,
		Metadata: map[string]string{
			"source":  "environment",
			"env_var": envName,
		},
	}, nil
}

// ListSecrets lists all environment variables that match the configured
// prefix, converted back to path format.
func (p *EnvProvider) ListSecrets(ctx context.Context, path string) ([]string, error) {
	start := time.Now()
	defer func() {
		RecordOperation(p.Type(), "list", time.Since(start), nil)
	}()

	var names []string
	for _, env := range os.Environ() {
		key, _, found := strings.Cut(env, "=")
		if !found {
			continue
		}

		if strings.HasPrefix(key, p.prefix) {
			name := strings.TrimPrefix(key, p.prefix)
			name = strings.ToLower(name)
			name = strings.ReplaceAll(name, "_", "-")
			names = append(names, name)
		}
	}
	sort.Strings(names)

	return names, nil
}

// Close cleans up provider resources.
func (p *EnvProvider) Close() error {
	p.logger.Debug("closing environment secrets provider")
	return nil
}
