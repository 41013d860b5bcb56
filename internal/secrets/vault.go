package secrets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/security/keyvault/azsecrets"
	"go.uber.org/zap"
)

// DefaultCacheTTL applies when VaultConfig.CacheTTL is zero
const DefaultCacheTTL = 5 * time.Minute

// secretGetter is the part of azsecrets.Client the vault client calls
type secretGetter interface {
	GetSecret(ctx context.Context, name string, version string, options *azsecrets.GetSecretOptions) (azsecrets.GetSecretResponse, error)
}

// VaultClient reads secrets from Azure Key Vault and caches them for CacheTTL
type VaultClient struct {
	client       secretGetter
	vaultName    string
	logger       *zap.Logger
	cacheEnabled bool
	cacheTTL     time.Duration
	now          func() time.Time

	mu    sync.Mutex
	cache map[string]cachedSecret
}

type cachedSecret struct {
	value     string
	expiresAt time.Time
}

// VaultConfig holds configuration for the vault client
type VaultConfig struct {
	VaultName    string
	CacheEnabled bool
	CacheTTL     time.Duration
}

// NewVaultClient creates a Key Vault client authenticated with
// DefaultAzureCredential (environment, managed identity or Azure CLI).
func NewVaultClient(cfg *VaultConfig, logger *zap.Logger) (*VaultClient, error) {
	if cfg.VaultName == "" {
		return nil, fmt.Errorf("vault name is required")
	}

	cred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Azure credential: %w", err)
	}

	vaultURL := fmt.Sprintf("https://%s.vault.azure.net/", cfg.VaultName)
	client, err := azsecrets.NewClient(vaultURL, cred, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create Key Vault client: %w", err)
	}

	logger.Info("Azure Key Vault client initialized",
		zap.String("vault_url", vaultURL),
		zap.Bool("cache_enabled", cfg.CacheEnabled),
	)
	return newVaultClient(client, cfg, logger), nil
}

func newVaultClient(client secretGetter, cfg *VaultConfig, logger *zap.Logger) *VaultClient {
	ttl := cfg.CacheTTL
	if ttl == 0 {
		ttl = DefaultCacheTTL
	}
	return &VaultClient{
		client:       client,
		vaultName:    cfg.VaultName,
		logger:       logger,
		cacheEnabled: cfg.CacheEnabled,
		cacheTTL:     ttl,
		now:          time.Now,
		cache:        make(map[string]cachedSecret),
	}
}

// GetSecret returns the current version of a secret
func (v *VaultClient) GetSecret(ctx context.Context, secretName string) (string, error) {
	if value, ok := v.cached(secretName); ok {
		v.logger.Debug("Secret retrieved from cache", zap.String("secret_name", secretName))
		return value, nil
	}

	resp, err := v.client.GetSecret(ctx, secretName, "", nil)
	if err != nil {
		v.logger.Error("Failed to get secret from Key Vault",
			zap.String("secret_name", secretName),
			zap.Error(err),
		)
		return "", fmt.Errorf("failed to get secret '%s': %w", secretName, err)
	}
	if resp.Value == nil {
		return "", fmt.Errorf("secret '%s' has no value", secretName)
	}

	if v.cacheEnabled {
		v.mu.Lock()
		v.cache[secretName] = cachedSecret{
			value:     *resp.Value,
			expiresAt: v.now().Add(v.cacheTTL),
		}
		v.mu.Unlock()
	}
	return *resp.Value, nil
}

func (v *VaultClient) cached(secretName string) (string, bool) {
	if !v.cacheEnabled {
		return "", false
	}
	v.mu.Lock()
	defer v.mu.Unlock()

	entry, ok := v.cache[secretName]
	if !ok {
		return "", false
	}
	if !v.now().Before(entry.expiresAt) {
		delete(v.cache, secretName)
		return "", false
	}
	return entry.value, true
}

// ClearCache drops every cached secret
func (v *VaultClient) ClearCache() {
	v.mu.Lock()
	v.cache = make(map[string]cachedSecret)
	v.mu.Unlock()
}
