package config

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/orgdesk/directory-api/internal/secrets"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Config holds all application configuration
type Config struct {
	App       AppConfig
	Database  DatabaseConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Secrets   SecretsConfig
	Logging   LoggingConfig
	Server    ServerConfig
	CORS      CORSConfig
	Security  SecurityConfig
	RateLimit RateLimitConfig
	Reports   ReportsConfig
}

type AppConfig struct {
	Name        string `validate:"required"`
	Environment string `validate:"required"`
	Port        int    `validate:"gte=1,lte=65535"`
}

// DatabaseConfig selects the driver and its connection settings.
// Driver "sqlite" is meant for local development and tests.
type DatabaseConfig struct {
	Driver          string `validate:"oneof=postgres sqlite"`
	Host            string
	Port            int
	Name            string
	User            string
	Password        string
	SSLMode         string
	SQLitePath      string
	MaxOpenConns    int `validate:"gte=0"`
	MaxIdleConns    int `validate:"gte=0"`
	ConnMaxLifetime int `validate:"gte=0"`
	AutoMigrate     bool
}

// AuthConfig configures token and API key authentication
type AuthConfig struct {
	// JWTSecret is the HS256 signing secret shared with the identity provider
	JWTSecret   string
	JWTAudience string
	JWTIssuer   string
	// APIKey authenticates system callers through the x-api-key header
	APIKey string
}

type StorageConfig struct {
	Mode                  string `validate:"oneof=local cloud azure"`
	LocalBasePath         string
	CloudConnectionString string
	CloudContainer        string
}

type SecretsConfig struct {
	// Source determines where secrets are loaded from: "environment", "vault", or "auto"
	Source       string `validate:"oneof=environment vault auto"`
	KeyVaultName string
	CacheEnabled bool
	CacheTTL     int // seconds
}

type LoggingConfig struct {
	Level  string
	Format string
	// File redirects output to a file, used by the terminal client
	File string
}

type ServerConfig struct {
	ReadTimeout    int
	WriteTimeout   int
	RequestTimeout int
	EnableSwagger  bool
}

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int
}

// SecurityConfig holds security header configuration
type SecurityConfig struct {
	EnableHSTS            bool
	HSTSMaxAge            int
	HSTSIncludeSubdomains bool
	HSTSPreload           bool
	ContentSecurityPolicy string
	FrameOptions          string
	ContentTypeNosniff    bool
	ReferrerPolicy        string
	PermissionsPolicy     string
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	Enabled bool
	// RequestsPerMinute applies per IP before authentication
	RequestsPerMinute int
	// RequestsPerMinuteAuth applies per user and organization
	RequestsPerMinuteAuth int
	WhitelistIPs          []string
	WhitelistPaths        []string
}

// ReportsConfig controls the scheduled directory export
type ReportsConfig struct {
	ExportEnabled bool
	// ExportCron uses the six-field format with seconds
	ExportCron    string
	ExportTimeout int // seconds
}

// ConnectionString builds PostgreSQL connection string
func (d *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.Name, d.SSLMode,
	)
}

// ConnMaxLifetimeDuration returns connection max lifetime as duration
func (d *DatabaseConfig) ConnMaxLifetimeDuration() time.Duration {
	return time.Duration(d.ConnMaxLifetime) * time.Second
}

// ReadTimeoutDuration returns read timeout as duration
func (s *ServerConfig) ReadTimeoutDuration() time.Duration {
	return time.Duration(s.ReadTimeout) * time.Second
}

// WriteTimeoutDuration returns write timeout as duration
func (s *ServerConfig) WriteTimeoutDuration() time.Duration {
	return time.Duration(s.WriteTimeout) * time.Second
}

// RequestTimeoutDuration returns request timeout as duration
func (s *ServerConfig) RequestTimeoutDuration() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// ExportTimeoutDuration returns the export job timeout as duration
func (r *ReportsConfig) ExportTimeoutDuration() time.Duration {
	return time.Duration(r.ExportTimeout) * time.Second
}

// Validate checks the configuration for values the application cannot run with
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// Load loads configuration from file and environment variables.
// Secrets are taken from the environment; use LoadWithSecrets for vault resolution.
func Load() (*Config, error) {
	// Load .env file if it exists (ignore error if not found)
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Environment variables override config file
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Auth.JWTSecret == "" {
		cfg.Auth.JWTSecret = v.GetString("JWT_SECRET")
	}
	if cfg.Auth.APIKey == "" {
		cfg.Auth.APIKey = v.GetString("ADMIN_API_KEY")
	}
	if cfg.Secrets.KeyVaultName == "" {
		cfg.Secrets.KeyVaultName = v.GetString("AZURE_KEY_VAULT_NAME")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadWithSecrets loads configuration and resolves secrets from the configured source.
// Key Vault is used when USE_AZURE_KEY_VAULT=true and the environment is staging or production.
func LoadWithSecrets(ctx context.Context, logger *zap.Logger) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}

	useKeyVault := strings.ToLower(os.Getenv("USE_AZURE_KEY_VAULT")) == "true"
	isValidEnv := cfg.App.Environment == "staging" || cfg.App.Environment == "production"

	if !useKeyVault {
		logger.Info("USE_AZURE_KEY_VAULT not enabled, using environment variables for secrets",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if !isValidEnv {
		logger.Warn("USE_AZURE_KEY_VAULT is enabled outside staging/production, using environment variables",
			zap.String("environment", cfg.App.Environment),
		)
		return cfg, nil
	}

	if cfg.Secrets.KeyVaultName == "" {
		return nil, fmt.Errorf("AZURE_KEY_VAULT_NAME is required when USE_AZURE_KEY_VAULT=true")
	}

	provider, err := secrets.NewProvider(&secrets.ProviderConfig{
		Source:       secrets.SourceVault,
		VaultName:    cfg.Secrets.KeyVaultName,
		Environment:  cfg.App.Environment,
		CacheEnabled: cfg.Secrets.CacheEnabled,
		CacheTTL:     time.Duration(cfg.Secrets.CacheTTL) * time.Second,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize secrets provider: %w", err)
	}

	if err := ApplySecrets(ctx, cfg, provider); err != nil {
		return nil, err
	}

	logger.Info("Secrets loaded from vault",
		zap.String("key_vault_name", cfg.Secrets.KeyVaultName),
	)
	return cfg, nil
}

// SecretSource is the subset of the secrets provider used to fill the configuration
type SecretSource interface {
	GetSecretOrEnv(ctx context.Context, secretName, envName string) (string, error)
}

// ApplySecrets overwrites credential fields with values from source.
// Missing secrets keep the value already loaded.
func ApplySecrets(ctx context.Context, cfg *Config, source SecretSource) error {
	bindings := []struct {
		secret string
		env    string
		target *string
	}{
		{"POSTGRES-DIRECTORY-HOST", "DATABASE_HOST", &cfg.Database.Host},
		{"POSTGRES-DIRECTORY-USER", "DATABASE_USER", &cfg.Database.User},
		{"POSTGRES-DIRECTORY-PASSWORD", "DATABASE_PASSWORD", &cfg.Database.Password},
		{"jwt-secret", "JWT_SECRET", &cfg.Auth.JWTSecret},
		{"admin-api-key", "ADMIN_API_KEY", &cfg.Auth.APIKey},
		{"storage-connection-string", "STORAGE_CLOUDCONNECTIONSTRING", &cfg.Storage.CloudConnectionString},
	}

	for _, b := range bindings {
		value, err := source.GetSecretOrEnv(ctx, b.secret, b.env)
		if err != nil || value == "" {
			continue
		}
		*b.target = value
	}

	if cfg.Auth.JWTSecret == "" {
		return fmt.Errorf("no JWT secret available from vault or environment")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "Directory API")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", 8080)

	v.SetDefault("database.driver", "postgres")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.name", "directory")
	v.SetDefault("database.user", "directory_user")
	v.SetDefault("database.password", "directory_password")
	v.SetDefault("database.sslMode", "disable")
	v.SetDefault("database.sqlitePath", "directory.db")
	v.SetDefault("database.maxOpenConns", 25)
	v.SetDefault("database.maxIdleConns", 5)
	v.SetDefault("database.connMaxLifetime", 300)
	v.SetDefault("database.autoMigrate", false)

	v.SetDefault("secrets.source", "auto")
	v.SetDefault("secrets.cacheEnabled", true)
	v.SetDefault("secrets.cacheTTL", 300)

	v.SetDefault("storage.mode", "local")
	v.SetDefault("storage.localBasePath", "./storage")
	v.SetDefault("storage.cloudContainer", "directory-exports")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	v.SetDefault("server.readTimeout", 30)
	v.SetDefault("server.writeTimeout", 30)
	v.SetDefault("server.requestTimeout", 60)
	v.SetDefault("server.enableSwagger", true)

	v.SetDefault("cors.allowedOrigins", []string{})
	v.SetDefault("cors.allowedMethods", []string{"GET", "POST", "DELETE", "OPTIONS"})
	v.SetDefault("cors.allowedHeaders", []string{"Accept", "Authorization", "Content-Type", "X-API-Key", "X-Request-ID", "X-Organization-ID"})
	v.SetDefault("cors.exposedHeaders", []string{"X-Request-ID"})
	v.SetDefault("cors.allowCredentials", true)
	v.SetDefault("cors.maxAge", 300)

	v.SetDefault("security.enableHSTS", false)
	v.SetDefault("security.hstsMaxAge", 31536000)
	v.SetDefault("security.hstsIncludeSubdomains", true)
	v.SetDefault("security.hstsPreload", false)
	v.SetDefault("security.contentSecurityPolicy", "default-src 'self'")
	v.SetDefault("security.frameOptions", "DENY")
	v.SetDefault("security.contentTypeNosniff", true)
	v.SetDefault("security.referrerPolicy", "strict-origin-when-cross-origin")
	v.SetDefault("security.permissionsPolicy", "geolocation=(), microphone=(), camera=()")

	v.SetDefault("rateLimit.enabled", true)
	v.SetDefault("rateLimit.requestsPerMinute", 60)
	v.SetDefault("rateLimit.requestsPerMinuteAuth", 120)
	v.SetDefault("rateLimit.whitelistIPs", []string{"127.0.0.1", "::1"})
	v.SetDefault("rateLimit.whitelistPaths", []string{"/health", "/health/db", "/health/ready"})

	v.SetDefault("reports.exportEnabled", false)
	v.SetDefault("reports.exportCron", "0 0 2 * * *")
	v.SetDefault("reports.exportTimeout", 600)
}
