package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "COCKTAILS_SVC"

// Storage drivers
const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Storage   StorageConfig   `mapstructure:"storage"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Auth      AuthConfig      `mapstructure:"auth"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	RecipeAPI RecipeAPIConfig `mapstructure:"recipe_api"`
	Search    SearchConfig    `mapstructure:"search"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Health    HealthConfig    `mapstructure:"health"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	InternalPort    string        `mapstructure:"internal_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// StorageConfig selects the favorite store
type StorageConfig struct {
	Driver string `mapstructure:"driver"`
}

// DatabaseConfig contains database connection configuration
type DatabaseConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// RedisConfig contains Redis connection configuration
type RedisConfig struct {
	URL            string `mapstructure:"url"`
	MaxConnections int    `mapstructure:"max_connections"`
}

// AuthConfig contains token and password hashing configuration
type AuthConfig struct {
	PrivateKeyPath string        `mapstructure:"private_key_path"`
	PublicKeyPath  string        `mapstructure:"public_key_path"`
	Issuer         string        `mapstructure:"issuer"`
	TokenTTL       time.Duration `mapstructure:"token_ttl"`
	BcryptCost     int           `mapstructure:"bcrypt_cost"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// RecipeAPIConfig contains the remote recipe catalog settings
type RecipeAPIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SearchConfig contains the debounce settle delay of session searches
type SearchConfig struct {
	Delay time.Duration `mapstructure:"delay"`
}

// RateLimitConfig limits public API requests per client IP
type RateLimitConfig struct {
	Enabled           bool `mapstructure:"enabled"`
	RequestsPerMinute int  `mapstructure:"requests_per_minute"`
	Burst             int  `mapstructure:"burst"`
}

// CORSConfig lists the origins allowed to call the public API and open sessions
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// HealthConfig controls the background dependency probe
type HealthConfig struct {
	CheckInterval time.Duration `mapstructure:"check_interval"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")
	v.AddConfigPath("/etc/cocktails-service")

	// Set environment variable prefix and key replacement
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Unmarshal only sees keys viper knows about, so every key without a default is bound
	for _, key := range []string{
		"database.url",
		"redis.url",
		"server.port",
		"server.internal_port",
		"recipe_api.base_url",
	} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	setDefaults(v)

	// Try to read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default values for configuration
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.idle_timeout", "60s")
	v.SetDefault("server.shutdown_timeout", "30s")

	v.SetDefault("storage.driver", StorageDriverPostgres)

	v.SetDefault("database.max_connections", 25)
	v.SetDefault("redis.max_connections", 10)

	// Auth defaults
	v.SetDefault("auth.private_key_path", "./keys/private_key.pem")
	v.SetDefault("auth.public_key_path", "./keys/public_key.pem")
	v.SetDefault("auth.issuer", "cocktails-service")
	v.SetDefault("auth.token_ttl", "24h")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("logging.level", "info")

	v.SetDefault("recipe_api.timeout", "30s")
	v.SetDefault("search.delay", "500ms")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_minute", 120)
	v.SetDefault("rate_limit.burst", 20)

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("health.check_interval", "30s")
}

// Validate validates the configuration and ensures required fields are present
func (c *Config) Validate() error {
	requiredFields := map[string]string{
		"redis.url":            c.Redis.URL,
		"server.port":          c.Server.Port,
		"server.internal_port": c.Server.InternalPort,
	}
	if c.Storage.Driver == StorageDriverPostgres {
		requiredFields["database.url"] = c.Database.URL
	}

	for field, value := range requiredFields {
		if value == "" {
			return fmt.Errorf("required configuration field '%s' is not set (use environment variable %s)", field, EnvVar(field))
		}
	}

	switch c.Storage.Driver {
	case StorageDriverPostgres:
		if !strings.HasPrefix(c.Database.URL, "postgresql://") && !strings.HasPrefix(c.Database.URL, "postgres://") {
			return fmt.Errorf("database.url must start with postgresql:// or postgres://")
		}
	case StorageDriverMemory:
	default:
		return fmt.Errorf("storage.driver must be one of: %s, %s", StorageDriverPostgres, StorageDriverMemory)
	}

	if !strings.HasPrefix(c.Redis.URL, "redis://") && !strings.HasPrefix(c.Redis.URL, "rediss://") {
		return fmt.Errorf("redis.url must start with redis:// or rediss://")
	}

	// Validate timeout values are reasonable
	timeouts := map[string]time.Duration{
		"server.read_timeout":     c.Server.ReadTimeout,
		"server.write_timeout":    c.Server.WriteTimeout,
		"server.shutdown_timeout": c.Server.ShutdownTimeout,
		"recipe_api.timeout":      c.RecipeAPI.Timeout,
		"health.check_interval":   c.Health.CheckInterval,
	}
	for name, timeout := range timeouts {
		if timeout <= 0 {
			return fmt.Errorf("timeout '%s' must be positive, got %v", name, timeout)
		}
		if timeout > 10*time.Minute {
			return fmt.Errorf("timeout '%s' seems too large, got %v", name, timeout)
		}
	}

	if c.Search.Delay < 0 {
		return fmt.Errorf("search.delay cannot be negative, got %v", c.Search.Delay)
	}
	if c.Auth.TokenTTL <= 0 {
		return fmt.Errorf("auth.token_ttl must be positive, got %v", c.Auth.TokenTTL)
	}

	// Validate numeric values
	if c.Database.MaxConnections <= 0 {
		return fmt.Errorf("database.max_connections must be positive, got %d", c.Database.MaxConnections)
	}
	if c.Redis.MaxConnections <= 0 {
		return fmt.Errorf("redis.max_connections must be positive, got %d", c.Redis.MaxConnections)
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerMinute <= 0 || c.RateLimit.Burst <= 0) {
		return fmt.Errorf("rate_limit.requests_per_minute and rate_limit.burst must be positive when rate limiting is enabled")
	}

	validLevels := []string{"debug", "info", "warn", "error"}
	for _, level := range validLevels {
		if strings.EqualFold(c.Logging.Level, level) {
			return nil
		}
	}
	return fmt.Errorf("logging.level must be one of: %s", strings.Join(validLevels, ", "))
}

// EnvVar returns the environment variable that sets a configuration key
func EnvVar(key string) string {
	return envPrefix + "_" + strings.ToUpper(strings.ReplaceAll(key, ".", "_"))
}

// String returns a string representation of the config (for logging, without sensitive data)
func (c *Config) String() string {
	return fmt.Sprintf(
		"Config{Host: %s, Port: %s, InternalPort: %s, Storage: %s, LogLevel: %s, DB: %s, Redis: %s, RecipeAPI: %s}",
		c.Server.Host, c.Server.Port, c.Server.InternalPort, c.Storage.Driver, c.Logging.Level,
		maskURL(c.Database.URL), maskURL(c.Redis.URL), c.RecipeAPI.BaseURL,
	)
}

// maskURL masks the credentials of a connection URL
func maskURL(url string) string {
	at := strings.LastIndex(url, "@")
	scheme := strings.Index(url, "://")
	if at < 0 || scheme < 0 || scheme > at {
		return url
	}
	return url[:scheme+3] + "***" + url[at:]
}
