package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/subosito/gotenv"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	Catalog   CatalogConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Matching  MatchingConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// DatabaseConfig holds the SQLite store location
type DatabaseConfig struct {
	Path string `mapstructure:"path"`
}

// CatalogConfig selects where canonical materials are read from
type CatalogConfig struct {
	Source string `mapstructure:"source"` // "database" or "file"
	Path   string `mapstructure:"path"`
}

// CacheConfig holds alias cache configuration
type CacheConfig struct {
	Type string        `mapstructure:"type"` // "memory" or "none"
	TTL  time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	PerIP int `mapstructure:"per_ip"` // requests per minute
	Burst int `mapstructure:"burst"`
}

// MatchingConfig holds matcher thresholds and cement brand list
type MatchingConfig struct {
	AutoAliasThreshold float64  `mapstructure:"auto_alias_threshold"`
	SuggestThreshold   float64  `mapstructure:"suggest_threshold"`
	LowThreshold       float64  `mapstructure:"low_threshold"`
	CementBrands       []string `mapstructure:"cement_brands"`
	EnableDebugLogging bool     `mapstructure:"enable_debug_logging"`
}

// Catalog sources
const (
	CatalogSourceDatabase = "database"
	CatalogSourceFile     = "file"
)

// Cache types
const (
	CacheTypeMemory = "memory"
	CacheTypeNone   = "none"
)

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom loads configuration from an explicit file. An empty path searches
// the default locations and tolerates a missing file.
func LoadFrom(path string) (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/boqmatch/")
	}

	// Environment variable settings: BOQMATCH_MATCHING_LOW_THRESHOLD -> matching.low_threshold
	v.SetEnvPrefix("BOQMATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile reads ./.env when present. Variables already set in the
// environment win over the file.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return gotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:*"})

	// Storage defaults
	v.SetDefault("database.path", "data/boqmatch.db")
	v.SetDefault("catalog.source", CatalogSourceDatabase)
	v.SetDefault("catalog.path", "")

	// Cache defaults
	v.SetDefault("cache.type", CacheTypeMemory)
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 120)
	v.SetDefault("ratelimit.burst", 20)

	// Matching defaults
	v.SetDefault("matching.auto_alias_threshold", 0.90)
	v.SetDefault("matching.suggest_threshold", 0.70)
	v.SetDefault("matching.low_threshold", 0.40)
	v.SetDefault("matching.cement_brands", []string{
		"ppc", "afrisam", "lafarge", "sephaku", "dangote", "natal portland", "holcim", "mamba",
	})
	v.SetDefault("matching.enable_debug_logging", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Database.Path == "" {
		return fmt.Errorf("database path is required (set BOQMATCH_DATABASE_PATH)")
	}

	switch config.Catalog.Source {
	case CatalogSourceDatabase:
	case CatalogSourceFile:
		if config.Catalog.Path == "" {
			return fmt.Errorf("catalog path is required when catalog source is 'file'")
		}
	default:
		return fmt.Errorf("catalog source must be 'database' or 'file', got: %s", config.Catalog.Source)
	}

	if config.Cache.Type != CacheTypeMemory && config.Cache.Type != CacheTypeNone {
		return fmt.Errorf("cache type must be 'memory' or 'none', got: %s", config.Cache.Type)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.Burst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	m := config.Matching
	if m.LowThreshold <= 0 || m.LowThreshold >= m.SuggestThreshold ||
		m.SuggestThreshold >= m.AutoAliasThreshold || m.AutoAliasThreshold > 1 {
		return fmt.Errorf("matching thresholds must satisfy 0 < low < suggest < auto_alias <= 1, got %.2f/%.2f/%.2f",
			m.LowThreshold, m.SuggestThreshold, m.AutoAliasThreshold)
	}

	return nil
}
