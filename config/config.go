package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/EliJ91/albion-market-history/internal/infrastructure/albion"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Market     MarketConfig
	Catalog    CatalogConfig
	Search     SearchConfig
	Selections SelectionsConfig
	Log        LogConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// MarketConfig holds market data API configuration
type MarketConfig struct {
	Region            string        `mapstructure:"region"`
	BaseURL           string        `mapstructure:"base_url"` // derived from Region when empty
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Burst             int           `mapstructure:"burst"`
}

// CatalogConfig points at the item catalog source
type CatalogConfig struct {
	Path   string `mapstructure:"path"`
	Format string `mapstructure:"format"` // "json" or "text"
}

// SearchConfig holds autocomplete limits
type SearchConfig struct {
	DefaultLimit  int `mapstructure:"default_limit"`
	MaxLimit      int `mapstructure:"max_limit"`
	FeaturedCount int `mapstructure:"featured_count"`
}

// SelectionsConfig controls how long dashboard selections are remembered
type SelectionsConfig struct {
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level       string `mapstructure:"level"`
	Development bool   `mapstructure:"development"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	return LoadFrom("")
}

// LoadFrom is Load with an explicit config file; an empty path searches the
// default locations.
func LoadFrom(path string) (*Config, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("/etc/albionlens/")
	}

	// ALBIONLENS_MARKET_REGION -> market.region
	v.SetEnvPrefix("ALBIONLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Market.Region = strings.ToLower(config.Market.Region)
	config.Catalog.Format = strings.ToLower(config.Catalog.Format)
	if config.Market.BaseURL == "" {
		config.Market.BaseURL, _ = albion.BaseURLForRegion(config.Market.Region)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Market defaults
	v.SetDefault("market.region", "americas")
	v.SetDefault("market.base_url", "")
	v.SetDefault("market.timeout", "15s")
	v.SetDefault("market.requests_per_minute", 180)
	v.SetDefault("market.burst", 10)

	// Catalog defaults
	v.SetDefault("catalog.path", "data/itemDatabase.json")
	v.SetDefault("catalog.format", "json")

	// Search defaults
	v.SetDefault("search.default_limit", 10)
	v.SetDefault("search.max_limit", 50)
	v.SetDefault("search.featured_count", 20)

	// Selection defaults
	v.SetDefault("selections.ttl", "720h") // 30 days
	v.SetDefault("selections.cleanup_interval", "10m")

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.development", false)
}

// validate validates the configuration
func validate(config *Config) error {
	if _, ok := albion.BaseURLForRegion(config.Market.Region); !ok {
		return fmt.Errorf("market region must be one of americas, asia, europe, got: %s", config.Market.Region)
	}

	if config.Market.RequestsPerMinute <= 0 || config.Market.Burst <= 0 {
		return fmt.Errorf("market rate limit must be positive")
	}

	if config.Catalog.Format != "json" && config.Catalog.Format != "text" {
		return fmt.Errorf("catalog format must be 'json' or 'text', got: %s", config.Catalog.Format)
	}

	if config.Search.DefaultLimit <= 0 || config.Search.MaxLimit <= 0 || config.Search.FeaturedCount <= 0 {
		return fmt.Errorf("search limits must be positive")
	}

	if config.Search.DefaultLimit > config.Search.MaxLimit {
		return fmt.Errorf("search default_limit (%d) exceeds max_limit (%d)", config.Search.DefaultLimit, config.Search.MaxLimit)
	}

	return nil
}
