package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for portfel
type Config struct {
	BaseCurrency string       `toml:"base_currency"`
	DataDir      string       `toml:"data_dir"`
	Provider     string       `toml:"provider"` // "yahoo" or "eodhd"
	LogLevel     string       `toml:"log_level"`
	Market       MarketConfig `toml:"market"`
	EODHD        EODHDConfig  `toml:"eodhd"`
}

// MarketConfig holds market data fetching configuration
type MarketConfig struct {
	Timeout    string `toml:"timeout"`     // overall fetch timeout
	QuoteCache string `toml:"quote_cache"` // how long quotes are reused
	NameCache  string `toml:"name_cache"`  // how long names are reused
	CacheDir   string `toml:"cache_dir"`   // os.TempDir() if empty
	RateLimit  int    `toml:"rate_limit"`  // requests per second
}

// EODHDConfig holds EODHD API configuration
type EODHDConfig struct {
	BaseURL string `toml:"base_url"`
	APIKey  string `toml:"api_key"`
}

// GetTimeout parses and returns the timeout duration
func (c *MarketConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 20*time.Second)
}

// GetQuoteCache parses and returns the quote cache duration
func (c *MarketConfig) GetQuoteCache() time.Duration {
	return parseDuration(c.QuoteCache, 5*time.Minute)
}

// GetNameCache parses and returns the name cache duration
func (c *MarketConfig) GetNameCache() time.Duration {
	return parseDuration(c.NameCache, 24*time.Hour)
}

func parseDuration(s string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return def
	}
	return d
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		BaseCurrency: "PLN",
		DataDir:      "~/.portfel",
		Provider:     "yahoo",
		LogLevel:     "warn",
		Market: MarketConfig{
			Timeout:    "20s",
			QuoteCache: "5m",
			NameCache:  "24h",
			RateLimit:  5,
		},
		EODHD: EODHDConfig{
			BaseURL: "https://eodhd.com/api",
		},
	}
}

// LoadConfig loads configuration from files with environment overrides.
// Missing files are skipped.
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Load and merge each config file in order (later files override earlier)
	for _, path := range paths {
		if path == "" {
			continue
		}
		data, err := os.ReadFile(path)
		if os.IsNotExist(err) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if dir := os.Getenv("PORTFEL_DATA_DIR"); dir != "" {
		config.DataDir = dir
	}
	if base := os.Getenv("PORTFEL_BASE_CURRENCY"); base != "" {
		config.BaseCurrency = base
	}
	if p := os.Getenv("PORTFEL_PROVIDER"); p != "" {
		config.Provider = p
	}
	if level := os.Getenv("PORTFEL_LOG_LEVEL"); level != "" {
		config.LogLevel = level
	}
	if key := os.Getenv("EODHD_API_KEY"); key != "" {
		config.EODHD.APIKey = key
	}
	if rl := os.Getenv("PORTFEL_RATE_LIMIT"); rl != "" {
		if n, err := strconv.Atoi(rl); err == nil {
			config.Market.RateLimit = n
		}
	}
}

// Validate normalizes the configuration and checks it is usable.
func (c *Config) Validate() error {
	c.BaseCurrency = strings.ToUpper(strings.TrimSpace(c.BaseCurrency))
	if len(c.BaseCurrency) != 3 {
		return fmt.Errorf("invalid base currency %q, want a 3 letters code like PLN", c.BaseCurrency)
	}
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	switch c.Provider {
	case "yahoo":
	case "eodhd":
		if c.EODHD.APIKey == "" {
			return fmt.Errorf("the eodhd provider needs an API key, set EODHD_API_KEY")
		}
	default:
		return fmt.Errorf("unknown provider %q, want yahoo or eodhd", c.Provider)
	}
	return nil
}

// DataPath returns the absolute data directory, with a leading ~ expanded.
func (c *Config) DataPath() (string, error) {
	dir := c.DataDir
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("cannot expand %q: %w", dir, err)
		}
		dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
	}
	return filepath.Abs(dir)
}
