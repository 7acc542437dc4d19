// Package config loads inspire-mcp settings. Defaults are overridden by an
// optional YAML file, which is in turn overridden by INSPIREHEP_-prefixed
// environment variables. All values are fixed at startup.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all inspire-mcp configuration.
type Config struct {
	// Upstream API.
	APIBaseURL        string        `yaml:"api_base_url" env:"API_BASE_URL"`
	APITimeout        time.Duration `yaml:"api_timeout" env:"API_TIMEOUT"`
	RequestsPerSecond float64       `yaml:"requests_per_second" env:"REQUESTS_PER_SECOND"`

	// In-memory cache.
	CacheTTL     time.Duration `yaml:"cache_ttl" env:"CACHE_TTL"`
	CacheMaxSize int           `yaml:"cache_max_size" env:"CACHE_MAX_SIZE"`

	// Persistent cache (SQLite).
	CachePersistent bool   `yaml:"cache_persistent" env:"CACHE_PERSISTENT"`
	CacheDBPath     string `yaml:"cache_db_path" env:"CACHE_DB_PATH"`

	// Logging.
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		APIBaseURL:        "https://inspirehep.net/api",
		APITimeout:        30 * time.Second,
		RequestsPerSecond: 1.5,
		CacheTTL:          24 * time.Hour,
		CacheMaxSize:      512,
		CachePersistent:   false,
		CacheDBPath:       "inspirehep_cache.db",
		LogLevel:          "info",
	}
}

// Load builds the effective configuration. path may be empty to skip the
// YAML file. Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		expanded := os.ExpandEnv(string(data))
		if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := env.ParseWithOptions(cfg, env.Options{Prefix: "INSPIREHEP_"}); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.RequestsPerSecond <= 0 {
		return fmt.Errorf("requests_per_second must be positive, got %g", c.RequestsPerSecond)
	}
	if c.CacheMaxSize <= 0 {
		return fmt.Errorf("cache_max_size must be positive, got %d", c.CacheMaxSize)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("api_timeout must be positive, got %s", c.APITimeout)
	}
	return nil
}
