package server

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config holds the runtime configuration for the HTTP service.
type Config struct {
	// Listen is the address the HTTP server binds to.
	Listen string `yaml:"listen"`

	// DatabaseURL is the postgres connection string. The DATABASE_URL
	// environment variable overrides the file value.
	DatabaseURL string `yaml:"database_url"`
}

// DefaultConfig returns the configuration used when no file is given.
func DefaultConfig() *Config {
	return &Config{Listen: ":3000"}
}

// LoadConfig reads a YAML configuration file and applies the environment
// override for the database URL.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("server: read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("server: parse config: %w", err)
		}
	}

	if url := os.Getenv("DATABASE_URL"); url != "" {
		cfg.DatabaseURL = url
	}
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("server: database_url is not set")
	}
	if cfg.Listen == "" {
		cfg.Listen = ":3000"
	}
	return cfg, nil
}
