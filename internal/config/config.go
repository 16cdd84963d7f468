// Package config loads server configuration from an HCL file.
package config

import (
	"fmt"
	"os"

	"github.com/hashicorp/go-multierror"
	"github.com/hashicorp/hcl/v2/hclsimple"
)

// Config represents the server configuration from HCL.
type Config struct {
	// BaseURL is the externally visible base URL of the server.
	BaseURL string `hcl:"base_url,optional"`

	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `hcl:"listen_addr,optional"`

	// LogLevel is the hclog level (trace, debug, info, warn, error).
	LogLevel string `hcl:"log_level,optional"`

	Database *DatabaseConfig `hcl:"database,block"`
	Search   *SearchConfig   `hcl:"search,block"`
}

// DatabaseConfig represents database configuration.
type DatabaseConfig struct {
	// Driver is "sqlite" (default) or "postgres".
	Driver string `hcl:"driver,optional"`

	// Path is the SQLite database file.
	Path string `hcl:"path,optional"`

	Host     string `hcl:"host,optional"`
	Port     int    `hcl:"port,optional"`
	User     string `hcl:"user,optional"`
	Password string `hcl:"password,optional"`
	DBName   string `hcl:"dbname,optional"`
	SSLMode  string `hcl:"sslmode,optional"`
}

// SearchConfig represents the optional embedded full-text index.
type SearchConfig struct {
	// Enabled turns the bleve index on.
	Enabled bool `hcl:"enabled,optional"`

	// IndexPath is the on-disk location of the index.
	IndexPath string `hcl:"index_path,optional"`
}

// Default returns the zero-config setup: embedded SQLite under a workspace
// directory, no full-text index, listening on localhost.
func Default() *Config {
	return &Config{
		ListenAddr: "127.0.0.1:8000",
		LogLevel:   "info",
		Database: &DatabaseConfig{
			Driver: "sqlite",
			Path:   ".docvault/docvault.db",
		},
	}
}

// NewConfig parses the HCL file at path and applies defaults.
func NewConfig(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("configuration file not found: %s", path)
	}

	var cfg Config
	if err := hclsimple.DecodeFile(path, nil, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file: %w", err)
	}

	def := Default()
	if cfg.ListenAddr == "" {
		cfg.ListenAddr = def.ListenAddr
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = def.LogLevel
	}
	if cfg.Database == nil {
		cfg.Database = def.Database
	}
	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "sqlite"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the configuration for inconsistencies, reporting all of
// them at once.
func (c *Config) Validate() error {
	var result *multierror.Error

	switch c.Database.Driver {
	case "sqlite":
	case "postgres":
		if c.Database.Host == "" {
			result = multierror.Append(result,
				fmt.Errorf("database.host is required for the postgres driver"))
		}
		if c.Database.DBName == "" {
			result = multierror.Append(result,
				fmt.Errorf("database.dbname is required for the postgres driver"))
		}
	default:
		result = multierror.Append(result,
			fmt.Errorf("unsupported database.driver: %s", c.Database.Driver))
	}

	if c.Search != nil && c.Search.Enabled && c.Search.IndexPath == "" {
		result = multierror.Append(result,
			fmt.Errorf("search.index_path is required when search is enabled"))
	}

	return result.ErrorOrNil()
}
