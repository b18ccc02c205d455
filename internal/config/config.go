// Package config provides configuration management for loopwright.
//
// Config file locations (priority order):
//  1. $LOOPWRIGHT_CONFIG
//  2. ./loopwright.yaml
//  3. $XDG_CONFIG_HOME/loopwright/config.yaml
//  4. ~/.config/loopwright/config.yaml
//  5. /etc/loopwright/config.yaml
//
// Relative paths inside a config file are taken from the file's directory.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"loopwright/internal/domain"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const (
	defaultDatabasePath = "./loopwright.db"
	defaultDebounce     = 500 * time.Millisecond
)

var validate = validator.New()

// Load finds and loads the config file, or returns defaults if none found
func Load() (*Config, string, error) {
	path := FindConfigPath()

	if path == "" {
		return DefaultConfig(), "", nil
	}

	return LoadFromPath(path)
}

// LoadFromPath loads config from a specific path
func LoadFromPath(path string) (*Config, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, path, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, path, fmt.Errorf("parse config: %w", err)
	}

	cfg.resolvePaths(path)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, path, err
	}

	return &cfg, path, nil
}

// Save writes config to the specified path
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0644)
}

// DefaultConfig returns sensible defaults for a new installation
func DefaultConfig() *Config {
	debounce := Duration(defaultDebounce)
	return &Config{
		Version:  1,
		Log:      LogConfig{Level: "info"},
		Database: DatabaseConfig{Path: defaultDatabasePath},
		Schema:   SchemaConfig{Debounce: &debounce},
		Renames:  RenamesConfig{ConflictPolicy: string(domain.RenameReject)},
	}
}

// applyDefaults fills in missing values with defaults
func (c *Config) applyDefaults() {
	if c.Version == 0 {
		c.Version = 1
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Database.Path == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Schema.Debounce == nil {
		d := Duration(defaultDebounce)
		c.Schema.Debounce = &d
	}
	if c.Renames.ConflictPolicy == "" {
		c.Renames.ConflictPolicy = string(domain.RenameReject)
	}
}

// Validate checks field values
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			return fmt.Errorf("invalid config: %s", verrs.Error())
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Schema.Watch && c.Schema.ExtraPath == "" {
		return errors.New("invalid config: schema.watch needs schema.extra_path")
	}
	return nil
}

// RenamePolicy returns the configured rename conflict policy
func (c *Config) RenamePolicy() domain.RenamePolicy {
	return domain.RenamePolicy(c.Renames.ConflictPolicy)
}

// DefaultFluid returns the fluid hint used when a replace call gives none
func (c *Config) DefaultFluid() domain.Fluid {
	return domain.ParseFluid(c.Fluid)
}

// SchemaDebounce returns the delay before reloading a changed schema file
func (c *Config) SchemaDebounce() time.Duration {
	if c.Schema.Debounce == nil {
		return defaultDebounce
	}
	return c.Schema.Debounce.Duration()
}

// Summary returns a human-readable config summary
func (c *Config) Summary() string {
	summary := fmt.Sprintf("Log: %s, Database: %s, Renames: %s\n", c.Log.Level, c.Database.Path, c.Renames.ConflictPolicy)
	if c.Schema.ExtraPath != "" {
		summary += fmt.Sprintf("Schema: %s (watch: %v)", c.Schema.ExtraPath, c.Schema.Watch)
	} else {
		summary += "Schema: built-in"
	}
	return summary
}
