package config

import (
	"time"
)

// Config is the root configuration structure
type Config struct {
	Version  int            `yaml:"version" validate:"gte=1"`
	Log      LogConfig      `yaml:"log"`
	Database DatabaseConfig `yaml:"database"`
	Schema   SchemaConfig   `yaml:"schema"`
	Renames  RenamesConfig  `yaml:"renames"`
	Fluid    string         `yaml:"fluid,omitempty" validate:"omitempty,oneof=water Water air Air steam Steam"`
}

// LogConfig selects the logger
type LogConfig struct {
	Level       string `yaml:"level" validate:"oneof=debug info warn error"`
	Development bool   `yaml:"development"`
}

// DatabaseConfig holds database settings
type DatabaseConfig struct {
	Path string `yaml:"path" validate:"required"`
}

// SchemaConfig points at object definitions merged over the built-in schema
type SchemaConfig struct {
	ExtraPath string    `yaml:"extra_path,omitempty"`
	Watch     bool      `yaml:"watch"`
	Debounce  *Duration `yaml:"debounce,omitempty"`
}

// RenamesConfig controls rename propagation
type RenamesConfig struct {
	ConflictPolicy string `yaml:"conflict_policy" validate:"oneof=reject last_wins"`
}

// Duration wraps time.Duration for YAML unmarshaling
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler
func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return err
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler
func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Duration returns the underlying time.Duration
func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}
