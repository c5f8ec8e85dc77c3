// Package config provides configuration loading for the cellgrid tool.
package config

import (
	"github.com/arrayforge/cellgrid/pkg/errors"
)

// ToolConfig holds the settings of the cellgrid command-line tool.
type ToolConfig struct {
	// Logging controls the structured logger
	Logging LoggingConfig `yaml:"logging" json:"logging"`
	// Defaults are applied when a command flag is not given
	Defaults DefaultsConfig `yaml:"defaults" json:"defaults"`
}

// LoggingConfig controls log level and encoding.
type LoggingConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level" json:"level"`
	// Encoding is json or console
	Encoding string `yaml:"encoding" json:"encoding"`
	// Development enables colored, stack-traced output
	Development bool `yaml:"development" json:"development"`
}

// DefaultsConfig carries per-command defaults.
type DefaultsConfig struct {
	// Keys is the default key-field list for sort, dedup, distinct
	// and groups when --keys is not given
	Keys []string `yaml:"keys" json:"keys"`
	// Output is the default output path; "-" means stdout
	Output string `yaml:"output" json:"output"`
}

// NewToolConfig returns a config with sensible defaults.
func NewToolConfig() *ToolConfig {
	return &ToolConfig{
		Logging: LoggingConfig{
			Level:    "info",
			Encoding: "console",
		},
		Defaults: DefaultsConfig{
			Output: "-",
		},
	}
}

// Validate checks the configuration for obvious mistakes.
func (c *ToolConfig) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.New(errors.ErrorTypeConfig, "invalid log level").
			WithDetail("level", c.Logging.Level)
	}
	switch c.Logging.Encoding {
	case "json", "console":
	default:
		return errors.New(errors.ErrorTypeConfig, "invalid log encoding").
			WithDetail("encoding", c.Logging.Encoding)
	}
	return nil
}
