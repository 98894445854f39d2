package config

import (
	"github.com/sdejongh/treediff/pkg/models"
)

// Config represents the application configuration
type Config struct {
	Compare CompareConfig `yaml:"compare"`
	Output  OutputConfig  `yaml:"output"`
	Logging LoggingConfig `yaml:"logging"`
}

// CompareConfig holds comparison settings
type CompareConfig struct {
	BufferSize       int      `yaml:"buffer_size" ini:"buffer_size"`
	BandwidthLimit   int64    `yaml:"bandwidth_limit" ini:"bandwidth_limit"` // bytes per second, 0 = unlimited
	Exclude          []string `yaml:"exclude" ini:"exclude" delim:","`
	FailOnDifference bool     `yaml:"fail_on_difference" ini:"fail_on_difference"`
}

// OutputConfig holds output-related settings
type OutputConfig struct {
	Format   string `yaml:"format" ini:"format"`     // "human" or "json"
	Progress bool   `yaml:"progress" ini:"progress"` // Byte progress bars on stderr
	Summary  bool   `yaml:"summary" ini:"summary"`   // Print counters after the results
}

// LoggingConfig holds logging-related settings
type LoggingConfig struct {
	Enabled bool   `yaml:"enabled" ini:"enabled"`
	Format  string `yaml:"format" ini:"format"` // "json" or "text"
	Level   string `yaml:"level" ini:"level"`   // "debug", "info", "warn", "error"
	File    string `yaml:"file" ini:"file"`     // Log file path (empty = stderr)
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Compare: CompareConfig{
			BufferSize:       65536,
			BandwidthLimit:   0,
			Exclude:          []string{},
			FailOnDifference: false,
		},
		Output: OutputConfig{
			Format:   "human",
			Progress: false,
			Summary:  false,
		},
		Logging: LoggingConfig{
			Enabled: false,
			Format:  "text",
			Level:   "info",
			File:    "",
		},
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Compare.BufferSize < 4096 {
		return &models.ValidationError{
			Field:   "compare.buffer_size",
			Message: "must be at least 4096 bytes",
		}
	}

	if c.Compare.BandwidthLimit < 0 {
		return &models.ValidationError{
			Field:   "compare.bandwidth_limit",
			Message: "must not be negative",
		}
	}

	validFormats := map[string]bool{"human": true, "json": true}
	if !validFormats[c.Output.Format] {
		return &models.ValidationError{
			Field:   "output.format",
			Message: "must be 'human' or 'json'",
		}
	}

	validLogFormats := map[string]bool{"json": true, "text": true}
	if !validLogFormats[c.Logging.Format] {
		return &models.ValidationError{
			Field:   "logging.format",
			Message: "must be 'json' or 'text'",
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return &models.ValidationError{
			Field:   "logging.level",
			Message: "must be 'debug', 'info', 'warn', or 'error'",
		}
	}

	return nil
}
