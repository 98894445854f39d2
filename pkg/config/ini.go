package config

import (
	"fmt"

	"gopkg.in/ini.v1"
)

// loadINI reads the same settings as the YAML form, one section per block:
//
//	[compare]
//	buffer_size = 131072
//	exclude = .git/, *.tmp
//
// Keys left out keep their defaults.
// The caller validates the result.
func loadINI(path string) (*Config, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	sections := []struct {
		name   string
		target interface{}
	}{
		{"compare", &cfg.Compare},
		{"output", &cfg.Output},
		{"logging", &cfg.Logging},
	}
	for _, s := range sections {
		if !file.HasSection(s.name) {
			continue
		}
		if err := file.Section(s.name).MapTo(s.target); err != nil {
			return nil, fmt.Errorf("failed to parse config section [%s]: %w", s.name, err)
		}
	}

	return cfg, nil
}
