package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

//go:embed defaults/neuroplay.yaml
var defaultYAML []byte

// Load loads the platform configuration.
// Search order: customPath -> ~/.neuroplay/config.yaml ->
// ./configs/neuroplay.yaml -> embedded default. NEUROPLAY_* environment
// variables override whatever file was loaded.
func Load(customPath string) (Config, error) {
	var cfg Config

	switch {
	case customPath != "":
		data, err := os.ReadFile(customPath)
		if err != nil {
			return cfg, fmt.Errorf("failed to read config %s: %w", customPath, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("failed to parse config %s: %w", customPath, err)
		}

	default:
		cfg = loadFirstAvailable()
	}

	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse env overrides: %w", err)
	}

	return cfg, nil
}

func loadFirstAvailable() Config {
	var cfg Config

	if home, err := os.UserHomeDir(); err == nil {
		if data, err := os.ReadFile(filepath.Join(home, ".neuroplay", "config.yaml")); err == nil {
			if yaml.Unmarshal(data, &cfg) == nil {
				return cfg
			}
		}
	}

	if data, err := os.ReadFile(filepath.Join("configs", "neuroplay.yaml")); err == nil {
		if yaml.Unmarshal(data, &cfg) == nil {
			return cfg
		}
	}

	if err := yaml.Unmarshal(defaultYAML, &cfg); err != nil {
		return Default()
	}
	return cfg
}
