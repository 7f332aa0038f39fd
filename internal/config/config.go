// Package config provides YAML-based platform configuration with
// environment-variable overrides.
package config

// Config is the platform configuration.
type Config struct {
	Modes    ModesConfig   `yaml:"modes"`
	Storage  StorageConfig `yaml:"storage"`
	Content  ContentConfig `yaml:"content"`
	LogLevel string        `yaml:"log_level" env:"NEUROPLAY_LOG_LEVEL"`
}

// ModesConfig holds mode-runner parameters.
type ModesConfig struct {
	JourneyRounds   int   `yaml:"journey_rounds" env:"NEUROPLAY_JOURNEY_ROUNDS"`
	ArenaDurationMs int64 `yaml:"arena_duration_ms" env:"NEUROPLAY_ARENA_DURATION_MS"`
}

// StorageConfig holds persistence parameters.
type StorageConfig struct {
	DBPath string `yaml:"db_path" env:"NEUROPLAY_DB_PATH"`
}

// ContentConfig holds lexicon parameters.
type ContentConfig struct {
	Language    string `yaml:"language" env:"NEUROPLAY_LANGUAGE"`
	LexiconPath string `yaml:"lexicon_path" env:"NEUROPLAY_LEXICON_PATH"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Modes: ModesConfig{
			JourneyRounds:   5,
			ArenaDurationMs: 60000,
		},
		Storage: StorageConfig{
			DBPath: "~/.neuroplay/neuroplay.db",
		},
		Content: ContentConfig{
			Language: "en",
		},
		LogLevel: "info",
	}
}
