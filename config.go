package main

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config is the chordsheet configuration. Values come from an optional YAML
// file and CHORDSHEET_* environment variables, command line flags win over both.
type Config struct {
	Output OutputConfig `yaml:"output"`
	Log    LogConfig    `yaml:"log"`
}

// OutputConfig selects which files a conversion writes and where
type OutputConfig struct {
	Dir      string `yaml:"dir"      env:"CHORDSHEET_OUTPUT_DIR"      env-default:""`
	ChordPro bool   `yaml:"chordpro" env:"CHORDSHEET_OUTPUT_CHORDPRO" env-default:"true"`
	HTML     bool   `yaml:"html"     env:"CHORDSHEET_OUTPUT_HTML"     env-default:"false"`
	NoBass   bool   `yaml:"no_bass"  env:"CHORDSHEET_NO_BASS"         env-default:"false"`
}

// LogConfig holds logger settings
type LogConfig struct {
	Level  string `yaml:"level"  env:"CHORDSHEET_LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"CHORDSHEET_LOG_FORMAT" env-default:"text"`
}

// LoadConfig reads the YAML file at path, when given, and the environment.
// An empty path falls back to CHORDSHEET_CONFIG. A missing file is only an
// error when it was asked for explicitly.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path == "" {
		path = os.Getenv("CHORDSHEET_CONFIG")
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config: file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("config: read %s: %w", path, err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("config: read env: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: validate: %w", err)
	}

	return &cfg, nil
}

// Validate rejects settings the logger cannot use
func (c *Config) Validate() error {
	if _, err := parseLogLevel(c.Log.Level); err != nil {
		return fmt.Errorf("log.level: %w", err)
	}

	switch c.Log.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("log.format must be text or json (got %q)", c.Log.Format)
	}

	return nil
}
