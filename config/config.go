package config

import (
	"errors"
	"fmt"
	"os"

	"riskodds/game"
	"riskodds/meta"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config holds every setting of a simulation run. Values are applied in order: defaults,
// YAML file, RISK_* environment variables, then command line flags.
type Config struct {
	Attackers int    `yaml:"attackers" env:"ATTACKERS"`
	Defenders int    `yaml:"defenders" env:"DEFENDERS"`
	Trials    int    `yaml:"trials" env:"TRIALS"`
	Workers   int    `yaml:"workers" env:"WORKERS"`
	BatchSize int    `yaml:"batch_size" env:"BATCH_SIZE"`
	Seed      uint64 `yaml:"seed" env:"SEED"` // 0 picks a random seed

	// Policy names the defender dice policy, see game.PolicyNames.
	Policy string `yaml:"policy" env:"POLICY"`

	// OutputDir is where experiment records are written.
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`

	Log LogConfig `yaml:"log" envPrefix:"LOG_"`
}

type LogConfig struct {
	// Level is a zerolog level name: trace, debug, info, warn, error.
	Level string `yaml:"level" env:"LEVEL"`

	// Format is "console" or "json".
	Format string `yaml:"format" env:"FORMAT"`

	// File enables a rotated log file in addition to stderr when set.
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"MAX_AGE_DAYS"`
}

func DefaultConfig() *Config {
	return &Config{
		Attackers: meta.ATTACKERS,
		Defenders: meta.DEFENDERS,
		Trials:    meta.TRIALS,
		Workers:   meta.WORKERS,
		BatchSize: meta.BATCH_SIZE,
		Policy:    meta.POLICY,
		OutputDir: "experiments",
		Log: LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSizeMB:  10,
			MaxBackups: 3,
			MaxAgeDays: 28,
		},
	}
}

// LoadConfig reads the YAML file at path over the defaults, then applies environment
// overrides. An empty path skips the file, but a named file must exist.
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	if err := env.ParseWithOptions(config, env.Options{Prefix: "RISK_"}); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	return config, nil
}

// Validate rejects settings the simulator cannot run with.
func (c *Config) Validate() error {
	if c.Attackers < 1 {
		return fmt.Errorf("%w: attackers must be at least 1, got %d", ErrInvalidConfig, c.Attackers)
	}
	if c.Defenders < 0 {
		return fmt.Errorf("%w: defenders cannot be negative, got %d", ErrInvalidConfig, c.Defenders)
	}
	if c.Trials < 1 {
		return fmt.Errorf("%w: trials must be at least 1, got %d", ErrInvalidConfig, c.Trials)
	}
	if c.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.BatchSize < 1 {
		return fmt.Errorf("%w: batch size must be at least 1, got %d", ErrInvalidConfig, c.BatchSize)
	}
	if _, err := game.PolicyByName(c.Policy); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("%w: log level: %w", ErrInvalidConfig, err)
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		return fmt.Errorf("%w: log format must be console or json, got %q", ErrInvalidConfig, c.Log.Format)
	}
	return nil
}
