// Package config loads daemon configuration from defaults, an optional
// config file and MOXIE_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings for the dispatch services.
type Config struct {
	// DataDir is the base directory for local state.
	DataDir string `mapstructure:"data_dir"`

	// DatabasePath is the sqlite event log location. Empty means
	// <DataDir>/moxie.db.
	DatabasePath string `mapstructure:"database_path"`

	// LogLevel is the zerolog level name (trace, debug, info, warn, error).
	LogLevel string `mapstructure:"log_level"`

	// Sequence holds the default timed-sequence parameters.
	Sequence SequenceConfig `mapstructure:"sequence"`
}

// SequenceConfig carries the default timing for timed behavior sequences.
type SequenceConfig struct {
	TotalSeconds    float64 `mapstructure:"total_seconds"`
	BehaviorSeconds float64 `mapstructure:"behavior_seconds"`
	GapSeconds      float64 `mapstructure:"gap_seconds"`
}

// DefaultConfig returns the configuration used when nothing is set.
func DefaultConfig() *Config {
	dataDir := ".moxie"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".moxie")
	}
	return &Config{
		DataDir:  dataDir,
		LogLevel: "info",
		Sequence: SequenceConfig{
			TotalSeconds:    60,
			BehaviorSeconds: 1.5,
			GapSeconds:      0.5,
		},
	}
}

// Load reads configuration from the given file (optional), layered over
// defaults, with MOXIE_* environment variables taking precedence.
func Load(path string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("data_dir", defaults.DataDir)
	v.SetDefault("database_path", defaults.DatabasePath)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("sequence.total_seconds", defaults.Sequence.TotalSeconds)
	v.SetDefault("sequence.behavior_seconds", defaults.Sequence.BehaviorSeconds)
	v.SetDefault("sequence.gap_seconds", defaults.Sequence.GapSeconds)

	v.SetEnvPrefix("MOXIE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the loaded values for obvious mistakes.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "trace", "debug", "info", "warn", "error", "fatal", "panic", "":
	default:
		return fmt.Errorf("unknown log level %q", c.LogLevel)
	}
	if c.Sequence.BehaviorSeconds <= 0 {
		return fmt.Errorf("sequence.behavior_seconds must be positive")
	}
	if c.Sequence.GapSeconds < 0 {
		return fmt.Errorf("sequence.gap_seconds must not be negative")
	}
	if c.Sequence.TotalSeconds < 0 {
		return fmt.Errorf("sequence.total_seconds must not be negative")
	}
	return nil
}

// ResolveDatabasePath returns the effective sqlite path.
func (c *Config) ResolveDatabasePath() string {
	if c.DatabasePath != "" {
		return c.DatabasePath
	}
	return filepath.Join(c.DataDir, "moxie.db")
}
