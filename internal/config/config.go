// Package config loads munipipe configuration from environment variables
// merged over an optional YAML file, and centralizes filesystem paths.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// DefaultAsOf is the fixed reference date used for time-to-maturity when no
// as-of date is configured. Derivations never read the wall clock.
const DefaultAsOf = "2024-06-01"

// Config represents the complete application configuration. Precedence is
// environment over file over defaults.
type Config struct {
	Logging  LoggingConfig  `yaml:"logging" envconfig:"LOGGING"`
	Paths    PathsConfig    `yaml:"paths" envconfig:"PATHS"`
	Pipeline PipelineConfig `yaml:"pipeline" envconfig:"PIPELINE"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=stdout file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// PathsConfig contains the filesystem layout.
type PathsConfig struct {
	DataDir    string `yaml:"data_dir" envconfig:"DATA_DIR" validate:"required"`
	ReportsDir string `yaml:"reports_dir" envconfig:"REPORTS_DIR" validate:"required"`
	LogsDir    string `yaml:"logs_dir" envconfig:"LOGS_DIR" validate:"required"`
}

// PipelineConfig contains pipeline behavior settings.
type PipelineConfig struct {
	// AsOf is the reference date for time-to-maturity, YYYY-MM-DD.
	AsOf string `yaml:"as_of" envconfig:"AS_OF" validate:"required"`
}

// Load reads configuration with environment variables (MUNI_* prefix)
// taking precedence over the optional YAML config file, which takes
// precedence over built-in defaults. The merged result is validated before
// use.
func Load(configFile string) (*Config, error) {
	var cfg Config

	if configFile != "" {
		if _, err := os.Stat(configFile); err == nil {
			fileCfg, err := loadFromFile(configFile)
			if err != nil {
				return nil, fmt.Errorf("failed to load config from file: %w", err)
			}
			cfg = *fileCfg
		}
	}

	var env Config
	if err := envconfig.Process("MUNI", &env); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}
	cfg = merge(cfg, env)
	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// AsOfDate parses the configured as-of date.
func (c *Config) AsOfDate() (time.Time, error) {
	t, err := time.Parse("2006-01-02", c.Pipeline.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid as_of date %q: %w", c.Pipeline.AsOf, err)
	}
	return t, nil
}

func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge overlays env config on top of file config; env wins where set.
func merge(file, env Config) Config {
	out := file
	if env.Logging.Level != "" {
		out.Logging.Level = env.Logging.Level
	}
	if env.Logging.Output != "" {
		out.Logging.Output = env.Logging.Output
	}
	if env.Logging.FilePath != "" {
		out.Logging.FilePath = env.Logging.FilePath
	}
	if env.Paths.DataDir != "" {
		out.Paths.DataDir = env.Paths.DataDir
	}
	if env.Paths.ReportsDir != "" {
		out.Paths.ReportsDir = env.Paths.ReportsDir
	}
	if env.Paths.LogsDir != "" {
		out.Paths.LogsDir = env.Paths.LogsDir
	}
	if env.Pipeline.AsOf != "" {
		out.Pipeline.AsOf = env.Pipeline.AsOf
	}
	return out
}

func (c *Config) applyDefaults() {
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "stdout"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = "logs/munipipe.log"
	}
	if c.Paths.DataDir == "" {
		c.Paths.DataDir = "data"
	}
	if c.Paths.ReportsDir == "" {
		c.Paths.ReportsDir = "reports"
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = "logs"
	}
	if c.Pipeline.AsOf == "" {
		c.Pipeline.AsOf = DefaultAsOf
	}
}

func (c *Config) validate() error {
	v := validator.New(validator.WithRequiredStructEnabled())
	if err := v.Struct(c); err != nil {
		return err
	}
	if _, err := c.AsOfDate(); err != nil {
		return err
	}
	return nil
}
