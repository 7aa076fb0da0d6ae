// Package config resolves trapmail settings: built-in defaults, then an
// optional YAML file, then environment variables on top.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kornelski/trapmail/internal/errors"
)

const (
	// EnvStorePath names the environment variable indicating where to
	// store mail.
	EnvStorePath = "TRAPMAIL_STORE"

	// EnvLogLevel names the environment variable selecting the log level.
	EnvLogLevel = "TRAPMAIL_LOG_LEVEL"

	// DefaultStorePath is used in absence of EnvStorePath.
	DefaultStorePath = "/tmp"
)

// Config holds application configuration.
type Config struct {
	// StorePath is the root directory of the mail store.
	StorePath string `yaml:"store_path"`

	// LogLevel is the logrus level name for stderr logging.
	LogLevel string `yaml:"log_level"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		StorePath: DefaultStorePath,
		LogLevel:  "info",
	}
}

// Load resolves configuration from baseDir/config.yaml, if present,
// with environment variables overriding file values. A missing file is
// not an error; loading never creates files or directories.
// The baseDir parameter lets tests use t.TempDir() instead of
// ~/.trapmail.
func Load(baseDir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(baseDir, "config.yaml"))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, errors.NewConfig(err)
		}
	case os.IsNotExist(err):
		// no file, defaults stand
	default:
		return nil, errors.NewConfig(err)
	}

	cfg.applyEnv()
	return cfg, nil
}

// FromEnv resolves configuration from the environment alone, skipping
// any config file.
func FromEnv() *Config {
	cfg := Default()
	cfg.applyEnv()
	return cfg
}

// applyEnv overrides configuration with environment variable values.
// Only non-empty variables override.
func (c *Config) applyEnv() {
	if v := os.Getenv(EnvStorePath); v != "" {
		c.StorePath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = strings.ToLower(v)
	}
}
