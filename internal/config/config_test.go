package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kornelski/trapmail/internal/errors"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv(EnvStorePath, "")
	t.Setenv(EnvLogLevel, "")

	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorePath != DefaultStorePath {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, DefaultStorePath)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
}

func TestLoadFile(t *testing.T) {
	t.Setenv(EnvStorePath, "")
	t.Setenv(EnvLogLevel, "")

	dir := t.TempDir()
	file := "store_path: /var/mail/trap\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorePath != "/var/mail/trap" {
		t.Errorf("StorePath = %q, want /var/mail/trap", cfg.StorePath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv(EnvStorePath, "/custom/path")
	t.Setenv(EnvLogLevel, "WARN")

	dir := t.TempDir()
	file := "store_path: /var/mail/trap\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(file), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.StorePath != "/custom/path" {
		t.Errorf("StorePath = %q, want /custom/path", cfg.StorePath)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("LogLevel = %q, want warn (lowered)", cfg.LogLevel)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("store_path: [\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	_, err := Load(dir)
	if !errors.Is(err, errors.ErrConfig) {
		t.Errorf("Load error = %v, want CONFIG", err)
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv(EnvStorePath, "/elsewhere")
	cfg := FromEnv()
	if cfg.StorePath != "/elsewhere" {
		t.Errorf("StorePath = %q, want /elsewhere", cfg.StorePath)
	}

	t.Setenv(EnvStorePath, "")
	cfg = FromEnv()
	if cfg.StorePath != DefaultStorePath {
		t.Errorf("StorePath = %q, want %q", cfg.StorePath, DefaultStorePath)
	}
}
