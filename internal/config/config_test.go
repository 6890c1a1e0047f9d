package config

import (
	"os"
	"path/filepath"
	"testing"
)

var envKeys = []string{"PORT", "STORAGE_DRIVER", "DATABASE_PATH", "LOG_LEVEL", "LOG_FORMAT", "TELEGRAM_BOT_TOKEN", "CONFIG_FILE"}

// clearEnv unsets every config variable for the duration of the test.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if *cfg != Default() {
		t.Errorf("got %+v, want defaults", cfg)
	}
	if cfg.Addr() != "0.0.0.0:5000" {
		t.Errorf("unexpected addr %q", cfg.Addr())
	}
}

func TestLoadPrecedence(t *testing.T) {
	clearEnv(t)

	yamlPath := writeFile(t, "config.yaml", `
port: 7000
storage:
  driver: sqlite
  dsn: from-yaml.db
log:
  level: debug
  format: json
`)
	envPath := writeFile(t, "test.env", "CONFIG_FILE="+yamlPath+"\nDATABASE_PATH=from-dotenv.db\n")
	t.Setenv("PORT", "8080")

	cfg, err := Load(envPath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != 8080 {
		t.Errorf("env PORT should win, got %d", cfg.Port)
	}
	if cfg.Storage.DSN != "from-dotenv.db" {
		t.Errorf(".env should override yaml, got %q", cfg.Storage.DSN)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("yaml log settings not applied: %+v", cfg.Log)
	}
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string]map[string]string{
		"port not a number": {"PORT": "abc"},
		"port out of range": {"PORT": "70000"},
		"unknown driver":    {"STORAGE_DRIVER": "postgres"},
		"unknown level":     {"LOG_LEVEL": "loud"},
		"unknown format":    {"LOG_FORMAT": "xml"},
	}

	for name, env := range tests {
		t.Run(name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoadMissingConfigFile(t *testing.T) {
	clearEnv(t)
	t.Setenv("CONFIG_FILE", filepath.Join(t.TempDir(), "nope.yaml"))

	if _, err := Load(filepath.Join(t.TempDir(), "missing.env")); err == nil {
		t.Error("expected error for missing CONFIG_FILE")
	}
}
