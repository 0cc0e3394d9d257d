package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".hive.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Valid(t *testing.T) {
	path := writeConfig(t, `
session: demo
architect: claude
workers: claude
windows:
  - workers:
      - id: api
        lane: api
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Session != "demo" {
		t.Errorf("session = %q", cfg.Session)
	}
	if len(cfg.Windows) != 1 || len(cfg.Windows[0].Workers) != 1 {
		t.Fatalf("unexpected windows: %+v", cfg.Windows)
	}
}

func TestLoad_MissingFileIsConfigError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a *ConfigError, got %v", err)
	}
}

func TestLoad_InvalidBackendIsConfigError(t *testing.T) {
	path := writeConfig(t, `
session: demo
architect: gpt4
workers: claude
`)

	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a *ConfigError for an invalid backend, got %v", err)
	}
}

func TestLoad_DuplicateLaneIsConfigError(t *testing.T) {
	path := writeConfig(t, `
session: demo
architect: claude
workers: claude
windows:
  - workers:
      - id: api1
        lane: api
      - id: api2
        lane: api
`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected duplicate lane assignment to be rejected")
	}
}

func TestLoad_MalformedYAMLIsConfigError(t *testing.T) {
	path := writeConfig(t, "session: [this is not valid")
	_, err := Load(path)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected a *ConfigError for malformed YAML, got %v", err)
	}
}
