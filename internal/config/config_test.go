package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFile(t *testing.T) {
	yamlContent := []byte(`
input:
  dir: "/data/nse/daily"
output:
  path: "/data/nse/Master_nse_data.parquet"
catalog:
  sqlite_path: "/data/nse/catalog.db"
logging:
  level: "debug"
  format: "json"
`)

	path := filepath.Join(t.TempDir(), "nsemerge.yaml")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	// Clear any environment overrides that might interfere.
	os.Unsetenv("NSEMERGE_INPUT_DIR")
	os.Unsetenv("NSEMERGE_OUTPUT")
	os.Unsetenv("NSEMERGE_CATALOG")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Input.Dir != "/data/nse/daily" {
		t.Errorf("Input.Dir = %q, want %q", cfg.Input.Dir, "/data/nse/daily")
	}
	if cfg.Output.Path != "/data/nse/Master_nse_data.parquet" {
		t.Errorf("Output.Path = %q, want %q", cfg.Output.Path, "/data/nse/Master_nse_data.parquet")
	}
	if cfg.Catalog.SQLitePath != "/data/nse/catalog.db" {
		t.Errorf("Catalog.SQLitePath = %q, want %q", cfg.Catalog.SQLitePath, "/data/nse/catalog.db")
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Logging.Format = %q, want %q", cfg.Logging.Format, "json")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	os.Unsetenv("NSEMERGE_INPUT_DIR")
	os.Unsetenv("NSEMERGE_OUTPUT")
	os.Unsetenv("NSEMERGE_CATALOG")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("LOG_FORMAT")

	cfg, err := Load(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
	if err != nil {
		t.Fatalf("Load() on missing file returned error: %v", err)
	}

	if cfg.Input.Dir != "daily" {
		t.Errorf("Input.Dir = %q, want %q", cfg.Input.Dir, "daily")
	}
	if cfg.Output.Path != "Master_nse_data.parquet" {
		t.Errorf("Output.Path = %q, want %q", cfg.Output.Path, "Master_nse_data.parquet")
	}
	if cfg.Catalog.SQLitePath != "" {
		t.Errorf("Catalog.SQLitePath = %q, want empty", cfg.Catalog.SQLitePath)
	}
	if cfg.Logging.Level != "info" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "info")
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	yamlContent := []byte(`
input:
  dir: "/original/daily"
output:
  path: "/original/master.parquet"
`)

	path := filepath.Join(t.TempDir(), "nsemerge.yaml")
	if err := os.WriteFile(path, yamlContent, 0o644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}

	os.Setenv("NSEMERGE_INPUT_DIR", "/env/daily")
	os.Setenv("LOG_LEVEL", "warn")
	defer os.Unsetenv("NSEMERGE_INPUT_DIR")
	defer os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("NSEMERGE_OUTPUT")
	os.Unsetenv("NSEMERGE_CATALOG")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Input.Dir != "/env/daily" {
		t.Errorf("Input.Dir = %q, want %q (env override)", cfg.Input.Dir, "/env/daily")
	}
	// output.path should remain from YAML since no env override was set.
	if cfg.Output.Path != "/original/master.parquet" {
		t.Errorf("Output.Path = %q, want %q (from YAML)", cfg.Output.Path, "/original/master.parquet")
	}
	if cfg.Logging.Level != "warn" {
		t.Errorf("Logging.Level = %q, want %q (env override)", cfg.Logging.Level, "warn")
	}
}
