package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

// ---------------------------------------------------------------------------
// Configuration structs
// ---------------------------------------------------------------------------

// Config is the top-level configuration for the nsemerge tools.
type Config struct {
	Input   Input   `yaml:"input"`
	Output  Output  `yaml:"output"`
	Catalog Catalog `yaml:"catalog"`
	Logging Logging `yaml:"logging"`
}

// Input locates the per-symbol daily CSV files.
type Input struct {
	Dir string `yaml:"dir"`
}

// Output locates the consolidated master Parquet file.
type Output struct {
	Path string `yaml:"path"`
}

// Catalog configures the SQLite run catalog. An empty path disables it.
type Catalog struct {
	SQLitePath string `yaml:"sqlite_path"`
}

// Logging configures the application logger.
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ---------------------------------------------------------------------------
// Loading
// ---------------------------------------------------------------------------

// Default returns the configuration used when no config file is present:
// read daily/*.csv and write Master_nse_data.parquet in the working
// directory, with no catalog.
func Default() *Config {
	return &Config{
		Input:   Input{Dir: "daily"},
		Output:  Output{Path: "Master_nse_data.parquet"},
		Logging: Logging{Level: "info", Format: "text"},
	}
}

// Load reads the YAML configuration file at the given path and applies
// environment variable overrides. A missing file is not an error: defaults
// are used so the tool runs unconfigured in its data repository layout.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			applyEnvOverrides(cfg)
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	return cfg, nil
}

// applyEnvOverrides checks well-known environment variables and overrides
// the corresponding configuration fields when they are set.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("NSEMERGE_INPUT_DIR"); v != "" {
		cfg.Input.Dir = v
	}
	if v := os.Getenv("NSEMERGE_OUTPUT"); v != "" {
		cfg.Output.Path = v
	}
	if v := os.Getenv("NSEMERGE_CATALOG"); v != "" {
		cfg.Catalog.SQLitePath = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
}
