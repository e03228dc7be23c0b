// Package config handles TOML configuration loading with environment variable substitution.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/vmunix/embedarr/internal/batch"
)

// Config is the root configuration structure.
type Config struct {
	Database DatabaseConfig `toml:"database"`
	Log      LogConfig      `toml:"log"`
	Batch    BatchConfig    `toml:"batch"`
	Import   ImportConfig   `toml:"import"`
	Metrics  MetricsConfig  `toml:"metrics"`
}

type DatabaseConfig struct {
	Driver string `toml:"driver"` // "sqlite" or "postgres"
	Path   string `toml:"path"`   // sqlite
	DSN    string `toml:"dsn"`    // postgres
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

type BatchConfig struct {
	Insert ChunkConfig `toml:"insert"`
	Delete ChunkConfig `toml:"delete"`
}

type ChunkConfig struct {
	ChunkSize   int `toml:"chunk_size"`
	Concurrency int `toml:"concurrency"`
}

// Options converts c to executor options.
func (c ChunkConfig) Options() batch.Options {
	return batch.Options{ChunkSize: c.ChunkSize, MaxConcurrentChunks: c.Concurrency}
}

type ImportConfig struct {
	DefaultLanguage string `toml:"default_language"`
}

type MetricsConfig struct {
	Textfile string `toml:"textfile"` // node_exporter textfile path, empty to disable
}

// Defaults returns the configuration used for unset fields.
func Defaults() Config {
	return Config{
		Database: DatabaseConfig{Driver: "sqlite", Path: "./data/embedarr.db"},
		Log:      LogConfig{Level: "info", Format: "text"},
		Batch: BatchConfig{
			Insert: ChunkConfig{ChunkSize: 50, Concurrency: 1},
			Delete: ChunkConfig{ChunkSize: 100, Concurrency: 3},
		},
		Import: ImportConfig{DefaultLanguage: "vostfr"},
	}
}

// Load reads, substitutes and validates the configuration file.
// Missing environment variables and validation failures are reported
// together in a *ConfigError.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	content, missing := substituteEnvVars(string(data))

	cfg := Defaults()
	if _, err := toml.Decode(content, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()

	cfgErr := &ConfigError{Path: path, Missing: missing, Errors: cfg.Validate()}
	if cfgErr.HasErrors() {
		return nil, cfgErr
	}
	return &cfg, nil
}

// applyDefaults fills fields an explicit empty value left blank.
func (c *Config) applyDefaults() {
	def := Defaults()
	c.Database.Driver = strings.ToLower(c.Database.Driver)
	if c.Database.Driver == "" {
		c.Database.Driver = def.Database.Driver
	}
	if c.Database.Driver == "sqlite" && c.Database.Path == "" {
		c.Database.Path = def.Database.Path
	}
	if c.Log.Level == "" {
		c.Log.Level = def.Log.Level
	}
	if c.Log.Format == "" {
		c.Log.Format = def.Log.Format
	}
	if c.Batch.Insert.ChunkSize == 0 {
		c.Batch.Insert.ChunkSize = def.Batch.Insert.ChunkSize
	}
	if c.Batch.Insert.Concurrency == 0 {
		c.Batch.Insert.Concurrency = def.Batch.Insert.Concurrency
	}
	if c.Batch.Delete.ChunkSize == 0 {
		c.Batch.Delete.ChunkSize = def.Batch.Delete.ChunkSize
	}
	if c.Batch.Delete.Concurrency == 0 {
		c.Batch.Delete.Concurrency = def.Batch.Delete.Concurrency
	}
	c.Import.DefaultLanguage = strings.ToLower(c.Import.DefaultLanguage)
}
