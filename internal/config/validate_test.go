// internal/config/validate_test.go
package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidate_Defaults(t *testing.T) {
	cfg := Defaults()
	assert.Empty(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   string
	}{
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn: required"},
		{"sqlite without path", func(c *Config) { c.Database.Path = "" }, "database.path: required"},
		{"unknown driver", func(c *Config) { c.Database.Driver = "mongo" }, "database.driver"},
		{"bad level", func(c *Config) { c.Log.Level = "verbose" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"zero chunk", func(c *Config) { c.Batch.Insert.ChunkSize = -1 }, "batch.insert.chunk_size"},
		{"zero concurrency", func(c *Config) { c.Batch.Delete.Concurrency = -2 }, "batch.delete.concurrency"},
		{"long language", func(c *Config) { c.Import.DefaultLanguage = "francais-ca" }, "import.default_language"},
		{"digits in language", func(c *Config) { c.Import.DefaultLanguage = "fr1" }, "letters only"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Defaults()
			tt.modify(&cfg)
			errs := cfg.Validate()
			if assert.NotEmpty(t, errs) {
				assert.Contains(t, errs[0], tt.want)
			}
		})
	}
}
