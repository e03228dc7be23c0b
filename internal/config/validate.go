// internal/config/validate.go
package config

import (
	"fmt"
	"unicode"
)

var validLogLevels = map[string]bool{
	"debug": true, "info": true, "warn": true, "error": true,
}

var validLogFormats = map[string]bool{
	"text": true, "json": true,
}

const maxChunkSize = 1000

// Validate checks the configuration for errors.
// Returns a slice of error messages (empty if valid).
func (c *Config) Validate() []string {
	var errs []string

	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			errs = append(errs, "database.path: required for sqlite")
		}
	case "postgres":
		if c.Database.DSN == "" {
			errs = append(errs, "database.dsn: required for postgres")
		}
	default:
		errs = append(errs, fmt.Sprintf("database.driver: must be one of sqlite, postgres; got %q", c.Database.Driver))
	}

	if !validLogLevels[c.Log.Level] {
		errs = append(errs, fmt.Sprintf("log.level: must be one of debug, info, warn, error; got %q", c.Log.Level))
	}
	if !validLogFormats[c.Log.Format] {
		errs = append(errs, fmt.Sprintf("log.format: must be one of text, json; got %q", c.Log.Format))
	}

	errs = append(errs, c.Batch.Insert.validate("batch.insert")...)
	errs = append(errs, c.Batch.Delete.validate("batch.delete")...)

	lang := c.Import.DefaultLanguage
	if len(lang) > 8 {
		errs = append(errs, fmt.Sprintf("import.default_language: at most 8 letters, got %q", lang))
	}
	for _, r := range lang {
		if !unicode.IsLetter(r) {
			errs = append(errs, fmt.Sprintf("import.default_language: letters only, got %q", lang))
			break
		}
	}

	return errs
}

func (c ChunkConfig) validate(prefix string) []string {
	var errs []string
	if c.ChunkSize < 1 || c.ChunkSize > maxChunkSize {
		errs = append(errs, fmt.Sprintf("%s.chunk_size: must be between 1 and %d, got %d", prefix, maxChunkSize, c.ChunkSize))
	}
	if c.Concurrency < 1 {
		errs = append(errs, fmt.Sprintf("%s.concurrency: must be at least 1, got %d", prefix, c.Concurrency))
	}
	return errs
}
