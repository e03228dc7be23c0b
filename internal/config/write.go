// internal/config/write.go
package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

//go:embed default_config.toml
var defaultConfig string

// ErrExists is returned when a write would replace an existing file.
var ErrExists = errors.New("config file already exists")

// WriteDefault writes the commented example config to path, creating parent
// directories. An existing file is only replaced when overwrite is set.
func WriteDefault(path string, overwrite bool) error {
	return writeFile(path, []byte(defaultConfig), overwrite)
}

// Write serializes c to TOML at path. Env references are not preserved, so
// the file records the values in effect.
func (c *Config) Write(path string, overwrite bool) error {
	var buf bytes.Buffer
	buf.WriteString("# embedarr configuration (resolved)\n\n")
	if err := toml.NewEncoder(&buf).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return writeFile(path, buf.Bytes(), overwrite)
}

// writeFile replaces path through a temp file in the same directory so a
// crash never leaves a half-written config behind.
func writeFile(path string, data []byte, overwrite bool) error {
	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, ".config-*.toml")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0644); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
