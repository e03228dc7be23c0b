// internal/config/discover.go
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./config.toml"
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "embedarr", "config.toml")
}

// Discover finds the config file using the standard search order.
// Search order:
//  1. EMBEDARR_CONFIG environment variable
//  2. ./config.toml (current directory)
//  3. $XDG_CONFIG_HOME/embedarr/config.toml
//  4. /etc/embedarr/config.toml
func Discover() (string, error) {
	// 1. Check EMBEDARR_CONFIG env var
	if envPath := os.Getenv("EMBEDARR_CONFIG"); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("EMBEDARR_CONFIG=%s: %w", envPath, err)
		}
		return envPath, nil
	}

	// Build search paths
	paths := []string{
		"./config.toml",
		DefaultPath(),
		"/etc/embedarr/config.toml",
	}

	// 2-4. Check each path
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}

	return "", fmt.Errorf("%w, checked: %s", ErrNotFound, strings.Join(paths, ", "))
}

// ErrNotFound is returned by Discover when no config file exists.
var ErrNotFound = errors.New("config not found")

// LoadOrDefault loads the config at path, or the discovered one when path
// is empty. With no file anywhere it returns Defaults.
func LoadOrDefault(path string) (*Config, string, error) {
	if path == "" {
		found, err := Discover()
		if errors.Is(err, ErrNotFound) {
			cfg := Defaults()
			return &cfg, "", nil
		}
		if err != nil {
			return nil, "", err
		}
		path = found
	}
	cfg, err := Load(path)
	return cfg, path, err
}
