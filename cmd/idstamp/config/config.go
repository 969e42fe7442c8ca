// Package config holds presentation preferences for the idstamp CLI.
// Nothing in here influences the data contract: the id field name, output
// path derivation and JSON formatting are compile-time constants.
package config

import (
	"os"
	"path/filepath"

	"github.com/cybergodev/json"
)

// Config holds user preferences.
type Config struct {
	Theme string `json:"theme"` // "light" or "dark"
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme: "light",
	}
}

// ConfigDir returns the directory where config is stored. IDSTAMP_CONFIG_DIR
// overrides the home-level default.
func ConfigDir() (string, error) {
	if dir := os.Getenv("IDSTAMP_CONFIG_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".idstamp"), nil
}

// ConfigFile returns the full path to the config file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk. A missing or unreadable file
// yields the defaults; preferences are best-effort.
func Load() (Config, error) {
	path, err := ConfigFile()
	if err != nil {
		return DefaultConfig(), err
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return DefaultConfig(), err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DefaultConfig(), err
	}
	if cfg.Theme != "dark" {
		cfg.Theme = "light"
	}
	return cfg, nil
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	path, err := ConfigFile()
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
