// Package config handles XDG configuration directory and file paths.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "taskpad"

	// ConfigFile is the optional settings filename.
	ConfigFile = "config.yaml"

	// SessionFile is the stored session filename.
	SessionFile = "session.json"

	// DefaultServerURL is used when neither the --server flag nor
	// config.yaml names a server.
	DefaultServerURL = "http://localhost:8080"
)

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// ServerURL is the base URL of the task service.
	ServerURL string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool
}

// fileSettings is the on-disk shape of config.yaml.
type fileSettings struct {
	ServerURL string `yaml:"server_url"`
}

// New creates a Config with the default or specified config directory
// and loads config.yaml if it exists. If configDir is empty, uses
// XDG_CONFIG_HOME/taskpad or $HOME/.config/taskpad.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	cfg := &Config{Dir: dir, ServerURL: DefaultServerURL}

	data, err := os.ReadFile(cfg.settingsPath())
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", ConfigFile, err)
	}

	var settings fileSettings
	if err := yaml.Unmarshal(data, &settings); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", ConfigFile, err)
	}
	if settings.ServerURL != "" {
		cfg.ServerURL = settings.ServerURL
	}
	return cfg, nil
}

// DefaultConfigDir returns the default configuration directory.
// Uses XDG_CONFIG_HOME if set, otherwise $HOME/.config.
func DefaultConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName)
	}
	home, err := os.UserHomeDir()
	if err != nil {
		// Fallback to current directory if home can't be determined
		return AppName
	}
	return filepath.Join(home, ".config", AppName)
}

func (c *Config) settingsPath() string {
	return filepath.Join(c.Dir, ConfigFile)
}

// SessionPath returns the path to the stored session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.Dir, SessionFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}
