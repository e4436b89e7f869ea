// Package config handles XDG configuration directory, file paths and the
// optional config.yaml settings file.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application directory name.
	AppName = "tasky"

	// OAuthClientFile is the OAuth client credentials filename.
	OAuthClientFile = "oauth_client.json"

	// TokenFile is the stored OAuth token filename.
	TokenFile = "token.json"

	// SettingsFile is the optional YAML settings filename.
	SettingsFile = "config.yaml"

	// DatabaseFile is the default local backend database filename.
	DatabaseFile = "tasks.db"
)

// Backends.
const (
	BackendGoogle = "google"
	BackendLocal  = "local"
)

// Token stores.
const (
	TokenStoreFile    = "file"
	TokenStoreKeyring = "keyring"
)

// Settings holds the values read from config.yaml.
type Settings struct {
	Backend    string `yaml:"backend"`
	Color      bool   `yaml:"color"`
	TaskList   int    `yaml:"tasklist"`
	Database   string `yaml:"database"`
	TokenStore string `yaml:"token_store"`
}

// DefaultSettings returns the settings used when config.yaml is absent.
func DefaultSettings() Settings {
	return Settings{
		Backend:    BackendGoogle,
		Color:      true,
		TokenStore: TokenStoreFile,
	}
}

// Config holds configuration paths and settings.
type Config struct {
	// Dir is the configuration directory path.
	Dir string

	// Debug enables debug logging.
	Debug bool

	// Quiet suppresses informational output.
	Quiet bool

	// ListSelected is set when the task list was chosen on the command
	// line rather than taken from config.yaml.
	ListSelected bool

	Settings Settings
}

// New creates a new Config with the default or specified config directory.
// If configDir is empty, uses XDG_CONFIG_HOME/tasky or $HOME/.config/tasky.
// Settings start at their defaults; call Load to read config.yaml.
func New(configDir string) (*Config, error) {
	dir := configDir
	if dir == "" {
		dir = DefaultConfigDir()
	}
	return &Config{Dir: dir, Settings: DefaultSettings()}, nil
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

// Load reads config.yaml from the config directory. A missing file
// leaves the defaults in place.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.SettingsPath())
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", SettingsFile, err)
	}

	s := DefaultSettings()
	if err := yaml.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("invalid YAML in %s: %w", SettingsFile, err)
	}
	if err := s.Validate(); err != nil {
		return fmt.Errorf("%s: %w", SettingsFile, err)
	}
	c.Settings = s
	return nil
}

// Validate checks the settings values.
func (s Settings) Validate() error {
	switch s.Backend {
	case BackendGoogle, BackendLocal:
	default:
		return fmt.Errorf("unknown backend: %q (must be %q or %q)", s.Backend, BackendGoogle, BackendLocal)
	}
	switch s.TokenStore {
	case TokenStoreFile, TokenStoreKeyring:
	default:
		return fmt.Errorf("unknown token_store: %q (must be %q or %q)", s.TokenStore, TokenStoreFile, TokenStoreKeyring)
	}
	if s.TaskList < 0 {
		return fmt.Errorf("tasklist must not be negative, got %d", s.TaskList)
	}
	return nil
}

// SettingsPath returns the path to config.yaml.
func (c *Config) SettingsPath() string {
	return filepath.Join(c.Dir, SettingsFile)
}

// DatabasePath returns the local backend database path. Relative paths
// are taken relative to the config directory.
func (c *Config) DatabasePath() string {
	p := c.Settings.Database
	if p == "" {
		return filepath.Join(c.Dir, DatabaseFile)
	}
	if !filepath.IsAbs(p) {
		return filepath.Join(c.Dir, p)
	}
	return p
}

// OAuthClientPath returns the path to the OAuth client credentials file.
func (c *Config) OAuthClientPath() string {
	return filepath.Join(c.Dir, OAuthClientFile)
}

// TokenPath returns the path to the stored OAuth token file.
func (c *Config) TokenPath() string {
	return filepath.Join(c.Dir, TokenFile)
}

// EnsureDir creates the config directory if it doesn't exist.
// Directory is created with mode 0700.
func (c *Config) EnsureDir() error {
	return os.MkdirAll(c.Dir, 0700)
}

// HasOAuthClient checks if the OAuth client credentials file exists.
func (c *Config) HasOAuthClient() bool {
	_, err := os.Stat(c.OAuthClientPath())
	return err == nil
}
