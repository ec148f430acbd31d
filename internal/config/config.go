package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const (
	MinDelay = 0
	MaxDelay = 3600
)

// Config represents the main application configuration
type Config struct {
	BindAddress string            `toml:"bind_address"`
	Delay       int               `toml:"delay"`
	Loglevel    string            `toml:"loglevel"`
	Password    string            `toml:"password"`
	Port        int               `toml:"port"`
	Username    string            `toml:"username"`
	QBittorrent QBittorrentConfig `toml:"qbittorrent"`
}

// QBittorrentConfig holds the qBittorrent WebUI connection settings
type QBittorrentConfig struct {
	URL      string `toml:"url"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		BindAddress: "0.0.0.0",
		Delay:       3,
		Loglevel:    "info",
		Port:        9092,
	}
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "qbreannounce")

	return filepath.Join(configDir, "config.toml"), nil
}

// Load loads configuration from a TOML file
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if _, err := toml.Decode(string(data), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.QBittorrent.URL == "" {
		return fmt.Errorf("qbittorrent.url is required")
	}
	parsed, err := url.ParseRequestURI(c.QBittorrent.URL)
	if err != nil {
		return fmt.Errorf("qbittorrent.url is invalid: %v", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("qbittorrent.url must use http or https, got %q", parsed.Scheme)
	}
	if c.QBittorrent.Username == "" {
		return fmt.Errorf("qbittorrent.username is required")
	}
	if c.QBittorrent.Password == "" {
		return fmt.Errorf("qbittorrent.password is required")
	}

	if c.Delay < MinDelay || c.Delay > MaxDelay {
		return fmt.Errorf("delay must be between %d and %d seconds", MinDelay, MaxDelay)
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535")
	}
	if _, err := logrus.ParseLevel(c.Loglevel); err != nil {
		return fmt.Errorf("loglevel must be one of: panic, fatal, error, warn, info, debug, trace")
	}

	// Basic auth on the trigger server is all or nothing.
	if (c.Username == "") != (c.Password == "") {
		return fmt.Errorf("username and password must be set together")
	}

	return nil
}

// AuthEnabled reports whether the HTTP trigger requires basic auth.
func (c *Config) AuthEnabled() bool {
	return c.Username != "" && c.Password != ""
}
