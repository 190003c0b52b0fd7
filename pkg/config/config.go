/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// Config represents the progress configuration
type Config struct {
	RootDir   string  `yaml:"root_dir"`
	StoreFile string  `yaml:"store_file"`
	Timezone  string  `yaml:"timezone"`
	Logging   Logging `yaml:"logging"`
	History   History `yaml:"history"`
	Server    Server  `yaml:"server"`
}

// Logging contains logging configuration
type Logging struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// History contains configuration of the store snapshot archive
type History struct {
	Enabled bool   `yaml:"enabled"`
	Dir     string `yaml:"dir"`   // relative paths are resolved against RootDir
	Limit   int    `yaml:"limit"` // 0 keeps every snapshot
}

// Server contains configuration of the read-only status API
type Server struct {
	Bind   string `yaml:"bind"`
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key,omitempty"` // empty disables X-API-Key checks
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		RootDir:   defaultRootDir(),
		StoreFile: "progress.store",
		Timezone:  "Local",
		Logging: Logging{
			Level:  "warn",
			Format: "text",
		},
		History: History{
			Enabled: false,
			Dir:     "history",
			Limit:   50,
		},
		Server: Server{
			Bind: "127.0.0.1",
			Port: 8420,
		},
	}
}

func defaultRootDir() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(homeDir, ".local", "share", "progress")
}

// LoadConfig loads configuration from the specified path. Missing fields keep their
// default values.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path
func SaveConfig(config *Config, configPath string) error {
	// Ensure config directory exists
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration, with an optional root directory
func BootstrapConfig(configPath string, rootDir string) (*Config, error) {
	config := DefaultConfig()
	if rootDir != "" {
		config.RootDir = rootDir
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./progress.yaml"
	}

	// For Linux/macOS, use ~/.config/progress/config.yaml
	configDir := filepath.Join(homeDir, ".config", "progress")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}

// Validate checks the configuration for values that cannot work
func (c *Config) Validate() error {
	if c.RootDir == "" {
		return fmt.Errorf("root_dir is required")
	}
	if c.StoreFile == "" || strings.ContainsRune(c.StoreFile, filepath.Separator) {
		return fmt.Errorf("store_file must be a plain file name, got %q", c.StoreFile)
	}
	if _, err := c.Location(); err != nil {
		return err
	}
	if _, err := logrus.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch c.Logging.Format {
	case "", "text", "json":
	default:
		return fmt.Errorf("logging.format must be text or json, got %q", c.Logging.Format)
	}
	if c.History.Limit < 0 {
		return fmt.Errorf("history.limit must not be negative")
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	return nil
}

// StorePath returns the full path of the store file
func (c *Config) StorePath() string {
	return filepath.Join(c.RootDir, c.StoreFile)
}

// HistoryPath returns the directory of the snapshot archive
func (c *Config) HistoryPath() string {
	if filepath.IsAbs(c.History.Dir) {
		return c.History.Dir
	}
	return filepath.Join(c.RootDir, c.History.Dir)
}

// Location resolves the timezone used for calendar-day rules.
// "Local" (or empty) is the system zone, "UTC" is UTC, anything else is an IANA name.
func (c *Config) Location() (*time.Location, error) {
	switch c.Timezone {
	case "", "Local", "local":
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("timezone: %w", err)
	}
	return loc, nil
}
