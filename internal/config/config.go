// Package config manages the clipvault YAML configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the clipvault configuration.
type Config struct {
	// HistoryLimit caps the non-pinned entry count.
	HistoryLimit int `yaml:"history_limit"`

	// PollIntervalMS is the clipboard poll period in milliseconds.
	PollIntervalMS int `yaml:"poll_interval_ms"`

	// SaveQuietMS is the debounce quiet period in milliseconds.
	SaveQuietMS int `yaml:"save_quiet_ms"`

	// HistoryLocation overrides the encrypted history file path. Empty
	// means the default under the config directory.
	HistoryLocation string `yaml:"history_location,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		HistoryLimit:   100,
		PollIntervalMS: 500,
		SaveQuietMS:    300,
	}
}

// PollInterval returns the poll period as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMS) * time.Millisecond
}

// SaveQuiet returns the debounce quiet period as a duration.
func (c *Config) SaveQuiet() time.Duration {
	return time.Duration(c.SaveQuietMS) * time.Millisecond
}

// Manager handles configuration persistence.
type Manager struct {
	configPath string
}

// NewManager creates a configuration manager rooted at
// ~/.config/clipvault/config.yaml.
func NewManager() (*Manager, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}

	configDir := filepath.Join(homeDir, ".config", "clipvault")
	return &Manager{configPath: filepath.Join(configDir, "config.yaml")}, nil
}

// NewManagerWithPath creates a manager with a custom config path.
func NewManagerWithPath(configPath string) *Manager {
	return &Manager{configPath: configPath}
}

// Load reads the configuration from file, or returns the default if the
// file doesn't exist.
func (m *Manager) Load() (*Config, error) {
	if _, err := os.Stat(m.configPath); os.IsNotExist(err) {
		return DefaultConfig(), nil
	}

	data, err := os.ReadFile(m.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := validateAndSetDefaults(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Save writes the configuration to file.
func (m *Manager) Save(config *Config) error {
	if err := validateAndSetDefaults(config); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	configDir := filepath.Dir(m.configPath)
	if err := os.MkdirAll(configDir, 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(m.configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// validateAndSetDefaults validates the configuration and fills defaults for
// missing fields.
func validateAndSetDefaults(config *Config) error {
	if config.HistoryLimit == 0 {
		config.HistoryLimit = DefaultConfig().HistoryLimit
	}
	if config.HistoryLimit < 0 {
		return fmt.Errorf("history_limit must be greater than 0")
	}
	if config.HistoryLimit > 1000 {
		return fmt.Errorf("history_limit cannot exceed 1000 items")
	}

	if config.PollIntervalMS == 0 {
		config.PollIntervalMS = DefaultConfig().PollIntervalMS
	}
	if config.PollIntervalMS < 50 {
		return fmt.Errorf("poll_interval_ms must be at least 50")
	}

	if config.SaveQuietMS == 0 {
		config.SaveQuietMS = DefaultConfig().SaveQuietMS
	}
	if config.SaveQuietMS < 0 {
		return fmt.Errorf("save_quiet_ms must be greater than 0")
	}

	return nil
}

// GetConfigPath returns the path to the config file.
func (m *Manager) GetConfigPath() string {
	return m.configPath
}

// HistoryPath resolves the encrypted history file location for the given
// configuration: the override when set, otherwise history.enc beside the
// config file.
func (m *Manager) HistoryPath(config *Config) string {
	if config.HistoryLocation != "" {
		if filepath.IsAbs(config.HistoryLocation) {
			return config.HistoryLocation
		}
		return filepath.Join(filepath.Dir(m.configPath), config.HistoryLocation)
	}
	return filepath.Join(filepath.Dir(m.configPath), "history.enc")
}

// Update modifies a specific configuration value.
func (m *Manager) Update(key, value string) error {
	config, err := m.Load()
	if err != nil {
		return err
	}

	switch key {
	case "history-limit":
		limit, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for history-limit: %s", value)
		}
		config.HistoryLimit = limit
	case "poll-interval-ms":
		interval, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for poll-interval-ms: %s", value)
		}
		config.PollIntervalMS = interval
	case "save-quiet-ms":
		quiet, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for save-quiet-ms: %s", value)
		}
		config.SaveQuietMS = quiet
	case "history-location":
		config.HistoryLocation = value
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}

	return m.Save(config)
}

// Get returns the value for a specific configuration key.
func (m *Manager) Get(key string) (string, error) {
	config, err := m.Load()
	if err != nil {
		return "", err
	}

	switch key {
	case "history-limit":
		return strconv.Itoa(config.HistoryLimit), nil
	case "poll-interval-ms":
		return strconv.Itoa(config.PollIntervalMS), nil
	case "save-quiet-ms":
		return strconv.Itoa(config.SaveQuietMS), nil
	case "history-location":
		if config.HistoryLocation == "" {
			return "[default]", nil
		}
		return config.HistoryLocation, nil
	default:
		return "", fmt.Errorf("unknown configuration key: %s", key)
	}
}

// List returns all configuration keys and values.
func (m *Manager) List() (map[string]string, error) {
	config, err := m.Load()
	if err != nil {
		return nil, err
	}

	result := map[string]string{
		"history-limit":    strconv.Itoa(config.HistoryLimit),
		"poll-interval-ms": strconv.Itoa(config.PollIntervalMS),
		"save-quiet-ms":    strconv.Itoa(config.SaveQuietMS),
		"history-location": config.HistoryLocation,
	}

	if result["history-location"] == "" {
		result["history-location"] = "[default]"
	}

	return result, nil
}
