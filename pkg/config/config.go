package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config represents the purplerepo configuration
type Config struct {
	GitHub   GitHubConfig   `yaml:"github"`
	Registry RegistryConfig `yaml:"registry"`
}

// GitHubConfig represents GitHub API access configuration
type GitHubConfig struct {
	Token string `yaml:"token"`
}

// RegistryConfig represents registry diff settings
type RegistryConfig struct {
	File         string `yaml:"file"`
	MaxChanges   int    `yaml:"max_changes"`
	EnforceLimit bool   `yaml:"enforce_limit"`
}

// DefaultRegistryFile is the registry document path used when none is
// configured.
const DefaultRegistryFile = "repo-list.yaml"

// LoadConfig loads configuration from the default location
func LoadConfig() (*Config, error) {
	configPath, err := GetConfigPath()
	if err != nil {
		return nil, err
	}

	return LoadConfigFromPath(configPath)
}

// LoadConfigFromPath loads configuration from a specific path
func LoadConfigFromPath(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil // Return empty config if file doesn't exist
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return &config, nil
}

// SaveConfig saves configuration to the default location
func (c *Config) SaveConfig() error {
	configPath, err := GetConfigPath()
	if err != nil {
		return err
	}

	return c.SaveConfigToPath(configPath)
}

// SaveConfigToPath saves configuration to a specific path
func (c *Config) SaveConfigToPath(path string) error {
	// Create config directory if it doesn't exist
	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default configuration file path
func GetConfigPath() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	return filepath.Join(homeDir, ".purplerepo", "config.yaml"), nil
}

// GitHubToken resolves the GitHub API token with a single precedence
// order: GITHUB_TOKEN environment variable first, config file second.
func (c *Config) GitHubToken() (string, error) {
	if token := os.Getenv("GITHUB_TOKEN"); token != "" {
		return strings.TrimSpace(token), nil
	}

	if c != nil && c.GitHub.Token != "" {
		return strings.TrimSpace(c.GitHub.Token), nil
	}

	return "", fmt.Errorf("no GitHub token found: set GITHUB_TOKEN environment variable or configure github.token in ~/.purplerepo/config.yaml")
}

// RegistryFile returns the configured registry document path, falling back
// to the default.
func (c *Config) RegistryFile() string {
	if c != nil && c.Registry.File != "" {
		return c.Registry.File
	}
	return DefaultRegistryFile
}
