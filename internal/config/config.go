package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/AI2HU/geolens/internal/models"
)

// Config represents the application configuration
type Config struct {
	SQLDatabase   DatabaseConfig `yaml:"sql_database"`   // SQLite for projects, prompts, schedules and LLMs
	NoSQLDatabase DatabaseConfig `yaml:"nosql_database"` // MongoDB for scan records
	Server        ServerConfig   `yaml:"server"`
	LogLevel      string         `yaml:"log_level,omitempty"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// ServerConfig represents the API server configuration
type ServerConfig struct {
	Addr       string `yaml:"addr"`
	CORSOrigin string `yaml:"cors_origin,omitempty"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SQLDatabase: DatabaseConfig{
			Provider: "sqlite",
			URI:      "geolens.db",
			Database: "geolens",
		},
		NoSQLDatabase: DatabaseConfig{
			Provider: "mongodb",
			URI:      "mongodb://localhost:27017",
			Database: "geolens",
		},
		Server: ServerConfig{
			Addr: ":8080",
		},
	}
}

// Load loads configuration from file
func Load(path string) (*Config, error) {
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

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".geolens/config.yaml"
	}
	return filepath.Join(home, ".geolens", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// ToModel converts a database config section into the store-level config
func (d DatabaseConfig) ToModel() *models.Config {
	return &models.Config{
		Provider: d.Provider,
		URI:      d.URI,
		Database: d.Database,
		Options:  d.Options,
	}
}
