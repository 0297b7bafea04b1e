package config

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
)

//go:embed config.toml.sample
var configTemplate string

const defaultAPIVersion = "58.0"

type Config struct {
	InstanceURL  string `toml:"instance_url"`
	SessionToken string `toml:"session_token"`
	APIVersion   string `toml:"api_version"`
	OutputDir    string `toml:"output_dir"`
}

func GetDefaultConfig() *Config {
	return &Config{
		APIVersion: defaultAPIVersion,
		OutputDir:  "./salesforce-logs",
	}
}

// LoadConfig reads the TOML config at configPath, falling back to defaults
// when the file does not exist. Environment variables SF_INSTANCE_URL,
// SF_SESSION_TOKEN and SF_API_VERSION override file values, so a token can
// be supplied per shell session without persisting it to disk.
func LoadConfig(configPath string) (*Config, error) {
	config := GetDefaultConfig()

	if _, err := os.Stat(configPath); err == nil {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("unmarshaling config: %w", err)
		}
	}

	if v := os.Getenv("SF_INSTANCE_URL"); v != "" {
		config.InstanceURL = v
	}
	if v := os.Getenv("SF_SESSION_TOKEN"); v != "" {
		config.SessionToken = v
	}
	if v := os.Getenv("SF_API_VERSION"); v != "" {
		config.APIVersion = v
	}

	if config.APIVersion == "" {
		config.APIVersion = defaultAPIVersion
	}
	if config.OutputDir == "" {
		config.OutputDir = "./salesforce-logs"
	}

	return config, nil
}

// Validate checks that the credentials needed for any remote call are set.
func (c *Config) Validate() error {
	if c.InstanceURL == "" {
		return fmt.Errorf("instance_url is not set (config file or SF_INSTANCE_URL)")
	}
	if c.SessionToken == "" {
		return fmt.Errorf("session_token is not set (config file or SF_SESSION_TOKEN)")
	}
	return nil
}

// SaveTemplateConfig writes the commented sample config at configPath.
func SaveTemplateConfig(configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return os.WriteFile(configPath, []byte(configTemplate), 0600)
}

// GetConfigDir returns the configuration directory, honoring XDG_CONFIG_HOME.
func GetConfigDir() (string, error) {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("getting user home directory: %w", err)
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	dir := filepath.Join(configDir, "sf-log-downloader")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("creating config directory %s: %w", dir, err)
	}
	return dir, nil
}

// GetDefaultConfigPath returns the default configuration file path.
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}
