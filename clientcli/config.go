package clientcli

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"

	"github.com/manifoldco/promptui"
	"gopkg.in/yaml.v3"
)

// Config holds the client's connection settings, persisted as YAML.
type Config struct {
	Endpoint string `yaml:"endpoint"`
}

// DefaultConfigPath returns the default config file location under the
// user's config directory.
func DefaultConfigPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve config dir: %w", err)
	}
	return filepath.Join(dir, "memecat", "config.yaml"), nil
}

// LoadConfig reads the config file at path. A missing file yields an empty
// config, not an error.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //#nosec G304 -- path is user-provided input
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

// SaveConfig writes the config to path, creating parent directories as
// needed.
func (c *Config) SaveConfig(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// Configure interactively prompts for connection settings and stores the
// answers in the config.
func (c *Config) Configure() error {
	prompt := promptui.Prompt{
		Label:   "Catalog endpoint",
		Default: c.Endpoint,
		Validate: func(input string) error {
			u, err := url.Parse(input)
			if err != nil || u.Scheme == "" || u.Host == "" {
				return errors.New("enter a full URL, e.g. http://localhost:8000")
			}
			return nil
		},
	}

	endpoint, err := prompt.Run()
	if err != nil {
		return fmt.Errorf("prompt: %w", err)
	}

	c.Endpoint = endpoint
	return nil
}
