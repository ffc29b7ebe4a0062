// Package config loads application configuration from an optional YAML
// file, then environment variables, then defaults. Credentials only ever
// come from the environment so the optional collaborators can be disabled
// by simply not setting them.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"usd2rials/scraper"
)

// Config holds all settings for one update run.
type Config struct {
	SourceURL           string `yaml:"source_url"`
	FetchTimeoutSeconds int    `yaml:"fetch_timeout_seconds"`

	StorePath         string `yaml:"store_path"`
	ReadmePath        string `yaml:"readme_path"`
	FullExportPath    string `yaml:"full_export_path"`
	MinimalExportPath string `yaml:"minimal_export_path"`

	// Environment only, never from the file.
	GitHubToken      string `yaml:"-"`
	TelegramBotToken string `yaml:"-"`
	TelegramChatID   string `yaml:"-"`
}

// Load reads the YAML file at path when it exists, applies environment
// overrides and fills in defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("SOURCE_URL"); v != "" {
		cfg.SourceURL = v
	}
	if v := os.Getenv("STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = os.Getenv("TELEGRAM_CHAT_ID")

	if cfg.SourceURL == "" {
		cfg.SourceURL = scraper.DefaultURL
	}
	if cfg.FetchTimeoutSeconds == 0 {
		cfg.FetchTimeoutSeconds = 30
	}
	if cfg.StorePath == "" {
		cfg.StorePath = "USD2Rials.csv"
	}
	if cfg.ReadmePath == "" {
		cfg.ReadmePath = "README.md"
	}
	if cfg.FullExportPath == "" {
		cfg.FullExportPath = "USD2Rials.json"
	}
	if cfg.MinimalExportPath == "" {
		cfg.MinimalExportPath = "USD2Rials.min.json"
	}

	return cfg, nil
}

// FetchTimeout returns the bounded timeout for the primary fetch.
func (c *Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSeconds) * time.Second
}

// Validate checks the fields every run needs. Credentials are optional;
// their absence only disables the matching collaborator.
func (c *Config) Validate() error {
	if c.SourceURL == "" {
		return fmt.Errorf("source_url is required")
	}
	if c.FetchTimeoutSeconds <= 0 {
		return fmt.Errorf("fetch_timeout_seconds must be positive")
	}
	if c.StorePath == "" {
		return fmt.Errorf("store_path is required")
	}
	return nil
}
