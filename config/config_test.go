package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"usd2rials/scraper"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SourceURL != scraper.DefaultURL {
		t.Errorf("SourceURL = %q", cfg.SourceURL)
	}
	if cfg.StorePath != "USD2Rials.csv" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
	if cfg.FetchTimeout() != 30*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults must validate: %v", err)
	}
}

func TestLoadFileAndEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yaml := "source_url: https://example.com/history\nfetch_timeout_seconds: 10\nstore_path: data/archive.csv\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("STORE_PATH", "other.csv")
	t.Setenv("GITHUB_TOKEN", "gh-token")
	t.Setenv("TELEGRAM_BOT_TOKEN", "bot-token")
	t.Setenv("TELEGRAM_CHAT_ID", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SourceURL != "https://example.com/history" {
		t.Errorf("SourceURL = %q", cfg.SourceURL)
	}
	if cfg.FetchTimeoutSeconds != 10 {
		t.Errorf("FetchTimeoutSeconds = %d", cfg.FetchTimeoutSeconds)
	}
	if cfg.StorePath != "other.csv" {
		t.Errorf("env override lost: StorePath = %q", cfg.StorePath)
	}
	if cfg.GitHubToken != "gh-token" || cfg.TelegramBotToken != "bot-token" || cfg.TelegramChatID != "42" {
		t.Error("credentials not read from environment")
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(":::"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected error for malformed yaml")
	}
}

func TestValidate(t *testing.T) {
	cfg := &Config{SourceURL: "u", FetchTimeoutSeconds: 30, StorePath: "s"}
	if err := cfg.Validate(); err != nil {
		t.Errorf("valid config rejected: %v", err)
	}

	bad := *cfg
	bad.FetchTimeoutSeconds = 0
	if err := bad.Validate(); err == nil {
		t.Error("zero timeout accepted")
	}

	bad = *cfg
	bad.SourceURL = ""
	if err := bad.Validate(); err == nil {
		t.Error("empty source url accepted")
	}
}
