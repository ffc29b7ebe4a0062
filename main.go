package main

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"usd2rials/config"
	"usd2rials/export"
	"usd2rials/notifier"
	"usd2rials/publish"
	"usd2rials/scraper"
	"usd2rials/services"
	"usd2rials/store"
)

// Exit is non-zero only when the fetch or the archive append fails;
// publication and notification problems are logged and swallowed.
func main() {
	setupLogging()

	// Local runs keep credentials in a .env file; in CI they come from
	// the environment directly.
	if err := godotenv.Load(); err == nil {
		logrus.Debug("loaded .env")
	}

	cfgPath := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatalf("config validation: %v", err)
	}

	updater := &services.Updater{
		Fetcher:    scraper.New(cfg.SourceURL, cfg.FetchTimeout()),
		Store:      store.New(cfg.StorePath),
		Exporter:   export.New(cfg.FullExportPath, cfg.MinimalExportPath),
		ReadmePath: cfg.ReadmePath,
		Release: publish.NewReleasePublisher(
			cfg.GitHubToken, cfg.StorePath, cfg.FullExportPath, cfg.MinimalExportPath),
		Notifier: notifier.NewTelegram(
			cfg.TelegramBotToken, cfg.TelegramChatID, cfg.StorePath, cfg.FullExportPath),
	}

	if err := updater.Run(); err != nil {
		logrus.Errorf("update run failed: %v", err)
		os.Exit(1)
	}
	logrus.Info("update run finished")
}

func setupLogging() {
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if lvl, err := logrus.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil {
		logrus.SetLevel(lvl)
	}
}
