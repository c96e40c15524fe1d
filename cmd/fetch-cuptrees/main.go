package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dkoromyslov/tennispipe/internal/pkg/config"
	"github.com/dkoromyslov/tennispipe/internal/pkg/fetch"
	"github.com/dkoromyslov/tennispipe/internal/pkg/logging"
)

const defaultConfigPath = "configs/pipeline.yaml"

func main() {
	if err := run(); err != nil {
		slog.Error("Fetch failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", defaultConfigPath, "path to config file")
	maxTournaments := flag.Int("max-tournaments", 0, "override fetch.max_tournaments from config")
	flag.Parse()

	appConfig, err := loadConfig(*configPath)
	if err != nil {
		return err
	}
	logging.SetupLogger(&appConfig.Logging, "fetch-cuptrees")

	limit := appConfig.Fetch.MaxTournaments
	if *maxTournaments > 0 {
		limit = *maxTournaments
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()

	client := fetch.NewClient(appConfig.Fetch.BaseURL, appConfig.Fetch.Timeout)
	fetcher := fetch.NewFetcher(client, appConfig.Data.RawDir, appConfig.Fetch.Category)

	slog.Info("Starting cup tree fetch",
		"base_url", appConfig.Fetch.BaseURL,
		"category", appConfig.Fetch.Category,
		"max_tournaments", limit)
	return fetcher.FetchAll(ctx, limit)
}

func loadConfig(path string) (*config.Config, error) {
	if path == defaultConfigPath {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			slog.Info("No config file found, using defaults")
			return config.Default(), nil
		}
	}
	appConfig, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return appConfig, nil
}
