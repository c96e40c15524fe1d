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
	"github.com/dkoromyslov/tennispipe/internal/pkg/logging"
	"github.com/dkoromyslov/tennispipe/internal/pkg/notify"
	"github.com/dkoromyslov/tennispipe/internal/pkg/pipeline"
	"github.com/dkoromyslov/tennispipe/internal/pkg/storage"
)

const defaultConfigPath = "configs/pipeline.yaml"

type cliFlags struct {
	configPath string
	stage      string
}

func main() {
	if err := run(); err != nil {
		slog.Error("Pipeline failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	flags := parseFlags()

	appConfig, err := loadConfig(flags.configPath)
	if err != nil {
		return err
	}
	logging.SetupLogger(&appConfig.Logging, "pipeline")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	setupSignalHandler(cancel)

	p := pipeline.New(appConfig)

	if appConfig.Postgres.DSN != "" {
		snapshots, err := storage.NewPostgresSnapshotStorage(&appConfig.Postgres)
		if err != nil {
			return fmt.Errorf("failed to init postgres snapshots: %w", err)
		}
		defer snapshots.Close()
		p.Snapshots = snapshots
	}

	switch flags.stage {
	case "all":
		res, err := p.Run(ctx)
		if err != nil {
			return err
		}
		notifyRun(appConfig, res)
		return nil
	case "process":
		_, err := p.RunProcess(ctx)
		return err
	case "combine":
		_, err := p.RunCombine(ctx)
		return err
	case "features":
		_, err := p.RunFeatures()
		return err
	default:
		return fmt.Errorf("unknown stage %q (want all, process, combine or features)", flags.stage)
	}
}

func parseFlags() cliFlags {
	var flags cliFlags
	flag.StringVar(&flags.configPath, "config", defaultConfigPath, "path to config file")
	flag.StringVar(&flags.stage, "stage", "all", "stage to run: all, process, combine, features")
	flag.Parse()
	return flags
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

func setupSignalHandler(cancel context.CancelFunc) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		slog.Info("Received signal, shutting down", "signal", sig)
		cancel()
	}()
}

func notifyRun(appConfig *config.Config, res *pipeline.Result) {
	if appConfig.Telegram.BotToken == "" {
		return
	}
	notifier, err := notify.NewTelegramNotifier(appConfig.Telegram.BotToken, appConfig.Telegram.ChatID)
	if err != nil {
		slog.Warn("Failed to create telegram notifier", "error", err)
		return
	}
	summary := notify.RunSummary{
		Participants: res.Participants,
		Matches:      res.Matches,
		Combined:     res.Combined,
		Features:     res.Features,
		Duration:     res.Duration,
		OutputDir:    appConfig.Data.ProcessedDir,
	}
	if err := notifier.SendRunSummary(summary); err != nil {
		slog.Warn("Failed to send run summary", "error", err)
	}
}
