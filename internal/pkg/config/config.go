package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Data     DataConfig     `yaml:"data"`
	Logging  LoggingConfig  `yaml:"logging"`
	Postgres PostgresConfig `yaml:"postgres"`
	Telegram TelegramConfig `yaml:"telegram"`
	Fetch    FetchConfig    `yaml:"fetch"`
}

type DataConfig struct {
	RawDir       string `yaml:"raw_dir"`
	ProcessedDir string `yaml:"processed_dir"`
	// BirthdateSeed seeds the synthetic birthdate generator. Keep it fixed
	// across runs so the output tables stay reproducible.
	BirthdateSeed int64 `yaml:"birthdate_seed"`
}

type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error
}

type PostgresConfig struct {
	// DSN enables the postgres snapshot sink when set.
	DSN string `yaml:"dsn"`
}

type TelegramConfig struct {
	// BotToken enables the run-summary notification when set.
	BotToken string `yaml:"bot_token"`
	ChatID   int64  `yaml:"chat_id"`
}

type FetchConfig struct {
	BaseURL        string        `yaml:"base_url"`
	Category       string        `yaml:"category"` // tour category filter, e.g. "ATP"
	Timeout        time.Duration `yaml:"timeout"`
	MaxTournaments int           `yaml:"max_tournaments"`
}

func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.applyDefaults()
	return &config, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	config := &Config{}
	config.applyDefaults()
	return config
}

func (c *Config) applyDefaults() {
	if c.Data.RawDir == "" {
		c.Data.RawDir = "data/raw"
	}
	if c.Data.ProcessedDir == "" {
		c.Data.ProcessedDir = "data/processed"
	}
	if c.Data.BirthdateSeed == 0 {
		c.Data.BirthdateSeed = 42
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Fetch.BaseURL == "" {
		c.Fetch.BaseURL = "https://www.sofascore.com/api/v1"
	}
	if c.Fetch.Category == "" {
		c.Fetch.Category = "ATP"
	}
	if c.Fetch.Timeout <= 0 {
		c.Fetch.Timeout = 30 * time.Second
	}
	if c.Fetch.MaxTournaments <= 0 {
		c.Fetch.MaxTournaments = 10
	}
}
