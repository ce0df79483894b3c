package main

import (
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
)

type AppConfig struct {
	ENV string
}

func NewAppConfig() *AppConfig {
	return &AppConfig{
		ENV: os.Getenv("ENV"),
	}
}

type NewsAPIConfig struct {
	StorageConfig  factory.StorageConfig
	ProviderConfig provider.Settings
	IngestConfig   ingest.Settings
}

func (as *AppConfig) Load() (*NewsAPIConfig, error) {
	err := env.LoadDotEnv(as.ENV, "cmd/news_api/.env")
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		slog.Error("Failed to load storage configuration from environment", "error", err)
		return nil, err
	}

	providerCfg, err := provider.LoadSettings()
	if err != nil {
		slog.Error("Failed to load provider configuration from environment", "error", err)
		return nil, err
	}

	ingestCfg, err := ingest.LoadEnv()
	if err != nil {
		slog.Error("Failed to load ingestion configuration from environment", "error", err)
		return nil, err
	}

	return &NewsAPIConfig{
		StorageConfig:  *storageCfg,
		ProviderConfig: *providerCfg,
		IngestConfig:   *ingestCfg,
	}, nil
}
