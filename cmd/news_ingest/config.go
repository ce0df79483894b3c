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
	ENV     string
	EnvPath string
}

func NewAppConfig(envPath string) *AppConfig {
	return &AppConfig{
		ENV:     os.Getenv("ENV"),
		EnvPath: envPath,
	}
}

type IngestConfig struct {
	StorageConfig  factory.StorageConfig
	ProviderConfig provider.Settings
	IngestConfig   ingest.Settings
}

func (as *AppConfig) Load() (*IngestConfig, error) {
	err := env.LoadDotEnv(as.ENV, as.EnvPath)
	if err != nil {
		slog.Info("Failed to .env load environment variables, continuing with existing environment variables", "error", err)
	}

	storageCfg, err := factory.LoadEnv()
	if err != nil {
		return nil, err
	}

	providerCfg, err := provider.LoadSettings()
	if err != nil {
		return nil, err
	}

	ingestCfg, err := ingest.LoadEnv()
	if err != nil {
		return nil, err
	}

	return &IngestConfig{
		StorageConfig:  *storageCfg,
		ProviderConfig: *providerCfg,
		IngestConfig:   *ingestCfg,
	}, nil
}
