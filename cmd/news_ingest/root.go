package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/reconcile"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/logger"
	"github.com/spf13/cobra"
)

var (
	flagEnvFile  string
	flagLogLevel string
)

var rootCmd = &cobra.Command{
	Use:   "news_ingest",
	Short: "Fetch news providers into the article store",
	Long: `news_ingest fetches every configured provider, normalizes the articles and
upserts them into the configured storage.

Providers and storage are configured through environment variables (see .env.example).`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level := flagLogLevel
		if level == "" {
			level = os.Getenv("LOG_LEVEL")
		}
		logger.Init(level, os.Getenv("LOG_FORMAT"))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "cmd/news_ingest/.env", "path to a .env file")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "debug, info, warn or error (overrides LOG_LEVEL)")

	rootCmd.AddCommand(fetchCmd)
	rootCmd.AddCommand(scheduleCmd)
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// pipeline is everything a command needs to run ingestion.
type pipeline struct {
	cfg          *IngestConfig
	orchestrator *ingest.Orchestrator
	close        func()
}

func newPipeline(ctx context.Context) (*pipeline, error) {
	cfg, err := NewAppConfig(flagEnvFile).Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	stores, err := factory.NewStores(ctx, &cfg.StorageConfig)
	if err != nil {
		return nil, fmt.Errorf("creating storage: %w", err)
	}

	adapters, err := provider.Build(&cfg.ProviderConfig, provider.NewHTTPClient(nil))
	if err != nil {
		stores.Close()
		return nil, fmt.Errorf("building providers: %w", err)
	}
	if len(adapters) == 0 {
		slog.Warn("No providers configured, set NEWS_API_KEY, NYT_API_KEY, RSS_FEEDS or PROVIDERS_CONFIG_PATH")
	}

	engine := reconcile.NewEngine(stores.Articles, cfg.IngestConfig.IdentityKey)
	orchestrator := ingest.NewOrchestrator(adapters, engine,
		ingest.WithConfig(ingest.Config{MaxConcurrency: cfg.IngestConfig.MaxConcurrency}))

	return &pipeline{cfg: cfg, orchestrator: orchestrator, close: stores.Close}, nil
}
