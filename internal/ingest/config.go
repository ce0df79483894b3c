package ingest

import (
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/retry"
)

// Settings is the ingestion part of the application configuration.
type Settings struct {
	IdentityKey    domain.IdentityKey
	MaxConcurrency int
	Interval       time.Duration
	Retry          retry.Config
}

func LoadEnv() (*Settings, error) {
	key, err := domain.ParseIdentityKey(env.String("IDENTITY_KEY", ""))
	if err != nil {
		return nil, err
	}
	concurrency, err := env.Int("INGEST_MAX_CONCURRENCY", defaultMaxConcurrency)
	if err != nil {
		return nil, err
	}
	interval, err := env.Duration("INGEST_INTERVAL", DefaultInterval)
	if err != nil {
		return nil, err
	}
	attempts, err := env.Int("INGEST_RETRY_ATTEMPTS", 3)
	if err != nil {
		return nil, err
	}
	delay, err := env.Duration("INGEST_RETRY_DELAY", time.Minute)
	if err != nil {
		return nil, err
	}

	return &Settings{
		IdentityKey:    key,
		MaxConcurrency: concurrency,
		Interval:       interval,
		Retry: retry.Config{
			MaxAttempts: attempts,
			Delay:       delay,
			Backoff:     true,
		},
	}, nil
}
