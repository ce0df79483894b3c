package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/retry"
)

const DefaultInterval = 24 * time.Hour

var errAllProvidersFailed = errors.New("all providers failed")

type Runner interface {
	Run(ctx context.Context) (*Summary, error)
}

type SchedulerConfig struct {
	Interval time.Duration
	Retry    retry.Config
	// OnRun is called after every attempt, successful or not.
	OnRun func(*Summary, error)
}

// Scheduler runs ingestion immediately and then every Interval. A run in which
// every provider failed is retried per the Retry policy.
type Scheduler struct {
	runner Runner
	config SchedulerConfig
}

func NewScheduler(runner Runner, cfg SchedulerConfig) *Scheduler {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	return &Scheduler{runner: runner, config: cfg}
}

// Start blocks until ctx is done.
func (s *Scheduler) Start(ctx context.Context) error {
	slog.Info("Starting ingestion scheduler", "interval", s.config.Interval, "retry_attempts", s.config.Retry.MaxAttempts)

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		if err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
			slog.Error("Scheduled ingestion failed", "error", err)
		}

		select {
		case <-ctx.Done():
			slog.Info("Ingestion scheduler stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// RunOnce performs one scheduled ingestion including retries.
func (s *Scheduler) RunOnce(ctx context.Context) error {
	return retry.WithRetry(ctx, s.config.Retry, func(ctx context.Context) error {
		summary, err := s.runner.Run(ctx)
		if s.config.OnRun != nil {
			s.config.OnRun(summary, err)
		}
		if err != nil {
			if errors.Is(err, ErrRunInProgress) {
				slog.Warn("Skipping scheduled ingestion, a run is already in progress")
				return nil
			}
			return err
		}
		if summary.AllFailed() {
			return fmt.Errorf("%w: %d providers", errAllProvidersFailed, summary.Failed)
		}
		return nil
	})
}
