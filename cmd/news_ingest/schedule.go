package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/spf13/cobra"
)

var flagInterval time.Duration

var scheduleCmd = &cobra.Command{
	Use:   "schedule",
	Short: "Run ingestion now and then on a fixed interval until interrupted",
	Long: `Run ingestion immediately and then every --interval (INGEST_INTERVAL, default 24h).

A run in which every provider fails is retried INGEST_RETRY_ATTEMPTS times,
waiting INGEST_RETRY_DELAY (growing linearly) between attempts.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		p, err := newPipeline(ctx)
		if err != nil {
			return err
		}
		defer p.close()

		interval := p.cfg.IngestConfig.Interval
		if flagInterval > 0 {
			interval = flagInterval
		}

		scheduler := ingest.NewScheduler(p.orchestrator, ingest.SchedulerConfig{
			Interval: interval,
			Retry:    p.cfg.IngestConfig.Retry,
			OnRun: func(s *ingest.Summary, err error) {
				if s == nil {
					return
				}
				slog.Info("Scheduled ingestion finished",
					"succeeded", s.Succeeded,
					"failed", s.Failed,
					"created", s.Totals.Created,
					"updated", s.Totals.Updated)
			},
		})

		if err := scheduler.Start(ctx); err != nil {
			return fmt.Errorf("running scheduler: %w", err)
		}
		return nil
	},
}

func init() {
	scheduleCmd.Flags().DurationVar(&flagInterval, "interval", 0, "override INGEST_INTERVAL (e.g. 6h)")
}
