// Package ingest runs the provider adapters and feeds their output into reconciliation.
package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/reconcile"
	"golang.org/x/sync/errgroup"
)

const defaultMaxConcurrency = 4

var (
	ErrRunInProgress = errors.New("ingestion run already in progress")

	errNoBatch = errors.New("adapter returned no batch")
)

type Status string

const (
	StatusOK          Status = "ok"
	StatusFetchFailed Status = "fetch_failed"
	StatusStoreFailed Status = "store_failed"
)

type ProviderSummary struct {
	Name    string            `json:"name"`
	Status  Status            `json:"status"`
	Fetched int               `json:"fetched"`
	Dropped int               `json:"dropped"`
	Report  *reconcile.Report `json:"report,omitempty"`
	Error   string            `json:"error,omitempty"`
}

type Summary struct {
	StartedAt  time.Time         `json:"startedAt"`
	FinishedAt time.Time         `json:"finishedAt"`
	Providers  []ProviderSummary `json:"providers"`
	Totals     reconcile.Report  `json:"totals"`
	Succeeded  int               `json:"succeeded"`
	Failed     int               `json:"failed"`
}

// AllFailed reports whether adapters were registered and none of them succeeded.
func (s *Summary) AllFailed() bool {
	return len(s.Providers) > 0 && s.Succeeded == 0
}

type Config struct {
	MaxConcurrency int
}

type Option func(o *Orchestrator)

func WithConfig(cfg Config) Option {
	return func(o *Orchestrator) {
		if cfg.MaxConcurrency > 0 {
			o.config.MaxConcurrency = cfg.MaxConcurrency
		}
	}
}

type Orchestrator struct {
	adapters []provider.Adapter
	engine   *reconcile.Engine
	config   Config
	running  sync.Mutex
	now      func() time.Time
}

func NewOrchestrator(adapters []provider.Adapter, engine *reconcile.Engine, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		adapters: adapters,
		engine:   engine,
		config:   Config{MaxConcurrency: defaultMaxConcurrency},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type fetchResult struct {
	index int
	batch *provider.Batch
	err   error
}

// Run fetches every adapter concurrently and reconciles the batches one at a time.
// Adapter and store failures are reported in the Summary, never as the returned error.
func (o *Orchestrator) Run(ctx context.Context) (*Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !o.running.TryLock() {
		return nil, ErrRunInProgress
	}
	defer o.running.Unlock()

	summary := &Summary{
		StartedAt: o.now().UTC(),
		Providers: make([]ProviderSummary, len(o.adapters)),
	}
	slog.Info("Starting ingestion run", "providers", len(o.adapters), "max_concurrency", o.config.MaxConcurrency)

	results := make(chan fetchResult)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for res := range results {
			summary.Providers[res.index] = o.reconcile(ctx, o.adapters[res.index].Name(), res)
		}
	}()

	var g errgroup.Group
	g.SetLimit(o.config.MaxConcurrency)
	for i, a := range o.adapters {
		g.Go(func() error {
			batch, err := fetch(ctx, a)
			results <- fetchResult{index: i, batch: batch, err: err}
			return nil
		})
	}
	_ = g.Wait()
	close(results)
	<-done

	for _, ps := range summary.Providers {
		if ps.Status == StatusOK {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
		summary.Totals.Add(ps.Report)
	}
	summary.FinishedAt = o.now().UTC()

	slog.Info("Finished ingestion run",
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
		"created", summary.Totals.Created,
		"updated", summary.Totals.Updated,
		"unchanged", summary.Totals.Unchanged,
		"rejected", summary.Totals.Failed,
		"duration", summary.FinishedAt.Sub(summary.StartedAt))

	return summary, nil
}

// fetch calls the adapter, turning a panic or a missing batch into a FetchError.
func fetch(ctx context.Context, a provider.Adapter) (batch *provider.Batch, err error) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("Provider fetch panicked", "provider", a.Name(), "panic", r)
			batch, err = nil, apperr.NewFetch(a.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	batch, err = a.Fetch(ctx)
	if err == nil && batch == nil {
		err = apperr.NewFetch(a.Name(), errNoBatch)
	}
	return batch, err
}

func (o *Orchestrator) reconcile(ctx context.Context, name string, res fetchResult) ProviderSummary {
	ps := ProviderSummary{Name: name}

	if res.err != nil {
		ps.Status = StatusFetchFailed
		ps.Error = res.err.Error()
		slog.Error("Provider fetch failed", "provider", name, "error", res.err)
		return ps
	}

	ps.Fetched = len(res.batch.Candidates) + len(res.batch.Dropped)
	ps.Dropped = len(res.batch.Dropped)

	report, err := o.engine.Reconcile(ctx, res.batch.Candidates)
	report.Reject(res.batch.Dropped...)
	ps.Report = report

	if err != nil {
		ps.Status = StatusStoreFailed
		ps.Error = err.Error()
		slog.Error("Provider batch aborted", "provider", name, "error", err)
		return ps
	}

	ps.Status = StatusOK
	return ps
}
