package router

import (
	"context"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/reconcile"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
)

type fakeAdapter struct {
	candidates []domain.Candidate
}

func (f *fakeAdapter) Name() string { return "fake" }

func (f *fakeAdapter) Fetch(context.Context) (*provider.Batch, error) {
	return &provider.Batch{Provider: "fake", Candidates: f.candidates}, nil
}

func newOrchestrator(store *in_mem.Store, adapters ...provider.Adapter) *ingest.Orchestrator {
	return ingest.NewOrchestrator(adapters, reconcile.NewEngine(store, domain.IdentityURL))
}
