package ingest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/reconcile"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	name    string
	batch   *provider.Batch
	err     error
	started chan struct{}
	release chan struct{}
}

func (s *stubAdapter) Name() string { return s.name }

func (s *stubAdapter) Fetch(ctx context.Context) (*provider.Batch, error) {
	if s.started != nil {
		s.started <- struct{}{}
	}
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, apperr.NewFetch(s.name, ctx.Err())
		}
	}
	if s.err != nil {
		return nil, s.err
	}
	return s.batch, nil
}

func candidates(provider, source string, urls ...string) []domain.Candidate {
	out := make([]domain.Candidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, domain.Candidate{
			Provider:    provider,
			Title:       "Story " + u,
			URL:         "https://example.com/" + u,
			Source:      source,
			PublishedAt: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		})
	}
	return out
}

func okAdapter(name string, urls ...string) *stubAdapter {
	return &stubAdapter{name: name, batch: &provider.Batch{Provider: name, Candidates: candidates(name, name, urls...)}}
}

func corpusSize(t *testing.T, store *in_mem.Store) int64 {
	t.Helper()
	_, total, err := store.Search(context.Background(), domain.Criteria{}, pagination.OffsetRequest{Page: 1, Size: 10})
	require.NoError(t, err)
	return total
}

func TestOrchestrator_FetchErrorIsIsolated(t *testing.T) {
	store := in_mem.NewStore()
	o := NewOrchestrator([]provider.Adapter{
		okAdapter("a", "1", "2"),
		&stubAdapter{name: "b", err: apperr.NewFetchStatus("b", 500, errors.New("boom"))},
		okAdapter("c", "3"),
	}, reconcile.NewEngine(store, domain.IdentityURL))

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.False(t, summary.AllFailed())
	require.Len(t, summary.Providers, 3)

	assert.Equal(t, "a", summary.Providers[0].Name)
	assert.Equal(t, StatusOK, summary.Providers[0].Status)
	assert.Equal(t, 2, summary.Providers[0].Report.Created)

	assert.Equal(t, StatusFetchFailed, summary.Providers[1].Status)
	assert.Contains(t, summary.Providers[1].Error, "unexpected status 500")
	assert.Nil(t, summary.Providers[1].Report)

	assert.Equal(t, StatusOK, summary.Providers[2].Status)
	assert.Equal(t, 3, summary.Totals.Created)
	assert.EqualValues(t, 3, corpusSize(t, store))
	assert.False(t, summary.FinishedAt.Before(summary.StartedAt))
}

type panicAdapter struct{ name string }

func (p panicAdapter) Name() string { return p.name }

func (p panicAdapter) Fetch(context.Context) (*provider.Batch, error) {
	panic("kaboom")
}

func TestOrchestrator_MisbehavingAdaptersAreFetchFailures(t *testing.T) {
	store := in_mem.NewStore()
	o := NewOrchestrator([]provider.Adapter{
		panicAdapter{name: "panics"},
		&stubAdapter{name: "empty"},
		okAdapter("c", "1"),
	}, reconcile.NewEngine(store, domain.IdentityURL))

	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Providers, 3)

	assert.Equal(t, StatusFetchFailed, summary.Providers[0].Status)
	assert.Contains(t, summary.Providers[0].Error, "panic: kaboom")

	assert.Equal(t, StatusFetchFailed, summary.Providers[1].Status)
	assert.Contains(t, summary.Providers[1].Error, errNoBatch.Error())

	assert.Equal(t, StatusOK, summary.Providers[2].Status)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, 2, summary.Failed)
	assert.EqualValues(t, 1, corpusSize(t, store))
}

func TestFetch_WrapsFailuresAsFetchError(t *testing.T) {
	_, err := fetch(context.Background(), panicAdapter{name: "panics"})
	var fe *apperr.FetchError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, "panics", fe.Provider)

	_, err = fetch(context.Background(), &stubAdapter{name: "empty"})
	require.ErrorAs(t, err, &fe)
	assert.ErrorIs(t, err, errNoBatch)
}

func TestOrchestrator_RepeatedRunsAreIdempotent(t *testing.T) {
	store := in_mem.NewStore()
	o := NewOrchestrator([]provider.Adapter{okAdapter("a", "1", "2")}, reconcile.NewEngine(store, domain.IdentityURL))

	_, err := o.Run(context.Background())
	require.NoError(t, err)
	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 0, summary.Totals.Created)
	assert.Equal(t, 2, summary.Totals.Unchanged)
	assert.EqualValues(t, 2, corpusSize(t, store))
}

func TestOrchestrator_DroppedRecordsAreCounted(t *testing.T) {
	a := okAdapter("a", "1")
	a.batch.Dropped = []*apperr.RecordError{apperr.NewRecord("a", 1, "Bad", "unparseable published date", nil)}

	o := NewOrchestrator([]provider.Adapter{a}, reconcile.NewEngine(in_mem.NewStore(), domain.IdentityURL))
	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	ps := summary.Providers[0]
	assert.Equal(t, 2, ps.Fetched)
	assert.Equal(t, 1, ps.Dropped)
	assert.Equal(t, 1, ps.Report.Created)
	assert.Equal(t, 1, ps.Report.Failed)
	assert.Equal(t, 1, summary.Totals.Failed)
}

// brokenSourceStore fails every upsert of articles from one source.
type brokenSourceStore struct {
	*in_mem.Store
	source string
}

func (s *brokenSourceStore) Upsert(ctx context.Context, key string, a domain.Article) (storage.UpsertResult, error) {
	if a.Source == s.source {
		return storage.UpsertResult{}, errors.New("disk full")
	}
	return s.Store.Upsert(ctx, key, a)
}

func TestOrchestrator_StoreErrorAbortsOnlyItsBatch(t *testing.T) {
	mem := in_mem.NewStore()
	store := &brokenSourceStore{Store: mem, source: "b"}
	o := NewOrchestrator([]provider.Adapter{
		okAdapter("a", "1"),
		okAdapter("b", "2", "3"),
	}, reconcile.NewEngine(store, domain.IdentityURL))

	summary, err := o.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, StatusOK, summary.Providers[0].Status)
	assert.Equal(t, StatusStoreFailed, summary.Providers[1].Status)
	assert.Contains(t, summary.Providers[1].Error, "disk full")
	assert.EqualValues(t, 1, corpusSize(t, mem))
}

func TestOrchestrator_AllFailed(t *testing.T) {
	o := NewOrchestrator([]provider.Adapter{
		&stubAdapter{name: "a", err: apperr.NewFetch("a", errors.New("dns"))},
		&stubAdapter{name: "b", err: apperr.NewFetch("b", errors.New("dns"))},
	}, reconcile.NewEngine(in_mem.NewStore(), domain.IdentityURL))

	summary, err := o.Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.AllFailed())
	assert.Equal(t, 2, summary.Failed)
}

func TestOrchestrator_FetchesConcurrently(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	a := okAdapter("a", "1")
	a.started, a.release = started, release
	b := okAdapter("b", "2")
	b.started, b.release = started, release

	o := NewOrchestrator([]provider.Adapter{a, b}, reconcile.NewEngine(in_mem.NewStore(), domain.IdentityURL),
		WithConfig(Config{MaxConcurrency: 2}))

	done := make(chan *Summary)
	go func() {
		s, _ := o.Run(context.Background())
		done <- s
	}()

	for range 2 {
		select {
		case <-started:
		case <-time.After(2 * time.Second):
			t.Fatal("adapters did not start concurrently")
		}
	}

	_, err := o.Run(context.Background())
	assert.ErrorIs(t, err, ErrRunInProgress)

	close(release)
	summary := <-done
	assert.Equal(t, 2, summary.Succeeded)
}

func TestOrchestrator_CancelledContext(t *testing.T) {
	a := &stubAdapter{name: "a", started: make(chan struct{}, 1)}
	o := NewOrchestrator([]provider.Adapter{a}, reconcile.NewEngine(in_mem.NewStore(), domain.IdentityURL))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := o.Run(ctx)

	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, a.started)
}
