// Package reconcile merges candidate articles into the corpus with an idempotent
// upsert keyed by the configured identity field.
package reconcile

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

type Report struct {
	Created   int                   `json:"created"`
	Updated   int                   `json:"updated"`
	Unchanged int                   `json:"unchanged"`
	Failed    int                   `json:"failed"`
	Rejected  []*apperr.RecordError `json:"rejected,omitempty"`
}

// Add merges other into r.
func (r *Report) Add(other *Report) {
	if other == nil {
		return
	}
	r.Created += other.Created
	r.Updated += other.Updated
	r.Unchanged += other.Unchanged
	r.Failed += other.Failed
	r.Rejected = append(r.Rejected, other.Rejected...)
}

// Reject counts a record that never reached the engine, e.g. one dropped by its adapter.
func (r *Report) Reject(errs ...*apperr.RecordError) {
	r.Failed += len(errs)
	r.Rejected = append(r.Rejected, errs...)
}

type Engine struct {
	store storage.ArticleUpserter
	key   domain.IdentityKey
}

func NewEngine(store storage.ArticleUpserter, key domain.IdentityKey) *Engine {
	if key == "" {
		key = domain.IdentityURL
	}
	return &Engine{store: store, key: key}
}

func (e *Engine) Key() domain.IdentityKey {
	return e.key
}

// Reconcile upserts each candidate in order. Malformed candidates are counted as
// failed and skipped. A store failure stops the batch; the report up to that
// point is returned with a *apperr.StoreError.
func (e *Engine) Reconcile(ctx context.Context, candidates []domain.Candidate) (*Report, error) {
	report := &Report{}

	for i, c := range candidates {
		if err := ctx.Err(); err != nil {
			return report, apperr.NewStore("reconcile", err)
		}

		article, key, recErr := e.normalize(i, c)
		if recErr != nil {
			slog.Debug("Rejected candidate", "provider", recErr.Provider, "index", i, "reason", recErr.Reason)
			report.Reject(recErr)
			continue
		}

		res, err := e.store.Upsert(ctx, key, article)
		if err != nil {
			var storeErr *apperr.StoreError
			if !errors.As(err, &storeErr) {
				storeErr = apperr.NewStore("upsert", err)
			}
			slog.Error("Failed to upsert article", "key", key, "error", err)
			return report, storeErr
		}

		switch res.Outcome {
		case storage.Created:
			report.Created++
		case storage.Updated:
			report.Updated++
		default:
			report.Unchanged++
		}
	}

	slog.Debug("Reconciled batch",
		"candidates", len(candidates),
		"created", report.Created,
		"updated", report.Updated,
		"unchanged", report.Unchanged,
		"failed", report.Failed)

	return report, nil
}

func (e *Engine) normalize(index int, c domain.Candidate) (domain.Article, string, *apperr.RecordError) {
	c = c.WithDefaults()
	reject := func(reason string, err error) (domain.Article, string, *apperr.RecordError) {
		return domain.Article{}, "", apperr.NewRecord(c.Provider, index, c.Title, reason, err)
	}

	if c.Title == "" {
		return reject("missing title", nil)
	}

	if c.PublishedAt.IsZero() {
		if strings.TrimSpace(c.RawPublishedAt) == "" {
			return reject("missing published date", nil)
		}
		t, err := domain.ParseTimestamp(c.RawPublishedAt)
		if err != nil {
			return reject("unparseable published date", err)
		}
		c.PublishedAt = t
	}

	article := c.Article()
	article.PublishedAt = domain.CanonicalTime(article.PublishedAt)

	key := e.key.Of(article)
	if key == "" {
		return reject("missing "+string(e.key), nil)
	}
	return article, key, nil
}
