package storage

import (
	"context"
	"errors"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

var ErrNotFound = errors.New("not found")

// Outcome is what an upsert did to the stored row.
type Outcome string

const (
	Created   Outcome = "created"
	Updated   Outcome = "updated"
	Unchanged Outcome = "unchanged"
)

type UpsertResult struct {
	ID      uuid.UUID
	Outcome Outcome
}

// ArticleUpserter inserts or updates an article keyed by its dedup key.
// Implementations must be atomic per key.
type ArticleUpserter interface {
	Upsert(ctx context.Context, key string, article domain.Article) (UpsertResult, error)
}

type ArticleReader interface {
	Get(ctx context.Context, id uuid.UUID) (*domain.Article, error)
	FindByKey(ctx context.Context, key string) (*domain.Article, error)
}

// ArticleSearcher evaluates criteria over the corpus ordered newest first
// (published_at desc, id desc).
type ArticleSearcher interface {
	Search(ctx context.Context, criteria domain.Criteria, page pagination.OffsetRequest) ([]domain.Article, int64, error)
	List(ctx context.Context, criteria domain.Criteria) ([]domain.Article, error)
}

type ArticleStore interface {
	ArticleUpserter
	ArticleReader
	ArticleSearcher
}

type PreferenceStore interface {
	GetPreference(ctx context.Context, userID string) (*domain.UserPreference, error)
	SavePreference(ctx context.Context, pref domain.UserPreference) (*domain.UserPreference, error)
}

type Type string

const (
	ES     Type = "es"
	PG     Type = "pg"
	SQLite Type = "sqlite"
	InMem  Type = "in_mem"
)

var Types = []Type{ES, PG, SQLite, InMem}

type StorerError string

const (
	ErrUnsupportedStorer StorerError = "unsupported storer type: %s"
)

func (e StorerError) Error() string {
	return string(e)
}
