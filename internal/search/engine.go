// Package search answers filtered, paginated queries over the corpus.
package search

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

const DateLayout = "2006-01-02"

// FilterSpec holds the optional query predicates. Date is a calendar day in
// DateLayout.
type FilterSpec struct {
	Keyword  string `query:"keyword"`
	Date     string `query:"date"`
	Category string `query:"category"`
	Source   string `query:"source"`
}

// Criteria validates the filters and converts them to storage criteria.
func (f FilterSpec) Criteria() (domain.Criteria, error) {
	c := domain.Criteria{
		Keyword:  strings.TrimSpace(f.Keyword),
		Category: strings.TrimSpace(f.Category),
		Source:   strings.TrimSpace(f.Source),
	}
	if d := strings.TrimSpace(f.Date); d != "" {
		day, err := time.Parse(DateLayout, d)
		if err != nil {
			return domain.Criteria{}, apperr.NewValidationWrap("date must be formatted as YYYY-MM-DD", err)
		}
		c.Day = &day
	}
	return c, nil
}

type Engine struct {
	store storage.ArticleStore
}

func NewEngine(store storage.ArticleStore) *Engine {
	return &Engine{store: store}
}

func (e *Engine) Query(ctx context.Context, filters FilterSpec, page pagination.OffsetRequest) (*pagination.OffsetResult[domain.Article], error) {
	criteria, err := filters.Criteria()
	if err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, apperr.NewValidationWrap("invalid page", err)
	}

	items, total, err := e.store.Search(ctx, criteria, page)
	if err != nil {
		return nil, apperr.NewStore("search", err)
	}
	return pagination.NewOffsetResult(items, total, page.Page, page.Size), nil
}

func (e *Engine) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := e.store.Get(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, apperr.NewNotFound("article", "Article not found")
	}
	if err != nil {
		return nil, apperr.NewStore("get article", err)
	}
	return a, nil
}
