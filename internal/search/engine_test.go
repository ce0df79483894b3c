package search

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/storagetest"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seeded(t *testing.T) (*Engine, []uuid.UUID) {
	t.Helper()
	store := in_mem.NewStore()
	base := storagetest.Base
	ids := storagetest.Seed(t, store,
		storagetest.Article("Tech Innovations", "Tech Source", "Technology", "John Doe", base),
		storagetest.Article("Health Tips", "Example Source", "Health", "Jane Doe", base.Add(-time.Hour)),
		storagetest.Article("Chip Shortage", "Other Source", "Technology", "John Doe", base.Add(-24*time.Hour)),
		storagetest.Article("Market Watch", "Tech Source", "Finance", "Jane Doe", base.Add(-25*time.Hour)),
	)
	return NewEngine(store), ids
}

func titles(items []domain.Article) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Title)
	}
	return out
}

func TestEngine_Query(t *testing.T) {
	tests := []struct {
		name    string
		filters FilterSpec
		want    []string
	}{
		{name: "no filters", filters: FilterSpec{}, want: []string{"Tech Innovations", "Health Tips", "Chip Shortage", "Market Watch"}},
		{name: "category and source", filters: FilterSpec{Category: "Technology", Source: "Tech Source"}, want: []string{"Tech Innovations"}},
		{name: "keyword", filters: FilterSpec{Keyword: "HEALTH"}, want: []string{"Health Tips"}},
		{name: "keyword in description", filters: FilterSpec{Keyword: "about chip"}, want: []string{"Chip Shortage"}},
		{name: "date", filters: FilterSpec{Date: "2024-09-20"}, want: []string{"Chip Shortage", "Market Watch"}},
		{name: "date and source", filters: FilterSpec{Date: "2024-09-20", Source: "Tech Source"}, want: []string{"Market Watch"}},
		{name: "no match", filters: FilterSpec{Category: "Sports"}, want: []string{}},
	}

	engine, _ := seeded(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := engine.Query(context.Background(), tt.filters, pagination.OffsetRequest{})
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got.Items))
			assert.EqualValues(t, len(tt.want), got.Total)
			assert.Equal(t, 1, got.Page)
			assert.Equal(t, pagination.PageDefaultSize, got.Size)
		})
	}
}

func TestEngine_Query_InvalidDate(t *testing.T) {
	engine, _ := seeded(t)

	_, err := engine.Query(context.Background(), FilterSpec{Date: "21/09/2024"}, pagination.OffsetRequest{})

	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestEngine_Query_Pagination(t *testing.T) {
	store := in_mem.NewStore()
	var fixtures []domain.Article
	for i := range 25 {
		fixtures = append(fixtures, storagetest.Article(fmt.Sprintf("Article %02d", i), "Example Source", "General", "Unknown", storagetest.Base.Add(-time.Duration(i)*time.Minute)))
	}
	storagetest.Seed(t, store, fixtures...)
	engine := NewEngine(store)

	var all []string
	for page := 1; page <= 3; page++ {
		got, err := engine.Query(context.Background(), FilterSpec{}, pagination.OffsetRequest{Page: page, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, page < 3, got.HasMore)
		assert.Equal(t, 3, got.LastPage)
		all = append(all, titles(got.Items)...)
		if page == 3 {
			assert.Len(t, got.Items, 5)
		}
	}
	assert.Len(t, all, 25)
	assert.Equal(t, "Article 00", all[0])
	assert.Equal(t, "Article 24", all[24])

	capped, err := engine.Query(context.Background(), FilterSpec{}, pagination.OffsetRequest{Page: 1, Size: 1000})
	require.NoError(t, err)
	assert.Equal(t, pagination.PageMaxSize, capped.Size)

	beyond, err := engine.Query(context.Background(), FilterSpec{}, pagination.OffsetRequest{Page: 9, Size: 10})
	require.NoError(t, err)
	assert.NotNil(t, beyond.Items)
	assert.Empty(t, beyond.Items)
}

func TestEngine_Get(t *testing.T) {
	engine, ids := seeded(t)

	got, err := engine.Get(context.Background(), ids[1])
	require.NoError(t, err)
	assert.Equal(t, "Health Tips", got.Title)

	_, err = engine.Get(context.Background(), uuid.New())
	var notFound *apperr.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "Article not found", notFound.Message)
}
