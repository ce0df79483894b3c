// Package storagetest holds behaviour shared by every storage backend so each one
// is checked against the same expectations.
package storagetest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Base is the publication time of the fixture corpus.
var Base = time.Date(2024, 9, 21, 12, 0, 0, 0, time.UTC)

func Article(title, source, category, author string, published time.Time) domain.Article {
	return domain.Article{
		Title:       title,
		Description: "About " + title,
		URL:         "https://news.example.com/" + uuid.NewString(),
		Source:      source,
		Author:      author,
		Category:    category,
		PublishedAt: published,
	}
}

func Seed(t *testing.T, s storage.ArticleUpserter, articles ...domain.Article) []uuid.UUID {
	t.Helper()
	ids := make([]uuid.UUID, 0, len(articles))
	for _, a := range articles {
		res, err := s.Upsert(context.Background(), domain.IdentityURL.Of(a), a)
		require.NoError(t, err)
		ids = append(ids, res.ID)
	}
	return ids
}

// RunArticleStore exercises upsert, lookup and search semantics against a fresh store
// returned by newStore for every subtest.
func RunArticleStore(t *testing.T, newStore func(t *testing.T) storage.ArticleStore) {
	t.Run("upsert creates then is unchanged", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a := Article("Tech Innovations", "Tech Source", "Technology", "John Doe", Base)
		key := domain.IdentityURL.Of(a)

		first, err := s.Upsert(ctx, key, a)
		require.NoError(t, err)
		assert.Equal(t, storage.Created, first.Outcome)
		assert.NotEqual(t, uuid.Nil, first.ID)

		second, err := s.Upsert(ctx, key, a)
		require.NoError(t, err)
		assert.Equal(t, storage.Unchanged, second.Outcome)
		assert.Equal(t, first.ID, second.ID)

		_, total, err := s.Search(ctx, domain.Criteria{}, pagination.OffsetRequest{Page: 1, Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("upsert updates mutable fields and keeps id", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		a := Article("Health Tips", "Health Source", "Health", "Jane Doe", Base)
		key := domain.IdentityURL.Of(a)

		first, err := s.Upsert(ctx, key, a)
		require.NoError(t, err)

		a.Title = "Health Tips (updated)"
		a.Category = "Lifestyle"
		second, err := s.Upsert(ctx, key, a)
		require.NoError(t, err)
		assert.Equal(t, storage.Updated, second.Outcome)
		assert.Equal(t, first.ID, second.ID)

		got, err := s.Get(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, "Health Tips (updated)", got.Title)
		assert.Equal(t, "Lifestyle", got.Category)
		assert.True(t, Base.Equal(got.PublishedAt))
		assert.False(t, got.CreatedAt.IsZero())

		byKey, err := s.FindByKey(ctx, key)
		require.NoError(t, err)
		assert.Equal(t, first.ID, byKey.ID)
	})

	t.Run("missing rows are not found", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		_, err := s.Get(ctx, uuid.New())
		assert.ErrorIs(t, err, storage.ErrNotFound)

		_, err = s.FindByKey(ctx, "https://nowhere.example.com")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("filters combine with and", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		Seed(t, s,
			Article("Tech Innovations", "Tech Source", "Technology", "John Doe", Base),
			Article("Chip Shortage", "Other Source", "Technology", "John Doe", Base.Add(-time.Hour)),
			Article("Market Watch", "Tech Source", "Finance", "Jane Doe", Base.Add(-2*time.Hour)),
		)

		got, total, err := s.Search(ctx, domain.Criteria{Category: "Technology", Source: "Tech Source"}, pagination.OffsetRequest{Page: 1, Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 1, total)
		assert.Equal(t, "Tech Innovations", got[0].Title)
	})

	t.Run("keyword matches title or description ignoring case", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		withDesc := Article("Morning Run", "Example Source", "Lifestyle", "Jane Doe", Base.Add(-time.Hour))
		withDesc.Description = "a routine for better HEALTH"
		Seed(t, s,
			Article("Health Tips", "Example Source", "Health", "John Doe", Base),
			withDesc,
			Article("Stock Update", "Another Source", "Finance", "Jane Doe", Base.Add(-2*time.Hour)),
		)

		got, total, err := s.Search(ctx, domain.Criteria{Keyword: "health"}, pagination.OffsetRequest{Page: 1, Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 2, total)
		assert.Equal(t, "Health Tips", got[0].Title)
		assert.Equal(t, "Morning Run", got[1].Title)
	})

	t.Run("keyword folds non-ascii case", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		withDesc := Article("Markets", "Example Source", "Finance", "Jane Doe", Base.Add(-time.Hour))
		withDesc.Description = "ÉCONOMIE et marchés"
		Seed(t, s,
			Article("Économie mondiale", "Example Source", "Finance", "John Doe", Base),
			withDesc,
			Article("Economy outlook", "Example Source", "Finance", "John Doe", Base.Add(-2*time.Hour)),
		)

		got, total, err := s.Search(ctx, domain.Criteria{Keyword: "économie"}, pagination.OffsetRequest{Page: 1, Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 2, total)
		assert.Equal(t, "Économie mondiale", got[0].Title)
		assert.Equal(t, "Markets", got[1].Title)
	})

	t.Run("keyword wildcards are literal", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		Seed(t, s,
			Article("100% Growth", "Example Source", "Finance", "John Doe", Base),
			Article("1000 Growth", "Example Source", "Finance", "John Doe", Base.Add(-time.Hour)),
		)

		_, total, err := s.Search(ctx, domain.Criteria{Keyword: "100%"}, pagination.OffsetRequest{Page: 1, Size: 10})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})

	t.Run("date matches the calendar day", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		Seed(t, s,
			Article("Late", "Example Source", "General", "Unknown", time.Date(2024, 9, 21, 23, 59, 59, 0, time.UTC)),
			Article("Early", "Example Source", "General", "Unknown", time.Date(2024, 9, 21, 0, 0, 0, 0, time.UTC)),
			Article("Next day", "Example Source", "General", "Unknown", time.Date(2024, 9, 22, 0, 0, 0, 0, time.UTC)),
		)

		day := time.Date(2024, 9, 21, 0, 0, 0, 0, time.UTC)
		got, total, err := s.Search(ctx, domain.Criteria{Day: &day}, pagination.OffsetRequest{Page: 1, Size: 10})
		require.NoError(t, err)
		require.EqualValues(t, 2, total)
		assert.Equal(t, "Late", got[0].Title)
		assert.Equal(t, "Early", got[1].Title)
	})

	t.Run("pages partition the corpus", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		var fixtures []domain.Article
		for i := range 25 {
			// pairs share a timestamp so the id tie-breaker is exercised
			fixtures = append(fixtures, Article(fmt.Sprintf("Article %02d", i), "Example Source", "General", "Unknown", Base.Add(-time.Duration(i/2)*time.Minute)))
		}
		Seed(t, s, fixtures...)

		seen := make(map[uuid.UUID]bool)
		sizes := make([]int, 0, 3)
		for page := 1; page <= 3; page++ {
			got, total, err := s.Search(ctx, domain.Criteria{}, pagination.OffsetRequest{Page: page, Size: 10})
			require.NoError(t, err)
			assert.EqualValues(t, 25, total)
			sizes = append(sizes, len(got))
			for _, a := range got {
				assert.False(t, seen[a.ID], "article %s returned twice", a.ID)
				seen[a.ID] = true
			}
		}
		assert.Equal(t, []int{10, 10, 5}, sizes)
		assert.Len(t, seen, 25)

		again, _, err := s.Search(ctx, domain.Criteria{}, pagination.OffsetRequest{Page: 2, Size: 10})
		require.NoError(t, err)
		first, _, err := s.Search(ctx, domain.Criteria{}, pagination.OffsetRequest{Page: 2, Size: 10})
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(again))
	})

	t.Run("list applies preference sets", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		Seed(t, s,
			Article("Tech Innovations", "Example Source", "Technology", "John Doe", Base),
			Article("Travel Guide", "Another Source", "Lifestyle", "Jane Doe", Base.Add(-time.Hour)),
			Article("Gadget Review", "Example Source", "Technology", "Jane Doe", Base.Add(-2*time.Hour)),
		)

		all, err := s.List(ctx, domain.Criteria{})
		require.NoError(t, err)
		assert.Len(t, all, 3)

		got, err := s.List(ctx, domain.Criteria{Sources: []string{"Example Source"}})
		require.NoError(t, err)
		require.Len(t, got, 2)
		for _, a := range got {
			assert.Equal(t, "Example Source", a.Source)
		}

		got, err = s.List(ctx, domain.Criteria{Sources: []string{"Example Source"}, Authors: []string{"Jane Doe"}})
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, "Gadget Review", got[0].Title)
	})
}

// RunPreferenceStore checks create, replace and lookup of preference sets.
func RunPreferenceStore(t *testing.T, newStore func(t *testing.T) storage.PreferenceStore) {
	t.Run("missing preference is not found", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetPreference(context.Background(), "nobody")
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("save creates then replaces", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.SavePreference(ctx, domain.UserPreference{
			UserID:  "user-1",
			Sources: []string{"Example Source"},
			Authors: []string{"John Doe"},
		})
		require.NoError(t, err)
		assert.False(t, created.CreatedAt.IsZero())

		_, err = s.SavePreference(ctx, domain.UserPreference{
			UserID:     "user-1",
			Sources:    []string{"Another Source", "BBC"},
			Categories: []string{"Lifestyle"},
		})
		require.NoError(t, err)

		got, err := s.GetPreference(ctx, "user-1")
		require.NoError(t, err)
		assert.Equal(t, "user-1", got.UserID)
		assert.ElementsMatch(t, []string{"Another Source", "BBC"}, got.Sources)
		assert.ElementsMatch(t, []string{"Lifestyle"}, got.Categories)
		assert.Empty(t, got.Authors)
		assert.True(t, created.CreatedAt.Equal(got.CreatedAt))
	})
}

func ids(articles []domain.Article) []uuid.UUID {
	out := make([]uuid.UUID, len(articles))
	for i, a := range articles {
		out[i] = a.ID
	}
	return out
}
