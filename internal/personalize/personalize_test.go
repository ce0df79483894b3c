package personalize

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/storagetest"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T) *in_mem.Store {
	t.Helper()
	store := in_mem.NewStore()
	base := storagetest.Base
	storagetest.Seed(t, store,
		storagetest.Article("Tech Innovations", "Example Source", "Technology", "John Doe", base),
		storagetest.Article("Health Tips", "Example Source", "Health", "Jane Doe", base.Add(-time.Hour)),
		storagetest.Article("Chip Shortage", "Other Source", "Technology", "John Doe", base.Add(-2*time.Hour)),
		storagetest.Article("Market Watch", "Tech Source", "Finance", "Jane Doe", base.Add(-3*time.Hour)),
	)
	return store
}

func titles(items []domain.Article) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Title)
	}
	return out
}

func TestMatcher_Personalize(t *testing.T) {
	store := seed(t)
	matcher := NewMatcher(store)
	ctx := context.Background()

	all, _, err := store.Search(ctx, domain.Criteria{}, pagination.OffsetRequest{Page: 1, Size: pagination.PageMaxSize})
	require.NoError(t, err)

	tests := []struct {
		name  string
		prefs *domain.UserPreference
		want  []string
	}{
		{name: "nil preferences", prefs: nil, want: titles(all)},
		{name: "empty preferences", prefs: &domain.UserPreference{UserID: "u1"}, want: titles(all)},
		{
			name:  "sources",
			prefs: &domain.UserPreference{Sources: []string{"Example Source"}},
			want:  []string{"Tech Innovations", "Health Tips"},
		},
		{
			name:  "sources and categories",
			prefs: &domain.UserPreference{Sources: []string{"Example Source", "Other Source"}, Categories: []string{"Technology"}},
			want:  []string{"Tech Innovations", "Chip Shortage"},
		},
		{
			name:  "authors",
			prefs: &domain.UserPreference{Authors: []string{"Jane Doe"}},
			want:  []string{"Health Tips", "Market Watch"},
		},
		{
			name:  "no match",
			prefs: &domain.UserPreference{Sources: []string{"Nowhere"}},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := matcher.Personalize(ctx, tt.prefs)
			require.NoError(t, err)
			assert.Equal(t, tt.want, titles(got))

			again, err := matcher.Personalize(ctx, tt.prefs)
			require.NoError(t, err)
			assert.Equal(t, got, again)
		})
	}
}

func TestService_SaveAndGet(t *testing.T) {
	store := seed(t)
	svc := NewService(store, NewMatcher(store))
	ctx := context.Background()

	_, err := svc.Get(ctx, "u1")
	var notFound *apperr.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "No preferences found", notFound.Message)

	created, err := svc.Save(ctx, "u1", domain.PreferenceUpdate{
		Sources:    []string{"Example Source", " Example Source "},
		Categories: []string{"Technology"},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Example Source"}, created.Sources)
	assert.Equal(t, []string{"Technology"}, created.Categories)

	updated, err := svc.Save(ctx, "u1", domain.PreferenceUpdate{Sources: []string{"Other Source"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Other Source"}, updated.Sources)
	assert.Equal(t, []string{"Technology"}, updated.Categories)

	got, err := svc.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, updated.Sources, got.Sources)
}

func TestService_Save_RequiresUser(t *testing.T) {
	store := seed(t)
	svc := NewService(store, NewMatcher(store))

	_, err := svc.Save(context.Background(), "  ", domain.PreferenceUpdate{})

	var validationErr *apperr.ValidationError
	assert.True(t, errors.As(err, &validationErr))
}

func TestService_Feed(t *testing.T) {
	store := seed(t)
	svc := NewService(store, NewMatcher(store))
	ctx := context.Background()

	feed, err := svc.Feed(ctx, "new-user")
	require.NoError(t, err)
	assert.Len(t, feed, 4)

	_, err = svc.Save(ctx, "u2", domain.PreferenceUpdate{Sources: []string{"Example Source"}})
	require.NoError(t, err)

	feed, err = svc.Feed(ctx, "u2")
	require.NoError(t, err)
	for _, a := range feed {
		assert.Equal(t, "Example Source", a.Source)
	}
	assert.Equal(t, []string{"Tech Innovations", "Health Tips"}, titles(feed))
}
