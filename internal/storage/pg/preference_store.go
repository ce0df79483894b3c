package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PreferenceStore struct {
	db *pgxpool.Pool
}

func NewPreferenceStore(pool *ConnectionPool) *PreferenceStore {
	return &PreferenceStore{db: pool.conn}
}

func (s *PreferenceStore) GetPreference(ctx context.Context, userID string) (*domain.UserPreference, error) {
	var p domain.UserPreference
	err := s.db.QueryRow(ctx, `
		SELECT user_id, sources, categories, authors, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1`, userID,
	).Scan(&p.UserID, &p.Sources, &p.Categories, &p.Authors, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	return &p, nil
}

func (s *PreferenceStore) SavePreference(ctx context.Context, pref domain.UserPreference) (*domain.UserPreference, error) {
	var saved domain.UserPreference
	err := s.db.QueryRow(ctx, `
		INSERT INTO user_preferences (user_id, sources, categories, authors)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			sources    = EXCLUDED.sources,
			categories = EXCLUDED.categories,
			authors    = EXCLUDED.authors,
			updated_at = now()
		RETURNING user_id, sources, categories, authors, created_at, updated_at`,
		pref.UserID, nonNil(pref.Sources), nonNil(pref.Categories), nonNil(pref.Authors),
	).Scan(&saved.UserID, &saved.Sources, &saved.Categories, &saved.Authors, &saved.CreatedAt, &saved.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to save preference: %w", err)
	}
	return &saved, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
