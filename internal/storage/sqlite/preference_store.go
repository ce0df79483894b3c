package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

// PreferenceStore keeps each preference set as a JSON array column.
type PreferenceStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewPreferenceStore(db *sql.DB) *PreferenceStore {
	return &PreferenceStore{db: db, now: time.Now}
}

func (s *PreferenceStore) GetPreference(ctx context.Context, userID string) (*domain.UserPreference, error) {
	var (
		p                            domain.UserPreference
		sources, categories, authors string
		created, updated             string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, sources, categories, authors, created_at, updated_at
		FROM user_preferences WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &sources, &categories, &authors, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	for _, f := range []struct {
		raw string
		dst *[]string
	}{{sources, &p.Sources}, {categories, &p.Categories}, {authors, &p.Authors}} {
		if err := json.Unmarshal([]byte(f.raw), f.dst); err != nil {
			return nil, fmt.Errorf("failed to decode preference set: %w", err)
		}
	}
	if p.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, err
	}
	return &p, nil
}

func (s *PreferenceStore) SavePreference(ctx context.Context, pref domain.UserPreference) (*domain.UserPreference, error) {
	sources, err := encodeSet(pref.Sources)
	if err != nil {
		return nil, err
	}
	categories, err := encodeSet(pref.Categories)
	if err != nil {
		return nil, err
	}
	authors, err := encodeSet(pref.Authors)
	if err != nil {
		return nil, err
	}

	now := formatTime(s.now())
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO user_preferences (user_id, sources, categories, authors, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET
			sources    = excluded.sources,
			categories = excluded.categories,
			authors    = excluded.authors,
			updated_at = excluded.updated_at`,
		pref.UserID, sources, categories, authors, now, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save preference: %w", err)
	}

	return s.GetPreference(ctx, pref.UserID)
}

func encodeSet(values []string) (string, error) {
	if values == nil {
		values = []string{}
	}
	b, err := json.Marshal(values)
	if err != nil {
		return "", fmt.Errorf("failed to encode preference set: %w", err)
	}
	return string(b), nil
}
