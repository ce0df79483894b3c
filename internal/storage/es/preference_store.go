package es

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
)

// PreferenceStore keeps one document per user, with the user id as document id.
type PreferenceStore struct {
	client    *elasticsearch.TypedClient
	indexName string
	now       func() time.Time
}

func NewPreferenceStore(ctx context.Context, client *elasticsearch.TypedClient, config ClientConfig) (*PreferenceStore, error) {
	s := &PreferenceStore{
		client:    client,
		indexName: config.preferencesIndex(),
		now:       time.Now,
	}

	if err := ensureIndex(ctx, client, s.indexName, NewIndexBuilder().preferenceMapping()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return s, nil
}

func (s *PreferenceStore) GetPreference(ctx context.Context, userID string) (*domain.UserPreference, error) {
	doc, err := s.get(ctx, userID)
	if err != nil {
		return nil, err
	}

	p := &domain.UserPreference{
		UserID:     doc.UserID,
		Sources:    doc.Sources,
		Categories: doc.Categories,
		Authors:    doc.Authors,
	}
	if p.CreatedAt, err = parseTime(doc.CreatedAt); err != nil {
		return nil, err
	}
	if p.UpdatedAt, err = parseTime(doc.UpdatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *PreferenceStore) SavePreference(ctx context.Context, pref domain.UserPreference) (*domain.UserPreference, error) {
	now := formatTime(s.now())
	createdAt := now
	existing, err := s.get(ctx, pref.UserID)
	switch {
	case err == nil:
		createdAt = existing.CreatedAt
	case !errors.Is(err, storage.ErrNotFound):
		return nil, err
	}

	doc := PreferenceDocument{
		UserID:     pref.UserID,
		Sources:    orEmpty(pref.Sources),
		Categories: orEmpty(pref.Categories),
		Authors:    orEmpty(pref.Authors),
		CreatedAt:  createdAt,
		UpdatedAt:  now,
	}

	if _, err := s.client.Index(s.indexName).Id(pref.UserID).Document(doc).Refresh(refresh.True).Do(ctx); err != nil {
		return nil, fmt.Errorf("failed to index preference: %w", err)
	}

	return s.GetPreference(ctx, pref.UserID)
}

func (s *PreferenceStore) get(ctx context.Context, userID string) (*PreferenceDocument, error) {
	res, err := s.client.Get(s.indexName, userID).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}
	if !res.Found {
		return nil, storage.ErrNotFound
	}

	var doc PreferenceDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal preference: %w", err)
	}
	return &doc, nil
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
