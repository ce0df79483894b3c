package in_mem

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

type Store struct {
	storageLock sync.RWMutex
	articles    map[uuid.UUID]domain.Article
	keys        map[string]uuid.UUID
	preferences map[string]domain.UserPreference

	now func() time.Time
}

func NewStore() *Store {
	return &Store{
		articles:    make(map[uuid.UUID]domain.Article),
		keys:        make(map[string]uuid.UUID),
		preferences: make(map[string]domain.UserPreference),
		now:         time.Now,
	}
}

func (s *Store) Upsert(_ context.Context, key string, article domain.Article) (storage.UpsertResult, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	now := domain.CanonicalTime(s.now())

	if id, ok := s.keys[key]; ok {
		existing := s.articles[id]
		if existing.SameContent(article) {
			return storage.UpsertResult{ID: id, Outcome: storage.Unchanged}, nil
		}
		article.ID = id
		article.CreatedAt = existing.CreatedAt
		article.UpdatedAt = now
		s.articles[id] = article
		return storage.UpsertResult{ID: id, Outcome: storage.Updated}, nil
	}

	article.ID = uuid.New()
	article.CreatedAt = now
	article.UpdatedAt = now
	s.articles[article.ID] = article
	s.keys[key] = article.ID
	slog.Debug("Article stored in memory", "id", article.ID, "title", article.Title)

	return storage.UpsertResult{ID: article.ID, Outcome: storage.Created}, nil
}

func (s *Store) Get(_ context.Context, id uuid.UUID) (*domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &a, nil
}

func (s *Store) FindByKey(_ context.Context, key string) (*domain.Article, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	id, ok := s.keys[key]
	if !ok {
		return nil, storage.ErrNotFound
	}
	a := s.articles[id]
	return &a, nil
}

func (s *Store) Search(ctx context.Context, criteria domain.Criteria, page pagination.OffsetRequest) ([]domain.Article, int64, error) {
	matched, err := s.List(ctx, criteria)
	if err != nil {
		return nil, 0, err
	}

	total := int64(len(matched))
	start := min(page.Offset(), len(matched))
	end := min(start+page.Size, len(matched))

	return matched[start:end], total, nil
}

func (s *Store) List(_ context.Context, criteria domain.Criteria) ([]domain.Article, error) {
	s.storageLock.RLock()
	matched := make([]domain.Article, 0, len(s.articles))
	for _, a := range s.articles {
		if criteria.Matches(a) {
			matched = append(matched, a)
		}
	}
	s.storageLock.RUnlock()

	domain.SortNewestFirst(matched)
	return matched, nil
}

func (s *Store) GetPreference(_ context.Context, userID string) (*domain.UserPreference, error) {
	s.storageLock.RLock()
	defer s.storageLock.RUnlock()

	p, ok := s.preferences[userID]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return &p, nil
}

func (s *Store) SavePreference(_ context.Context, pref domain.UserPreference) (*domain.UserPreference, error) {
	s.storageLock.Lock()
	defer s.storageLock.Unlock()

	now := domain.CanonicalTime(s.now())
	if existing, ok := s.preferences[pref.UserID]; ok {
		pref.CreatedAt = existing.CreatedAt
	} else {
		pref.CreatedAt = now
	}
	pref.UpdatedAt = now
	s.preferences[pref.UserID] = pref

	return &pref, nil
}

func (s *Store) Healthy(context.Context) bool {
	return true
}
