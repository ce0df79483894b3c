package personalize

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

type Service struct {
	prefs   storage.PreferenceStore
	matcher *Matcher
}

func NewService(prefs storage.PreferenceStore, matcher *Matcher) *Service {
	return &Service{prefs: prefs, matcher: matcher}
}

// Save creates the user's preferences or replaces the provided dimensions of
// the existing ones.
func (s *Service) Save(ctx context.Context, userID string, update domain.PreferenceUpdate) (*domain.UserPreference, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.NewValidation("user id is required")
	}

	current, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}

	next := domain.UserPreference{UserID: userID}
	if current != nil {
		next = *current
	}
	next = update.Apply(next)

	saved, err := s.prefs.SavePreference(ctx, next)
	if err != nil {
		return nil, apperr.NewStore("save preferences", err)
	}
	slog.Info("Saved user preferences",
		"user_id", userID,
		"sources", len(saved.Sources),
		"categories", len(saved.Categories),
		"authors", len(saved.Authors))
	return saved, nil
}

func (s *Service) Get(ctx context.Context, userID string) (*domain.UserPreference, error) {
	pref, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	if pref == nil {
		return nil, apperr.NewNotFound("preferences", "No preferences found")
	}
	return pref, nil
}

// Feed personalizes the corpus for userID. A user without stored preferences
// gets the unfiltered corpus.
func (s *Service) Feed(ctx context.Context, userID string) ([]domain.Article, error) {
	pref, err := s.lookup(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.matcher.Personalize(ctx, pref)
}

func (s *Service) lookup(ctx context.Context, userID string) (*domain.UserPreference, error) {
	pref, err := s.prefs.GetPreference(ctx, userID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.NewStore("get preferences", err)
	}
	return pref, nil
}
