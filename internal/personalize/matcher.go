// Package personalize narrows the corpus to a user's preferred sources,
// categories and authors.
package personalize

import (
	"context"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
)

type Matcher struct {
	articles storage.ArticleSearcher
}

func NewMatcher(articles storage.ArticleSearcher) *Matcher {
	return &Matcher{articles: articles}
}

// Personalize returns the articles matching every non-empty dimension of prefs,
// newest first. A nil prefs returns the whole corpus.
func (m *Matcher) Personalize(ctx context.Context, prefs *domain.UserPreference) ([]domain.Article, error) {
	var criteria domain.Criteria
	if prefs != nil {
		criteria = prefs.Criteria()
	}

	articles, err := m.articles.List(ctx, criteria)
	if err != nil {
		return nil, apperr.NewStore("personalize", err)
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	return articles, nil
}
