package dto

import (
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

type Article struct {
	ID          uuid.UUID `json:"id" swaggertype:"string" format:"uuid"`
	Title       string    `json:"title" example:"Tech Innovations"`
	Description string    `json:"description"`
	URL         string    `json:"url" example:"https://news.example.com/tech"`
	Source      string    `json:"source" example:"Tech Source"`
	Author      string    `json:"author" example:"Unknown"`
	Category    string    `json:"category" example:"General"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func FromArticle(a domain.Article) Article {
	return Article{
		ID:          a.ID,
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		Source:      a.Source,
		Author:      a.Author,
		Category:    a.Category,
		PublishedAt: a.PublishedAt,
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
}

func FromArticles(articles []domain.Article) []Article {
	out := make([]Article, 0, len(articles))
	for _, a := range articles {
		out = append(out, FromArticle(a))
	}
	return out
}

// ArticlePage is a page of articles as returned by the list and search endpoints.
type ArticlePage = pagination.OffsetResult[Article]

func FromPage(page *pagination.OffsetResult[domain.Article]) *ArticlePage {
	return &ArticlePage{
		Items:    FromArticles(page.Items),
		Total:    page.Total,
		Page:     page.Page,
		Size:     page.Size,
		LastPage: page.LastPage,
		HasMore:  page.HasMore,
	}
}

type Feed struct {
	Items []Article `json:"items"`
	Total int       `json:"total"`
}

func FromFeed(articles []domain.Article) Feed {
	items := FromArticles(articles)
	return Feed{Items: items, Total: len(items)}
}
