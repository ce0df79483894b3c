package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Article is the canonical, provider-independent record kept in the corpus.
type Article struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	URL         string    `json:"url"`
	Source      string    `json:"source"`
	Author      string    `json:"author"`
	Category    string    `json:"category"`
	PublishedAt time.Time `json:"publishedAt"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// SameContent reports whether the mutable fields of both articles are equal.
// Bookkeeping fields (id, created/updated timestamps) are ignored.
func (a Article) SameContent(other Article) bool {
	return a.Title == other.Title &&
		a.Description == other.Description &&
		a.URL == other.URL &&
		a.Source == other.Source &&
		a.Author == other.Author &&
		a.Category == other.Category &&
		a.PublishedAt.Equal(other.PublishedAt)
}

// Candidate is what a provider adapter hands to reconciliation.
// RawPublishedAt is only consulted when PublishedAt is zero.
type Candidate struct {
	Provider       string
	Title          string
	Description    string
	URL            string
	Source         string
	Author         string
	Category       string
	PublishedAt    time.Time
	RawPublishedAt string
}

// Article converts the candidate into an article with no identity yet.
func (c Candidate) Article() Article {
	return Article{
		Title:       c.Title,
		Description: c.Description,
		URL:         c.URL,
		Source:      c.Source,
		Author:      c.Author,
		Category:    c.Category,
		PublishedAt: c.PublishedAt,
	}
}

// CanonicalTime returns t in UTC truncated to whole seconds.
func CanonicalTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}

func trimAll(a *Article) {
	a.Title = strings.TrimSpace(a.Title)
	a.Description = strings.TrimSpace(a.Description)
	a.URL = strings.TrimSpace(a.URL)
	a.Source = strings.TrimSpace(a.Source)
	a.Author = strings.TrimSpace(a.Author)
	a.Category = strings.TrimSpace(a.Category)
}
