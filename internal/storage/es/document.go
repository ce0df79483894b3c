package es

import (
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/google/uuid"
)

// ArticleDocument is the stored shape of an article. Timestamps are kept as
// fixed-format strings so the upsert script can compare them verbatim.
type ArticleDocument struct {
	ID          string `json:"id"`
	DedupKey    string `json:"dedup_key"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	Author      string `json:"author"`
	Category    string `json:"category"`
	PublishedAt string `json:"published_at"`
	CreatedAt   string `json:"created_at,omitempty"`
	UpdatedAt   string `json:"updated_at,omitempty"`
}

type PreferenceDocument struct {
	UserID     string   `json:"user_id"`
	Sources    []string `json:"sources"`
	Categories []string `json:"categories"`
	Authors    []string `json:"authors"`
	CreatedAt  string   `json:"created_at"`
	UpdatedAt  string   `json:"updated_at"`
}

const timeLayout = time.RFC3339

// documentID derives the document id from the dedup key, so an upsert can target
// the document without a prior lookup.
func documentID(key string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(key))
}

// mutableFields returns the fields the upsert script compares and overwrites.
func mutableFields(a domain.Article) map[string]any {
	return map[string]any{
		"title":        a.Title,
		"description":  a.Description,
		"url":          a.URL,
		"source":       a.Source,
		"author":       a.Author,
		"category":     a.Category,
		"published_at": formatTime(a.PublishedAt),
	}
}

func toDocument(id uuid.UUID, key string, a domain.Article, now time.Time) ArticleDocument {
	return ArticleDocument{
		ID:          id.String(),
		DedupKey:    key,
		Title:       a.Title,
		Description: a.Description,
		URL:         a.URL,
		Source:      a.Source,
		Author:      a.Author,
		Category:    a.Category,
		PublishedAt: formatTime(a.PublishedAt),
		CreatedAt:   formatTime(now),
		UpdatedAt:   formatTime(now),
	}
}

func (d ArticleDocument) toArticle() (domain.Article, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return domain.Article{}, fmt.Errorf("failed to parse document id: %w", err)
	}
	a := domain.Article{
		ID:          id,
		Title:       d.Title,
		Description: d.Description,
		URL:         d.URL,
		Source:      d.Source,
		Author:      d.Author,
		Category:    d.Category,
	}
	if a.PublishedAt, err = parseTime(d.PublishedAt); err != nil {
		return domain.Article{}, err
	}
	if a.CreatedAt, err = parseTime(d.CreatedAt); err != nil {
		return domain.Article{}, err
	}
	if a.UpdatedAt, err = parseTime(d.UpdatedAt); err != nil {
		return domain.Article{}, err
	}
	return a, nil
}

func formatTime(t time.Time) string {
	return domain.CanonicalTime(t).Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse document time %q: %w", s, err)
	}
	return t.UTC(), nil
}

type IndexBuilder struct{}

func NewIndexBuilder() *IndexBuilder {
	return &IndexBuilder{}
}

func (b *IndexBuilder) articleMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"id":           types.NewKeywordProperty(),
			"dedup_key":    types.NewKeywordProperty(),
			"title":        b.textWithKeyword(),
			"description":  b.textWithKeyword(),
			"url":          types.NewKeywordProperty(),
			"source":       types.NewKeywordProperty(),
			"author":       types.NewKeywordProperty(),
			"category":     types.NewKeywordProperty(),
			"published_at": types.NewDateProperty(),
			"created_at":   types.NewDateProperty(),
			"updated_at":   types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) preferenceMapping() types.TypeMapping {
	return types.TypeMapping{
		Properties: map[string]types.Property{
			"user_id":    types.NewKeywordProperty(),
			"sources":    types.NewKeywordProperty(),
			"categories": types.NewKeywordProperty(),
			"authors":    types.NewKeywordProperty(),
			"created_at": types.NewDateProperty(),
			"updated_at": types.NewDateProperty(),
		},
	}
}

func (b *IndexBuilder) textWithKeyword() types.Property {
	textProp := types.NewTextProperty()
	textProp.Fields = map[string]types.Property{
		"keyword": types.NewKeywordProperty(),
	}
	return textProp
}
