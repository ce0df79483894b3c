package provider

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/mmcdole/gofeed"
)

// RSSAdapter reads RSS and Atom feeds. Feed items carry no category
// unless the feed tags them, so the first item category is used when present.
type RSSAdapter struct {
	endpoint string
	source   string
	cfg      Config
	client   HTTPClient
}

func NewRSSAdapter(endpoint, source string, cfg Config, client HTTPClient) *RSSAdapter {
	return &RSSAdapter{endpoint: endpoint, source: source, cfg: cfg, client: client}
}

func (a *RSSAdapter) Name() string {
	return a.cfg.Name
}

func (a *RSSAdapter) Fetch(ctx context.Context) (*Batch, error) {
	endpoint := a.endpoint
	if a.cfg.BaseURL != "" {
		endpoint = a.cfg.BaseURL
	}

	body, err := fetch(ctx, a.client, a.Name(), a.cfg, endpoint, nil)
	if err != nil {
		return nil, err
	}

	feed, err := gofeed.NewParser().Parse(bytes.NewReader(body))
	if err != nil {
		return nil, apperr.NewFetch(a.Name(), fmt.Errorf("malformed feed: %w", err))
	}

	source := a.source
	if source == "" {
		source = strings.TrimSpace(feed.Title)
	}
	if source == "" {
		source = a.Name()
	}

	batch := &Batch{Provider: a.Name(), Candidates: make([]domain.Candidate, 0, len(feed.Items))}
	for i, item := range feed.Items {
		c := domain.Candidate{
			Provider:    a.Name(),
			Title:       sanitize(item.Title),
			Description: sanitize(item.Description),
			URL:         strings.TrimSpace(item.Link),
			Source:      source,
		}
		if len(item.Authors) > 0 && item.Authors[0] != nil {
			c.Author = item.Authors[0].Name
		}
		if len(item.Categories) > 0 {
			c.Category = item.Categories[0]
		}

		switch {
		case item.PublishedParsed != nil:
			c.PublishedAt = *item.PublishedParsed
		case item.UpdatedParsed != nil:
			c.PublishedAt = *item.UpdatedParsed
		default:
			c.RawPublishedAt = item.Published
		}

		c, recErr := finishCandidate(a.Name(), i, c, nil)
		if recErr != nil {
			batch.Dropped = append(batch.Dropped, recErr)
			continue
		}
		batch.Candidates = append(batch.Candidates, c)
	}

	slog.Info("Fetched feed items",
		"provider", a.Name(),
		"items", len(feed.Items),
		"candidates", len(batch.Candidates),
		"dropped", len(batch.Dropped))

	return batch, nil
}
