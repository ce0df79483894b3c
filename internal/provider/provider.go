// Package provider fetches articles from external news sources and maps each
// provider's payload onto domain.Candidate.
package provider

import (
	"context"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
)

const DefaultTimeout = 15 * time.Second

// Adapter fetches the latest articles of one provider.
// A whole-fetch failure is returned as *apperr.FetchError; records that could not
// be mapped are reported in Batch.Dropped.
type Adapter interface {
	Name() string
	Fetch(ctx context.Context) (*Batch, error)
}

type Batch struct {
	Provider   string
	Candidates []domain.Candidate
	Dropped    []*apperr.RecordError
}

// Config is injected into an adapter at construction.
type Config struct {
	Name    string
	APIKey  string
	BaseURL string // replaces the mapping endpoint, mostly for tests and proxies
	Params  map[string]string
	Timeout time.Duration
}

func (c Config) timeout() time.Duration {
	if c.Timeout <= 0 {
		return DefaultTimeout
	}
	return c.Timeout
}
