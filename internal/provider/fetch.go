package provider

import (
	"context"
	"errors"
	"fmt"
	"net/url"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
)

// fetch performs a bounded GET and converts every failure mode into a FetchError.
func fetch(ctx context.Context, client HTTPClient, name string, cfg Config, endpoint string, params url.Values) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.timeout())
	defer cancel()

	resp, err := client.Get(ctx, endpoint, params)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, apperr.NewFetch(name, fmt.Errorf("timed out after %s: %w", cfg.timeout(), context.DeadlineExceeded))
		}
		return nil, apperr.NewFetch(name, err)
	}
	if resp.Status < 200 || resp.Status > 299 {
		return nil, apperr.NewFetchStatus(name, resp.Status, errors.New(snippet(resp.Body)))
	}
	return resp.Body, nil
}

func snippet(body []byte) string {
	const limit = 200
	if len(body) > limit {
		return string(body[:limit]) + "..."
	}
	return string(body)
}
