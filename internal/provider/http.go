package provider

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	userAgent       = "news-aggregator/1.0 (+https://github.com/DjordjeVuckovic/news-aggregator)"
	maxResponseSize = 10 << 20
)

type Response struct {
	Status int
	Body   []byte
}

// HTTPClient is the fetch capability adapters depend on.
type HTTPClient interface {
	Get(ctx context.Context, rawURL string, params url.Values) (*Response, error)
}

type StdClient struct {
	client *http.Client
}

func NewHTTPClient(client *http.Client) *StdClient {
	if client == nil {
		client = &http.Client{}
	}
	return &StdClient{client: client}
}

func (c *StdClient) Get(ctx context.Context, rawURL string, params url.Values) (*Response, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse url: %w", err)
	}
	if len(params) > 0 {
		q := u.Query()
		for k, vs := range params {
			for _, v := range vs {
				q.Add(k, v)
			}
		}
		u.RawQuery = q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json, application/rss+xml, application/atom+xml, */*")

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	return &Response{Status: resp.StatusCode, Body: body}, nil
}
