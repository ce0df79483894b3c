package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"maps"
	"net/url"
	"strings"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/apis"
)

// JSONAdapter maps a JSON payload holding an array of records onto candidates
// following a declarative apis.Provider mapping.
type JSONAdapter struct {
	spec   apis.Provider
	cfg    Config
	client HTTPClient
}

func NewJSONAdapter(spec apis.Provider, cfg Config, client HTTPClient) (*JSONAdapter, error) {
	if err := spec.Validate(); err != nil {
		return nil, fmt.Errorf("invalid provider %q: %w", spec.Name, err)
	}
	if spec.Type != apis.ProviderTypeJSON {
		return nil, fmt.Errorf("provider %q is not a json provider", spec.Name)
	}
	if cfg.Name == "" {
		cfg.Name = spec.Name
	}
	return &JSONAdapter{spec: spec, cfg: cfg, client: client}, nil
}

func (a *JSONAdapter) Name() string {
	return a.cfg.Name
}

func (a *JSONAdapter) Fetch(ctx context.Context) (*Batch, error) {
	endpoint, params := a.request()

	body, err := fetch(ctx, a.client, a.Name(), a.cfg, endpoint, params)
	if err != nil {
		return nil, err
	}

	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, apperr.NewFetch(a.Name(), fmt.Errorf("malformed payload: %w", err))
	}

	raw, ok := lookup(payload, a.spec.RecordsPath)
	if !ok {
		return nil, apperr.NewFetch(a.Name(), fmt.Errorf("malformed payload: missing %q", a.spec.RecordsPath))
	}
	records, ok := raw.([]any)
	if !ok {
		return nil, apperr.NewFetch(a.Name(), fmt.Errorf("malformed payload: %q is not an array", a.spec.RecordsPath))
	}

	batch := &Batch{Provider: a.Name(), Candidates: make([]domain.Candidate, 0, len(records))}
	for i, r := range records {
		rec, ok := r.(map[string]any)
		if !ok {
			batch.Dropped = append(batch.Dropped, apperr.NewRecord(a.Name(), i, "", "record is not an object", nil))
			continue
		}

		c, recErr := a.mapRecord(i, rec)
		if recErr != nil {
			batch.Dropped = append(batch.Dropped, recErr)
			continue
		}
		batch.Candidates = append(batch.Candidates, c)
	}

	slog.Info("Fetched provider records",
		"provider", a.Name(),
		"records", len(records),
		"candidates", len(batch.Candidates),
		"dropped", len(batch.Dropped))

	return batch, nil
}

func (a *JSONAdapter) mapRecord(index int, rec map[string]any) (domain.Candidate, *apperr.RecordError) {
	field := func(target string) string {
		path, ok := a.spec.Mapping(target)
		if !ok {
			return ""
		}
		v, _ := lookup(rec, path)
		return stringify(v)
	}

	c := domain.Candidate{
		Provider:       a.Name(),
		Title:          sanitize(field(apis.TargetTitle)),
		Description:    sanitize(field(apis.TargetDescription)),
		URL:            field(apis.TargetURL),
		Source:         field(apis.TargetSource),
		Author:         field(apis.TargetAuthor),
		Category:       field(apis.TargetCategory),
		RawPublishedAt: field(apis.TargetPublishedAt),
	}
	if a.spec.Source != "" {
		c.Source = a.spec.Source
	}
	if strings.TrimSpace(c.Source) == "" {
		c.Source = a.Name()
	}

	return finishCandidate(a.Name(), index, c, a.spec.DateFormats)
}

// request expands {placeholders} in the endpoint with params and returns the
// remaining params as the query string.
func (a *JSONAdapter) request() (string, url.Values) {
	merged := make(map[string]string, len(a.spec.Params)+len(a.cfg.Params))
	maps.Copy(merged, a.spec.Params)
	for k, v := range a.cfg.Params {
		if v != "" {
			merged[k] = v
		}
	}

	endpoint := a.spec.Endpoint
	if a.cfg.BaseURL != "" {
		endpoint = a.cfg.BaseURL
	}
	for k, v := range merged {
		placeholder := "{" + k + "}"
		if strings.Contains(endpoint, placeholder) {
			endpoint = strings.ReplaceAll(endpoint, placeholder, url.PathEscape(v))
			delete(merged, k)
		}
	}

	params := url.Values{}
	for k, v := range merged {
		params.Set(k, v)
	}
	if a.spec.APIKeyParam != "" && a.cfg.APIKey != "" {
		params.Set(a.spec.APIKeyParam, a.cfg.APIKey)
	}
	return endpoint, params
}

// finishCandidate applies defaults and resolves the timestamp, rejecting records
// that cannot become articles.
func finishCandidate(provider string, index int, c domain.Candidate, layouts []string) (domain.Candidate, *apperr.RecordError) {
	c = c.WithDefaults()
	if c.Title == "" {
		return c, apperr.NewRecord(provider, index, "", "missing title", nil)
	}

	if c.PublishedAt.IsZero() {
		if strings.TrimSpace(c.RawPublishedAt) == "" {
			return c, apperr.NewRecord(provider, index, c.Title, "missing published date", nil)
		}
		t, err := domain.ParseTimestamp(c.RawPublishedAt, layouts...)
		if err != nil {
			return c, apperr.NewRecord(provider, index, c.Title, "unparseable published date", err)
		}
		c.PublishedAt = t
	}
	c.PublishedAt = domain.CanonicalTime(c.PublishedAt)
	return c, nil
}

// lookup resolves a dotted path such as "source.name" inside nested objects.
func lookup(obj map[string]any, path string) (any, bool) {
	var cur any = obj
	for _, part := range strings.Split(path, ".") {
		m, ok := cur.(map[string]any)
		if !ok {
			return nil, false
		}
		if cur, ok = m[part]; !ok {
			return nil, false
		}
	}
	return cur, true
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64, bool:
		return fmt.Sprint(t)
	case []any:
		if len(t) > 0 {
			return stringify(t[0])
		}
		return ""
	default:
		return ""
	}
}
