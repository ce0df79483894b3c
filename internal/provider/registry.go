package provider

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/reader"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/apis"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

type Feed struct {
	Name string
	URL  string
}

// Settings selects which adapters are registered. Builtin providers are
// enabled by their API key.
type Settings struct {
	NewsAPIKey     string
	NewsAPICountry string
	// NewsAPIFrom and NewsAPITo bound the published date range, ISO 8601.
	NewsAPIFrom    string
	NewsAPITo      string
	NYTKey         string
	NYTSection     string
	Feeds          []Feed
	ConfigPath     string
	Timeout        time.Duration
}

func LoadSettings() (*Settings, error) {
	timeout, err := env.Duration("PROVIDER_TIMEOUT", DefaultTimeout)
	if err != nil {
		return nil, err
	}
	feeds, err := ParseFeeds(os.Getenv("RSS_FEEDS"))
	if err != nil {
		return nil, err
	}

	from, err := dateParam("NEWS_API_FROM")
	if err != nil {
		return nil, err
	}
	to, err := dateParam("NEWS_API_TO")
	if err != nil {
		return nil, err
	}

	return &Settings{
		NewsAPIKey:     env.String("NEWS_API_KEY", ""),
		NewsAPICountry: env.String("NEWS_API_COUNTRY", "us"),
		NewsAPIFrom:    from,
		NewsAPITo:      to,
		NYTKey:         env.String("NYT_API_KEY", ""),
		NYTSection:     env.String("NYT_SECTION", "home"),
		Feeds:          feeds,
		ConfigPath:     env.String("PROVIDERS_CONFIG_PATH", ""),
		Timeout:        timeout,
	}, nil
}

// dateParam reads an optional date or RFC 3339 timestamp from key.
func dateParam(key string) (string, error) {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return "", nil
	}
	if _, err := time.Parse(time.DateOnly, v); err == nil {
		return v, nil
	}
	if _, err := time.Parse(time.RFC3339, v); err == nil {
		return v, nil
	}
	return "", fmt.Errorf("invalid %s %q, expected YYYY-MM-DD or RFC 3339", key, v)
}

// ParseFeeds parses a comma separated list of name=url pairs.
func ParseFeeds(raw string) ([]Feed, error) {
	var feeds []Feed
	for _, pair := range utils.SplitAndTrim(raw, ",") {
		name, u, ok := strings.Cut(pair, "=")
		name, u = strings.TrimSpace(name), strings.TrimSpace(u)
		if !ok || name == "" || u == "" {
			return nil, fmt.Errorf("invalid RSS feed %q, expected name=url", pair)
		}
		feeds = append(feeds, Feed{Name: name, URL: u})
	}
	return feeds, nil
}

// Build constructs every configured adapter. Names must be unique.
func Build(s *Settings, client HTTPClient) ([]Adapter, error) {
	var adapters []Adapter
	seen := make(map[string]bool)
	add := func(a Adapter) error {
		if seen[a.Name()] {
			return fmt.Errorf("duplicate provider name %q", a.Name())
		}
		seen[a.Name()] = true
		adapters = append(adapters, a)
		return nil
	}

	if s.NewsAPIKey != "" {
		a, err := NewJSONAdapter(NewsAPI(), Config{
			APIKey:  s.NewsAPIKey,
			Params: map[string]string{
				"country": s.NewsAPICountry,
				"from":    s.NewsAPIFrom,
				"to":      s.NewsAPITo,
			},
			Timeout: s.Timeout,
		}, client)
		if err != nil {
			return nil, err
		}
		if err := add(a); err != nil {
			return nil, err
		}
	} else {
		slog.Warn("NEWS_API_KEY not set, provider disabled", "provider", NewsAPIName)
	}

	if s.NYTKey != "" {
		a, err := NewJSONAdapter(NYTimes(), Config{
			APIKey:  s.NYTKey,
			Params:  map[string]string{"section": s.NYTSection},
			Timeout: s.Timeout,
		}, client)
		if err != nil {
			return nil, err
		}
		if err := add(a); err != nil {
			return nil, err
		}
	} else {
		slog.Warn("NYT_API_KEY not set, provider disabled", "provider", NYTimesName)
	}

	for _, f := range s.Feeds {
		if err := add(NewRSSAdapter(f.URL, "", Config{Name: f.Name, Timeout: s.Timeout}, client)); err != nil {
			return nil, err
		}
	}

	if s.ConfigPath != "" {
		set, err := reader.LoadFile(s.ConfigPath)
		if err != nil {
			return nil, err
		}
		for _, p := range set.Providers {
			a, err := FromSpec(p, s.Timeout, client)
			if err != nil {
				return nil, err
			}
			if err := add(a); err != nil {
				return nil, err
			}
		}
		slog.Info("Loaded providers file", "path", s.ConfigPath, "name", set.Metadata.Name, "providers", len(set.Providers))
	}

	return adapters, nil
}

// FromSpec builds the adapter for a declared provider. The API key is read from
// the variable named by APIKeyEnv.
func FromSpec(p apis.Provider, timeout time.Duration, client HTTPClient) (Adapter, error) {
	cfg := Config{Name: p.Name, Timeout: timeout}
	if p.APIKeyEnv != "" {
		cfg.APIKey = os.Getenv(p.APIKeyEnv)
	}

	if p.Type == apis.ProviderTypeRSS {
		return NewRSSAdapter(p.Endpoint, p.Source, cfg, client), nil
	}
	return NewJSONAdapter(p, cfg, client)
}
