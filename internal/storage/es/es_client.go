package es

import (
	"context"
	"log/slog"

	"github.com/elastic/go-elasticsearch/v8"
)

const (
	DefaultArticlesIndex    = "articles"
	DefaultPreferencesIndex = "user_preferences"
)

type ClientConfig struct {
	Addresses            []string
	IndexName            string
	PreferencesIndexName string
	Username             string
	Password             string
}

func (c ClientConfig) articlesIndex() string {
	if c.IndexName == "" {
		return DefaultArticlesIndex
	}
	return c.IndexName
}

func (c ClientConfig) preferencesIndex() string {
	if c.PreferencesIndexName == "" {
		return DefaultPreferencesIndex
	}
	return c.PreferencesIndexName
}

func NewClient(config ClientConfig) (*elasticsearch.TypedClient, error) {
	cfg := elasticsearch.Config{
		Addresses: config.Addresses,
	}

	if config.Username != "" && config.Password != "" {
		cfg.Username = config.Username
		cfg.Password = config.Password
	}

	return elasticsearch.NewTypedClient(cfg)
}

type HealthChecker struct {
	client *elasticsearch.TypedClient
}

func NewHealthChecker(client *elasticsearch.TypedClient) *HealthChecker {
	return &HealthChecker{client: client}
}

func (hc *HealthChecker) Healthy(ctx context.Context) bool {
	ok, err := hc.client.Ping().Do(ctx)
	if err != nil {
		slog.Warn("Elasticsearch health check failed", "error", err)
		return false
	}
	return ok
}
