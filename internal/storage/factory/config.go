package factory

import (
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/es"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/sqlite"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

type StorageConfig struct {
	storage.Type
	Pg     *pg.PoolConfig
	Es     *es.ClientConfig
	SQLite *sqlite.Config
}

func LoadEnv() (*StorageConfig, error) {
	storageType := (storage.Type)(os.Getenv("STORAGE_TYPE"))
	if storageType == "" {
		slog.Error("STORAGE_TYPE environment variable is not set")
		return nil, fmt.Errorf("STORAGE_TYPE environment variable is not set")
	}
	if !slices.Contains(storage.Types, storageType) {
		slog.Error("Invalid STORAGE_TYPE environment variable value", "value", storageType)
		return nil, fmt.Errorf(
			"invalid STORAGE_TYPE environment variable value: %s, expected one of %v",
			storageType,
			storage.Types)
	}

	cfg := &StorageConfig{Type: storageType}

	switch storageType {
	case storage.ES:
		cfg.Es = &es.ClientConfig{
			Addresses:            utils.SplitAndTrim(os.Getenv("ES_ADDRESSES"), ","),
			IndexName:            env.String("ES_INDEX_NAME", es.DefaultArticlesIndex),
			PreferencesIndexName: env.String("ES_PREFERENCES_INDEX_NAME", es.DefaultPreferencesIndex),
			Username:             os.Getenv("ES_USERNAME"),
			Password:             os.Getenv("ES_PASSWORD"),
		}
		if len(cfg.Es.Addresses) == 0 {
			slog.Error("Elasticsearch configuration is incomplete", "addresses", cfg.Es.Addresses)
			return nil, fmt.Errorf("elasticsearch configuration is incomplete: addresses are missing")
		}

	case storage.PG:
		cfg.Pg = &pg.PoolConfig{
			ConnStr: os.Getenv("PG_CONNECTION_STRING"),
		}
		if cfg.Pg.ConnStr == "" {
			slog.Error("PostgreSQL connection string is not set")
			return nil, fmt.Errorf("PostgreSQL connection string is not set")
		}
		maxConns, err := env.Int("PG_MAX_CONNS", 0)
		if err != nil {
			return nil, err
		}
		cfg.Pg.MaxConns = int32(maxConns)

	case storage.SQLite:
		cfg.SQLite = &sqlite.Config{
			Path: env.String("SQLITE_PATH", "data/news.db"),
		}
	}

	return cfg, nil
}
