package factory

import (
	"context"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/es"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/pg"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/sqlite"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
)

// Stores bundles the article and preference stores of one backend together with
// its health check and cleanup.
type Stores struct {
	Articles      storage.ArticleStore
	Preferences   storage.PreferenceStore
	HealthChecker pkgserver.HealthChecker

	closeFn func()
}

func (s *Stores) Close() {
	if s.closeFn != nil {
		s.closeFn()
	}
}

// NewStores creates the stores for the configured storage type
func NewStores(ctx context.Context, cfg *StorageConfig) (*Stores, error) {
	switch cfg.Type {
	case storage.PG:
		if cfg.Pg == nil {
			return nil, fmt.Errorf("invalid config for PostgreSQL storage: missing pool config")
		}

		pool, err := pg.NewConnectionPool(ctx, *cfg.Pg)
		if err != nil {
			return nil, fmt.Errorf("failed to create PostgreSQL connection pool: %w", err)
		}

		return &Stores{
			Articles:      pg.NewArticleStore(pool),
			Preferences:   pg.NewPreferenceStore(pool),
			HealthChecker: pg.NewHealthChecker(pool),
			closeFn:       pool.Close,
		}, nil

	case storage.ES:
		if cfg.Es == nil {
			return nil, fmt.Errorf("invalid config for Elasticsearch storage: missing client config")
		}

		client, err := es.NewClient(*cfg.Es)
		if err != nil {
			return nil, fmt.Errorf("failed to create Elasticsearch client: %w", err)
		}
		articles, err := es.NewArticleStore(ctx, client, *cfg.Es)
		if err != nil {
			return nil, err
		}
		preferences, err := es.NewPreferenceStore(ctx, client, *cfg.Es)
		if err != nil {
			return nil, err
		}

		return &Stores{
			Articles:      articles,
			Preferences:   preferences,
			HealthChecker: es.NewHealthChecker(client),
		}, nil

	case storage.SQLite:
		sqliteCfg := sqlite.Config{}
		if cfg.SQLite != nil {
			sqliteCfg = *cfg.SQLite
		}

		db, err := sqlite.Open(ctx, sqliteCfg)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite storage: %w", err)
		}

		return &Stores{
			Articles:      sqlite.NewArticleStore(db),
			Preferences:   sqlite.NewPreferenceStore(db),
			HealthChecker: sqlite.NewHealthChecker(db),
			closeFn:       func() { _ = db.Close() },
		}, nil

	case storage.InMem:
		s := in_mem.NewStore()
		return &Stores{
			Articles:      s,
			Preferences:   s,
			HealthChecker: s,
		}, nil

	default:
		return nil, fmt.Errorf(string(storage.ErrUnsupportedStorer), cfg.Type)
	}
}
