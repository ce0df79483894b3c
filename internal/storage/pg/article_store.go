package pg

import (
	"context"
	"errors"
	"fmt"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/sqlbuild"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const articleColumns = "id, title, description, url, source, author, category, published_at, created_at, updated_at"

// The WHERE on the conflict branch skips rows whose content is identical, so an
// unchanged re-ingest returns no row at all. xmax = 0 only holds for a freshly inserted tuple.
const upsertArticleSQL = `
	INSERT INTO articles (dedup_key, title, description, url, source, author, category, published_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	ON CONFLICT (dedup_key) DO UPDATE SET
		title        = EXCLUDED.title,
		description  = EXCLUDED.description,
		url          = EXCLUDED.url,
		source       = EXCLUDED.source,
		author       = EXCLUDED.author,
		category     = EXCLUDED.category,
		published_at = EXCLUDED.published_at,
		updated_at   = now()
	WHERE (articles.title, articles.description, articles.url, articles.source, articles.author, articles.category, articles.published_at)
		IS DISTINCT FROM
		(EXCLUDED.title, EXCLUDED.description, EXCLUDED.url, EXCLUDED.source, EXCLUDED.author, EXCLUDED.category, EXCLUDED.published_at)
	RETURNING id, (xmax = 0) AS inserted
`

type ArticleStore struct {
	db *pgxpool.Pool
}

func NewArticleStore(pool *ConnectionPool) *ArticleStore {
	return &ArticleStore{db: pool.conn}
}

func (s *ArticleStore) Upsert(ctx context.Context, key string, a domain.Article) (storage.UpsertResult, error) {
	var (
		id       uuid.UUID
		inserted bool
	)
	err := s.db.QueryRow(ctx, upsertArticleSQL,
		key, a.Title, a.Description, a.URL, a.Source, a.Author, a.Category, a.PublishedAt.UTC(),
	).Scan(&id, &inserted)

	switch {
	case errors.Is(err, pgx.ErrNoRows):
		if err := s.db.QueryRow(ctx, `SELECT id FROM articles WHERE dedup_key = $1`, key).Scan(&id); err != nil {
			return storage.UpsertResult{}, fmt.Errorf("failed to read unchanged article: %w", err)
		}
		return storage.UpsertResult{ID: id, Outcome: storage.Unchanged}, nil
	case err != nil:
		return storage.UpsertResult{}, fmt.Errorf("failed to upsert article: %w", err)
	case inserted:
		return storage.UpsertResult{ID: id, Outcome: storage.Created}, nil
	default:
		return storage.UpsertResult{ID: id, Outcome: storage.Updated}, nil
	}
}

func (s *ArticleStore) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	return s.one(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = $1`, id)
}

func (s *ArticleStore) FindByKey(ctx context.Context, key string) (*domain.Article, error) {
	return s.one(ctx, `SELECT `+articleColumns+` FROM articles WHERE dedup_key = $1`, key)
}

func (s *ArticleStore) one(ctx context.Context, sql string, arg any) (*domain.Article, error) {
	rows, err := s.db.Query(ctx, sql, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query article: %w", err)
	}

	a, err := pgx.CollectExactlyOneRow(rows, scanArticle)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan article: %w", err)
	}
	return &a, nil
}

func (s *ArticleStore) Search(ctx context.Context, criteria domain.Criteria, page pagination.OffsetRequest) ([]domain.Article, int64, error) {
	q := sqlbuild.New(sqlbuild.Postgres{}).Where(criteria)

	var total int64
	if err := s.db.QueryRow(ctx, `SELECT count(*) FROM articles`+q.Clause(), q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}
	if total == 0 {
		return []domain.Article{}, 0, nil
	}

	limit := q.Arg(page.Size)
	offset := q.Arg(page.Offset())
	sql := `SELECT ` + articleColumns + ` FROM articles` + q.Clause() + sqlbuild.OrderNewestFirst + ` LIMIT ` + limit + ` OFFSET ` + offset

	articles, err := s.collect(ctx, sql, q.Args)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (s *ArticleStore) List(ctx context.Context, criteria domain.Criteria) ([]domain.Article, error) {
	q := sqlbuild.New(sqlbuild.Postgres{}).Where(criteria)
	return s.collect(ctx, `SELECT `+articleColumns+` FROM articles`+q.Clause()+sqlbuild.OrderNewestFirst, q.Args)
}

func (s *ArticleStore) collect(ctx context.Context, sql string, args []any) ([]domain.Article, error) {
	rows, err := s.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}

	articles, err := pgx.CollectRows(rows, scanArticle)
	if err != nil {
		return nil, fmt.Errorf("failed to scan articles: %w", err)
	}
	return articles, nil
}

func scanArticle(row pgx.CollectableRow) (domain.Article, error) {
	var a domain.Article
	err := row.Scan(
		&a.ID,
		&a.Title,
		&a.Description,
		&a.URL,
		&a.Source,
		&a.Author,
		&a.Category,
		&a.PublishedAt,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	a.PublishedAt = a.PublishedAt.UTC()
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return a, err
}
