package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/sqlbuild"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
)

const articleColumns = "id, title, description, url, source, author, category, published_at, created_at, updated_at"

type ArticleStore struct {
	db  *sql.DB
	now func() time.Time
}

func NewArticleStore(db *sql.DB) *ArticleStore {
	return &ArticleStore{db: db, now: time.Now}
}

func (s *ArticleStore) Upsert(ctx context.Context, key string, a domain.Article) (storage.UpsertResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storage.UpsertResult{}, fmt.Errorf("failed to begin upsert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	now := formatTime(s.now())
	existing, err := scanArticle(tx.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE dedup_key = ?`, key))

	var res storage.UpsertResult
	switch {
	case errors.Is(err, storage.ErrNotFound):
		res = storage.UpsertResult{ID: uuid.New(), Outcome: storage.Created}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO articles (id, dedup_key, title, description, url, source, author, category, published_at, created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			res.ID.String(), key, a.Title, a.Description, a.URL, a.Source, a.Author, a.Category, formatTime(a.PublishedAt), now, now,
		)
		if err != nil {
			return storage.UpsertResult{}, fmt.Errorf("failed to insert article: %w", err)
		}
	case err != nil:
		return storage.UpsertResult{}, fmt.Errorf("failed to look up article: %w", err)
	case existing.SameContent(a):
		return storage.UpsertResult{ID: existing.ID, Outcome: storage.Unchanged}, nil
	default:
		res = storage.UpsertResult{ID: existing.ID, Outcome: storage.Updated}
		_, err = tx.ExecContext(ctx, `
			UPDATE articles
			SET title = ?, description = ?, url = ?, source = ?, author = ?, category = ?, published_at = ?, updated_at = ?
			WHERE id = ?`,
			a.Title, a.Description, a.URL, a.Source, a.Author, a.Category, formatTime(a.PublishedAt), now, existing.ID.String(),
		)
		if err != nil {
			return storage.UpsertResult{}, fmt.Errorf("failed to update article: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storage.UpsertResult{}, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return res, nil
}

func (s *ArticleStore) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE id = ?`, id.String()))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleStore) FindByKey(ctx context.Context, key string) (*domain.Article, error) {
	a, err := scanArticle(s.db.QueryRowContext(ctx, `SELECT `+articleColumns+` FROM articles WHERE dedup_key = ?`, key))
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleStore) Search(ctx context.Context, criteria domain.Criteria, page pagination.OffsetRequest) ([]domain.Article, int64, error) {
	q := sqlbuild.New(sqlbuild.SQLite{}).Where(criteria)

	var total int64
	if err := s.db.QueryRowContext(ctx, `SELECT count(*) FROM articles`+q.Clause(), q.Args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count articles: %w", err)
	}
	if total == 0 {
		return []domain.Article{}, 0, nil
	}

	sqlText := `SELECT ` + articleColumns + ` FROM articles` + q.Clause() + sqlbuild.OrderNewestFirst + ` LIMIT ` + q.Arg(page.Size) + ` OFFSET ` + q.Arg(page.Offset())
	articles, err := s.collect(ctx, sqlText, q.Args)
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

func (s *ArticleStore) List(ctx context.Context, criteria domain.Criteria) ([]domain.Article, error) {
	q := sqlbuild.New(sqlbuild.SQLite{}).Where(criteria)
	return s.collect(ctx, `SELECT `+articleColumns+` FROM articles`+q.Clause()+sqlbuild.OrderNewestFirst, q.Args)
}

func (s *ArticleStore) collect(ctx context.Context, sqlText string, args []any) ([]domain.Article, error) {
	rows, err := s.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	articles := make([]domain.Article, 0)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}
	return articles, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanArticle(row scanner) (domain.Article, error) {
	var a domain.Article
	var id, published, created, updated string
	err := row.Scan(&id, &a.Title, &a.Description, &a.URL, &a.Source, &a.Author, &a.Category, &published, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return a, storage.ErrNotFound
	}
	if err != nil {
		return a, fmt.Errorf("failed to scan article: %w", err)
	}

	if a.ID, err = uuid.Parse(id); err != nil {
		return a, fmt.Errorf("failed to parse article id: %w", err)
	}
	if a.PublishedAt, err = parseTime(published); err != nil {
		return a, err
	}
	if a.CreatedAt, err = parseTime(created); err != nil {
		return a, err
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return a, err
	}
	return a, nil
}
