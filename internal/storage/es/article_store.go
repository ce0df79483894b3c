package es

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/refresh"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/result"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types/enums/sortorder"
	"github.com/google/uuid"
)

// upsertScript overwrites the mutable fields only when one of them differs,
// otherwise the update is reported as a noop.
const upsertScript = `
boolean same = true;
for (entry in params.doc.entrySet()) {
  if (!Objects.equals(ctx._source[entry.getKey()], entry.getValue())) { same = false; break; }
}
if (same) { ctx.op = 'noop'; } else { ctx._source.putAll(params.doc); ctx._source.updated_at = params.now; }
`

const listBatchSize = 500

type ArticleStore struct {
	client    *elasticsearch.TypedClient
	indexName string
	now       func() time.Time
}

func NewArticleStore(ctx context.Context, client *elasticsearch.TypedClient, config ClientConfig) (*ArticleStore, error) {
	s := &ArticleStore{
		client:    client,
		indexName: config.articlesIndex(),
		now:       time.Now,
	}

	if err := ensureIndex(ctx, client, s.indexName, NewIndexBuilder().articleMapping()); err != nil {
		return nil, fmt.Errorf("failed to ensure index exists: %w", err)
	}

	return s, nil
}

type updateBody struct {
	Script struct {
		Source string         `json:"source"`
		Lang   string         `json:"lang"`
		Params map[string]any `json:"params"`
	} `json:"script"`
	Upsert ArticleDocument `json:"upsert"`
}

func (s *ArticleStore) Upsert(ctx context.Context, key string, a domain.Article) (storage.UpsertResult, error) {
	id := documentID(key)
	now := s.now()

	var body updateBody
	body.Script.Source = upsertScript
	body.Script.Lang = "painless"
	body.Script.Params = map[string]any{
		"doc": mutableFields(a),
		"now": formatTime(now),
	}
	body.Upsert = toDocument(id, key, a, now)

	raw, err := json.Marshal(body)
	if err != nil {
		return storage.UpsertResult{}, fmt.Errorf("failed to marshal upsert: %w", err)
	}

	res, err := s.client.Update(s.indexName, id.String()).
		Raw(bytes.NewReader(raw)).
		RetryOnConflict(3).
		Refresh(refresh.True).
		Do(ctx)
	if err != nil {
		return storage.UpsertResult{}, fmt.Errorf("failed to upsert document: %w", err)
	}

	out := storage.UpsertResult{ID: id}
	switch res.Result {
	case result.Created:
		out.Outcome = storage.Created
	case result.Updated:
		out.Outcome = storage.Updated
	default:
		out.Outcome = storage.Unchanged
	}

	slog.Debug("Document upserted", "id", id, "index", s.indexName, "result", res.Result)
	return out, nil
}

func (s *ArticleStore) Get(ctx context.Context, id uuid.UUID) (*domain.Article, error) {
	res, err := s.client.Get(s.indexName, id.String()).Do(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	if !res.Found {
		return nil, storage.ErrNotFound
	}

	var doc ArticleDocument
	if err := json.Unmarshal(res.Source_, &doc); err != nil {
		return nil, fmt.Errorf("failed to unmarshal document: %w", err)
	}
	a, err := doc.toArticle()
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *ArticleStore) FindByKey(ctx context.Context, key string) (*domain.Article, error) {
	return s.Get(ctx, documentID(key))
}

func (s *ArticleStore) Search(ctx context.Context, criteria domain.Criteria, page pagination.OffsetRequest) ([]domain.Article, int64, error) {
	res, err := s.client.Search().
		Index(s.indexName).
		Query(buildQuery(criteria)).
		From(page.Offset()).
		Size(page.Size).
		Sort(newestFirst()...).
		TrackTotalHits(true).
		Do(ctx)
	if err != nil {
		slog.Error("Elasticsearch query failed", "error", err)
		return nil, 0, fmt.Errorf("failed to execute search: %w", err)
	}

	articles, err := mapHits(res.Hits.Hits)
	if err != nil {
		return nil, 0, err
	}

	var total int64
	if res.Hits.Total != nil {
		total = res.Hits.Total.Value
	}
	return articles, total, nil
}

// List walks the whole result set with search_after so it is not bound by the
// max result window.
func (s *ArticleStore) List(ctx context.Context, criteria domain.Criteria) ([]domain.Article, error) {
	query := buildQuery(criteria)
	articles := make([]domain.Article, 0)

	var after []types.FieldValue
	for {
		req := s.client.Search().
			Index(s.indexName).
			Query(query).
			Size(listBatchSize).
			Sort(newestFirst()...)
		if after != nil {
			req = req.SearchAfter(after...)
		}

		res, err := req.Do(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list documents: %w", err)
		}

		batch, err := mapHits(res.Hits.Hits)
		if err != nil {
			return nil, err
		}
		articles = append(articles, batch...)

		if len(res.Hits.Hits) < listBatchSize {
			return articles, nil
		}
		after = res.Hits.Hits[len(res.Hits.Hits)-1].Sort
	}
}

func newestFirst() []types.SortCombinations {
	desc := sortorder.Desc
	return []types.SortCombinations{
		&types.SortOptions{SortOptions: map[string]types.FieldSort{"published_at": {Order: &desc}}},
		&types.SortOptions{SortOptions: map[string]types.FieldSort{"id": {Order: &desc}}},
	}
}

func buildQuery(c domain.Criteria) *types.Query {
	var filters []types.Query

	if c.Keyword != "" {
		pattern := "*" + escapeWildcard(c.Keyword) + "*"
		caseInsensitive := true
		filters = append(filters, types.Query{
			Bool: &types.BoolQuery{
				Should: []types.Query{
					{Wildcard: map[string]types.WildcardQuery{"title.keyword": {Value: &pattern, CaseInsensitive: &caseInsensitive}}},
					{Wildcard: map[string]types.WildcardQuery{"description.keyword": {Value: &pattern, CaseInsensitive: &caseInsensitive}}},
				},
				MinimumShouldMatch: "1",
			},
		})
	}
	if from, to, ok := c.DayRange(); ok {
		gte, lt := formatTime(from), formatTime(to)
		filters = append(filters, types.Query{
			Range: map[string]types.RangeQuery{"published_at": types.DateRangeQuery{Gte: &gte, Lt: &lt}},
		})
	}
	if c.Category != "" {
		filters = append(filters, term("category", c.Category))
	}
	if c.Source != "" {
		filters = append(filters, term("source", c.Source))
	}
	for field, values := range map[string][]string{"source": c.Sources, "category": c.Categories, "author": c.Authors} {
		if len(values) > 0 {
			filters = append(filters, terms(field, values))
		}
	}

	if len(filters) == 0 {
		return &types.Query{MatchAll: &types.MatchAllQuery{}}
	}
	return &types.Query{Bool: &types.BoolQuery{Filter: filters}}
}

func term(field, value string) types.Query {
	return types.Query{Term: map[string]types.TermQuery{field: {Value: value}}}
}

func terms(field string, values []string) types.Query {
	fv := make([]types.FieldValue, len(values))
	for i, v := range values {
		fv[i] = v
	}
	return types.Query{Terms: &types.TermsQuery{TermsQuery: map[string]types.TermsQueryField{field: fv}}}
}

func escapeWildcard(s string) string {
	return strings.NewReplacer(`\`, `\\`, `*`, `\*`, `?`, `\?`).Replace(s)
}

func mapHits(hits []types.Hit) ([]domain.Article, error) {
	articles := make([]domain.Article, 0, len(hits))
	for _, hit := range hits {
		var doc ArticleDocument
		if err := json.Unmarshal(hit.Source_, &doc); err != nil {
			return nil, fmt.Errorf("failed to unmarshal hit: %w", err)
		}
		a, err := doc.toArticle()
		if err != nil {
			return nil, err
		}
		articles = append(articles, a)
	}
	return articles, nil
}
