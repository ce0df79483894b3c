package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/api/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/server"
	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/dto"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/personalize"
	"github.com/DjordjeVuckovic/news-aggregator/internal/search"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/in_mem"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/storagetest"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	e     *echo.Echo
	store *in_mem.Store
	ids   []uuid.UUID
}

func newFixture(t *testing.T, runner ingest.Runner) *fixture {
	t.Helper()
	store := in_mem.NewStore()
	base := storagetest.Base
	ids := storagetest.Seed(t, store,
		storagetest.Article("Tech Innovations", "Tech Source", "Technology", "John Doe", base),
		storagetest.Article("Health Tips", "Example Source", "Health", "Jane Doe", base.Add(-time.Hour)),
		storagetest.Article("Chip Shortage", "Other Source", "Technology", "John Doe", base.Add(-24*time.Hour)),
	)

	e := echo.New()
	e.Validator = server.NewValidator()
	e.HTTPErrorHandler = apperr.GlobalErrorHandler()

	NewArticleRouter(e, search.NewEngine(store)).Bind()
	NewPreferenceRouter(e, personalize.NewService(store, personalize.NewMatcher(store)), auth.NewHeaderUser()).Bind()
	if runner != nil {
		NewIngestRouter(e, runner).Bind()
	}
	return &fixture{e: e, store: store, ids: ids}
}

func (f *fixture) do(t *testing.T, method, target, body, user string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if user != "" {
		req.Header.Set(auth.UserIDHeader, user)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func titles(items []dto.Article) []string {
	out := make([]string, 0, len(items))
	for _, a := range items {
		out = append(out, a.Title)
	}
	return out
}

func TestArticleRouter_List(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/articles?page=1&per_page=2", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[dto.ArticlePage](t, rec)
	assert.Equal(t, []string{"Tech Innovations", "Health Tips"}, titles(page.Items))
	assert.EqualValues(t, 3, page.Total)
	assert.Equal(t, 2, page.Size)
	assert.True(t, page.HasMore)
}

func TestArticleRouter_List_BadPage(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/articles?page=abc", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestArticleRouter_Search(t *testing.T) {
	tests := []struct {
		name   string
		query  string
		status int
		want   []string
	}{
		{name: "category and source", query: "category=Technology&source=Tech+Source", status: http.StatusOK, want: []string{"Tech Innovations"}},
		{name: "keyword", query: "keyword=health", status: http.StatusOK, want: []string{"Health Tips"}},
		{name: "date", query: "date=2024-09-20", status: http.StatusOK, want: []string{"Chip Shortage"}},
		{name: "bad date", query: "date=yesterday", status: http.StatusUnprocessableEntity},
	}

	f := newFixture(t, nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/articles/search?"+tt.query, "", "")
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			if tt.want != nil {
				assert.Equal(t, tt.want, titles(decode[dto.ArticlePage](t, rec).Items))
			}
		})
	}
}

func TestArticleRouter_Get(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/articles/"+f.ids[0].String(), "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Tech Innovations", decode[dto.Article](t, rec).Title)

	rec = f.do(t, http.MethodGet, "/articles/"+uuid.NewString(), "", "")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Article not found")

	rec = f.do(t, http.MethodGet, "/articles/not-a-uuid", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestPreferenceRouter(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/preferences", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = f.do(t, http.MethodGet, "/preferences", "", "u1")
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "No preferences found")

	rec = f.do(t, http.MethodPost, "/preferences", `{}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	blank := decode[dto.Preference](t, rec)
	assert.Equal(t, "u1", blank.UserID)
	assert.Empty(t, blank.Sources)
	assert.Empty(t, blank.Categories)
	assert.Empty(t, blank.Authors)

	rec = f.do(t, http.MethodGet, "/personalized-feed", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[dto.Feed](t, rec).Total)

	rec = f.do(t, http.MethodPost, "/preferences", `{"sources": "not a list"}`, "u1")
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.do(t, http.MethodPost, "/preferences", `{"sources": ["Example Source"], "categories": ["Health"]}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	saved := decode[dto.Preference](t, rec)
	assert.Equal(t, "u1", saved.UserID)
	assert.Equal(t, []string{"Example Source"}, saved.Sources)
	assert.Equal(t, []string{}, saved.Authors)

	rec = f.do(t, http.MethodPost, "/preferences", `{"categories": []}`, "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	updated := decode[dto.Preference](t, rec)
	assert.Equal(t, []string{"Example Source"}, updated.Sources)
	assert.Empty(t, updated.Categories)

	rec = f.do(t, http.MethodGet, "/preferences", "", "u1")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, updated.Sources, decode[dto.Preference](t, rec).Sources)
}

func TestPreferenceRouter_Feed(t *testing.T) {
	f := newFixture(t, nil)

	rec := f.do(t, http.MethodGet, "/personalized-feed", "", "newcomer")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 3, decode[dto.Feed](t, rec).Total)

	rec = f.do(t, http.MethodPost, "/preferences", `{"authors": ["John Doe"]}`, "u2")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = f.do(t, http.MethodGet, "/personalized-feed", "", "u2")
	require.Equal(t, http.StatusOK, rec.Code)
	feed := decode[dto.Feed](t, rec)
	assert.Equal(t, []string{"Tech Innovations", "Chip Shortage"}, titles(feed.Items))

	rec = f.do(t, http.MethodGet, "/personalized-feed", "", "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type stubRunner struct {
	summary *ingest.Summary
	err     error
}

func (s *stubRunner) Run(ctx context.Context) (*ingest.Summary, error) {
	return s.summary, s.err
}

func TestIngestRouter(t *testing.T) {
	runner := &stubRunner{summary: &ingest.Summary{
		Providers: []ingest.ProviderSummary{{Name: "newsapi", Status: ingest.StatusOK}},
		Succeeded: 1,
	}}
	f := newFixture(t, runner)

	rec := f.do(t, http.MethodPost, "/ingest", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	summary := decode[ingest.Summary](t, rec)
	assert.Equal(t, 1, summary.Succeeded)
	assert.Equal(t, "newsapi", summary.Providers[0].Name)

	runner.summary, runner.err = nil, ingest.ErrRunInProgress
	rec = f.do(t, http.MethodPost, "/ingest", "", "")
	assert.Equal(t, http.StatusConflict, rec.Code)

	runner.err = &apperr.StoreError{Op: "x", Err: errors.New("down")}
	rec = f.do(t, http.MethodPost, "/ingest", "", "")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	runner.err = fmt.Errorf("unexpected")
	rec = f.do(t, http.MethodPost, "/ingest", "", "")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "unexpected")
}

func TestIngestRouter_EndToEnd(t *testing.T) {
	f := newFixture(t, nil)
	adapter := &fakeAdapter{candidates: []domain.Candidate{{
		Title:       "Fresh Story",
		URL:         "https://example.com/fresh",
		Source:      "Example Source",
		PublishedAt: storagetest.Base.Add(time.Hour),
	}}}
	NewIngestRouter(f.e, newOrchestrator(f.store, adapter)).Bind()

	rec := f.do(t, http.MethodPost, "/ingest", "", "")
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	summary := decode[ingest.Summary](t, rec)
	assert.Equal(t, 1, summary.Totals.Created)

	rec = f.do(t, http.MethodGet, "/articles?per_page=1", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	page := decode[dto.ArticlePage](t, rec)
	assert.Equal(t, []string{"Fresh Story"}, titles(page.Items))
	assert.Equal(t, domain.DefaultAuthor, page.Items[0].Author)
}
