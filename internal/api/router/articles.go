package router

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/dto"
	"github.com/DjordjeVuckovic/news-aggregator/internal/search"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/pagination"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

type ArticleQuerier interface {
	Query(ctx context.Context, filters search.FilterSpec, page pagination.OffsetRequest) (*pagination.OffsetResult[domain.Article], error)
	Get(ctx context.Context, id uuid.UUID) (*domain.Article, error)
}

type ArticleRouter struct {
	e      *echo.Echo
	search ArticleQuerier
}

func NewArticleRouter(e *echo.Echo, search ArticleQuerier) *ArticleRouter {
	return &ArticleRouter{
		e:      e,
		search: search,
	}
}

func (r *ArticleRouter) Bind() {
	g := r.e.Group("/articles")
	g.GET("", r.listHandler)
	g.GET("/search", r.searchHandler)
	g.GET("/:id", r.getHandler)
}

type searchRequest struct {
	search.FilterSpec
	pagination.OffsetRequest
}

// listHandler godoc
// @Summary List articles
// @Description Paginated list of the corpus, newest first
// @Tags articles
// @Produce json
// @Param page query int false "Page number (1-based)" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.ArticlePage
// @Failure 400 {object} map[string]string
// @Router /articles [get]
func (r *ArticleRouter) listHandler(c echo.Context) error {
	var page pagination.OffsetRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &page); err != nil {
		return err
	}

	result, err := r.search.Query(c.Request().Context(), search.FilterSpec{}, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromPage(result))
}

// searchHandler godoc
// @Summary Search articles
// @Description Filters combine with AND; keyword matches title or description, case-insensitive
// @Tags articles
// @Produce json
// @Param keyword query string false "Substring of title or description"
// @Param date query string false "Publication day (YYYY-MM-DD)"
// @Param category query string false "Exact category"
// @Param source query string false "Exact source"
// @Param page query int false "Page number (1-based)" default(1)
// @Param per_page query int false "Page size (max 100)" default(10)
// @Success 200 {object} dto.ArticlePage
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /articles/search [get]
func (r *ArticleRouter) searchHandler(c echo.Context) error {
	var req searchRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return err
	}

	result, err := r.search.Query(c.Request().Context(), req.FilterSpec, req.OffsetRequest)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromPage(result))
}

// getHandler godoc
// @Summary Get article
// @Tags articles
// @Produce json
// @Param id path string true "Article ID" format(uuid)
// @Success 200 {object} dto.Article
// @Failure 404 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /articles/{id} [get]
func (r *ArticleRouter) getHandler(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return apperr.NewValidationWrap("id must be a valid UUID", err)
	}

	article, err := r.search.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromArticle(*article))
}
