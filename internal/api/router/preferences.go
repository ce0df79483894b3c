package router

import (
	"context"
	"net/http"

	"github.com/DjordjeVuckovic/news-aggregator/internal/api/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/domain"
	"github.com/DjordjeVuckovic/news-aggregator/internal/dto"
	"github.com/labstack/echo/v4"
)

type PreferenceService interface {
	Save(ctx context.Context, userID string, update domain.PreferenceUpdate) (*domain.UserPreference, error)
	Get(ctx context.Context, userID string) (*domain.UserPreference, error)
	Feed(ctx context.Context, userID string) ([]domain.Article, error)
}

type PreferenceRouter struct {
	e       *echo.Echo
	service PreferenceService
	user    auth.CurrentUser
}

func NewPreferenceRouter(e *echo.Echo, service PreferenceService, user auth.CurrentUser) *PreferenceRouter {
	return &PreferenceRouter{
		e:       e,
		service: service,
		user:    user,
	}
}

func (r *PreferenceRouter) Bind() {
	r.e.POST("/preferences", r.saveHandler)
	r.e.GET("/preferences", r.getHandler)
	r.e.GET("/personalized-feed", r.feedHandler)
}

// saveHandler godoc
// @Summary Save preferences
// @Description Creates the caller's preferences or replaces the provided fields
// @Tags preferences
// @Accept json
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Param request body dto.PreferenceRequest true "Preference sets"
// @Success 200 {object} dto.Preference
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /preferences [post]
func (r *PreferenceRouter) saveHandler(c echo.Context) error {
	userID, err := r.user.UserID(c)
	if err != nil {
		return err
	}

	var req dto.PreferenceRequest
	if err := c.Bind(&req); err != nil {
		return err
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	saved, err := r.service.Save(c.Request().Context(), userID, req.Update())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromPreference(*saved))
}

// getHandler godoc
// @Summary Get preferences
// @Tags preferences
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {object} dto.Preference
// @Failure 401 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /preferences [get]
func (r *PreferenceRouter) getHandler(c echo.Context) error {
	userID, err := r.user.UserID(c)
	if err != nil {
		return err
	}

	pref, err := r.service.Get(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromPreference(*pref))
}

// feedHandler godoc
// @Summary Personalized feed
// @Description Articles matching the caller's preferences; the whole corpus when none are stored
// @Tags preferences
// @Produce json
// @Param X-User-ID header string true "Authenticated user"
// @Success 200 {object} dto.Feed
// @Failure 401 {object} map[string]string
// @Router /personalized-feed [get]
func (r *PreferenceRouter) feedHandler(c echo.Context) error {
	userID, err := r.user.UserID(c)
	if err != nil {
		return err
	}

	articles, err := r.service.Feed(c.Request().Context(), userID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, dto.FromFeed(articles))
}
