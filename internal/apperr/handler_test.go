package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestGlobalErrorHandler(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{name: "validation", err: fmt.Errorf("wrap: %w", apperr.NewValidation("invalid date")), wantStatus: http.StatusUnprocessableEntity, wantBody: "invalid date"},
		{name: "not found", err: apperr.NewNotFound("article", "Article not found"), wantStatus: http.StatusNotFound, wantBody: "Article not found"},
		{name: "conflict", err: apperr.NewConflict("ingestion already running"), wantStatus: http.StatusConflict, wantBody: "ingestion already running"},
		{name: "echo http error", err: echo.NewHTTPError(http.StatusUnauthorized, "missing user"), wantStatus: http.StatusUnauthorized, wantBody: "missing user"},
		{name: "store", err: apperr.NewStore("search", errors.New("dial tcp")), wantStatus: http.StatusServiceUnavailable, wantBody: "storage unavailable"},
		{name: "unknown", err: errors.New("boom"), wantStatus: http.StatusInternalServerError, wantBody: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)

			apperr.GlobalErrorHandler()(tt.err, c)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantBody)
			assert.NotContains(t, rec.Body.String(), "dial tcp")
		})
	}
}
