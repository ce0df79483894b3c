package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, hc pkgserver.HealthChecker) *Server {
	t.Helper()
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}}, hc).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")
	t.Cleanup(s.stop)
	return s
}

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer_HealthCheck(t *testing.T) {
	rec := serve(newTestServer(t, pkgserver.NewOkHealthChecker()), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)

	down := pkgserver.HealthCheckerFunc(func(context.Context) bool { return false })
	rec = serve(newTestServer(t, down), http.MethodGet, "/health")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestServer_ErrorHandler(t *testing.T) {
	s := newTestServer(t, pkgserver.NewOkHealthChecker())
	s.Echo.GET("/boom", func(c echo.Context) error {
		return apperr.NewConflict("busy")
	})
	s.Echo.GET("/panic", func(c echo.Context) error {
		panic("unexpected")
	})

	rec := serve(s, http.MethodGet, "/boom")
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = serve(s, http.MethodGet, "/panic")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	rec = serve(s, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_RateLimit(t *testing.T) {
	s := New(&Config{Port: "0", CorsOrigins: []string{"*"}, RateLimitPerMinute: 60}, pkgserver.NewOkHealthChecker()).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupHealthChecks("/health")
	t.Cleanup(s.stop)
	s.Echo.GET("/articles", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 60; i++ {
		rec := serve(s, http.MethodGet, "/articles")
		require.Equal(t, http.StatusOK, rec.Code, "request %d", i+1)
	}

	rec := serve(s, http.MethodGet, "/articles")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "Too many requests")

	rec = serve(s, http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)

	other := httptest.NewRequest(http.MethodGet, "/articles", nil)
	other.RemoteAddr = "203.0.113.7:4000"
	rec = httptest.NewRecorder()
	s.Echo.ServeHTTP(rec, other)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestServer_RateLimitDisabled(t *testing.T) {
	s := newTestServer(t, pkgserver.NewOkHealthChecker())
	s.Echo.GET("/articles", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})

	for i := 0; i < 100; i++ {
		require.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/articles").Code)
	}
}

func TestServer_RequestID(t *testing.T) {
	rec := serve(newTestServer(t, pkgserver.NewOkHealthChecker()), http.MethodGet, "/health")
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_ShutdownSignal(t *testing.T) {
	s := newTestServer(t, pkgserver.NewOkHealthChecker())
	select {
	case <-s.ShutdownSignal():
		t.Fatal("shutdown signalled before stop")
	default:
	}

	s.stop()
	<-s.ShutdownSignal()
	assert.Error(t, s.Context().Err())
}

type request struct {
	Name string `json:"name"`
}

func (r *request) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return apperr.NewValidation("name is required")
	}
	return nil
}

func TestValidator(t *testing.T) {
	v := NewValidator()

	assert.NoError(t, v.Validate(&request{Name: "x"}))
	assert.NoError(t, v.Validate(struct{}{}))

	err := v.Validate(&request{})
	require.Error(t, err)
	_, ok := err.(*apperr.ValidationError)
	assert.True(t, ok)
}

func TestLoadConfig(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("PORT", "9090")
	t.Setenv("USE_HTTP2", "true")
	t.Setenv("CORS_ORIGINS", " https://a.example.com , ,https://b.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.Port)
	assert.True(t, cfg.UseHttp2)
	assert.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, cfg.CorsOrigins)
	assert.Equal(t, DefaultRateLimitPerMinute, cfg.RateLimitPerMinute)

	t.Setenv("RATE_LIMIT_PER_MINUTE", "0")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Zero(t, cfg.RateLimitPerMinute)

	t.Setenv("RATE_LIMIT_PER_MINUTE", "-1")
	_, err = LoadConfig()
	assert.Error(t, err)
	t.Setenv("RATE_LIMIT_PER_MINUTE", "60")

	t.Setenv("PORT", "70000")
	_, err = LoadConfig()
	assert.Error(t, err)

	t.Setenv("PORT", "8080")
	t.Setenv("CORS_ORIGINS", "")
	cfg, err = LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, []string{"*"}, cfg.CorsOrigins)
}
