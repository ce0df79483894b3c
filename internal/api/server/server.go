package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/DjordjeVuckovic/news-aggregator/internal/api/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/apperr"
	mw "github.com/DjordjeVuckovic/news-aggregator/pkg/middleware"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"golang.org/x/time/rate"
)

const (
	GracefulShutdownTimeout = 10 * time.Second
)

type Server struct {
	Echo *echo.Echo

	cfg           *Config
	healthChecker pkgserver.HealthChecker
	healthPath    string

	ctx  context.Context
	stop context.CancelFunc
}

// New creates the echo instance. The returned server context is cancelled on
// SIGINT or SIGTERM.
func New(cfg *Config, hc pkgserver.HealthChecker) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.DisableHTTP2 = !cfg.UseHttp2
	e.Validator = NewValidator()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	return &Server{
		Echo:          e,
		cfg:           cfg,
		healthChecker: hc,
		ctx:           ctx,
		stop:          stop,
	}
}

func (s *Server) SetupMiddlewares() *Server {
	s.Echo.Use(middleware.RequestID())
	s.Echo.Use(mw.Logger(mw.WithSkipper(func(c echo.Context) bool {
		return s.healthPath != "" && c.Path() == s.healthPath
	})))
	s.Echo.Use(middleware.Recover())
	s.Echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: s.cfg.CorsOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPut, http.MethodPost, http.MethodDelete},
		AllowHeaders: []string{echo.HeaderContentType, echo.HeaderAccept, auth.UserIDHeader},
	}))
	if s.cfg.RateLimitPerMinute > 0 {
		s.Echo.Use(s.rateLimiter())
	}
	return s
}

// rateLimiter allows RateLimitPerMinute requests per client IP, refilled evenly
// over the minute. The health probe is exempt.
func (s *Server) rateLimiter() echo.MiddlewareFunc {
	perMinute := s.cfg.RateLimitPerMinute
	store := middleware.NewRateLimiterMemoryStoreWithConfig(middleware.RateLimiterMemoryStoreConfig{
		Rate:      rate.Limit(float64(perMinute) / 60),
		Burst:     perMinute,
		ExpiresIn: 3 * time.Minute,
	})

	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return s.healthPath != "" && c.Path() == s.healthPath
		},
		Store: store,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		ErrorHandler: func(c echo.Context, err error) error {
			return echo.NewHTTPError(http.StatusForbidden, "Unable to identify client").SetInternal(err)
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			slog.Warn("Rate limit exceeded", "client", identifier, "path", c.Path())
			return echo.NewHTTPError(http.StatusTooManyRequests, "Too many requests").SetInternal(err)
		},
	})
}

func (s *Server) SetupErrorHandler() *Server {
	s.Echo.HTTPErrorHandler = apperr.GlobalErrorHandler()
	return s
}

// SetupHealthChecks serves path, reporting healthy only when the server health
// checker and every extra checker are.
func (s *Server) SetupHealthChecks(path string, checkers ...pkgserver.HealthChecker) *Server {
	s.healthPath = path
	if len(checkers) > 0 {
		s.healthChecker = pkgserver.All(append([]pkgserver.HealthChecker{s.healthChecker}, checkers...)...)
	}
	s.Echo.GET(path, func(c echo.Context) error {
		if !s.healthChecker.Healthy(c.Request().Context()) {
			return c.JSON(http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
		}
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	return s
}

func (s *Server) SetupOpenApi(path string) *Server {
	s.Echo.GET(path, echoSwagger.WrapHandler)
	return s
}

// Context is cancelled when a shutdown signal arrives.
func (s *Server) Context() context.Context {
	return s.ctx
}

func (s *Server) ShutdownSignal() <-chan struct{} {
	return s.ctx.Done()
}

func (s *Server) Start() error {
	defer s.stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "port", s.cfg.Port, "http2", s.cfg.UseHttp2)
		if err := s.Echo.Start(":" + s.cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-s.ctx.Done():
	case err := <-errCh:
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), GracefulShutdownTimeout)
	defer cancel()

	slog.Info("Shutting down HTTP server", "timeout", GracefulShutdownTimeout)
	if err := s.Echo.Shutdown(ctx); err != nil {
		return err
	}
	return nil
}
