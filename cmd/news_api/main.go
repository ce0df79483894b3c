// Package main News Aggregator API
// @title News Aggregator API
// @version 1.0
// @description Aggregates articles from news providers and serves filtered and personalized views
// @termsOfService http://swagger.io/terms/
// @contact.name API Support
// @license.name Apache 2.0
// @license.url https://opensource.org/licenses/Apache-2.0
// @BasePath /
package main

import (
	"log/slog"
	"net/http"
	"os"

	_ "github.com/DjordjeVuckovic/news-aggregator/docs"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/auth"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/router"
	"github.com/DjordjeVuckovic/news-aggregator/internal/api/server"
	"github.com/DjordjeVuckovic/news-aggregator/internal/ingest"
	"github.com/DjordjeVuckovic/news-aggregator/internal/personalize"
	"github.com/DjordjeVuckovic/news-aggregator/internal/provider"
	"github.com/DjordjeVuckovic/news-aggregator/internal/reconcile"
	"github.com/DjordjeVuckovic/news-aggregator/internal/search"
	"github.com/DjordjeVuckovic/news-aggregator/internal/storage/factory"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/logger"
	pkgserver "github.com/DjordjeVuckovic/news-aggregator/pkg/server"
	"github.com/labstack/echo/v4"
)

func main() {
	logger.FromEnv()

	sCfg, err := server.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}

	heathChecker := pkgserver.NewOkHealthChecker()

	s := server.New(sCfg, heathChecker).
		SetupMiddlewares().
		SetupErrorHandler().
		SetupOpenApi("/swagger/*")

	s.Echo.GET("/", func(c echo.Context) error {
		return c.String(http.StatusOK, "News Aggregator API is running")
	})

	appSettings := NewAppConfig()
	cfg, err := appSettings.Load()
	if err != nil {
		slog.Error("Failed to load app configuration", "error", err)
		os.Exit(1)
		return
	}

	stores, err := factory.NewStores(s.Context(), &cfg.StorageConfig)
	if err != nil {
		slog.Error("Failed to create storage", "type", cfg.StorageConfig.Type, "error", err)
		os.Exit(1)
		return
	}
	s.SetupHealthChecks("/health", stores.HealthChecker)

	adapters, err := provider.Build(&cfg.ProviderConfig, provider.NewHTTPClient(nil))
	if err != nil {
		slog.Error("Failed to build provider adapters", "error", err)
		stores.Close()
		os.Exit(1)
		return
	}

	engine := reconcile.NewEngine(stores.Articles, cfg.IngestConfig.IdentityKey)
	orchestrator := ingest.NewOrchestrator(adapters, engine,
		ingest.WithConfig(ingest.Config{MaxConcurrency: cfg.IngestConfig.MaxConcurrency}))
	matcher := personalize.NewMatcher(stores.Articles)

	router.NewArticleRouter(s.Echo, search.NewEngine(stores.Articles)).Bind()
	router.NewPreferenceRouter(s.Echo, personalize.NewService(stores.Preferences, matcher), auth.NewHeaderUser()).Bind()
	router.NewIngestRouter(s.Echo, orchestrator).Bind()

	slog.Info("News aggregator configured",
		"storage", cfg.StorageConfig.Type,
		"providers", len(adapters),
		"identity_key", engine.Key())

	go func() {
		<-s.ShutdownSignal()
		slog.Info("Shutdown started, cleaning up resources...")
	}()

	err = s.Start()
	stores.Close()
	if err != nil {
		slog.Error("Failed to start server", "error", err)
		os.Exit(1)
	}
}
