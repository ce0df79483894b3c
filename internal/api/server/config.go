package server

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"github.com/DjordjeVuckovic/news-aggregator/pkg/config/env"
	"github.com/DjordjeVuckovic/news-aggregator/pkg/utils"
)

const DefaultRateLimitPerMinute = 60

type Config struct {
	Port        string
	UseHttp2    bool
	CorsOrigins []string
	// RateLimitPerMinute caps requests per client IP. Zero disables the limiter.
	RateLimitPerMinute int
}

func LoadConfig() (*Config, error) {
	err := env.LoadDotEnv(os.Getenv("ENV"), "cmd/news_api/.env")
	if err != nil {
		slog.Info("Skipping .env ...", "error", err)
	}

	port := env.String("PORT", "8080")
	if err := validatePort(port); err != nil {
		return nil, fmt.Errorf("invalid port: %w", err)
	}

	origins := utils.SplitAndTrim(os.Getenv("CORS_ORIGINS"), ",")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	rateLimit, err := env.Int("RATE_LIMIT_PER_MINUTE", DefaultRateLimitPerMinute)
	if err != nil {
		return nil, err
	}
	if rateLimit < 0 {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must not be negative, got %d", rateLimit)
	}

	return &Config{
		Port:               port,
		UseHttp2:           env.Bool("USE_HTTP2"),
		CorsOrigins:        origins,
		RateLimitPerMinute: rateLimit,
	}, nil
}

func validatePort(port string) error {
	portNum, err := strconv.Atoi(port)

	if err != nil {
		return errors.New("port must be a number")
	}

	if portNum < 1 || portNum > 65535 {
		return errors.New("port must be between 1 and 65535")
	}

	return nil
}
