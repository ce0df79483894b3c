package logger

import (
	"log/slog"
	"os"
	"strings"
)

// Init installs the default slog logger. Level is one of debug, info, warn, error;
// format is text or json.
func Init(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: ParseLevel(level),
	}

	var handler slog.Handler
	if strings.EqualFold(format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	l := slog.New(handler)
	slog.SetDefault(l)
	return l
}

func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// FromEnv initializes logging from LOG_LEVEL and LOG_FORMAT.
func FromEnv() *slog.Logger {
	return Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_FORMAT"))
}
