package sentry

import (
	"log/slog"
	"twdl/pkg/build"
	"twdl/pkg/config"

	"github.com/getsentry/sentry-go"
)

// Init configures the global Sentry hub. It reports false when no DSN is configured.
func Init(cfg *config.Config) (bool, error) {
	if cfg.Sentry.DSN == "" {
		slog.Debug("Sentry DSN not configured, skipping initialization")
		return false, nil
	}

	err := sentry.Init(sentry.ClientOptions{
		Dsn:              cfg.Sentry.DSN,
		Environment:      cfg.Sentry.Environment,
		TracesSampleRate: cfg.Sentry.TracesSampleRate,
		Release:          "twdl@" + build.Tag,
		AttachStacktrace: true,
	})
	if err != nil {
		return false, err
	}

	slog.Debug("Sentry initialized successfully",
		slog.String("environment", cfg.Sentry.Environment),
		slog.String("release", build.Tag),
	)

	return true, nil
}
