package tlog

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"twdl/pkg/build"
	"twdl/pkg/config"

	slogmulti "github.com/samber/slog-multi"
	slogtelegram "github.com/samber/slog-telegram/v2"
)

// Init installs the default logger. A non-empty levelOverride wins over cfg.Log.Level.
func Init(cfg *config.Config, levelOverride string) error {
	levelName := cfg.Log.Level
	if levelOverride != "" {
		levelName = levelOverride
	}

	level, err := ParseLevel(levelName)
	if err != nil {
		return err
	}

	logHandlers := []slog.Handler{slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		AddSource: level == slog.LevelDebug,
		Level:     level,
	})}

	if cfg.Log.Telegram.Token != "" && cfg.Log.Telegram.ChatID != "" {
		logHandlers = append(logHandlers, slogtelegram.Option{
			Level:     slog.LevelError,
			Token:     cfg.Log.Telegram.Token,
			Username:  cfg.Log.Telegram.ChatID,
			AddSource: true,
		}.NewTelegramHandler())
	}

	multiHandler := slogmulti.Fanout(logHandlers...)
	ctxHandler := &contextHandler{multiHandler}

	logger := slog.New(ctxHandler).With(
		slog.String("app", "twdl"),
		slog.String("app_tag", build.Tag),
	)
	slog.SetDefault(logger)

	return nil
}

func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", name)
	}
}
