package main

import (
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// logLevels maps config values to slog levels. Unknown values fall back
// to info.
var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

func setupLogging(levelStr string) {
	prod := productionEnv()

	level, ok := logLevels[strings.ToLower(strings.TrimSpace(levelStr))]
	if !ok {
		level = slog.LevelInfo
		if !prod && levelStr == "" {
			level = slog.LevelDebug
		}
	}

	var handler slog.Handler
	if prod {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level:       level,
			ReplaceAttr: renameTimestamp,
		})
	} else {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      level,
			AddSource:  true,
			TimeFormat: "15:04:05.000",
		})
	}
	slog.SetDefault(slog.New(handler))

	// Route the standard logger through slog as well.
	log.SetFlags(0)
	log.SetOutput(slog.NewLogLogger(handler, slog.LevelInfo).Writer())
}

func productionEnv() bool {
	switch os.Getenv("MEMECAT_ENV") {
	case "prod", "production":
		return true
	}
	return false
}

// renameTimestamp emits the time attribute as "ts" in UTC RFC3339Nano.
func renameTimestamp(groups []string, a slog.Attr) slog.Attr {
	if a.Key == slog.TimeKey {
		return slog.String("ts", a.Value.Time().UTC().Format(time.RFC3339Nano))
	}
	return a
}
