package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default text handler. debug turns on
// request-level logging across the scrapers.
func InitSlog(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
