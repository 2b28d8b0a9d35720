package telemetry

import (
	"log/slog"
	"os"
)

// InitSlog installs the default logger, logs go to stderr so they never
// mix with the output of the cli.
func InitSlog(verbose bool) {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	slog.SetDefault(slog.New(handler))
}
