package timechart

import (
	"log/slog"

	"github.com/gogpu/timechart/internal/logging"
)

// SetLogger configures the logger for timechart and all its sub-packages.
// By default, timechart produces no log output. Call SetLogger to enable
// logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by timechart:
//   - [slog.LevelDebug]: segment allocation, release and resync
//   - [slog.LevelInfo]: lifecycle events (chart created, disposed, GPU surface ready)
//   - [slog.LevelWarn]: non-fatal issues (texture release errors, failed frames)
//
// Example:
//
//	timechart.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by timechart.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.L()
}
