package backdrop

import (
	"log/slog"

	"github.com/gogpu/backdrop/internal/logging"
)

// SetLogger configures the logger for backdrop and all its sub-packages.
// By default, backdrop produces no log output. Call SetLogger to enable logging.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging (restore default silent behavior).
//
// Log levels used by backdrop:
//   - [slog.LevelDebug]: state transitions, probe defaults, shader compiles
//   - [slog.LevelInfo]: a mount activated its GPU effect
//   - [slog.LevelWarn]: GPU unavailable, load or runtime failures
//   - [slog.LevelError]: configuration failures such as unknown effects
//
// Example:
//
//	// Enable debug-level logging for full diagnostics:
//	backdrop.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger used by backdrop.
//
// Logger is safe for concurrent use.
func Logger() *slog.Logger {
	return logging.Logger()
}
