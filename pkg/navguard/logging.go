package navguard

import (
	"log/slog"

	"github.com/BrandonKowalski/navguard/pkg/navguard/internal"
)

// SetLogLevel sets the minimum level of navguard's diagnostics.
func SetLogLevel(level slog.Level) {
	internal.SetInternalLogLevel(level)
}

// SetRawLogLevel parses and sets the log level from a string (e.g., "debug", "info", "error").
func SetRawLogLevel(level string) {
	internal.SetRawLogLevel(level)
}

// CloseLogger closes the log file, if one was opened.
func CloseLogger() {
	internal.CloseLogger()
}
