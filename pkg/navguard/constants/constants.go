// Package constants defines shared constants and environment configuration
// used throughout navguard.
package constants

import (
	"os"
	"strings"
	"time"
)

// Environment variables read by navguard.
const (
	LocaleEnvVar   = "NAVGUARD_LOCALE"    // Overrides the configured message locale (e.g. "es")
	LogLevelEnvVar = "NAVGUARD_LOG_LEVEL" // Overrides the internal log level (debug, info, warn, error)
	LogPathEnvVar  = "NAVGUARD_LOG_PATH"  // Full path of the log file
)

// EnvOr returns the trimmed value of the environment variable, or fallback when unset or blank.
func EnvOr(name, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		return v
	}
	return fallback
}

// Message defaults.
const (
	DefaultLocale          = "en"
	ExitConfirmMessageID   = "ExitActivityConfirm"
	DefaultExitConfirmText = "Are you sure you want to leave the activity?"

	// NativeCloseWarning is the generic text used where the platform has no close
	// prompt of its own. It mirrors what browsers show on tab close.
	NativeCloseWarning = "Changes you made may not be saved."
)

// Default timing constants.
const (
	DefaultConfirmTimeout  = 5 * time.Minute       // Upper bound on a single confirmation prompt
	DefaultPowerShortPress = 2 * time.Second       // Longer presses are left to the system
	DefaultPowerCoolDown   = 1 * time.Second       // Ignore repeated presses within this window
	DefaultEventPollDelay  = 16 * time.Millisecond // Event bridge idle delay between polls
)
