// Package power turns a hardware power button into close attempts.
//
// On handhelds the power button is how users leave an application, so a short press
// runs the same close notification a window close would. Long presses are left to
// the system.
package power

import (
	"time"

	"github.com/BrandonKowalski/navguard/pkg/navguard/constants"
)

// KeyPower is the Linux input code of the power key.
const KeyPower = 116

// Config controls which device is watched and how presses are classified.
type Config struct {
	DevicePath    string        // e.g. /dev/input/event1
	ButtonCode    uint16        // Default: KeyPower
	ShortPressMax time.Duration // Presses held longer are ignored
	CoolDown      time.Duration // Attempts within this window of the last one are ignored
}

func (c Config) withDefaults() Config {
	if c.ButtonCode == 0 {
		c.ButtonCode = KeyPower
	}
	if c.ShortPressMax <= 0 {
		c.ShortPressMax = constants.DefaultPowerShortPress
	}
	if c.CoolDown <= 0 {
		c.CoolDown = constants.DefaultPowerCoolDown
	}
	return c
}

// Key event values reported by the kernel.
const (
	keyReleased int32 = 0
	keyPressed  int32 = 1
)

// pressTracker classifies key events into close attempts.
type pressTracker struct {
	cfg         Config
	pressedAt   time.Time
	lastAttempt time.Time
}

// observe reports whether the event ends a short press that counts as a close attempt.
func (t *pressTracker) observe(value int32, now time.Time) bool {
	switch value {
	case keyPressed:
		t.pressedAt = now
		return false

	case keyReleased:
		if t.pressedAt.IsZero() {
			return false
		}
		held := now.Sub(t.pressedAt)
		t.pressedAt = time.Time{}

		if held > t.cfg.ShortPressMax {
			return false
		}
		if !t.lastAttempt.IsZero() && now.Sub(t.lastAttempt) < t.cfg.CoolDown {
			return false
		}
		t.lastAttempt = now
		return true
	}

	// Autorepeat
	return false
}
