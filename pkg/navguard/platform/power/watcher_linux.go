//go:build linux

package power

import (
	"context"
	"fmt"
	"time"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
	"github.com/BrandonKowalski/navguard/pkg/navguard/internal"
	"github.com/holoplot/go-evdev"
)

// Watch reads power key events from cfg.DevicePath until ctx ends. Every short press
// runs notifier.Notify; onAttempt, when set, receives whether a guard asked to warn.
func Watch(ctx context.Context, cfg Config, notifier *navguard.UnloadNotifier, onAttempt func(prevented bool)) error {
	cfg = cfg.withDefaults()
	logger := internal.GetInternalLogger().With("platform", "power", "device", cfg.DevicePath)

	dev, err := evdev.Open(cfg.DevicePath)
	if err != nil {
		return fmt.Errorf("power: open %s: %w", cfg.DevicePath, err)
	}

	// Closing the device unblocks ReadOne.
	stop := context.AfterFunc(ctx, func() { _ = dev.Close() })
	defer func() {
		if stop() {
			_ = dev.Close()
		}
	}()

	logger.Debug("Watching power button", "code", cfg.ButtonCode)

	tracker := &pressTracker{cfg: cfg}
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return fmt.Errorf("power: read %s: %w", cfg.DevicePath, err)
		}

		if ev.Type != evdev.EV_KEY || uint16(ev.Code) != cfg.ButtonCode {
			continue
		}
		if !tracker.observe(ev.Value, time.Now()) {
			continue
		}

		prevented := notifier.Notify()
		logger.Debug("Power button close attempt", "prevented", prevented)
		if onAttempt != nil {
			onAttempt(prevented)
		}
	}
}
