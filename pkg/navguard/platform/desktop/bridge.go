package desktop

import (
	"context"
	"log/slog"

	"github.com/BrandonKowalski/navguard/pkg/navguard"
	"github.com/BrandonKowalski/navguard/pkg/navguard/constants"
	"github.com/BrandonKowalski/navguard/pkg/navguard/internal"
	"github.com/veandco/go-sdl2/sdl"
)

// Navigator is the part of the history the bridge moves on a back press.
type Navigator interface {
	Back() error
}

// Bridge translates SDL events for a guarded application.
//
// A quit request runs the close notification; when a guard asked for a warning, the
// generic native warning is shown and the quit only proceeds if the user accepts it.
// Escape, the Android/AC back key and the controller B button move the history back,
// which an armed guard intercepts.
type Bridge struct {
	History  Navigator                // Moved back on back presses, may be nil
	Unloader *navguard.UnloadNotifier // Close notification, may be nil
	Window   *sdl.Window              // Parent of the native warning, may be nil
	BackKeys []sdl.Keycode            // Default: Escape and AC_BACK

	logger *slog.Logger
}

// Handle processes one event and reports whether the application should quit.
func (b *Bridge) Handle(event sdl.Event) (quit bool) {
	switch e := event.(type) {
	case *sdl.QuitEvent:
		return b.handleQuit()

	case *sdl.KeyboardEvent:
		if e.State == sdl.PRESSED && e.Repeat == 0 && b.isBackKey(e.Keysym.Sym) {
			b.back()
		}

	case *sdl.ControllerButtonEvent:
		if e.State == sdl.PRESSED && e.Button == uint8(sdl.CONTROLLER_BUTTON_B) {
			b.back()
		}
	}
	return false
}

// Run polls SDL events until a quit is accepted or ctx ends.
// It must run on the thread that initialized SDL.
func (b *Bridge) Run(ctx context.Context) error {
	for {
		for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
			if b.Handle(event) {
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}
		sdl.Delay(uint32(constants.DefaultEventPollDelay.Milliseconds()))
	}
}

func (b *Bridge) handleQuit() bool {
	if b.Unloader == nil || !b.Unloader.Notify() {
		return true
	}

	leave, err := showNativeCloseWarning(b.Window)
	if err != nil {
		b.log().Warn("Close warning unavailable, staying", "error", err)
		return false
	}
	return leave
}

func (b *Bridge) back() {
	if b.History == nil {
		return
	}
	if err := b.History.Back(); err != nil {
		b.log().Debug("Back press ignored", "error", err)
	}
}

func (b *Bridge) isBackKey(key sdl.Keycode) bool {
	keys := b.BackKeys
	if len(keys) == 0 {
		keys = []sdl.Keycode{sdl.K_ESCAPE, sdl.K_AC_BACK}
	}
	for _, k := range keys {
		if k == key {
			return true
		}
	}
	return false
}

func (b *Bridge) log() *slog.Logger {
	if b.logger == nil {
		b.logger = internal.GetInternalLogger().With("platform", "sdl")
	}
	return b.logger
}
