package router

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/BrandonKowalski/navguard/pkg/navguard/history"
	"github.com/BrandonKowalski/navguard/pkg/navguard/internal"
)

// Screen is a type-safe identifier for screens.
// Applications should define their own Screen constants using iota.
type Screen int

// ScreenFunc runs a screen. It receives the input the screen was opened with and the
// resume state saved on its history entry (nil on a fresh visit).
type ScreenFunc func(input any, resume any) (result any, err error)

// TransitionFunc is called after each screen completes to determine the next screen.
// It receives the screen that just completed, its result, and the navigation stack.
//
// Return (screen, input) to navigate forward to a new screen.
// Return ScreenBack to move back one history entry.
// Return ScreenCurrent when the history was already moved (e.g. by navguard.Guard.Back).
// Return ScreenExit to exit the router.
type TransitionFunc func(from Screen, result any, stack *Stack) (next Screen, input any)

// Special Screen values understood by the router.
const (
	ScreenExit    Screen = -1 // Stop the router
	ScreenBack    Screen = -2 // Move the history back one entry
	ScreenCurrent Screen = -3 // Run whatever entry is current
)

// Router manages screen navigation with explicit data flow.
// Screens are registered with their functions, and a single transition
// function handles all routing logic in one place.
type Router struct {
	screens    map[Screen]ScreenFunc
	transition TransitionFunc
	session    *history.Session
	stack      *Stack
	logger     *slog.Logger
}

// New creates a Router with its own history, started by Run.
func New() *Router {
	return NewWithSession(nil)
}

// NewWithSession creates a Router that records navigation in the given session.
func NewWithSession(session *history.Session) *Router {
	r := &Router{
		screens: make(map[Screen]ScreenFunc),
		session: session,
		logger:  internal.GetInternalLogger().With("router", true),
	}
	if session != nil {
		r.stack = &Stack{session: session}
	}
	return r
}

// Register adds a screen to the router.
// The screen function will be called when navigating to this screen.
func (r *Router) Register(screen Screen, fn ScreenFunc) *Router {
	r.screens[screen] = fn
	return r
}

// OnTransition sets the transition function that determines navigation flow.
// This function is called after each screen completes.
func (r *Router) OnTransition(fn TransitionFunc) *Router {
	r.transition = fn
	return r
}

// Run navigates to the given screen and keeps running screens until the transition
// function returns ScreenExit, a back move runs out of history, or an error occurs.
func (r *Router) Run(start Screen, input any) error {
	if r.transition == nil {
		return fmt.Errorf("router: no transition function set")
	}

	loc := history.Location{Screen: int(start), Input: input}
	if r.session == nil {
		r.session = history.NewSession(loc)
		r.stack = &Stack{session: r.session}
	} else {
		r.session.Navigate(loc)
	}

	for {
		entry := r.session.Current()
		current := Screen(entry.Location.Screen)

		fn, ok := r.screens[current]
		if !ok {
			return fmt.Errorf("router: screen %d not registered", current)
		}

		result, err := fn(entry.Location.Input, entry.Location.Resume)
		if err != nil {
			return fmt.Errorf("router: screen %d error: %w", current, err)
		}

		next, nextInput := r.transition(current, result, r.stack)
		r.logger.Debug("Transition", "from", int(current), "to", int(next))

		switch next {
		case ScreenExit:
			return nil
		case ScreenCurrent:
		case ScreenBack:
			if err := r.session.Back(); err != nil {
				if errors.Is(err, history.ErrOutOfRange) {
					return nil
				}
				return fmt.Errorf("router: back from screen %d: %w", current, err)
			}
		default:
			r.session.Navigate(history.Location{Screen: int(next), Input: nextInput})
		}
	}
}

// Stack returns the navigation stack for use in transition functions.
// It is nil until the router has a session.
func (r *Router) Stack() *Stack {
	return r.stack
}

// Session returns the history the router records navigation in.
func (r *Router) Session() *history.Session {
	return r.session
}
