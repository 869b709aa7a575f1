// Package navguard guards an in-progress activity against accidental navigation.
//
// A Guard sits between the UI and a navigable history. While the UI reports that an
// activity (a game, a quiz) is running, the guard parks a sentinel entry on top of the
// activity's history entry. A back or forward move off the sentinel is intercepted and
// the user is asked, exactly once, whether to leave. Approving finishes the move;
// rejecting restores the sentinel so the next attempt is caught again.
//
// # Basic Usage
//
//	session := history.NewSession(history.Location{Screen: ScreenHome})
//	guard := navguard.New(session, navguard.Options{
//	    Policy:          navguard.PolicyFunc(showDialog),
//	    OnConfirmedExit: func() { quiz.Abandon() },
//	})
//	defer guard.Close()
//
//	guard.SetEnabled(quiz.InProgress())
//
//	// Exit button inside the activity
//	if err := guard.Back(); navguard.IsRejected(err) {
//	    // user chose to stay
//	}
//
// Decisions are made only from the guard's own flags, never from absolute history
// positions, so unrelated navigation sharing the same history cannot confuse it.
package navguard

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/BrandonKowalski/navguard/pkg/navguard/constants"
	"github.com/BrandonKowalski/navguard/pkg/navguard/history"
	"github.com/BrandonKowalski/navguard/pkg/navguard/locale"
	"go.uber.org/atomic"
)

// History is the navigable history a guard protects. *history.Session implements it.
type History interface {
	Push(state any) error
	Go(delta int) error
	Subscribe(fn history.Listener) (unsubscribe func())
}

// State is the guard's protection state.
type State int

const (
	StateDisarmed             State = iota // No sentinel, nothing intercepted
	StateArmed                             // Sentinel on top of the activity entry
	StateAwaitingConfirmation              // A prompt is open; history changes are ignored
)

func (s State) String() string {
	switch s {
	case StateDisarmed:
		return "disarmed"
	case StateArmed:
		return "armed"
	case StateAwaitingConfirmation:
		return "awaiting_confirmation"
	default:
		return "unknown"
	}
}

// promptOrigin records what opened a prompt.
type promptOrigin int

const (
	originHistory promptOrigin = iota // An intercepted history change, the sentinel is already left
	originExit                        // ConfirmExit or Back, the sentinel stays on top
)

// Sentinel is the history state of entries pushed by a Guard.
type Sentinel struct {
	Guard uint64
}

// IsSentinel reports whether a history entry state was pushed by a Guard.
func IsSentinel(state any) bool {
	_, ok := state.(Sentinel)
	return ok
}

var nextGuardID atomic.Uint64

// Guard is the navigation exit-guard controller.
// All methods are safe to call from any goroutine; the guard never holds its lock while
// calling the history, the policy, or the exit callback.
type Guard struct {
	mu sync.Mutex

	history History // nil when there is nothing to guard
	policy  Policy
	catalog *locale.Catalog
	message string
	locale  string
	onExit  func()
	async   bool
	timeout time.Duration
	logger  *slog.Logger

	enabled       bool
	state         State
	suppressing   bool
	allowExitOnce bool
	prompt        uint64 // generation of the open prompt
	sentinelLeft  bool   // the history moved off the sentinel while the prompt was open

	sentinel    Sentinel
	unsubscribe []func()
	ctx         context.Context
	cancel      context.CancelFunc
	pending     sync.WaitGroup
	closed      atomic.Bool
	stats       counters
}

// New creates a disarmed guard over the given history and subscribes to its changes and,
// when configured, to close notifications. A nil history yields a guard whose operations
// are all no-ops.
func New(h History, opts Options) *Guard {
	opts = opts.withDefaults()

	ctx, cancel := context.WithCancel(context.Background())
	g := &Guard{
		history:  h,
		policy:   opts.Policy,
		catalog:  opts.Catalog,
		message:  opts.Message,
		locale:   opts.Locale,
		onExit:   opts.OnConfirmedExit,
		async:    opts.Async,
		timeout:  opts.ConfirmTimeout,
		sentinel: Sentinel{Guard: nextGuardID.Inc()},
		ctx:      ctx,
		cancel:   cancel,
	}
	g.logger = opts.Logger.With("guard", g.sentinel.Guard)

	if h == nil {
		g.logger.Debug("No navigable history, guard disabled", "error", ErrNoHistory)
		return g
	}

	g.unsubscribe = append(g.unsubscribe, h.Subscribe(g.HandleChange))
	if opts.Unloader != nil {
		g.unsubscribe = append(g.unsubscribe, opts.Unloader.OnBeforeUnload(g.HandleUnload))
	}
	return g
}

// SetEnabled is the reactive "activity in progress" input. Turning it on arms the guard
// by pushing a sentinel entry; turning it off disarms it and removes the sentinel without
// prompting. Setting the current value again does nothing.
func (g *Guard) SetEnabled(enabled bool) {
	g.mu.Lock()
	if g.closed.Load() || enabled == g.enabled {
		g.mu.Unlock()
		return
	}
	g.enabled = enabled
	if g.history == nil {
		g.mu.Unlock()
		return
	}

	if enabled {
		if g.state != StateDisarmed {
			g.mu.Unlock()
			return
		}
		g.state = StateArmed
		g.mu.Unlock()
		g.pushSentinel("arm")
		return
	}

	switch g.state {
	case StateArmed:
		g.state = StateDisarmed
		g.suppressing = true
		g.mu.Unlock()
		g.popSentinel()

	case StateAwaitingConfirmation:
		// The open prompt's answer is dropped.
		g.state = StateDisarmed
		g.prompt++
		if g.sentinelLeft {
			g.mu.Unlock()
			g.logger.Debug("Disarmed while a prompt was open")
			return
		}
		g.suppressing = true
		g.mu.Unlock()
		g.popSentinel()

	default:
		g.mu.Unlock()
	}
}

// ConfirmExit asks the user whether to leave when the guard is armed and reports the
// answer, calling the exit callback on approval. It returns true without asking when the
// guard is not armed, and false when another prompt is already open or the guard was
// disarmed before the user answered. The history is not touched.
func (g *Guard) ConfirmExit() bool {
	if g.closed.Load() || g.history == nil {
		return true
	}
	return g.decideExit(false).approved
}

// Back leaves the activity on the user's behalf, for exit buttons inside the UI. It asks
// for confirmation first when armed; an approved exit skips the sentinel and the activity
// entry in one move so the user is not asked twice. Back returns ErrExitRejected when the
// user chose to stay and ErrExitAbandoned when the guard was disarmed while asking.
func (g *Guard) Back() error {
	if g.closed.Load() {
		return ErrClosed
	}
	if g.history == nil {
		return ErrNoHistory
	}

	d := g.decideExit(true)
	if !d.approved {
		return d.err
	}

	g.logger.Debug("Leaving activity", "depth", d.depth)
	if err := g.history.Go(-d.depth); err != nil {
		g.mu.Lock()
		g.allowExitOnce = false
		if d.skipsSentinel && g.state == StateDisarmed && g.enabled {
			g.state = StateArmed
		}
		g.mu.Unlock()
		return fmt.Errorf("navguard: back: %w", err)
	}
	return nil
}

// exitDecision is the outcome of an exit requested from the UI.
type exitDecision struct {
	approved      bool
	err           error // Why there is no exit, when not approved
	depth         int   // Entries to move back when leaving
	skipsSentinel bool  // depth includes the sentinel
}

// decideExit asks for confirmation when armed. With leaving set, an approval disarms the
// guard and grants the one-shot allowance before the exit callback runs, so the caller
// only moves the history back by depth.
func (g *Guard) decideExit(leaving bool) exitDecision {
	g.mu.Lock()
	switch g.state {
	case StateDisarmed:
		if leaving {
			g.allowExitOnce = true
		}
		g.mu.Unlock()
		return exitDecision{approved: true, depth: 1}
	case StateAwaitingConfirmation:
		g.mu.Unlock()
		return exitDecision{err: ErrExitRejected}
	}

	gen := g.beginPromptLocked(originExit)
	message := g.messageLocked()
	g.mu.Unlock()

	ok, perr := g.confirm("confirm_exit", message)

	g.mu.Lock()
	if g.closed.Load() || g.state != StateAwaitingConfirmation || g.prompt != gen {
		closed := g.closed.Load()
		g.mu.Unlock()
		g.logger.Debug("Dropping stale confirmation", "approved", ok)
		if closed {
			return exitDecision{err: ErrClosed}
		}
		return exitDecision{err: ErrExitAbandoned}
	}

	left := g.sentinelLeft
	g.sentinelLeft = false
	d := exitDecision{approved: ok}
	repush := false
	if ok && leaving {
		g.state = StateDisarmed
		g.allowExitOnce = true
		d.depth, d.skipsSentinel = 2, !left
		if left {
			d.depth = 1
		}
	} else {
		g.state = StateArmed
		repush = left
	}
	onExit := g.onExit
	g.mu.Unlock()

	if repush {
		g.pushSentinel("rearm")
	}
	if !ok {
		g.stats.rejected.Inc()
		d.err = ErrExitRejected
		if perr != nil {
			d.err = fmt.Errorf("%w: %w", ErrExitRejected, perr)
		}
		return d
	}
	g.stats.confirmed.Inc()
	g.fire(onExit)
	return d
}

// HandleChange processes a history change notification. It is subscribed automatically
// by New and only needs to be called directly by custom history adapters.
func (g *Guard) HandleChange(change history.Change) {
	g.mu.Lock()
	if g.closed.Load() {
		g.mu.Unlock()
		return
	}

	allowed := g.allowExitOnce
	g.allowExitOnce = false

	if g.suppressing {
		g.suppressing = false
		g.mu.Unlock()
		g.logger.Debug("Ignoring self-caused history change", "from", change.From, "to", change.To)
		return
	}
	if g.state == StateAwaitingConfirmation {
		g.sentinelLeft = true
		g.mu.Unlock()
		g.logger.Debug("Ignoring history change while a prompt is open", "from", change.From, "to", change.To)
		return
	}
	if g.state != StateArmed || allowed {
		g.mu.Unlock()
		return
	}

	gen := g.beginPromptLocked(originHistory)
	message := g.messageLocked()
	if g.async {
		g.pending.Add(1)
		g.mu.Unlock()
		go func() {
			defer g.pending.Done()
			ok, _ := g.confirm("history", message)
			g.resolveChange(gen, ok)
		}()
		return
	}
	g.mu.Unlock()

	ok, _ := g.confirm("history", message)
	g.resolveChange(gen, ok)
}

// HandleUnload requests the platform's native close warning while the guard is armed.
// It is subscribed automatically when Options.Unloader is set.
func (g *Guard) HandleUnload(ev *UnloadEvent) {
	g.mu.Lock()
	guarded := !g.closed.Load() && g.history != nil && g.state != StateDisarmed
	g.mu.Unlock()

	if guarded {
		ev.Prevent()
		g.stats.closeWarnings.Inc()
		g.logger.Debug("Close attempt while armed, requesting native warning")
	}
}

// Close releases all subscriptions and abandons any open prompt. The history is left
// untouched. Close is idempotent.
func (g *Guard) Close() error {
	if !g.closed.CompareAndSwap(false, true) {
		return nil
	}

	g.mu.Lock()
	g.prompt++
	g.suppressing = false
	g.allowExitOnce = false
	unsubscribe := g.unsubscribe
	g.unsubscribe = nil
	g.mu.Unlock()

	g.cancel()
	for _, u := range unsubscribe {
		u()
	}
	g.pending.Wait()
	g.logger.Debug("Guard closed")
	return nil
}

// Wait blocks until asynchronous prompts that are already open have been resolved.
func (g *Guard) Wait() {
	g.pending.Wait()
}

// State returns the current protection state.
func (g *Guard) State() State {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state
}

// Armed reports whether a sentinel is protecting the activity.
func (g *Guard) Armed() bool {
	return g.State() == StateArmed
}

// Enabled returns the last value passed to SetEnabled.
func (g *Guard) Enabled() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.enabled
}

// Stats returns a snapshot of the guard's counters.
func (g *Guard) Stats() Stats {
	return g.stats.snapshot()
}

// SetMessage replaces the confirmation text. An empty message restores the localized default.
func (g *Guard) SetMessage(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.message = message
}

// SetLocale changes the locale used for the default confirmation text.
func (g *Guard) SetLocale(locale string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.locale = locale
}

// SetOnConfirmedExit replaces the exit callback.
func (g *Guard) SetOnConfirmedExit(fn func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.onExit = fn
}

// Message returns the text the next prompt will show.
func (g *Guard) Message() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.messageLocked()
}

func (g *Guard) messageLocked() string {
	if g.message != "" {
		return g.message
	}
	if g.catalog == nil {
		catalog, err := locale.New()
		if err != nil {
			g.logger.Warn("Failed to load translations", "error", err)
			return constants.DefaultExitConfirmText
		}
		g.catalog = catalog
	}
	return g.catalog.ExitConfirm(g.locale)
}

func (g *Guard) beginPromptLocked(origin promptOrigin) uint64 {
	g.state = StateAwaitingConfirmation
	g.sentinelLeft = origin == originHistory
	g.prompt++
	return g.prompt
}

// resolveChange applies the answer to an intercepted history change, unless the guard
// was disarmed, closed or re-prompted in the meantime.
func (g *Guard) resolveChange(gen uint64, ok bool) {
	g.mu.Lock()
	if g.closed.Load() || g.state != StateAwaitingConfirmation || g.prompt != gen {
		g.mu.Unlock()
		g.logger.Debug("Dropping stale confirmation", "approved", ok)
		return
	}

	if !ok {
		g.state = StateArmed
		g.mu.Unlock()
		g.stats.rejected.Inc()
		g.pushSentinel("rearm")
		return
	}

	g.state = StateDisarmed
	g.allowExitOnce = true
	onExit := g.onExit
	g.mu.Unlock()

	g.stats.confirmed.Inc()
	g.fire(onExit)

	if err := g.history.Go(-1); err != nil {
		g.mu.Lock()
		g.allowExitOnce = false
		g.mu.Unlock()
		g.logger.Warn("Failed to finish confirmed navigation", "error", err)
	}
}

// confirm runs the policy and maps every failure to a rejection. A failed prompt is
// reported as a *PolicyError.
func (g *Guard) confirm(op, message string) (bool, error) {
	ctx, cancel := g.promptContext()
	defer cancel()

	g.stats.prompts.Inc()
	ok, err := ask(ctx, g.policy, message)
	if err != nil {
		perr := NewPolicyError(op, err)
		g.stats.policyFailures.Inc()
		if IsTimeout(perr) {
			g.stats.policyTimeouts.Inc()
			g.logger.Warn("Confirmation timed out, staying", "op", op, "timeout", g.timeout)
		} else {
			g.logger.Warn("Confirmation failed, staying", "error", perr)
		}
		return false, perr
	}
	g.logger.Debug("Confirmation answered", "op", op, "approved", ok)
	return ok, nil
}

func (g *Guard) promptContext() (context.Context, context.CancelFunc) {
	if g.timeout < 0 {
		return context.WithCancel(g.ctx)
	}
	return context.WithTimeout(g.ctx, g.timeout)
}

func (g *Guard) popSentinel() {
	g.logger.Debug("Disarming, removing sentinel")
	if err := g.history.Go(-1); err != nil {
		g.mu.Lock()
		g.suppressing = false
		g.mu.Unlock()
		g.logger.Warn("Failed to remove sentinel", "error", err)
	}
}

func (g *Guard) pushSentinel(reason string) {
	if err := g.history.Push(g.sentinel); err != nil {
		g.mu.Lock()
		if g.state == StateArmed {
			g.state = StateDisarmed
		}
		g.mu.Unlock()
		g.logger.Warn("Failed to push sentinel, activity is unguarded", "reason", reason, "error", err)
		return
	}
	g.stats.sentinelsPushed.Inc()
	g.logger.Debug("Sentinel pushed", "reason", reason)
}

// fire runs the exit callback. A panicking callback is logged, never propagated.
func (g *Guard) fire(fn func()) {
	if fn == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			g.logger.Error("Exit callback panicked", "panic", fmt.Sprint(r))
		}
	}()
	fn()
}
