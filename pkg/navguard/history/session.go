package history

import (
	"errors"
	"fmt"
	"sync"
)

// ErrOutOfRange is returned when a relative move would leave the session.
// The position is not changed and no notification is sent.
var ErrOutOfRange = errors.New("history: move out of range")

// Location identifies what an entry shows.
type Location struct {
	Screen int // Screen identifier, see router.Screen
	Input  any // Input the screen was opened with
	Resume any // Position state saved when navigating away, nil if fresh
}

// Entry is a single step of the session history.
type Entry struct {
	Location Location
	State    any // Opaque per-entry state (pushState's state object)
}

// Change describes a completed relative move.
// Depths are 1-based positions, Delta is To - From.
type Change struct {
	From  int
	To    int
	Delta int
	Entry Entry // Entry now current
}

// Listener is notified after every relative move.
type Listener func(Change)

// Session manages navigable history with a current position.
// It is safe for concurrent use. Listeners are called without the session lock held,
// in subscription order, so they may move the session again.
type Session struct {
	mu        sync.Mutex
	entries   []Entry
	pos       int
	listeners []*subscription
}

type subscription struct {
	fn Listener
}

// NewSession creates a session with a single entry at the given location.
func NewSession(start Location) *Session {
	return &Session{
		entries: []Entry{{Location: start}},
		pos:     0,
	}
}

// Push adds a new entry on top of the current one, keeping the current location.
// Forward entries are discarded. No notification is sent.
func (s *Session) Push(state any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushLocked(Entry{Location: s.entries[s.pos].Location, State: state})
	return nil
}

// Navigate adds a new entry at a new location. Forward entries are discarded.
// No notification is sent.
func (s *Session) Navigate(loc Location) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pushLocked(Entry{Location: loc})
}

func (s *Session) pushLocked(e Entry) {
	if s.pos < len(s.entries)-1 {
		s.entries = s.entries[:s.pos+1]
	}
	s.entries = append(s.entries, e)
	s.pos = len(s.entries) - 1
}

// Go moves the current position by delta and notifies listeners.
// A zero delta is a no-op.
func (s *Session) Go(delta int) error {
	if delta == 0 {
		return nil
	}

	s.mu.Lock()
	target := s.pos + delta
	if target < 0 || target >= len(s.entries) {
		s.mu.Unlock()
		return fmt.Errorf("%w: go(%d) from depth %d of %d", ErrOutOfRange, delta, s.pos+1, len(s.entries))
	}

	change := Change{
		From:  s.pos + 1,
		To:    target + 1,
		Delta: delta,
		Entry: s.entries[target],
	}
	s.pos = target
	listeners := make([]*subscription, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	for _, l := range listeners {
		l.fn(change)
	}
	return nil
}

// Back moves one entry back.
func (s *Session) Back() error {
	return s.Go(-1)
}

// Forward moves one entry forward.
func (s *Session) Forward() error {
	return s.Go(1)
}

// Subscribe registers a listener for relative moves.
// The returned function removes it and may be called more than once.
func (s *Session) Subscribe(fn Listener) (unsubscribe func()) {
	sub := &subscription{fn: fn}

	s.mu.Lock()
	s.listeners = append(s.listeners, sub)
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			for i, l := range s.listeners {
				if l == sub {
					s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
					return
				}
			}
		})
	}
}

// Current returns the entry at the current position.
func (s *Session) Current() Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.entries[s.pos]
}

// SetResume stores resume state on the current entry.
func (s *Session) SetResume(resume any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[s.pos].Location.Resume = resume
}

// Depth returns the 1-based current position.
func (s *Session) Depth() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos + 1
}

// Len returns the number of entries, including forward entries.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// CanGoBack reports whether there is a previous entry.
func (s *Session) CanGoBack() bool {
	return s.Depth() > 1
}

// CanGoForward reports whether there is a next entry.
func (s *Session) CanGoForward() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pos < len(s.entries)-1
}

// Listeners returns the number of subscribed listeners.
func (s *Session) Listeners() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

// Reset clears the history down to a single entry at the given location.
// Listeners are kept.
func (s *Session) Reset(start Location) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = []Entry{{Location: start}}
	s.pos = 0
}
