package router

import "github.com/BrandonKowalski/navguard/pkg/navguard/history"

// StackEntry describes the entry a screen is running on.
type StackEntry struct {
	Screen Screen
	Input  any
	Resume any
}

// Stack is the transition function's view of the navigation history.
// Entries are added by returning a screen from the transition function and removed by
// returning ScreenBack; Stack only exposes the current entry.
type Stack struct {
	session *history.Session
}

// SaveResume stores resume state on the current entry.
// Called before navigating forward so that coming back restores position.
func (s *Stack) SaveResume(resume any) {
	s.session.SetResume(resume)
}

// Peek returns the current entry.
func (s *Stack) Peek() StackEntry {
	e := s.session.Current()
	return StackEntry{
		Screen: Screen(e.Location.Screen),
		Input:  e.Location.Input,
		Resume: e.Location.Resume,
	}
}

// IsEmpty returns true if there is no entry to go back to.
func (s *Stack) IsEmpty() bool {
	return !s.session.CanGoBack()
}

// Len returns the 1-based depth of the current entry.
func (s *Stack) Len() int {
	return s.session.Depth()
}
