// Package history provides a browser-like session history for screen navigation.
//
// A Session is a list of entries with a current position. Pushing an entry truncates
// any forward entries, exactly like a browser's pushState, and relative moves (Go, Back,
// Forward) notify subscribers after the position has changed.
//
// Entries carry a Location (which screen, with what input) and an opaque State. Two
// entries may share the same Location; that is how a navigation guard parks a sentinel
// entry on top of the screen it protects:
//
//	s := history.NewSession(history.Location{Screen: 0})
//	s.Push(mySentinel) // same location, new entry
//	s.Back()           // subscribers see Change{From: 2, To: 1, Delta: -1}
//
// Positions are only reported for diagnostics. Callers are expected to move relative
// to where they are, never to an absolute index, because other parts of the application
// share the same Session.
package history
