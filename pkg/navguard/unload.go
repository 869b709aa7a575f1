package navguard

import "sync"

// UnloadEvent is delivered when the window or document is about to close.
// Handlers call Prevent to ask the platform for its generic "leave anyway?" warning;
// a custom prompt is not possible at this point.
type UnloadEvent struct {
	prevented bool
}

// Prevent requests the platform's native close warning.
func (e *UnloadEvent) Prevent() {
	e.prevented = true
}

// Prevented reports whether any handler requested the native warning.
func (e *UnloadEvent) Prevented() bool {
	return e.prevented
}

// Unloader is a source of close notifications.
type Unloader interface {
	OnBeforeUnload(fn func(*UnloadEvent)) (unsubscribe func())
}

// UnloadNotifier is an in-process Unloader. Platform adapters call Notify when the
// user tries to close the application.
type UnloadNotifier struct {
	mu       sync.Mutex
	handlers []*unloadHandler
}

type unloadHandler struct {
	fn func(*UnloadEvent)
}

// OnBeforeUnload implements Unloader.
func (n *UnloadNotifier) OnBeforeUnload(fn func(*UnloadEvent)) (unsubscribe func()) {
	h := &unloadHandler{fn: fn}

	n.mu.Lock()
	n.handlers = append(n.handlers, h)
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			defer n.mu.Unlock()
			for i, cur := range n.handlers {
				if cur == h {
					n.handlers = append(n.handlers[:i], n.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// Notify runs every handler and reports whether the close should be warned about.
func (n *UnloadNotifier) Notify() (prevented bool) {
	n.mu.Lock()
	handlers := make([]*unloadHandler, len(n.handlers))
	copy(handlers, n.handlers)
	n.mu.Unlock()

	ev := &UnloadEvent{}
	for _, h := range handlers {
		h.fn(ev)
	}
	return ev.Prevented()
}

// Handlers returns the number of registered handlers.
func (n *UnloadNotifier) Handlers() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.handlers)
}

var _ Unloader = (*UnloadNotifier)(nil)
