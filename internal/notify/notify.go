// Package notify is the process-wide session-expired broadcast.
// Observers register explicitly and delivery is synchronous and
// in-process; there is no cross-tab or cross-process guarantee.
package notify

import "sync"

// Notifier fans a trigger out to every registered handler.
// Re-triggering while observers are already reacting is harmless:
// handlers are expected to be idempotent (showing an already-open
// dialog again shows the same state).
type Notifier struct {
	mu       sync.Mutex
	next     int
	handlers map[int]func()
}

// NewNotifier creates an empty notifier.
func NewNotifier() *Notifier {
	return &Notifier{handlers: make(map[int]func())}
}

// Observe registers a handler invoked on each trigger. The returned
// function unregisters it; calling it more than once is a no-op.
func (n *Notifier) Observe(handler func()) (cancel func()) {
	n.mu.Lock()
	id := n.next
	n.next++
	n.handlers[id] = handler
	n.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			n.mu.Lock()
			delete(n.handlers, id)
			n.mu.Unlock()
		})
	}
}

// Trigger invokes every registered handler synchronously. Invocation
// order is not guaranteed.
func (n *Notifier) Trigger() {
	n.mu.Lock()
	handlers := make([]func(), 0, len(n.handlers))
	for _, h := range n.handlers {
		handlers = append(handlers, h)
	}
	n.mu.Unlock()

	for _, h := range handlers {
		h()
	}
}
