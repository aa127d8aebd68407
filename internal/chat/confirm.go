package chat

import "sync"

// Gate is a yes/no and info modal with a single pending-action slot.
// Requesting a new confirmation replaces whatever was pending.
type Gate struct {
	mu      sync.Mutex
	message string
	pending func()
	open    bool
}

func NewGate() *Gate {
	return &Gate{}
}

// Confirm stashes the action until the user approves or dismisses.
func (g *Gate) Confirm(message string, action func()) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.message = message
	g.pending = action
	g.open = true
}

// Info opens the gate in info mode: a message with no pending action.
func (g *Gate) Info(message string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.message = message
	g.pending = nil
	g.open = true
}

// Approve runs the pending action, if any, and closes the gate.
func (g *Gate) Approve() {
	g.mu.Lock()
	action := g.pending
	g.message = ""
	g.pending = nil
	g.open = false
	g.mu.Unlock()

	if action != nil {
		action()
	}
}

// Dismiss closes the gate without running anything.
func (g *Gate) Dismiss() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.message = ""
	g.pending = nil
	g.open = false
}

// Message returns the displayed text while the gate is open.
func (g *Gate) Message() (string, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.message, g.open
}
