package stream

import (
	"context"
	"errors"
	"sync"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/model"
)

// ErrNotFound is returned by RemoveOne when no record with the given
// id exists in the stream.
var ErrNotFound = errors.New("message not found")

// Entry is a committed record together with its stream-assigned,
// monotonically ordered identifier.
type Entry struct {
	ID     string
	Record model.Message
}

// Store is the realtime message stream the chat binds to. Append order
// is commit order; subscribers observe records in that order
// regardless of the client-assigned timestamps inside them.
type Store interface {
	Append(ctx context.Context, msg model.Message) (string, error)
	// Subscribe starts a fresh subscription from the beginning of the
	// stream. Re-subscribing reproduces the same set in the same order.
	Subscribe(ctx context.Context) (*Subscription, error)
	RemoveOne(ctx context.Context, id string) error
	RemoveAll(ctx context.Context) error
	// Snapshot reads the full current record set once, in order.
	Snapshot(ctx context.Context) ([]Entry, error)
}

// Subscription yields appended records in commit order. Close stops
// delivery; the producer closes Events afterwards, so a consumer
// ranging over Events terminates once teardown is complete.
type Subscription struct {
	events <-chan Entry
	cancel func()
	once   sync.Once
}

// NewSubscription wraps an event channel. cancel is invoked exactly
// once, on Close; the producer must close events after cancel fires.
func NewSubscription(events <-chan Entry, cancel func()) *Subscription {
	return &Subscription{events: events, cancel: cancel}
}

func (s *Subscription) Events() <-chan Entry {
	return s.events
}

func (s *Subscription) Close() {
	s.once.Do(s.cancel)
}
