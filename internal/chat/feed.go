package chat

import (
	"context"
	"sync"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/render"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/stream"
)

// Feed owns the single live subscription of a view activation. Every
// appended record is mapped through the render transform and written
// to the sink in arrival order, which is commit order, not timestamp
// order.
type Feed struct {
	identity Identity
	stream   stream.Store
	sink     render.Sink

	mu   sync.Mutex
	sub  *stream.Subscription
	done chan struct{}
}

func NewFeed(identity Identity, st stream.Store, sink render.Sink) *Feed {
	return &Feed{identity: identity, stream: st, sink: sink}
}

// Subscribe tears down any previous subscription, clears the rendered
// set and starts consuming from the beginning of the stream. The
// teardown completes before the clear, so a record is never rendered
// twice out of a stale subscription.
func (f *Feed) Subscribe(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.teardown()
	f.sink.Clear()

	sub, err := f.stream.Subscribe(ctx)
	if err != nil {
		return err
	}

	done := make(chan struct{})
	f.sub = sub
	f.done = done

	go f.consume(sub, done)
	return nil
}

// Close stops the live subscription, if any.
func (f *Feed) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teardown()
}

// teardown closes the current subscription and waits for its consumer
// to drain out. Callers hold f.mu.
func (f *Feed) teardown() {
	if f.sub == nil {
		return
	}
	f.sub.Close()
	<-f.done
	f.sub = nil
	f.done = nil
}

func (f *Feed) consume(sub *stream.Subscription, done chan struct{}) {
	defer close(done)

	for e := range sub.Events() {
		self, _ := f.identity.Name()
		f.sink.Append(render.Model(e.ID, e.Record, self))
	}
}
