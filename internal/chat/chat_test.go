package chat

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/model"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/objstore"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/render"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/stream"
)

// Shared fakes for the composer, feed and deleter tests.

type fakeIdentity struct {
	name string
}

func (f fakeIdentity) Name() (string, bool) {
	return f.name, f.name != ""
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages []string
}

func (f *fakeNotifier) Info(message string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, message)
}

func (f *fakeNotifier) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.messages...)
}

type fakeSink struct {
	mu      sync.Mutex
	units   []render.Unit
	removed []string
	clears  int
}

func (f *fakeSink) Append(u render.Unit) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.units = append(f.units, u)
}

func (f *fakeSink) RemovePlaceholder(id string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removed = append(f.removed, id)
	kept := f.units[:0]
	for _, u := range f.units {
		if u.ID != id {
			kept = append(kept, u)
		}
	}
	f.units = kept
}

func (f *fakeSink) Clear() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.clears++
	f.units = nil
}

func (f *fakeSink) rendered() []render.Unit {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]render.Unit(nil), f.units...)
}

// fakeStream implements stream.Store in memory. Subscriptions replay
// the entries present at subscribe time and then stay open until
// closed, mirroring the real adapter's replay-then-follow behavior.
type fakeStream struct {
	mu      sync.Mutex
	entries []stream.Entry
	nextID  int

	appendErr    error
	removeOneErr error
	removeAllErr error
	snapshotErr  error

	appendCalls    int
	removeOneCalls []string
	removeAllCalls int
}

func (f *fakeStream) Append(_ context.Context, msg model.Message) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appendCalls++
	if f.appendErr != nil {
		return "", f.appendErr
	}
	f.nextID++
	id := fmt.Sprintf("%d-0", f.nextID)
	f.entries = append(f.entries, stream.Entry{ID: id, Record: msg})
	return id, nil
}

func (f *fakeStream) RemoveOne(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeOneCalls = append(f.removeOneCalls, id)
	if f.removeOneErr != nil {
		return f.removeOneErr
	}
	kept := f.entries[:0]
	for _, e := range f.entries {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.entries = kept
	return nil
}

func (f *fakeStream) RemoveAll(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeAllCalls++
	if f.removeAllErr != nil {
		return f.removeAllErr
	}
	f.entries = nil
	return nil
}

func (f *fakeStream) Snapshot(_ context.Context) ([]stream.Entry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.snapshotErr != nil {
		return nil, f.snapshotErr
	}
	return append([]stream.Entry(nil), f.entries...), nil
}

func (f *fakeStream) Subscribe(_ context.Context) (*stream.Subscription, error) {
	f.mu.Lock()
	entries := append([]stream.Entry(nil), f.entries...)
	f.mu.Unlock()

	events := make(chan stream.Entry, len(entries)+16)
	for _, e := range entries {
		events <- e
	}

	return stream.NewSubscription(events, func() { close(events) }), nil
}

func (f *fakeStream) records() []stream.Entry {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]stream.Entry(nil), f.entries...)
}

const testBucket = "chat-files"

type fakeObjects struct {
	mu sync.Mutex

	uploadErr error
	removeErr error

	uploads     []string
	removeCalls [][]string
}

func (f *fakeObjects) Upload(_ context.Context, path string, _ io.Reader, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.uploadErr != nil {
		return f.uploadErr
	}
	f.uploads = append(f.uploads, path)
	return nil
}

func (f *fakeObjects) PublicURL(path string) string {
	return fmt.Sprintf("https://storage.example/object/public/%s/%s", testBucket, path)
}

func (f *fakeObjects) RemoveMany(_ context.Context, paths []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.removeCalls = append(f.removeCalls, append([]string(nil), paths...))
	if f.removeErr != nil {
		return f.removeErr
	}
	return nil
}

func (f *fakeObjects) PathFromURL(url string) (string, bool) {
	return objstore.PathFromPublicURL(testBucket, url)
}
