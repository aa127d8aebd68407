package chat

import (
	"context"
	"fmt"
	"log"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/objstore"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/render"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/stream"
)

// Deleter removes one or all messages. Record removal is the hard part
// of each operation and must succeed; attachment cleanup is always
// best-effort and never rolls a completed record deletion back.
type Deleter struct {
	identity Identity
	stream   stream.Store
	objects  objstore.Store
	notify   Notifier
	confirm  Confirmer
	sink     render.Sink

	// refresh re-establishes the live feed after a single deletion so
	// the view reflects the new state deterministically.
	refresh func() error
}

func NewDeleter(identity Identity, st stream.Store, objects objstore.Store, notify Notifier, confirm Confirmer, sink render.Sink) *Deleter {
	return &Deleter{
		identity: identity,
		stream:   st,
		objects:  objects,
		notify:   notify,
		confirm:  confirm,
		sink:     sink,
	}
}

// OnRefresh registers the feed re-subscription used after a single
// deletion.
func (d *Deleter) OnRefresh(fn func() error) {
	d.refresh = fn
}

// DeleteOne removes a single message record and, best-effort, its
// attachment.
func (d *Deleter) DeleteOne(ctx context.Context, id, fileURL string) {
	if _, ok := d.identity.Name(); !ok {
		d.notify.Info("You must be logged in to delete messages.")
		return
	}

	d.confirm.Confirm("Are you sure you want to delete this message?", func() {
		d.deleteOne(ctx, id, fileURL)
	})
}

func (d *Deleter) deleteOne(ctx context.Context, id, fileURL string) {
	if err := d.stream.RemoveOne(ctx, id); err != nil {
		d.notify.Info(fmt.Sprintf("Failed to delete message: %v", err))
		return
	}

	if fileURL != "" {
		if path, ok := d.objects.PathFromURL(fileURL); ok {
			if err := d.objects.RemoveMany(ctx, []string{path}); err != nil {
				log.Printf("deleter: failed to remove attachment %s: %v", path, err)
			}
		} else {
			log.Printf("deleter: could not parse attachment locator %q, skipping cleanup", fileURL)
		}
	}

	if d.refresh != nil {
		if err := d.refresh(); err != nil {
			log.Printf("deleter: failed to refresh feed: %v", err)
		}
	}
}

// DeleteAll wipes the whole record set and, best-effort, every
// attachment collected from a one-shot snapshot. Attachments of
// records appended after the snapshot stay behind as orphans.
func (d *Deleter) DeleteAll(ctx context.Context) {
	if _, ok := d.identity.Name(); !ok {
		d.notify.Info("You must be logged in to delete all messages.")
		return
	}

	d.confirm.Confirm(
		"WARNING: Are you absolutely sure you want to delete ALL messages and associated files? This action cannot be undone.",
		func() { d.deleteAll(ctx) },
	)
}

func (d *Deleter) deleteAll(ctx context.Context) {
	entries, err := d.stream.Snapshot(ctx)
	if err != nil {
		d.notify.Info(fmt.Sprintf("Failed to delete all messages: %v", err))
		return
	}

	var paths []string
	for _, e := range entries {
		if !e.Record.HasAttachment() {
			continue
		}
		if path, ok := d.objects.PathFromURL(e.Record.FileURL); ok {
			paths = append(paths, path)
		} else {
			log.Printf("deleter: could not parse attachment locator %q, skipping cleanup", e.Record.FileURL)
		}
	}

	if err := d.stream.RemoveAll(ctx); err != nil {
		d.notify.Info(fmt.Sprintf("Failed to delete all messages: %v", err))
		return
	}

	if len(paths) > 0 {
		if err := d.objects.RemoveMany(ctx, paths); err != nil {
			// The record wipe already happened and stands; the
			// attachment failure is reported on its own.
			log.Printf("deleter: bulk attachment removal failed: %v", err)
			d.notify.Info(fmt.Sprintf("Failed to delete all files from storage: %v", err))
		}
	}

	if d.sink != nil {
		d.sink.Clear()
	}
	d.notify.Info("All messages and associated files have been deleted!")
}
