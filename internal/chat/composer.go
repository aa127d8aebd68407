package chat

import (
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/model"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/objstore"
	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/render"
)

// File is an attachment selected for sending.
type File struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Composer validates and assembles outgoing messages, sequencing the
// attachment upload before the record publish. A message and its
// attachment are atomic from the user's perspective: the record is
// never published when the upload failed. The reverse does not hold;
// a publish failure leaves the uploaded object orphaned.
type Composer struct {
	identity Identity
	stream   streamAppender
	objects  objstore.Store
	notify   Notifier
	sink     render.Sink
	onDone   func()
	now      func() time.Time
}

// streamAppender is the one stream operation the composer needs.
type streamAppender interface {
	Append(ctx context.Context, msg model.Message) (string, error)
}

func NewComposer(identity Identity, stream streamAppender, objects objstore.Store, notify Notifier, sink render.Sink) *Composer {
	return &Composer{
		identity: identity,
		stream:   stream,
		objects:  objects,
		notify:   notify,
		sink:     sink,
		now:      time.Now,
	}
}

// OnDone registers a callback run on every terminal send path, success
// or abort. The caller uses it to clear the input field and the
// attachment selection.
func (c *Composer) OnDone(fn func()) {
	c.onDone = fn
}

// Send posts a text and/or file message. Failures never surface as
// errors; the user is notified and the send aborts with no partial
// state beyond an accepted orphan on publish failure.
func (c *Composer) Send(ctx context.Context, text string, file *File) {
	defer c.finish()

	user, ok := c.identity.Name()
	if !ok {
		c.notify.Info("Please enter your name to send messages.")
		return
	}

	text = strings.TrimSpace(text)
	if text == "" && file == nil {
		c.notify.Info("Please type a message or select a file to send.")
		return
	}

	msg := model.Message{
		User:      user,
		Timestamp: c.now().UnixMilli(),
	}

	if file != nil {
		placeholder := render.Unit{
			ID:      uuid.NewString(),
			Kind:    render.KindUploading,
			Author:  user,
			Caption: fmt.Sprintf("Uploading %s...", file.Name),
			Mine:    true,
		}
		if c.sink != nil {
			c.sink.Append(placeholder)
		}

		path := objstore.ObjectPath(file.Name, msg.Timestamp)
		err := c.objects.Upload(ctx, path, file.Body, file.ContentType)

		if c.sink != nil {
			c.sink.RemovePlaceholder(placeholder.ID)
		}

		if err != nil {
			log.Printf("composer: upload of %s failed: %v", path, err)
			c.notify.Info("Failed to upload file. Please try again.")
			return
		}

		msg.Type = model.KindForContentType(file.ContentType)
		msg.FileURL = c.objects.PublicURL(path)
		msg.FileName = file.Name
		msg.FileType = file.ContentType
	}

	if text != "" {
		if msg.Type == "" {
			msg.Type = model.KindText
		}
		msg.Text = text
	}

	if _, err := c.stream.Append(ctx, msg); err != nil {
		// The uploaded attachment, if any, is not rolled back.
		log.Printf("composer: publish failed: %v", err)
		c.notify.Info("Failed to send message. Please try again.")
	}
}

func (c *Composer) finish() {
	if c.onDone != nil {
		c.onDone()
	}
}
