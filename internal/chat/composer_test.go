package chat

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/model"
)

func newComposerFixture(name string) (*Composer, *fakeStream, *fakeObjects, *fakeNotifier, *fakeSink) {
	st := &fakeStream{}
	objects := &fakeObjects{}
	notify := &fakeNotifier{}
	sink := &fakeSink{}

	c := NewComposer(fakeIdentity{name: name}, st, objects, notify, sink)
	c.now = func() time.Time { return time.UnixMilli(1700000000000) }
	return c, st, objects, notify, sink
}

func TestSendWithoutIdentityNeverPublishes(t *testing.T) {
	c, st, objects, notify, _ := newComposerFixture("")

	c.Send(context.Background(), "hello", nil)

	assert.Equal(t, 0, st.appendCalls)
	assert.Empty(t, objects.uploads)
	require.Len(t, notify.all(), 1)
	assert.Contains(t, notify.all()[0], "enter your name")
}

func TestSendEmptyMessageShortCircuits(t *testing.T) {
	c, st, objects, notify, _ := newComposerFixture("alice")

	c.Send(context.Background(), "   \t  ", nil)

	assert.Equal(t, 0, st.appendCalls)
	assert.Empty(t, objects.uploads)
	require.Len(t, notify.all(), 1)
	assert.Contains(t, notify.all()[0], "type a message or select a file")
}

func TestSendTextOnlyPublishesTrimmedText(t *testing.T) {
	c, st, _, notify, _ := newComposerFixture("alice")

	c.Send(context.Background(), "  hello there  ", nil)

	require.Equal(t, 1, st.appendCalls)
	records := st.records()
	require.Len(t, records, 1)

	msg := records[0].Record
	assert.Equal(t, model.KindText, msg.Type)
	assert.Equal(t, "hello there", msg.Text)
	assert.Equal(t, "alice", msg.User)
	assert.Equal(t, int64(1700000000000), msg.Timestamp)
	assert.False(t, msg.HasAttachment())
	assert.Empty(t, msg.FileName)
	assert.Empty(t, notify.all())
}

func TestSendFileClassifiesKindByContentType(t *testing.T) {
	cases := []struct {
		contentType string
		wantKind    string
	}{
		{"image/png", model.KindImage},
		{"video/mp4", model.KindVideo},
		{"application/pdf", model.KindFile},
	}

	for _, tc := range cases {
		t.Run(tc.contentType, func(t *testing.T) {
			c, st, objects, _, _ := newComposerFixture("alice")

			c.Send(context.Background(), "", &File{
				Name:        "holiday.bin",
				ContentType: tc.contentType,
				Body:        strings.NewReader("payload"),
			})

			records := st.records()
			require.Len(t, records, 1)

			msg := records[0].Record
			assert.Equal(t, tc.wantKind, msg.Type)
			assert.Equal(t, "holiday.bin", msg.FileName)
			assert.Equal(t, tc.contentType, msg.FileType)
			assert.Equal(t, "", msg.Text)

			require.Len(t, objects.uploads, 1)
			assert.Equal(t, "holiday.bin_1700000000000", objects.uploads[0])
			assert.Equal(t, objects.PublicURL(objects.uploads[0]), msg.FileURL)
		})
	}
}

func TestSendFileWithCaptionKeepsAttachmentKind(t *testing.T) {
	c, st, _, _, _ := newComposerFixture("alice")

	c.Send(context.Background(), "look at this", &File{
		Name:        "cat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("payload"),
	})

	records := st.records()
	require.Len(t, records, 1)
	assert.Equal(t, model.KindImage, records[0].Record.Type)
	assert.Equal(t, "look at this", records[0].Record.Text)
}

func TestUploadFailureAbortsSend(t *testing.T) {
	c, st, objects, notify, sink := newComposerFixture("alice")
	objects.uploadErr = assert.AnError

	c.Send(context.Background(), "caption", &File{
		Name:        "cat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("payload"),
	})

	assert.Equal(t, 0, st.appendCalls, "no record may be published after a failed upload")
	require.Len(t, notify.all(), 1)
	assert.Contains(t, notify.all()[0], "Failed to upload")

	require.Len(t, sink.removed, 1, "the optimistic placeholder must be removed")
	assert.Empty(t, sink.rendered())
}

func TestPlaceholderShownWhileUploading(t *testing.T) {
	c, _, objects, _, sink := newComposerFixture("alice")
	objects.uploadErr = assert.AnError

	c.Send(context.Background(), "", &File{
		Name:        "cat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("payload"),
	})

	// The placeholder was appended and then removed; removal targets
	// the same unit that was appended.
	require.Len(t, sink.removed, 1)
	assert.NotEmpty(t, sink.removed[0])
}

func TestPublishFailureDoesNotRollBackUpload(t *testing.T) {
	c, st, objects, notify, _ := newComposerFixture("alice")
	st.appendErr = assert.AnError

	c.Send(context.Background(), "", &File{
		Name:        "cat.png",
		ContentType: "image/png",
		Body:        strings.NewReader("payload"),
	})

	assert.Equal(t, 1, st.appendCalls)
	assert.Len(t, objects.uploads, 1)
	assert.Empty(t, objects.removeCalls, "an orphaned attachment is accepted, never rolled back")
	require.Len(t, notify.all(), 1)
	assert.Contains(t, notify.all()[0], "Failed to send")
}

func TestOnDoneRunsOnEveryTerminalPath(t *testing.T) {
	c, _, objects, _, _ := newComposerFixture("alice")

	var done int
	c.OnDone(func() { done++ })

	c.Send(context.Background(), "", nil) // precondition abort
	c.Send(context.Background(), "hi", nil)

	objects.uploadErr = assert.AnError
	c.Send(context.Background(), "", &File{Name: "a", ContentType: "image/png", Body: strings.NewReader("x")})

	assert.Equal(t, 3, done)
}
