package stream

import (
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEntry(t *testing.T) {
	m := redis.XMessage{
		ID: "1700000000000-0",
		Values: map[string]interface{}{
			"record": `{"user":"alice","timestamp":123,"type":"text","text":"hi","extra":"ignored"}`,
		},
	}

	e, ok := decodeEntry(m)
	require.True(t, ok)
	assert.Equal(t, "1700000000000-0", e.ID)
	assert.Equal(t, "alice", e.Record.User)
	assert.Equal(t, "hi", e.Record.Text)
	assert.Equal(t, int64(123), e.Record.Timestamp)
}

func TestDecodeEntryMissingOptionalFields(t *testing.T) {
	m := redis.XMessage{
		ID:     "1-0",
		Values: map[string]interface{}{"record": `{"user":"bob","timestamp":1}`},
	}

	e, ok := decodeEntry(m)
	require.True(t, ok)
	assert.Empty(t, e.Record.Type)
	assert.False(t, e.Record.HasAttachment())
}

func TestDecodeEntrySkipsMalformedRecords(t *testing.T) {
	_, ok := decodeEntry(redis.XMessage{ID: "1-0", Values: map[string]interface{}{}})
	assert.False(t, ok)

	_, ok = decodeEntry(redis.XMessage{ID: "2-0", Values: map[string]interface{}{"record": "{not json"}})
	assert.False(t, ok)
}

func TestSubscriptionCloseInvokesCancelOnce(t *testing.T) {
	events := make(chan Entry)
	cancels := 0
	sub := NewSubscription(events, func() { cancels++; close(events) })

	sub.Close()
	sub.Close()

	assert.Equal(t, 1, cancels)
	_, open := <-sub.Events()
	assert.False(t, open, "events must be closed after teardown")
}
