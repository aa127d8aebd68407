package stream

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/CoderAdityaNayak/Vibe-Coded-VibeChatz/internal/model"
)

const (
	recordField  = "record"
	readBlock    = time.Second
	readBackoff  = time.Second
	eventBufSize = 64
)

// RedisStore keeps the room's messages in a single Redis stream. XADD
// assigns the monotonically ordered record identifiers, XRANGE is the
// snapshot read and a blocking XREAD loop feeds live subscriptions.
type RedisStore struct {
	rdb *redis.Client
	key string
}

func NewRedisStore(rdb *redis.Client, key string) *RedisStore {
	return &RedisStore{rdb: rdb, key: key}
}

func (s *RedisStore) Append(ctx context.Context, msg model.Message) (string, error) {
	data, err := json.Marshal(msg)
	if err != nil {
		return "", fmt.Errorf("failed to marshal message: %w", err)
	}

	id, err := s.rdb.XAdd(ctx, &redis.XAddArgs{
		Stream: s.key,
		Values: map[string]interface{}{recordField: data},
	}).Result()
	if err != nil {
		return "", fmt.Errorf("failed to append message: %w", err)
	}

	return id, nil
}

func (s *RedisStore) RemoveOne(ctx context.Context, id string) error {
	n, err := s.rdb.XDel(ctx, s.key, id).Result()
	if err != nil {
		return fmt.Errorf("failed to remove message %s: %w", id, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *RedisStore) RemoveAll(ctx context.Context) error {
	if err := s.rdb.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to remove message stream: %w", err)
	}
	return nil
}

func (s *RedisStore) Snapshot(ctx context.Context) ([]Entry, error) {
	msgs, err := s.rdb.XRange(ctx, s.key, "-", "+").Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read message snapshot: %w", err)
	}

	entries := make([]Entry, 0, len(msgs))
	for _, m := range msgs {
		if e, ok := decodeEntry(m); ok {
			entries = append(entries, e)
		}
	}
	return entries, nil
}

// Subscribe replays the stream from the start and then follows new
// appends. Delivery stops when the subscription is closed or ctx ends.
func (s *RedisStore) Subscribe(ctx context.Context) (*Subscription, error) {
	ctx, cancel := context.WithCancel(ctx)
	events := make(chan Entry, eventBufSize)

	go func() {
		defer close(events)

		last := "0-0"
		for {
			res, err := s.rdb.XRead(ctx, &redis.XReadArgs{
				Streams: []string{s.key, last},
				Block:   readBlock,
			}).Result()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				if err == redis.Nil {
					// Block window elapsed with nothing appended.
					continue
				}
				log.Printf("stream: read failed: %v", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(readBackoff):
				}
				continue
			}

			for _, str := range res {
				for _, m := range str.Messages {
					last = m.ID
					e, ok := decodeEntry(m)
					if !ok {
						continue
					}
					select {
					case events <- e:
					case <-ctx.Done():
						return
					}
				}
			}
		}
	}()

	return NewSubscription(events, cancel), nil
}

func decodeEntry(m redis.XMessage) (Entry, bool) {
	raw, ok := m.Values[recordField].(string)
	if !ok {
		log.Printf("stream: entry %s has no record field, skipping", m.ID)
		return Entry{}, false
	}

	var msg model.Message
	if err := json.Unmarshal([]byte(raw), &msg); err != nil {
		log.Printf("stream: failed to decode entry %s: %v", m.ID, err)
		return Entry{}, false
	}

	return Entry{ID: m.ID, Record: msg}, true
}
