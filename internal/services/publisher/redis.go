package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Houeta/storewatch/internal/models"
	"github.com/redis/go-redis/v9"
)

const eventField = "changes"

// Event is the payload appended to the stream for every change set.
type Event struct {
	At      time.Time           `json:"at"`
	Added   []models.Product    `json:"added"`
	Removed []models.Product    `json:"removed"`
	Changed []models.ChangeInfo `json:"changed"`
}

// RedisPublisher appends change sets to a Redis stream.
type RedisPublisher struct {
	client    *redis.Client
	stream    string
	maxLength int64
	now       func() time.Time
}

// NewRedisPublisher creates a new Redis publisher. maxLength caps the stream
// approximately; zero leaves it unbounded.
func NewRedisPublisher(addr, stream string, maxLength int64) *RedisPublisher {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	return &RedisPublisher{
		client:    client,
		stream:    stream,
		maxLength: maxLength,
		now:       time.Now,
	}
}

// Ping checks that the Redis server answers.
func (p *RedisPublisher) Ping(ctx context.Context) error {
	if err := p.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("publisher.redis.Ping: %w", err)
	}
	return nil
}

// Publish appends changes to the stream as one JSON encoded entry.
func (p *RedisPublisher) Publish(ctx context.Context, changes models.Changes) error {
	const opn = "publisher.redis.Publish"

	payload, err := json.Marshal(newEvent(changes, p.now()))
	if err != nil {
		return fmt.Errorf("%s: failed to encode event: %w", opn, err)
	}

	args := &redis.XAddArgs{
		Stream: p.stream,
		Values: map[string]interface{}{eventField: payload},
	}
	if p.maxLength > 0 {
		args.MaxLen = p.maxLength
		args.Approx = true
	}

	if err = p.client.XAdd(ctx, args).Err(); err != nil {
		return fmt.Errorf("%s: failed to append to stream %s: %w", opn, p.stream, err)
	}

	return nil
}

// Close closes the Redis connection
func (p *RedisPublisher) Close() error {
	return p.client.Close()
}

func newEvent(changes models.Changes, at time.Time) Event {
	ev := Event{
		At:      at.UTC(),
		Added:   changes.Added,
		Removed: changes.Removed,
		Changed: changes.Changed,
	}
	if ev.Added == nil {
		ev.Added = []models.Product{}
	}
	if ev.Removed == nil {
		ev.Removed = []models.Product{}
	}
	if ev.Changed == nil {
		ev.Changed = []models.ChangeInfo{}
	}
	return ev
}
