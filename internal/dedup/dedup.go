// Package dedup records sightings of webhook deliveries so repeated deliveries
// can be logged and counted. It never decides whether an order is dispatched.
package dedup

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/bits-and-blooms/bloom/v3"
	"github.com/redis/go-redis/v9"
)

// Tracker records a key and reports whether it was (probably) seen before.
type Tracker interface {
	Seen(ctx context.Context, key string) (bool, error)
}

// falsePositiveRate is the bloom filter's target error rate at capacity.
const falsePositiveRate = 0.001

// BloomTracker is an in-process tracker. A positive answer may be a false
// positive; it is reset once capacity keys have been added.
type BloomTracker struct {
	mu       sync.Mutex
	filter   *bloom.BloomFilter
	capacity uint
	added    uint
}

func NewBloomTracker(capacity uint) *BloomTracker {
	if capacity == 0 {
		capacity = 100000
	}
	return &BloomTracker{
		filter:   bloom.NewWithEstimates(capacity, falsePositiveRate),
		capacity: capacity,
	}
}

func (t *BloomTracker) Seen(_ context.Context, key string) (bool, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.added >= t.capacity {
		t.filter.ClearAll()
		t.added = 0
	}

	seen := t.filter.TestAndAddString(key)
	if !seen {
		t.added++
	}
	return seen, nil
}

// RedisTracker shares sightings across instances. Keys expire after ttl.
type RedisTracker struct {
	client redis.Cmdable
	ttl    time.Duration
	prefix string
}

func NewRedisTracker(client redis.Cmdable, ttl time.Duration) *RedisTracker {
	return &RedisTracker{client: client, ttl: ttl, prefix: "order-notifier:webhook:"}
}

// Connect opens a Redis client at addr and checks it responds.
func Connect(ctx context.Context, addr string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return client, nil
}

func (t *RedisTracker) Seen(ctx context.Context, key string) (bool, error) {
	created, err := t.client.SetNX(ctx, t.prefix+key, time.Now().Unix(), t.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("record sighting: %w", err)
	}
	return !created, nil
}
