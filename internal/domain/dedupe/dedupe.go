// Package dedupe remembers import keys so repeated submissions are stored once.
package dedupe

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	gocache "github.com/patrickmn/go-cache"
)

const (
	defaultTTL             = 10 * time.Minute
	defaultCleanupInterval = time.Minute
)

// Deduper records seen import keys to ensure at-most-once storage.
type Deduper interface {
	// SeenAndRecord atomically checks if key was seen and records it if not.
	// Returns true if key was already seen, false if it was newly recorded.
	SeenAndRecord(ctx context.Context, key string) bool

	// Unrecord forgets key so the import can be retried, e.g. after queue
	// backpressure.
	Unrecord(ctx context.Context, key string)

	Size() int64
}

// inMemoryDeduper keeps keys in a TTL cache. Expired keys count as unseen.
type inMemoryDeduper struct {
	ttl             time.Duration
	cleanupInterval time.Duration
	seen            *gocache.Cache
}

// NewInMemoryDeduper creates a new in-memory deduper with configuration options.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{
		ttl:             defaultTTL,
		cleanupInterval: defaultCleanupInterval,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = gocache.New(d.ttl, d.cleanupInterval)
	return d
}

// SeenAndRecord relies on Cache.Add failing for live keys.
func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, key string) bool {
	return d.seen.Add(key, struct{}{}, gocache.DefaultExpiration) != nil
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, key string) {
	d.seen.Delete(key)
}

// Size returns the number of remembered keys, including expired keys not yet
// swept by the janitor.
func (d *inMemoryDeduper) Size() int64 {
	return int64(d.seen.ItemCount())
}

// KeyFor derives the idempotency key for an import without an explicit one.
func KeyFor(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}
