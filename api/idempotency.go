package api

import (
	"context"
	"sync"
	"time"
)

// DefaultDedupeTTL is how long an idempotency key is remembered.
const DefaultDedupeTTL = 24 * time.Hour

// Deduper prevents processing of duplicate commands.
type Deduper interface {
	// Add records the idempotency key and returns true if it was newly added.
	Add(ctx context.Context, key string) (bool, error)
	// Remove deletes a previously added key, used when the command is rejected.
	Remove(ctx context.Context, key string) error
}

// MemoryDeduper keeps idempotency keys in process memory for a fixed TTL.
type MemoryDeduper struct {
	mu   sync.Mutex
	ttl  time.Duration
	now  func() time.Time
	keys map[string]time.Time
}

func NewMemoryDeduper(ttl time.Duration) *MemoryDeduper {
	if ttl <= 0 {
		ttl = DefaultDedupeTTL
	}
	return &MemoryDeduper{ttl: ttl, now: time.Now, keys: make(map[string]time.Time)}
}

func (d *MemoryDeduper) Add(_ context.Context, key string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	now := d.now()
	for k, exp := range d.keys {
		if !now.Before(exp) {
			delete(d.keys, k)
		}
	}
	if _, ok := d.keys[key]; ok {
		return false, nil
	}
	d.keys[key] = now.Add(d.ttl)
	return true, nil
}

func (d *MemoryDeduper) Remove(_ context.Context, key string) error {
	d.mu.Lock()
	delete(d.keys, key)
	d.mu.Unlock()
	return nil
}
