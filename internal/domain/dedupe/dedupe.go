// Package dedupe provides idempotency tracking for submission request ids.
package dedupe

import (
	"context"
	"sync"
)

// Deduper records seen request ids so blind client retries do not
// create duplicate tasks. This is a soft mitigation, not a guarantee:
// the cache is bounded and evicts oldest-first.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an id, allowing the request to be retried. Used
	// when a request was recorded but never actually processed.
	Unrecord(ctx context.Context, id string)

	// Size returns the number of ids currently tracked.
	Size() int
}

const defaultMaxSize = 50_000

// ringDeduper implements Deduper with a map plus a fixed-size ring of
// insertion order. When full, the oldest id is evicted (FIFO). The map
// stores each id's ring slot so Unrecord frees it without scanning.
type ringDeduper struct {
	mu      sync.Mutex
	seen    map[string]int
	order   []string
	next    int
	maxSize int
}

// New creates a deduper with configuration options.
func New(opts ...Option) Deduper {
	d := &ringDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]int, d.maxSize)
	d.order = make([]string, d.maxSize)
	return d
}

func (d *ringDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}

	// Evict whatever occupies the slot about to be reused.
	if old := d.order[d.next]; old != "" {
		delete(d.seen, old)
	}
	d.order[d.next] = id
	d.seen[id] = d.next
	d.next = (d.next + 1) % d.maxSize
	return false
}

func (d *ringDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	slot, ok := d.seen[id]
	if !ok {
		return
	}
	delete(d.seen, id)
	d.order[slot] = ""
}

func (d *ringDeduper) Size() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return len(d.seen)
}
