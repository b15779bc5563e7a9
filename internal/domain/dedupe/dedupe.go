// Package dedupe tracks already-rated outcome ids so a game marked
// complete twice is rated exactly once.
package dedupe

import (
	"context"
	"sync"
	"sync/atomic"
)

// Deduper records seen outcome IDs to ensure at-most-once rating.
type Deduper interface {
	// SeenAndRecord atomically checks if id was seen and records it if
	// not. Returns true if id was already seen.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord removes an ID from the seen set, allowing a retry after
	// a rating attempt that was recorded but failed to apply.
	Unrecord(ctx context.Context, id string)

	Size() int64
}

// defaultMaxSize bounds memory; the oldest recorded ids are evicted
// first once the bound is hit.
const defaultMaxSize = 50000

// Option applies a configuration option to the in-memory deduper.
type Option func(*inMemoryDeduper)

// WithMaxSize sets the maximum number of IDs kept. Zero or negative
// means unbounded.
func WithMaxSize(size int) Option {
	return func(d *inMemoryDeduper) {
		d.maxSize = size
	}
}

// inMemoryDeduper implements Deduper with a map plus FIFO eviction.
type inMemoryDeduper struct {
	mu      sync.Mutex
	seen    map[string]struct{}
	order   []string // insertion order for FIFO eviction
	head    int      // index of the oldest live entry in order
	maxSize int
	size    atomic.Int64
}

// NewInMemoryDeduper creates an in-memory deduper.
func NewInMemoryDeduper(opts ...Option) Deduper {
	d := &inMemoryDeduper{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(d)
	}
	d.seen = make(map[string]struct{})
	return d
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	d.size.Add(1)

	if d.maxSize > 0 {
		for len(d.seen) > d.maxSize && d.head < len(d.order) {
			oldest := d.order[d.head]
			d.head++
			if _, live := d.seen[oldest]; live {
				delete(d.seen, oldest)
				d.size.Add(-1)
			}
		}
		d.compact()
	}
	return false
}

func (d *inMemoryDeduper) Unrecord(_ context.Context, id string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		delete(d.seen, id)
		d.size.Add(-1)
	}
}

func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}

// compact drops the consumed prefix of the order slice once it dominates
// the backing array.
func (d *inMemoryDeduper) compact() {
	if d.head > len(d.order)/2 && d.head > 1024 {
		d.order = append([]string(nil), d.order[d.head:]...)
		d.head = 0
	}
}
