// Package dedupe tracks keys with outstanding work so that repeated
// notifications for the same key collapse into a single job.
package dedupe

import (
	"context"
	"sort"
	"sync"
	"sync/atomic"
)

// Deduper records keys that already have a job in flight.
type Deduper interface {
	// SeenAndRecord atomically checks whether id is pending and records it if
	// not. It returns true when id was already pending.
	SeenAndRecord(ctx context.Context, id string) bool

	// Unrecord clears id so the next change schedules a new job. Callers
	// unrecord before doing the work, so a change that races with the work
	// is never lost.
	Unrecord(ctx context.Context, id string)

	// Pending returns the recorded ids in sorted order.
	Pending() []string

	Size() int64
}

type inMemoryDeduper struct {
	mu   sync.Mutex
	seen map[string]struct{}
	size atomic.Int64
}

// NewInMemoryDeduper creates an empty Deduper.
func NewInMemoryDeduper() Deduper {
	return &inMemoryDeduper{seen: make(map[string]struct{})}
}

func (d *inMemoryDeduper) SeenAndRecord(_ context.Context, id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	d.size.Add(1)
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

func (d *inMemoryDeduper) Pending() []string {
	d.mu.Lock()
	out := make([]string, 0, len(d.seen))
	for id := range d.seen {
		out = append(out, id)
	}
	d.mu.Unlock()

	sort.Strings(out)
	return out
}

// Size returns the number of pending ids.
func (d *inMemoryDeduper) Size() int64 {
	return d.size.Load()
}
