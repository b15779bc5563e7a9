// Package queue buffers training samples between the rating path and
// the offline trainer. The rating path enqueues without blocking; the
// trainer drains on its own schedule.
package queue

import (
	"context"
	"sync"

	"github.com/okian/pickup/internal/domain/model"
	"github.com/okian/pickup/pkg/metrics"
)

// Default queue configuration constants.
const defaultCapacity = 10000

// Sample is the payload type flowing through the queue.
type Sample = model.TrainingSample

// Queue provides non-blocking enqueue and draining dequeue semantics.
type Queue interface {
	// Enqueue adds a sample. Returns false if the queue is full; the
	// rating path drops the sample rather than wait.
	Enqueue(ctx context.Context, s Sample) bool

	// Drain removes and returns every queued sample.
	Drain(ctx context.Context) []Sample

	// Len returns the current number of queued samples.
	Len(ctx context.Context) int

	// Close shuts the queue; further enqueues fail.
	Close() error
}

// InMemoryQueue implements Queue with a mutex-guarded ring buffer.
type InMemoryQueue struct {
	mu       sync.Mutex
	samples  []Sample
	capacity int
	closed   bool
}

// Option applies a configuration option to the InMemoryQueue.
type Option func(*InMemoryQueue)

// WithCapacity sets the maximum number of buffered samples.
func WithCapacity(capacity int) Option {
	return func(q *InMemoryQueue) {
		if capacity > 0 {
			q.capacity = capacity
		}
	}
}

// NewInMemoryQueue creates an in-memory sample queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.samples = make([]Sample, 0, min(q.capacity, 1024))
	metrics.UpdateTrainingQueueSize(0)
	return q
}

// Enqueue adds a sample unless the queue is closed or full.
func (q *InMemoryQueue) Enqueue(_ context.Context, s Sample) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed || len(q.samples) >= q.capacity {
		metrics.RecordTrainingSampleDropped()
		return false
	}
	q.samples = append(q.samples, s)
	metrics.UpdateTrainingQueueSize(len(q.samples))
	return true
}

// Drain removes and returns all queued samples.
func (q *InMemoryQueue) Drain(_ context.Context) []Sample {
	q.mu.Lock()
	defer q.mu.Unlock()

	out := q.samples
	q.samples = make([]Sample, 0, min(q.capacity, 1024))
	metrics.UpdateTrainingQueueSize(0)
	return out
}

// Len returns the current number of queued samples.
func (q *InMemoryQueue) Len(_ context.Context) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.samples)
}

// Close shuts the queue.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	return nil
}
