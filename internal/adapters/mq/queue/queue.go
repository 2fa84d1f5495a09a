// Package queue holds score updates that could not be applied in-line
// and are waiting for the reconciler.
//
// A task row is never rolled back once persisted; when the follow-up
// entity score update fails, the award lands here instead of being
// lost. The implementation is an in-memory bounded channel queue.
package queue

import (
	"context"
	"sync"

	"github.com/veganaut/veganaut-backend/internal/domain/model"
	"github.com/veganaut/veganaut-backend/pkg/metrics"
)

// Default queue configuration constants.
const defaultCapacity = 10_000

// Update is the payload type flowing through the queue.
type Update = model.ScoreUpdate

// Queue provides non-blocking enqueue and channel-based dequeue.
type Queue interface {
	// Enqueue adds an update. Returns false if the queue is full or closed.
	Enqueue(ctx context.Context, u Update) bool

	// Dequeue returns a channel delivering updates as they arrive.
	// The channel closes when the queue closes.
	Dequeue(ctx context.Context) <-chan Update

	// Len returns the number of pending updates.
	Len(ctx context.Context) int

	// Close shuts the queue down; no further enqueues are accepted.
	Close() error
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	updates  chan Update
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a queue with configuration options.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.updates = make(chan Update, q.capacity)
	metrics.UpdateRetryQueueSize(0)
	return q
}

// Enqueue adds an update to the queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, u Update) bool {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return false
	}
	select {
	case q.updates <- u:
		metrics.RecordScoreUpdateQueued()
		metrics.UpdateRetryQueueSize(len(q.updates))
		return true
	case <-ctx.Done():
		return false
	default:
		// Full. Dropping here is the accepted eventual-consistency gap;
		// the caller logs it.
		return false
	}
}

// Dequeue returns the delivery channel.
func (q *InMemoryQueue) Dequeue(ctx context.Context) <-chan Update {
	return q.updates
}

// Len returns the number of pending updates.
func (q *InMemoryQueue) Len(ctx context.Context) int {
	return len(q.updates)
}

// Close shuts down the queue and closes the delivery channel.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrClosed
	}
	q.closed = true
	close(q.updates)
	return nil
}
