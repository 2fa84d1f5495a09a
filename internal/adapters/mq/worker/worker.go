// Package worker runs the reconcilers that drain the score-update
// retry queue and re-apply awards that failed in-line.
package worker

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/veganaut/veganaut-backend/internal/adapters/mq/queue"
	"github.com/veganaut/veganaut-backend/pkg/logger"
	"github.com/veganaut/veganaut-backend/pkg/metrics"
)

// Default reconciler configuration constants.
const (
	defaultMaxAttempts    = 5
	workerShutdownTimeout = 5 * time.Second
)

// Applier re-applies a deferred score update to its entity.
type Applier interface {
	ApplyScoreUpdate(ctx context.Context, u queue.Update) error
}

// Retryer is the queue surface a reconciler needs: it consumes updates
// and puts failed ones back.
type Retryer interface {
	Enqueue(ctx context.Context, u queue.Update) bool
	Dequeue(ctx context.Context) <-chan queue.Update
}

// Reconciler drains the retry queue and applies updates.
type Reconciler struct {
	queue       Retryer
	applier     Applier
	name        string
	maxAttempts int

	shutdown chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewReconciler creates a reconciler with configuration options.
func NewReconciler(q Retryer, a Applier, opts ...Option) *Reconciler {
	r := &Reconciler{
		queue:       q,
		applier:     a,
		name:        "reconciler",
		maxAttempts: defaultMaxAttempts,
		shutdown:    make(chan struct{}),
		done:        make(chan struct{}),
		logger:      logger.Get().Named("reconciler"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run processes updates until ctx is canceled, the queue closes, or
// Shutdown is called.
func (r *Reconciler) Run(ctx context.Context) {
	defer close(r.done)

	updates := r.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-r.shutdown:
			return
		case u, ok := <-updates:
			if !ok {
				return
			}
			r.process(ctx, u)
		}
	}
}

// Shutdown stops the reconciler, waiting up to the shutdown timeout.
func (r *Reconciler) Shutdown(ctx context.Context) error {
	r.stopOnce.Do(func() { close(r.shutdown) })
	select {
	case <-r.done:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("reconciler shutdown timed out: %w", ctx.Err())
	}
}

func (r *Reconciler) process(ctx context.Context, u queue.Update) {
	err := r.applier.ApplyScoreUpdate(ctx, u)
	if err == nil {
		metrics.RecordScoreUpdateReconciled()
		r.logger.Info(ctx, "deferred score update applied",
			logger.String("subject", string(u.Subject)),
			logger.String("subjectID", u.SubjectID),
			logger.String("taskID", u.TaskID),
			logger.Int("attempts", u.Attempts+1),
		)
		return
	}

	u.Attempts++
	if u.Attempts >= r.maxAttempts {
		metrics.RecordScoreUpdateDropped()
		r.logger.Error(ctx, "giving up on deferred score update",
			logger.String("subjectID", u.SubjectID),
			logger.String("taskID", u.TaskID),
			logger.Error(err),
		)
		return
	}
	if !r.queue.Enqueue(ctx, u) {
		metrics.RecordScoreUpdateDropped()
		r.logger.Error(ctx, "retry queue rejected deferred score update",
			logger.String("subjectID", u.SubjectID),
			logger.String("taskID", u.TaskID),
		)
	}
}

// Pool manages a fixed set of reconcilers on one queue.
type Pool struct {
	reconcilers []*Reconciler

	logger logger.Logger
}

// NewPool creates workerCount reconcilers sharing the queue.
func NewPool(workerCount int, q Retryer, a Applier) *Pool {
	if workerCount < 1 {
		workerCount = 1
	}
	p := &Pool{
		reconcilers: make([]*Reconciler, workerCount),
		logger:      logger.Get().Named("reconciler-pool"),
	}
	for i := 0; i < workerCount; i++ {
		p.reconcilers[i] = NewReconciler(q, a, WithName("reconciler-"+strconv.Itoa(i)))
	}
	metrics.UpdateReconcilerCount(workerCount)
	return p
}

// Start launches every reconciler.
func (p *Pool) Start(ctx context.Context) {
	for _, r := range p.reconcilers {
		go r.Run(ctx)
	}
}

// Stop waits for every reconciler to finish, bounded per worker.
func (p *Pool) Stop() {
	for _, r := range p.reconcilers {
		r.stopOnce.Do(func() { close(r.shutdown) })
	}
	for _, r := range p.reconcilers {
		select {
		case <-r.done:
		case <-time.After(workerShutdownTimeout):
		}
	}
}
