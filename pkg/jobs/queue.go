// Package jobs runs background work on an in-process worker pool.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrNotStarted is returned by Enqueue before Start.
	ErrNotStarted = errors.New("jobs: queue not started")
	// ErrStopped is returned by Enqueue once Stop has begun.
	ErrStopped = errors.New("jobs: queue stopped")
)

// Job is one unit of queued work.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job.
type Handler func(context.Context, Job) error

// QueueConfig configures the worker pool. OnGiveUp, when set, receives jobs
// that failed on every attempt.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
	OnGiveUp   func(Job, error)
}

// Stats counts queue outcomes since start.
type Stats struct {
	Processed uint64
	Retried   uint64
	GaveUp    uint64
}

// Queue dispatches jobs to a fixed set of goroutines. Stop drains jobs that
// were accepted before it was called; pending retries are abandoned.
type Queue struct {
	name     string
	handler  Handler
	cfg      QueueConfig
	logger   *zap.Logger
	jobs     chan Job
	ctx      context.Context
	cancel   context.CancelFunc
	workers  sync.WaitGroup
	inflight sync.WaitGroup

	mu      sync.RWMutex
	started bool
	stopped bool

	processed uint64
	retried   uint64
	gaveUp    uint64
}

// NewQueue builds a queue. Zero config values fall back to one worker, a
// buffer of four jobs per worker, three retries and a one second base delay.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 4
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	} else if cfg.MaxRetries == 0 {
		cfg.MaxRetries = 3
	}
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = time.Second
	}
	if cfg.Logger == nil {
		cfg.Logger = zap.NewNop()
	}
	return &Queue{
		name:    name,
		handler: handler,
		cfg:     cfg,
		logger:  cfg.Logger.With(zap.String("queue", name)),
		jobs:    make(chan Job, cfg.BufferSize),
	}
}

// Start launches the workers. Later calls are no-ops.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.started {
		return
	}
	q.ctx, q.cancel = context.WithCancel(ctx)
	for i := 0; i < q.cfg.Workers; i++ {
		q.workers.Add(1)
		go q.worker()
	}
	q.started = true
	q.logger.Info("queue started", zap.Int("workers", q.cfg.Workers))
}

// Stop refuses new jobs, waits for accepted jobs to finish and then stops the
// workers.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.started || q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	q.inflight.Wait()
	q.cancel()
	q.workers.Wait()
	q.logger.Info("queue stopped", zap.Uint64("processed", atomic.LoadUint64(&q.processed)))
}

// Enqueue hands a job to the workers, blocking while the buffer is full.
func (q *Queue) Enqueue(job Job) error {
	q.mu.RLock()
	if !q.started {
		q.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrNotStarted, q.name)
	}
	if q.stopped {
		q.mu.RUnlock()
		return fmt.Errorf("%w: %s", ErrStopped, q.name)
	}
	q.inflight.Add(1)
	q.mu.RUnlock()

	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case <-q.ctx.Done():
		q.inflight.Done()
		return fmt.Errorf("%w: %s: %v", ErrStopped, q.name, q.ctx.Err())
	case q.jobs <- job:
		return nil
	}
}

// Stats returns outcome counters.
func (q *Queue) Stats() Stats {
	return Stats{
		Processed: atomic.LoadUint64(&q.processed),
		Retried:   atomic.LoadUint64(&q.retried),
		GaveUp:    atomic.LoadUint64(&q.gaveUp),
	}
}

func (q *Queue) worker() {
	defer q.workers.Done()
	for {
		select {
		case <-q.ctx.Done():
			return
		case job := <-q.jobs:
			q.run(job)
		}
	}
}

func (q *Queue) run(job Job) {
	defer q.inflight.Done()
	err := q.handler(q.ctx, job)
	if err == nil {
		atomic.AddUint64(&q.processed, 1)
		return
	}
	job.Attempt++
	if job.Attempt > q.cfg.MaxRetries {
		atomic.AddUint64(&q.gaveUp, 1)
		q.logger.Error("job exceeded retries", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Error(err))
		if q.cfg.OnGiveUp != nil {
			q.cfg.OnGiveUp(job, err)
		}
		return
	}
	atomic.AddUint64(&q.retried, 1)
	q.logger.Warn("job failed, retrying", zap.String("job_id", job.ID), zap.String("type", job.Type), zap.Int("attempt", job.Attempt), zap.Error(err))
	q.retryLater(job)
}

// retryLater re-submits job after a linear backoff. The retry holds no
// inflight slot, so Stop does not wait for it.
func (q *Queue) retryLater(job Job) {
	delay := q.cfg.RetryDelay * time.Duration(job.Attempt)
	go func() {
		timer := time.NewTimer(delay)
		defer timer.Stop()
		select {
		case <-q.ctx.Done():
		case <-timer.C:
			if err := q.Enqueue(job); err != nil && !errors.Is(err, ErrStopped) {
				q.logger.Error("failed to requeue job", zap.String("job_id", job.ID), zap.Error(err))
			}
		}
	}()
}
