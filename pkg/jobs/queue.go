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
	// ErrQueueFull is returned when the buffer cannot take another job.
	ErrQueueFull = errors.New("queue full")
	// ErrQueueStopped is returned by Enqueue outside Start/Stop.
	ErrQueueStopped = errors.New("queue not running")
)

const maxRetryDelay = 30 * time.Second

// Job is one unit of background work.
type Job struct {
	ID       string
	Type     string
	Payload  interface{}
	Attempt  int
	Enqueued time.Time
}

// Handler processes a job. A non-nil error schedules a retry.
type Handler func(context.Context, Job) error

// QueueConfig sizes the worker pool. RetryDelay is the first backoff step
// and doubles on every further attempt.
type QueueConfig struct {
	Workers    int
	BufferSize int
	MaxRetries int
	RetryDelay time.Duration
	Logger     *zap.Logger
}

// Stats are counters since construction.
type Stats struct {
	Pending   int    `json:"pending"`
	Processed uint64 `json:"processed"`
	Retried   uint64 `json:"retried"`
	Failed    uint64 `json:"failed"`
	Dropped   uint64 `json:"dropped"`
}

// Queue runs jobs on a fixed set of goroutines. Enqueue never blocks, so it
// is safe on the request path. Stop closes the buffer and lets the workers
// finish what is already queued.
type Queue struct {
	name    string
	handler Handler
	cfg     QueueConfig
	log     *zap.SugaredLogger

	mu       sync.RWMutex
	running  bool
	jobs     chan Job
	stopping chan struct{}
	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup

	processed atomic.Uint64
	retried   atomic.Uint64
	failed    atomic.Uint64
	dropped   atomic.Uint64
}

// NewQueue builds a stopped queue.
func NewQueue(name string, handler Handler, cfg QueueConfig) *Queue {
	if cfg.Workers <= 0 {
		cfg.Workers = 1
	}
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = cfg.Workers * 64
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
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
		log:     cfg.Logger.Sugar().With("queue", name),
	}
}

// Start launches the workers. Calling it on a running queue does nothing.
func (q *Queue) Start(ctx context.Context) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.running {
		return
	}
	q.jobs = make(chan Job, q.cfg.BufferSize)
	q.stopping = make(chan struct{})
	q.ctx, q.cancel = context.WithCancel(ctx)
	q.running = true

	q.wg.Add(q.cfg.Workers)
	for i := 0; i < q.cfg.Workers; i++ {
		go func(jobs <-chan Job) {
			defer q.wg.Done()
			for job := range jobs {
				q.run(job)
			}
		}(q.jobs)
	}
	q.log.Infow("queue started", "workers", q.cfg.Workers, "buffer", q.cfg.BufferSize)
}

// Stop refuses new jobs, waits for the buffered ones and returns. Pending
// retry backoffs are abandoned and counted as failures.
func (q *Queue) Stop() {
	q.mu.Lock()
	if !q.running {
		q.mu.Unlock()
		return
	}
	q.running = false
	close(q.stopping)
	close(q.jobs)
	q.mu.Unlock()

	q.wg.Wait()
	q.cancel()
	q.log.Infow("queue stopped", "processed", q.processed.Load(), "failed", q.failed.Load())
}

// Enqueue buffers job or fails immediately.
func (q *Queue) Enqueue(job Job) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if !q.running {
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueStopped)
	}
	if job.Enqueued.IsZero() {
		job.Enqueued = time.Now().UTC()
	}
	select {
	case q.jobs <- job:
		return nil
	default:
		q.dropped.Add(1)
		return fmt.Errorf("queue %s: %w", q.name, ErrQueueFull)
	}
}

// Stats snapshots the counters.
func (q *Queue) Stats() Stats {
	q.mu.RLock()
	pending := len(q.jobs)
	q.mu.RUnlock()
	return Stats{
		Pending:   pending,
		Processed: q.processed.Load(),
		Retried:   q.retried.Load(),
		Failed:    q.failed.Load(),
		Dropped:   q.dropped.Load(),
	}
}

func (q *Queue) run(job Job) {
	delay := q.cfg.RetryDelay
	for {
		err := q.handler(q.ctx, job)
		if err == nil {
			q.processed.Add(1)
			return
		}
		if job.Attempt >= q.cfg.MaxRetries {
			q.failed.Add(1)
			q.log.Errorw("job exceeded retries", "job_id", job.ID, "type", job.Type, "attempts", job.Attempt+1, "error", err)
			return
		}
		job.Attempt++
		q.retried.Add(1)
		q.log.Warnw("job failed, retrying", "job_id", job.ID, "type", job.Type, "attempt", job.Attempt, "backoff", delay, "error", err)

		timer := time.NewTimer(delay)
		select {
		case <-q.stopping:
			timer.Stop()
			q.failed.Add(1)
			return
		case <-timer.C:
		}
		if delay *= 2; delay > maxRetryDelay {
			delay = maxRetryDelay
		}
	}
}
