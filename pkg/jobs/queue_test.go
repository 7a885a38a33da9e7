package jobs

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesAndRetries(t *testing.T) {
	var (
		mu       sync.Mutex
		attempts = map[string]int{}
		done     = make(chan struct{}, 2)
	)
	q := NewQueue("audit", func(_ context.Context, job Job) error {
		mu.Lock()
		attempts[job.ID]++
		n := attempts[job.ID]
		mu.Unlock()
		if job.ID == "flaky" && n < 2 {
			return errors.New("transient")
		}
		done <- struct{}{}
		return nil
	}, QueueConfig{Workers: 2, MaxRetries: 2, RetryDelay: time.Millisecond})

	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "ok"}))
	require.NoError(t, q.Enqueue(Job{ID: "flaky"}))

	for i := 0; i < 2; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("jobs not processed")
		}
	}
	q.Stop()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, attempts["ok"])
	assert.Equal(t, 2, attempts["flaky"])
	assert.Equal(t, uint64(2), q.Stats().Processed)
}

func TestQueueEnqueueRequiresStart(t *testing.T) {
	q := NewQueue("audit", func(context.Context, Job) error { return nil }, QueueConfig{})
	require.ErrorIs(t, q.Enqueue(Job{ID: "x"}), ErrQueueStopped)

	q.Start(context.Background())
	q.Stop()
	require.ErrorIs(t, q.Enqueue(Job{ID: "y"}), ErrQueueStopped)
}

func TestQueueStopAbandonsBackoff(t *testing.T) {
	attempted := make(chan struct{}, 1)
	q := NewQueue("audit", func(context.Context, Job) error {
		select {
		case attempted <- struct{}{}:
		default:
		}
		return errors.New("database down")
	}, QueueConfig{MaxRetries: 5, RetryDelay: time.Hour})
	q.Start(context.Background())
	require.NoError(t, q.Enqueue(Job{ID: "stuck"}))

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("job never ran")
	}
	q.Stop()

	stats := q.Stats()
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Equal(t, uint64(1), stats.Retried)
	assert.Zero(t, stats.Processed)
}

func TestQueueEnqueueDoesNotBlockWhenFull(t *testing.T) {
	release := make(chan struct{})
	q := NewQueue("audit", func(context.Context, Job) error {
		<-release
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job{ID: "busy"}))
	require.Eventually(t, func() bool { return q.Stats().Pending == 0 }, time.Second, time.Millisecond)
	require.NoError(t, q.Enqueue(Job{ID: "buffered"}))

	err := q.Enqueue(Job{ID: "dropped"})
	require.ErrorIs(t, err, ErrQueueFull)
	assert.Equal(t, uint64(1), q.Stats().Dropped)

	close(release)
	q.Stop()
	assert.Equal(t, uint64(2), q.Stats().Processed)
}
