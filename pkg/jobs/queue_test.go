package jobs

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("test", func(context.Context, Job) error { return nil }, QueueConfig{})
	err := q.Enqueue(Job{ID: "1"})
	assert.ErrorIs(t, err, ErrNotStarted)
}

func TestQueueProcessesJobs(t *testing.T) {
	var seen sync.Map
	q := NewQueue("test", func(_ context.Context, job Job) error {
		seen.Store(job.ID, job.Payload)
		return nil
	}, QueueConfig{Workers: 2})
	q.Start(context.Background())
	defer q.Stop()

	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, q.Enqueue(Job{ID: id, Payload: id + "-payload"}))
	}
	assert.Eventually(t, func() bool { return q.Stats().Processed == 3 }, time.Second, 5*time.Millisecond)
	value, ok := seen.Load("b")
	require.True(t, ok)
	assert.Equal(t, "b-payload", value)
}

func TestQueueRetriesThenGivesUp(t *testing.T) {
	var calls int32
	gaveUp := make(chan Job, 1)
	q := NewQueue("test", func(context.Context, Job) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, QueueConfig{MaxRetries: 2, RetryDelay: time.Millisecond, OnGiveUp: func(job Job, err error) { gaveUp <- job }})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job{ID: "flaky"}))
	select {
	case job := <-gaveUp:
		assert.Equal(t, 3, job.Attempt)
	case <-time.After(time.Second):
		t.Fatal("job was never given up")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&calls))
	stats := q.Stats()
	assert.EqualValues(t, 2, stats.Retried)
	assert.EqualValues(t, 1, stats.GaveUp)
}

func TestStopDrainsAcceptedJobs(t *testing.T) {
	release := make(chan struct{})
	var done int32
	q := NewQueue("test", func(context.Context, Job) error {
		<-release
		atomic.AddInt32(&done, 1)
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 4})
	q.Start(context.Background())

	for i := 0; i < 3; i++ {
		require.NoError(t, q.Enqueue(Job{}))
	}
	stopped := make(chan struct{})
	go func() {
		q.Stop()
		close(stopped)
	}()
	assert.Eventually(t, func() bool { return errors.Is(q.Enqueue(Job{}), ErrStopped) }, time.Second, time.Millisecond)
	close(release)

	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("stop did not return")
	}
	assert.EqualValues(t, 3, atomic.LoadInt32(&done))
}
