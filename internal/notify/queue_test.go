package notify

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestQueueDeliversJobs(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(2, 16, 0, time.Second)
	q.Start(ctx)

	var wg sync.WaitGroup
	var delivered int64
	for i := 0; i < 10; i++ {
		wg.Add(1)
		q.Enqueue("test job", func(ctx context.Context) error {
			defer wg.Done()
			atomic.AddInt64(&delivered, 1)
			return nil
		})
	}

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("jobs not delivered in time")
	}
	assert.Equal(t, int64(10), atomic.LoadInt64(&delivered))
}

func TestQueueRetriesFailedJob(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 16, 2, time.Second)
	q.Start(ctx)

	var attempts int64
	succeeded := make(chan struct{})
	q.Enqueue("flaky job", func(ctx context.Context) error {
		if atomic.AddInt64(&attempts, 1) < 3 {
			return errors.New("transient failure")
		}
		close(succeeded)
		return nil
	})

	select {
	case <-succeeded:
	case <-time.After(10 * time.Second):
		t.Fatal("job not retried to success in time")
	}
	assert.Equal(t, int64(3), atomic.LoadInt64(&attempts))
}

func TestQueueDropsWhenFull(t *testing.T) {
	// No workers started: everything past the buffer must be dropped, and
	// Enqueue must never block.
	q := NewQueue(1, 2, 0, time.Second)

	done := make(chan struct{})
	go func() {
		for i := 0; i < 10; i++ {
			q.Enqueue("overflow job", func(ctx context.Context) error { return nil })
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Enqueue blocked on a full queue")
	}
	assert.Len(t, q.jobs, 2)
}

func TestQueueSendTimeout(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	q := NewQueue(1, 4, 0, 50*time.Millisecond)
	q.Start(ctx)

	timedOut := make(chan struct{})
	q.Enqueue("slow job", func(ctx context.Context) error {
		<-ctx.Done()
		close(timedOut)
		return ctx.Err()
	})

	select {
	case <-timedOut:
	case <-time.After(5 * time.Second):
		t.Fatal("send context not cancelled by the timeout")
	}
}
