// Package notify dispatches notifications asynchronously after a state
// transition has committed. Failures are retried with backoff, then logged
// and dropped; they are never reported back to the operation that triggered
// them.
package notify

import (
	"context"
	"time"

	"perpusum-backend/internal/logger"

	"github.com/google/uuid"
)

// Job is one queued notification.
type Job struct {
	ID      string
	Name    string
	Send    func(ctx context.Context) error
	retries int
}

// Dispatcher is what the lifecycle services see: enqueue and forget.
type Dispatcher interface {
	Enqueue(name string, send func(ctx context.Context) error)
}

// Queue processes notification jobs on a pool of workers, bounding each send
// attempt with its own timeout.
type Queue struct {
	jobs        chan Job
	workers     int
	maxRetries  int
	sendTimeout time.Duration
}

func NewQueue(workers, queueSize, maxRetries int, sendTimeout time.Duration) *Queue {
	return &Queue{
		jobs:        make(chan Job, queueSize),
		workers:     workers,
		maxRetries:  maxRetries,
		sendTimeout: sendTimeout,
	}
}

// Start begins processing jobs. Workers stop when ctx is cancelled.
func (q *Queue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		go q.worker(ctx, i)
	}
}

func (q *Queue) worker(ctx context.Context, id int) {
	logger.Debug("Notification worker started", "worker", id)
	for {
		select {
		case <-ctx.Done():
			logger.Debug("Notification worker stopping", "worker", id)
			return
		case job := <-q.jobs:
			q.process(job)
		}
	}
}

func (q *Queue) process(job Job) {
	ctx, cancel := context.WithTimeout(context.Background(), q.sendTimeout)
	defer cancel()

	err := job.Send(ctx)
	if err == nil {
		logger.Debug("Notification sent", "job", job.Name, "id", job.ID)
		return
	}

	if job.retries < q.maxRetries {
		job.retries++
		backoff := time.Duration(job.retries*job.retries) * time.Second
		logger.Warn("Notification failed, will retry",
			"job", job.Name, "id", job.ID, "attempt", job.retries, "backoff", backoff, "error", err)
		time.AfterFunc(backoff, func() {
			select {
			case q.jobs <- job:
			default:
				logger.Error("Notification queue full, dropping retry", "job", job.Name, "id", job.ID)
			}
		})
		return
	}

	logger.Error("Notification dropped after retries",
		"job", job.Name, "id", job.ID, "retries", job.retries, "error", err)
}

// Enqueue adds a notification job. When the queue is full the job is dropped
// with an error log; a lost notification must never block or fail the state
// transition that produced it.
func (q *Queue) Enqueue(name string, send func(ctx context.Context) error) {
	job := Job{
		ID:   uuid.NewString(),
		Name: name,
		Send: send,
	}
	select {
	case q.jobs <- job:
	default:
		logger.Error("Notification queue full, dropping job", "job", name, "id", job.ID)
	}
}
