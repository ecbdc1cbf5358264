// Package queue holds in-process ReportQueue implementations.
package queue

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/SscSPs/cashbook_ledger/internal/core/domain"
)

// ErrQueueFull is returned when the buffer cannot take another job.
var ErrQueueFull = errors.New("report queue is full")

// ErrQueueClosed is returned after Stop.
var ErrQueueClosed = errors.New("report queue is closed")

// JobHandler processes one report job.
type JobHandler func(ctx context.Context, job domain.ReportJob) error

type queuedJob struct {
	job     domain.ReportJob
	retries int
}

// ChannelQueue dispatches report jobs to a fixed pool of workers with retry
// and quadratic backoff. Enqueue never blocks.
type ChannelQueue struct {
	handler    JobHandler
	jobs       chan queuedJob
	workers    int
	maxRetries int
	logger     *slog.Logger

	mu      sync.RWMutex
	closed  bool
	wg      sync.WaitGroup
	backoff func(retries int) time.Duration
}

// NewChannelQueue creates a queue; call Start to run the workers.
func NewChannelQueue(handler JobHandler, workers, size, maxRetries int, logger *slog.Logger) *ChannelQueue {
	if logger == nil {
		logger = slog.Default()
	}
	return &ChannelQueue{
		handler:    handler,
		jobs:       make(chan queuedJob, size),
		workers:    workers,
		maxRetries: maxRetries,
		logger:     logger,
		backoff: func(retries int) time.Duration {
			return time.Duration(retries*retries) * time.Second
		},
	}
}

// Start launches the workers. They exit when ctx is cancelled or Stop is called.
func (q *ChannelQueue) Start(ctx context.Context) {
	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, i)
	}
}

// Stop closes the queue and waits for in-flight jobs.
func (q *ChannelQueue) Stop() {
	q.mu.Lock()
	if !q.closed {
		q.closed = true
		close(q.jobs)
	}
	q.mu.Unlock()
	q.wg.Wait()
}

// EnqueueReportJob adds a job to the buffer.
func (q *ChannelQueue) EnqueueReportJob(_ context.Context, job domain.ReportJob) error {
	return q.push(queuedJob{job: job})
}

func (q *ChannelQueue) push(j queuedJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	if q.closed {
		return ErrQueueClosed
	}
	select {
	case q.jobs <- j:
		return nil
	default:
		return ErrQueueFull
	}
}

func (q *ChannelQueue) worker(ctx context.Context, id int) {
	defer q.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case j, ok := <-q.jobs:
			if !ok {
				return
			}
			q.process(ctx, id, j)
		}
	}
}

func (q *ChannelQueue) process(ctx context.Context, workerID int, j queuedJob) {
	logger := q.logger.With(slog.String("report_id", j.job.ReportID), slog.Int("worker", workerID))
	err := q.handler(ctx, j.job)
	if err == nil {
		logger.Debug("Report job dispatched")
		return
	}
	if j.retries >= q.maxRetries {
		logger.Error("Report job failed after retries", slog.Int("retries", j.retries), slog.String("error", err.Error()))
		return
	}
	j.retries++
	delay := q.backoff(j.retries)
	logger.Warn("Retrying report job", slog.Int("attempt", j.retries), slog.Duration("backoff", delay), slog.String("error", err.Error()))
	time.AfterFunc(delay, func() {
		if perr := q.push(j); perr != nil {
			logger.Error("Could not requeue report job", slog.String("error", perr.Error()))
		}
	})
}
