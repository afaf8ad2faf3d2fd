// Package worker runs the single writer that drains persistence jobs.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/okian/elevatos/internal/adapters/mq/queue"
	"github.com/okian/elevatos/pkg/logger"
	"github.com/okian/elevatos/pkg/metrics"
)

// Writer persists the current value of a key.
type Writer interface {
	WriteKey(ctx context.Context, key string) error
}

// WriterFunc adapts a function to Writer.
type WriterFunc func(ctx context.Context, key string) error

// WriteKey calls f.
func (f WriterFunc) WriteKey(ctx context.Context, key string) error { return f(ctx, key) }

// Queue defines how the worker receives jobs.
type Queue interface {
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes jobs until its queue is drained.
type Worker interface {
	// Run processes jobs until the queue is closed and empty, ctx is
	// cancelled or Shutdown gives up waiting.
	Run(ctx context.Context)

	// Shutdown waits for Run to drain the queue. The caller closes the queue
	// first. If ctx expires the remaining jobs are abandoned.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker.
type InMemoryWorker struct {
	queue  Queue
	writer Writer
	name   string

	stop     chan struct{}
	stopOnce sync.Once
	done     chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a worker that hands every job to writer.
func NewInMemoryWorker(q Queue, writer Writer, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:  q,
		writer: writer,
		name:   "worker",
		stop:   make(chan struct{}),
		done:   make(chan struct{}),
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.logger == nil {
		w.logger = logger.Get().Named(w.name)
	}

	return w
}

// Run starts the worker loop.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stop:
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			if err := w.process(ctx, job); err != nil {
				w.logger.Error(ctx, "error processing job", logger.String("key", job.Key), logger.Error(err))
			}
		}
	}
}

// Shutdown waits for the worker to finish.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.stopOnce.Do(func() { close(w.stop) })
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// Done is closed when Run returns.
func (w *InMemoryWorker) Done() <-chan struct{} {
	return w.done
}

func (w *InMemoryWorker) process(ctx context.Context, job queue.Job) error {
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Milliseconds()))
	}()

	if err := w.writer.WriteKey(ctx, job.Key); err != nil {
		metrics.RecordWorkerError()
		metrics.RecordErrorByComponent("worker", "write_failed")
		return fmt.Errorf("write %s: %w", job.Key, err)
	}

	w.logger.Debug(ctx, "job written",
		logger.String("key", job.Key),
		logger.Float64("queued_ms", float64(start.Sub(job.EnqueuedAt).Microseconds())/1000),
	)
	return nil
}
