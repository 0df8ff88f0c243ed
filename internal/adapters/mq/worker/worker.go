package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/upskill/internal/adapters/mq/queue"
	"github.com/okian/upskill/internal/domain/model"
	"github.com/okian/upskill/pkg/logger"
	"github.com/okian/upskill/pkg/metrics"
)

// Default worker configuration constants.
const (
	maxDefaultWorkers     = 8
	workerShutdownTimeout = 5 * time.Second
	poolShutdownTimeout   = 30 * time.Second
)

// Enricher augments a course. It must return the input unchanged on failure.
type Enricher interface {
	Enrich(ctx context.Context, c model.Course) model.Course
}

// Queue defines how the pool submits jobs and how workers receive them.
type Queue interface {
	Enqueue(ctx context.Context, j queue.Job) bool
	Dequeue(ctx context.Context) <-chan queue.Job
}

// Worker processes enrichment jobs.
type Worker interface {
	// Run starts the worker loop until ctx is canceled.
	Run(ctx context.Context)

	// Shutdown stops the worker after its current job.
	Shutdown(ctx context.Context) error
}

// InMemoryWorker implements Worker on top of a Queue.
type InMemoryWorker struct {
	queue    Queue
	enricher Enricher
	name     string

	shutdown     chan struct{}
	shutdownOnce sync.Once
	done         chan struct{}

	logger logger.Logger
}

// NewInMemoryWorker creates a new worker with configuration options.
func NewInMemoryWorker(q Queue, enricher Enricher, opts ...Option) *InMemoryWorker {
	w := &InMemoryWorker{
		queue:    q,
		enricher: enricher,
		name:     "worker",
		shutdown: make(chan struct{}),
		done:     make(chan struct{}),
		logger:   logger.Nop(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.logger = w.logger.Named(w.name)
	return w
}

// Run starts the worker loop. It returns when ctx is done, Shutdown is called
// or the queue is closed and drained.
func (w *InMemoryWorker) Run(ctx context.Context) {
	defer close(w.done)

	jobs := w.queue.Dequeue(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shutdown:
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			w.processJob(ctx, j)
		}
	}
}

// Shutdown signals the worker to stop and waits for it or for ctx.
func (w *InMemoryWorker) Shutdown(ctx context.Context) error {
	w.shutdownOnce.Do(func() { close(w.shutdown) })

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		w.logger.Warn(ctx, "shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", ctx.Err())
	}
}

// processJob enriches one course and replies. Jobs whose deadline already
// passed are answered with the original course.
func (w *InMemoryWorker) processJob(ctx context.Context, j queue.Job) { //nolint:gocritic // hugeParam: Job is passed by value for channel semantics
	start := time.Now()
	defer func() {
		metrics.RecordWorkerProcessingLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()
	metrics.RecordQueueDequeue()

	jobCtx := j.Ctx
	if jobCtx == nil {
		jobCtx = ctx
	}

	res := queue.Result{JobID: j.ID, Index: j.Index, Course: j.Course}
	if err := jobCtx.Err(); err != nil {
		metrics.RecordErrorByComponent("worker", "job_expired")
		w.logger.Debug(ctx, "job expired before processing", logger.String("job_id", j.ID), logger.Error(err))
	} else {
		res.Course = w.enricher.Enrich(jobCtx, j.Course)
		res.Enriched = res.Course.AIEnhanced && !j.Course.AIEnhanced
	}

	if j.Reply == nil {
		return
	}
	select {
	case j.Reply <- res:
	default:
		metrics.RecordErrorByComponent("worker", "reply_dropped")
		w.logger.Warn(ctx, "reply channel full, dropping result", logger.String("job_id", j.ID))
	}
}

// Pool manages multiple workers sharing one queue.
type Pool struct {
	workers []*InMemoryWorker
	queue   Queue

	logger logger.Logger
}

// NewPool creates a new worker pool. A non-positive workerCount selects
// min(NumCPU, 8). opts are applied to every worker.
func NewPool(workerCount int, q Queue, enricher Enricher, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = min(runtime.NumCPU(), maxDefaultWorkers)
	}

	base := &InMemoryWorker{logger: logger.Nop()}
	for _, opt := range opts {
		opt(base)
	}

	pool := &Pool{
		workers: make([]*InMemoryWorker, workerCount),
		queue:   q,
		logger:  base.logger.Named("worker-pool"),
	}
	for i := 0; i < workerCount; i++ {
		workerOpts := append(append([]Option(nil), opts...), WithName("worker-"+strconv.Itoa(i)))
		pool.workers[i] = NewInMemoryWorker(q, enricher, workerOpts...)
	}

	metrics.UpdateWorkerCount(workerCount)
	return pool
}

// Size returns the number of workers.
func (p *Pool) Size() int { return len(p.workers) }

// Start starts all workers in the pool.
func (p *Pool) Start(ctx context.Context) {
	for _, w := range p.workers {
		go w.Run(ctx)
	}
	p.logger.Info(ctx, "enrichment workers started", logger.Int("workers", len(p.workers)))
}

// EnrichAll submits one job per course and waits up to timeout for the
// replies. Courses that are rejected by the queue or not enriched in time keep
// their original data. The result has the same order as courses.
func (p *Pool) EnrichAll(ctx context.Context, courses []model.Course, timeout time.Duration) []model.Course {
	out := make([]model.Course, len(courses))
	copy(out, courses)
	if len(courses) == 0 {
		return out
	}

	jobCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	replies := make(chan queue.Result, len(courses))
	pending := 0
	for i, c := range courses {
		j := queue.Job{ID: uuid.NewString(), Ctx: jobCtx, Index: i, Course: c, Reply: replies}
		if !p.queue.Enqueue(jobCtx, j) {
			metrics.RecordEnrichment("enrich", "rejected")
			p.logger.Warn(ctx, "enrichment job rejected", logger.String("course", c.Title))
			continue
		}
		pending++
	}

	for pending > 0 {
		select {
		case r := <-replies:
			out[r.Index] = r.Course
			pending--
		case <-jobCtx.Done():
			metrics.RecordEnrichment("enrich", "expired")
			p.logger.Warn(ctx, "enrichment deadline reached, keeping original courses",
				logger.Int("pending", pending),
				logger.Duration("timeout", timeout),
			)
			return out
		}
	}
	return out
}

// Stop signals every worker to stop and waits briefly for each.
func (p *Pool) Stop() {
	for _, w := range p.workers {
		ctx, cancel := context.WithTimeout(context.Background(), workerShutdownTimeout)
		_ = w.Shutdown(ctx)
		cancel()
	}
}

// Shutdown closes the queue so workers drain what is queued, then waits for
// them or for ctx.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()

	for i, w := range p.workers {
		select {
		case <-w.done:
		case <-shutdownCtx.Done():
			p.logger.Warn(ctx, "worker shutdown timed out", logger.Int("worker_id", i))
			return fmt.Errorf("worker pool shutdown: %w", shutdownCtx.Err())
		}
	}
	return nil
}
