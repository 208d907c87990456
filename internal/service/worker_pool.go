package service

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
	"github.com/shopspring/decimal"
)

// JobKind names a background reconciliation task.
type JobKind string

const (
	JobReconcileTrip    JobKind = "reconcile_trip"
	JobCapacityChanged  JobKind = "capacity_changed"
	JobScheduleChanged  JobKind = "schedule_changed"
	JobStaffUnavailable JobKind = "staff_unavailable"
	JobReallocateOrder  JobKind = "reallocate_order"
	JobRestaffTrip      JobKind = "restaff_trip"
)

// Job is one unit of background work. Only the fields used by Kind are set.
type Job struct {
	Kind     JobKind
	TripID   string
	UnitID   string
	Capacity decimal.Decimal
	Schedule *model.RouteSchedule
	StaffID  string
	From     time.Time
	OrderID  string
}

// JobHandler executes a job.
type JobHandler func(ctx context.Context, job Job) error

// JobQueue accepts jobs without blocking.
type JobQueue interface {
	Submit(job Job) bool
}

// WorkerPoolConfig holds configuration for the worker pool.
type WorkerPoolConfig struct {
	// BufferSize is the size of the job channel buffer.
	BufferSize int
	// NumWorkers is the number of worker goroutines.
	NumWorkers int
	// JobTimeout bounds a single job.
	JobTimeout time.Duration
}

// DefaultWorkerPoolConfig returns the defaults used when nothing is configured.
func DefaultWorkerPoolConfig() WorkerPoolConfig {
	return WorkerPoolConfig{
		BufferSize: 256,
		NumWorkers: 4,
		JobTimeout: 30 * time.Second,
	}
}

// WorkerPool runs jobs on a fixed number of goroutines fed by a bounded buffer.
type WorkerPool struct {
	cfg     WorkerPoolConfig
	jobCh   chan Job
	stopCh  chan struct{}
	wg      sync.WaitGroup
	started atomic.Bool
	stopped atomic.Bool

	enqueued int64
	dropped  int64
	done     int64
	failed   int64
}

// NewWorkerPool creates a pool. Jobs submitted before Start wait in the buffer.
func NewWorkerPool(cfg WorkerPoolConfig) *WorkerPool {
	def := DefaultWorkerPoolConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	if cfg.JobTimeout <= 0 {
		cfg.JobTimeout = def.JobTimeout
	}
	return &WorkerPool{
		cfg:    cfg,
		jobCh:  make(chan Job, cfg.BufferSize),
		stopCh: make(chan struct{}),
	}
}

// Start launches the workers. Later calls are ignored.
func (p *WorkerPool) Start(handler JobHandler) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}
	for i := 0; i < p.cfg.NumWorkers; i++ {
		p.wg.Add(1)
		go p.worker(handler)
	}
}

func (p *WorkerPool) worker(handler JobHandler) {
	defer p.wg.Done()

	for {
		select {
		case job := <-p.jobCh:
			p.run(handler, job)
		case <-p.stopCh:
			// Drain remaining jobs before stopping
			for {
				select {
				case job := <-p.jobCh:
					p.run(handler, job)
				default:
					return
				}
			}
		}
	}
}

func (p *WorkerPool) run(handler JobHandler, job Job) {
	metrics.ReconcileQueueDepth.Set(float64(len(p.jobCh)))

	ctx, cancel := context.WithTimeout(context.Background(), p.cfg.JobTimeout)
	defer cancel()

	if err := handler(ctx, job); err != nil {
		atomic.AddInt64(&p.failed, 1)
		metrics.RecordReconcileJob(string(job.Kind), "failed")
		log := logger.Logger()
		log.Error().
			Err(err).
			Str("kind", string(job.Kind)).
			Str("trip_id", job.TripID).
			Str("order_id", job.OrderID).
			Str("code", model.Code(err)).
			Msg("Background job failed")
		return
	}
	atomic.AddInt64(&p.done, 1)
	metrics.RecordReconcileJob(string(job.Kind), "done")
}

// Submit enqueues job. It returns false when the buffer is full or the pool is stopped.
func (p *WorkerPool) Submit(job Job) bool {
	if p.stopped.Load() {
		atomic.AddInt64(&p.dropped, 1)
		return false
	}
	select {
	case p.jobCh <- job:
		atomic.AddInt64(&p.enqueued, 1)
		metrics.ReconcileQueueDepth.Set(float64(len(p.jobCh)))
		return true
	default:
		atomic.AddInt64(&p.dropped, 1)
		metrics.RecordReconcileJob(string(job.Kind), "dropped")
		return false
	}
}

// Stop rejects new jobs and waits for queued ones to finish.
func (p *WorkerPool) Stop() {
	if !p.stopped.CompareAndSwap(false, true) {
		return
	}
	close(p.stopCh)
	p.wg.Wait()
}

// Stats returns pool counters.
func (p *WorkerPool) Stats() (enqueued, dropped, done, failed int64) {
	return atomic.LoadInt64(&p.enqueued),
		atomic.LoadInt64(&p.dropped),
		atomic.LoadInt64(&p.done),
		atomic.LoadInt64(&p.failed)
}
