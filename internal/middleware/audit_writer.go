package middleware

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/logger"
	"github.com/guttosm/kandypack-dispatch/internal/metrics"
)

// AuditRecorder persists batches of audit entries.
type AuditRecorder interface {
	RecordMany(ctx context.Context, entries []*model.AuditEntry) error
}

// AuditWriterConfig holds configuration for the audit writer.
type AuditWriterConfig struct {
	// BufferSize is the number of entries that may wait for a worker.
	BufferSize int
	// NumWorkers is the number of goroutines writing entries.
	NumWorkers int
	// BatchSize caps how many queued entries one write carries.
	BatchSize int
	// WriteTimeout bounds one write to the recorder.
	WriteTimeout time.Duration
}

// DefaultAuditWriterConfig returns the default audit writer configuration.
func DefaultAuditWriterConfig() AuditWriterConfig {
	return AuditWriterConfig{
		BufferSize:   1000,
		NumWorkers:   2,
		BatchSize:    50,
		WriteTimeout: 5 * time.Second,
	}
}

// AuditWriter persists audit entries off the request path with a fixed worker pool.
// Entries are dropped rather than blocking a request when the buffer is full.
type AuditWriter struct {
	recorder     AuditRecorder
	entryCh      chan *model.AuditEntry
	stopCh       chan struct{}
	wg           sync.WaitGroup
	mu           sync.RWMutex
	stopped      bool
	stopOnce     sync.Once
	batchSize    int
	writeTimeout time.Duration

	enqueued atomic.Int64
	dropped  atomic.Int64
	written  atomic.Int64
	errors   atomic.Int64
}

// NewAuditWriter starts an audit writer. Returns nil when recorder is nil.
func NewAuditWriter(recorder AuditRecorder, cfg AuditWriterConfig) *AuditWriter {
	if recorder == nil {
		return nil
	}

	def := DefaultAuditWriterConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.NumWorkers <= 0 {
		cfg.NumWorkers = def.NumWorkers
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = def.BatchSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	w := &AuditWriter{
		recorder:     recorder,
		entryCh:      make(chan *model.AuditEntry, cfg.BufferSize),
		stopCh:       make(chan struct{}),
		batchSize:    cfg.BatchSize,
		writeTimeout: cfg.WriteTimeout,
	}

	for range cfg.NumWorkers {
		w.wg.Add(1)
		go w.worker()
	}

	return w
}

func (w *AuditWriter) worker() {
	defer w.wg.Done()

	for {
		select {
		case entry := <-w.entryCh:
			w.write(w.collect(entry))
		case <-w.stopCh:
			// Drain what is already queued.
			for {
				select {
				case entry := <-w.entryCh:
					w.write(w.collect(entry))
				default:
					return
				}
			}
		}
	}
}

// collect groups first with whatever else is queued, up to the batch size.
func (w *AuditWriter) collect(first *model.AuditEntry) []*model.AuditEntry {
	batch := []*model.AuditEntry{first}
	for len(batch) < w.batchSize {
		select {
		case entry := <-w.entryCh:
			batch = append(batch, entry)
		default:
			return batch
		}
	}
	return batch
}

func (w *AuditWriter) write(batch []*model.AuditEntry) {
	ctx, cancel := context.WithTimeout(context.Background(), w.writeTimeout)
	defer cancel()

	if err := w.recorder.RecordMany(ctx, batch); err != nil {
		w.errors.Add(int64(len(batch)))
		metrics.RecordAuditEntries("failed", len(batch))
		log := logger.Logger()
		log.Warn().Err(err).Int("entries", len(batch)).Msg("Failed to write audit entries")
		return
	}
	w.written.Add(int64(len(batch)))
	metrics.RecordAuditEntries("written", len(batch))
}

// Log enqueues entry. It returns false when the buffer is full or the writer is stopped.
func (w *AuditWriter) Log(entry *model.AuditEntry) bool {
	w.mu.RLock()
	defer w.mu.RUnlock()

	if !w.stopped {
		select {
		case w.entryCh <- entry:
			w.enqueued.Add(1)
			return true
		default:
		}
	}

	w.dropped.Add(1)
	metrics.RecordAuditEntries("dropped", 1)
	return false
}

// Stop refuses new entries and waits until queued ones are written. Safe to call twice.
func (w *AuditWriter) Stop() {
	w.stopOnce.Do(func() {
		w.mu.Lock()
		w.stopped = true
		w.mu.Unlock()

		close(w.stopCh)
		w.wg.Wait()
	})
}

// Stats returns enqueued, dropped, written and failed entry counts.
func (w *AuditWriter) Stats() (enqueued, dropped, written, errors int64) {
	return w.enqueued.Load(), w.dropped.Load(), w.written.Load(), w.errors.Load()
}
