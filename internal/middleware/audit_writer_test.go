package middleware

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockAuditRecorder struct {
	mock.Mock
	mu      sync.Mutex
	entries []*model.AuditEntry
}

func (m *mockAuditRecorder) RecordMany(ctx context.Context, entries []*model.AuditEntry) error {
	args := m.Called(ctx, entries)
	if args.Error(0) == nil {
		m.mu.Lock()
		m.entries = append(m.entries, entries...)
		m.mu.Unlock()
	}
	return args.Error(0)
}

func (m *mockAuditRecorder) recorded() []*model.AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*model.AuditEntry(nil), m.entries...)
}

func TestDefaultAuditWriterConfig(t *testing.T) {
	cfg := DefaultAuditWriterConfig()

	assert.Equal(t, 1000, cfg.BufferSize)
	assert.Equal(t, 2, cfg.NumWorkers)
	assert.Equal(t, 50, cfg.BatchSize)
	assert.Equal(t, 5*time.Second, cfg.WriteTimeout)
}

func TestNewAuditWriter(t *testing.T) {
	tests := []struct {
		name     string
		recorder AuditRecorder
		cfg      AuditWriterConfig
		wantNil  bool
	}{
		{name: "nil recorder returns nil", cfg: DefaultAuditWriterConfig(), wantNil: true},
		{name: "default config", recorder: &mockAuditRecorder{}, cfg: DefaultAuditWriterConfig()},
		{name: "zero config falls back to defaults", recorder: &mockAuditRecorder{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := NewAuditWriter(tt.recorder, tt.cfg)
			if tt.wantNil {
				assert.Nil(t, w)
				return
			}
			require.NotNil(t, w)
			assert.Equal(t, DefaultAuditWriterConfig().BatchSize, w.batchSize)
			w.Stop()
		})
	}
}

func TestAuditWriter_Log(t *testing.T) {
	t.Run("writes every queued entry before stop returns", func(t *testing.T) {
		recorder := &mockAuditRecorder{}
		recorder.On("RecordMany", mock.Anything, mock.Anything).Return(nil)

		w := NewAuditWriter(recorder, AuditWriterConfig{BufferSize: 100, NumWorkers: 4, BatchSize: 3, WriteTimeout: time.Second})
		for range 10 {
			assert.True(t, w.Log(&model.AuditEntry{Action: ActionSubmitOrder}))
		}
		w.Stop()

		enqueued, dropped, written, failed := w.Stats()
		assert.Equal(t, int64(10), enqueued)
		assert.Zero(t, dropped)
		assert.Equal(t, int64(10), written)
		assert.Zero(t, failed)
		assert.Len(t, recorder.recorded(), 10)

		for _, call := range recorder.Calls {
			assert.LessOrEqual(t, len(call.Arguments.Get(1).([]*model.AuditEntry)), 3)
		}
	})

	t.Run("drops entries when the buffer is full", func(t *testing.T) {
		blockCh := make(chan struct{})
		recorder := &mockAuditRecorder{}
		recorder.On("RecordMany", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
			<-blockCh
		}).Return(nil)

		w := NewAuditWriter(recorder, AuditWriterConfig{BufferSize: 2, NumWorkers: 1, BatchSize: 1, WriteTimeout: time.Second})

		dropped := 0
		for range 10 {
			if !w.Log(&model.AuditEntry{Action: ActionSubmitOrder}) {
				dropped++
			}
		}
		assert.Positive(t, dropped)

		close(blockCh)
		w.Stop()

		_, droppedStat, written, _ := w.Stats()
		assert.Equal(t, int64(dropped), droppedStat)
		assert.Equal(t, int64(10-dropped), written)
	})

	t.Run("refuses entries after stop", func(t *testing.T) {
		recorder := &mockAuditRecorder{}
		w := NewAuditWriter(recorder, DefaultAuditWriterConfig())
		w.Stop()
		w.Stop()

		assert.False(t, w.Log(&model.AuditEntry{Action: ActionSubmitOrder}))
		_, dropped, _, _ := w.Stats()
		assert.Equal(t, int64(1), dropped)
		recorder.AssertNotCalled(t, "RecordMany", mock.Anything, mock.Anything)
	})
}

func TestAuditWriter_CountsFailures(t *testing.T) {
	recorder := &mockAuditRecorder{}
	recorder.On("RecordMany", mock.Anything, mock.Anything).Return(errors.New("db error"))

	w := NewAuditWriter(recorder, AuditWriterConfig{BufferSize: 10, NumWorkers: 1, BatchSize: 10, WriteTimeout: time.Second})
	for range 3 {
		w.Log(&model.AuditEntry{Action: ActionCancelOrder})
	}
	w.Stop()

	_, _, written, failed := w.Stats()
	assert.Zero(t, written)
	assert.Equal(t, int64(3), failed)
}

func TestAuditWriter_WriteHasDeadline(t *testing.T) {
	recorder := &mockAuditRecorder{}
	recorder.On("RecordMany", mock.MatchedBy(func(ctx context.Context) bool {
		_, ok := ctx.Deadline()
		return ok
	}), mock.Anything).Return(nil)

	w := NewAuditWriter(recorder, AuditWriterConfig{BufferSize: 1, NumWorkers: 1, WriteTimeout: 50 * time.Millisecond})
	w.Log(&model.AuditEntry{Action: ActionSaveStaff})
	w.Stop()

	recorder.AssertExpectations(t)
}
