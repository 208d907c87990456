package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/repository"
)

// Audit query paging bounds.
const (
	DefaultAuditLimit = 50
	MaxAuditLimit     = 500
)

// AuditService records and queries the operator audit trail.
type AuditService interface {
	// Record stores one entry, assigning its id and timestamp when missing.
	Record(ctx context.Context, entry *model.AuditEntry) error

	// RecordMany stores entries in bulk.
	RecordMany(ctx context.Context, entries []*model.AuditEntry) error

	// Query returns matching entries newest first.
	Query(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, error)

	// Count returns the number of matching entries, ignoring paging.
	Count(ctx context.Context, q model.AuditQuery) (int64, error)
}

// AuditServiceImpl implements AuditService on an audit repository.
type AuditServiceImpl struct {
	repo repository.AuditRepositoryInterface
	now  func() time.Time
}

// AuditOption configures an AuditServiceImpl.
type AuditOption func(*AuditServiceImpl)

// WithAuditClock overrides the clock used to stamp entries.
func WithAuditClock(now func() time.Time) AuditOption {
	return func(s *AuditServiceImpl) {
		if now != nil {
			s.now = now
		}
	}
}

// NewAuditService creates an audit service on repo.
func NewAuditService(repo repository.AuditRepositoryInterface, opts ...AuditOption) *AuditServiceImpl {
	s := &AuditServiceImpl{
		repo: repo,
		now:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Record stores one entry.
func (s *AuditServiceImpl) Record(ctx context.Context, entry *model.AuditEntry) error {
	return s.repo.Create(ctx, s.stamp(entry))
}

// RecordMany stores entries in bulk.
func (s *AuditServiceImpl) RecordMany(ctx context.Context, entries []*model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	batch := make([]model.AuditEntry, len(entries))
	for i, entry := range entries {
		batch[i] = s.stamp(entry)
	}
	return s.repo.CreateMany(ctx, batch)
}

// Query validates q, applies the default page size and returns matching entries.
func (s *AuditServiceImpl) Query(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, error) {
	q, err := normalizeAuditQuery(q)
	if err != nil {
		return nil, err
	}
	return s.repo.Query(ctx, q)
}

// Count validates q and counts matching entries.
func (s *AuditServiceImpl) Count(ctx context.Context, q model.AuditQuery) (int64, error) {
	q, err := normalizeAuditQuery(q)
	if err != nil {
		return 0, err
	}
	return s.repo.Count(ctx, q)
}

func (s *AuditServiceImpl) stamp(entry *model.AuditEntry) model.AuditEntry {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = s.now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
	if entry.Outcome == "" {
		entry.Outcome = model.AuditSuccess
	}
	return *entry
}

func normalizeAuditQuery(q model.AuditQuery) (model.AuditQuery, error) {
	if err := q.Validate(); err != nil {
		return q, err
	}
	if q.Limit == 0 {
		q.Limit = DefaultAuditLimit
	}
	q.Limit = min(q.Limit, MaxAuditLimit)
	return q, nil
}
