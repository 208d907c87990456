package repository

import (
	"cmp"
	"context"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// AuditRepositoryInterface stores the operator audit trail.
// Query returns entries newest first.
type AuditRepositoryInterface interface {
	Create(ctx context.Context, entry model.AuditEntry) error
	CreateMany(ctx context.Context, entries []model.AuditEntry) error
	Query(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, error)
	Count(ctx context.Context, q model.AuditQuery) (int64, error)
}

type auditDocument struct {
	ID         string                 `bson:"_id"`
	Timestamp  time.Time              `bson:"timestamp"`
	Action     string                 `bson:"action"`
	Outcome    string                 `bson:"outcome"`
	OperatorID string                 `bson:"operator_id,omitempty"`
	RequestID  string                 `bson:"request_id,omitempty"`
	Method     string                 `bson:"method,omitempty"`
	Path       string                 `bson:"path,omitempty"`
	IP         string                 `bson:"ip,omitempty"`
	Code       string                 `bson:"code,omitempty"`
	Error      string                 `bson:"error,omitempty"`
	Fields     map[string]interface{} `bson:"fields,omitempty"`
}

func toAuditDocument(e model.AuditEntry) auditDocument {
	return auditDocument{
		ID:         e.ID,
		Timestamp:  e.Timestamp,
		Action:     e.Action,
		Outcome:    e.Outcome,
		OperatorID: e.OperatorID,
		RequestID:  e.RequestID,
		Method:     e.Method,
		Path:       e.Path,
		IP:         e.IP,
		Code:       e.Code,
		Error:      e.Error,
		Fields:     e.Fields,
	}
}

func (d auditDocument) toModel() (model.AuditEntry, error) {
	return model.AuditEntry{
		ID:         d.ID,
		Timestamp:  d.Timestamp.UTC(),
		Action:     d.Action,
		Outcome:    d.Outcome,
		OperatorID: d.OperatorID,
		RequestID:  d.RequestID,
		Method:     d.Method,
		Path:       d.Path,
		IP:         d.IP,
		Code:       d.Code,
		Error:      d.Error,
		Fields:     d.Fields,
	}, nil
}

// MongoAuditRepository stores audit entries in the audit_log collection.
type MongoAuditRepository struct {
	collection *mongo.Collection
}

// NewMongoAuditRepository creates an audit repository on db.
func NewMongoAuditRepository(db *MongoDB) *MongoAuditRepository {
	return &MongoAuditRepository{collection: db.Audit}
}

// Create inserts one entry.
func (r *MongoAuditRepository) Create(ctx context.Context, entry model.AuditEntry) error {
	_, err := r.collection.InsertOne(ctx, toAuditDocument(entry))
	return err
}

// CreateMany inserts entries in one round trip.
func (r *MongoAuditRepository) CreateMany(ctx context.Context, entries []model.AuditEntry) error {
	if len(entries) == 0 {
		return nil
	}

	docs := make([]interface{}, len(entries))
	for i, entry := range entries {
		docs[i] = toAuditDocument(entry)
	}

	_, err := r.collection.InsertMany(ctx, docs, options.InsertMany().SetOrdered(false))
	return err
}

// Query returns matching entries newest first.
func (r *MongoAuditRepository) Query(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, error) {
	findOptions := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}, {Key: "_id", Value: 1}})
	if q.Limit > 0 {
		findOptions.SetLimit(int64(q.Limit))
	}
	if q.Skip > 0 {
		findOptions.SetSkip(int64(q.Skip))
	}

	return findAll(ctx, r.collection, auditFilter(q), findOptions, auditDocument.toModel)
}

// Count returns the number of matching entries, ignoring paging.
func (r *MongoAuditRepository) Count(ctx context.Context, q model.AuditQuery) (int64, error) {
	return r.collection.CountDocuments(ctx, auditFilter(q))
}

func auditFilter(q model.AuditQuery) bson.M {
	filter := bson.M{}

	if q.Action != "" {
		filter["action"] = q.Action
	}
	if q.OperatorID != "" {
		filter["operator_id"] = q.OperatorID
	}
	if q.RequestID != "" {
		filter["request_id"] = q.RequestID
	}
	if q.Outcome != "" {
		filter["outcome"] = q.Outcome
	}
	if q.Since != nil || q.Until != nil {
		window := bson.M{}
		if q.Since != nil {
			window["$gte"] = *q.Since
		}
		if q.Until != nil {
			window["$lt"] = *q.Until
		}
		filter["timestamp"] = window
	}

	return filter
}

// MemoryAuditRepository keeps the most recent entries in memory.
// Once limit is reached the oldest entry is dropped for each new one.
type MemoryAuditRepository struct {
	mu      sync.RWMutex
	entries []model.AuditEntry
	limit   int
}

// NewMemoryAuditRepository creates an in-memory audit trail holding at most limit entries.
// A non-positive limit keeps everything.
func NewMemoryAuditRepository(limit int) *MemoryAuditRepository {
	return &MemoryAuditRepository{limit: limit}
}

// Create appends one entry.
func (r *MemoryAuditRepository) Create(ctx context.Context, entry model.AuditEntry) error {
	return r.CreateMany(ctx, []model.AuditEntry{entry})
}

// CreateMany appends entries, evicting the oldest beyond the limit.
func (r *MemoryAuditRepository) CreateMany(_ context.Context, entries []model.AuditEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, e := range entries {
		e.Fields = maps.Clone(e.Fields)
		r.entries = append(r.entries, e)
	}
	if r.limit > 0 && len(r.entries) > r.limit {
		r.entries = slices.Clone(r.entries[len(r.entries)-r.limit:])
	}
	return nil
}

// Query returns matching entries newest first.
func (r *MemoryAuditRepository) Query(_ context.Context, q model.AuditQuery) ([]model.AuditEntry, error) {
	matched := r.match(q)
	slices.SortStableFunc(matched, func(a, b model.AuditEntry) int {
		if c := b.Timestamp.Compare(a.Timestamp); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})

	skip := max(q.Skip, 0)
	if skip >= len(matched) {
		return []model.AuditEntry{}, nil
	}
	matched = matched[skip:]
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return matched, nil
}

// Count returns the number of matching entries, ignoring paging.
func (r *MemoryAuditRepository) Count(_ context.Context, q model.AuditQuery) (int64, error) {
	return int64(len(r.match(q))), nil
}

func (r *MemoryAuditRepository) match(q model.AuditQuery) []model.AuditEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.AuditEntry, 0, len(r.entries))
	for _, e := range r.entries {
		if q.Matches(e) {
			out = append(out, e)
		}
	}
	return out
}
