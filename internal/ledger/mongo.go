package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// maxCASAttempts bounds the retries of Release and Resize under contention.
const maxCASAttempts = 5

type ledgerDocument struct {
	TripID    string    `bson:"_id"`
	Capacity  string    `bson:"capacity"`
	Reserved  string    `bson:"reserved"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updated_at"`
}

func (d ledgerDocument) entry() (Entry, error) {
	capacity, err := decimal.NewFromString(d.Capacity)
	if err != nil {
		return Entry{}, fmt.Errorf("parse capacity of %s: %w", d.TripID, err)
	}
	reserved, err := decimal.NewFromString(d.Reserved)
	if err != nil {
		return Entry{}, fmt.Errorf("parse reservations of %s: %w", d.TripID, err)
	}
	return Entry{TripID: d.TripID, Capacity: capacity, Reserved: reserved}, nil
}

// MongoLedger stores entries as documents updated by optimistic version CAS.
// A lost race on Reserve surfaces as model.ErrConcurrentConflict.
type MongoLedger struct {
	collection *mongo.Collection
}

// NewMongoLedger creates a ledger on collection.
func NewMongoLedger(collection *mongo.Collection) *MongoLedger {
	return &MongoLedger{collection: collection}
}

func (l *MongoLedger) load(ctx context.Context, tripID string) (ledgerDocument, Entry, error) {
	var doc ledgerDocument
	err := l.collection.FindOne(ctx, bson.M{"_id": tripID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return doc, Entry{}, notFound(tripID)
	}
	if err != nil {
		return doc, Entry{}, fmt.Errorf("load ledger entry %s: %w", tripID, err)
	}
	e, err := doc.entry()
	return doc, e, err
}

// swap writes capacity/reserved iff the stored version still equals version.
func (l *MongoLedger) swap(ctx context.Context, tripID string, version int64, capacity, reserved decimal.Decimal) error {
	res, err := l.collection.UpdateOne(ctx,
		bson.M{"_id": tripID, "version": version},
		bson.M{
			"$set": bson.M{
				"capacity":   capacity.String(),
				"reserved":   reserved.String(),
				"updated_at": time.Now().UTC(),
			},
			"$inc": bson.M{"version": 1},
		},
	)
	if err != nil {
		return fmt.Errorf("update ledger entry %s: %w", tripID, err)
	}
	if res.MatchedCount == 0 {
		return model.ErrConcurrentConflict
	}
	return nil
}

// Open inserts the entry unless it exists.
func (l *MongoLedger) Open(ctx context.Context, tripID string, capacity decimal.Decimal) error {
	if err := checkCapacity(capacity); err != nil {
		return err
	}
	_, err := l.collection.InsertOne(ctx, ledgerDocument{
		TripID:    tripID,
		Capacity:  capacity.String(),
		Reserved:  decimal.Zero.String(),
		Version:   1,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil && !mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("open ledger entry %s: %w", tripID, err)
	}
	return nil
}

// Reserve makes a single CAS attempt.
func (l *MongoLedger) Reserve(ctx context.Context, tripID string, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := checkAmount(amount); err != nil {
		return decimal.Zero, err
	}
	doc, e, err := l.load(ctx, tripID)
	if err != nil {
		return decimal.Zero, err
	}
	remaining := e.Remaining()
	if remaining.LessThan(amount) {
		return remaining, model.ErrNoCapacity
	}
	if err := l.swap(ctx, tripID, doc.Version, e.Capacity, e.Reserved.Add(amount)); err != nil {
		return remaining, err
	}
	return remaining.Sub(amount), nil
}

// Release retries its CAS a bounded number of times.
func (l *MongoLedger) Release(ctx context.Context, tripID string, amount decimal.Decimal) error {
	if err := checkAmount(amount); err != nil {
		return err
	}
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		doc, e, err := l.load(ctx, tripID)
		if err != nil {
			return err
		}
		if amount.GreaterThan(e.Reserved) {
			return overRelease(tripID, amount, e.Reserved)
		}
		err = l.swap(ctx, tripID, doc.Version, e.Capacity, e.Reserved.Sub(amount))
		if !errors.Is(err, model.ErrConcurrentConflict) {
			return err
		}
	}
	return fmt.Errorf("release on %s: %w", tripID, model.ErrConcurrentConflict)
}

// Peek reads remaining capacity.
func (l *MongoLedger) Peek(ctx context.Context, tripID string) (decimal.Decimal, error) {
	_, e, err := l.load(ctx, tripID)
	if err != nil {
		return decimal.Zero, err
	}
	return e.Remaining(), nil
}

// Resize retries its CAS a bounded number of times.
func (l *MongoLedger) Resize(ctx context.Context, tripID string, capacity decimal.Decimal) (decimal.Decimal, error) {
	if err := checkCapacity(capacity); err != nil {
		return decimal.Zero, err
	}
	for attempt := 0; attempt < maxCASAttempts; attempt++ {
		doc, e, err := l.load(ctx, tripID)
		if err != nil {
			return decimal.Zero, err
		}
		err = l.swap(ctx, tripID, doc.Version, capacity, e.Reserved)
		if err == nil {
			return capacity.Sub(e.Reserved), nil
		}
		if !errors.Is(err, model.ErrConcurrentConflict) {
			return decimal.Zero, err
		}
	}
	return decimal.Zero, fmt.Errorf("resize %s: %w", tripID, model.ErrConcurrentConflict)
}
