package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var allocationOrder = bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}}

// GetOrder returns an order by id.
func (s *MongoStore) GetOrder(ctx context.Context, id string) (*model.Order, error) {
	var doc orderDocument
	if err := findOne(ctx, s.db.Orders, "order", id, &doc); err != nil {
		return nil, err
	}
	return documentToOrder(doc)
}

// CreateOrder inserts a new order.
func (s *MongoStore) CreateOrder(ctx context.Context, o model.Order) error {
	_, err := s.db.Orders.InsertOne(ctx, orderToDocument(o))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("order %s: %w", o.ID, model.ErrAlreadyExists)
	}
	return err
}

// UpdateOrder replaces the order iff its stored version equals o.Version.
func (s *MongoStore) UpdateOrder(ctx context.Context, o *model.Order) error {
	doc := orderToDocument(*o)
	doc.Version = o.Version + 1
	res, err := s.db.Orders.ReplaceOne(ctx, bson.M{"_id": o.ID, "version": o.Version}, doc)
	if err != nil {
		return fmt.Errorf("update order %s: %w", o.ID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := s.GetOrder(ctx, o.ID); err != nil {
			return err
		}
		return fmt.Errorf("order %s at version %d: %w", o.ID, o.Version, model.ErrConcurrentConflict)
	}
	o.Version = doc.Version
	return nil
}

// CreateAllocation inserts an allocation. The partial unique index on active
// (order, item, leg) rejects a second active allocation.
func (s *MongoStore) CreateAllocation(ctx context.Context, a model.Allocation) error {
	_, err := s.db.Allocations.InsertOne(ctx, allocationToDocument(a))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("allocation for %s/%s/%s: %w", a.OrderID, a.OrderItemID, a.Leg, model.ErrAlreadyExists)
	}
	return err
}

// DeactivateAllocation flips an allocation to inactive exactly once.
func (s *MongoStore) DeactivateAllocation(ctx context.Context, id string, at time.Time) (bool, error) {
	res, err := s.db.Allocations.UpdateOne(ctx,
		bson.M{"_id": id, "active": true},
		bson.M{"$set": bson.M{"active": false, "released_at": at}},
	)
	if err != nil {
		return false, fmt.Errorf("deactivate allocation %s: %w", id, err)
	}
	if res.ModifiedCount == 1 {
		return true, nil
	}
	n, err := s.db.Allocations.CountDocuments(ctx, bson.M{"_id": id})
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, notFound("allocation", id)
	}
	return false, nil
}

func (s *MongoStore) listActive(ctx context.Context, filter bson.M) ([]model.Allocation, error) {
	filter["active"] = true
	return findAll(ctx, s.db.Allocations, filter, options.Find().SetSort(allocationOrder), documentToAllocation)
}

// ListActiveByTrip returns active allocations on tripID, oldest first.
func (s *MongoStore) ListActiveByTrip(ctx context.Context, tripID string) ([]model.Allocation, error) {
	return s.listActive(ctx, bson.M{"trip_instance_id": tripID})
}

// ListActiveByOrder returns active allocations of orderID, oldest first.
func (s *MongoStore) ListActiveByOrder(ctx context.Context, orderID string) ([]model.Allocation, error) {
	return s.listActive(ctx, bson.M{"order_id": orderID})
}
