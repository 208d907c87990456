// Package repository provides data access layer for MongoDB.
package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoConfig holds MongoDB connection pool configuration.
type MongoConfig struct {
	// MaxPoolSize is the maximum number of connections in the pool.
	MaxPoolSize uint64
	// MinPoolSize is the minimum number of connections to keep in the pool.
	MinPoolSize uint64
	// MaxConnIdleTime is how long a connection can remain idle before being closed.
	MaxConnIdleTime time.Duration
	// ConnectTimeout is the timeout for establishing a connection.
	ConnectTimeout time.Duration
	// ServerSelectionTimeout is how long to wait for server selection.
	ServerSelectionTimeout time.Duration
	// SocketTimeout is the timeout for socket read/write operations.
	SocketTimeout time.Duration
	// EnableCompression enables wire protocol compression.
	EnableCompression bool
}

// DefaultMongoConfig returns production-optimized MongoDB configuration.
func DefaultMongoConfig() MongoConfig {
	return MongoConfig{
		MaxPoolSize:            50,
		MinPoolSize:            10,
		MaxConnIdleTime:        10 * time.Minute,
		ConnectTimeout:         10 * time.Second,
		ServerSelectionTimeout: 5 * time.Second,
		SocketTimeout:          30 * time.Second,
		EnableCompression:      true,
	}
}

// MongoDB provides MongoDB client and database access.
type MongoDB struct {
	Client         *mongo.Client
	Database       *mongo.Database
	Products       *mongo.Collection
	TransportUnits *mongo.Collection
	Schedules      *mongo.Collection
	Trips          *mongo.Collection
	Orders         *mongo.Collection
	Allocations    *mongo.Collection
	Staff          *mongo.Collection
	Assignments    *mongo.Collection
	Ledger         *mongo.Collection
	Audit          *mongo.Collection
}

// NewMongoDB creates a new MongoDB connection with default configuration.
func NewMongoDB(uri, databaseName string) (*MongoDB, error) {
	return NewMongoDBWithConfig(uri, databaseName, DefaultMongoConfig())
}

// NewMongoDBWithConfig creates a new MongoDB connection with custom configuration.
func NewMongoDBWithConfig(uri, databaseName string, cfg MongoConfig) (*MongoDB, error) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(uri).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetMinPoolSize(cfg.MinPoolSize).
		SetMaxConnIdleTime(cfg.MaxConnIdleTime).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ServerSelectionTimeout).
		SetSocketTimeout(cfg.SocketTimeout)

	if cfg.EnableCompression {
		clientOptions.SetCompressors([]string{"zstd", "snappy", "zlib"})
	}

	clientOptions.SetRetryWrites(true)
	clientOptions.SetRetryReads(true)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, err
	}

	db := client.Database(databaseName)
	mongoDB := &MongoDB{
		Client:         client,
		Database:       db,
		Products:       db.Collection("products"),
		TransportUnits: db.Collection("transport_units"),
		Schedules:      db.Collection("route_schedules"),
		Trips:          db.Collection("trip_instances"),
		Orders:         db.Collection("orders"),
		Allocations:    db.Collection("allocations"),
		Staff:          db.Collection("staff"),
		Assignments:    db.Collection("personnel_assignments"),
		Ledger:         db.Collection("capacity_ledger"),
		Audit:          db.Collection("audit_log"),
	}

	if err := mongoDB.createIndexes(ctx); err != nil {
		return nil, err
	}

	return mongoDB, nil
}

// createIndexes creates necessary indexes for collections.
func (m *MongoDB) createIndexes(ctx context.Context) error {
	// At most one active allocation per item and leg.
	activeLegIndex := mongo.IndexModel{
		Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "order_item_id", Value: 1}, {Key: "leg", Value: 1}},
		Options: options.Index().
			SetUnique(true).
			SetPartialFilterExpression(bson.M{"active": true}).
			SetName("active_item_leg"),
	}
	if _, err := m.Allocations.Indexes().CreateOne(ctx, activeLegIndex); err != nil {
		return err
	}

	_, _ = m.Allocations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "trip_instance_id", Value: 1}, {Key: "active", Value: 1}}},
		{Keys: bson.D{{Key: "order_id", Value: 1}, {Key: "active", Value: 1}}},
	})

	_, _ = m.Schedules.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "route_id", Value: 1}, {Key: "leg", Value: 1}},
	})

	_, _ = m.Trips.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "schedule_id", Value: 1}, {Key: "depart_at", Value: 1}}},
		{Keys: bson.D{{Key: "transport_unit_id", Value: 1}, {Key: "depart_at", Value: 1}}},
	})

	_, _ = m.Staff.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "role", Value: 1}},
	})

	_, _ = m.Assignments.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "driver_id", Value: 1}, {Key: "starts_at", Value: 1}}},
		{Keys: bson.D{{Key: "assistant_id", Value: 1}, {Key: "starts_at", Value: 1}}},
	})

	_, _ = m.Audit.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "action", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "operator_id", Value: 1}, {Key: "timestamp", Value: -1}}},
		{Keys: bson.D{{Key: "request_id", Value: 1}}},
	})

	return nil
}

const auditTTLIndex = "audit_ttl"

// SetAuditTTL replaces the TTL index that expires audit entries ttl after their timestamp.
// A zero ttl only drops the index.
func (m *MongoDB) SetAuditTTL(ctx context.Context, ttl time.Duration) error {
	// The index may not exist yet.
	_, _ = m.Audit.Indexes().DropOne(ctx, auditTTLIndex)
	if ttl <= 0 {
		return nil
	}

	_, err := m.Audit.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "timestamp", Value: 1}},
		Options: options.Index().
			SetExpireAfterSeconds(int32(ttl / time.Second)).
			SetName(auditTTLIndex),
	})
	return err
}

// Close closes the MongoDB connection.
func (m *MongoDB) Close(ctx context.Context) error {
	return m.Client.Disconnect(ctx)
}

// HealthCheck verifies the MongoDB connection is healthy.
func (m *MongoDB) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.Client.Ping(ctx, nil)
}
