package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoStore implements Store on MongoDB collections.
type MongoStore struct {
	db *MongoDB
}

// NewMongoStore creates a store on db.
func NewMongoStore(db *MongoDB) *MongoStore {
	return &MongoStore{db: db}
}

var upsert = options.Replace().SetUpsert(true)

// findOne decodes the document with _id into doc, mapping a miss to model.ErrNotFound.
func findOne(ctx context.Context, coll *mongo.Collection, kind, id string, doc any) error {
	err := coll.FindOne(ctx, bson.M{"_id": id}).Decode(doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return notFound(kind, id)
	}
	if err != nil {
		return fmt.Errorf("find %s %s: %w", kind, id, err)
	}
	return nil
}

// findAll runs a query and converts every document.
func findAll[D any, M any](ctx context.Context, coll *mongo.Collection, filter any, opts *options.FindOptions, conv func(D) (M, error)) ([]M, error) {
	cursor, err := coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cursor.Close(ctx)
	}()

	var docs []D
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	out := make([]M, 0, len(docs))
	for _, d := range docs {
		m, err := conv(d)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

func replaceByID(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	_, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc, upsert)
	return err
}
