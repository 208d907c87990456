package repository

import (
	"context"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// GetProduct returns a product by id.
func (s *MongoStore) GetProduct(ctx context.Context, id string) (*model.Product, error) {
	var doc productDocument
	if err := findOne(ctx, s.db.Products, "product", id, &doc); err != nil {
		return nil, err
	}
	return documentToProduct(doc)
}

// SaveProduct upserts a product.
func (s *MongoStore) SaveProduct(ctx context.Context, p model.Product) error {
	return replaceByID(ctx, s.db.Products, p.ID, productToDocument(p))
}

// GetTransportUnit returns a unit by id.
func (s *MongoStore) GetTransportUnit(ctx context.Context, id string) (*model.TransportUnit, error) {
	var doc transportUnitDocument
	if err := findOne(ctx, s.db.TransportUnits, "transport unit", id, &doc); err != nil {
		return nil, err
	}
	return documentToUnit(doc)
}

// SaveTransportUnit upserts a unit.
func (s *MongoStore) SaveTransportUnit(ctx context.Context, u model.TransportUnit) error {
	return replaceByID(ctx, s.db.TransportUnits, u.ID, unitToDocument(u))
}

// GetStaff returns a staff member by id.
func (s *MongoStore) GetStaff(ctx context.Context, id string) (*model.Staff, error) {
	var doc staffDocument
	if err := findOne(ctx, s.db.Staff, "staff", id, &doc); err != nil {
		return nil, err
	}
	st := documentToStaff(doc)
	return &st, nil
}

// SaveStaff upserts a staff member.
func (s *MongoStore) SaveStaff(ctx context.Context, st model.Staff) error {
	return replaceByID(ctx, s.db.Staff, st.ID, staffToDocument(st))
}

// ListStaff returns staff with role, ordered by id.
func (s *MongoStore) ListStaff(ctx context.Context, role model.StaffRole) ([]model.Staff, error) {
	return findAll(ctx, s.db.Staff, bson.M{"role": string(role)},
		options.Find().SetSort(bson.M{"_id": 1}),
		func(d staffDocument) (model.Staff, error) { return documentToStaff(d), nil })
}
