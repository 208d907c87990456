package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var tripOrder = bson.D{{Key: "depart_at", Value: 1}, {Key: "_id", Value: 1}}

// GetSchedule returns a schedule by id.
func (s *MongoStore) GetSchedule(ctx context.Context, id string) (*model.RouteSchedule, error) {
	var doc scheduleDocument
	if err := findOne(ctx, s.db.Schedules, "schedule", id, &doc); err != nil {
		return nil, err
	}
	sch := documentToSchedule(doc)
	return &sch, nil
}

// SaveSchedule upserts a schedule.
func (s *MongoStore) SaveSchedule(ctx context.Context, sch model.RouteSchedule) error {
	return replaceByID(ctx, s.db.Schedules, sch.ID, scheduleToDocument(sch))
}

// ListSchedulesByRoute returns schedules serving routeID on leg, ordered by id.
func (s *MongoStore) ListSchedulesByRoute(ctx context.Context, routeID string, leg model.Leg) ([]model.RouteSchedule, error) {
	return findAll(ctx, s.db.Schedules, bson.M{"route_id": routeID, "leg": string(leg)},
		options.Find().SetSort(bson.M{"_id": 1}),
		func(d scheduleDocument) (model.RouteSchedule, error) { return documentToSchedule(d), nil })
}

// GetTrip returns a trip by id.
func (s *MongoStore) GetTrip(ctx context.Context, id string) (*model.TripInstance, error) {
	var doc tripDocument
	if err := findOne(ctx, s.db.Trips, "trip", id, &doc); err != nil {
		return nil, err
	}
	t := documentToTrip(doc)
	return &t, nil
}

// EnsureTrip inserts trip if absent. The trip id is the document key, so
// concurrent materializations of the same instance collapse into one.
func (s *MongoStore) EnsureTrip(ctx context.Context, trip model.TripInstance) (*model.TripInstance, bool, error) {
	_, err := s.db.Trips.InsertOne(ctx, tripToDocument(trip))
	if err == nil {
		return &trip, true, nil
	}
	if !mongo.IsDuplicateKeyError(err) {
		return nil, false, fmt.Errorf("insert trip %s: %w", trip.ID, err)
	}
	stored, err := s.GetTrip(ctx, trip.ID)
	return stored, false, err
}

// UpdateTripStatus sets a trip's status.
func (s *MongoStore) UpdateTripStatus(ctx context.Context, id string, status model.TripStatus) error {
	res, err := s.db.Trips.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"status": string(status)}})
	if err != nil {
		return fmt.Errorf("update trip %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return notFound("trip", id)
	}
	return nil
}

// UpdateTripArrival sets a trip's arrival time.
func (s *MongoStore) UpdateTripArrival(ctx context.Context, id string, arriveAt time.Time) error {
	res, err := s.db.Trips.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"arrive_at": arriveAt.UTC()}})
	if err != nil {
		return fmt.Errorf("update trip %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return notFound("trip", id)
	}
	return nil
}

// ListTripsBySchedule returns trips of scheduleID departing at or after from.
func (s *MongoStore) ListTripsBySchedule(ctx context.Context, scheduleID string, from time.Time) ([]model.TripInstance, error) {
	return findAll(ctx, s.db.Trips,
		bson.M{"schedule_id": scheduleID, "depart_at": bson.M{"$gte": from}},
		options.Find().SetSort(tripOrder),
		func(d tripDocument) (model.TripInstance, error) { return documentToTrip(d), nil })
}

// ListTripsByUnit returns trips run by unitID departing at or after from.
func (s *MongoStore) ListTripsByUnit(ctx context.Context, unitID string, from time.Time) ([]model.TripInstance, error) {
	return findAll(ctx, s.db.Trips,
		bson.M{"transport_unit_id": unitID, "depart_at": bson.M{"$gte": from}},
		options.Find().SetSort(tripOrder),
		func(d tripDocument) (model.TripInstance, error) { return documentToTrip(d), nil })
}

// GetAssignment returns the crew of tripID or nil.
func (s *MongoStore) GetAssignment(ctx context.Context, tripID string) (*model.PersonnelAssignment, error) {
	var doc assignmentDocument
	err := s.db.Assignments.FindOne(ctx, bson.M{"_id": tripID}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	a := documentToAssignment(doc)
	return &a, nil
}

// CreateAssignment inserts a crew for a trip that has none.
func (s *MongoStore) CreateAssignment(ctx context.Context, a model.PersonnelAssignment) error {
	_, err := s.db.Assignments.InsertOne(ctx, assignmentToDocument(a))
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("assignment for %s: %w", a.TripInstanceID, model.ErrAlreadyExists)
	}
	return err
}

// SaveAssignment upserts a crew.
func (s *MongoStore) SaveAssignment(ctx context.Context, a model.PersonnelAssignment) error {
	return replaceByID(ctx, s.db.Assignments, a.TripInstanceID, assignmentToDocument(a))
}

// DeleteAssignment removes a trip's crew.
func (s *MongoStore) DeleteAssignment(ctx context.Context, tripID string) error {
	_, err := s.db.Assignments.DeleteOne(ctx, bson.M{"_id": tripID})
	return err
}

// ListAssignmentsByStaff returns assignments of staffID starting in [from, to).
func (s *MongoStore) ListAssignmentsByStaff(ctx context.Context, staffID string, from, to time.Time) ([]model.PersonnelAssignment, error) {
	filter := bson.M{
		"$or":       bson.A{bson.M{"driver_id": staffID}, bson.M{"assistant_id": staffID}},
		"starts_at": bson.M{"$gte": from, "$lt": to},
	}
	return findAll(ctx, s.db.Assignments, filter,
		options.Find().SetSort(bson.M{"starts_at": 1}),
		func(d assignmentDocument) (model.PersonnelAssignment, error) { return documentToAssignment(d), nil })
}
