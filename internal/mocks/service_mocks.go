// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"
	"time"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/guttosm/kandypack-dispatch/internal/service"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockAllocationEngine struct {
	mock.Mock
}

func (m *MockAllocationEngine) SubmitOrder(ctx context.Context, order model.Order) (*model.AllocationResult, error) {
	args := m.Called(ctx, order)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AllocationResult), args.Error(1)
}

func (m *MockAllocationEngine) AllocateOrder(ctx context.Context, orderID string) (*model.AllocationResult, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AllocationResult), args.Error(1)
}

func (m *MockAllocationEngine) CancelOrder(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

func (m *MockAllocationEngine) DispatchStatus(ctx context.Context, orderID string) (*model.DispatchStatus, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.DispatchStatus), args.Error(1)
}

func (m *MockAllocationEngine) MarkEvicted(ctx context.Context, orderID string, itemIDs []string) error {
	args := m.Called(ctx, orderID, itemIDs)
	return args.Error(0)
}

func (m *MockAllocationEngine) GetOrder(ctx context.Context, orderID string) (*model.Order, error) {
	args := m.Called(ctx, orderID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Order), args.Error(1)
}

type MockReconciler struct {
	mock.Mock
}

func (m *MockReconciler) Reconcile(ctx context.Context, tripID string) (*model.ReconcileReport, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ReconcileReport), args.Error(1)
}

func (m *MockReconciler) CapacityChanged(ctx context.Context, unitID string, capacity decimal.Decimal) ([]model.ReconcileReport, error) {
	args := m.Called(ctx, unitID, capacity)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReconcileReport), args.Error(1)
}

func (m *MockReconciler) ScheduleChanged(ctx context.Context, schedule model.RouteSchedule) ([]model.ReconcileReport, error) {
	args := m.Called(ctx, schedule)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ReconcileReport), args.Error(1)
}

func (m *MockReconciler) StaffUnavailable(ctx context.Context, staffID string, from time.Time) ([]string, error) {
	args := m.Called(ctx, staffID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockReconciler) Handle(ctx context.Context, job service.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockPersonnelService struct {
	mock.Mock
}

func (m *MockPersonnelService) AssignPersonnel(ctx context.Context, tripID string) (*model.StaffingResult, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.StaffingResult), args.Error(1)
}

func (m *MockPersonnelService) ReleaseStaff(ctx context.Context, staffID string, from time.Time) ([]string, error) {
	args := m.Called(ctx, staffID, from)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockCatalogService struct {
	mock.Mock
}

func (m *MockCatalogService) SaveProduct(ctx context.Context, p model.Product) error {
	args := m.Called(ctx, p)
	return args.Error(0)
}

func (m *MockCatalogService) SaveTransportUnit(ctx context.Context, u model.TransportUnit) (bool, error) {
	args := m.Called(ctx, u)
	return args.Bool(0), args.Error(1)
}

func (m *MockCatalogService) SaveStaff(ctx context.Context, s model.Staff) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockCatalogService) TripDetails(ctx context.Context, tripID string) (*model.TripDetails, error) {
	args := m.Called(ctx, tripID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.TripDetails), args.Error(1)
}

func (m *MockCatalogService) PreviewSchedule(ctx context.Context, scheduleID string, from time.Time, days int) ([]model.TripInstance, error) {
	args := m.Called(ctx, scheduleID, from, days)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.TripInstance), args.Error(1)
}

type MockJobQueue struct {
	mock.Mock
}

func (m *MockJobQueue) Submit(job service.Job) bool {
	args := m.Called(job)
	return args.Bool(0)
}

type MockAuditService struct {
	mock.Mock
}

func (m *MockAuditService) Record(ctx context.Context, entry *model.AuditEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockAuditService) RecordMany(ctx context.Context, entries []*model.AuditEntry) error {
	args := m.Called(ctx, entries)
	return args.Error(0)
}

func (m *MockAuditService) Query(ctx context.Context, q model.AuditQuery) ([]model.AuditEntry, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.AuditEntry), args.Error(1)
}

func (m *MockAuditService) Count(ctx context.Context, q model.AuditQuery) (int64, error) {
	args := m.Called(ctx, q)
	return args.Get(0).(int64), args.Error(1)
}
