// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type MockLedger struct {
	mock.Mock
}

func (m *MockLedger) Open(ctx context.Context, tripID string, capacity decimal.Decimal) error {
	args := m.Called(ctx, tripID, capacity)
	return args.Error(0)
}

func (m *MockLedger) Reserve(ctx context.Context, tripID string, amount decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tripID, amount)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) Release(ctx context.Context, tripID string, amount decimal.Decimal) error {
	args := m.Called(ctx, tripID, amount)
	return args.Error(0)
}

func (m *MockLedger) Peek(ctx context.Context, tripID string) (decimal.Decimal, error) {
	args := m.Called(ctx, tripID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func (m *MockLedger) Resize(ctx context.Context, tripID string, capacity decimal.Decimal) (decimal.Decimal, error) {
	args := m.Called(ctx, tripID, capacity)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}
