// Code generated manually. DO NOT EDIT.

package mocks

import (
	"context"

	"github.com/guttosm/kandypack-dispatch/internal/domain/model"
	"github.com/stretchr/testify/mock"
)

type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(ctx context.Context, event model.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}
