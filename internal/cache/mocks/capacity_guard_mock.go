package mocks

import (
	"context"
	"go-parking-facility/internal/model"

	"github.com/stretchr/testify/mock"
)

type CapacityGuardMock struct {
	mock.Mock
}

func (m *CapacityGuardMock) Reserve(ctx context.Context, branchID int, category model.VehicleCategory, capacity int) (bool, error) {
	args := m.Called(ctx, branchID, category, capacity)
	return args.Bool(0), args.Error(1)
}

func (m *CapacityGuardMock) Release(ctx context.Context, branchID int, category model.VehicleCategory) error {
	args := m.Called(ctx, branchID, category)
	return args.Error(0)
}

func (m *CapacityGuardMock) CurrentOccupancy(ctx context.Context, branchID int, category model.VehicleCategory) (int, error) {
	args := m.Called(ctx, branchID, category)
	return args.Int(0), args.Error(1)
}

func (m *CapacityGuardMock) Reconcile(ctx context.Context, branchID int, category model.VehicleCategory, trueCount int) error {
	args := m.Called(ctx, branchID, category, trueCount)
	return args.Error(0)
}
