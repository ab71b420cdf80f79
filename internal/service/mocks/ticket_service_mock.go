package mocks

import (
	"context"
	"go-parking-facility/internal/model"

	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func (m *TicketServiceMock) RegisterEntry(ctx context.Context, req model.RegisterEntryRequest) (*model.Ticket, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) ProcessExit(ctx context.Context, ticketID int, freeHours float64) (*model.ExitResponse, error) {
	args := m.Called(ctx, ticketID, freeHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ExitResponse), args.Error(1)
}

func (m *TicketServiceMock) EstimateCharge(ctx context.Context, ticketID int, freeHours float64) (*model.Charge, error) {
	args := m.Called(ctx, ticketID, freeHours)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Charge), args.Error(1)
}

func (m *TicketServiceMock) GetOccupancy(ctx context.Context, branchID int, category model.VehicleCategory) (int, error) {
	args := m.Called(ctx, branchID, category)
	return args.Int(0), args.Error(1)
}

func (m *TicketServiceMock) MarkIncident(ctx context.Context, ticketID int, note string) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) List(ctx context.Context, branchID int) ([]*model.Ticket, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) GetByID(ctx context.Context, ticketID int) (*model.Ticket, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}
