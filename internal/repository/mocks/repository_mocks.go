package mocks

import (
	"context"
	"go-parking-facility/internal/model"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type BranchRepositoryMock struct {
	mock.Mock
}

func (m *BranchRepositoryMock) Create(ctx context.Context, branch *model.Branch) (*model.Branch, error) {
	args := m.Called(ctx, branch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Branch), args.Error(1)
}

func (m *BranchRepositoryMock) List(ctx context.Context) ([]*model.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Branch), args.Error(1)
}

func (m *BranchRepositoryMock) ListActive(ctx context.Context) ([]*model.Branch, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Branch), args.Error(1)
}

func (m *BranchRepositoryMock) FindByID(ctx context.Context, id int) (*model.Branch, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Branch), args.Error(1)
}

func (m *BranchRepositoryMock) Update(ctx context.Context, id int, values map[string]interface{}) (*model.Branch, error) {
	args := m.Called(ctx, id, values)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Branch), args.Error(1)
}

func (m *BranchRepositoryMock) SetCapacity(ctx context.Context, branchID int, category model.VehicleCategory, capacity int) error {
	args := m.Called(ctx, branchID, category, capacity)
	return args.Error(0)
}

func (m *BranchRepositoryMock) Delete(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type TicketRepositoryMock struct {
	mock.Mock
}

func (m *TicketRepositoryMock) Create(ctx context.Context, ticket *model.Ticket) (*model.Ticket, error) {
	args := m.Called(ctx, ticket)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) List(ctx context.Context, branchID int) ([]*model.Ticket, error) {
	args := m.Called(ctx, branchID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) FindByID(ctx context.Context, id int) (*model.Ticket, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) FindInProgressByPlate(ctx context.Context, branchID int, plate string) (*model.Ticket, error) {
	args := m.Called(ctx, branchID, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) CountInProgress(ctx context.Context, branchID int, category model.VehicleCategory) (int, error) {
	args := m.Called(ctx, branchID, category)
	return args.Int(0), args.Error(1)
}

func (m *TicketRepositoryMock) MarkIncident(ctx context.Context, id int, note string) (*model.Ticket, error) {
	args := m.Called(ctx, id, note)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func (m *TicketRepositoryMock) Complete(ctx context.Context, tx pgx.Tx, id int, exitTime time.Time) (*model.Ticket, error) {
	args := m.Called(ctx, tx, id, exitTime)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

type ChargeRepositoryMock struct {
	mock.Mock
}

func (m *ChargeRepositoryMock) FindByTicketID(ctx context.Context, ticketID int) (*model.Charge, error) {
	args := m.Called(ctx, ticketID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Charge), args.Error(1)
}

func (m *ChargeRepositoryMock) Create(ctx context.Context, tx pgx.Tx, charge *model.Charge) (*model.Charge, error) {
	args := m.Called(ctx, tx, charge)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Charge), args.Error(1)
}

type SubscriptionRepositoryMock struct {
	mock.Mock
}

func (m *SubscriptionRepositoryMock) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	args := m.Called(ctx, sub)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *SubscriptionRepositoryMock) FindByID(ctx context.Context, id int) (*model.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *SubscriptionRepositoryMock) FindActiveByPlate(ctx context.Context, plate string) (*model.Subscription, error) {
	args := m.Called(ctx, plate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *SubscriptionRepositoryMock) FindPlanByID(ctx context.Context, planID int) (*model.SubscriptionPlan, error) {
	args := m.Called(ctx, planID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.SubscriptionPlan), args.Error(1)
}

func (m *SubscriptionRepositoryMock) UpdateStatus(ctx context.Context, id int, status model.SubscriptionStatus) (*model.Subscription, error) {
	args := m.Called(ctx, id, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *SubscriptionRepositoryMock) Renew(ctx context.Context, id int, frozenRate float64, endsAt time.Time) (*model.Subscription, error) {
	args := m.Called(ctx, id, frozenRate, endsAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *SubscriptionRepositoryMock) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Subscription, error) {
	args := m.Called(ctx, tx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Subscription), args.Error(1)
}

func (m *SubscriptionRepositoryMock) AddConsumedHours(ctx context.Context, tx pgx.Tx, id int, hours float64) error {
	args := m.Called(ctx, tx, id, hours)
	return args.Error(0)
}

type RateRepositoryMock struct {
	mock.Mock
}

func (m *RateRepositoryMock) FindActiveBaseRate(ctx context.Context) (*model.BaseRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BaseRate), args.Error(1)
}

func (m *RateRepositoryMock) SetBaseRate(ctx context.Context, hourlyRate float64) (*model.BaseRate, error) {
	args := m.Called(ctx, hourlyRate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.BaseRate), args.Error(1)
}

func (m *RateRepositoryMock) History(ctx context.Context) ([]*model.BaseRate, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.BaseRate), args.Error(1)
}

// TxManagerMock 直接以 nil tx 執行閉包，讓出場流程可以在無資料庫下測試
type TxManagerMock struct {
	mock.Mock
}

func (m *TxManagerMock) WithTx(ctx context.Context, fn func(tx pgx.Tx) error) error {
	args := m.Called(ctx, fn)
	if args.Error(0) != nil {
		return args.Error(0)
	}
	return fn(nil)
}
