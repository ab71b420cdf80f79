package service

import (
	"context"
	"go-parking-facility/internal/model"
	repoMocks "go-parking-facility/internal/repository/mocks"
	apperrors "go-parking-facility/pkg/app_errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupSubscriptionService(t *testing.T) (SubscriptionService, *repoMocks.SubscriptionRepositoryMock, *repoMocks.RateRepositoryMock) {
	t.Helper()
	subRepo := new(repoMocks.SubscriptionRepositoryMock)
	rateRepo := new(repoMocks.RateRepositoryMock)
	return NewSubscriptionService(subRepo, rateRepo), subRepo, rateRepo
}

func TestSubscriptionService_Purchase(t *testing.T) {
	ctx := context.Background()
	plan := &model.SubscriptionPlan{ID: 1, Name: "basic", MonthlyHours: 10, Price: 30.00}
	req := model.PurchaseSubscriptionRequest{UserID: 1, PlanID: 1, Plate: "ABC-123", Cadence: "monthly"}

	t.Run("Success - FreezesActiveBaseRate", func(t *testing.T) {
		svc, subRepo, rateRepo := setupSubscriptionService(t)

		subRepo.On("FindPlanByID", ctx, 1).Return(plan, nil).Once()
		rateRepo.On("FindActiveBaseRate", ctx).Return(&model.BaseRate{HourlyRate: 6.00}, nil).Once()
		subRepo.On("Create", ctx, mock.MatchedBy(func(sub *model.Subscription) bool {
			return sub.FrozenRate != nil && *sub.FrozenRate == 6.00 &&
				sub.ConsumedHours == 0 &&
				sub.Status == model.SubscriptionStatusActive
		})).Return(&model.Subscription{ID: 5}, nil).Once()
		subRepo.On("FindByID", ctx, 5).
			Return(&model.Subscription{ID: 5, Plan: plan, Status: model.SubscriptionStatusActive}, nil).Once()

		sub, err := svc.Purchase(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, 5, sub.ID)

		subRepo.AssertExpectations(t)
	})

	t.Run("Success - NoBaseRateLeavesFrozenRateNil", func(t *testing.T) {
		svc, subRepo, rateRepo := setupSubscriptionService(t)

		subRepo.On("FindPlanByID", ctx, 1).Return(plan, nil).Once()
		rateRepo.On("FindActiveBaseRate", ctx).Return(nil, apperrors.ErrNoRateConfigured).Once()
		subRepo.On("Create", ctx, mock.MatchedBy(func(sub *model.Subscription) bool {
			return sub.FrozenRate == nil
		})).Return(&model.Subscription{ID: 5}, nil).Once()
		subRepo.On("FindByID", ctx, 5).Return(&model.Subscription{ID: 5}, nil).Once()

		_, err := svc.Purchase(ctx, req)
		require.NoError(t, err)

		subRepo.AssertExpectations(t)
	})

	t.Run("Success - AnnualCadence", func(t *testing.T) {
		svc, subRepo, rateRepo := setupSubscriptionService(t)

		annual := req
		annual.Cadence = "annual"

		subRepo.On("FindPlanByID", ctx, 1).Return(plan, nil).Once()
		rateRepo.On("FindActiveBaseRate", ctx).Return(&model.BaseRate{HourlyRate: 6.00}, nil).Once()
		subRepo.On("Create", ctx, mock.MatchedBy(func(sub *model.Subscription) bool {
			months := sub.EndsAt.Sub(sub.StartsAt).Hours() / 24 / 30
			return months > 11
		})).Return(&model.Subscription{ID: 6}, nil).Once()
		subRepo.On("FindByID", ctx, 6).Return(&model.Subscription{ID: 6}, nil).Once()

		_, err := svc.Purchase(ctx, annual)
		require.NoError(t, err)
	})

	t.Run("Failed - InvalidCadence", func(t *testing.T) {
		svc, subRepo, _ := setupSubscriptionService(t)

		bad := req
		bad.Cadence = "weekly"

		_, err := svc.Purchase(ctx, bad)
		assert.ErrorIs(t, err, apperrors.ErrInvalidInput)

		subRepo.AssertNotCalled(t, "Create")
	})

	t.Run("Failed - PlanNotFound", func(t *testing.T) {
		svc, subRepo, _ := setupSubscriptionService(t)

		subRepo.On("FindPlanByID", ctx, 1).Return(nil, apperrors.ErrPlanNotFound).Once()

		_, err := svc.Purchase(ctx, req)
		assert.ErrorIs(t, err, apperrors.ErrPlanNotFound)
	})
}

func TestSubscriptionService_Renew(t *testing.T) {
	ctx := context.Background()

	t.Run("Success - RefreezesRateFromNextPeriod", func(t *testing.T) {
		svc, subRepo, rateRepo := setupSubscriptionService(t)

		endsAt := time.Now().UTC().Add(72 * time.Hour)
		current := &model.Subscription{
			ID:            5,
			Cadence:       model.CadenceMonthly,
			Status:        model.SubscriptionStatusActive,
			ConsumedHours: 7,
			EndsAt:        endsAt,
		}

		subRepo.On("FindByID", ctx, 5).Return(current, nil).Once()
		rateRepo.On("FindActiveBaseRate", ctx).Return(&model.BaseRate{HourlyRate: 7.50}, nil).Once()
		// 自上一期期末續起
		subRepo.On("Renew", ctx, 5, 7.50, endsAt.AddDate(0, 1, 0)).
			Return(&model.Subscription{ID: 5, ConsumedHours: 0}, nil).Once()

		renewed, err := svc.Renew(ctx, 5)
		require.NoError(t, err)
		assert.Equal(t, 0.0, renewed.ConsumedHours)

		subRepo.AssertExpectations(t)
	})

	t.Run("Success - ExpiredRestartsFromNow", func(t *testing.T) {
		svc, subRepo, rateRepo := setupSubscriptionService(t)

		expired := &model.Subscription{
			ID:      5,
			Cadence: model.CadenceMonthly,
			Status:  model.SubscriptionStatusExpired,
			EndsAt:  time.Now().UTC().Add(-24 * time.Hour),
		}

		subRepo.On("FindByID", ctx, 5).Return(expired, nil).Once()
		rateRepo.On("FindActiveBaseRate", ctx).Return(&model.BaseRate{HourlyRate: 7.50}, nil).Once()
		subRepo.On("Renew", ctx, 5, 7.50, mock.MatchedBy(func(endsAt time.Time) bool {
			return endsAt.After(time.Now().UTC().AddDate(0, 0, 27))
		})).Return(&model.Subscription{ID: 5}, nil).Once()

		_, err := svc.Renew(ctx, 5)
		require.NoError(t, err)
	})

	t.Run("Failed - NoRateConfigured", func(t *testing.T) {
		svc, subRepo, rateRepo := setupSubscriptionService(t)

		subRepo.On("FindByID", ctx, 5).
			Return(&model.Subscription{ID: 5, Cadence: model.CadenceMonthly}, nil).Once()
		rateRepo.On("FindActiveBaseRate", ctx).Return(nil, apperrors.ErrNoRateConfigured).Once()

		_, err := svc.Renew(ctx, 5)
		assert.ErrorIs(t, err, apperrors.ErrNoRateConfigured)

		subRepo.AssertNotCalled(t, "Renew")
	})
}

func TestSubscriptionService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		svc, subRepo, _ := setupSubscriptionService(t)

		subRepo.On("UpdateStatus", ctx, 5, model.SubscriptionStatusCancelled).
			Return(&model.Subscription{ID: 5, Status: model.SubscriptionStatusCancelled}, nil).Once()

		require.NoError(t, svc.Cancel(ctx, 5))
		subRepo.AssertExpectations(t)
	})

	t.Run("Failed - NotFound", func(t *testing.T) {
		svc, subRepo, _ := setupSubscriptionService(t)

		subRepo.On("UpdateStatus", ctx, 5, model.SubscriptionStatusCancelled).
			Return(nil, apperrors.ErrSubscriptionNotFound).Once()

		assert.ErrorIs(t, svc.Cancel(ctx, 5), apperrors.ErrSubscriptionNotFound)
	})
}
