package service

import (
	"context"
	"go-parking-facility/internal/model"
	repoMocks "go-parking-facility/internal/repository/mocks"
	apperrors "go-parking-facility/pkg/app_errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(v float64) *float64 {
	return &v
}

func activeSubscription(frozenRate *float64) *model.Subscription {
	return &model.Subscription{
		ID:         1,
		FrozenRate: frozenRate,
		Status:     model.SubscriptionStatusActive,
		Plan:       &model.SubscriptionPlan{ID: 1, MonthlyHours: 10},
	}
}

func TestRateResolver_Resolve(t *testing.T) {
	ctx := context.Background()

	// 費率優先序：訂閱凍結 5.00 → 分店 8.00 → 基礎 6.00
	branch := &model.Branch{ID: 1, HourlyRate: floatPtr(8.00)}
	baseRate := &model.BaseRate{ID: 1, HourlyRate: 6.00, StartDate: time.Now()}

	t.Run("Success - FrozenSubscriptionRate", func(t *testing.T) {
		rateRepo := new(repoMocks.RateRepositoryMock)
		resolver := NewRateResolver(rateRepo)

		rate, err := resolver.Resolve(ctx, branch, activeSubscription(floatPtr(5.00)))
		require.NoError(t, err)
		assert.Equal(t, 5.00, rate)

		// 不需要讀基礎費率
		rateRepo.AssertNotCalled(t, "FindActiveBaseRate")
	})

	t.Run("Success - BranchOverrideRate", func(t *testing.T) {
		rateRepo := new(repoMocks.RateRepositoryMock)
		resolver := NewRateResolver(rateRepo)

		// 訂閱沒有凍結費率，退回分店覆寫
		rate, err := resolver.Resolve(ctx, branch, activeSubscription(nil))
		require.NoError(t, err)
		assert.Equal(t, 8.00, rate)
	})

	t.Run("Success - BaseRate", func(t *testing.T) {
		rateRepo := new(repoMocks.RateRepositoryMock)
		rateRepo.On("FindActiveBaseRate", ctx).Return(baseRate, nil).Once()
		resolver := NewRateResolver(rateRepo)

		noOverride := &model.Branch{ID: 1}
		rate, err := resolver.Resolve(ctx, noOverride, nil)
		require.NoError(t, err)
		assert.Equal(t, 6.00, rate)

		rateRepo.AssertExpectations(t)
	})

	t.Run("Success - CancelledSubscriptionIgnoresFrozenRate", func(t *testing.T) {
		rateRepo := new(repoMocks.RateRepositoryMock)
		resolver := NewRateResolver(rateRepo)

		cancelled := activeSubscription(floatPtr(5.00))
		cancelled.Status = model.SubscriptionStatusCancelled

		rate, err := resolver.Resolve(ctx, branch, cancelled)
		require.NoError(t, err)
		assert.Equal(t, 8.00, rate)
	})

	t.Run("Failed - NoRateConfigured", func(t *testing.T) {
		rateRepo := new(repoMocks.RateRepositoryMock)
		rateRepo.On("FindActiveBaseRate", ctx).Return(nil, apperrors.ErrNoRateConfigured).Once()
		resolver := NewRateResolver(rateRepo)

		noOverride := &model.Branch{ID: 1}
		_, err := resolver.Resolve(ctx, noOverride, nil)
		assert.ErrorIs(t, err, apperrors.ErrNoRateConfigured)

		rateRepo.AssertExpectations(t)
	})
}
