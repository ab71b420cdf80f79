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

func newTestCalculator(t *testing.T, baseRate float64) ChargeCalculator {
	t.Helper()
	rateRepo := new(repoMocks.RateRepositoryMock)
	rateRepo.On("FindActiveBaseRate", context.Background()).
		Return(&model.BaseRate{ID: 1, HourlyRate: baseRate}, nil).Maybe()
	return NewChargeCalculator(NewRateResolver(rateRepo))
}

func ticketParkedFor(hours float64, now time.Time) *model.Ticket {
	entry := now.Add(-time.Duration(hours * float64(time.Hour)))
	return &model.Ticket{
		ID:              1,
		BranchID:        1,
		Plate:           "ABC-123",
		VehicleCategory: model.VehicleCategoryLight,
		EntryTime:       entry,
		Status:          model.TicketStatusInProgress,
	}
}

func subscriberTicket(hours float64, now time.Time, subID int) *model.Ticket {
	ticket := ticketParkedFor(hours, now)
	ticket.SubscriptionID = &subID
	ticket.IsSubscriber = true
	return ticket
}

func TestChargeCalculator_Compute_NonSubscriber(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	branch := &model.Branch{ID: 1}

	t.Run("Success", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		charge, err := calculator.Compute(ctx, ticketParkedFor(3, now), branch, nil, 0, now)
		require.NoError(t, err)
		assert.Equal(t, 3.00, charge.TotalHours)
		assert.Equal(t, 3.00, charge.BillableHours)
		assert.Equal(t, 4.00, charge.RateApplied)
		assert.Equal(t, 12.00, charge.TotalAmount)
		assert.Equal(t, 0.0, charge.SubscriptionHoursConsumed)
		assert.Equal(t, 0.0, charge.SubscriptionOverageHours)
		assert.Equal(t, 0.0, charge.OverageCharge)
	})

	t.Run("Success - FreeHoursOffset", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		charge, err := calculator.Compute(ctx, ticketParkedFor(3, now), branch, nil, 1, now)
		require.NoError(t, err)
		assert.Equal(t, 3.00, charge.TotalHours)
		assert.Equal(t, 1.00, charge.FreeHours)
		assert.Equal(t, 2.00, charge.BillableHours)
		assert.Equal(t, 8.00, charge.TotalAmount)
	})

	t.Run("Success - FreeHoursExceedTotal", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		// 免費時數超過停放時數：計費時數與金額都不為負
		charge, err := calculator.Compute(ctx, ticketParkedFor(2, now), branch, nil, 5, now)
		require.NoError(t, err)
		assert.Equal(t, 0.0, charge.BillableHours)
		assert.Equal(t, 0.0, charge.TotalAmount)
	})

	t.Run("Success - RoundingHalfUp", func(t *testing.T) {
		calculator := newTestCalculator(t, 3.00)

		// 90 分鐘 = 1.5 小時；1.5 * 3.00 = 4.50
		ticket := ticketParkedFor(1.5, now)
		charge, err := calculator.Compute(ctx, ticket, branch, nil, 0, now)
		require.NoError(t, err)
		assert.Equal(t, 1.50, charge.TotalHours)
		assert.Equal(t, 4.50, charge.TotalAmount)
	})

	t.Run("Success - EstimateUsesNowWhenNoExitTime", func(t *testing.T) {
		calculator := newTestCalculator(t, 2.00)

		ticket := ticketParkedFor(4, now)
		later := now.Add(time.Hour)
		charge, err := calculator.Compute(ctx, ticket, branch, nil, 0, later)
		require.NoError(t, err)
		assert.Equal(t, 5.00, charge.TotalHours)
	})

	t.Run("Failed - NoRateConfigured", func(t *testing.T) {
		rateRepo := new(repoMocks.RateRepositoryMock)
		rateRepo.On("FindActiveBaseRate", ctx).Return(nil, apperrors.ErrNoRateConfigured).Once()
		calculator := NewChargeCalculator(NewRateResolver(rateRepo))

		_, err := calculator.Compute(ctx, ticketParkedFor(2, now), branch, nil, 0, now)
		assert.ErrorIs(t, err, apperrors.ErrNoRateConfigured)
	})
}

func TestChargeCalculator_Compute_Subscriber(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 6, 1, 18, 0, 0, 0, time.UTC)
	branch := &model.Branch{ID: 1}

	newSubscription := func(monthlyHours, consumedHours float64) *model.Subscription {
		return &model.Subscription{
			ID:            7,
			Status:        model.SubscriptionStatusActive,
			ConsumedHours: consumedHours,
			Plan:          &model.SubscriptionPlan{ID: 1, MonthlyHours: monthlyHours},
		}
	}

	t.Run("Success - WithinQuota", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		// 額度內免費：額度 10 小時、已用 2，停 3 小時
		charge, err := calculator.Compute(ctx, subscriberTicket(3, now, 7), branch, newSubscription(10, 2), 0, now)
		require.NoError(t, err)
		assert.Equal(t, 3.00, charge.SubscriptionHoursConsumed)
		assert.Equal(t, 0.0, charge.SubscriptionOverageHours)
		assert.Equal(t, 0.0, charge.OverageCharge)
		assert.Equal(t, 0.0, charge.TotalAmount)
	})

	t.Run("Success - QuotaOverage", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		// 額度 10、已用 8，停 5 小時 → 扣 2、超額 3、超額費 12.00
		charge, err := calculator.Compute(ctx, subscriberTicket(5, now, 7), branch, newSubscription(10, 8), 0, now)
		require.NoError(t, err)
		assert.Equal(t, 2.00, charge.SubscriptionHoursConsumed)
		assert.Equal(t, 3.00, charge.SubscriptionOverageHours)
		assert.Equal(t, 12.00, charge.OverageCharge)
		assert.Equal(t, 12.00, charge.TotalAmount)
	})

	t.Run("Success - QuotaExhausted", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		// 額度已用罄，全部以超額計費
		charge, err := calculator.Compute(ctx, subscriberTicket(2, now, 7), branch, newSubscription(10, 10), 0, now)
		require.NoError(t, err)
		assert.Equal(t, 0.0, charge.SubscriptionHoursConsumed)
		assert.Equal(t, 2.00, charge.SubscriptionOverageHours)
		assert.Equal(t, 8.00, charge.TotalAmount)
	})

	t.Run("Success - FreeHoursNotDoubleCounted", func(t *testing.T) {
		calculator := newTestCalculator(t, 4.00)

		// 免費時數先折抵，再扣額度：停 5、免費 2 → 只扣額度 3
		charge, err := calculator.Compute(ctx, subscriberTicket(5, now, 7), branch, newSubscription(10, 0), 2, now)
		require.NoError(t, err)
		assert.Equal(t, 3.00, charge.SubscriptionHoursConsumed)
		assert.Equal(t, 0.0, charge.SubscriptionOverageHours)
		assert.Equal(t, 0.0, charge.TotalAmount)
	})

	t.Run("Success - FrozenRateAppliedToOverage", func(t *testing.T) {
		calculator := newTestCalculator(t, 6.00)

		sub := newSubscription(10, 10)
		sub.FrozenRate = floatPtr(5.00)

		// 超額以凍結費率 5.00 計，不用基礎費率 6.00
		charge, err := calculator.Compute(ctx, subscriberTicket(2, now, 7), branch, sub, 0, now)
		require.NoError(t, err)
		assert.Equal(t, 5.00, charge.RateApplied)
		assert.Equal(t, 10.00, charge.TotalAmount)
	})
}
