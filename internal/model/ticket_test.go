package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTicketStatus_IsValid(t *testing.T) {
	assert.True(t, TicketStatusInProgress.IsValid())
	assert.True(t, TicketStatusCompleted.IsValid())
	assert.False(t, TicketStatus("cancelled").IsValid())
	assert.False(t, TicketStatus("").IsValid())
}

func TestTicketStatus_CanTransitionTo(t *testing.T) {
	t.Run("InProgressToCompleted", func(t *testing.T) {
		assert.True(t, TicketStatusInProgress.CanTransitionTo(TicketStatusCompleted))
	})

	t.Run("CompletedIsTerminal", func(t *testing.T) {
		assert.False(t, TicketStatusCompleted.CanTransitionTo(TicketStatusInProgress))
		assert.False(t, TicketStatusCompleted.CanTransitionTo(TicketStatusCompleted))
	})

	t.Run("NoSelfTransition", func(t *testing.T) {
		assert.False(t, TicketStatusInProgress.CanTransitionTo(TicketStatusInProgress))
	})

	t.Run("UnknownStatus", func(t *testing.T) {
		assert.False(t, TicketStatus("cancelled").CanTransitionTo(TicketStatusCompleted))
	})
}

func TestVehicleCategory_IsValid(t *testing.T) {
	assert.True(t, VehicleCategoryLight.IsValid())
	assert.True(t, VehicleCategoryHeavy.IsValid())
	assert.False(t, VehicleCategory("hovercraft").IsValid())
}

func TestBranch_CapacityFor(t *testing.T) {
	branch := &Branch{
		Capacities: map[VehicleCategory]int{VehicleCategoryLight: 30},
	}
	assert.Equal(t, 30, branch.CapacityFor(VehicleCategoryLight))
	// 未設定的車種視為不收
	assert.Equal(t, 0, branch.CapacityFor(VehicleCategoryHeavy))
}

func TestSubscription_RemainingHours(t *testing.T) {
	plan := &SubscriptionPlan{MonthlyHours: 10}

	t.Run("PartiallyConsumed", func(t *testing.T) {
		sub := &Subscription{Plan: plan, ConsumedHours: 8}
		assert.Equal(t, 2.0, sub.RemainingHours())
	})

	t.Run("OverConsumedClampsAtZero", func(t *testing.T) {
		sub := &Subscription{Plan: plan, ConsumedHours: 12}
		assert.Equal(t, 0.0, sub.RemainingHours())
	})
}
