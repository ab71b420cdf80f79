package model

import "time"

// SubscriptionStatus 訂閱狀態類型
type SubscriptionStatus string

const (
	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
)

// IsValid 驗證狀態是否有效
func (s SubscriptionStatus) IsValid() bool {
	switch s {
	case SubscriptionStatusActive, SubscriptionStatusCancelled, SubscriptionStatusExpired:
		return true
	}
	return false
}

// SubscriptionCadence 訂閱週期
type SubscriptionCadence string

const (
	CadenceMonthly SubscriptionCadence = "monthly"
	CadenceAnnual  SubscriptionCadence = "annual"
)

// SubscriptionPlan 訂閱方案：每月時數額度與價格
type SubscriptionPlan struct {
	ID           int       `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	MonthlyHours float64   `json:"monthly_hours" db:"monthly_hours"`
	Price        float64   `json:"price" db:"price"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// Subscription 訂閱模型
type Subscription struct {
	ID            int                 `json:"id" db:"id"`
	UserID        int                 `json:"user_id" db:"user_id"`
	PlanID        int                 `json:"plan_id" db:"plan_id"`
	Plate         string              `json:"plate" db:"plate"`
	FrozenRate    *float64            `json:"frozen_rate,omitempty" db:"frozen_rate"`
	ConsumedHours float64             `json:"consumed_hours" db:"consumed_hours"`
	Status        SubscriptionStatus  `json:"status" db:"status"`
	Cadence       SubscriptionCadence `json:"cadence" db:"cadence"`
	AutoRenew     bool                `json:"auto_renew" db:"auto_renew"`
	StartsAt      time.Time           `json:"starts_at" db:"starts_at"`
	EndsAt        time.Time           `json:"ends_at" db:"ends_at"`
	CreatedAt     time.Time           `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time           `json:"updated_at" db:"updated_at"`

	Plan *SubscriptionPlan `json:"plan,omitempty" db:"-"`
}

// IsActive 檢查訂閱是否有效
func (s *Subscription) IsActive() bool {
	return s.Status == SubscriptionStatusActive
}

// RemainingHours 本期剩餘額度
func (s *Subscription) RemainingHours() float64 {
	if s.Plan == nil {
		return 0
	}
	remaining := s.Plan.MonthlyHours - s.ConsumedHours
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PurchaseSubscriptionRequest 購買訂閱請求
type PurchaseSubscriptionRequest struct {
	UserID    int    `json:"user_id" binding:"required"`
	PlanID    int    `json:"plan_id" binding:"required"`
	Plate     string `json:"plate" binding:"required"`
	Cadence   string `json:"cadence" binding:"required"`
	AutoRenew bool   `json:"auto_renew"`
}
