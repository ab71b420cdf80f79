package model

import "time"

// Charge 收費明細，每張完成的票券各一筆
type Charge struct {
	ID       int `json:"id" db:"id"`
	TicketID int `json:"ticket_id" db:"ticket_id"`

	TotalHours    float64 `json:"total_hours" db:"total_hours"`
	FreeHours     float64 `json:"free_hours" db:"free_hours"`
	BillableHours float64 `json:"billable_hours" db:"billable_hours"`
	RateApplied   float64 `json:"rate_applied" db:"rate_applied"`
	Subtotal      float64 `json:"subtotal" db:"subtotal"`

	// 訂閱相關欄位：非訂閱車輛恆為零
	SubscriptionHoursConsumed float64 `json:"subscription_hours_consumed" db:"subscription_hours_consumed"`
	SubscriptionOverageHours  float64 `json:"subscription_overage_hours" db:"subscription_overage_hours"`
	OverageCharge             float64 `json:"overage_charge" db:"overage_charge"`

	TotalAmount float64   `json:"total_amount" db:"total_amount"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}
