package model

import (
	"time"

	"github.com/google/uuid"
)

// TicketStatus 票券狀態類型
type TicketStatus string

const (
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusCompleted  TicketStatus = "completed"
)

// IsValid 驗證狀態是否有效
func (s TicketStatus) IsValid() bool {
	switch s {
	case TicketStatusInProgress, TicketStatusCompleted:
		return true
	}
	return false
}

// CanTransitionTo 檢查是否可以轉換到目標狀態
func (s TicketStatus) CanTransitionTo(target TicketStatus) bool {
	transitions := map[TicketStatus][]TicketStatus{
		TicketStatusInProgress: {TicketStatusCompleted},
		TicketStatusCompleted:  {}, // 終態，不能轉換到任何狀態
	}

	allowed, ok := transitions[s]
	if !ok {
		return false
	}

	for _, status := range allowed {
		if status == target {
			return true
		}
	}
	return false
}

// Ticket 停車票券模型
type Ticket struct {
	ID              int             `json:"id" db:"id"`
	TicketID        uuid.UUID       `json:"ticket_id" db:"ticket_id"`
	BranchID        int             `json:"branch_id" db:"branch_id"`
	Plate           string          `json:"plate" db:"plate"`
	VehicleCategory VehicleCategory `json:"vehicle_category" db:"vehicle_category"`
	Folio           string          `json:"folio" db:"folio"`
	ScanCode        uuid.UUID       `json:"scan_code" db:"scan_code"`
	EntryTime       time.Time       `json:"entry_time" db:"entry_time"`
	ExitTime        *time.Time      `json:"exit_time,omitempty" db:"exit_time"`
	SubscriptionID  *int            `json:"subscription_id,omitempty" db:"subscription_id"`
	IsSubscriber    bool            `json:"is_subscriber" db:"is_subscriber"`
	Status          TicketStatus    `json:"status" db:"status"`
	HasIncident     bool            `json:"has_incident" db:"has_incident"`
	IncidentNote    *string         `json:"incident_note,omitempty" db:"incident_note"`
	CreatedAt       time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at" db:"updated_at"`
}

// IsInProgress 檢查車輛是否仍在場內
func (t *Ticket) IsInProgress() bool {
	return t.Status == TicketStatusInProgress
}

// RegisterEntryRequest 入場請求
type RegisterEntryRequest struct {
	BranchID        int    `json:"branch_id" binding:"required"`
	Plate           string `json:"plate" binding:"required"`
	VehicleCategory string `json:"vehicle_category" binding:"required"`
}

// ProcessExitRequest 出場請求；free_hours 為商家優惠贈送的免費時數
type ProcessExitRequest struct {
	FreeHours float64 `json:"free_hours" binding:"min=0"`
}

// ExitResponse 出場響應：完成後的票券與收費明細
type ExitResponse struct {
	Ticket *Ticket `json:"ticket"`
	Charge *Charge `json:"charge"`
}
