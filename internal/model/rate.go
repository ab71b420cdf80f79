package model

import "time"

// BaseRate 系統基礎費率歷史；EndDate 為 nil 的那一筆是現行費率
type BaseRate struct {
	ID         int        `json:"id" db:"id"`
	HourlyRate float64    `json:"hourly_rate" db:"hourly_rate"`
	StartDate  time.Time  `json:"start_date" db:"start_date"`
	EndDate    *time.Time `json:"end_date,omitempty" db:"end_date"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}
