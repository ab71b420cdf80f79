package model

import (
	"time"

	"github.com/google/uuid"
)

// VehicleCategory 車種類型
type VehicleCategory string

const (
	VehicleCategoryLight VehicleCategory = "light"
	VehicleCategoryHeavy VehicleCategory = "heavy"
)

// IsValid 驗證車種是否有效
func (c VehicleCategory) IsValid() bool {
	switch c {
	case VehicleCategoryLight, VehicleCategoryHeavy:
		return true
	}
	return false
}

// AllVehicleCategories 列出所有車種，供對帳與報表遍歷使用
func AllVehicleCategories() []VehicleCategory {
	return []VehicleCategory{VehicleCategoryLight, VehicleCategoryHeavy}
}

// Branch 分店模型
type Branch struct {
	ID         int        `json:"id" db:"id"`
	BranchID   uuid.UUID  `json:"branch_id" db:"branch_id"`
	Code       string     `json:"code" db:"code"`
	Name       string     `json:"name" db:"name"`
	Address    *string    `json:"address,omitempty" db:"address"`
	HourlyRate *float64   `json:"hourly_rate,omitempty" db:"hourly_rate"`
	OpensAt    string     `json:"opens_at" db:"opens_at"`
	ClosesAt   string     `json:"closes_at" db:"closes_at"`
	IsActive   bool       `json:"is_active" db:"is_active"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt  *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`

	// 每個車種的容量上限，0 表示該車種不收
	Capacities map[VehicleCategory]int `json:"capacities" db:"-"`
}

// CapacityFor 取得指定車種的容量上限；未設定視為 0
func (b *Branch) CapacityFor(category VehicleCategory) int {
	return b.Capacities[category]
}

// IsDeleted 檢查分店是否已刪除
func (b *Branch) IsDeleted() bool {
	return b.DeletedAt != nil
}

type UpdateBranchParams struct {
	Name       *string
	Address    *string
	HourlyRate *float64
	IsActive   *bool
}
