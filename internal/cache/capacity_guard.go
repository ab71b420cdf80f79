package cache

import (
	"context"
	"go-parking-facility/internal/metrics"
	"go-parking-facility/internal/model"
	"go-parking-facility/pkg/logger"

	"go.uber.org/zap"
)

// CapacityGuard 入場准入協議：reserve / release / reconcile。
// 容量由呼叫端從 Branch 讀入，不在此快取，設定變更立即生效。
type CapacityGuard interface {
	// 預留一個車位；超過容量時回滾並回傳 false
	Reserve(ctx context.Context, branchID int, category model.VehicleCategory, capacity int) (bool, error)
	// 釋放一個車位；計數器低於零時夾定為零並記警告
	Release(ctx context.Context, branchID int, category model.VehicleCategory) error
	// 非阻塞讀取目前佔用數
	CurrentOccupancy(ctx context.Context, branchID int, category model.VehicleCategory) (int, error)
	// 以票券帳本算出的真實在場數覆寫計數器
	Reconcile(ctx context.Context, branchID int, category model.VehicleCategory, trueCount int) error
}

type CapacityGuardImpl struct {
	store CounterStore
}

func NewCapacityGuard(store CounterStore) CapacityGuard {
	return &CapacityGuardImpl{
		store: store,
	}
}

/*
*

	預留車位 (先遞增、再檢查、超額則回滾)
	1. 原子遞增佔用數
	2. 超過容量則原子遞減回滾，拒絕入場
	3. 否則准入

	遞增與檢查之間計數器可能短暫超出容量一格，
	但回滾發生在任何呼叫端把它當成准入結果之前。
*/
func (g *CapacityGuardImpl) Reserve(ctx context.Context, branchID int, category model.VehicleCategory, capacity int) (bool, error) {
	value, err := g.store.Increment(ctx, branchID, category)
	if err != nil {
		return false, err
	}

	if value > int64(capacity) {
		// 超額，回滾：使用 context.Background() 確保回滾一定會執行
		if _, _, err := g.store.Decrement(context.Background(), branchID, category); err != nil {
			logger.WithComponent("capacity_guard").Error("rollback after overcommit failed",
				zap.Int("branch_id", branchID),
				zap.String("category", string(category)),
				zap.Error(err),
			)
			return false, err
		}
		metrics.AdmissionsTotal.WithLabelValues(string(category), "denied").Inc()
		return false, nil
	}

	metrics.AdmissionsTotal.WithLabelValues(string(category), "granted").Inc()
	return true, nil
}

func (g *CapacityGuardImpl) Release(ctx context.Context, branchID int, category model.VehicleCategory) error {
	_, clamped, err := g.store.Decrement(ctx, branchID, category)
	if err != nil {
		return err
	}

	if clamped {
		// 重複釋放或對帳競爭造成的負數，已夾定回零
		logger.WithComponent("capacity_guard").Warn("occupancy counter went below zero, clamped",
			zap.Int("branch_id", branchID),
			zap.String("category", string(category)),
		)
	}

	return nil
}

func (g *CapacityGuardImpl) CurrentOccupancy(ctx context.Context, branchID int, category model.VehicleCategory) (int, error) {
	value, err := g.store.Get(ctx, branchID, category)
	if err != nil {
		return 0, err
	}
	return int(value), nil
}

func (g *CapacityGuardImpl) Reconcile(ctx context.Context, branchID int, category model.VehicleCategory, trueCount int) error {
	return g.store.Set(ctx, branchID, category, int64(trueCount))
}
