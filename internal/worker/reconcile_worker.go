package worker

import (
	"context"
	"go-parking-facility/internal/cache"
	"go-parking-facility/internal/metrics"
	"go-parking-facility/internal/model"
	"go-parking-facility/internal/repository"
	"go-parking-facility/pkg/logger"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ReconcileWorker 定期把佔用計數器校正回票券帳本的真實在場數。
// 計數器只是效能快取；行程崩潰、計數器重啟或漏釋放造成的漂移都由這裡修正。
type ReconcileWorker interface {
	Start(ctx context.Context) error
	// RunOnce 執行一輪對帳；啟動時先跑一次
	RunOnce(ctx context.Context)
}

// ReconcileWorkerConfig 對帳週期與佔用率告警門檻
type ReconcileWorkerConfig struct {
	Interval      time.Duration
	WarnRatio     float64
	CriticalRatio float64
}

type ReconcileWorkerImpl struct {
	branchRepository repository.BranchRepository
	ticketRepository repository.TicketRepository
	guard            cache.CapacityGuard
	cfg              ReconcileWorkerConfig
}

func NewReconcileWorker(
	branchRepository repository.BranchRepository,
	ticketRepository repository.TicketRepository,
	guard cache.CapacityGuard,
	cfg ReconcileWorkerConfig,
) ReconcileWorker {
	return &ReconcileWorkerImpl{
		branchRepository: branchRepository,
		ticketRepository: ticketRepository,
		guard:            guard,
		cfg:              cfg,
	}
}

func (w *ReconcileWorkerImpl) Start(ctx context.Context) error {
	go func() {
		ticker := time.NewTicker(w.cfg.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.RunOnce(ctx)
			}
		}
	}()
	return nil
}

// RunOnce 對帳可以與線上 Reserve/Release 併發執行：
// 覆寫權威值期間的短暫過期是可接受的，每次准入都會重新對容量檢查。
func (w *ReconcileWorkerImpl) RunOnce(ctx context.Context) {
	log := logger.WithComponent("reconcile_worker")

	branches, err := w.branchRepository.ListActive(ctx)
	if err != nil {
		log.Error("list branches failed", zap.Error(err))
		return
	}

	for _, branch := range branches {
		for _, category := range model.AllVehicleCategories() {
			w.reconcileOne(ctx, log, branch, category)
		}
	}

	metrics.ReconcileRunsTotal.Inc()
}

func (w *ReconcileWorkerImpl) reconcileOne(ctx context.Context, log *zap.Logger, branch *model.Branch, category model.VehicleCategory) {
	trueCount, err := w.ticketRepository.CountInProgress(ctx, branch.ID, category)
	if err != nil {
		log.Error("count in-progress tickets failed",
			zap.Int("branch_id", branch.ID),
			zap.String("category", string(category)),
			zap.Error(err))
		return
	}

	current, err := w.guard.CurrentOccupancy(ctx, branch.ID, category)
	if err != nil {
		log.Error("read occupancy counter failed",
			zap.Int("branch_id", branch.ID),
			zap.String("category", string(category)),
			zap.Error(err))
		return
	}

	if current != trueCount {
		log.Warn("occupancy drift corrected",
			zap.Int("branch_id", branch.ID),
			zap.String("category", string(category)),
			zap.Int("counter", current),
			zap.Int("ledger", trueCount))
		metrics.ReconcileDriftTotal.WithLabelValues(strconv.Itoa(branch.ID), string(category)).Inc()
	}

	if err := w.guard.Reconcile(ctx, branch.ID, category, trueCount); err != nil {
		log.Error("reconcile counter failed",
			zap.Int("branch_id", branch.ID),
			zap.String("category", string(category)),
			zap.Error(err))
		return
	}

	metrics.OccupancyCurrent.WithLabelValues(strconv.Itoa(branch.ID), string(category)).Set(float64(trueCount))
	w.checkThresholds(log, branch, category, trueCount)
}

func (w *ReconcileWorkerImpl) checkThresholds(log *zap.Logger, branch *model.Branch, category model.VehicleCategory, occupied int) {
	capacity := branch.CapacityFor(category)
	if capacity <= 0 {
		return
	}

	ratio := float64(occupied) / float64(capacity)
	fields := []zap.Field{
		zap.Int("branch_id", branch.ID),
		zap.String("category", string(category)),
		zap.Int("occupied", occupied),
		zap.Int("capacity", capacity),
	}

	switch {
	case ratio >= w.cfg.CriticalRatio:
		log.Error("occupancy critical", fields...)
	case ratio >= w.cfg.WarnRatio:
		log.Warn("occupancy high", fields...)
	}
}
