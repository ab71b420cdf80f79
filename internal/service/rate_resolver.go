package service

import (
	"context"
	"go-parking-facility/internal/model"
	"go-parking-facility/internal/repository"
)

// RateResolver 決定一張票券適用的小時費率，優先序嚴格固定：
// 訂閱凍結費率 → 分店覆寫費率 → 系統現行基礎費率。
// 三者皆無時回傳 ErrNoRateConfigured，絕不默默以零計費。
type RateResolver interface {
	Resolve(ctx context.Context, branch *model.Branch, sub *model.Subscription) (float64, error)
}

type RateResolverImpl struct {
	rateRepository repository.RateRepository
}

func NewRateResolver(rateRepository repository.RateRepository) RateResolver {
	return &RateResolverImpl{
		rateRepository: rateRepository,
	}
}

func (r *RateResolverImpl) Resolve(ctx context.Context, branch *model.Branch, sub *model.Subscription) (float64, error) {
	// 1. 訂閱凍結費率：訂閱戶在訂閱效期內不受基礎費率調整影響
	if sub != nil && sub.IsActive() && sub.FrozenRate != nil {
		return *sub.FrozenRate, nil
	}

	// 2. 分店覆寫費率
	if branch != nil && branch.HourlyRate != nil {
		return *branch.HourlyRate, nil
	}

	// 3. 系統現行基礎費率
	rate, err := r.rateRepository.FindActiveBaseRate(ctx)
	if err != nil {
		return 0, err
	}

	return rate.HourlyRate, nil
}
