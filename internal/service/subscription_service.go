package service

import (
	"context"
	"errors"
	"go-parking-facility/internal/model"
	"go-parking-facility/internal/repository"
	apperrors "go-parking-facility/pkg/app_errors"
	"time"
)

type SubscriptionService interface {
	// 購買時凍結現行費率，讓訂閱戶不受之後的費率調整影響
	Purchase(ctx context.Context, req model.PurchaseSubscriptionRequest) (*model.Subscription, error)
	Cancel(ctx context.Context, id int) error
	// 續訂：重新凍結費率並歸零已用時數
	Renew(ctx context.Context, id int) (*model.Subscription, error)
	GetByID(ctx context.Context, id int) (*model.Subscription, error)
	GetActiveByPlate(ctx context.Context, plate string) (*model.Subscription, error)
}

type SubscriptionServiceImpl struct {
	repo           repository.SubscriptionRepository
	rateRepository repository.RateRepository
}

func NewSubscriptionService(repo repository.SubscriptionRepository, rateRepository repository.RateRepository) SubscriptionService {
	return &SubscriptionServiceImpl{
		repo:           repo,
		rateRepository: rateRepository,
	}
}

func cadencePeriodEnd(start time.Time, cadence model.SubscriptionCadence) time.Time {
	if cadence == model.CadenceAnnual {
		return start.AddDate(1, 0, 0)
	}
	return start.AddDate(0, 1, 0)
}

func (s *SubscriptionServiceImpl) Purchase(ctx context.Context, req model.PurchaseSubscriptionRequest) (*model.Subscription, error) {
	cadence := model.SubscriptionCadence(req.Cadence)
	if cadence != model.CadenceMonthly && cadence != model.CadenceAnnual {
		return nil, apperrors.ErrInvalidInput
	}

	if _, err := s.repo.FindPlanByID(ctx, req.PlanID); err != nil {
		return nil, err
	}

	// 凍結現行費率；尚未設定基礎費率時不凍結，出場計費走分店或基礎費率
	var frozenRate *float64
	baseRate, err := s.rateRepository.FindActiveBaseRate(ctx)
	if err == nil {
		frozenRate = &baseRate.HourlyRate
	} else if !errors.Is(err, apperrors.ErrNoRateConfigured) {
		return nil, err
	}

	now := time.Now().UTC()
	sub := &model.Subscription{
		UserID:        req.UserID,
		PlanID:        req.PlanID,
		Plate:         req.Plate,
		FrozenRate:    frozenRate,
		ConsumedHours: 0,
		Status:        model.SubscriptionStatusActive,
		Cadence:       cadence,
		AutoRenew:     req.AutoRenew,
		StartsAt:      now,
		EndsAt:        cadencePeriodEnd(now, cadence),
	}

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, err
	}

	return s.repo.FindByID(ctx, created.ID)
}

func (s *SubscriptionServiceImpl) Cancel(ctx context.Context, id int) error {
	_, err := s.repo.UpdateStatus(ctx, id, model.SubscriptionStatusCancelled)
	return err
}

func (s *SubscriptionServiceImpl) Renew(ctx context.Context, id int) (*model.Subscription, error) {
	sub, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	baseRate, err := s.rateRepository.FindActiveBaseRate(ctx)
	if err != nil {
		return nil, err
	}

	// 自上一期期末起算；已過期則從現在起算
	start := sub.EndsAt
	now := time.Now().UTC()
	if start.Before(now) {
		start = now
	}

	return s.repo.Renew(ctx, id, baseRate.HourlyRate, cadencePeriodEnd(start, sub.Cadence))
}

func (s *SubscriptionServiceImpl) GetByID(ctx context.Context, id int) (*model.Subscription, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *SubscriptionServiceImpl) GetActiveByPlate(ctx context.Context, plate string) (*model.Subscription, error) {
	return s.repo.FindActiveByPlate(ctx, plate)
}
