package repository

import (
	"context"
	"go-parking-facility/internal/model"
	apperrors "go-parking-facility/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type SubscriptionRepository interface {
	Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error)
	FindByID(ctx context.Context, id int) (*model.Subscription, error)
	FindActiveByPlate(ctx context.Context, plate string) (*model.Subscription, error)
	FindPlanByID(ctx context.Context, planID int) (*model.SubscriptionPlan, error)
	UpdateStatus(ctx context.Context, id int, status model.SubscriptionStatus) (*model.Subscription, error)
	Renew(ctx context.Context, id int, frozenRate float64, endsAt time.Time) (*model.Subscription, error)

	// Transaction methods
	FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Subscription, error)
	AddConsumedHours(ctx context.Context, tx pgx.Tx, id int, hours float64) error
}

type SubscriptionRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewSubscriptionRepository(pool *pgxpool.Pool) SubscriptionRepository {
	return &SubscriptionRepositoryImpl{
		pool: pool,
	}
}

const subscriptionColumns = `s.id, s.user_id, s.plan_id, s.plate, s.frozen_rate, s.consumed_hours,
		s.status, s.cadence, s.auto_renew, s.starts_at, s.ends_at, s.created_at, s.updated_at,
		p.id, p.name, p.monthly_hours, p.price, p.created_at, p.updated_at`

func scanSubscription(row pgx.Row) (*model.Subscription, error) {
	var sub model.Subscription
	var plan model.SubscriptionPlan
	err := row.Scan(
		&sub.ID,
		&sub.UserID,
		&sub.PlanID,
		&sub.Plate,
		&sub.FrozenRate,
		&sub.ConsumedHours,
		&sub.Status,
		&sub.Cadence,
		&sub.AutoRenew,
		&sub.StartsAt,
		&sub.EndsAt,
		&sub.CreatedAt,
		&sub.UpdatedAt,
		&plan.ID,
		&plan.Name,
		&plan.MonthlyHours,
		&plan.Price,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	sub.Plan = &plan
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) Create(ctx context.Context, sub *model.Subscription) (*model.Subscription, error) {
	query := `
		INSERT INTO subscriptions (
			user_id, plan_id, plate, frozen_rate, consumed_hours,
			status, cadence, auto_renew, starts_at, ends_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		sub.UserID, sub.PlanID, sub.Plate, sub.FrozenRate, sub.ConsumedHours,
		sub.Status, sub.Cadence, sub.AutoRenew, sub.StartsAt, sub.EndsAt,
	).Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return sub, nil
}

func (r *SubscriptionRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.id = $1
	`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, err
	}

	return sub, nil
}

// FindActiveByPlate 入場時以車牌比對有效訂閱；查無訂閱不是錯誤，車輛視為非訂閱戶
func (r *SubscriptionRepositoryImpl) FindActiveByPlate(ctx context.Context, plate string) (*model.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.plate = $1 AND s.status = $2 AND s.ends_at > $3
		ORDER BY s.ends_at DESC
		LIMIT 1
	`

	sub, err := scanSubscription(r.pool.QueryRow(ctx, query, plate, model.SubscriptionStatusActive, time.Now().UTC()))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, err
	}

	return sub, nil
}

func (r *SubscriptionRepositoryImpl) FindPlanByID(ctx context.Context, planID int) (*model.SubscriptionPlan, error) {
	query := `
		SELECT id, name, monthly_hours, price, created_at, updated_at
		FROM subscription_plans
		WHERE id = $1
	`

	var plan model.SubscriptionPlan
	err := r.pool.QueryRow(ctx, query, planID).Scan(
		&plan.ID,
		&plan.Name,
		&plan.MonthlyHours,
		&plan.Price,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrPlanNotFound
		}
		return nil, err
	}

	return &plan, nil
}

func (r *SubscriptionRepositoryImpl) UpdateStatus(ctx context.Context, id int, status model.SubscriptionStatus) (*model.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET status = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := r.pool.Exec(ctx, query, status, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrSubscriptionNotFound
	}

	return r.FindByID(ctx, id)
}

// Renew 續訂：重新凍結費率、歸零已用時數、延長效期
func (r *SubscriptionRepositoryImpl) Renew(ctx context.Context, id int, frozenRate float64, endsAt time.Time) (*model.Subscription, error) {
	query := `
		UPDATE subscriptions
		SET frozen_rate = $1, consumed_hours = 0, status = $2, ends_at = $3, updated_at = $4
		WHERE id = $5
	`

	result, err := r.pool.Exec(ctx, query,
		frozenRate, model.SubscriptionStatusActive, endsAt, time.Now().UTC(), id)
	if err != nil {
		return nil, err
	}

	if result.RowsAffected() == 0 {
		return nil, apperrors.ErrSubscriptionNotFound
	}

	return r.FindByID(ctx, id)
}

// FindByIDWithLock 出場交易內鎖訂閱列，序列化同一訂閱的 consumed_hours 讀寫
func (r *SubscriptionRepositoryImpl) FindByIDWithLock(ctx context.Context, tx pgx.Tx, id int) (*model.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions s
		JOIN subscription_plans p ON p.id = s.plan_id
		WHERE s.id = $1
		FOR UPDATE OF s
	`

	sub, err := scanSubscription(tx.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrSubscriptionNotFound
		}
		return nil, err
	}

	return sub, nil
}

func (r *SubscriptionRepositoryImpl) AddConsumedHours(ctx context.Context, tx pgx.Tx, id int, hours float64) error {
	query := `
		UPDATE subscriptions
		SET consumed_hours = consumed_hours + $1, updated_at = $2
		WHERE id = $3
	`

	result, err := tx.Exec(ctx, query, hours, time.Now().UTC(), id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrSubscriptionNotFound
	}

	return nil
}
