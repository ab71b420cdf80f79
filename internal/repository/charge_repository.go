package repository

import (
	"context"
	"fmt"
	"go-parking-facility/internal/model"
	apperrors "go-parking-facility/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ChargeRepository interface {
	FindByTicketID(ctx context.Context, ticketID int) (*model.Charge, error)

	// Transaction methods
	Create(ctx context.Context, tx pgx.Tx, charge *model.Charge) (*model.Charge, error)
}

type ChargeRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewChargeRepository(pool *pgxpool.Pool) ChargeRepository {
	return &ChargeRepositoryImpl{
		pool: pool,
	}
}

func (r *ChargeRepositoryImpl) Create(ctx context.Context, tx pgx.Tx, charge *model.Charge) (*model.Charge, error) {
	query := `
		INSERT INTO charges (
			ticket_id, total_hours, free_hours, billable_hours, rate_applied, subtotal,
			subscription_hours_consumed, subscription_overage_hours, overage_charge, total_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, ticket_id, total_hours, free_hours, billable_hours, rate_applied, subtotal,
			subscription_hours_consumed, subscription_overage_hours, overage_charge,
			total_amount, created_at
	`

	err := tx.QueryRow(ctx, query,
		charge.TicketID, charge.TotalHours, charge.FreeHours, charge.BillableHours,
		charge.RateApplied, charge.Subtotal,
		charge.SubscriptionHoursConsumed, charge.SubscriptionOverageHours,
		charge.OverageCharge, charge.TotalAmount,
	).Scan(
		&charge.ID,
		&charge.TicketID,
		&charge.TotalHours,
		&charge.FreeHours,
		&charge.BillableHours,
		&charge.RateApplied,
		&charge.Subtotal,
		&charge.SubscriptionHoursConsumed,
		&charge.SubscriptionOverageHours,
		&charge.OverageCharge,
		&charge.TotalAmount,
		&charge.CreatedAt,
	)

	if err != nil {
		return nil, fmt.Errorf("failed to create charge: %w", err)
	}

	return charge, nil
}

func (r *ChargeRepositoryImpl) FindByTicketID(ctx context.Context, ticketID int) (*model.Charge, error) {
	query := `
		SELECT id, ticket_id, total_hours, free_hours, billable_hours, rate_applied, subtotal,
			subscription_hours_consumed, subscription_overage_hours, overage_charge,
			total_amount, created_at
		FROM charges
		WHERE ticket_id = $1
	`

	var charge model.Charge
	err := r.pool.QueryRow(ctx, query, ticketID).Scan(
		&charge.ID,
		&charge.TicketID,
		&charge.TotalHours,
		&charge.FreeHours,
		&charge.BillableHours,
		&charge.RateApplied,
		&charge.Subtotal,
		&charge.SubscriptionHoursConsumed,
		&charge.SubscriptionOverageHours,
		&charge.OverageCharge,
		&charge.TotalAmount,
		&charge.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrChargeNotFound
		}
		return nil, err
	}

	return &charge, nil
}
