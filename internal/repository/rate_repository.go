package repository

import (
	"context"
	"go-parking-facility/internal/model"
	apperrors "go-parking-facility/pkg/app_errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RateRepository interface {
	// 現行費率：end_date 為 NULL 的那一筆
	FindActiveBaseRate(ctx context.Context) (*model.BaseRate, error)
	// 設定新費率並封存舊的那一筆
	SetBaseRate(ctx context.Context, hourlyRate float64) (*model.BaseRate, error)
	History(ctx context.Context) ([]*model.BaseRate, error)
}

type RateRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewRateRepository(pool *pgxpool.Pool) RateRepository {
	return &RateRepositoryImpl{
		pool: pool,
	}
}

func (r *RateRepositoryImpl) FindActiveBaseRate(ctx context.Context) (*model.BaseRate, error) {
	query := `
		SELECT id, hourly_rate, start_date, end_date, created_at
		FROM base_rates
		WHERE end_date IS NULL
	`

	var rate model.BaseRate
	err := r.pool.QueryRow(ctx, query).Scan(
		&rate.ID,
		&rate.HourlyRate,
		&rate.StartDate,
		&rate.EndDate,
		&rate.CreatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrNoRateConfigured
		}
		return nil, err
	}

	return &rate, nil
}

func (r *RateRepositoryImpl) SetBaseRate(ctx context.Context, hourlyRate float64) (*model.BaseRate, error) {
	if hourlyRate < 0 {
		return nil, apperrors.ErrInvalidInput
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	now := time.Now().UTC()

	// 封存現行費率
	_, err = tx.Exec(ctx, `
		UPDATE base_rates
		SET end_date = $1
		WHERE end_date IS NULL
	`, now)
	if err != nil {
		return nil, err
	}

	var rate model.BaseRate
	err = tx.QueryRow(ctx, `
		INSERT INTO base_rates (hourly_rate, start_date)
		VALUES ($1, $2)
		RETURNING id, hourly_rate, start_date, end_date, created_at
	`, hourlyRate, now).Scan(
		&rate.ID,
		&rate.HourlyRate,
		&rate.StartDate,
		&rate.EndDate,
		&rate.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return &rate, nil
}

func (r *RateRepositoryImpl) History(ctx context.Context) ([]*model.BaseRate, error) {
	query := `
		SELECT id, hourly_rate, start_date, end_date, created_at
		FROM base_rates
		ORDER BY start_date DESC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	rates := make([]*model.BaseRate, 0)

	for rows.Next() {
		var rate model.BaseRate
		err := rows.Scan(
			&rate.ID,
			&rate.HourlyRate,
			&rate.StartDate,
			&rate.EndDate,
			&rate.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		rates = append(rates, &rate)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return rates, nil
}
