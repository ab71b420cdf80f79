package repository

import (
	"context"
	"fmt"
	"go-parking-facility/internal/model"
	apperrors "go-parking-facility/pkg/app_errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BranchRepository interface {
	Create(ctx context.Context, branch *model.Branch) (*model.Branch, error)
	List(ctx context.Context) ([]*model.Branch, error)
	ListActive(ctx context.Context) ([]*model.Branch, error)
	FindByID(ctx context.Context, id int) (*model.Branch, error)
	Update(ctx context.Context, id int, values map[string]interface{}) (*model.Branch, error)
	SetCapacity(ctx context.Context, branchID int, category model.VehicleCategory, capacity int) error
	Delete(ctx context.Context, id int) error
}

type BranchRepositoryImpl struct {
	pool *pgxpool.Pool
}

func NewBranchRepository(pool *pgxpool.Pool) BranchRepository {
	return &BranchRepositoryImpl{
		pool: pool,
	}
}

func (r *BranchRepositoryImpl) Create(ctx context.Context, branch *model.Branch) (*model.Branch, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	query := `
		INSERT INTO branches (
			branch_id, code, name, address, hourly_rate, opens_at, closes_at, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, branch_id, code, name, address, hourly_rate,
			opens_at, closes_at, is_active, created_at, updated_at
	`

	err = tx.QueryRow(ctx, query,
		branch.BranchID, branch.Code, branch.Name, branch.Address,
		branch.HourlyRate, branch.OpensAt, branch.ClosesAt, branch.IsActive,
	).Scan(
		&branch.ID,
		&branch.BranchID,
		&branch.Code,
		&branch.Name,
		&branch.Address,
		&branch.HourlyRate,
		&branch.OpensAt,
		&branch.ClosesAt,
		&branch.IsActive,
		&branch.CreatedAt,
		&branch.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	// 每個車種的容量上限
	for category, capacity := range branch.Capacities {
		if capacity < 0 {
			return nil, apperrors.ErrInvalidInput
		}
		_, err := tx.Exec(ctx, `
			INSERT INTO branch_capacities (branch_id, vehicle_category, capacity)
			VALUES ($1, $2, $3)
		`, branch.ID, category, capacity)
		if err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}

	return branch, nil
}

func (r *BranchRepositoryImpl) List(ctx context.Context) ([]*model.Branch, error) {
	return r.list(ctx, false)
}

func (r *BranchRepositoryImpl) ListActive(ctx context.Context) ([]*model.Branch, error) {
	return r.list(ctx, true)
}

func (r *BranchRepositoryImpl) list(ctx context.Context, activeOnly bool) ([]*model.Branch, error) {
	query := `
		SELECT id, branch_id, code, name, address, hourly_rate,
				opens_at, closes_at, is_active,
				created_at, updated_at, deleted_at
		FROM branches
		WHERE deleted_at IS NULL
	`
	if activeOnly {
		query += " AND is_active = true"
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	branches := make([]*model.Branch, 0)

	for rows.Next() {
		var branch model.Branch
		err := rows.Scan(
			&branch.ID,
			&branch.BranchID,
			&branch.Code,
			&branch.Name,
			&branch.Address,
			&branch.HourlyRate,
			&branch.OpensAt,
			&branch.ClosesAt,
			&branch.IsActive,
			&branch.CreatedAt,
			&branch.UpdatedAt,
			&branch.DeletedAt,
		)
		if err != nil {
			return nil, err
		}
		branches = append(branches, &branch)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, branch := range branches {
		if err := r.loadCapacities(ctx, branch); err != nil {
			return nil, err
		}
	}

	return branches, nil
}

func (r *BranchRepositoryImpl) FindByID(ctx context.Context, id int) (*model.Branch, error) {
	query := `
		SELECT id, branch_id, code, name, address, hourly_rate,
				opens_at, closes_at, is_active,
				created_at, updated_at, deleted_at
		FROM branches
		WHERE id = $1 AND deleted_at IS NULL
	`

	var branch model.Branch
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&branch.ID,
		&branch.BranchID,
		&branch.Code,
		&branch.Name,
		&branch.Address,
		&branch.HourlyRate,
		&branch.OpensAt,
		&branch.ClosesAt,
		&branch.IsActive,
		&branch.CreatedAt,
		&branch.UpdatedAt,
		&branch.DeletedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBranchNotFound
		}
		return nil, err
	}

	if err := r.loadCapacities(ctx, &branch); err != nil {
		return nil, err
	}

	return &branch, nil
}

func (r *BranchRepositoryImpl) loadCapacities(ctx context.Context, branch *model.Branch) error {
	rows, err := r.pool.Query(ctx, `
		SELECT vehicle_category, capacity
		FROM branch_capacities
		WHERE branch_id = $1
	`, branch.ID)
	if err != nil {
		return err
	}
	defer rows.Close()

	branch.Capacities = make(map[model.VehicleCategory]int)
	for rows.Next() {
		var category model.VehicleCategory
		var capacity int
		if err := rows.Scan(&category, &capacity); err != nil {
			return err
		}
		branch.Capacities[category] = capacity
	}

	return rows.Err()
}

func (r *BranchRepositoryImpl) Update(ctx context.Context, id int, values map[string]interface{}) (*model.Branch, error) {
	allowedFields := map[string]bool{
		"name":        true,
		"address":     true,
		"hourly_rate": true,
		"opens_at":    true,
		"closes_at":   true,
		"is_active":   true,
	}

	sets := []string{}
	args := []interface{}{}
	argPos := 1

	for column, value := range values {
		if ok := allowedFields[column]; !ok {
			return nil, apperrors.ErrInvalidInput
		}
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argPos))
		args = append(args, value)
		argPos++
	}

	if len(sets) == 0 {
		return nil, apperrors.ErrInvalidInput
	}

	// add updated_at
	sets = append(sets, fmt.Sprintf("updated_at = $%d", argPos))
	args = append(args, time.Now().UTC())
	argPos++

	// add id
	args = append(args, id)

	query := fmt.Sprintf(`
		UPDATE branches
		SET %s
		WHERE id = $%d AND deleted_at IS NULL
		RETURNING id, branch_id, code, name, address, hourly_rate,
			opens_at, closes_at, is_active, created_at, updated_at
	`, strings.Join(sets, ", "), argPos)

	var branch model.Branch

	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&branch.ID,
		&branch.BranchID,
		&branch.Code,
		&branch.Name,
		&branch.Address,
		&branch.HourlyRate,
		&branch.OpensAt,
		&branch.ClosesAt,
		&branch.IsActive,
		&branch.CreatedAt,
		&branch.UpdatedAt,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, apperrors.ErrBranchNotFound
		}
		return nil, err
	}

	if err := r.loadCapacities(ctx, &branch); err != nil {
		return nil, err
	}

	return &branch, nil
}

func (r *BranchRepositoryImpl) SetCapacity(ctx context.Context, branchID int, category model.VehicleCategory, capacity int) error {
	if capacity < 0 {
		return apperrors.ErrInvalidInput
	}

	query := `
		INSERT INTO branch_capacities (branch_id, vehicle_category, capacity)
		VALUES ($1, $2, $3)
		ON CONFLICT (branch_id, vehicle_category)
		DO UPDATE SET capacity = EXCLUDED.capacity
	`

	_, err := r.pool.Exec(ctx, query, branchID, category, capacity)
	return err
}

func (r *BranchRepositoryImpl) Delete(ctx context.Context, id int) error {
	query := `
		UPDATE branches
		SET deleted_at = $1, updated_at = $2
		WHERE id = $3 AND deleted_at IS NULL
	`

	now := time.Now().UTC()
	result, err := r.pool.Exec(ctx, query, now, now, id)
	if err != nil {
		return err
	}

	// check if branch exists and not already deleted
	if result.RowsAffected() == 0 {
		return apperrors.ErrBranchNotFound
	}

	return nil
}
