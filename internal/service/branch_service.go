package service

import (
	"context"
	"go-parking-facility/internal/model"
	"go-parking-facility/internal/repository"
	apperrors "go-parking-facility/pkg/app_errors"

	"github.com/google/uuid"
)

type BranchService interface {
	List(ctx context.Context) ([]*model.Branch, error)
	GetByID(ctx context.Context, id int) (*model.Branch, error)
	Create(ctx context.Context, branch *model.Branch) (*model.Branch, error)
	Update(ctx context.Context, id int, params model.UpdateBranchParams) (*model.Branch, error)
	SetCapacity(ctx context.Context, id int, category model.VehicleCategory, capacity int) error
	Delete(ctx context.Context, id int) error
}

type BranchServiceImpl struct {
	repo repository.BranchRepository
}

func NewBranchService(repo repository.BranchRepository) BranchService {
	return &BranchServiceImpl{repo: repo}
}

func (s *BranchServiceImpl) List(ctx context.Context) ([]*model.Branch, error) {
	return s.repo.List(ctx)
}

func (s *BranchServiceImpl) GetByID(ctx context.Context, id int) (*model.Branch, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *BranchServiceImpl) Create(ctx context.Context, branch *model.Branch) (*model.Branch, error) {
	for category, capacity := range branch.Capacities {
		if !category.IsValid() {
			return nil, apperrors.ErrVehicleTypeNotFound
		}
		if capacity < 0 {
			return nil, apperrors.ErrInvalidInput
		}
	}

	branch.BranchID = uuid.New()
	return s.repo.Create(ctx, branch)
}

func (s *BranchServiceImpl) Update(ctx context.Context, id int, params model.UpdateBranchParams) (*model.Branch, error) {
	values := map[string]interface{}{}
	if params.Name != nil {
		values["name"] = *params.Name
	}
	if params.Address != nil {
		values["address"] = *params.Address
	}
	if params.HourlyRate != nil {
		values["hourly_rate"] = *params.HourlyRate
	}
	if params.IsActive != nil {
		values["is_active"] = *params.IsActive
	}
	return s.repo.Update(ctx, id, values)
}

// SetCapacity 容量調整即時生效：准入檢查每次都重讀分店設定
func (s *BranchServiceImpl) SetCapacity(ctx context.Context, id int, category model.VehicleCategory, capacity int) error {
	if !category.IsValid() {
		return apperrors.ErrVehicleTypeNotFound
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.repo.SetCapacity(ctx, id, category, capacity)
}

func (s *BranchServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}
