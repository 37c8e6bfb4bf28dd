package service

import (
	"context"
	"errors"
	"math"
	"strings"

	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/repository"
)

// RoleCategoryService manages the role categories offered in the calculator.
type RoleCategoryService interface {
	List(ctx context.Context) ([]*model.RoleCategory, error)
	// Create stores a new category. A nil or negative monthlyCost is stored as 0.
	Create(ctx context.Context, name, description string, monthlyCost *float64) (*model.RoleCategory, error)
	Update(ctx context.Context, id int, patch model.RoleCategoryPatch) (*model.RoleCategory, error)
	Delete(ctx context.Context, id int) error
}

type roleCategoryServiceImpl struct {
	repo repository.RoleCategoryRepository
}

// NewRoleCategoryService creates a RoleCategoryService.
func NewRoleCategoryService(repo repository.RoleCategoryRepository) RoleCategoryService {
	return &roleCategoryServiceImpl{repo: repo}
}

func (s *roleCategoryServiceImpl) List(ctx context.Context) ([]*model.RoleCategory, error) {
	return s.repo.List(ctx)
}

func (s *roleCategoryServiceImpl) Create(ctx context.Context, name, description string, monthlyCost *float64) (*model.RoleCategory, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name_required", "Category name is required")
	}
	if err := s.checkName(ctx, name, 0); err != nil {
		return nil, err
	}

	cost := 0.0
	if monthlyCost != nil && *monthlyCost > 0 && !math.IsInf(*monthlyCost, 0) {
		cost = *monthlyCost
	}
	c := &model.RoleCategory{
		Name:        name,
		Description: strings.TrimSpace(description),
		MonthlyCost: cost,
	}
	if err := s.repo.Create(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return c, nil
}

func (s *roleCategoryServiceImpl) Update(ctx context.Context, id int, patch model.RoleCategoryPatch) (*model.RoleCategory, error) {
	name := strings.TrimSpace(patch.Name)
	if name == "" {
		return nil, invalid("name_required", "Category name is required")
	}
	if patch.MonthlyCost != nil && (math.IsNaN(*patch.MonthlyCost) || math.IsInf(*patch.MonthlyCost, 0) || *patch.MonthlyCost < 0) {
		return nil, invalid("invalid_monthly_cost", "monthlyCost must be non-negative")
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkName(ctx, name, id); err != nil {
		return nil, err
	}

	existing.Name = name
	existing.Description = strings.TrimSpace(patch.Description)
	if patch.MonthlyCost != nil {
		existing.MonthlyCost = *patch.MonthlyCost
	}
	if err := s.repo.Update(ctx, existing); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrDuplicateName
		}
		return nil, err
	}
	return existing, nil
}

// Delete removes the category. Leads that referenced it keep their stored role name.
func (s *roleCategoryServiceImpl) Delete(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func (s *roleCategoryServiceImpl) checkName(ctx context.Context, name string, excludeID int) error {
	exists, err := s.repo.NameExists(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return ErrDuplicateName
	}
	return nil
}
