package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/inhousecost/backend/internal/calculator"
	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/repository"
)

// EstimateInput is what the calculator form submits.
type EstimateInput struct {
	State             string
	BaseMonthlySalary float64
	FTECount          float64
	// RoleCategoryID is optional; without it the provider cost falls back to
	// calculator.DefaultProviderRatio of the salary.
	RoleCategoryID *int
	// Inclusions nil means calculator.DefaultInclusions.
	Inclusions calculator.Inclusions
}

// Estimate is the full server-side computation for one calculator input.
type Estimate struct {
	State            string                     `json:"state"`
	Aggregates       calculator.Aggregates      `json:"aggregates"`
	Inclusions       calculator.Inclusions      `json:"inclusions"`
	Totals           calculator.Totals          `json:"totals"`
	Savings          calculator.SavingsEstimate `json:"savings"`
	RoleCategoryID   *int                       `json:"roleCategoryId"`
	RoleCategoryName string                     `json:"roleCategoryName"`
}

// EstimateService runs the calculator against stored rates and role prices.
type EstimateService interface {
	Estimate(ctx context.Context, in EstimateInput) (*Estimate, error)
}

type estimateServiceImpl struct {
	rates repository.CostRateRepository
	roles repository.RoleCategoryRepository
}

// NewEstimateService creates an EstimateService.
func NewEstimateService(rates repository.CostRateRepository, roles repository.RoleCategoryRepository) EstimateService {
	return &estimateServiceImpl{rates: rates, roles: roles}
}

// Estimate validates in, aggregates the state's rates and computes totals and
// savings. State abbreviations are expanded before the rate lookup.
func (s *estimateServiceImpl) Estimate(ctx context.Context, in EstimateInput) (*Estimate, error) {
	state := calculator.StateFullName(strings.TrimSpace(in.State))
	if state == "" {
		return nil, invalid("state_required", "state is required")
	}
	if !validAmount(in.BaseMonthlySalary) {
		return nil, invalid("invalid_salary", "baseMonthlySalary must be a non-negative number")
	}
	if !validAmount(in.FTECount) {
		return nil, invalid("invalid_fte_count", "fteCount must be a non-negative number")
	}
	inc := in.Inclusions
	if inc == nil {
		inc = calculator.DefaultInclusions()
	}

	rows, err := s.rates.ListByState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("list rates for %s: %w", state, err)
	}
	agg := calculator.Aggregate(state, model.CategoryRates(rows))

	roleID, roleName, roleCost := s.resolveRole(ctx, in.RoleCategoryID)
	totals := calculator.ComputeTotals(in.BaseMonthlySalary, in.FTECount, agg, inc)

	return &Estimate{
		State:            state,
		Aggregates:       agg,
		Inclusions:       inc,
		Totals:           totals,
		Savings:          calculator.Savings(totals.InHouseMonthlyAllFTEs, in.BaseMonthlySalary, in.FTECount, roleCost),
		RoleCategoryID:   roleID,
		RoleCategoryName: roleName,
	}, nil
}

// resolveRole looks up the category. Lookup failures fall back to the default
// name with no id and no price.
func (s *estimateServiceImpl) resolveRole(ctx context.Context, id *int) (*int, string, float64) {
	if id == nil {
		return nil, model.DefaultRoleCategoryName, 0
	}
	c, err := s.roles.GetByID(ctx, *id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			slog.Warn("role category lookup failed", "error", err, "role_category_id", *id)
		}
		return nil, model.DefaultRoleCategoryName, 0
	}
	return &c.ID, c.Name, c.MonthlyCost
}

func validAmount(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0) && v >= 0
}
