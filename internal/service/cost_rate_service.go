package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/inhousecost/backend/internal/calculator"
	"github.com/inhousecost/backend/internal/metrics"
	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/repository"
)

// CostRateService manages employer cost rates and answers aggregate queries.
type CostRateService interface {
	// List returns every rate, or only those for state when it is non-empty.
	List(ctx context.Context, state string) ([]*model.CostRate, error)
	Create(ctx context.Context, in model.CostRateInput) (*model.CostRate, error)
	Update(ctx context.Context, id string, in model.CostRateInput) (*model.CostRate, error)
	Delete(ctx context.Context, id string) error
	// Upload upserts pre-validated rows. Per-row failures land in the summary.
	Upload(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error)
	// Aggregates sums the state's rates per inclusion key. state is matched exactly.
	Aggregates(ctx context.Context, state string) (calculator.Aggregates, error)
}

type costRateServiceImpl struct {
	repo    repository.CostRateRepository
	metrics *metrics.Metrics
}

// NewCostRateService creates a CostRateService. m may be nil.
func NewCostRateService(repo repository.CostRateRepository, m *metrics.Metrics) CostRateService {
	return &costRateServiceImpl{repo: repo, metrics: m}
}

func (s *costRateServiceImpl) List(ctx context.Context, state string) ([]*model.CostRate, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return s.repo.List(ctx)
	}
	return s.repo.ListByState(ctx, state)
}

func (s *costRateServiceImpl) Create(ctx context.Context, in model.CostRateInput) (*model.CostRate, error) {
	in, err := normalizeCostRate(in)
	if err != nil {
		return nil, err
	}
	rate := costRateFromInput(in)
	if err := s.repo.Create(ctx, rate); err != nil {
		return nil, fmt.Errorf("create cost rate: %w", err)
	}
	return rate, nil
}

func (s *costRateServiceImpl) Update(ctx context.Context, id string, in model.CostRateInput) (*model.CostRate, error) {
	in, err := normalizeCostRate(in)
	if err != nil {
		return nil, err
	}
	rate := costRateFromInput(in)
	rate.ID = id
	if err := s.repo.Update(ctx, rate); err != nil {
		return nil, err
	}
	return rate, nil
}

func (s *costRateServiceImpl) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *costRateServiceImpl) Upload(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error) {
	summary, err := s.repo.BulkUpsert(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("bulk upsert cost rates: %w", err)
	}
	s.metrics.UploadRows(summary.Created, summary.Updated, len(summary.Errors))
	return summary, nil
}

func (s *costRateServiceImpl) Aggregates(ctx context.Context, state string) (calculator.Aggregates, error) {
	state = strings.TrimSpace(state)
	if state == "" {
		return nil, invalid("state_required", "state is required")
	}
	rows, err := s.repo.ListByState(ctx, state)
	if err != nil {
		return nil, fmt.Errorf("list rates for %s: %w", state, err)
	}
	return calculator.Aggregate(state, model.CategoryRates(rows)), nil
}

// normalizeCostRate trims text fields, turns blank notes/source into nil and
// enforces the rate and cost ranges.
func normalizeCostRate(in model.CostRateInput) (model.CostRateInput, error) {
	in.State = strings.TrimSpace(in.State)
	in.Category = strings.TrimSpace(in.Category)
	in.Item = strings.TrimSpace(in.Item)
	if in.State == "" || in.Category == "" || in.Item == "" {
		return in, invalid("missing_required_fields", "state, category, item, and ratePercent are required")
	}
	if math.IsNaN(in.RatePercent) || in.RatePercent < 0 || in.RatePercent > 100 {
		return in, invalid("invalid_rate_percent", "ratePercent must be between 0 and 100")
	}
	if math.IsNaN(in.EmployerCostUSD) || math.IsInf(in.EmployerCostUSD, 0) || in.EmployerCostUSD < 0 {
		return in, invalid("invalid_employer_cost", "employerCostUSD must be non-negative")
	}
	in.Notes = trimOptional(in.Notes)
	in.Source = trimOptional(in.Source)
	return in, nil
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

func costRateFromInput(in model.CostRateInput) *model.CostRate {
	return &model.CostRate{
		State:           in.State,
		Category:        in.Category,
		Item:            in.Item,
		RatePercent:     in.RatePercent,
		EmployerCostUSD: in.EmployerCostUSD,
		Notes:           in.Notes,
		Source:          in.Source,
	}
}
