package service

import (
	"context"
	"time"

	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/repository"
	"github.com/inhousecost/backend/pkg/mailer"
)

// ---------------------------------------------------------------------------
// Mock CostRateRepository
// ---------------------------------------------------------------------------

type mockCostRateRepository struct {
	listFunc        func(ctx context.Context) ([]*model.CostRate, error)
	listByStateFunc func(ctx context.Context, state string) ([]*model.CostRate, error)
	getByIDFunc     func(ctx context.Context, id string) (*model.CostRate, error)
	createFunc      func(ctx context.Context, rate *model.CostRate) error
	updateFunc      func(ctx context.Context, rate *model.CostRate) error
	deleteFunc      func(ctx context.Context, id string) error
	bulkUpsertFunc  func(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error)
}

func (m *mockCostRateRepository) List(ctx context.Context) ([]*model.CostRate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockCostRateRepository) ListByState(ctx context.Context, state string) ([]*model.CostRate, error) {
	if m.listByStateFunc != nil {
		return m.listByStateFunc(ctx, state)
	}
	return nil, nil
}
func (m *mockCostRateRepository) GetByID(ctx context.Context, id string) (*model.CostRate, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockCostRateRepository) Create(ctx context.Context, rate *model.CostRate) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, rate)
	}
	return nil
}
func (m *mockCostRateRepository) Update(ctx context.Context, rate *model.CostRate) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, rate)
	}
	return nil
}
func (m *mockCostRateRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockCostRateRepository) BulkUpsert(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error) {
	if m.bulkUpsertFunc != nil {
		return m.bulkUpsertFunc(ctx, rows)
	}
	return &model.UpsertSummary{TotalRows: len(rows)}, nil
}

// ---------------------------------------------------------------------------
// Mock RoleCategoryRepository
// ---------------------------------------------------------------------------

type mockRoleCategoryRepository struct {
	listFunc       func(ctx context.Context) ([]*model.RoleCategory, error)
	getByIDFunc    func(ctx context.Context, id int) (*model.RoleCategory, error)
	nameExistsFunc func(ctx context.Context, name string, excludeID int) (bool, error)
	createFunc     func(ctx context.Context, c *model.RoleCategory) error
	updateFunc     func(ctx context.Context, c *model.RoleCategory) error
	deleteFunc     func(ctx context.Context, id int) error
}

func (m *mockRoleCategoryRepository) List(ctx context.Context) ([]*model.RoleCategory, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockRoleCategoryRepository) GetByID(ctx context.Context, id int) (*model.RoleCategory, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, repository.ErrNotFound
}
func (m *mockRoleCategoryRepository) NameExists(ctx context.Context, name string, excludeID int) (bool, error) {
	if m.nameExistsFunc != nil {
		return m.nameExistsFunc(ctx, name, excludeID)
	}
	return false, nil
}
func (m *mockRoleCategoryRepository) Create(ctx context.Context, c *model.RoleCategory) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, c)
	}
	return nil
}
func (m *mockRoleCategoryRepository) Update(ctx context.Context, c *model.RoleCategory) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, c)
	}
	return nil
}
func (m *mockRoleCategoryRepository) Delete(ctx context.Context, id int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock LeadRepository
// ---------------------------------------------------------------------------

type mockLeadRepository struct {
	createFunc        func(ctx context.Context, lead *model.Lead) error
	markEmailSentFunc func(ctx context.Context, id string, at time.Time) error
	listFunc          func(ctx context.Context) ([]*model.Lead, error)
	deleteUserFunc    func(ctx context.Context, id string) (int, error)
}

func (m *mockLeadRepository) Create(ctx context.Context, lead *model.Lead) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, lead)
	}
	return nil
}
func (m *mockLeadRepository) MarkEmailSent(ctx context.Context, id string, at time.Time) error {
	if m.markEmailSentFunc != nil {
		return m.markEmailSentFunc(ctx, id, at)
	}
	return nil
}
func (m *mockLeadRepository) List(ctx context.Context) ([]*model.Lead, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockLeadRepository) DeleteUser(ctx context.Context, id string) (int, error) {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, id)
	}
	return 0, repository.ErrNotFound
}

// ---------------------------------------------------------------------------
// Mock mailer.Sender
// ---------------------------------------------------------------------------

type mockSender struct {
	sendFunc func(ctx context.Context, msg mailer.Message) error
}

func (m *mockSender) Send(ctx context.Context, msg mailer.Message) error {
	if m.sendFunc != nil {
		return m.sendFunc(ctx, msg)
	}
	return nil
}

// arizonaRates yields a 32.65% load with payroll taxes and benefits selected.
func arizonaRates() []*model.CostRate {
	return []*model.CostRate{
		{State: "Arizona", Category: "Federal Tax", Item: "FICA", RatePercent: 7.65},
		{State: "Arizona", Category: "Arizona Tax", Item: "SUTA", RatePercent: 2},
		{State: "Arizona", Category: "Healthcare", Item: "Medical", RatePercent: 20},
		{State: "Arizona", Category: "Retirement", Item: "401k", RatePercent: 3},
		{State: "Arizona", Category: "IT Infrastructure", Item: "Laptop", RatePercent: 4},
	}
}

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }
