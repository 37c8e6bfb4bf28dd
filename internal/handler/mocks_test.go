package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/inhousecost/backend/internal/calculator"
	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/service"
)

// ---------------------------------------------------------------------------
// Mock CostRateService
// ---------------------------------------------------------------------------

type mockCostRateService struct {
	listFunc       func(ctx context.Context, state string) ([]*model.CostRate, error)
	createFunc     func(ctx context.Context, in model.CostRateInput) (*model.CostRate, error)
	updateFunc     func(ctx context.Context, id string, in model.CostRateInput) (*model.CostRate, error)
	deleteFunc     func(ctx context.Context, id string) error
	uploadFunc     func(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error)
	aggregatesFunc func(ctx context.Context, state string) (calculator.Aggregates, error)
}

func (m *mockCostRateService) List(ctx context.Context, state string) ([]*model.CostRate, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx, state)
	}
	return nil, nil
}
func (m *mockCostRateService) Create(ctx context.Context, in model.CostRateInput) (*model.CostRate, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, in)
	}
	return &model.CostRate{}, nil
}
func (m *mockCostRateService) Update(ctx context.Context, id string, in model.CostRateInput) (*model.CostRate, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, in)
	}
	return &model.CostRate{ID: id}, nil
}
func (m *mockCostRateService) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}
func (m *mockCostRateService) Upload(ctx context.Context, rows []model.CostRateInput) (*model.UpsertSummary, error) {
	if m.uploadFunc != nil {
		return m.uploadFunc(ctx, rows)
	}
	return &model.UpsertSummary{TotalRows: len(rows), Created: len(rows)}, nil
}
func (m *mockCostRateService) Aggregates(ctx context.Context, state string) (calculator.Aggregates, error) {
	if m.aggregatesFunc != nil {
		return m.aggregatesFunc(ctx, state)
	}
	return calculator.Aggregate(state, nil), nil
}

// ---------------------------------------------------------------------------
// Mock RoleCategoryService
// ---------------------------------------------------------------------------

type mockRoleCategoryService struct {
	listFunc   func(ctx context.Context) ([]*model.RoleCategory, error)
	createFunc func(ctx context.Context, name, description string, monthlyCost *float64) (*model.RoleCategory, error)
	updateFunc func(ctx context.Context, id int, patch model.RoleCategoryPatch) (*model.RoleCategory, error)
	deleteFunc func(ctx context.Context, id int) error
}

func (m *mockRoleCategoryService) List(ctx context.Context) ([]*model.RoleCategory, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockRoleCategoryService) Create(ctx context.Context, name, description string, monthlyCost *float64) (*model.RoleCategory, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, name, description, monthlyCost)
	}
	return &model.RoleCategory{ID: 1, Name: name}, nil
}
func (m *mockRoleCategoryService) Update(ctx context.Context, id int, patch model.RoleCategoryPatch) (*model.RoleCategory, error) {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, patch)
	}
	return &model.RoleCategory{ID: id, Name: patch.Name}, nil
}
func (m *mockRoleCategoryService) Delete(ctx context.Context, id int) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mock EstimateService
// ---------------------------------------------------------------------------

type mockEstimateService struct {
	estimateFunc func(ctx context.Context, in service.EstimateInput) (*service.Estimate, error)
}

func (m *mockEstimateService) Estimate(ctx context.Context, in service.EstimateInput) (*service.Estimate, error) {
	if m.estimateFunc != nil {
		return m.estimateFunc(ctx, in)
	}
	inc := in.Inclusions
	if inc == nil {
		inc = calculator.DefaultInclusions()
	}
	agg := arizonaAggregates()
	totals := calculator.ComputeTotals(in.BaseMonthlySalary, in.FTECount, agg, inc)
	return &service.Estimate{
		State:            calculator.StateFullName(in.State),
		Aggregates:       agg,
		Inclusions:       inc,
		Totals:           totals,
		Savings:          calculator.Savings(totals.InHouseMonthlyAllFTEs, in.BaseMonthlySalary, in.FTECount, 0),
		RoleCategoryName: model.DefaultRoleCategoryName,
	}, nil
}

// ---------------------------------------------------------------------------
// Mock LeadService
// ---------------------------------------------------------------------------

type mockLeadService struct {
	submitFunc     func(ctx context.Context, sub service.LeadSubmission) (*model.Lead, error)
	listFunc       func(ctx context.Context) ([]*model.Lead, error)
	usersFunc      func(ctx context.Context) (*service.LeadUsers, error)
	deleteUserFunc func(ctx context.Context, id string) (int, error)
}

func (m *mockLeadService) Submit(ctx context.Context, sub service.LeadSubmission) (*model.Lead, error) {
	if m.submitFunc != nil {
		return m.submitFunc(ctx, sub)
	}
	return &model.Lead{ID: "lead-1"}, nil
}
func (m *mockLeadService) List(ctx context.Context) ([]*model.Lead, error) {
	if m.listFunc != nil {
		return m.listFunc(ctx)
	}
	return nil, nil
}
func (m *mockLeadService) Users(ctx context.Context) (*service.LeadUsers, error) {
	if m.usersFunc != nil {
		return m.usersFunc(ctx)
	}
	return &service.LeadUsers{}, nil
}
func (m *mockLeadService) DeleteUser(ctx context.Context, id string) (int, error) {
	if m.deleteUserFunc != nil {
		return m.deleteUserFunc(ctx, id)
	}
	return 1, nil
}

// ---------------------------------------------------------------------------
// Mock AdminAuthService
// ---------------------------------------------------------------------------

type mockAdminAuthService struct {
	loginFunc func(ctx context.Context, password string) (string, time.Time, error)
}

func (m *mockAdminAuthService) Login(ctx context.Context, password string) (string, time.Time, error) {
	if m.loginFunc != nil {
		return m.loginFunc(ctx, password)
	}
	return "token", time.Now().Add(time.Hour), nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

// arizonaAggregates mirrors a small Arizona data set: 7.65 + 2.0 payroll,
// 23 benefits, 2 administrative overhead.
func arizonaAggregates() calculator.Aggregates {
	return calculator.Aggregates{
		calculator.PayrollTaxes:           9.65,
		calculator.CustomaryBenefits:      23,
		calculator.AdministrativeOverhead: 2,
		calculator.ITInfrastructure:       3,
		calculator.RealEstate:             4,
		calculator.WorkforceManagement:    1,
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.NewDecoder(rec.Body).Decode(v); err != nil {
		t.Fatalf("decode: %v (body: %s)", err, rec.Body.String())
	}
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	decodeBody(t, rec, &body)
	code, _ := body["error"].(string)
	return code
}

func floatPtr(v float64) *float64 { return &v }
