package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/inhousecost/backend/internal/calculator"
	"github.com/inhousecost/backend/internal/service"
)

// CalculatorHandler serves the public calculator endpoints.
type CalculatorHandler struct {
	rates     service.CostRateService
	estimates service.EstimateService
}

// NewCalculatorHandler creates a CalculatorHandler.
func NewCalculatorHandler(rates service.CostRateService, estimates service.EstimateService) *CalculatorHandler {
	return &CalculatorHandler{rates: rates, estimates: estimates}
}

// Aggregates handles GET /api/calculator/aggregates?state=AZ.
// Postal abbreviations are expanded before the lookup; the response echoes
// the state as requested.
func (h *CalculatorHandler) Aggregates(w http.ResponseWriter, r *http.Request) {
	h.aggregates(w, r, true)
}

// Costs handles GET /api/costs?state=Arizona. The state is used as given.
func (h *CalculatorHandler) Costs(w http.ResponseWriter, r *http.Request) {
	h.aggregates(w, r, false)
}

func (h *CalculatorHandler) aggregates(w http.ResponseWriter, r *http.Request, expand bool) {
	state := strings.TrimSpace(r.URL.Query().Get("state"))
	if state == "" {
		writeError(w, http.StatusBadRequest, "state_required")
		return
	}
	lookup := state
	if expand {
		lookup = calculator.StateFullName(state)
	}

	agg, err := h.rates.Aggregates(r.Context(), lookup)
	if err != nil {
		writeServiceError(w, err, "aggregates_failed", "state", lookup)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"state": state, "aggregates": agg})
}

// inclusionInfo describes one cost group for the calculator form.
type inclusionInfo struct {
	Key         calculator.InclusionKey `json:"key"`
	DisplayName string                  `json:"displayName"`
	Description string                  `json:"description"`
	Default     bool                    `json:"default"`
}

// Inclusions handles GET /api/calculator/inclusions.
func (h *CalculatorHandler) Inclusions(w http.ResponseWriter, r *http.Request) {
	defaults := calculator.DefaultInclusions()
	keys := calculator.AllInclusionKeys()
	out := make([]inclusionInfo, 0, len(keys))
	for _, k := range keys {
		out = append(out, inclusionInfo{
			Key:         k,
			DisplayName: calculator.DisplayName(k),
			Description: calculator.Description(k),
			Default:     defaults[k],
		})
	}
	writeJSON(w, http.StatusOK, map[string]any{"inclusions": out})
}

// States handles GET /api/states.
func (h *CalculatorHandler) States(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"states": calculator.States()})
}

// roleID accepts a role category id sent either as a number or as a numeric
// string. Empty strings and null decode to no id.
type roleID struct {
	id *int
}

func (r *roleID) UnmarshalJSON(b []byte) error {
	var n json.Number
	if err := json.Unmarshal(b, &n); err == nil {
		if n == "" {
			return nil
		}
		v, err := strconv.Atoi(string(n))
		if err != nil {
			return err
		}
		r.id = &v
		return nil
	}
	var s *string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(*s))
	if err != nil {
		return err
	}
	r.id = &v
	return nil
}

// estimateRequest is the calculator form shared by totals, ROI and lead capture.
type estimateRequest struct {
	State                string          `json:"state"`
	BaseMonthlySalary    float64         `json:"baseMonthlySalary"`
	FTECount             float64         `json:"fteCount"`
	SelectedRoleCategory roleID          `json:"selectedRoleCategory"`
	Inclusions           map[string]bool `json:"inclusions"`
}

var errUnknownInclusion = errors.New("unknown inclusion key")

func (req estimateRequest) input() (service.EstimateInput, error) {
	inc, err := parseInclusions(req.Inclusions)
	if err != nil {
		return service.EstimateInput{}, err
	}
	return service.EstimateInput{
		State:             req.State,
		BaseMonthlySalary: req.BaseMonthlySalary,
		FTECount:          req.FTECount,
		RoleCategoryID:    req.SelectedRoleCategory.id,
		Inclusions:        inc,
	}, nil
}

// parseInclusions converts wire keys. A nil map stays nil so the service
// applies the default selection.
func parseInclusions(in map[string]bool) (calculator.Inclusions, error) {
	if in == nil {
		return nil, nil
	}
	out := make(calculator.Inclusions, len(in))
	for k, v := range in {
		key, err := calculator.ParseInclusionKey(k)
		if err != nil {
			return nil, errUnknownInclusion
		}
		out[key] = v
	}
	return out, nil
}

// Totals handles POST /api/calculator/totals.
func (h *CalculatorHandler) Totals(w http.ResponseWriter, r *http.Request) {
	var req estimateRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_inclusion")
		return
	}

	est, err := h.estimates.Estimate(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "estimate_failed", "state", in.State)
		return
	}
	writeJSON(w, http.StatusOK, est)
}

// Calculate handles POST /api/calculate, the simple annual ROI calculator.
func (h *CalculatorHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req calculator.ROIInput
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.ProjectName) == "" {
		writeError(w, http.StatusBadRequest, "project_name_required")
		return
	}

	res, err := calculator.SimpleROI(req)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_roi_input")
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// projectRequest adds project economics to the calculator form.
type projectRequest struct {
	estimateRequest
	InitialInvestment float64   `json:"initialInvestment"`
	MonthlyRevenue    float64   `json:"monthlyRevenue"`
	MonthlyExpenses   float64   `json:"monthlyExpenses"`
	DurationMonths    float64   `json:"durationMonths"`
	RevenueVariations []float64 `json:"revenueVariations"`
	CostVariations    []float64 `json:"costVariations"`
	HourlyRate        float64   `json:"hourlyRate"`
	ScalingFactors    []float64 `json:"scalingFactors"`
}

// workforce runs the estimate for the embedded form and returns it as a
// calculator.Workforce. It writes the error response itself.
func (h *CalculatorHandler) workforce(w http.ResponseWriter, r *http.Request, req projectRequest) (calculator.Workforce, bool) {
	in, err := req.input()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_inclusion")
		return calculator.Workforce{}, false
	}
	est, err := h.estimates.Estimate(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "estimate_failed", "state", in.State)
		return calculator.Workforce{}, false
	}
	return calculator.Workforce{
		BaseMonthlySalary: in.BaseMonthlySalary,
		FTECount:          in.FTECount,
		Aggregates:        est.Aggregates,
		Inclusions:        est.Inclusions,
	}, true
}

// ROI handles POST /api/calculator/roi: project ROI with the workforce cost
// folded in, plus a revenue/cost sensitivity grid.
func (h *CalculatorHandler) ROI(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.DurationMonths < 1 {
		writeError(w, http.StatusBadRequest, "invalid_duration")
		return
	}
	if req.InitialInvestment < 0 || req.MonthlyRevenue < 0 || req.MonthlyExpenses < 0 {
		writeError(w, http.StatusBadRequest, "invalid_amount")
		return
	}

	wf, ok := h.workforce(w, r, req)
	if !ok {
		return
	}
	in := calculator.ProjectInput{
		InitialInvestment: req.InitialInvestment,
		MonthlyRevenue:    req.MonthlyRevenue,
		MonthlyExpenses:   req.MonthlyExpenses,
		DurationMonths:    req.DurationMonths,
		Workforce:         wf,
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"roi":         calculator.ProjectROI(in),
		"sensitivity": calculator.Sensitivity(in, req.RevenueVariations, req.CostVariations),
	})
}

// Comparison handles POST /api/calculator/comparison.
func (h *CalculatorHandler) Comparison(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if req.HourlyRate < 0 {
		writeError(w, http.StatusBadRequest, "invalid_hourly_rate")
		return
	}

	wf, ok := h.workforce(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, calculator.CompareOutsourcing(wf, req.HourlyRate))
}

// Scaling handles POST /api/calculator/scaling.
func (h *CalculatorHandler) Scaling(w http.ResponseWriter, r *http.Request) {
	var req projectRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	factors := req.ScalingFactors
	if len(factors) == 0 {
		factors = calculator.DefaultScalingFactors
	}
	for _, f := range factors {
		if f <= 0 {
			writeError(w, http.StatusBadRequest, "invalid_scaling_factor")
			return
		}
	}

	wf, ok := h.workforce(w, r, req)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"points": calculator.ScalingCosts(wf, factors)})
}
