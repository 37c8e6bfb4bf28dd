package calculator

import (
	"encoding/json"
	"errors"
	"math"
)

// HoursPerFTEMonth is the billable hours assumed per FTE per month when
// comparing against an hourly outsourcing rate.
const HoursPerFTEMonth = 160

// ErrInvalidROIInput is returned by SimpleROI for negative amounts or a
// duration shorter than one year.
var ErrInvalidROIInput = errors.New("all values must be positive and project duration must be at least 1 year")

// Payback is a payback period that may never be reached.
type Payback struct {
	Periods float64
	Never   bool
}

// MarshalJSON encodes an unreachable payback as the string "Never".
func (p Payback) MarshalJSON() ([]byte, error) {
	if p.Never {
		return json.Marshal("Never")
	}
	return json.Marshal(p.Periods)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func payback(investment, netCashFlow float64) Payback {
	if netCashFlow > 0 {
		return Payback{Periods: round2(investment / netCashFlow)}
	}
	return Payback{Never: true}
}

// ROIInput describes a simple annual project.
type ROIInput struct {
	ProjectName       string  `json:"project_name"`
	InitialInvestment float64 `json:"initial_investment"`
	AnnualRevenue     float64 `json:"annual_revenue"`
	AnnualExpenses    float64 `json:"annual_expenses"`
	ProjectDuration   float64 `json:"project_duration"`
}

// ROIResult is the outcome of SimpleROI, rounded to cents.
type ROIResult struct {
	ROIPercentage float64 `json:"roi_percentage"`
	TotalRevenue  float64 `json:"total_revenue"`
	TotalExpenses float64 `json:"total_expenses"`
	NetProfit     float64 `json:"net_profit"`
	PaybackPeriod Payback `json:"payback_period"`
}

// SimpleROI computes return on investment over ProjectDuration years.
func SimpleROI(in ROIInput) (ROIResult, error) {
	if in.InitialInvestment < 0 || in.AnnualRevenue < 0 || in.AnnualExpenses < 0 || in.ProjectDuration < 1 {
		return ROIResult{}, ErrInvalidROIInput
	}

	revenue := in.AnnualRevenue * in.ProjectDuration
	expenses := in.AnnualExpenses * in.ProjectDuration
	net := revenue - expenses - in.InitialInvestment

	var roi float64
	if in.InitialInvestment > 0 {
		roi = net / in.InitialInvestment * 100
	}

	return ROIResult{
		ROIPercentage: round2(roi),
		TotalRevenue:  round2(revenue),
		TotalExpenses: round2(expenses),
		NetProfit:     round2(net),
		PaybackPeriod: payback(in.InitialInvestment, in.AnnualRevenue-in.AnnualExpenses),
	}, nil
}

// Workforce is the salary side of a projection.
type Workforce struct {
	BaseMonthlySalary float64
	FTECount          float64
	Aggregates        Aggregates
	Inclusions        Inclusions
}

func (w Workforce) totals() Totals {
	return ComputeTotals(w.BaseMonthlySalary, w.FTECount, w.Aggregates, w.Inclusions)
}

// ProjectInput describes a monthly project staffed by Workforce.
type ProjectInput struct {
	InitialInvestment float64
	MonthlyRevenue    float64
	MonthlyExpenses   float64
	DurationMonths    float64
	Workforce         Workforce
}

// ProjectROIResult is the outcome of ProjectROI.
type ProjectROIResult struct {
	ROIPercentage          float64 `json:"roiPercentage"`
	NetProfit              float64 `json:"netProfit"`
	TotalRevenue           float64 `json:"totalRevenue"`
	TotalProjectCosts      float64 `json:"totalProjectCosts"`
	PaybackPeriod          Payback `json:"paybackPeriod"`
	MonthlyEmployeeCosts   float64 `json:"monthlyEmployeeCosts"`
	TotalEmployeeCosts     float64 `json:"totalEmployeeCosts"`
	EmployerLoadPercentage float64 `json:"employerLoadPercentage"`
	InitialInvestment      float64 `json:"initialInvestment"`
	DurationMonths         float64 `json:"durationMonths"`
	FTECount               float64 `json:"fteCount"`
}

// ProjectROI folds the in-house workforce cost into a project's monthly expenses.
func ProjectROI(in ProjectInput) ProjectROIResult {
	t := in.Workforce.totals()

	costs := (in.MonthlyExpenses + t.InHouseMonthlyAllFTEs) * in.DurationMonths
	revenue := in.MonthlyRevenue * in.DurationMonths
	net := revenue - costs - in.InitialInvestment

	var roi float64
	if in.InitialInvestment > 0 {
		roi = net / in.InitialInvestment * 100
	}
	monthlyNet := in.MonthlyRevenue - in.MonthlyExpenses - t.InHouseMonthlyAllFTEs

	return ProjectROIResult{
		ROIPercentage:          round2(roi),
		NetProfit:              round2(net),
		TotalRevenue:           round2(revenue),
		TotalProjectCosts:      round2(costs),
		PaybackPeriod:          payback(in.InitialInvestment, monthlyNet),
		MonthlyEmployeeCosts:   t.InHouseMonthlyAllFTEs,
		TotalEmployeeCosts:     t.InHouseMonthlyAllFTEs * in.DurationMonths,
		EmployerLoadPercentage: t.TotalEmployerLoadPct,
		InitialInvestment:      in.InitialInvestment,
		DurationMonths:         in.DurationMonths,
		FTECount:               in.Workforce.FTECount,
	}
}

// Comparison contrasts in-house cost with an hourly outsourcing rate.
type Comparison struct {
	InHouseMonthly       float64 `json:"inHouseMonthly"`
	OutsourcingMonthly   float64 `json:"outsourcingMonthly"`
	MonthlyDifference    float64 `json:"monthlyDifference"`
	AnnualDifference     float64 `json:"annualDifference"`
	BreakEvenRate        float64 `json:"breakEvenRate"`
	IsOutsourcingCheaper bool    `json:"isOutsourcingCheaper"`
	SavingsPercentage    float64 `json:"savingsPercentage"`
}

// CompareOutsourcing prices the workforce at hourlyRate for HoursPerFTEMonth
// hours per FTE and compares it with the in-house monthly cost.
func CompareOutsourcing(w Workforce, hourlyRate float64) Comparison {
	inHouse := w.totals().InHouseMonthlyAllFTEs
	hours := HoursPerFTEMonth * w.FTECount
	outsourcing := hourlyRate * hours
	diff := inHouse - outsourcing

	c := Comparison{
		InHouseMonthly:       inHouse,
		OutsourcingMonthly:   outsourcing,
		MonthlyDifference:    diff,
		AnnualDifference:     diff * 12,
		IsOutsourcingCheaper: diff > 0,
	}
	if hours > 0 {
		c.BreakEvenRate = inHouse / hours
	}
	if inHouse > 0 {
		c.SavingsPercentage = diff / inHouse * 100
	}
	return c
}

// ScalingPoint is the workforce cost at one team size.
type ScalingPoint struct {
	FTECount               float64 `json:"fteCount"`
	TotalMonthlyCost       float64 `json:"totalMonthlyCost"`
	CostPerFTE             float64 `json:"costPerFTE"`
	EmployerLoadAmount     float64 `json:"employerLoadAmount"`
	EmployerLoadPercentage float64 `json:"employerLoadPercentage"`
}

// DefaultScalingFactors are the team-size multiples used when none are supplied.
var DefaultScalingFactors = []float64{1, 1.5, 2, 3, 5, 10}

// ScalingCosts evaluates the workforce at each multiple of its FTE count.
func ScalingCosts(w Workforce, factors []float64) []ScalingPoint {
	points := make([]ScalingPoint, 0, len(factors))
	for _, f := range factors {
		scaled := w
		scaled.FTECount = w.FTECount * f
		t := scaled.totals()

		p := ScalingPoint{
			FTECount:               round2(scaled.FTECount),
			TotalMonthlyCost:       t.InHouseMonthlyAllFTEs,
			EmployerLoadAmount:     t.EmployerExtrasMonthlyAllFTEs,
			EmployerLoadPercentage: t.TotalEmployerLoadPct,
		}
		if scaled.FTECount != 0 {
			p.CostPerFTE = t.InHouseMonthlyAllFTEs / scaled.FTECount
		}
		points = append(points, p)
	}
	return points
}

// DefaultVariations are the percentage swings used when none are supplied.
var DefaultVariations = []float64{-20, -10, 0, 10, 20}

// SensitivityPoint is the ROI for one revenue/cost variation pair.
type SensitivityPoint struct {
	RevenueVariation float64 `json:"revenueVariation"`
	CostVariation    float64 `json:"costVariation"`
	ROI              float64 `json:"roi"`
	NetProfit        float64 `json:"netProfit"`
}

// Sensitivity reruns ProjectROI across every combination of revenue and
// expense variations, expressed in percent.
func Sensitivity(in ProjectInput, revenueVariations, costVariations []float64) []SensitivityPoint {
	if len(revenueVariations) == 0 {
		revenueVariations = DefaultVariations
	}
	if len(costVariations) == 0 {
		costVariations = DefaultVariations
	}

	out := make([]SensitivityPoint, 0, len(revenueVariations)*len(costVariations))
	for _, rv := range revenueVariations {
		for _, cv := range costVariations {
			adj := in
			adj.MonthlyRevenue = in.MonthlyRevenue * (1 + rv/100)
			adj.MonthlyExpenses = in.MonthlyExpenses * (1 + cv/100)
			r := ProjectROI(adj)
			out = append(out, SensitivityPoint{
				RevenueVariation: rv,
				CostVariation:    cv,
				ROI:              r.ROIPercentage,
				NetProfit:        r.NetProfit,
			})
		}
	}
	return out
}
