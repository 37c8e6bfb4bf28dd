package calculator

import (
	"encoding/json"
	"math"
	"reflect"
	"testing"
)

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func allFalse() Inclusions {
	inc := Inclusions{}
	for _, k := range AllInclusionKeys() {
		inc[k] = false
	}
	return inc
}

// ---------------------------------------------------------------------------
// CategoriesFor
// ---------------------------------------------------------------------------

func TestCategoriesFor_PayrollTaxesUsesState(t *testing.T) {
	got := CategoriesFor(PayrollTaxes, "Arizona")
	want := []string{"Federal Tax", "Arizona Tax"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestCategoriesFor_StateIndependentKeys(t *testing.T) {
	for _, k := range AllInclusionKeys() {
		if k == PayrollTaxes {
			continue
		}
		a := CategoriesFor(k, "Arizona")
		b := CategoriesFor(k, "Texas")
		if !reflect.DeepEqual(a, b) {
			t.Errorf("%s: categories should not depend on state: %v vs %v", k, a, b)
		}
		if len(a) == 0 {
			t.Errorf("%s: expected at least one category", k)
		}
	}
}

func TestCategoriesFor_CustomaryBenefits(t *testing.T) {
	got := CategoriesFor(CustomaryBenefits, "Ohio")
	if len(got) != 5 || got[0] != "Healthcare" || got[4] != "Other Benefits" {
		t.Errorf("unexpected benefits categories: %v", got)
	}
}

func TestParseInclusionKey(t *testing.T) {
	k, err := ParseInclusionKey("realEstate")
	if err != nil || k != RealEstate {
		t.Errorf("expected realEstate, got %q (%v)", k, err)
	}
	if _, err := ParseInclusionKey("snacks"); err == nil {
		t.Error("expected error for unknown key")
	}
}

func TestDefaultInclusions(t *testing.T) {
	got := DefaultInclusions().Selected()
	want := []InclusionKey{PayrollTaxes, CustomaryBenefits, AdministrativeOverhead}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

// ---------------------------------------------------------------------------
// Aggregate
// ---------------------------------------------------------------------------

func sampleRows() []CategoryRate {
	return []CategoryRate{
		{Category: "Federal Tax", RatePercent: 6.2},
		{Category: "Federal Tax", RatePercent: 1.45},
		{Category: "Arizona Tax", RatePercent: 2.0},
		{Category: "Texas Tax", RatePercent: 9.0},
		{Category: "Healthcare", RatePercent: 12},
		{Category: "Retirement", RatePercent: 4},
		{Category: "Administrative", RatePercent: 5},
		{Category: "Real Estate & Infrastructure", RatePercent: 3.5},
		{Category: "Uncategorised", RatePercent: 50},
	}
}

func TestAggregate_SumsByKey(t *testing.T) {
	agg := Aggregate("Arizona", sampleRows())

	cases := map[InclusionKey]float64{
		PayrollTaxes:           9.65,
		CustomaryBenefits:      16,
		AdministrativeOverhead: 5,
		ITInfrastructure:       0,
		RealEstate:             3.5,
		WorkforceManagement:    0,
	}
	for k, want := range cases {
		if !approx(agg[k], want) {
			t.Errorf("%s: expected %v, got %v", k, want, agg[k])
		}
	}
}

func TestAggregate_CollidingLabelsCountRowOnce(t *testing.T) {
	// "{state} Tax" equals "Federal Tax" when the state is named Federal.
	rows := []CategoryRate{{Category: "Federal Tax", RatePercent: 6.2}}
	if got := Aggregate("Federal", rows)[PayrollTaxes]; !approx(got, 6.2) {
		t.Errorf("expected 6.2, got %v", got)
	}
}

func TestAggregate_AllKeysPresentForEmptyInput(t *testing.T) {
	agg := Aggregate("Arizona", nil)
	if len(agg) != 6 {
		t.Fatalf("expected 6 keys, got %d", len(agg))
	}
	for k, v := range agg {
		if v != 0 {
			t.Errorf("%s: expected 0, got %v", k, v)
		}
	}
}

func TestAggregate_DuplicatesAreAdditive(t *testing.T) {
	rows := []CategoryRate{
		{Category: "Administrative", RatePercent: 2},
		{Category: "Administrative", RatePercent: 2},
	}
	if got := Aggregate("Ohio", rows)[AdministrativeOverhead]; got != 4 {
		t.Errorf("expected 4, got %v", got)
	}
}

func TestAggregate_Idempotent(t *testing.T) {
	rows := sampleRows()
	a := Aggregate("Arizona", rows)
	b := Aggregate("Arizona", rows)
	if !reflect.DeepEqual(a, b) {
		t.Errorf("expected identical results, got %v and %v", a, b)
	}
}

func TestAggregate_OtherStateTaxIgnored(t *testing.T) {
	agg := Aggregate("Texas", []CategoryRate{{Category: "Arizona Tax", RatePercent: 3}})
	if agg[PayrollTaxes] != 0 {
		t.Errorf("expected Arizona Tax to be ignored for Texas, got %v", agg[PayrollTaxes])
	}
}

// ---------------------------------------------------------------------------
// ComputeTotals
// ---------------------------------------------------------------------------

func exampleAggregates() Aggregates {
	return Aggregates{
		PayrollTaxes:           7.65,
		CustomaryBenefits:      20,
		AdministrativeOverhead: 5,
		ITInfrastructure:       0,
		RealEstate:             0,
		WorkforceManagement:    0,
	}
}

func TestComputeTotals_Example(t *testing.T) {
	got := ComputeTotals(5000, 10, exampleAggregates(), DefaultInclusions())

	if !approx(got.TotalEmployerLoadPct, 32.65) {
		t.Errorf("pct: expected 32.65, got %v", got.TotalEmployerLoadPct)
	}
	if !approx(got.EmployerExtrasMonthlyAllFTEs, 16325) {
		t.Errorf("extras: expected 16325, got %v", got.EmployerExtrasMonthlyAllFTEs)
	}
	if !approx(got.InHouseMonthlyAllFTEs, 66325) {
		t.Errorf("in-house: expected 66325, got %v", got.InHouseMonthlyAllFTEs)
	}
}

func TestComputeTotals_NothingIncluded(t *testing.T) {
	for _, tc := range []struct {
		salary, fte float64
	}{
		{5000, 10},
		{123456.78, 3.5},
		{0, 0},
	} {
		got := ComputeTotals(tc.salary, tc.fte, exampleAggregates(), allFalse())
		if got.TotalEmployerLoadPct != 0 || got.EmployerExtrasMonthlyAllFTEs != 0 {
			t.Errorf("salary=%v fte=%v: expected zero load, got %+v", tc.salary, tc.fte, got)
		}
		if !approx(got.InHouseMonthlyAllFTEs, tc.salary*tc.fte) {
			t.Errorf("salary=%v fte=%v: in-house should be salary*fte, got %v", tc.salary, tc.fte, got.InHouseMonthlyAllFTEs)
		}
	}
}

func TestComputeTotals_ZeroFTE(t *testing.T) {
	got := ComputeTotals(5000, 0, exampleAggregates(), DefaultInclusions())
	if got.EmployerExtrasMonthlyAllFTEs != 0 || got.InHouseMonthlyAllFTEs != 0 {
		t.Errorf("expected zero dollar outputs, got %+v", got)
	}
}

func TestComputeTotals_PercentIsSumOfSelected(t *testing.T) {
	agg := Aggregates{
		PayrollTaxes:           1,
		CustomaryBenefits:      2,
		AdministrativeOverhead: 4,
		ITInfrastructure:       8,
		RealEstate:             16,
		WorkforceManagement:    32,
	}
	// Every subset of the six keys, encoded as a bitmask matching the weights above.
	keys := AllInclusionKeys()
	for mask := 0; mask < 1<<len(keys); mask++ {
		inc := Inclusions{}
		for i, k := range keys {
			inc[k] = mask&(1<<i) != 0
		}
		got := ComputeTotals(1000, 1, agg, inc).TotalEmployerLoadPct
		if got != float64(mask) {
			t.Errorf("mask %06b: expected %d, got %v", mask, mask, got)
		}
	}
}

func TestComputeTotals_MissingKeysCountAsExcluded(t *testing.T) {
	got := ComputeTotals(1000, 1, exampleAggregates(), Inclusions{PayrollTaxes: true})
	if !approx(got.TotalEmployerLoadPct, 7.65) {
		t.Errorf("expected 7.65, got %v", got.TotalEmployerLoadPct)
	}
}

func TestCalculateTotalCost_MatchesExtras(t *testing.T) {
	got := CalculateTotalCost(5000, 10, exampleAggregates(), DefaultInclusions())
	if !approx(got, 16325) {
		t.Errorf("expected 16325, got %v", got)
	}
}

// ---------------------------------------------------------------------------
// Savings
// ---------------------------------------------------------------------------

func TestSavings_UsesRoleMonthlyCost(t *testing.T) {
	got := Savings(66325, 5000, 10, 4000)
	if got.ProviderMonthlyCost != 40000 {
		t.Errorf("expected provider cost 40000, got %v", got.ProviderMonthlyCost)
	}
	if !approx(got.MonthlySavings, 26325) || !approx(got.AnnualSavings, 315900) {
		t.Errorf("unexpected savings: %+v", got)
	}
	if !approx(got.SavingsPercentage, 26325.0/66325.0*100) {
		t.Errorf("unexpected percentage: %v", got.SavingsPercentage)
	}
}

func TestSavings_FallsBackToSalaryRatio(t *testing.T) {
	got := Savings(66325, 5000, 10, 0)
	if !approx(got.ProviderMonthlyCost, 30000) {
		t.Errorf("expected 30000, got %v", got.ProviderMonthlyCost)
	}
}

func TestSavings_ZeroInHouse(t *testing.T) {
	got := Savings(0, 0, 0, 0)
	if got.SavingsPercentage != 0 {
		t.Errorf("expected 0%%, got %v", got.SavingsPercentage)
	}
}

// ---------------------------------------------------------------------------
// ROI
// ---------------------------------------------------------------------------

func TestSimpleROI(t *testing.T) {
	got, err := SimpleROI(ROIInput{
		InitialInvestment: 10000,
		AnnualRevenue:     8000,
		AnnualExpenses:    3000,
		ProjectDuration:   3,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.NetProfit != 5000 || got.ROIPercentage != 50 {
		t.Errorf("unexpected result: %+v", got)
	}
	if got.PaybackPeriod.Never || got.PaybackPeriod.Periods != 2 {
		t.Errorf("expected payback 2, got %+v", got.PaybackPeriod)
	}
}

func TestSimpleROI_RejectsInvalidInput(t *testing.T) {
	for _, in := range []ROIInput{
		{InitialInvestment: -1, ProjectDuration: 1},
		{AnnualRevenue: -1, ProjectDuration: 1},
		{ProjectDuration: 0.5},
	} {
		if _, err := SimpleROI(in); err != ErrInvalidROIInput {
			t.Errorf("%+v: expected ErrInvalidROIInput, got %v", in, err)
		}
	}
}

func TestPayback_MarshalJSON(t *testing.T) {
	b, _ := json.Marshal(Payback{Never: true})
	if string(b) != `"Never"` {
		t.Errorf("expected \"Never\", got %s", b)
	}
	b, _ = json.Marshal(Payback{Periods: 1.5})
	if string(b) != "1.5" {
		t.Errorf("expected 1.5, got %s", b)
	}
}

func sampleWorkforce() Workforce {
	return Workforce{
		BaseMonthlySalary: 5000,
		FTECount:          10,
		Aggregates:        exampleAggregates(),
		Inclusions:        DefaultInclusions(),
	}
}

func TestProjectROI_IncludesWorkforce(t *testing.T) {
	got := ProjectROI(ProjectInput{
		InitialInvestment: 100000,
		MonthlyRevenue:    100000,
		MonthlyExpenses:   10000,
		DurationMonths:    12,
		Workforce:         sampleWorkforce(),
	})
	// costs = (10000 + 66325) * 12 = 915900; revenue = 1200000
	if got.TotalProjectCosts != 915900 {
		t.Errorf("expected costs 915900, got %v", got.TotalProjectCosts)
	}
	if got.NetProfit != 184100 {
		t.Errorf("expected net 184100, got %v", got.NetProfit)
	}
	if got.PaybackPeriod.Never {
		t.Error("expected reachable payback")
	}
}

func TestCompareOutsourcing(t *testing.T) {
	got := CompareOutsourcing(sampleWorkforce(), 30)
	if got.OutsourcingMonthly != 48000 {
		t.Errorf("expected 48000, got %v", got.OutsourcingMonthly)
	}
	if !got.IsOutsourcingCheaper {
		t.Error("expected outsourcing to be cheaper")
	}
	if !approx(got.BreakEvenRate, 66325.0/1600.0) {
		t.Errorf("unexpected break-even rate %v", got.BreakEvenRate)
	}
}

func TestScalingCosts(t *testing.T) {
	got := ScalingCosts(sampleWorkforce(), []float64{1, 2})
	if len(got) != 2 {
		t.Fatalf("expected 2 points, got %d", len(got))
	}
	if got[1].FTECount != 20 || !approx(got[1].TotalMonthlyCost, 132650) {
		t.Errorf("unexpected point: %+v", got[1])
	}
	if !approx(got[0].CostPerFTE, got[1].CostPerFTE) {
		t.Errorf("cost per FTE should not change with scale: %v vs %v", got[0].CostPerFTE, got[1].CostPerFTE)
	}
}

func TestSensitivity_DefaultGrid(t *testing.T) {
	got := Sensitivity(ProjectInput{
		InitialInvestment: 1000,
		MonthlyRevenue:    100000,
		MonthlyExpenses:   1000,
		DurationMonths:    12,
		Workforce:         sampleWorkforce(),
	}, nil, nil)
	if len(got) != 25 {
		t.Fatalf("expected 25 points, got %d", len(got))
	}
	if got[0].RevenueVariation != -20 || got[24].CostVariation != 20 {
		t.Errorf("unexpected grid ordering: first=%+v last=%+v", got[0], got[24])
	}
}

func TestStateFullName(t *testing.T) {
	if got := StateFullName("AZ"); got != "Arizona" {
		t.Errorf("expected Arizona, got %q", got)
	}
	if got := StateFullName("Arizona"); got != "Arizona" {
		t.Errorf("full names should pass through, got %q", got)
	}
	if n := len(States()); n != 51 {
		t.Errorf("expected 51 states, got %d", n)
	}
}
