package calculator

// Totals is the monthly employer-cost rollup for all FTEs.
type Totals struct {
	TotalEmployerLoadPct         float64 `json:"totalEmployerLoadPct"`
	EmployerExtrasMonthlyAllFTEs float64 `json:"employerExtrasMonthlyAllFTEs"`
	InHouseMonthlyAllFTEs        float64 `json:"inHouseMonthlyAllFTEs"`
}

// SelectedPercent sums the aggregate percentages of the included keys.
func SelectedPercent(agg Aggregates, inc Inclusions) float64 {
	var pct float64
	for _, key := range allInclusionKeys {
		if inc[key] {
			pct += agg[key]
		}
	}
	return pct
}

// ComputeTotals derives the employer load and monthly costs for fteCount
// employees at baseMonthlySalary. Values are not rounded. Inputs are not
// validated here; negative salary or FTE counts must be rejected upstream.
func ComputeTotals(baseMonthlySalary, fteCount float64, agg Aggregates, inc Inclusions) Totals {
	pct := SelectedPercent(agg, inc)
	rate := pct / 100

	return Totals{
		TotalEmployerLoadPct:         pct,
		EmployerExtrasMonthlyAllFTEs: baseMonthlySalary * rate * fteCount,
		InHouseMonthlyAllFTEs:        (baseMonthlySalary + baseMonthlySalary*rate) * fteCount,
	}
}

// CalculateTotalCost returns only the employer extras for all FTEs.
func CalculateTotalCost(baseSalary, fteCount float64, agg Aggregates, inc Inclusions) float64 {
	return (baseSalary * SelectedPercent(agg, inc) / 100) * fteCount
}
