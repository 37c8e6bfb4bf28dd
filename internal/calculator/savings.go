package calculator

// DefaultProviderRatio is the share of base salary used to estimate the
// provider cost when a role category has no monthly cost configured.
const DefaultProviderRatio = 0.6

// SavingsEstimate compares the in-house cost against the provider cost.
type SavingsEstimate struct {
	ProviderMonthlyCost float64 `json:"providerMonthlyCost"`
	MonthlySavings      float64 `json:"monthlySavings"`
	AnnualSavings       float64 `json:"annualSavings"`
	SavingsPercentage   float64 `json:"savingsPercentage"`
}

// Savings estimates what moving fteCount roles to the provider saves each month.
// roleMonthlyCost is the provider's per-FTE price; zero or less falls back to
// DefaultProviderRatio of the base salary.
func Savings(inHouseMonthly, baseMonthlySalary, fteCount, roleMonthlyCost float64) SavingsEstimate {
	provider := baseMonthlySalary * DefaultProviderRatio * fteCount
	if roleMonthlyCost > 0 {
		provider = roleMonthlyCost * fteCount
	}

	monthly := inHouseMonthly - provider
	var pct float64
	if inHouseMonthly > 0 {
		pct = monthly / inHouseMonthly * 100
	}

	return SavingsEstimate{
		ProviderMonthlyCost: provider,
		MonthlySavings:      monthly,
		AnnualSavings:       monthly * 12,
		SavingsPercentage:   pct,
	}
}
