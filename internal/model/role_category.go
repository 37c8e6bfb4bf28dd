package model

// RoleCategory is a job family offered by the provider, with its per-FTE monthly price.
type RoleCategory struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	MonthlyCost float64 `json:"monthlyCost"`
}

// RoleCategoryPatch holds fields that can be updated on a role category.
// A nil MonthlyCost keeps the stored value.
type RoleCategoryPatch struct {
	Name        string
	Description string
	MonthlyCost *float64
}

// DefaultRoleCategoryName is recorded on a lead when its role category cannot be resolved.
const DefaultRoleCategoryName = "Business Operations"
