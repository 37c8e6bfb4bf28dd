// Package calculator holds the pure cost computations behind the employer-cost
// calculator: the inclusion-key category map, per-state aggregation of cost
// rates, monthly totals, savings, and ROI projections.
//
// Nothing in this package performs I/O. All functions are safe for concurrent use.
package calculator

import "fmt"

// InclusionKey is one of the six cost groups a user can toggle on or off.
type InclusionKey string

const (
	PayrollTaxes           InclusionKey = "payrollTaxes"
	CustomaryBenefits      InclusionKey = "customaryBenefits"
	AdministrativeOverhead InclusionKey = "administrativeOverhead"
	ITInfrastructure       InclusionKey = "itInfrastructure"
	RealEstate             InclusionKey = "realEstate"
	WorkforceManagement    InclusionKey = "workforceManagement"
)

var allInclusionKeys = [...]InclusionKey{
	PayrollTaxes,
	CustomaryBenefits,
	AdministrativeOverhead,
	ITInfrastructure,
	RealEstate,
	WorkforceManagement,
}

// AllInclusionKeys returns the six inclusion keys in display order.
func AllInclusionKeys() []InclusionKey {
	keys := make([]InclusionKey, len(allInclusionKeys))
	copy(keys, allInclusionKeys[:])
	return keys
}

// ParseInclusionKey converts a wire value into an InclusionKey.
func ParseInclusionKey(s string) (InclusionKey, error) {
	for _, k := range allInclusionKeys {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("unknown inclusion key %q", s)
}

// Inclusions records which cost groups are selected. Missing keys count as false.
type Inclusions map[InclusionKey]bool

// DefaultInclusions returns the selection shown when the calculator first loads.
func DefaultInclusions() Inclusions {
	return Inclusions{
		PayrollTaxes:           true,
		CustomaryBenefits:      true,
		AdministrativeOverhead: true,
		ITInfrastructure:       false,
		RealEstate:             false,
		WorkforceManagement:    false,
	}
}

// Selected returns the included keys in display order.
func (inc Inclusions) Selected() []InclusionKey {
	var out []InclusionKey
	for _, k := range allInclusionKeys {
		if inc[k] {
			out = append(out, k)
		}
	}
	return out
}

// CategoriesFor returns the cost-rate category labels that roll up into key.
// Payroll taxes are the only state-dependent group ("{state} Tax").
func CategoriesFor(key InclusionKey, state string) []string {
	switch key {
	case PayrollTaxes:
		return []string{"Federal Tax", state + " Tax"}
	case CustomaryBenefits:
		return []string{
			"Healthcare",
			"Retirement",
			"Paid Time Off",
			"Insurance & Protection",
			"Other Benefits",
		}
	case AdministrativeOverhead:
		return []string{"Administrative"}
	case ITInfrastructure:
		return []string{
			"IT Infrastructure",
			"Telecom & Connectivity",
			"Equipment & Supplies",
		}
	case RealEstate:
		return []string{"Real Estate & Infrastructure"}
	case WorkforceManagement:
		return []string{"Workforce Management"}
	}
	panic(fmt.Sprintf("calculator: unhandled inclusion key %q", key))
}

// DisplayName returns the human-readable label for key.
func DisplayName(key InclusionKey) string {
	switch key {
	case PayrollTaxes:
		return "Payroll Taxes"
	case CustomaryBenefits:
		return "Customary Benefits"
	case AdministrativeOverhead:
		return "Administrative Overhead"
	case ITInfrastructure:
		return "IT Infrastructure & Equipment"
	case RealEstate:
		return "Real Estate & Facilities"
	case WorkforceManagement:
		return "Workforce Management"
	}
	return string(key)
}

// Description summarizes what a cost group covers.
func Description(key InclusionKey) string {
	switch key {
	case PayrollTaxes:
		return "Federal and state taxes including Social Security, Medicare, FUTA, and SUTA"
	case CustomaryBenefits:
		return "Healthcare, retirement plans, paid time off, insurance, and other employee benefits"
	case AdministrativeOverhead:
		return "Recruitment, payroll processing, severance, legal compliance, and administrative costs"
	case ITInfrastructure:
		return "Computers, monitors, software licenses, and telecommunications"
	case RealEstate:
		return "Office space, utilities, cleaning, security, and facility maintenance"
	case WorkforceManagement:
		return "Training, quality assurance, workforce management tools, and supervisory costs"
	}
	return ""
}
