package model

import (
	"time"

	"github.com/inhousecost/backend/internal/calculator"
)

// CostRate is one employer-cost line item for a state, expressed as a
// percentage of wage.
type CostRate struct {
	ID              string    `json:"id"`
	State           string    `json:"state"`
	Category        string    `json:"category"`
	Item            string    `json:"item"`
	RatePercent     float64   `json:"ratePercent"`
	EmployerCostUSD float64   `json:"employerCostUSD"`
	Notes           *string   `json:"notes"`
	Source          *string   `json:"source"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CostRateInput carries the writable fields of a CostRate, as submitted by an
// admin form or a spreadsheet row.
type CostRateInput struct {
	State           string
	Category        string
	Item            string
	RatePercent     float64
	EmployerCostUSD float64
	Notes           *string
	Source          *string
}

// CategoryRates projects rows onto the fields the aggregator reads.
func CategoryRates(rates []*CostRate) []calculator.CategoryRate {
	out := make([]calculator.CategoryRate, 0, len(rates))
	for _, r := range rates {
		out = append(out, calculator.CategoryRate{Category: r.Category, RatePercent: r.RatePercent})
	}
	return out
}

// UpsertSummary reports the outcome of a bulk upsert. Errors holds one
// message per row that could not be written.
type UpsertSummary struct {
	TotalRows int      `json:"totalRows"`
	Created   int      `json:"created"`
	Updated   int      `json:"updated"`
	Errors    []string `json:"-"`
}
