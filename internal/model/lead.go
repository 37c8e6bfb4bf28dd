package model

import (
	"sort"
	"time"

	"github.com/inhousecost/backend/internal/calculator"
)

// BreakdownEntry is the denormalized label and selection state of one inclusion key.
type BreakdownEntry struct {
	Name        string `json:"name"`
	Included    bool   `json:"included"`
	DisplayName string `json:"displayName"`
}

// Lead is a calculator submission with a snapshot of the figures shown to the
// prospect. Only EmailSent and EmailSentAt change after creation.
type Lead struct {
	ID                      string                                     `json:"id"`
	CompanyName             string                                     `json:"companyName"`
	Email                   string                                     `json:"email"`
	State                   string                                     `json:"state"`
	BaseSalary              float64                                    `json:"baseSalary"`
	FTECount                float64                                    `json:"fteCount"`
	RoleCategoryID          *int                                       `json:"roleCategoryKey"`
	RoleCategoryName        string                                     `json:"roleCategoryName"`
	TotalEmployerLoad       float64                                    `json:"totalEmployerLoad"`
	EmployerExtras          float64                                    `json:"employerExtras"`
	InHouseTotalCost        float64                                    `json:"inHouseTotalCost"`
	LSGCost                 float64                                    `json:"lsgCost"`
	AnnualSavingsPercentage float64                                    `json:"annualSavingsPercentage"`
	Inclusions              calculator.Inclusions                      `json:"inclusions"`
	CostBreakdown           map[calculator.InclusionKey]BreakdownEntry `json:"costBreakdown"`
	CreatedAt               time.Time                                  `json:"createdAt"`
	EmailSent               bool                                       `json:"emailSent"`
	EmailSentAt             *time.Time                                 `json:"emailSentAt"`
}

// NewCostBreakdown records the display name and selection of every inclusion key.
func NewCostBreakdown(inc calculator.Inclusions) map[calculator.InclusionKey]BreakdownEntry {
	out := make(map[calculator.InclusionKey]BreakdownEntry)
	for _, k := range calculator.AllInclusionKeys() {
		name := calculator.DisplayName(k)
		out[k] = BreakdownEntry{Name: name, Included: inc[k], DisplayName: name}
	}
	return out
}

// LeadUser groups leads that share an email address for the admin user list.
type LeadUser struct {
	ID              string    `json:"id"`
	CompanyName     string    `json:"companyName"`
	Email           string    `json:"email"`
	CreatedAt       time.Time `json:"createdAt"`
	AssessmentCount int       `json:"assessmentCount"`
}

// GroupLeadsByEmail collapses leads (newest first) into one LeadUser per email.
// The newest lead supplies the id and company name. The result is ordered by
// most recent submission.
func GroupLeadsByEmail(leads []*Lead) []*LeadUser {
	byEmail := make(map[string]*LeadUser)
	var order []*LeadUser
	for _, l := range leads {
		u, ok := byEmail[l.Email]
		if !ok {
			u = &LeadUser{ID: l.ID, CompanyName: l.CompanyName, Email: l.Email, CreatedAt: l.CreatedAt}
			byEmail[l.Email] = u
			order = append(order, u)
		}
		u.AssessmentCount++
		if l.CreatedAt.After(u.CreatedAt) {
			u.CreatedAt = l.CreatedAt
		}
	}
	sort.SliceStable(order, func(i, j int) bool {
		return order[i].CreatedAt.After(order[j].CreatedAt)
	})
	return order
}
