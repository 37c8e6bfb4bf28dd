package spreadsheet

import (
	"io"
	"strings"

	"github.com/inhousecost/backend/internal/calculator"
	"github.com/inhousecost/backend/internal/model"
)

// LeadExportHeaders are the assessment export columns.
func LeadExportHeaders() []string {
	return []string{"Company Name", "Email", "Submission Date", "Base Salary", "FTE Count", "Total Employer Load", "LSG Cost", "Inclusions"}
}

const submissionDateLayout = "2006-01-02 15:04:05"

// WriteLeads exports leads in the order given.
func WriteLeads(w io.Writer, format Format, leads []*model.Lead) error {
	rows := make([][]any, 0, len(leads))
	for _, l := range leads {
		var selected []string
		for _, k := range calculator.AllInclusionKeys() {
			if l.Inclusions[k] {
				selected = append(selected, string(k))
			}
		}
		row := []any{
			l.CompanyName,
			l.Email,
			l.CreatedAt.UTC().Format(submissionDateLayout),
			l.BaseSalary,
			l.FTECount,
			l.TotalEmployerLoad,
			l.LSGCost,
			strings.Join(selected, "; "),
		}
		rows = append(rows, row)
	}
	return writeTable(w, format, "Assessments", LeadExportHeaders(), rows)
}
