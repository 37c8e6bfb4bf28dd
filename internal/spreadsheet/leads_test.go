package spreadsheet

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/inhousecost/backend/internal/calculator"
	"github.com/inhousecost/backend/internal/model"
)

func sampleLeads() []*model.Lead {
	return []*model.Lead{{
		CompanyName:       "Acme, Inc.",
		Email:             "ops@acme.com",
		CreatedAt:         time.Date(2026, 3, 4, 15, 4, 5, 0, time.UTC),
		BaseSalary:        5000,
		FTECount:          2.5,
		TotalEmployerLoad: 32.65,
		LSGCost:           7500,
		Inclusions: calculator.Inclusions{
			calculator.AdministrativeOverhead: true,
			calculator.PayrollTaxes:           true,
			calculator.RealEstate:             false,
		},
	}}
}

func TestWriteLeads_CSV(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLeads(&buf, FormatCSV, sampleLeads()); err != nil {
		t.Fatalf("WriteLeads: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("records = %d", len(records))
	}
	want := []string{"Acme, Inc.", "ops@acme.com", "2026-03-04 15:04:05", "5000", "2.5", "32.65", "7500", "payrollTaxes; administrativeOverhead"}
	for i, w := range want {
		if records[1][i] != w {
			t.Errorf("col %d = %q, want %q", i, records[1][i], w)
		}
	}
}

func TestWriteLeads_CSVNeutralizesFormulas(t *testing.T) {
	leads := sampleLeads()
	leads[0].CompanyName = `=HYPERLINK("http://evil.example","Click")`
	leads[0].Email = "@SUM(1+1)@acme.com"
	leads[0].BaseSalary = -5

	var buf bytes.Buffer
	if err := WriteLeads(&buf, FormatCSV, leads); err != nil {
		t.Fatalf("WriteLeads: %v", err)
	}
	records, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if got := records[1][0]; got != `'=HYPERLINK("http://evil.example","Click")` {
		t.Errorf("company = %q", got)
	}
	if got := records[1][1]; got != "'@SUM(1+1)@acme.com" {
		t.Errorf("email = %q", got)
	}
	if got := records[1][3]; got != "-5" {
		t.Errorf("numbers are not text and stay as is, got %q", got)
	}
}

func TestCSVCell(t *testing.T) {
	cases := map[string]string{
		"=1+1": "'=1+1",
		"+1":   "'+1",
		"-1":   "'-1",
		"@cmd": "'@cmd",
		"\tx":  "'\tx",
		"\rx":  "'\rx",
		"Acme": "Acme",
		"":     "",
		"a=b":  "a=b",
	}
	for in, want := range cases {
		if got := csvCell(in); got != want {
			t.Errorf("csvCell(%q) = %q, want %q", in, got, want)
		}
	}
	if got := csvCell(2.5); got != "2.5" {
		t.Errorf("csvCell(2.5) = %q", got)
	}
}

func TestWriteLeads_XLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLeads(&buf, FormatXLSX, sampleLeads()); err != nil {
		t.Fatalf("WriteLeads: %v", err)
	}
	rows, err := ReadRows(&buf, "leads.xlsx")
	if err != nil {
		t.Fatalf("ReadRows: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d", len(rows))
	}
	if rows[0][0] != "Company Name" || rows[1][1] != "ops@acme.com" {
		t.Errorf("rows = %v", rows)
	}
}

func TestWriteLeads_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteLeads(&buf, FormatCSV, nil); err != nil {
		t.Fatalf("WriteLeads: %v", err)
	}
	records, _ := csv.NewReader(&buf).ReadAll()
	if len(records) != 1 {
		t.Errorf("records = %d, want header only", len(records))
	}
}
