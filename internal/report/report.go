// Package report renders the cost analysis email sent to a lead.
package report

import (
	"bytes"
	"embed"
	"fmt"
	htmltemplate "html/template"
	texttemplate "text/template"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/inhousecost/backend/internal/calculator"
)

//go:embed templates/*
var templateFS embed.FS

var printer = message.NewPrinter(language.AmericanEnglish)

var funcs = map[string]any{
	"usd":     FormatUSD,
	"percent": FormatPercent,
	"number":  FormatNumber,
}

var (
	htmlTmpl = htmltemplate.Must(htmltemplate.New("lead_report.html.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/lead_report.html.tmpl"))
	textTmpl = texttemplate.Must(texttemplate.New("lead_report.txt.tmpl").Funcs(funcs).ParseFS(templateFS, "templates/lead_report.txt.tmpl"))
)

// LeadReport is the data shown in the email.
type LeadReport struct {
	CompanyName       string
	State             string
	RoleName          string
	BaseMonthlySalary float64
	FTECount          float64
	InHouseMonthly    float64
	ProviderMonthly   float64
	AnnualSavings     float64
	SavingsPercentage float64
	Inclusions        calculator.Inclusions
	ContactURL        string
}

// Category is one row of the "included in your calculation" list.
type Category struct {
	Name     string
	Included bool
}

// Categories lists every inclusion key in canonical order with its selection.
func (r LeadReport) Categories() []Category {
	keys := calculator.AllInclusionKeys()
	out := make([]Category, 0, len(keys))
	for _, k := range keys {
		out = append(out, Category{Name: calculator.DisplayName(k), Included: r.Inclusions[k]})
	}
	return out
}

// StateName expands a two-letter abbreviation; full names pass through.
func (r LeadReport) StateName() string {
	return calculator.StateFullName(r.State)
}

// Rendered is a subject line with both bodies.
type Rendered struct {
	Subject string
	Text    string
	HTML    string
}

// Subject is the email subject for the given savings percentage.
func Subject(savingsPct float64) string {
	return fmt.Sprintf("Your LSG Cost Analysis: %s%% Potential Savings", FormatPercent(savingsPct))
}

func Render(r LeadReport) (*Rendered, error) {
	var html, text bytes.Buffer
	if err := htmlTmpl.Execute(&html, r); err != nil {
		return nil, fmt.Errorf("render html report: %w", err)
	}
	if err := textTmpl.Execute(&text, r); err != nil {
		return nil, fmt.Errorf("render text report: %w", err)
	}
	return &Rendered{
		Subject: Subject(r.SavingsPercentage),
		Text:    text.String(),
		HTML:    html.String(),
	}, nil
}

// FormatUSD rounds to cents and groups thousands: 5000 -> "$5,000", 12.5 -> "$12.50".
func FormatUSD(v float64) string {
	d := decimal.NewFromFloat(v).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	if d.IsInteger() {
		return sign + "$" + printer.Sprintf("%d", d.IntPart())
	}
	f, _ := d.Float64()
	return sign + "$" + printer.Sprintf("%.2f", f)
}

// FormatPercent renders one decimal place, rounding half away from zero.
func FormatPercent(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(1)
}

// FormatNumber drops trailing zeros: 2 -> "2", 2.50 -> "2.5".
func FormatNumber(v float64) string {
	return decimal.NewFromFloat(v).Round(2).String()
}
