package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/inhousecost/backend/internal/model"
)

// Upload column headers. The first four are required.
const (
	HeaderState    = "State"
	HeaderCategory = "Category"
	HeaderItem     = "Item"
	HeaderRate     = "Rate % of Wage"
	HeaderCost     = "Cost (USD) (Optional)"
	HeaderNotes    = "Notes (Optional)"
	HeaderSource   = "Source (Optional)"
)

// MaxReportedErrors caps the row errors returned to the client.
const MaxReportedErrors = 10

// CostRateHeaders lists the upload columns in template order.
func CostRateHeaders() []string {
	return []string{HeaderState, HeaderCategory, HeaderItem, HeaderRate, HeaderCost, HeaderNotes, HeaderSource}
}

var (
	ErrTooFewRows = errors.New("file must contain at least a header row and one data row")
	ErrNoDataRows = errors.New("no valid data rows found")
)

// MissingHeadersError lists required headers absent from the first row.
type MissingHeadersError struct {
	Headers []string
}

func (e *MissingHeadersError) Error() string {
	return "missing required headers: " + strings.Join(e.Headers, ", ")
}

// RowErrors collects every row that failed validation. No row is imported when
// this error is returned.
type RowErrors struct {
	Messages []string
}

func (e *RowErrors) Error() string {
	return fmt.Sprintf("%d row(s) failed validation", len(e.Messages))
}

// Details returns at most MaxReportedErrors messages.
func (e *RowErrors) Details() []string {
	if len(e.Messages) > MaxReportedErrors {
		return e.Messages[:MaxReportedErrors]
	}
	return e.Messages
}

// ParseCostRates reads an upload file and validates every data row.
func ParseCostRates(reader io.Reader, filename string) ([]model.CostRateInput, error) {
	rows, err := ReadRows(reader, filename)
	if err != nil {
		return nil, err
	}
	return CostRatesFromRows(rows)
}

// CostRatesFromRows validates rows whose first non-blank row is the header.
// Rows lacking state, category or item are skipped. Row numbers in messages
// count the header as row 1 and ignore blank lines.
func CostRatesFromRows(rows [][]string) ([]model.CostRateInput, error) {
	var nonBlank [][]string
	for _, row := range rows {
		if !isBlankRow(row) {
			nonBlank = append(nonBlank, row)
		}
	}
	if len(nonBlank) < 2 {
		return nil, ErrTooFewRows
	}

	headerIndex := map[string]int{}
	for i, header := range nonBlank[0] {
		key := normalizeHeader(strings.Trim(header, `"`))
		if _, dup := headerIndex[key]; !dup {
			headerIndex[key] = i
		}
	}
	var missing []string
	for _, h := range []string{HeaderState, HeaderCategory, HeaderItem, HeaderRate} {
		if _, ok := headerIndex[normalizeHeader(h)]; !ok {
			missing = append(missing, h)
		}
	}
	if len(missing) > 0 {
		return nil, &MissingHeadersError{Headers: missing}
	}
	col := func(h string) int {
		if idx, ok := headerIndex[normalizeHeader(h)]; ok {
			return idx
		}
		return -1
	}
	stateIdx, categoryIdx, itemIdx := col(HeaderState), col(HeaderCategory), col(HeaderItem)
	rateIdx, costIdx, notesIdx, sourceIdx := col(HeaderRate), col(HeaderCost), col(HeaderNotes), col(HeaderSource)

	var (
		inputs []model.CostRateInput
		errs   []string
		seen   int
	)
	for i, row := range nonBlank[1:] {
		rowNum := i + 2
		state, category, item := cellValue(row, stateIdx), cellValue(row, categoryIdx), cellValue(row, itemIdx)
		if state == "" || category == "" || item == "" {
			continue
		}
		seen++

		rawRate := cellValue(row, rateIdx)
		if rawRate == "" {
			errs = append(errs, fmt.Sprintf("Row %d: Missing required fields", rowNum))
			continue
		}
		rate, ok := parseNumber(rawRate)
		if !ok || rate < 0 || rate > 100 {
			errs = append(errs, fmt.Sprintf("Row %d: Invalid rate percentage (must be 0-100)", rowNum))
			continue
		}

		var cost float64
		if rawCost := cellValue(row, costIdx); rawCost != "" {
			cost, ok = parseNumber(rawCost)
			if !ok || cost < 0 {
				errs = append(errs, fmt.Sprintf("Row %d: Invalid cost amount", rowNum))
				continue
			}
		}

		inputs = append(inputs, model.CostRateInput{
			State:           state,
			Category:        category,
			Item:            item,
			RatePercent:     rate,
			EmployerCostUSD: cost,
			Notes:           optional(cellValue(row, notesIdx)),
			Source:          optional(cellValue(row, sourceIdx)),
		})
	}

	if seen == 0 {
		return nil, ErrNoDataRows
	}
	if len(errs) > 0 {
		return nil, &RowErrors{Messages: errs}
	}
	return inputs, nil
}

// WriteCostRateTemplate writes an empty upload sheet carrying only the header row.
func WriteCostRateTemplate(w io.Writer, format Format) error {
	return writeTable(w, format, "Cost Rates", CostRateHeaders(), nil)
}

// parseNumber accepts plain decimals plus the "%", "$" and thousands separators
// spreadsheet users tend to leave in.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimPrefix(s, "$")
	s = strings.ReplaceAll(s, ",", "")
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
