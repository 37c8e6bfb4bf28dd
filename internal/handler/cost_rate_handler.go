package handler

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/service"
	"github.com/inhousecost/backend/internal/spreadsheet"
)

// CostRateHandler serves the admin state-cost screens.
type CostRateHandler struct {
	svc            service.CostRateService
	maxUploadBytes int64
}

// NewCostRateHandler creates a CostRateHandler. Uploads larger than
// maxUploadBytes are rejected with 413.
func NewCostRateHandler(svc service.CostRateService, maxUploadBytes int64) *CostRateHandler {
	return &CostRateHandler{svc: svc, maxUploadBytes: maxUploadBytes}
}

type costRateRequest struct {
	State           string   `json:"state"`
	Category        string   `json:"category"`
	Item            string   `json:"item"`
	RatePercent     *float64 `json:"ratePercent"`
	EmployerCostUSD *float64 `json:"employerCostUSD"`
	Notes           *string  `json:"notes"`
	Source          *string  `json:"source"`
}

// decodeCostRate reads the body and rejects a missing ratePercent, which the
// zero value would otherwise hide.
func decodeCostRate(w http.ResponseWriter, r *http.Request) (model.CostRateInput, bool) {
	var req costRateRequest
	if !decodeJSON(w, r, &req) {
		return model.CostRateInput{}, false
	}
	if req.RatePercent == nil {
		writeError(w, http.StatusBadRequest, "missing_required_fields")
		return model.CostRateInput{}, false
	}
	in := model.CostRateInput{
		State:       req.State,
		Category:    req.Category,
		Item:        req.Item,
		RatePercent: *req.RatePercent,
		Notes:       req.Notes,
		Source:      req.Source,
	}
	if req.EmployerCostUSD != nil {
		in.EmployerCostUSD = *req.EmployerCostUSD
	}
	return in, true
}

// rateID validates the path id. Malformed ids cannot exist, so they are 404.
func rateID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if _, err := uuid.Parse(id); err != nil {
		writeError(w, http.StatusNotFound, "not_found")
		return "", false
	}
	return id, true
}

// List handles GET /api/admin/state-costs[?state=].
func (h *CostRateHandler) List(w http.ResponseWriter, r *http.Request) {
	rates, err := h.svc.List(r.Context(), r.URL.Query().Get("state"))
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	if rates == nil {
		rates = []*model.CostRate{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"rates": rates, "count": len(rates)})
}

// Create handles POST /api/admin/state-costs.
func (h *CostRateHandler) Create(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeCostRate(w, r)
	if !ok {
		return
	}
	rate, err := h.svc.Create(r.Context(), in)
	if err != nil {
		writeServiceError(w, err, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, rate)
}

// Update handles PUT /api/admin/state-costs/{id}.
func (h *CostRateHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := rateID(w, r)
	if !ok {
		return
	}
	in, ok := decodeCostRate(w, r)
	if !ok {
		return
	}
	rate, err := h.svc.Update(r.Context(), id, in)
	if err != nil {
		writeServiceError(w, err, "update_failed", "rate_id", id)
		return
	}
	writeJSON(w, http.StatusOK, rate)
}

// Delete handles DELETE /api/admin/state-costs/{id}.
func (h *CostRateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := rateID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete_failed", "rate_id", id)
		return
	}
	writeOK(w)
}

// Upload handles POST /api/admin/state-costs/upload (multipart field "file").
// The whole file is validated before anything is written.
func (h *CostRateHandler) Upload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "file_too_large")
			return
		}
		writeError(w, http.StatusBadRequest, "invalid_multipart")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file_required")
		return
	}
	defer file.Close()

	rows, err := spreadsheet.ParseCostRates(file, header.Filename)
	if err != nil {
		writeUploadError(w, err, header.Filename)
		return
	}

	summary, err := h.svc.Upload(r.Context(), rows)
	if err != nil {
		writeServiceError(w, err, "upload_failed", "filename", header.Filename)
		return
	}
	slog.Info("cost rates uploaded",
		"filename", header.Filename,
		"rows", summary.TotalRows,
		"created", summary.Created,
		"updated", summary.Updated,
		"failed", len(summary.Errors),
	)

	resp := map[string]any{
		"summary": map[string]int{
			"totalRows": summary.TotalRows,
			"created":   summary.Created,
			"updated":   summary.Updated,
			"errors":    len(summary.Errors),
		},
	}
	if len(summary.Errors) > 0 {
		resp["details"] = summary.Errors
	}
	writeJSON(w, http.StatusOK, resp)
}

func writeUploadError(w http.ResponseWriter, err error, filename string) {
	var rowErrs *spreadsheet.RowErrors
	var missing *spreadsheet.MissingHeadersError
	switch {
	case errors.As(err, &rowErrs):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":      "csv_validation_failed",
			"details":    rowErrs.Details(),
			"errorCount": len(rowErrs.Messages),
		})
	case errors.As(err, &missing):
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":   "missing_headers",
			"details": missing.Headers,
		})
	case errors.Is(err, spreadsheet.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "unsupported_file_type")
	case errors.Is(err, spreadsheet.ErrTooFewRows):
		writeError(w, http.StatusBadRequest, "too_few_rows")
	case errors.Is(err, spreadsheet.ErrNoDataRows):
		writeError(w, http.StatusBadRequest, "no_data_rows")
	default:
		slog.Warn("unreadable upload", "error", err, "filename", filename)
		writeError(w, http.StatusBadRequest, "unreadable_file")
	}
}

// Template handles GET /api/admin/state-costs/template?format=csv|xlsx.
func (h *CostRateHandler) Template(w http.ResponseWriter, r *http.Request) {
	format, err := spreadsheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported_format")
		return
	}
	setDownloadHeaders(w, format, "state-costs-template")
	if err := spreadsheet.WriteCostRateTemplate(w, format); err != nil {
		slog.Error("write cost rate template failed", "error", err, "format", format)
	}
}

func setDownloadHeaders(w http.ResponseWriter, format spreadsheet.Format, basename string) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s.%s"`, basename, format))
}
