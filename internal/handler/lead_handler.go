package handler

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/service"
	"github.com/inhousecost/backend/internal/spreadsheet"
)

// LeadHandler handles lead capture and the admin lead screens.
type LeadHandler struct {
	svc service.LeadService
}

// NewLeadHandler creates a LeadHandler.
func NewLeadHandler(svc service.LeadService) *LeadHandler {
	return &LeadHandler{svc: svc}
}

// leadRequest is the calculator form plus contact details. Client-computed
// figures (calculatedSavings, calculatedCosts) are not read; the snapshot is
// recomputed from stored rates.
type leadRequest struct {
	estimateRequest
	CompanyName string `json:"companyName"`
	Email       string `json:"email"`
}

// Submit handles POST /api/leads.
func (h *LeadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req leadRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	in, err := req.input()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_inclusion")
		return
	}

	lead, err := h.svc.Submit(r.Context(), service.LeadSubmission{
		CompanyName:   req.CompanyName,
		Email:         req.Email,
		EstimateInput: in,
	})
	if err != nil {
		writeServiceError(w, err, "lead_failed", "email_domain", emailDomain(req.Email))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"leadId":    lead.ID,
		"emailSent": lead.EmailSent,
	})
}

// emailDomain keeps addresses out of the logs.
func emailDomain(email string) string {
	if i := strings.LastIndex(email, "@"); i >= 0 {
		return email[i+1:]
	}
	return ""
}

// Assessments handles GET /api/admin/cost-assessments.
func (h *LeadHandler) Assessments(w http.ResponseWriter, r *http.Request) {
	leads, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	if leads == nil {
		leads = []*model.Lead{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"assessments": leads, "count": len(leads)})
}

// Export handles GET /api/admin/cost-assessments/export?format=csv|xlsx.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	format, err := spreadsheet.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "unsupported_format")
		return
	}
	leads, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "export_failed")
		return
	}

	setDownloadHeaders(w, format, "cost-assessments")
	if err := spreadsheet.WriteLeads(w, format, leads); err != nil {
		slog.Error("write lead export failed", "error", err, "format", format)
	}
}

// Users handles GET /api/admin/users.
func (h *LeadHandler) Users(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Users(r.Context())
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	users := res.Users
	if users == nil {
		users = []*model.LeadUser{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"users":            users,
		"count":            len(users),
		"totalAssessments": res.TotalAssessments,
	})
}

// DeleteUser handles DELETE /api/admin/users/{id}. Every lead sharing the
// email of lead {id} is removed.
func (h *LeadHandler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return
	}
	n, err := h.svc.DeleteUser(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, "delete_failed", "lead_id", id)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "deleted": n})
}
