package handler

import (
	"net/http"
	"strconv"

	"github.com/inhousecost/backend/internal/model"
	"github.com/inhousecost/backend/internal/service"
)

// RoleCategoryHandler serves role categories to the calculator and the admin screen.
type RoleCategoryHandler struct {
	svc service.RoleCategoryService
}

// NewRoleCategoryHandler creates a RoleCategoryHandler.
func NewRoleCategoryHandler(svc service.RoleCategoryService) *RoleCategoryHandler {
	return &RoleCategoryHandler{svc: svc}
}

type roleCategoryRequest struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	MonthlyCost *float64 `json:"monthlyCost"`
}

// List handles GET /api/role-categories and GET /api/admin/cost-categories.
func (h *RoleCategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context())
	if err != nil {
		writeServiceError(w, err, "list_failed")
		return
	}
	if cats == nil {
		cats = []*model.RoleCategory{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": cats, "count": len(cats)})
}

// Create handles POST /api/admin/cost-categories.
func (h *RoleCategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req roleCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.svc.Create(r.Context(), req.Name, req.Description, req.MonthlyCost)
	if err != nil {
		writeServiceError(w, err, "create_failed")
		return
	}
	writeJSON(w, http.StatusCreated, cat)
}

// Update handles PUT /api/admin/cost-categories/{id}.
func (h *RoleCategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}
	var req roleCategoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	cat, err := h.svc.Update(r.Context(), id, model.RoleCategoryPatch{
		Name:        req.Name,
		Description: req.Description,
		MonthlyCost: req.MonthlyCost,
	})
	if err != nil {
		writeServiceError(w, err, "update_failed", "category_id", id)
		return
	}
	writeJSON(w, http.StatusOK, cat)
}

// Delete handles DELETE /api/admin/cost-categories/{id}.
func (h *RoleCategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := categoryID(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err, "delete_failed", "category_id", id)
		return
	}
	writeOK(w)
}

func categoryID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(r.PathValue("id"))
	if err != nil || id <= 0 {
		writeError(w, http.StatusBadRequest, "invalid_id")
		return 0, false
	}
	return id, true
}
