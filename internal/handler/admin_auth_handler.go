package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/inhousecost/backend/internal/service"
	"github.com/inhousecost/backend/pkg/auth"
)

// AdminAuthHandler handles the admin password login.
type AdminAuthHandler struct {
	svc          service.AdminAuthService
	secureCookie bool
}

// NewAdminAuthHandler creates the handler. secureCookie marks the session
// cookie Secure and should be true whenever the API is served over HTTPS.
func NewAdminAuthHandler(svc service.AdminAuthService, secureCookie bool) *AdminAuthHandler {
	return &AdminAuthHandler{svc: svc, secureCookie: secureCookie}
}

// Login handles POST /api/admin/auth.
func (h *AdminAuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Password string `json:"password"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}

	token, expiresAt, err := h.svc.Login(r.Context(), req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPassword):
			writeError(w, http.StatusUnauthorized, "invalid_password")
		case errors.Is(err, service.ErrAuthNotConfigured):
			slog.Error("admin login attempted without a configured password")
			writeError(w, http.StatusInternalServerError, "auth_not_configured")
		default:
			writeServiceError(w, err, "login_failed")
		}
		return
	}

	http.SetCookie(w, auth.NewSessionCookie(token, expiresAt, h.secureCookie))
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":        true,
		"expiresAt": expiresAt.UTC().Format(time.RFC3339),
	})
}

// Logout handles POST /api/admin/logout.
func (h *AdminAuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, auth.ClearSessionCookie(h.secureCookie))
	writeOK(w)
}

// Session handles GET /api/admin/session (admin required).
func (h *AdminAuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	subject, ok := auth.AdminFromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"authenticated": true, "subject": subject})
}
