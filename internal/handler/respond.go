package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/inhousecost/backend/internal/repository"
	"github.com/inhousecost/backend/internal/service"
)

// maxJSONBody caps request bodies for JSON endpoints.
const maxJSONBody = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]string{"error": code})
}

func writeOK(w http.ResponseWriter) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// decodeJSON reads a JSON body into v, writing 400 invalid_json on failure.
// An empty body decodes to the zero value.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxJSONBody)).Decode(v); err != nil && !errors.Is(err, io.EOF) {
		writeError(w, http.StatusBadRequest, "invalid_json")
		return false
	}
	return true
}

// writeServiceError maps service and repository errors onto status codes.
// Unknown errors are logged and reported with fallback as the code.
func writeServiceError(w http.ResponseWriter, err error, fallback string, attrs ...any) {
	if ve, ok := service.AsValidationError(err); ok {
		writeError(w, http.StatusBadRequest, ve.Code)
		return
	}
	switch {
	case errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found")
	case errors.Is(err, service.ErrDuplicateName), errors.Is(err, repository.ErrConflict):
		writeError(w, http.StatusConflict, "duplicate_name")
	default:
		slog.Error(fallback, append([]any{"error", err}, attrs...)...)
		writeError(w, http.StatusInternalServerError, fallback)
	}
}
