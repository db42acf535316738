package endpoints

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/jackzampolin/spellpane/internal/workflow"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is a standard error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, ErrorResponse{Error: msg})
}

// workflowStatus maps a workflow failure to an HTTP status.
func workflowStatus(err error) int {
	switch {
	case errors.Is(err, workflow.ErrNoEntry):
		return http.StatusNotFound
	case errors.Is(err, workflow.ErrInvalidAction):
		return http.StatusBadRequest
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusConflict
	case errors.Is(err, workflow.ErrNoInput):
		return http.StatusUnprocessableEntity
	case errors.Is(err, workflow.ErrNetwork):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
