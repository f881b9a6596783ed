package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"perpusum-backend/internal/domain"
	"perpusum-backend/internal/logger"
)

type apiResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Data    any               `json:"data,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
	Days    *int              `json:"days,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error("Failed to encode response", "error", err)
	}
}

func respondSuccess(w http.ResponseWriter, status int, message string, data any) {
	writeJSON(w, status, apiResponse{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apiResponse{Success: false, Message: message})
}

// respondFromError maps the error taxonomy onto HTTP statuses: validation
// failures 400, auth failures 401, not-found 404, conflicts 409 and
// business-rule denials 422. Anything else is a 500 with a generic message.
func respondFromError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		writeJSON(w, http.StatusBadRequest, apiResponse{
			Success: false,
			Message: "Validasi gagal",
			Errors:  validationErr.Fields,
		})
		return
	}

	var denial *domain.RuleDenialError
	if errors.As(err, &denial) {
		writeJSON(w, http.StatusUnprocessableEntity, apiResponse{
			Success: false,
			Message: denial.Reason,
			Days:    &denial.Days,
		})
		return
	}

	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrConflict), errors.Is(err, domain.ErrSequenceExhausted):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, domain.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("Request failed", "error", err)
		respondError(w, http.StatusInternalServerError, "Terjadi kesalahan pada server")
	}
}
