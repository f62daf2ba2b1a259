package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dinhcongdat866/moneytracker/internal/adapter/http/dto"
	"github.com/dinhcongdat866/moneytracker/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// writeDomainError maps err and writes it. Validation failures keep their
// field and message; anything unmapped is reported as fallback.
func writeDomainError(w http.ResponseWriter, err error, fallback string) {
	status := mapDomainError(err)

	var apiErr *domain.APIError
	switch {
	case errors.As(err, &apiErr) && status == http.StatusBadRequest:
		writeJSON(w, status, dto.ErrorResponse{Error: apiErr.Message, Field: apiErr.Field})
	case status == http.StatusNotFound:
		writeError(w, status, "Not found", "")
	case status == http.StatusUnauthorized:
		writeError(w, status, "Invalid email or password.", "")
	default:
		writeError(w, status, fallback, err.Error())
	}
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrTransactionNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// parseIntQuery parses an integer query parameter with a default value.
func parseIntQuery(r *http.Request, key string, defaultValue int) int {
	val := r.URL.Query().Get(key)
	if val == "" {
		return defaultValue
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultValue
	}
	return i
}
