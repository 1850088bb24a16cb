package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/memecat/memecat"
)

// ErrorResponse represents a JSON error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// WriteError writes a JSON error response
func WriteError(w http.ResponseWriter, code int, errCode, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(ErrorResponse{
		Error:   errCode,
		Message: message,
	}); err != nil {
		slog.Error("failed to encode error response", "error", err)
	}
}

// HandleError writes the response matching the sentinel error kind.
// Lookup misses become 404, unconfirmed blob writes 422, credential and
// token failures 400/401, backend outages 503.
func HandleError(w http.ResponseWriter, err error) {
	slog.Error("request error", "error", err)

	switch {
	case errors.Is(err, memecat.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "Not found")
	case errors.Is(err, memecat.ErrUnprocessable):
		WriteError(w, http.StatusUnprocessableEntity, "unprocessable_entity", "Data is in wrong format")
	case errors.Is(err, memecat.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "invalid_input", "Invalid input")
	case errors.Is(err, memecat.ErrInvalidCredentials):
		WriteError(w, http.StatusBadRequest, "invalid_credentials", "Incorrect username or password")
	case errors.Is(err, memecat.ErrInvalidToken), errors.Is(err, memecat.ErrUserNotFound):
		WriteError(w, http.StatusUnauthorized, "invalid_token", "Could not validate credentials")
	case errors.Is(err, memecat.ErrAuthenticationFailed):
		WriteError(w, http.StatusUnauthorized, "authentication_failed", "Authentication against blob store failed")
	case errors.Is(err, memecat.ErrStorageUnavailable):
		WriteError(w, http.StatusServiceUnavailable, "storage_unavailable", "Blob store unavailable")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, code int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	return json.NewEncoder(w).Encode(data)
}
