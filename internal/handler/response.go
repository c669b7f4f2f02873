package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sadman/salvage/internal/apperror"
)

// ErrorResponse is the standard error shape for all API endpoints, so the
// frontend always knows what fields to expect regardless of status code.
type ErrorResponse struct {
	Error   string `json:"error"`   // machine-readable error type, e.g. "not_found"
	Message string `json:"message"` // human-readable description
}

// writeJSON sends a JSON response with the given status code.
// Headers and status must go out before the body; once Encode writes,
// header changes are silently ignored.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are already sent — logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError maps a domain error to an HTTP status and sends the standard
// error shape. The service layer returns apperror sentinels; this is the
// only place they become status codes.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrUpstream):
			status = http.StatusBadGateway
			errorType = "upstream_error"
		case errors.Is(err, apperror.ErrStorage):
			// Storage details stay in the logs; the client sees a
			// generic message.
			errorType = "storage_error"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
		})
		return
	}

	// Unknown error — never leak internal details to the client.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
