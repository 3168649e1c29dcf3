package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Raymond9734/customer-management-backend/internal/models"
)

// handleError maps service errors to HTTP responses
func handleError(w http.ResponseWriter, err error, logger *slog.Logger) {
	var verr *models.ValidationError
	if errors.As(err, &verr) && !verr.Empty() {
		respondValidationError(w, verr.Messages())
		return
	}

	var appErr *models.AppError
	if errors.As(err, &appErr) {
		status := mapErrorCodeToHTTPStatus(appErr.Code)
		if status == http.StatusInternalServerError {
			logger.Error("internal server error", slog.String("error", err.Error()))
			respondError(w, status, "INTERNAL_ERROR", "An unexpected error occurred")
			return
		}
		respondError(w, status, appErr.Code, appErr.Message)
		return
	}

	switch {
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())

	case errors.Is(err, models.ErrConflict):
		respondError(w, http.StatusConflict, "CONFLICT", err.Error())

	default:
		// internal details stay in the log
		logger.Error("internal server error",
			slog.String("error", err.Error()),
		)
		respondError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "An unexpected error occurred")
	}
}

// mapErrorCodeToHTTPStatus maps error codes to HTTP status codes
func mapErrorCodeToHTTPStatus(code string) int {
	switch code {
	case "INVALID_INPUT":
		return http.StatusBadRequest
	case "NOT_FOUND":
		return http.StatusNotFound
	case "CONFLICT":
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
