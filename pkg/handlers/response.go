package handlers

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
)

// ErrorResponse writes a JSON error response and returns any encoding error.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode, message string) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}

// respond writes data and logs a failed write.
func respond(w http.ResponseWriter, logger *zap.Logger, statusCode int, data any) {
	if err := WriteJSON(w, statusCode, data); err != nil {
		logger.Error("Failed to write response", zap.Error(err))
	}
}

func respondError(w http.ResponseWriter, logger *zap.Logger, statusCode int, errorCode, message string) {
	if err := ErrorResponse(w, statusCode, errorCode, message); err != nil {
		logger.Error("Failed to write error response", zap.Error(err))
	}
}

// writeServiceError maps a service error to its status code. Single-resource
// lookups answer a missing record with 404 and an empty body; store failures
// never leak their text to the client.
func writeServiceError(w http.ResponseWriter, logger *zap.Logger, err error) {
	var validationErrs validator.ValidationErrors

	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		w.WriteHeader(http.StatusNotFound)
	case errors.As(err, &validationErrs):
		respondError(w, logger, http.StatusBadRequest, "validation_error", describeValidation(validationErrs))
	case errors.Is(err, apperrors.ErrValidation):
		respondError(w, logger, http.StatusBadRequest, "validation_error", err.Error())
	case errors.Is(err, apperrors.ErrConflict):
		respondError(w, logger, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, apperrors.ErrInvalidReference):
		respondError(w, logger, http.StatusUnprocessableEntity, "invalid_reference", err.Error())
	default:
		logger.Error("Request failed", zap.Error(err))
		respondError(w, logger, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}
