package services

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/secom-mes/mes-engine/pkg/apperrors"
)

// expected reports whether err is an outcome the caller maps to a 4xx
// response rather than a store failure.
func expected(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound) ||
		errors.Is(err, apperrors.ErrValidation) ||
		errors.Is(err, apperrors.ErrConflict) ||
		errors.Is(err, apperrors.ErrInvalidReference)
}

// logFailure logs store failures at ERROR and expected outcomes at DEBUG.
func logFailure(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.Error(err))
	if expected(err) {
		logger.Debug(msg, fields...)
		return
	}
	logger.Error(msg, fields...)
}

func validationError(format string, args ...any) error {
	return fmt.Errorf("%w: %s", apperrors.ErrValidation, fmt.Sprintf(format, args...))
}
