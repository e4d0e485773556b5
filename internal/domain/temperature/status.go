package temperature

import (
	"errors"
	"net/http"

	"temperature-history/internal/ports/healthplatform"
)

// HTTPStatus traduce los errores del dominio a status HTTP.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrInvalidInput), errors.Is(err, ErrOutOfRange):
		return http.StatusBadRequest
	case errors.Is(err, ErrPermissionDenied):
		return http.StatusForbidden
	case errors.Is(err, healthplatform.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrPlatformUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, ErrPlatformOperationFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ErrorCode es el código estable del campo "error" para err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrOutOfRange):
		return "out_of_range"
	case errors.Is(err, ErrPermissionDenied):
		return "permission_denied"
	case errors.Is(err, healthplatform.ErrRecordNotFound):
		return "record_not_found"
	case errors.Is(err, ErrPlatformUnavailable):
		return "platform_unavailable"
	case errors.Is(err, ErrPlatformOperationFailed):
		return "platform_operation_failed"
	default:
		return "internal"
	}
}
